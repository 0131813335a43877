//go:build !tinygo && cgo

package hal

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	buzzerSampleRate = 44100
	buzzerToneHz     = 2000
)

// hostBuzzer plays a square wave through Ebiten's audio package while the
// buzzer pin is high. Audio output starts only once the window is up.
type hostBuzzer struct {
	mu     sync.Mutex
	on     bool
	phase  int
	player *audio.Player
}

func newHostBuzzer() *hostBuzzer {
	return &hostBuzzer{}
}

func (b *hostBuzzer) set(level bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.on = level
}

// start opens the audio device. Ebiten allows one audio context per process.
func (b *hostBuzzer) start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.player != nil {
		return nil
	}
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(buzzerSampleRate)
	}
	p, err := ctx.NewPlayer(&buzzerReader{b: b})
	if err != nil {
		return err
	}
	p.SetVolume(0.2)
	p.Play()
	b.player = p
	return nil
}

type buzzerReader struct {
	b *hostBuzzer
}

// Read produces 16-bit little-endian stereo samples.
func (r *buzzerReader) Read(p []byte) (int, error) {
	b := r.b
	b.mu.Lock()
	defer b.mu.Unlock()

	const half = buzzerSampleRate / buzzerToneHz / 2
	n := len(p) &^ 3
	for i := 0; i < n; i += 4 {
		var s int16
		if b.on {
			s = 8000
			if (b.phase/half)%2 == 1 {
				s = -8000
			}
			b.phase++
		}
		p[i+0] = byte(s)
		p[i+1] = byte(s >> 8)
		p[i+2] = byte(s)
		p[i+3] = byte(s >> 8)
	}
	return n, nil
}
