//go:build !tinygo && !cgo

package hal

// hostBuzzer is silent when the window backend is unavailable.
type hostBuzzer struct{}

func newHostBuzzer() *hostBuzzer { return &hostBuzzer{} }

func (b *hostBuzzer) set(level bool) {}

func (b *hostBuzzer) start() error { return nil }
