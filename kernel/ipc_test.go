package kernel

import (
	"runtime"
	"sync"
	"testing"
)

type event struct {
	pin uint8
	on  bool
	id  uint32
}

func TestMailboxTryRecvEmpty(t *testing.T) {
	var mb Mailbox[event]

	_, ok := mb.TryRecv()
	if ok {
		t.Fatalf("TryRecv() ok = true, want false")
	}
}

func TestMailboxTrySendFull(t *testing.T) {
	var mb Mailbox[event]

	for lap := 0; lap < 3; lap++ {
		for i := 0; i < mailboxSlots; i++ {
			if ok := mb.TrySend(event{id: uint32(i)}); !ok {
				t.Fatalf("lap %d: TrySend() ok = false at slot %d, want true", lap, i)
			}
		}
		if ok := mb.TrySend(event{}); ok {
			t.Fatalf("lap %d: TrySend() ok = true when full, want false", lap)
		}

		for i := 0; i < mailboxSlots; i++ {
			ev, ok := mb.TryRecv()
			if !ok {
				t.Fatalf("lap %d: TryRecv() ok = false at slot %d, want true", lap, i)
			}
			if ev.id != uint32(i) {
				t.Fatalf("lap %d: TryRecv() id = %d, want %d", lap, ev.id, i)
			}
		}
		if _, ok := mb.TryRecv(); ok {
			t.Fatalf("lap %d: TryRecv() ok = true when drained", lap)
		}
	}
}

func TestMailboxDrain(t *testing.T) {
	var mb Mailbox[event]
	mb.TrySend(event{pin: 14, on: true})
	mb.TrySend(event{pin: 15, on: true})

	var got []uint8
	if n := mb.Drain(func(ev event) { got = append(got, ev.pin) }); n != 2 {
		t.Fatalf("Drain() = %d, want 2", n)
	}
	if len(got) != 2 || got[0] != 14 || got[1] != 15 {
		t.Fatalf("Drain() order = %v, want [14 15]", got)
	}
}

func TestMailboxConcurrentProducers(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		producers = 4
		perProd   = 10_000
		total     = producers * perProd
	)

	var mb Mailbox[event]

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(producers)
	for producerID := 0; producerID < producers; producerID++ {
		go func(producerID int) {
			defer wg.Done()
			<-start
			for i := 0; i < perProd; i++ {
				mb.Send(event{pin: uint8(producerID), id: uint32(producerID*perProd + i)})
			}
		}(producerID)
	}
	close(start)

	seen := make([]bool, total)
	next := make([]uint32, producers)
	for i := 0; i < total; i++ {
		ev := mb.Recv()
		if int(ev.id) >= total {
			t.Fatalf("Recv() id = %d, want < %d", ev.id, total)
		}
		if seen[ev.id] {
			t.Fatalf("Recv() duplicate id %d", ev.id)
		}
		seen[ev.id] = true

		// Per-producer FIFO.
		if want := uint32(ev.pin)*perProd + next[ev.pin]; ev.id != want {
			t.Fatalf("Recv() producer %d id = %d, want %d", ev.pin, ev.id, want)
		}
		next[ev.pin]++
	}

	wg.Wait()
}
