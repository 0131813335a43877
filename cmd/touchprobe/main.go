//go:build !tinygo

// Command touchprobe finds a GT911 touch controller on a Linux I2C bus,
// prints its identity and then streams touch samples.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"tftdeck/gt911"
	"tftdeck/hal"

	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

func main() {
	bus := flag.String("i2c", "", "I2C bus name (empty = first).")
	n := flag.Int("n", 0, "Stop after N samples (0 = run until interrupted).")
	interval := flag.Duration("interval", 10*time.Millisecond, "Polling interval.")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *bus, *n, *interval); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "touchprobe:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, bus string, n int, interval time.Duration) error {
	if _, err := host.Init(); err != nil {
		return err
	}
	b, err := hal.OpenPeriphI2C(bus)
	if err != nil {
		return err
	}
	defer b.Close()

	dev, err := probe(b)
	if err != nil {
		return err
	}
	info := dev.Info()
	fmt.Printf("GT%s at %#02x, %dx%d\n", info.Product(), info.Address, info.MaxX, info.MaxY)

	t := time.NewTicker(interval)
	defer t.Stop()
	var last gt911.Sample
	for i := 0; n == 0 || i < n; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		s, err := dev.ReadTouch()
		if err != nil {
			return err
		}
		if s == last {
			continue
		}
		last = s
		i++
		state := "up"
		if s.Pressed {
			state = "down"
		}
		fmt.Printf("%4d,%4d %s\n", s.X, s.Y, state)
	}
	return nil
}

// probe tries the primary address, then the alternate one.
func probe(b drivers.I2C) (*gt911.Device, error) {
	var errs []error
	for _, addr := range []uint16{gt911.Address, gt911.AddressAlt} {
		dev := gt911.NewWithAddress(b, addr)
		err := dev.Configure()
		if err == nil {
			return dev, nil
		}
		errs = append(errs, fmt.Errorf("%#02x: %w", addr, err))
	}
	return nil, errors.Join(errs...)
}
