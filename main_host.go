//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"tftdeck/app"
	"tftdeck/hal"
	"tftdeck/st7796"
)

func main() {
	var cfg hal.HeadlessConfig
	var usePeriph bool
	var orientation string
	pcfg := hal.DefaultPeriphConfig()
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.BoolVar(&cfg.Tap, "tap", false, "Tap the panel centre once a second in headless mode.")
	flag.BoolVar(&usePeriph, "periph", false, "Drive real hardware through periph.io instead of the simulator.")
	flag.StringVar(&pcfg.I2C, "i2c", "", "I2C bus for the touch controller with -periph (empty = first).")
	flag.StringVar(&pcfg.SPI, "spi", "", "SPI port for the panel with -periph (empty = first).")
	flag.StringVar(&orientation, "orientation", "portrait", "Panel orientation: portrait, landscape, portrait-inverted, landscape-inverted.")
	flag.Parse()

	acfg := app.DefaultConfig()
	o, ok := st7796.ParseOrientation(orientation)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown orientation %q\n", orientation)
		os.Exit(2)
	}
	acfg.Orientation = o

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch {
	case usePeriph:
		err = runPeriph(ctx, pcfg, acfg)
	case cfg.Enabled:
		err = hal.RunHeadless(ctx, newApp(ctx, acfg), cfg)
	default:
		err = hal.RunWindow(newApp(ctx, acfg))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp starts the firmware on the simulated board. The returned step
// reports a task failure to the runner.
func newApp(ctx context.Context, cfg app.Config) func(hal.HAL) func() error {
	return func(h hal.HAL) func() error {
		sys, err := app.New(h, cfg)
		if err != nil {
			return func() error { return err }
		}
		errc := make(chan error, 1)
		go func() { errc <- sys.Run(ctx) }()
		return func() error {
			select {
			case err := <-errc:
				if err == nil {
					err = context.Canceled
				}
				return err
			default:
				return nil
			}
		}
	}
}

func runPeriph(ctx context.Context, pcfg hal.PeriphConfig, cfg app.Config) error {
	board, err := hal.NewPeriph(pcfg)
	if err != nil {
		return err
	}
	defer board.Close()

	sys, err := app.New(board, cfg)
	if err != nil {
		return err
	}
	return sys.Run(ctx)
}
