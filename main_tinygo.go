//go:build tinygo

package main

import (
	"tftdeck/app"
	"tftdeck/hal"
)

func main() {
	app.Run(hal.New())
}
