package hal

import "fmt"

// Board wiring shared by every backend. Pin numbers are RP2040 GPIO numbers;
// other backends map them by name.
const (
	PinUART0TX = 0
	PinUART0RX = 1

	PinSPI0SCK = 2
	PinSPI0SDO = 3
	PinLCDCS   = 5
	PinLCDDC   = 6
	PinLCDRST  = 7

	PinI2C0SDA = 8
	PinI2C0SCL = 9

	PinBuzzer  = 13
	PinButton1 = 14
	PinButton2 = 15
	PinLED1    = 16
	PinLED2    = 17

	PinJoyX = 26 // ADC0
	PinJoyY = 27 // ADC1
)

// Bus speeds.
const (
	TouchI2CHz = 100_000
	PanelSPIHz = 62_500_000
	UARTBaud   = 115_200
)

// TouchSettleMillis is how long the touch bus is left idle after bring-up.
const TouchSettleMillis = 10

// ADCMax is the full-scale value returned by ADC.Read.
const ADCMax = 4095

// PinName returns the board label for a GPIO number.
func PinName(n int) string {
	return fmt.Sprintf("GP%d", n)
}
