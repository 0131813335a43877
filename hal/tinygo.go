//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"

	"tinygo.org/x/drivers"
)

type tinyGoHAL struct {
	logger  *uartLogger
	i2c     *machine.I2C
	panel   Panel
	buttons []InterruptPin
	leds    []LED
	buzzer  *pinLED
	joy     Joystick
}

// New returns the RP2040 board HAL.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// Touch: I2C0 on GP8 (SDA) / GP9 (SCL), 100 kHz.
// Panel: SPI0 on GP2 (SCK) / GP3 (SDO), 62.5 MHz; CS GP5, DC GP6, RST GP7.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: UARTBaud,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	// The RP2040 I2C pin mode enables the internal pull-ups.
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		SDA:       machine.Pin(PinI2C0SDA),
		SCL:       machine.Pin(PinI2C0SCL),
		Frequency: TouchI2CHz,
	}); err != nil {
		Logf(logger, "hal: i2c0: %v", err)
	}
	time.Sleep(TouchSettleMillis * time.Millisecond)

	spi := machine.SPI0
	if err := spi.Configure(machine.SPIConfig{
		SCK:       machine.Pin(PinSPI0SCK),
		SDO:       machine.Pin(PinSPI0SDO),
		Frequency: PanelSPIHz,
		Mode:      0,
	}); err != nil {
		Logf(logger, "hal: spi0: %v", err)
	}

	machine.InitADC()

	return &tinyGoHAL{
		logger: logger,
		i2c:    i2c,
		panel: Panel{
			SPI: spi,
			CS:  newPinLED(PinLCDCS),
			DC:  newPinLED(PinLCDDC),
			RST: newPinLED(PinLCDRST),
		},
		buttons: []InterruptPin{newIRQPin(PinButton1), newIRQPin(PinButton2)},
		leds:    []LED{newPinLED(PinLED1), newPinLED(PinLED2)},
		buzzer:  newPinLED(PinBuzzer),
		joy:     Joystick{X: newADC(PinJoyX), Y: newADC(PinJoyY)},
	}
}

func (h *tinyGoHAL) Logger() Logger          { return h.logger }
func (h *tinyGoHAL) Touch() drivers.I2C      { return h.i2c }
func (h *tinyGoHAL) Panel() Panel            { return h.panel }
func (h *tinyGoHAL) Buttons() []InterruptPin { return h.buttons }
func (h *tinyGoHAL) LEDs() []LED             { return h.leds }
func (h *tinyGoHAL) Buzzer() LED             { return h.buzzer }
func (h *tinyGoHAL) Joystick() Joystick      { return h.joy }
func (h *tinyGoHAL) Watchdog() Watchdog      { return rpWatchdog{} }
