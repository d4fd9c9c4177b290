//go:build rp2040

package main

import (
	"machine"
	"time"

	"penarm/arm/config"
	"penarm/arm/controller"
	"penarm/core"
	"penarm/drivers/hbridge"
	"penarm/drivers/tmc4210"
)

// motorClockHz is the clock fed to both TMC4210s
const motorClockHz = 20000000

func main() {
	// Disable the watchdog so state from a previous run does not reset us
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitUSB()
	InitClock()
	core.SetDebugWriter(USBWriteLine)
	core.SetDebugEnabled(true)

	gpioDriver := NewRPGPIODriver()
	core.SetGPIODriver(gpioDriver)
	pwmDriver := NewRP2040PWMDriver()
	core.SetPWMDriver(pwmDriver)

	cfg := config.DefaultPlotterConfig()
	mode := GetMode()

	manager, err := controller.NewManagerWithConfig(cfg)
	if err != nil {
		blinkForever()
	}

	hw, err := initHardware(manager)
	if err != nil {
		core.DebugPrintln("[MAIN] hardware: " + err.Error())
		blinkForever()
	}

	var src core.FileSource
	if !mode.Serial {
		src = core.NewBytesSource(embeddedPlot)
	}
	if err := manager.Initialize(hw, src, core.SystemClock{}); err != nil {
		core.DebugPrintln("[MAIN] initialize: " + err.Error())
		blinkForever()
	}

	if mode.Serial {
		go usbReaderLoop(manager)
	}

	// Time is sampled from the hardware timer before every pass
	manager.Scheduler().OnPass(func() {
		UpdateSystemTime()
		time.Sleep(10 * time.Microsecond)
	})
	core.DebugPrintln("[MAIN] plotter ready, mode=" + mode.String())

	// USB writes would stretch control cycles, and in serial mode the
	// same port carries the plot
	core.SetDebugEnabled(false)
	manager.Run()
}

// initHardware brings up the motion controllers, pen motor and panel I/O
func initHardware(manager *controller.Manager) (controller.Hardware, error) {
	cfg := manager.Config()
	pins := cfg.Pins
	gpio := core.MustGPIO()

	if err := StartMotorClock(machine.Pin(pins.MotorClock), motorClockHz); err != nil {
		return controller.Hardware{}, err
	}

	bus, err := ConfigureMotorBus()
	if err != nil {
		return controller.Hardware{}, err
	}

	var joints [2]*tmc4210.Device
	for i, csPin := range [2]uint32{pins.ChipSelect1, pins.ChipSelect2} {
		cs, err := core.NewGPIOOutput(gpio, core.GPIOPin(csPin), false)
		if err != nil {
			return controller.Hardware{}, err
		}
		dev := tmc4210.New(bus, cs)
		s := cfg.Steppers[i]
		err = dev.Configure(tmc4210.Config{
			ClockHz:    motorClockHz,
			VMin:       s.VMin,
			VMax:       s.VMax,
			AMax:       s.AMax,
			StepLength: s.StepLength,
		})
		if err != nil {
			return controller.Hardware{}, err
		}
		joints[i] = dev
	}

	pen := hbridge.New(core.MustPWM(), core.PWMPin(pins.PenA), core.PWMPin(pins.PenB), true)
	if err := pen.Configure(hbridge.DefaultFrequency); err != nil {
		return controller.Hardware{}, err
	}

	button, err := core.NewGPIOInput(gpio, core.GPIOPin(pins.Button), pins.ButtonLow)
	if err != nil {
		return controller.Hardware{}, err
	}
	status, err := core.NewGPIOOutput(gpio, core.GPIOPin(pins.StatusLED), false)
	if err != nil {
		return controller.Hardware{}, err
	}
	audio, err := core.NewGPIOOutput(gpio, core.GPIOPin(pins.Audio), false)
	if err != nil {
		return controller.Hardware{}, err
	}

	return controller.Hardware{
		Joint1: joints[0],
		Joint2: joints[1],
		Pen:    pen,
		Button: button,
		Status: status,
		Audio:  audio,
	}, nil
}

// blinkForever flashes the LED rapidly to signal a startup error
func blinkForever() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
