//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers"
)

// Motor controller bus: SPI0 on the spi0c pin group. GPIO6/7 belong to
// the pen H-bridge, so the spi0a/b groups are unavailable.
const (
	motorSPIRate = 1000000
	motorSPIMode = 3 // TMC4210 samples on the rising edge, clock idles high
)

var motorBus = struct {
	spi  *machine.SPI
	sck  machine.Pin
	mosi machine.Pin
	miso machine.Pin
}{
	spi:  machine.SPI0,
	sck:  machine.GPIO18,
	mosi: machine.GPIO19,
	miso: machine.GPIO16,
}

// ConfigureMotorBus sets up the SPI bus shared by both TMC4210s
func ConfigureMotorBus() (drivers.SPI, error) {
	err := motorBus.spi.Configure(machine.SPIConfig{
		Frequency: motorSPIRate,
		SCK:       motorBus.sck,
		SDO:       motorBus.mosi, // SDO = Serial Data Out (MOSI)
		SDI:       motorBus.miso, // SDI = Serial Data In (MISO)
		Mode:      motorSPIMode,
	})
	if err != nil {
		return nil, err
	}
	return motorBus.spi, nil
}
