//go:build rp2040

package main

import (
	"errors"
	"machine"
	"time"

	"penarm/arm/controller"
	"penarm/core"
)

var (
	// Debug counters
	bytesReceived uint32
	queueFull     uint32
	msgerrors     uint32
)

// InitUSB configures machine.Serial, which is USB CDC on RP2040
func InitUSB() {
	_ = machine.Serial.Configure(machine.UARTConfig{})
}

// USBWriteLine writes one debug line to USB
func USBWriteLine(s string) {
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}

// usbReaderLoop feeds the streamed plot file into the serial queue.
// When the queue is full the byte is retried, which stalls the host
// through USB flow control.
func usbReaderLoop(manager *controller.Manager) {
	defer func() {
		if r := recover(); r != nil {
			msgerrors++
			time.Sleep(100 * time.Millisecond)
			go usbReaderLoop(manager)
		}
	}()

	for {
		if machine.Serial.Buffered() == 0 {
			time.Sleep(100 * time.Microsecond)
			continue
		}
		data, err := machine.Serial.ReadByte()
		if err != nil {
			msgerrors++
			time.Sleep(1 * time.Millisecond)
			continue
		}

		for {
			err := manager.ProcessByte(data)
			if err == nil {
				bytesReceived++
				break
			}
			if !errors.Is(err, core.ErrQueueFull) {
				msgerrors++
				break
			}
			queueFull++
			time.Sleep(1 * time.Millisecond)
		}
	}
}
