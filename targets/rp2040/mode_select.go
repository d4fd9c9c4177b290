//go:build rp2040

package main

import _ "embed"

// embeddedPlot is plotted when the firmware runs in file mode
//
//go:embed plot.hpgl
var embeddedPlot []byte

// ModeConfig determines where the plot file comes from
type ModeConfig struct {
	// Serial streams the plot over USB, ending with EOT (0x04).
	// Otherwise the embedded file is plotted on every button press.
	Serial bool
}

func (m ModeConfig) String() string {
	if m.Serial {
		return "serial"
	}
	return "file"
}

// GetMode returns the mode selected at build time.
// Build with -tags serialplot to stream plots over USB.
func GetMode() ModeConfig {
	return ModeConfig{Serial: serialPlot}
}
