// Command penarm-host is the bench tool for the pen plotter: it simulates
// plots against virtual hardware, checks the kinematics for single points,
// and streams plot files to the board over USB serial.
package main

import (
	"flag"
	"os"

	"github.com/abiosoft/ishell"
	"github.com/caarlos0/env/v6"
	"github.com/golang/glog"

	"penarm/arm"
	"penarm/core"
	"penarm/host/serial"
)

// Options are read from the environment, then overridden by flags
type Options struct {
	Device string `env:"PENARM_DEVICE" envDefault:"/dev/ttyACM0"`
	Baud   int    `env:"PENARM_BAUD" envDefault:"115200"`
	Config string `env:"PENARM_CONFIG"`
	Trace  bool   `env:"PENARM_TRACE" envDefault:"false"`
}

// host is the state shared by shell commands
type host struct {
	opts   Options
	config *arm.PlotterConfig
	port   serial.Port
}

const hostKey = "$host"

func main() {
	opts := Options{}
	if err := env.Parse(&opts); err != nil {
		glog.Exitf("environment: %v", err)
	}
	flag.StringVar(&opts.Device, "device", opts.Device, "Serial device path")
	flag.IntVar(&opts.Baud, "baud", opts.Baud, "Baud rate (ignored for USB CDC)")
	flag.StringVar(&opts.Config, "config", opts.Config, "Plotter config, .json or .yaml")
	flag.BoolVar(&opts.Trace, "trace", opts.Trace, "Record the timing ring during simulation")
	flag.Parse()
	defer glog.Flush()

	cfg, err := loadConfigFile(opts.Config)
	if err != nil {
		glog.Exitf("config %s: %v", opts.Config, err)
	}

	core.SetDebugWriter(func(s string) { glog.V(1).Info(s) })
	core.SetDebugEnabled(bool(glog.V(1)))
	core.SetTimingEnabled(opts.Trace)

	h := &host{opts: opts, config: cfg}
	defer h.close()

	shell := ishell.New()
	shell.Set(hostKey, h)
	shell.Println("penarm host shell")
	for _, cmd := range commands {
		shell.AddCmd(cmd)
	}

	// Non-interactive: run the arguments as one command
	if args := flag.Args(); len(args) > 0 {
		if err := shell.Process(args...); err != nil {
			glog.Error(err)
			glog.Flush()
			os.Exit(1)
		}
		return
	}
	shell.Run()
}

func hostFrom(c *ishell.Context) *host {
	return c.Get(hostKey).(*host)
}

// connect opens the serial port on first use
func (h *host) connect() (serial.Port, error) {
	if h.port != nil {
		return h.port, nil
	}
	cfg := serial.DefaultConfig(h.opts.Device)
	cfg.Baud = h.opts.Baud
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	glog.Infof("connected to %s", port)
	h.port = port
	return port, nil
}

func (h *host) close() {
	if h.port != nil {
		if err := h.port.Close(); err != nil {
			glog.Warningf("close %s: %v", h.opts.Device, err)
		}
		h.port = nil
	}
}
