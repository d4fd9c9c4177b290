package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"penarm/arm"
	"penarm/arm/config"
	"penarm/arm/kinematics"
	"penarm/arm/planner"
	"penarm/arm/stepgen"
	"penarm/core"
	"penarm/host/serial"
	"penarm/host/session"
)

var commands = []*ishell.Cmd{
	{
		Name: "sim",
		Help: "sim <plot.hpgl> [trace.yaml] - plot on simulated hardware",
		Func: simCmd,
	},
	{
		Name: "solve",
		Help: "solve <x> <y> - joint angles and step targets for an HPGL point",
		Func: solveCmd,
	},
	{
		Name: "send",
		Help: "send <plot.hpgl> - stream a plot to the board",
		Func: sendCmd,
	},
	{
		Name: "config",
		Help: "config [json] - print the active configuration",
		Func: configCmd,
	},
	{
		Name: "timing",
		Help: "timing - dump the timing ring of the last simulation",
		Func: timingCmd,
	},
}

// loadConfigFile reads a JSON or YAML config by extension, defaults when
// path is empty
func loadConfigFile(path string) (*arm.PlotterConfig, error) {
	if path == "" {
		return config.DefaultPlotterConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return config.LoadYAML(data)
	default:
		return config.LoadConfig(data)
	}
}

func simCmd(c *ishell.Context) {
	if len(c.Args) < 1 {
		c.Err(fmt.Errorf("usage: sim <plot.hpgl> [trace.yaml]"))
		return
	}
	h := hostFrom(c)
	plot, err := os.ReadFile(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}

	core.ClearTimingRing()
	res, err := session.Simulate(h.config, plot, session.DefaultOptions())
	if res == nil {
		c.Err(err)
		return
	}
	if err != nil {
		glog.Warning(err)
	}

	for _, line := range res.Report {
		c.Println(line)
	}
	c.Printf("elapsed %.1fs, %d joint1 targets, %d joint2 targets, %d pen moves\n",
		float64(res.ElapsedMs)/1000, len(res.Joint1), len(res.Joint2), len(res.Pen)/2)
	if lo, hi, ok := res.Bounds(); ok {
		c.Printf("drawn extent x %.3f..%.3f in, y %.3f..%.3f in\n", lo.X, hi.X, lo.Y, hi.Y)
	}

	if len(c.Args) > 1 {
		if err := writeTrace(c.Args[1], res); err != nil {
			c.Err(err)
			return
		}
		c.Println("trace written to " + c.Args[1])
	}
}

func writeTrace(path string, res *session.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return err
	}
	return enc.Close()
}

// solution is the outcome of placing one HPGL point
type solution struct {
	Target arm.Vec
	Angles arm.JointAngles
	Steps  [2]int32
	Iter   int
}

func solvePoint(cfg *arm.PlotterConfig, p arm.Point) (solution, error) {
	solver := kinematics.NewTwoLink(cfg.Links, cfg.Solver)
	target := planner.NewScaler(cfg.Drawing).Scale(p)
	angles, err := solver.Solve(target)
	if err != nil {
		return solution{Target: target}, err
	}
	return solution{
		Target: target,
		Angles: angles,
		Steps: [2]int32{
			stepgen.StepsFor(cfg.Joints[0], angles.Theta1),
			stepgen.StepsFor(cfg.Joints[1], angles.Theta2),
		},
		Iter: solver.LastIterations(),
	}, nil
}

func solveCmd(c *ishell.Context) {
	if len(c.Args) != 2 {
		c.Err(fmt.Errorf("usage: solve <x> <y>"))
		return
	}
	x, errX := strconv.ParseInt(c.Args[0], 10, 64)
	y, errY := strconv.ParseInt(c.Args[1], 10, 64)
	if errX != nil || errY != nil {
		c.Err(fmt.Errorf("coordinates must be integers"))
		return
	}

	sol, err := solvePoint(hostFrom(c).config, arm.Point{X: x, Y: y})
	c.Printf("target (%.4f, %.4f) in\n", sol.Target.X, sol.Target.Y)
	if err != nil {
		c.Err(err)
		return
	}
	c.Printf("theta1 %.5f rad, theta2 %.5f rad after %d iterations\n", sol.Angles.Theta1, sol.Angles.Theta2, sol.Iter)
	c.Printf("steps joint1 %d, joint2 %d\n", sol.Steps[0], sol.Steps[1])
}

func sendCmd(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Err(fmt.Errorf("usage: send <plot.hpgl>"))
		return
	}
	f, err := os.Open(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}
	defer f.Close()

	h := hostFrom(c)
	port, err := h.connect()
	if err != nil {
		c.Err(err)
		return
	}

	n, err := serial.SendPlot(port, f, serial.DefaultStreamConfig())
	if err != nil {
		// a failed write leaves the port in an unknown state
		h.close()
		c.Err(err)
		return
	}
	glog.Infof("sent %d bytes from %s", n, c.Args[0])
	c.Printf("sent %d bytes, press start on the plotter\n", n)
}

func configCmd(c *ishell.Context) {
	cfg := hostFrom(c).config
	var out []byte
	var err error
	if len(c.Args) > 0 && c.Args[0] == "json" {
		out, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		out, err = yaml.Marshal(cfg)
	}
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

func timingCmd(c *ishell.Context) {
	events := core.TimingEvents()
	if len(events) == 0 {
		c.Println("timing ring empty, run with -trace")
		return
	}
	for _, e := range events {
		c.Printf("%8d %-14s %d %d\n", e.Clock, core.EventName(e.EventType), e.Value1, e.Value2)
	}
}
