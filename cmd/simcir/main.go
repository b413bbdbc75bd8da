// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command simcir loads a circuit description and runs it.
//
// Usage:
//
//	simcir [flags] circuit.json|circuit.yaml|lib:Name
//
// Without the -tui flag, changes on the inputs of sink devices (LEDs,
// displays, probes) are logged. The -dump flag writes the description of the
// built circuit to stdout and exits.
//
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/db47h/simcir"
	"github.com/db47h/simcir/basicset"
	"github.com/db47h/simcir/library"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type options struct {
	logLevel    string
	devLog      bool
	metricsAddr string
	dump        string
	list        bool
	tui         bool
	interval    time.Duration
	budget      time.Duration
}

func main() {
	var o options
	flag.StringVar(&o.logLevel, "log", "info", "log `level`: debug, info, warn or error")
	flag.BoolVar(&o.devLog, "dev", false, "human readable logs")
	flag.StringVar(&o.metricsAddr, "metrics", "", "serve prometheus metrics on `addr`")
	flag.StringVar(&o.dump, "dump", "", "write the circuit description to stdout in `format` (json or yaml) and exit")
	flag.BoolVar(&o.list, "list", false, "list device types and exit")
	flag.BoolVar(&o.tui, "tui", false, "interactive terminal UI")
	flag.DurationVar(&o.interval, "interval", simcir.DefaultDrainInterval, "queue drain interval")
	flag.DurationVar(&o.budget, "budget", simcir.DefaultDrainBudget, "queue drain time budget")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] circuit.json|circuit.yaml|lib:Name\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(&o, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "simcir: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(o *options) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if o.devLog {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	if o.tui {
		// keep the terminal clean
		cfg.OutputPaths = []string{"simcir.log"}
	}
	return cfg.Build()
}

func newRegistry() (*simcir.Registry, error) {
	reg := simcir.NewRegistry()
	if err := basicset.Register(reg); err != nil {
		return nil, err
	}
	if err := library.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func load(name string) (*simcir.Description, error) {
	if lib, ok := strings.CutPrefix(name, "lib:"); ok {
		return library.Description(lib)
	}
	return simcir.LoadFile(name)
}

func run(o *options, args []string) error {
	log, err := newLogger(o)
	if err != nil {
		return err
	}
	defer log.Sync()

	reg, err := newRegistry()
	if err != nil {
		return err
	}
	if o.list {
		for _, t := range reg.Types() {
			sp, _ := reg.Lookup(t)
			fmt.Printf("%-20s %s\n", t, sp.Doc)
		}
		return nil
	}
	if len(args) != 1 {
		flag.Usage()
		return errors.New("missing circuit file")
	}

	desc, err := load(args[0])
	if err != nil {
		return err
	}

	opts := []simcir.Option{
		simcir.WithLogger(log),
		simcir.WithDrainInterval(o.interval),
		simcir.WithDrainBudget(o.budget),
	}
	if o.metricsAddr != "" {
		pr := prometheus.NewRegistry()
		opts = append(opts, simcir.WithMetrics(simcir.NewMetrics(pr)))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(pr, promhttp.HandlerOpts{}))
		go func() {
			log.Info("serving metrics", zap.String("addr", o.metricsAddr))
			if err := http.ListenAndServe(o.metricsAddr, mux); err != nil {
				log.Error("metrics server", zap.Error(err))
			}
		}()
	}
	if o.dump != "" {
		opts = append(opts, simcir.Headless())
	}

	c, err := simcir.NewCircuit(reg, desc, opts...)
	if err != nil {
		return errors.Wrap(err, args[0])
	}
	defer c.Do(c.Dispose)
	log.Info("circuit loaded", zap.String("file", args[0]), zap.Stringer("id", c.ID()), zap.Int("devices", len(c.Devices())))

	switch o.dump {
	case "":
	case "json":
		return c.Description().WriteJSON(os.Stdout)
	case "yaml":
		return c.Description().WriteYAML(os.Stdout)
	default:
		return errors.Errorf("unsupported dump format %q", o.dump)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if o.tui {
		done := make(chan error, 1)
		go func() { done <- c.Run(ctx) }()
		_, err := tea.NewProgram(newModel(c), tea.WithAltScreen()).Run()
		cancel()
		<-done
		return err
	}

	watchSinks(c, log)
	if err := c.Run(ctx); err != context.Canceled {
		return err
	}
	return nil
}

// watchSinks logs the input changes of every device that has no outputs.
//
func watchSinks(c *simcir.Circuit, log *zap.Logger) {
	for _, d := range c.Devices() {
		d := d
		if len(d.Outputs()) > 0 {
			continue
		}
		for _, in := range d.Inputs() {
			in := in
			in.Observe(func(v simcir.Value) {
				log.Info("probe", zap.String("device", d.ID()), zap.String("label", d.Label()), zap.String("node", in.ID()), zap.Stringer("value", v))
			})
		}
	}
}
