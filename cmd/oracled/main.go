// Command oracled runs a standalone payment-route oracle, loading a
// config file and exposing its Prometheus metrics over HTTP. It does
// not implement a JSON-RPC transport; spec.md §1 leaves that out of
// scope, so this entrypoint wires the oracle core against an initially
// empty graph and leaves host integration to the caller.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"

	"github.com/hashrelay/lightning/gossmap"
	"github.com/hashrelay/lightning/oracle"
)

func main() {
	app := cli.NewApp()
	app.Name = "oracled"
	app.Usage = "Lightning-style payment-route oracle"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "path to a YAML config file",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := oracle.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	setLogLevelsFromConfig(cfg)

	graph := gossmap.NewStaticGraph()
	orcl := oracle.New(graph, cfg)
	_ = orcl

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				fmt.Fprintf(os.Stderr, "metrics server exited: %v\n", err)
			}
		}()
	}

	select {}
}

func setLogLevelsFromConfig(cfg oracle.Config) {
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	if cfg.Log.File != "" {
		if err := oracle.InitLogRotator(cfg.Log.File, cfg.Log.MaxFileKB, cfg.Log.MaxLogFiles); err != nil {
			fmt.Fprintf(os.Stderr, "failed to init log rotator: %v\n", err)
		}
	}
	oracle.SetLogLevels(level)
}
