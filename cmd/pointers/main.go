// Package main provides the pointers cli. It manages a set of parties, each
// with its own key and vault, records product and order transactions, and
// resolves static pointers against the vault of a given party.
//
// 	pointers --config ./parties party new --name alice
// 	pointers --config ./parties product create --party alice --name Hummer \
// 		--company GM --price 1.0
//
// The logging level is set with the LLVL environment variable.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.dedis.ch/pointers"
	"go.dedis.ch/pointers/cli"
	"go.dedis.ch/pointers/cli/ucli"
	"go.dedis.ch/pointers/party/command"
	"golang.org/x/xerrors"
)

const metricsFlag = "metrics"

var builder = newBuilder()

var printer io.Writer = os.Stderr
var metricsOut io.Writer = os.Stdout

func main() {
	err := run(os.Args, command.Initializer{})
	if err != nil {
		fmt.Fprintf(printer, "%+v\n", err)
	}
}

func run(args []string, inits ...cli.Initializer) error {
	for _, init := range inits {
		init.SetCommands(builder)
	}

	builder.SetAfter(printMetrics)

	app := builder.Build()
	err := app.Run(args)
	if err != nil {
		return err
	}

	return nil
}

func newBuilder() cli.Builder {
	return ucli.NewBuilder("pointers", nil,
		ucli.WithUsage("verify transactions and resolve static pointers"),
		ucli.WithFlags(
			cli.PathFlag{
				Name:  command.ConfigFlag,
				Usage: "folder of the party directory",
				Value: ".pointers",
			},
			cli.BoolFlag{
				Name:  metricsFlag,
				Usage: "print the metrics of the process after the command",
			},
		))
}

// printMetrics writes the text exposition of the collectors of the module
// when the metrics flag is set.
func printMetrics(flags cli.Flags) error {
	if !flags.Bool(metricsFlag) {
		return nil
	}

	reg := prometheus.NewRegistry()

	for _, c := range pointers.PromCollectors {
		err := reg.Register(c)
		if err != nil {
			return xerrors.Errorf("failed to register collector: %v", err)
		}
	}

	families, err := reg.Gather()
	if err != nil {
		return xerrors.Errorf("failed to gather metrics: %v", err)
	}

	enc := expfmt.NewEncoder(metricsOut, expfmt.FmtText)

	for _, mf := range families {
		err = enc.Encode(mf)
		if err != nil {
			return xerrors.Errorf("failed to encode metrics: %v", err)
		}
	}

	return nil
}
