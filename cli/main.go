//go:build !js
// +build !js

// Command pfxr renders, inspects and plays 8-bit sound effects.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, app *app, args []string) error
}

var commands = []command{
	{"template", "render a template with a seed to WAV", runTemplate},
	{"render", "render an ?fx= parameter string to WAV", runRender},
	{"url", "print the ?fx= encoding of a template and seed", runURL},
	{"info", "print statistics of a sound or WAV file", runInfo},
	{"play", "play a sound on the default output device", runPlay},
	{"batch", "render many seeds of a template in parallel", runBatch},
	{"watch", "re-render a .fx file whenever it changes", runWatch},
	{"library", "export every library preset to a directory", runLibrary},
}

// app carries the process streams so commands can be exercised in tests.
type app struct {
	stdout io.Writer
	stderr io.Writer
	log    *logrus.Logger

	// stdoutIsTerminal reports whether binary output would land on a tty.
	stdoutIsTerminal func() bool
}

func newApp() *app {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(os.Getenv("PFXR_LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    logger,
		stdoutIsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().dispatch(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "pfxr:", err)
		os.Exit(1)
	}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return flag.ErrHelp
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(ctx, a, args[1:])
		}
	}
	switch args[0] {
	case "help", "-h", "-help", "--help":
		a.usage()
		return nil
	}
	a.usage()
	return fmt.Errorf("unknown command %q", args[0])
}

func (a *app) usage() {
	fmt.Fprintln(a.stderr, "usage: pfxr <command> [flags]")
	fmt.Fprintln(a.stderr)
	sorted := append([]command(nil), commands...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })
	for _, c := range sorted {
		fmt.Fprintf(a.stderr, "  %-9s %s\n", c.name, c.summary)
	}
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("pfxr "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}
