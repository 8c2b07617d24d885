//go:build !js
// +build !js

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/simukka/pfxr/audio"
)

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("watch")
	in := fs.String("in", "", ".fx file holding an ?fx= URL or parameter list")
	out := fs.String("o", "", "WAV file to rewrite on every change")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return errors.New("-in and -o are required")
	}

	if err := renderFile(*in, *out); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(*in)); err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{"in": *in, "out": *out}).Info("Watching")
	return a.watchLoop(ctx, watcher.Events, watcher.Errors, *in, *out)
}

// watchLoop re-renders in to out for every write or create of in. It returns
// when ctx is done or the event channel closes. Render failures are logged
// and watching continues.
func (a *app) watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, in, out string) error {
	target := filepath.Clean(in)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			a.log.WithError(err).Warn("Watch error")
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := renderFile(in, out); err != nil {
				a.log.WithError(err).WithField("in", in).Warn("Render failed")
				continue
			}
			a.log.WithField("out", out).Info("Rendered")
		}
	}
}

func renderFile(in, out string) error {
	raw, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	s := audio.ParseParams(string(raw))
	if err := s.Validate(); err != nil {
		return err
	}
	return audio.WriteWAVFile(out, audio.Render(s).Data())
}
