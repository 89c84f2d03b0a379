/*
Copyright 2018 Turbine Labs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	fsnotify "gopkg.in/fsnotify.v1"

	"github.com/turbinelabs/nonstdlib/log/console"
	"github.com/turbinelabs/rolodex/loop"
	"github.com/turbinelabs/rolodex/reconciler"
)

// Collector provides an exported interface for a fileCollector.
type Collector interface {
	Run() error
}

// NewCollector is a factory for a file based collector. The collector
// reconciles each cluster at startup and whenever the file changes, until it
// receives SIGINT or SIGTERM.
func NewCollector(
	file string,
	rec reconciler.Reconciler,
	clusters []string,
) Collector {
	return &fileCollector{
		file:     file,
		rec:      rec,
		clusters: clusters,
	}
}

type fileCollector struct {
	file     string
	rec      reconciler.Reconciler
	clusters []string
}

func (c *fileCollector) Run() error {
	defer c.rec.Close()

	if err := c.reload(); err != nil {
		return err
	}

	events, errors, closer, err := c.startWatcher()
	if err != nil {
		return err
	}
	defer closer.Close()

	signals := loop.SignalNotifier()
	defer signal.Stop(signals)

	return c.eventLoop(events, errors, signals)
}

// reload runs a cycle for every cluster, returning the first cycle error.
func (c *fileCollector) reload() error {
	console.Debug().Println("file: reload")

	var firstErr error
	for _, cluster := range c.clusters {
		result, err := c.rec.Reconcile(context.Background(), cluster)
		if err != nil {
			console.Error().Printf("file: reconcile cluster %s: %s", cluster, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if result.Failed() {
			console.Error().Printf(
				"file: cluster %s: %d registry writes failed",
				cluster,
				len(result.Failures),
			)
		}
	}

	return firstErr
}

func (c *fileCollector) startWatcher() (chan fsnotify.Event, chan error, io.Closer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("watch error: %s", err)
	}

	console.Info().Printf("watching %s", c.file)
	if err := watcher.Add(c.file); err != nil {
		defer watcher.Close()
		return nil, nil, nil, fmt.Errorf("watch file error: %s", err)
	}

	parent := filepath.Dir(c.file)
	console.Info().Printf("watching %s", parent)
	if err := watcher.Add(parent); err != nil {
		defer watcher.Close()
		return nil, nil, nil, fmt.Errorf("watch dir error: %s", err)
	}

	return watcher.Events, watcher.Errors, watcher, nil
}

func (c *fileCollector) eventLoop(
	events chan fsnotify.Event,
	errors chan error,
	signals chan os.Signal,
) error {
	for {
		select {
		case event := <-events:
			if event.Name == c.file {
				console.Info().Printf("%s changed %x", event.Name, event.Op)
				if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					c.reload()
				} else if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					console.Info().Printf("file %s disappeared", c.file)
				}
			}

		case err := <-errors:
			return fmt.Errorf("watch error: %s", err)

		case sig := <-signals:
			console.Info().Printf("%s: exiting", sig.String())
			return nil
		}
	}
}
