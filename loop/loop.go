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

// Package loop runs reconciliation cycles on a fixed schedule.
package loop

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turbinelabs/nonstdlib/log/console"
	tbntime "github.com/turbinelabs/nonstdlib/time"
	"github.com/turbinelabs/rolodex/reconciler"
)

var lastLoopNotifier chan<- os.Signal

// Loop reconciles each of the given clusters in turn, starting a new round
// every interval. Rounds never overlap: if a round takes longer than the
// interval, the next starts as soon as it finishes. Loop installs a signal
// handler for SIGINT and SIGTERM (via SignalNotifier). If it receives either
// signal, it exits after the current round completes and closes the
// Reconciler.
func Loop(r reconciler.Reconciler, clusters []string, interval time.Duration) {
	notifier := SignalNotifier()
	lastLoopNotifier = notifier

	looper := &reconcileLooper{
		time:     tbntime.NewSource(),
		signalCh: notifier,
	}
	looper.run(context.Background(), r, clusters, interval)
}

// StopLoop stops a running Loop invocation by simulating a signal. This function is
// intended for use in tests only. StopLoop assumes only one Loop is running in a
// given process, and therefore only the most recently started Loop will receive the
// simulated signal.
func StopLoop() {
	lastLoopNotifier <- syscall.SIGINT
	lastLoopNotifier = nil
}

// SignalNotifier creates a chan os.Signal that will receive the SIGINT and SIGTERM
// signals if the current process receives them.
func SignalNotifier() chan os.Signal {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	return signalCh
}

type reconcileLooper struct {
	time     tbntime.Source
	signalCh chan os.Signal
}

func (looper *reconcileLooper) run(
	ctx context.Context,
	r reconciler.Reconciler,
	clusters []string,
	interval time.Duration,
) {
	defer r.Close()
	defer signal.Stop(looper.signalCh)

	failures := make(map[string]int, len(clusters))

	timer := looper.time.NewTimer(0)
	for {
		select {
		case <-timer.C():
			timer.Reset(interval)

			for _, cluster := range clusters {
				console.Debug().Printf("reconciling cluster %s", cluster)
				_, err := r.Reconcile(ctx, cluster)
				if err == nil {
					failures[cluster] = 0
					continue
				}

				failures[cluster]++
				console.Error().Printf(
					"reconcile error (%d consecutive) for cluster %s: %s",
					failures[cluster],
					cluster,
					err.Error(),
				)
			}

		case signal := <-looper.signalCh:
			console.Info().Printf("%s: exiting", signal.String())
			return
		}
	}
}
