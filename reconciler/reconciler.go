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

// Package reconciler mirrors the live tasks of a cluster into a registry
// scope. Each cycle reads the live tasks and the registry fresh, computes
// the difference, and applies it as independent conditional writes. A
// cycle never aborts part way through writing: per-key failures are
// reported in the Result and retried by the next cycle.
package reconciler

//go:generate $TBN_HOME/scripts/mockgen_internal.sh -type TaskSource,Reconciler -source $GOFILE -destination mock_$GOFILE -package $GOPACKAGE --write_package_comment=false

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/turbinelabs/nonstdlib/log/console"
	tbntime "github.com/turbinelabs/nonstdlib/time"
	"github.com/turbinelabs/rolodex/api"
	"github.com/turbinelabs/rolodex/differ"
	"github.com/turbinelabs/rolodex/registry"
	"github.com/turbinelabs/stats"
)

// TaskSource produces the live tasks of a cluster.
type TaskSource interface {
	// ListTasks returns every live task in the cluster. Tasks whose role or
	// address could not be resolved are still returned, with those fields
	// empty. An error means the live set could not be determined at all.
	ListTasks(ctx context.Context, clusterID string) ([]api.Task, error)
}

// Reconciler runs reconciliation cycles.
type Reconciler interface {
	// Reconcile runs one cycle for the given cluster. A non-nil error is a
	// *CycleError and means no writes were attempted. Per-key write
	// failures are reported in the Result instead.
	Reconcile(ctx context.Context, clusterID string) (Result, error)

	// Close releases the underlying registry.Store.
	Close() error
}

// Options configure a Reconciler.
type Options struct {
	// Scope names the registry scope to reconcile. If empty, the cluster ID
	// passed to Reconcile is used.
	Scope string

	// KeyMode determines how tasks map to registry Keys. Defaults to
	// api.KeyByRole.
	KeyMode api.KeyMode

	// Timeout bounds each cycle. Writes not yet started when it expires are
	// reported as failures. Zero means no bound beyond the caller's context.
	Timeout time.Duration

	DiffOpts  differ.DiffOpts
	PatchOpts differ.PatchOpts
}

// New returns a Reconciler that reads live tasks from source and writes
// entries to store. If statsClient is nil, no stats are recorded.
func New(
	source TaskSource,
	store registry.Store,
	opts Options,
	statsClient stats.Stats,
) Reconciler {
	if opts.KeyMode == "" {
		opts.KeyMode = api.KeyByRole
	}

	return &reconciler{
		source: source,
		store:  store,
		opts:   opts,
		stats:  statsClient,
		time:   tbntime.NewSource(),
		mkDiffer: func(scope string) differ.Differ {
			return differ.New(store, scope, opts.PatchOpts)
		},
	}
}

type reconciler struct {
	source   TaskSource
	store    registry.Store
	opts     Options
	stats    stats.Stats
	time     tbntime.Source
	mkDiffer func(scope string) differ.Differ
}

func (r *reconciler) Close() error {
	return r.store.Close()
}

func (r *reconciler) scope(clusterID string) string {
	if r.opts.Scope != "" {
		return r.opts.Scope
	}
	return clusterID
}

func (r *reconciler) Reconcile(ctx context.Context, clusterID string) (Result, error) {
	result := Result{
		CycleID: uuid.New().String(),
		Cluster: clusterID,
		Scope:   r.scope(clusterID),
		DryRun:  r.opts.DiffOpts.DryRun,
		Started: r.time.Now(),
	}

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	err := r.reconcile(ctx, clusterID, &result)
	result.Duration = r.time.Now().Sub(result.Started)
	r.report(result, err)

	return result, err
}

func (r *reconciler) reconcile(ctx context.Context, clusterID string, result *Result) error {
	tasks, err := r.source.ListTasks(ctx, clusterID)
	if err != nil {
		return &CycleError{SourceUnavailable, Orchestrator, clusterID, err}
	}

	proposed, retain := r.desired(tasks, result)

	diffOpts := r.opts.DiffOpts
	diffOpts.Retain = retain

	diffs, outcomes, err := differ.DiffAndPatch(
		ctx,
		r.mkDiffer(result.Scope),
		proposed,
		diffOpts,
	)
	if err != nil {
		return &CycleError{SourceUnavailable, Registry, clusterID, err}
	}

	plannedUpserts := 0
	for _, d := range diffs {
		if d.Action() == differ.ActionUpsert {
			plannedUpserts++
		}
	}
	result.Noops = len(proposed) - plannedUpserts

	if diffOpts.DryRun {
		for _, d := range diffs {
			switch d.Action() {
			case differ.ActionUpsert:
				result.Upserts++
			case differ.ActionDelete:
				result.Deletes++
			}
		}
		return nil
	}

	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			result.Failures = append(result.Failures, Failure{
				Key:    o.Diff.Key(),
				Action: o.Diff.Action(),
				Kind:   writeErrorKind(o.Err),
				Error:  o.Err.Error(),
				Err:    o.Err,
			})

		case o.Converged:
			result.Converged++
			result.Noops++

		case o.Diff.Action() == differ.ActionUpsert:
			result.Upserts++

		case o.Diff.Action() == differ.ActionDelete:
			result.Deletes++
		}
	}

	return nil
}

// desired maps live tasks to proposed Entries. Malformed tasks are skipped;
// their Keys, when derivable, are returned as retained so that existing
// Entries are not deleted while a task is still starting. When several tasks
// map to one Key, the task with the greatest ID wins.
func (r *reconciler) desired(tasks []api.Task, result *Result) ([]api.Entry, []api.Key) {
	sorted := append([]api.Task(nil), tasks...)
	sort.Sort(api.TasksByID(sorted))

	winners := map[api.Key]api.Task{}
	retained := map[api.Key]bool{}

	for _, task := range sorted {
		if err := task.Valid(); err != nil {
			result.Skipped++
			w := Warning{
				Kind:    MalformedTask,
				TaskID:  task.ID,
				Message: err.Error(),
			}
			// the stored entry of a malformed task is kept only if the task
			// still names every part of its key.
			if task.Role != "" && (r.opts.KeyMode != api.KeyByRoleAndID || task.ID != "") {
				k := api.KeyFor(task, r.opts.KeyMode)
				w.Key = &k
				retained[k] = true
			}
			result.Warnings = append(result.Warnings, w)
			continue
		}

		k := api.KeyFor(task, r.opts.KeyMode)
		if prior, ok := winners[k]; ok {
			// sorted ascending, so task.ID >= prior.ID
			result.Warnings = append(result.Warnings, Warning{
				Kind:   DuplicateKey,
				TaskID: task.ID,
				Key:    &k,
				Message: fmt.Sprintf(
					"tasks %s and %s both map to %s; using %s",
					prior.ID,
					task.ID,
					k,
					task.ID,
				),
			})
		}
		winners[k] = task
	}

	proposed := make([]api.Entry, 0, len(winners))
	for k, task := range winners {
		proposed = append(proposed, api.Entry{Key: k, Address: task.Address})
		delete(retained, k)
	}
	sort.Sort(api.EntriesByKey(proposed))

	retain := make([]api.Key, 0, len(retained))
	for k := range retained {
		retain = append(retain, k)
	}

	return proposed, retain
}

func (r *reconciler) report(result Result, err error) {
	status := "success"
	switch {
	case err != nil:
		status = "error"
		console.Error().Printf("cycle %s: %s", result.CycleID, err)
	case result.Failed():
		status = "partial"
	}

	for _, w := range result.Warnings {
		console.Info().Printf(
			"cycle %s: %s: task %q: %s",
			result.CycleID,
			w.Kind,
			w.TaskID,
			w.Message,
		)
	}

	for _, f := range result.Failures {
		console.Error().Printf(
			"cycle %s: %s %s failed (%s): %s",
			result.CycleID,
			f.Action,
			f.Key,
			f.Kind,
			f.Error,
		)
	}

	if err == nil {
		console.Info().Printf(
			"cycle %s cluster %s scope %s: %d upserts, %d deletes, %d noops, %d skipped, %d failures in %s",
			result.CycleID,
			result.Cluster,
			result.Scope,
			result.Upserts,
			result.Deletes,
			result.Noops,
			result.Skipped,
			len(result.Failures),
			result.Duration,
		)
	}

	if r.stats == nil {
		return
	}

	clusterTag := stats.NewKVTag("cluster", result.Cluster)
	r.stats.Count("cycle", 1.0, clusterTag, stats.NewKVTag("result", status))
	r.stats.Timing("cycle_duration", result.Duration, clusterTag)
	if err != nil {
		return
	}

	r.stats.Count("upserts", float64(result.Upserts), clusterTag)
	r.stats.Count("deletes", float64(result.Deletes), clusterTag)
	r.stats.Count("noops", float64(result.Noops), clusterTag)
	r.stats.Count("skipped", float64(result.Skipped), clusterTag)
	r.stats.Count("failures", float64(len(result.Failures)), clusterTag)
}
