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

package reconciler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	tbntime "github.com/turbinelabs/nonstdlib/time"
	"github.com/turbinelabs/rolodex/api"
	"github.com/turbinelabs/rolodex/differ"
	"github.com/turbinelabs/rolodex/registry"
	"github.com/turbinelabs/stats"
	"github.com/turbinelabs/test/assert"
)

const cluster = "c1"

var boom = errors.New("boom")

type staticSource []api.Task

func (s staticSource) ListTasks(context.Context, string) ([]api.Task, error) {
	return append([]api.Task(nil), s...), nil
}

func task(id, role, addr string) api.Task {
	return api.Task{ID: id, Role: role, Address: addr}
}

func seeded(role, addr string) api.Entry {
	return api.Entry{Key: api.Key{Role: role}, Scope: cluster, Address: addr}
}

func mkReconciler(source TaskSource, store registry.Store, opts Options) *reconciler {
	if opts.PatchOpts.Concurrency == 0 {
		opts.PatchOpts = differ.DefaultPatchOpts()
	}
	return New(source, store, opts, nil).(*reconciler)
}

func addresses(t *testing.T, store registry.Store, scope string) map[string]string {
	entries, err := store.Scan(context.Background(), scope)
	assert.Nil(t, err)
	result := map[string]string{}
	for _, e := range entries {
		result[e.Key.String()] = e.Address
	}
	return result
}

func exampleSource() staticSource {
	return staticSource{
		task("t1", "qc_py", "10.0.0.5"),
		task("t2", "analysis_r", "10.0.0.9"),
	}
}

func exampleStore() *registry.MemoryStore {
	return registry.NewMemory(
		seeded("qc_py", "10.0.0.4"),
		seeded("frontend", "10.0.0.1"),
	)
}

func TestReconcileExampleScenario(t *testing.T) {
	store := exampleStore()
	r := mkReconciler(exampleSource(), store, Options{})

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, result.Upserts, 2)
	assert.Equal(t, result.Deletes, 1)
	assert.Equal(t, result.Noops, 0)
	assert.Equal(t, result.Skipped, 0)
	assert.Equal(t, len(result.Failures), 0)
	assert.Equal(t, result.Cluster, cluster)
	assert.Equal(t, result.Scope, cluster)
	assert.NotEqual(t, result.CycleID, "")

	assert.DeepEqual(t, addresses(t, store, cluster), map[string]string{
		"qc_py":      "10.0.0.5",
		"analysis_r": "10.0.0.9",
	})
}

func TestReconcileIsIdempotent(t *testing.T) {
	store := exampleStore()
	r := mkReconciler(exampleSource(), store, Options{})

	_, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	before, _ := store.Scan(context.Background(), cluster)

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, result.Upserts, 0)
	assert.Equal(t, result.Deletes, 0)
	assert.Equal(t, result.Noops, 2)

	after, _ := store.Scan(context.Background(), cluster)
	assert.DeepEqual(t, after, before)
}

func TestReconcileDeletesKeysWithoutLiveTasks(t *testing.T) {
	store := exampleStore()
	r := mkReconciler(staticSource{}, store, Options{})

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, result.Deletes, 2)
	assert.Equal(t, len(addresses(t, store, cluster)), 0)
}

func TestReconcileOnlyTouchesItsScope(t *testing.T) {
	other := seeded("frontend", "10.9.9.9")
	other.Scope = "c2"
	store := registry.NewMemory(seeded("frontend", "10.0.0.1"), other)
	r := mkReconciler(staticSource{}, store, Options{})

	_, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, len(addresses(t, store, cluster)), 0)
	assert.DeepEqual(t, addresses(t, store, "c2"), map[string]string{"frontend": "10.9.9.9"})
}

func TestReconcileExplicitScope(t *testing.T) {
	store := registry.NewMemory()
	r := mkReconciler(exampleSource(), store, Options{Scope: "prod"})

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, result.Scope, "prod")
	assert.Equal(t, len(addresses(t, store, "prod")), 2)
	assert.Equal(t, len(addresses(t, store, cluster)), 0)
}

func TestReconcileSkipsMalformedTasksWithoutDeleting(t *testing.T) {
	store := exampleStore()
	source := staticSource{
		task("t1", "qc_py", ""),
		task("t3", "", "10.0.0.3"),
		task("t2", "analysis_r", "10.0.0.9"),
	}
	r := mkReconciler(source, store, Options{})

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, result.Skipped, 2)
	assert.Equal(t, result.Upserts, 1)
	assert.Equal(t, result.Deletes, 1)
	assert.Equal(t, len(result.Warnings), 2)
	assert.Equal(t, result.Warnings[0].Kind, MalformedTask)
	assert.Equal(t, result.Warnings[0].TaskID, "t1")
	assert.Equal(t, *result.Warnings[0].Key, api.Key{Role: "qc_py"})
	assert.Nil(t, result.Warnings[1].Key)

	// qc_py keeps its previous address; frontend is gone
	assert.DeepEqual(t, addresses(t, store, cluster), map[string]string{
		"qc_py":      "10.0.0.4",
		"analysis_r": "10.0.0.9",
	})
}

func TestReconcileMalformedTaskDoesNotShadowValidTask(t *testing.T) {
	store := exampleStore()
	source := staticSource{
		task("t1", "qc_py", "10.0.0.5"),
		task("t9", "qc_py", ""),
	}
	r := mkReconciler(source, store, Options{})

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, result.Skipped, 1)
	assert.Equal(t, result.Upserts, 1)
	assert.Equal(t, addresses(t, store, cluster)["qc_py"], "10.0.0.5")
}

func TestReconcileDuplicateKeyGreatestIDWins(t *testing.T) {
	store := registry.NewMemory()
	source := staticSource{
		task("t-b", "qc_py", "10.0.0.2"),
		task("t-c", "qc_py", "10.0.0.3"),
		task("t-a", "qc_py", "10.0.0.1"),
	}
	r := mkReconciler(source, store, Options{})

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, result.Upserts, 1)
	assert.Equal(t, addresses(t, store, cluster)["qc_py"], "10.0.0.3")

	assert.Equal(t, len(result.Warnings), 2)
	for _, w := range result.Warnings {
		assert.Equal(t, w.Kind, DuplicateKey)
		assert.Equal(t, *w.Key, api.Key{Role: "qc_py"})
	}
	assert.StringContains(t, result.Warnings[1].Message, "using t-c")
}

func TestReconcileRoleAndIDKeys(t *testing.T) {
	store := registry.NewMemory()
	source := staticSource{
		task("t1", "qc_py", "10.0.0.1"),
		task("t2", "qc_py", "10.0.0.2"),
	}
	r := mkReconciler(source, store, Options{KeyMode: api.KeyByRoleAndID})

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, result.Upserts, 2)
	assert.Equal(t, len(result.Warnings), 0)
	assert.DeepEqual(t, addresses(t, store, cluster), map[string]string{
		"qc_py/t1": "10.0.0.1",
		"qc_py/t2": "10.0.0.2",
	})
}

func TestReconcileRoleAndIDMalformedTaskWithoutID(t *testing.T) {
	store := registry.NewMemory(seeded("qc_py", "10.0.0.4"))
	source := staticSource{
		task("", "qc_py", "10.0.0.5"),
		task("t1", "qc_py", "10.0.0.1"),
	}
	r := mkReconciler(source, store, Options{KeyMode: api.KeyByRoleAndID})

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, result.Skipped, 1)
	assert.Equal(t, result.Upserts, 1)
	assert.Equal(t, result.Deletes, 1)
	assert.Equal(t, len(result.Warnings), 1)
	assert.Equal(t, result.Warnings[0].Kind, MalformedTask)
	assert.Nil(t, result.Warnings[0].Key)

	assert.DeepEqual(t, addresses(t, store, cluster), map[string]string{
		"qc_py/t1": "10.0.0.1",
	})
}

func TestReconcileSourceUnavailable(t *testing.T) {
	ctrl := gomock.NewController(assert.Tracing(t))
	defer ctrl.Finish()

	source := NewMockTaskSource(ctrl)
	source.EXPECT().ListTasks(gomock.Any(), cluster).Return(nil, boom)

	store := registry.NewMockStore(ctrl)

	r := mkReconciler(source, store, Options{})
	_, err := r.Reconcile(context.Background(), cluster)
	assert.True(t, IsSourceUnavailable(err))

	var ce *CycleError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, ce.Source, Orchestrator)
	assert.True(t, errors.Is(err, boom))
}

func TestReconcileRegistryUnavailable(t *testing.T) {
	ctrl := gomock.NewController(assert.Tracing(t))
	defer ctrl.Finish()

	store := registry.NewMockStore(ctrl)
	store.EXPECT().Scan(gomock.Any(), cluster).Return(nil, boom)

	r := mkReconciler(exampleSource(), store, Options{})
	_, err := r.Reconcile(context.Background(), cluster)
	assert.True(t, IsSourceUnavailable(err))
	assert.ErrorContains(t, err, "registry for cluster c1: boom")
}

type failingStore struct {
	registry.Store
	failKey api.Key
	err     error
}

func (s *failingStore) ConditionalUpsert(
	ctx context.Context,
	e api.Entry,
	expected *api.Entry,
) (api.Entry, error) {
	if e.Key == s.failKey {
		return api.Entry{}, s.err
	}
	return s.Store.ConditionalUpsert(ctx, e, expected)
}

func TestReconcileIsolatesFailures(t *testing.T) {
	mem := exampleStore()
	store := &failingStore{Store: mem, failKey: api.Key{Role: "analysis_r"}, err: boom}
	r := mkReconciler(exampleSource(), store, Options{})

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, result.Upserts, 1)
	assert.Equal(t, result.Deletes, 1)
	assert.True(t, result.Failed())
	assert.Equal(t, len(result.Failures), 1)
	assert.Equal(t, result.Failures[0].Key, api.Key{Role: "analysis_r"})
	assert.Equal(t, result.Failures[0].Action, differ.ActionUpsert)
	assert.Equal(t, result.Failures[0].Kind, WriteFailure)
	assert.Equal(t, result.Failures[0].Error, "boom")

	assert.DeepEqual(t, addresses(t, mem, cluster), map[string]string{
		"qc_py": "10.0.0.5",
	})
}

func TestReconcileReportsConflicts(t *testing.T) {
	mem := exampleStore()
	current := seeded("analysis_r", "10.0.0.8")
	store := &failingStore{
		Store:   mem,
		failKey: api.Key{Role: "analysis_r"},
		err:     &registry.ConflictError{Key: current.Key, Current: &current},
	}
	r := mkReconciler(exampleSource(), store, Options{})

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.Equal(t, len(result.Failures), 1)
	assert.Equal(t, result.Failures[0].Kind, WriteConflict)
}

// barrierStore holds every Scan until n Scans have been made, so that
// concurrent cycles all diff against the same snapshot before any writes.
type barrierStore struct {
	registry.Store
	wg *sync.WaitGroup
}

func (s barrierStore) Scan(ctx context.Context, scope string) ([]api.Entry, error) {
	entries, err := s.Store.Scan(ctx, scope)
	s.wg.Done()
	s.wg.Wait()
	return entries, err
}

func TestReconcileConcurrentCyclesConverge(t *testing.T) {
	single := exampleStore()
	_, err := mkReconciler(exampleSource(), single, Options{}).Reconcile(context.Background(), cluster)
	assert.Nil(t, err)

	mem := exampleStore()
	wg := &sync.WaitGroup{}
	wg.Add(2)
	store := barrierStore{mem, wg}

	results := make([]Result, 2)
	errs := make([]error, 2)
	var done sync.WaitGroup
	for i := range results {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			r := mkReconciler(exampleSource(), store, Options{})
			results[i], errs[i] = r.Reconcile(context.Background(), cluster)
		}(i)
	}
	done.Wait()

	for i := range results {
		assert.Nil(t, errs[i])
		assert.Equal(t, len(results[i].Failures), 0)
	}

	// every write lands exactly once; the loser of each race converges
	assert.Equal(t, results[0].Upserts+results[1].Upserts, 2)
	assert.Equal(t, results[0].Deletes+results[1].Deletes, 1)
	assert.Equal(t, results[0].Converged+results[1].Converged, 3)

	assert.DeepEqual(t, addresses(t, mem, cluster), addresses(t, single, cluster))
}

func TestReconcileDeadlineStopsWrites(t *testing.T) {
	store := exampleStore()
	r := mkReconciler(exampleSource(), store, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Reconcile(ctx, cluster)
	assert.Nil(t, err)
	assert.Equal(t, result.Upserts, 0)
	assert.Equal(t, result.Deletes, 0)
	assert.Equal(t, len(result.Failures), 3)
	for _, f := range result.Failures {
		assert.Equal(t, f.Kind, WriteFailure)
		assert.True(t, errors.Is(f.Err, context.Canceled))
	}

	assert.DeepEqual(t, addresses(t, store, cluster), map[string]string{
		"qc_py":    "10.0.0.4",
		"frontend": "10.0.0.1",
	})
}

type slowSource struct {
	staticSource
	delay time.Duration
}

func (s slowSource) ListTasks(ctx context.Context, clusterID string) ([]api.Task, error) {
	select {
	case <-time.After(s.delay):
		return s.staticSource.ListTasks(ctx, clusterID)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestReconcileTimeoutIsSourceUnavailable(t *testing.T) {
	store := exampleStore()
	source := slowSource{exampleSource(), time.Minute}
	r := mkReconciler(source, store, Options{Timeout: 10 * time.Millisecond})

	_, err := r.Reconcile(context.Background(), cluster)
	assert.True(t, IsSourceUnavailable(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, len(addresses(t, store, cluster)), 2)
}

func TestReconcileDryRun(t *testing.T) {
	store := exampleStore()
	r := mkReconciler(exampleSource(), store, Options{DiffOpts: differ.DiffOpts{DryRun: true}})

	result, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, result.Upserts, 2)
	assert.Equal(t, result.Deletes, 1)

	assert.DeepEqual(t, addresses(t, store, cluster), map[string]string{
		"qc_py":    "10.0.0.4",
		"frontend": "10.0.0.1",
	})
}

func TestReconcileTiming(t *testing.T) {
	store := registry.NewMemory()
	r := mkReconciler(staticSource{}, store, Options{})

	tbntime.WithCurrentTimeFrozen(func(cs tbntime.ControlledSource) {
		r.time = cs
		start := cs.Now()

		result, err := r.Reconcile(context.Background(), cluster)
		assert.Nil(t, err)
		assert.True(t, result.Started.Equal(start))
		assert.Equal(t, result.Duration, time.Duration(0))
	})
}

func TestReconcileCycleIDsAreUnique(t *testing.T) {
	r := mkReconciler(staticSource{}, registry.NewMemory(), Options{})
	a, _ := r.Reconcile(context.Background(), cluster)
	b, _ := r.Reconcile(context.Background(), cluster)
	assert.NotEqual(t, a.CycleID, b.CycleID)
}

func TestReconcileRecordsStats(t *testing.T) {
	ctrl := gomock.NewController(assert.Tracing(t))
	defer ctrl.Finish()

	clusterTag := stats.NewKVTag("cluster", cluster)

	mockStats := stats.NewMockStats(ctrl)
	mockStats.EXPECT().Count("cycle", 1.0, clusterTag, stats.NewKVTag("result", "success"))
	mockStats.EXPECT().Timing("cycle_duration", gomock.Any(), clusterTag)
	mockStats.EXPECT().Count("upserts", 2.0, clusterTag)
	mockStats.EXPECT().Count("deletes", 1.0, clusterTag)
	mockStats.EXPECT().Count("noops", 0.0, clusterTag)
	mockStats.EXPECT().Count("skipped", 0.0, clusterTag)
	mockStats.EXPECT().Count("failures", 0.0, clusterTag)

	r := New(exampleSource(), exampleStore(), Options{PatchOpts: differ.DefaultPatchOpts()}, mockStats)
	_, err := r.Reconcile(context.Background(), cluster)
	assert.Nil(t, err)
}

func TestReconcileRecordsErrorStats(t *testing.T) {
	ctrl := gomock.NewController(assert.Tracing(t))
	defer ctrl.Finish()

	clusterTag := stats.NewKVTag("cluster", cluster)

	source := NewMockTaskSource(ctrl)
	source.EXPECT().ListTasks(gomock.Any(), cluster).Return(nil, boom)

	mockStats := stats.NewMockStats(ctrl)
	mockStats.EXPECT().Count("cycle", 1.0, clusterTag, stats.NewKVTag("result", "error"))
	mockStats.EXPECT().Timing("cycle_duration", gomock.Any(), clusterTag)

	r := New(source, registry.NewMemory(), Options{}, mockStats)
	_, err := r.Reconcile(context.Background(), cluster)
	assert.NonNil(t, err)
}

func TestReconcilerClose(t *testing.T) {
	ctrl := gomock.NewController(assert.Tracing(t))
	defer ctrl.Finish()

	store := registry.NewMockStore(ctrl)
	store.EXPECT().Close().Return(boom)

	r := New(staticSource{}, store, Options{}, nil)
	assert.Equal(t, r.Close(), boom)
}
