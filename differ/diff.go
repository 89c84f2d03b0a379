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

package differ

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turbinelabs/codec"
	"github.com/turbinelabs/nonstdlib/log/console"
	"github.com/turbinelabs/rolodex/api"
	"github.com/turbinelabs/rolodex/registry"
)

// Action names the kind of change a Diff makes.
type Action string

const (
	// ActionUpsert creates or updates an Entry.
	ActionUpsert Action = "upsert"
	// ActionDelete removes an Entry.
	ActionDelete Action = "delete"
)

// Diff models a registry Entry modification to be applied
type Diff interface {
	// Key returns the Key of the Entry to be modified
	Key() api.Key
	// Action returns the kind of modification
	Action() Action
	// Patch applies the modification to the given Store with a conditional
	// write against the Entry observed when the Diff was computed. If the
	// write is refused but the Store already holds the desired state,
	// converged is true and err is nil.
	Patch(ctx context.Context, store registry.Store) (converged bool, err error)
	// Produce a map suitable for serialization
	DisplayMap() map[string]interface{}
}

// Outcome records the result of applying one Diff.
type Outcome struct {
	Diff Diff

	// Converged is true if the write was refused because the Store already
	// held the desired state, typically written by a concurrent cycle.
	Converged bool

	Err error
}

// NewDiffUpsert creates a Diff representing creation or update of an Entry.
// prior is the Entry currently stored, or nil if there is none.
func NewDiffUpsert(entry api.Entry, prior *api.Entry) Diff {
	diff := diffUpsert{entry, prior}
	return &diff
}

// NewDiffDelete creates a Diff representing deletion of the given, currently
// stored, Entry.
func NewDiffDelete(prior api.Entry) Diff {
	diff := diffDelete{prior}
	return &diff
}

// diff produces a []Diff computed from the current and proposed Entries.
// Upserts come first, ordered by key, followed by deletes, ordered by key.
func diff(
	scope string,
	current, proposed []api.Entry,
	now time.Time,
	opts DiffOpts,
) []Diff {
	currentMap := make(map[api.Key]api.Entry, len(current))
	for _, entry := range current {
		console.Debug().Printf("Entry %s Exists", entry.Key)
		currentMap[entry.Key] = entry
	}

	proposedSeen := make(map[api.Key]bool, len(proposed))
	for _, entry := range proposed {
		console.Debug().Printf("Entry %s Proposed", entry.Key)
		proposedSeen[entry.Key] = true
	}

	diffs := make([]Diff, 0)

	// for predictable ordering of Diffs
	current = append([]api.Entry(nil), current...)
	proposed = append([]api.Entry(nil), proposed...)
	sort.Sort(api.EntriesByKey(current))
	sort.Sort(api.EntriesByKey(proposed))

	// for each in proposed, look at current, see if needs writing
	for _, pEntry := range proposed {
		pEntry.Scope = scope
		pEntry.UpdatedAt = now

		cEntry, ok := currentMap[pEntry.Key]
		if !ok {
			diffs = append(diffs, NewDiffUpsert(pEntry, nil))
			console.Debug().Printf("Creating Entry %s -> %s", pEntry.Key, pEntry.Address)
			continue
		}

		if !cEntry.Matches(pEntry) {
			prior := cEntry
			diffs = append(diffs, NewDiffUpsert(pEntry, &prior))
			console.Debug().Printf(
				"Updating Entry %s: %s@%q -> %s@%q",
				pEntry.Key,
				cEntry.Address,
				cEntry.Scope,
				pEntry.Address,
				pEntry.Scope,
			)
		}
	}

	for _, key := range opts.Retain {
		proposedSeen[key] = true
	}

	// for each current, make sure in proposed, or delete
	for _, cEntry := range current {
		if !proposedSeen[cEntry.Key] {
			diffs = append(diffs, NewDiffDelete(cEntry))
			console.Debug().Printf("Deleting Entry %s", cEntry.Key)
		}
	}

	var logger *log.Logger
	if opts.DryRun {
		logger = console.Info()
		logger.Println("---- DRY RUN -----")
		if len(diffs) > 0 {
			logger.Println("Would have applied the following diffs:")
		}
	} else {
		logger = console.Debug()
		if len(diffs) > 0 {
			logger.Println("Applying the following diffs:")
		}
	}

	if len(diffs) == 0 {
		logger.Println("No diffs to apply")
		return nil
	}

	codec := codec.NewYaml()
	for _, d := range diffs {
		var b bytes.Buffer
		codec.Encode(d.DisplayMap(), &b)
		logger.Println(b.String())
	}

	return diffs
}

// patch applies each Diff as an independent write, at most
// opts.Concurrency at a time. A failed write never prevents others.
func patch(
	ctx context.Context,
	store registry.Store,
	diffs []Diff,
	opts PatchOpts,
) []Outcome {
	outcomes := make([]Outcome, len(diffs))

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	// writes that have started are detached from the cycle deadline so that
	// they complete or fail on their own.
	writeCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, d := range diffs {
		i, d := i, d

		if err := ctx.Err(); err != nil {
			outcomes[i] = Outcome{Diff: d, Err: notStarted(err)}
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = Outcome{Diff: d, Err: notStarted(err)}
				return nil
			}

			wctx := writeCtx
			if opts.WriteTimeout > 0 {
				var cancel context.CancelFunc
				wctx, cancel = context.WithTimeout(writeCtx, opts.WriteTimeout)
				defer cancel()
			}

			converged, err := d.Patch(wctx, store)
			outcomes[i] = Outcome{Diff: d, Converged: converged, Err: err}
			return nil
		})
	}

	g.Wait()

	return outcomes
}

func notStarted(err error) error {
	return fmt.Errorf("write not started: %w", err)
}

type diffUpsert struct {
	entry api.Entry
	prior *api.Entry
}

func (d diffUpsert) Key() api.Key   { return d.entry.Key }
func (d diffUpsert) Action() Action { return ActionUpsert }
func (d diffUpsert) Patch(ctx context.Context, store registry.Store) (bool, error) {
	_, err := store.ConditionalUpsert(ctx, d.entry, d.prior)
	if err == nil {
		return false, nil
	}

	var ce *registry.ConflictError
	if errors.As(err, &ce) && ce.Current != nil && ce.Current.Matches(d.entry) {
		return true, nil
	}

	return false, err
}
func (d diffUpsert) String() string {
	return fmt.Sprintf("DiffUpsert{%v,%v}", d.entry, d.prior)
}
func (d diffUpsert) DisplayMap() map[string]interface{} {
	m := map[string]interface{}{
		"action":  string(ActionUpsert),
		"key":     d.entry.Key.String(),
		"address": d.entry.Address,
	}
	if d.prior != nil {
		m["prior_address"] = d.prior.Address
		m["prior_version"] = d.prior.Version
	}
	return m
}

type diffDelete struct {
	prior api.Entry
}

func (d diffDelete) Key() api.Key   { return d.prior.Key }
func (d diffDelete) Action() Action { return ActionDelete }
func (d diffDelete) Patch(ctx context.Context, store registry.Store) (bool, error) {
	err := store.Delete(ctx, d.prior.Key, d.prior)
	if err == nil {
		return false, nil
	}

	if err == registry.ErrNotFound {
		return true, nil
	}

	var ce *registry.ConflictError
	if errors.As(err, &ce) && ce.Current == nil {
		return true, nil
	}

	return false, err
}
func (d diffDelete) String() string {
	return fmt.Sprintf("DiffDelete{%v}", d.prior)
}
func (d diffDelete) DisplayMap() map[string]interface{} {
	return map[string]interface{}{
		"action":        string(ActionDelete),
		"key":           d.prior.Key.String(),
		"prior_address": d.prior.Address,
		"prior_version": d.prior.Version,
	}
}
