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

// Package differ implements synchronization of a registry scope to a
// proposed set of entries derived from live tasks.
//
// The Differ treats the registry as a materialized view of the live task
// set. Diff reads the scope fresh and computes the upserts and deletes that
// make it match the proposal; Patch applies each one as an independent
// conditional write, so that concurrent agents working on the same scope
// converge rather than clobber each other.
package differ

import (
	"context"

	"github.com/turbinelabs/rolodex/api"
	"github.com/turbinelabs/rolodex/registry"

	tbntime "github.com/turbinelabs/nonstdlib/time"
)

// Differ allows diffing and patching between the Entries in a registry scope
// and a proposed slice.
type Differ interface {
	// Diff returns a slice of Diffs representing the changes necessary to
	// make the registry scope match the proposed Entries. Proposed Entries
	// must have unique Keys. An error is returned only if the registry
	// could not be read.
	Diff(ctx context.Context, proposed []api.Entry, opts DiffOpts) ([]Diff, error)

	// Patch applies each Diff independently, returning one Outcome per Diff
	// in the same order. Once ctx is done no further Diffs are started;
	// Diffs already started run to completion.
	Patch(ctx context.Context, diffs []Diff) []Outcome
}

// New returns a Differ backed by the given registry.Store and scope.
func New(store registry.Store, scope string, patchOpts PatchOpts) Differ {
	return svcDiffer{
		store:     store,
		scope:     scope,
		patchOpts: patchOpts,
		time:      tbntime.NewSource(),
	}
}

// DiffAndPatch uses the given Differ to create, update and delete Entries
// in its scope to match the given slice of Entries. The Diffs and their
// Outcomes are returned. If opts.DryRun is set, the Diffs are not applied
// and the Outcomes are nil.
func DiffAndPatch(
	ctx context.Context,
	d Differ,
	proposed []api.Entry,
	opts DiffOpts,
) ([]Diff, []Outcome, error) {
	diffs, err := d.Diff(ctx, proposed, opts)
	if err != nil {
		return nil, nil, err
	}

	if opts.DryRun {
		return diffs, nil, nil
	}

	return diffs, d.Patch(ctx, diffs), nil
}

type svcDiffer struct {
	store     registry.Store
	scope     string
	patchOpts PatchOpts
	time      tbntime.Source
}

func (s svcDiffer) Diff(ctx context.Context, proposed []api.Entry, opts DiffOpts) ([]Diff, error) {
	current, err := s.store.Scan(ctx, s.scope)
	if err != nil {
		return nil, err
	}
	return diff(s.scope, current, proposed, s.time.Now(), opts), nil
}

func (s svcDiffer) Patch(ctx context.Context, diffs []Diff) []Outcome {
	return patch(ctx, s.store, diffs, s.patchOpts)
}
