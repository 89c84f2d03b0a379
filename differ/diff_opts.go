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
	"time"

	"github.com/turbinelabs/rolodex/api"

	tbnflag "github.com/turbinelabs/nonstdlib/flag"
)

const (
	defaultConcurrency  = 4
	defaultWriteTimeout = 10 * time.Second
)

// DiffOpts describe desired behavior when producing a []Diff.
type DiffOpts struct {
	DryRun bool // If true, log the []Diff at info level rather than applying it

	// Retain lists Keys that are never deleted, even when absent from the
	// proposed Entries. Used for Keys whose live task could not be resolved.
	Retain []api.Key
}

// PatchOpts describe how a []Diff is applied.
type PatchOpts struct {
	// Concurrency is the maximum number of writes in flight. Values below 1
	// are treated as 1.
	Concurrency int

	// WriteTimeout bounds each individual write. Zero means no bound beyond
	// the store's own.
	WriteTimeout time.Duration
}

// DefaultPatchOpts returns the PatchOpts used when no flags are given.
func DefaultPatchOpts() PatchOpts {
	return PatchOpts{Concurrency: defaultConcurrency, WriteTimeout: defaultWriteTimeout}
}

// DiffOptsFromFlags install flags necessary to configure a DiffOpts into the
// provided FlagSet. Returns a pointer to the configured DiffOpts.
func DiffOptsFromFlags(flagset tbnflag.FlagSet) *DiffOpts {
	opts := &DiffOpts{}

	flagset.BoolVar(
		&opts.DryRun,
		"dry-run",
		false,
		"Log changes at the info level rather than writing them to the registry",
	)

	return opts
}

// PatchOptsFromFlags install flags necessary to configure a PatchOpts into
// the provided FlagSet. Returns a pointer to the configured PatchOpts.
func PatchOptsFromFlags(flagset tbnflag.FlagSet) *PatchOpts {
	opts := DefaultPatchOpts()

	flagset.IntVar(
		&opts.Concurrency,
		"write-concurrency",
		defaultConcurrency,
		"The maximum number of registry writes in flight at once",
	)

	flagset.DurationVar(
		&opts.WriteTimeout,
		"write-timeout",
		defaultWriteTimeout,
		"The maximum time allowed for a single registry write. Writes are allowed to "+
			"finish even when the cycle timeout expires.",
	)

	return &opts
}
