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

// Package rolodex keeps a registry of task addresses in sync with the tasks
// running in a cluster. See the reconciler package for the sync procedure
// and the plugins packages for the supported orchestrators.
package rolodex

//go:generate mockgen -source $GOFILE -destination mock_$GOFILE -package $GOPACKAGE --write_package_comment=false

import (
	"fmt"
	"strings"
	"time"

	"github.com/turbinelabs/rolodex/api"
	"github.com/turbinelabs/rolodex/awssession"
	"github.com/turbinelabs/rolodex/constants"
	"github.com/turbinelabs/rolodex/differ"
	"github.com/turbinelabs/rolodex/reconciler"
	"github.com/turbinelabs/rolodex/registry"

	tbnflag "github.com/turbinelabs/nonstdlib/flag"
	"github.com/turbinelabs/stats"
)

const defaultTimeout = 25 * time.Second

// ReconcilerFromFlags produces a fully-configured reconciler.Reconciler for
// a given reconciler.TaskSource. It owns the flags shared by every
// orchestrator plugin: the registry, the AWS session, stats, and the cycle
// options.
type ReconcilerFromFlags interface {
	Validate() error

	// ValidateClusters returns an error if the configured options cannot
	// reconcile the given clusters side by side. An explicit scope is shared
	// by every cluster, so it is limited to one.
	ValidateClusters(clusters []string) error

	// AWSSession returns the AWS session configuration shared by AWS-backed
	// task sources and the dynamodb registry.
	AWSSession() awssession.FromFlags

	// MakeStore produces the configured registry.Store.
	MakeStore() (registry.Store, error)

	// Make produces a Reconciler reading from the given TaskSource.
	Make(source reconciler.TaskSource) (reconciler.Reconciler, error)
}

// NewReconcilerFromFlags installs a ReconcilerFromFlags into the given FlagSet
func NewReconcilerFromFlags(flagset tbnflag.FlagSet) ReconcilerFromFlags {
	sessionFromFlags := awssession.NewFromFlags(flagset)

	ff := &reconcilerFromFlags{
		sessionFromFlags:  sessionFromFlags,
		registryFromFlags: registry.NewFromFlags(flagset.Scope("registry", "registry"), sessionFromFlags),
		statsFromFlags:    stats.NewFromFlags(flagset.Scope("stats", "stats")),
		diffOpts:          differ.DiffOptsFromFlags(flagset),
		patchOpts:         differ.PatchOptsFromFlags(flagset),
	}

	flagset.DurationVar(
		&ff.timeout,
		"timeout",
		defaultTimeout,
		"The maximum duration of one reconciliation cycle. Registry writes not started "+
			"when it expires are reported as failures and retried by the next cycle.",
	)

	flagset.StringVar(
		&ff.keyMode,
		"key-mode",
		string(api.KeyByRole),
		fmt.Sprintf(
			"How registry keys are derived from tasks, one of: %s. With %q, one entry "+
				"is kept per role and the task with the greatest ID wins.",
			strings.Join(api.KeyModes, ", "),
			api.KeyByRole,
		),
	)

	flagset.StringVar(
		&ff.scope,
		"scope",
		"",
		"The registry scope to reconcile. Defaults to the cluster name. May only be "+
			"set when a single cluster is reconciled.",
	)

	return ff
}

type reconcilerFromFlags struct {
	sessionFromFlags  awssession.FromFlags
	registryFromFlags registry.FromFlags
	statsFromFlags    stats.FromFlags
	diffOpts          *differ.DiffOpts
	patchOpts         *differ.PatchOpts
	timeout           time.Duration
	keyMode           string
	scope             string
}

func (ff *reconcilerFromFlags) Validate() error {
	if err := ff.registryFromFlags.Validate(); err != nil {
		return err
	}

	if err := ff.statsFromFlags.Validate(); err != nil {
		return err
	}

	switch api.KeyMode(ff.keyMode) {
	case api.KeyByRole, api.KeyByRoleAndID:
	default:
		return fmt.Errorf(
			"--key-mode must be one of: %s",
			strings.Join(api.KeyModes, ", "),
		)
	}

	if ff.timeout < 0 {
		return fmt.Errorf("--timeout may not be negative")
	}

	if ff.patchOpts.Concurrency < 1 {
		return fmt.Errorf("--write-concurrency must be at least 1")
	}

	return nil
}

func (ff *reconcilerFromFlags) ValidateClusters(clusters []string) error {
	if ff.scope != "" && len(clusters) > 1 {
		return fmt.Errorf(
			"--scope may only be used with a single cluster, got %d: %s",
			len(clusters),
			strings.Join(clusters, ", "),
		)
	}
	return nil
}

func (ff *reconcilerFromFlags) AWSSession() awssession.FromFlags {
	return ff.sessionFromFlags
}

func (ff *reconcilerFromFlags) MakeStore() (registry.Store, error) {
	return ff.registryFromFlags.Make()
}

func (ff *reconcilerFromFlags) options() reconciler.Options {
	return reconciler.Options{
		Scope:     ff.scope,
		KeyMode:   api.KeyMode(ff.keyMode),
		Timeout:   ff.timeout,
		DiffOpts:  *ff.diffOpts,
		PatchOpts: *ff.patchOpts,
	}
}

func (ff *reconcilerFromFlags) Make(source reconciler.TaskSource) (reconciler.Reconciler, error) {
	store, err := ff.registryFromFlags.Make()
	if err != nil {
		return nil, err
	}

	statsClient, err := ff.statsFromFlags.Make()
	if err != nil {
		store.Close()
		return nil, err
	}

	statsClient.AddTags(stats.NewKVTag(constants.VersionTag, constants.Version))

	r := reconciler.New(source, store, ff.options(), statsClient)

	return &reconcilerWithStats{Reconciler: r, stats: statsClient}, nil
}
