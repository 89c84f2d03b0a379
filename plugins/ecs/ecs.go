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

package ecs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/turbinelabs/cli/command"
	"github.com/turbinelabs/codec"
	tbnflag "github.com/turbinelabs/nonstdlib/flag"
	"github.com/turbinelabs/nonstdlib/flag/usage"
	"github.com/turbinelabs/rolodex"
	"github.com/turbinelabs/rolodex/loop"
	"github.com/turbinelabs/rolodex/reconciler"
)

const defaultInterval = 30 * time.Second

type ecsSettings struct {
	clusters tbnflag.Strings
	interval time.Duration
	once     bool
	rule     ExtractRule
}

func (cfg ecsSettings) Validate() error {
	if len(cfg.clusters.Strings) == 0 {
		return errors.New("--clusters must be specified")
	}

	if cfg.interval <= 0 {
		return errors.New("--interval must be positive")
	}

	return cfg.rule.Validate()
}

type ecsRunner struct {
	cfg ecsSettings

	reconcilerFlags rolodex.ReconcilerFromFlags
	codecFlags      codec.FromFlags
	mkSource        func(*session.Session, ExtractRule) reconciler.TaskSource
	out             io.Writer
}

// Cmd configures the parameters needed for running rolodex against ECS.
func Cmd(reconcilerFlags rolodex.ReconcilerFromFlags) *command.Cmd {
	runner := &ecsRunner{
		reconcilerFlags: reconcilerFlags,
		mkSource:        NewTaskSource,
		out:             os.Stdout,
	}

	cmd := &command.Cmd{
		Name:        "ecs",
		Summary:     "ECS task registry",
		Usage:       "[OPTIONS]",
		Description: ecsDescription,
		Runner:      runner,
	}

	runner.cfg.clusters = tbnflag.NewStrings()
	runner.cfg.rule = DefaultExtractRule()

	flags := tbnflag.Wrap(&cmd.Flags)
	runner.codecFlags = codec.NewFromFlags(flags)

	flags.Var(
		&runner.cfg.clusters,
		"clusters",
		usage.Required(
			"Specifies a comma separated list of the ECS clusters whose running "+
				"tasks are mirrored into the registry.",
		),
	)

	flags.DurationVar(
		&runner.cfg.interval,
		"interval",
		defaultInterval,
		"The time between the starts of successive reconciliation rounds.",
	)

	flags.BoolVar(
		&runner.cfg.once,
		"once",
		false,
		"Run a single cycle for each cluster, print the results, and exit.",
	)

	ExtractRuleFlags(flags, &runner.cfg.rule)

	return cmd
}

// ExtractRuleFlags installs flags controlling the given ExtractRule into the
// FlagSet, using the rule's current values as defaults.
func ExtractRuleFlags(flags tbnflag.FlagSet, rule *ExtractRule) {
	flags.StringVar(
		(*string)(&rule.Source),
		"address-source",
		string(rule.Source),
		fmt.Sprintf(
			"Where a task's address is read from, one of: %s.",
			strings.Join(AddressSources, ", "),
		),
	)

	flags.StringVar(
		&rule.Container,
		"container",
		rule.Container,
		"The container whose name or network interfaces are used. "+
			"Defaults to the first container in the task.",
	)

	flags.IntVar(
		&rule.InterfaceIndex,
		"interface-index",
		rule.InterfaceIndex,
		"Selects among several network interfaces or attachments.",
	)

	flags.StringVar(
		(*string)(&rule.Family),
		"ip-family",
		string(rule.Family),
		"The address family to register, ipv4 or ipv6.",
	)

	flags.StringVar(
		&rule.RoleFrom,
		"role-from",
		rule.RoleFrom,
		"Where a task's role is read from: container, group, family, or tag:<name>.",
	)
}

func (r *ecsRunner) Run(cmd *command.Cmd, args []string) command.CmdErr {
	if err := r.reconcilerFlags.Validate(); err != nil {
		return cmd.BadInput(err)
	}

	if err := r.cfg.Validate(); err != nil {
		return cmd.BadInput(err)
	}

	if err := r.reconcilerFlags.ValidateClusters(r.cfg.clusters.Strings); err != nil {
		return cmd.BadInput(err)
	}

	if err := r.codecFlags.Validate(); err != nil {
		return cmd.BadInput(err)
	}

	sessionFlags := r.reconcilerFlags.AWSSession()
	if err := sessionFlags.Validate(); err != nil {
		return cmd.BadInput(err)
	}

	source := r.mkSource(sessionFlags.Make(), r.cfg.rule)

	rec, err := r.reconcilerFlags.Make(source)
	if err != nil {
		return cmd.Error(err)
	}

	if r.cfg.once {
		defer rec.Close()
		if err := reconcileOnce(context.Background(), rec, r.cfg.clusters.Strings, r.codecFlags.Make(), r.out); err != nil {
			return cmd.Error(err)
		}
		return command.NoError()
	}

	loop.Loop(rec, r.cfg.clusters.Strings, r.cfg.interval)

	return command.NoError()
}

// reconcileOnce runs one cycle per cluster, writing each Result to out. It
// returns an error if any cycle or write failed.
func reconcileOnce(
	ctx context.Context,
	rec reconciler.Reconciler,
	clusters []string,
	enc codec.Codec,
	out io.Writer,
) error {
	failed := []string{}
	for _, cluster := range clusters {
		result, err := rec.Reconcile(ctx, cluster)
		if err != nil {
			failed = append(failed, err.Error())
			continue
		}

		if err := enc.Encode(result, out); err != nil {
			return err
		}

		if result.Failed() {
			failed = append(
				failed,
				fmt.Sprintf("cluster %s: %d registry writes failed", cluster, len(result.Failures)),
			)
		}
	}

	if len(failed) > 0 {
		return errors.New(strings.Join(failed, "; "))
	}

	return nil
}
