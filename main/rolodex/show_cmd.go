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

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"sort"

	"github.com/turbinelabs/cli/command"
	"github.com/turbinelabs/codec"
	tbnflag "github.com/turbinelabs/nonstdlib/flag"
	"github.com/turbinelabs/rolodex"
	"github.com/turbinelabs/rolodex/api"
	"github.com/turbinelabs/rolodex/registry"
)

const showDesc = `Prints the registry entries stored for each of the given scopes. The
registry is configured with the same global flags used by the reconciling
commands.`

func showCmd(reconcilerFlags rolodex.ReconcilerFromFlags) *command.Cmd {
	cmd := &command.Cmd{
		Name:        "show",
		Summary:     "print registry entries",
		Usage:       "[OPTIONS] <scope>...",
		Description: showDesc,
	}

	flags := tbnflag.Wrap(&cmd.Flags)
	cmd.Runner = &showRunner{
		reconcilerFlags: reconcilerFlags,
		codecFlags:      codec.NewFromFlags(flags),
		out:             os.Stdout,
	}

	return cmd
}

type showRunner struct {
	reconcilerFlags rolodex.ReconcilerFromFlags
	codecFlags      codec.FromFlags
	out             io.Writer
}

func (r *showRunner) Run(cmd *command.Cmd, args []string) command.CmdErr {
	if len(args) == 0 {
		return cmd.BadInput(errors.New("at least one scope must be specified"))
	}

	if err := r.reconcilerFlags.Validate(); err != nil {
		return cmd.BadInput(err)
	}

	if err := r.codecFlags.Validate(); err != nil {
		return cmd.BadInput(err)
	}

	store, err := r.reconcilerFlags.MakeStore()
	if err != nil {
		return cmd.Error(err)
	}
	defer store.Close()

	if err := show(context.Background(), store, args, r.codecFlags.Make(), r.out); err != nil {
		return cmd.Error(err)
	}

	return command.NoError()
}

func show(
	ctx context.Context,
	store registry.Store,
	scopes []string,
	enc codec.Codec,
	out io.Writer,
) error {
	entries := []api.Entry{}
	for _, scope := range scopes {
		scoped, err := store.Scan(ctx, scope)
		if err != nil {
			return err
		}
		sort.Sort(api.EntriesByKey(scoped))
		entries = append(entries, scoped...)
	}

	return enc.Encode(entries, out)
}
