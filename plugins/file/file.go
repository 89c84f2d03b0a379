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
	"errors"
	"path/filepath"

	"github.com/turbinelabs/cli/command"
	"github.com/turbinelabs/codec"
	tbnflag "github.com/turbinelabs/nonstdlib/flag"
	"github.com/turbinelabs/nonstdlib/flag/usage"
	"github.com/turbinelabs/rolodex"
	"github.com/turbinelabs/rolodex/reconciler"
)

const fileDescription = `Watches the given JSON or YAML file of tasks and reconciles the
registry against it at startup and whenever the file changes. The file collector
can be used as a bridge for orchestrators rolodex does not query directly.

The file can be specified as a flag or as the only argument (but not both).

The structure of the JSON and YAML formats is equivalent. Each contains 0 or
more clusters identified by name, each containing 0 or more tasks. For
example, as YAML:

    - cluster: c1
      tasks:
      - id: 0123abcd
        role: qc_py
        address: 10.0.0.5

Alternatively as JSON:

    [
      {
        "cluster": "c1",
        "tasks": [
          { "id": "0123abcd", "role": "qc_py", "address": "10.0.0.5" }
        ]
      }
    ]

Every cluster named by --clusters must appear in the file; a cluster that is
missing fails its cycle without touching the registry. List a cluster with no
tasks to remove all of its entries.

Note that when updating the file, care should be taken to make the modification
atomic. In practice, this means writing the updated file to a temporary location and
then moving/renaming the file to the watched path. Alternatively, the watched path
may be a symbolic link that is replaced with a reference to the updated file.`

// Cmd creates the file based collector sub command
func Cmd(reconcilerFlags rolodex.ReconcilerFromFlags) *command.Cmd {
	cmd := &command.Cmd{
		Name:        "file",
		Summary:     "file-based task registry",
		Usage:       "[OPTIONS] <file>",
		Description: fileDescription,
	}

	flags := tbnflag.Wrap(&cmd.Flags)
	r := &fileRunner{
		codecFlags:      codec.NewFromFlags(flags),
		reconcilerFlags: reconcilerFlags,
		clusters:        tbnflag.NewStrings(),
		mkCollector:     NewCollector,
	}
	cmd.Runner = r

	cmd.Flags.StringVar(&r.file, "filename", "", "The file from which to collect")

	flags.Var(
		&r.clusters,
		"clusters",
		usage.Required("Specifies a comma separated list of the clusters in the file to reconcile."),
	)

	return cmd
}

type fileRunner struct {
	file            string
	clusters        tbnflag.Strings
	reconcilerFlags rolodex.ReconcilerFromFlags
	codecFlags      codec.FromFlags
	mkCollector     func(string, reconciler.Reconciler, []string) Collector
}

func (r *fileRunner) Run(cmd *command.Cmd, args []string) command.CmdErr {
	if err := r.reconcilerFlags.Validate(); err != nil {
		return cmd.BadInput(err)
	}

	var file string
	if r.file == "" {
		if len(args) != 1 {
			return cmd.BadInput("must specify filename as either flag or single argument")
		}
		file = filepath.Clean(args[0])
	} else {
		if len(args) != 0 {
			return cmd.BadInput("cannot specify filename as both flag and argument")
		}
		file = filepath.Clean(r.file)
	}

	if len(r.clusters.Strings) == 0 {
		return cmd.BadInput(errors.New("--clusters must be specified"))
	}

	if err := r.reconcilerFlags.ValidateClusters(r.clusters.Strings); err != nil {
		return cmd.BadInput(err)
	}

	if err := r.codecFlags.Validate(); err != nil {
		return cmd.BadInput(err)
	}

	rec, err := r.reconcilerFlags.Make(NewTaskSource(file, r.codecFlags.Make()))
	if err != nil {
		return cmd.Error(err)
	}

	collector := r.mkCollector(file, rec, r.clusters.Strings)
	if err := collector.Run(); err != nil {
		return cmd.Error(err)
	}

	return command.NoError()
}
