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
	"flag"

	"github.com/turbinelabs/cli"
	tbnflag "github.com/turbinelabs/nonstdlib/flag"
	"github.com/turbinelabs/nonstdlib/log/console"
	"github.com/turbinelabs/rolodex"
	"github.com/turbinelabs/rolodex/constants"
	"github.com/turbinelabs/rolodex/plugins/ecs"
	"github.com/turbinelabs/rolodex/plugins/file"
)

const desc = `
Keeps a registry of task addresses consistent with the tasks running in an
orchestrator cluster. Each reconciliation cycle lists the live tasks, reads the
registry, and applies conditional per-key writes: new and moved tasks are
upserted, and entries for tasks that no longer run are deleted.

The registry is normally a DynamoDB table (--registry.backend=dynamodb), but a
local bolt database or an in-memory store may be used for testing. The file
command reconciles against tasks listed in a JSON or YAML file, as a bridge for
orchestrators that are not queried directly. Several
copies of rolodex may reconcile the same cluster concurrently; conditional
writes keep them from overwriting each other.
`

func mkCLI() cli.CLI {
	globalFlags := tbnflag.Wrap(&flag.FlagSet{})
	console.Init(globalFlags)
	reconcilerFlags := rolodex.NewReconcilerFromFlags(globalFlags)

	c := cli.NewWithSubCmds(
		desc,
		constants.Version,
		ecs.Cmd(reconcilerFlags),
		file.Cmd(reconcilerFlags),
		showCmd(reconcilerFlags),
	)

	c.SetFlags(globalFlags.Unwrap())

	return c
}

func main() {
	mkCLI().Main()
}
