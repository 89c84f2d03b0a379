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

// The rolodex-lambda binary runs reconciliation cycles from scheduled AWS
// Lambda invocations. It is configured entirely through the environment: each
// flag accepted by the rolodex command is read from a ROLODEX_-prefixed
// variable (--registry.dynamodb.table becomes ROLODEX_REGISTRY_DYNAMODB_TABLE).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	tbnflag "github.com/turbinelabs/nonstdlib/flag"
	"github.com/turbinelabs/nonstdlib/log/console"
	"github.com/turbinelabs/rolodex"
	"github.com/turbinelabs/rolodex/constants"
	"github.com/turbinelabs/rolodex/plugins/ecs"
	"github.com/turbinelabs/rolodex/reconciler"
)

// aliases maps flags to the unprefixed variables set by the Lambda runtime
// or by existing deployments. A ROLODEX_ variable takes precedence.
var aliases = map[string]string{
	"clusters":                "ECS_CLUSTER",
	"registry.dynamodb.table": "DYNAMODB_TABLE",
	"aws.region":              "AWS_REGION",
}

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

func envKey(flagName string) string {
	return constants.EnvPrefix + "_" + strings.ToUpper(envReplacer.Replace(flagName))
}

// fillFromEnv sets each flag in fs from its environment variable, if present.
func fillFromEnv(fs *flag.FlagSet, lookup func(string) (string, bool)) error {
	var err error
	fs.VisitAll(func(f *flag.Flag) {
		if err != nil {
			return
		}

		key := envKey(f.Name)
		value, ok := lookup(key)
		if !ok {
			if alias, hasAlias := aliases[f.Name]; hasAlias {
				key = alias
				value, ok = lookup(alias)
			}
		}
		if !ok {
			return
		}

		if setErr := fs.Set(f.Name, value); setErr != nil {
			err = fmt.Errorf("invalid value %q for %s: %s", value, key, setErr)
		}
	})
	return err
}

type lambdaConfig struct {
	reconcilerFlags rolodex.ReconcilerFromFlags
	clusters        tbnflag.Strings
	rule            ecs.ExtractRule
}

func newLambdaConfig(fs *flag.FlagSet) *lambdaConfig {
	flags := tbnflag.Wrap(fs)
	console.Init(flags)

	cfg := &lambdaConfig{
		reconcilerFlags: rolodex.NewReconcilerFromFlags(flags),
		clusters:        tbnflag.NewStrings(),
		rule:            ecs.DefaultExtractRule(),
	}

	flags.Var(
		&cfg.clusters,
		"clusters",
		"Specifies a comma separated list of the ECS clusters reconciled on each invocation.",
	)

	ecs.ExtractRuleFlags(flags, &cfg.rule)

	return cfg
}

func (cfg *lambdaConfig) Validate() error {
	if len(cfg.clusters.Strings) == 0 {
		return fmt.Errorf("%s or %s must be specified", envKey("clusters"), aliases["clusters"])
	}

	if err := cfg.rule.Validate(); err != nil {
		return err
	}

	if err := cfg.reconcilerFlags.Validate(); err != nil {
		return err
	}

	if err := cfg.reconcilerFlags.ValidateClusters(cfg.clusters.Strings); err != nil {
		return err
	}

	return cfg.reconcilerFlags.AWSSession().Validate()
}

type handler struct {
	rec      reconciler.Reconciler
	clusters []string
}

// Handle runs one cycle per cluster. An error is returned if any cycle or
// registry write failed, so the invocation is marked failed; the next
// scheduled invocation retries.
func (h *handler) Handle(ctx context.Context, event events.CloudWatchEvent) ([]reconciler.Result, error) {
	console.Debug().Printf("scheduled event %s from %s", event.ID, event.Source)

	results := make([]reconciler.Result, 0, len(h.clusters))
	failed := []string{}
	for _, cluster := range h.clusters {
		result, err := h.rec.Reconcile(ctx, cluster)
		if err != nil {
			failed = append(failed, err.Error())
			continue
		}

		results = append(results, result)
		if result.Failed() {
			failed = append(
				failed,
				fmt.Sprintf("cluster %s: %d registry writes failed", cluster, len(result.Failures)),
			)
		}
	}

	if len(failed) > 0 {
		return results, errors.New(strings.Join(failed, "; "))
	}

	return results, nil
}

func mkHandler(fs *flag.FlagSet, lookup func(string) (string, bool)) (*handler, error) {
	cfg := newLambdaConfig(fs)

	if err := fillFromEnv(fs, lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	source := ecs.NewTaskSource(cfg.reconcilerFlags.AWSSession().Make(), cfg.rule)

	rec, err := cfg.reconcilerFlags.Make(source)
	if err != nil {
		return nil, err
	}

	return &handler{rec: rec, clusters: cfg.clusters.Strings}, nil
}

func main() {
	h, err := mkHandler(flag.NewFlagSet("rolodex-lambda", flag.ContinueOnError), os.LookupEnv)
	if err != nil {
		console.Error().Printf("configuration error: %s", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
