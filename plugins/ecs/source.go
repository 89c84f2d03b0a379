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

// Package ecs provides a reconciler.TaskSource backed by Amazon ECS, and the
// command that keeps a registry in sync with ECS clusters.
package ecs

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ecs"

	"github.com/turbinelabs/nonstdlib/log/console"
	"github.com/turbinelabs/rolodex/api"
	"github.com/turbinelabs/rolodex/reconciler"
)

// NewTaskSource returns a reconciler.TaskSource that reads running tasks from
// ECS using the given session, deriving roles and addresses with rule.
func NewTaskSource(sess *session.Session, rule ExtractRule) reconciler.TaskSource {
	return &taskSource{
		client: newAwsClient(ecs.New(sess), ec2.New(sess)),
		rule:   rule,
	}
}

type taskSource struct {
	client awsClient
	rule   ExtractRule
}

func (s *taskSource) ListTasks(ctx context.Context, cluster string) ([]api.Task, error) {
	arns, err := s.client.ListTasks(ctx, cluster)
	if err != nil {
		return nil, err
	}

	tasks, err := s.client.GetTasks(ctx, cluster, arns...)
	if err != nil {
		return nil, err
	}

	var hosts map[arn]*ec2.Instance
	if s.rule.Source == AddressFromInstance {
		hosts, err = s.hosts(ctx, cluster, tasks)
		if err != nil {
			return nil, err
		}
	}

	result := make([]api.Task, 0, len(tasks))
	for _, t := range tasks {
		task := api.Task{
			ID:      shortName(arnValue(t.TaskArn)),
			Role:    s.rule.role(t),
			Address: s.rule.address(t, hosts),
		}
		console.Debug().Printf("task %s: role %q address %q", task.ID, task.Role, task.Address)
		result = append(result, task)
	}

	sort.Sort(api.TasksByID(result))

	return result, nil
}

// hosts resolves the EC2 instance behind each task's container instance.
// Fargate tasks have no container instance and are left unresolved.
func (s *taskSource) hosts(
	ctx context.Context,
	cluster string,
	tasks []*ecs.Task,
) (map[arn]*ec2.Instance, error) {
	seen := map[arn]bool{}
	ciarns := []arn{}
	for _, t := range tasks {
		ci := arnValue(t.ContainerInstanceArn)
		if ci != "" && !seen[ci] {
			seen[ci] = true
			ciarns = append(ciarns, ci)
		}
	}

	instIDs, err := s.client.GetContainerInstances(ctx, cluster, ciarns...)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(instIDs))
	for _, id := range instIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	instances, err := s.client.GetEC2Instances(ctx, ids...)
	if err != nil {
		return nil, err
	}

	hosts := make(map[arn]*ec2.Instance, len(instIDs))
	for ci, id := range instIDs {
		inst, ok := instances[id]
		if !ok {
			console.Error().Printf("container instance %s: EC2 instance %s not found", ci, id)
			continue
		}
		hosts[ci] = inst
	}

	return hosts, nil
}
