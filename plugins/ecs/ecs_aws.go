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
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ecs"

	"github.com/turbinelabs/nonstdlib/log/console"
	"github.com/turbinelabs/nonstdlib/ptr"
)

const (
	DescribeTasksWindowSz              = 100
	DescribeContainerInstancesWindowSz = 100

	// ECS reports tasks that stopped between ListTasks and DescribeTasks
	// with this failure reason.
	failureReasonMissing = "MISSING"
)

//go:generate $TBN_HOME/scripts/mockgen_internal.sh -type awsClient,ecsInterface,ec2Interface -source $GOFILE -destination mock_$GOFILE -package $GOPACKAGE --write_package_comment=false

type arn string

// awsClient represents an adapter than handles making calls to AWS.
type awsClient interface {
	// ListTasks returns the ARNs of all running tasks in the cluster,
	// following pagination to exhaustion.
	ListTasks(ctx context.Context, cluster string) ([]arn, error)

	// GetTasks loads descriptions of the given tasks, including their tags.
	// Tasks that stopped since they were listed are omitted; any other
	// per-task failure is an error, since a partial task list would cause
	// live entries to be deleted.
	GetTasks(ctx context.Context, cluster string, taskARN ...arn) ([]*ecs.Task, error)

	// GetContainerInstances maps container instance ARNs to the ID of the
	// EC2 instance backing each.
	GetContainerInstances(
		ctx context.Context,
		cluster string,
		ciarn ...arn,
	) (map[arn]string, error)

	// GetEC2Instances returns instances based on their instance id.
	GetEC2Instances(ctx context.Context, instIDs ...string) (map[string]*ec2.Instance, error)
}

// ecsInterface is an interface that allows us to mock an ECS client, see
// github.com/aws/aws-sdk-go/service/ecs/api.go for method docs.
type ecsInterface interface {
	ListTasksWithContext(
		aws.Context,
		*ecs.ListTasksInput,
		...request.Option,
	) (*ecs.ListTasksOutput, error)
	DescribeTasksWithContext(
		aws.Context,
		*ecs.DescribeTasksInput,
		...request.Option,
	) (*ecs.DescribeTasksOutput, error)
	DescribeContainerInstancesWithContext(
		aws.Context,
		*ecs.DescribeContainerInstancesInput,
		...request.Option,
	) (*ecs.DescribeContainerInstancesOutput, error)
}

// ec2Interface is an interface that allows us to mock an EC2 client see
// github.com/aws/aws-sdk-go/service/ec2/api.go for method docs.
type ec2Interface interface {
	DescribeInstancesWithContext(
		aws.Context,
		*ec2.DescribeInstancesInput,
		...request.Option,
	) (*ec2.DescribeInstancesOutput, error)
}

type awsAdapter struct {
	ecs ecsInterface
	ec2 ec2Interface

	describeTasksWindowSz              int
	describeContainerInstancesWindowSz int
}

var _ awsClient = awsAdapter{}

func newAwsClient(ecs ecsInterface, ec2 ec2Interface) awsClient {
	return awsAdapter{ecs, ec2, DescribeTasksWindowSz, DescribeContainerInstancesWindowSz}
}

var badWindowSize = errors.New("invalid window size")

func (a awsAdapter) ListTasks(ctx context.Context, cluster string) ([]arn, error) {
	arg := &ecs.ListTasksInput{
		Cluster:       &cluster,
		DesiredStatus: ptr.String(ecs.DesiredStatusRunning),
	}

	tasks := []arn{}

	moreTasks := true
	for moreTasks {
		out, err := a.ecs.ListTasksWithContext(ctx, arg)
		if err != nil {
			return nil, fmt.Errorf("could not list tasks for cluster %s: %s", cluster, err.Error())
		}

		for _, sptr := range out.TaskArns {
			tasks = append(tasks, arnValue(sptr))
		}

		arg.NextToken = out.NextToken
		moreTasks = arg.NextToken != nil
	}

	return tasks, nil
}

func min(i, j int) int {
	if i < j {
		return i
	}
	return j
}

func sliceWalk(windowSz int, input []*string, fn func([]*string) error) error {
	if windowSz < 1 {
		return badWindowSize
	}

	cnt := len(input)
	for i := 0; i < cnt; i += windowSz {
		err := fn(input[i : i+min(windowSz, cnt-i)])
		if err != nil {
			return err
		}
	}
	return nil
}

func (a awsAdapter) GetTasks(
	ctx context.Context,
	cluster string,
	taskARN ...arn,
) ([]*ecs.Task, error) {
	if len(taskARN) == 0 {
		return nil, nil
	}

	dest := make([]*ecs.Task, 0, len(taskARN))
	taskIDs := ptr.StringSlice(a2s(taskARN))
	err := sliceWalk(a.describeTasksWindowSz, taskIDs, func(ids []*string) error {
		arg := &ecs.DescribeTasksInput{
			Cluster: &cluster,
			Tasks:   ids,
			Include: []*string{ptr.String(ecs.TaskFieldTags)},
		}

		out, err := a.ecs.DescribeTasksWithContext(ctx, arg)
		if err != nil {
			return fmt.Errorf("failed to load task instance data: %s", err.Error())
		}

		failed := []string{}
		for _, f := range out.Failures {
			reason := ptr.StringValue(f.Reason)
			console.Error().Printf("%s: %s", ptr.StringValue(f.Arn), reason)
			if reason != failureReasonMissing {
				failed = append(failed, ptr.StringValue(f.Arn))
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("failed to describe tasks: %s", strings.Join(failed, ", "))
		}

		for _, t := range out.Tasks {
			if t != nil {
				dest = append(dest, t)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return dest, nil
}

func (a awsAdapter) GetContainerInstances(
	ctx context.Context,
	cluster string,
	ciarn ...arn,
) (map[arn]string, error) {
	if len(ciarn) == 0 {
		return nil, nil
	}

	dest := map[arn]string{}
	ids := ptr.StringSlice(a2s(ciarn))
	err := sliceWalk(a.describeContainerInstancesWindowSz, ids, func(ids []*string) error {
		arg := &ecs.DescribeContainerInstancesInput{
			Cluster:            &cluster,
			ContainerInstances: ids,
		}
		out, err := a.ecs.DescribeContainerInstancesWithContext(ctx, arg)
		if err != nil {
			return fmt.Errorf("unable to load container instance data: %s", err.Error())
		}

		for _, f := range out.Failures {
			console.Error().Printf("%s: %s", ptr.StringValue(f.Arn), ptr.StringValue(f.Reason))
		}

		for _, ci := range out.ContainerInstances {
			dest[arnValue(ci.ContainerInstanceArn)] = ptr.StringValue(ci.Ec2InstanceId)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return dest, nil
}

func (a awsAdapter) GetEC2Instances(
	ctx context.Context,
	instIDs ...string,
) (map[string]*ec2.Instance, error) {
	if len(instIDs) == 0 {
		return nil, nil
	}

	result := map[string]*ec2.Instance{}
	arg := &ec2.DescribeInstancesInput{InstanceIds: ptr.StringSlice(instIDs)}

	moreInstances := true
	for moreInstances {
		out, err := a.ec2.DescribeInstancesWithContext(ctx, arg)
		if err != nil {
			return nil, fmt.Errorf("unable to load EC2 instance data: %s", err.Error())
		}

		for _, reservation := range out.Reservations {
			for _, inst := range reservation.Instances {
				if inst == nil {
					continue
				}
				iid := ptr.StringValue(inst.InstanceId)
				if _, ok := result[iid]; !ok && iid != "" {
					result[iid] = inst
				}
			}
		}

		arg.NextToken = out.NextToken
		moreInstances = arg.NextToken != nil
	}

	return result, nil
}

func arnValue(s *string) arn {
	return arn(ptr.StringValue(s))
}

// shortName returns the final path segment of an ARN, e.g. the task ID of
// arn:aws:ecs:us-east-1:123456789012:task/cluster/0123abcd.
func shortName(a arn) string {
	s := string(a)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func a2s(a []arn) []string {
	s := make([]string, 0, len(a))
	for _, e := range a {
		s = append(s, string(e))
	}
	return s
}
