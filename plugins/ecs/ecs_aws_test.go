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
	"testing"

	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/golang/mock/gomock"

	"github.com/turbinelabs/nonstdlib/ptr"
	"github.com/turbinelabs/test/assert"
)

var boom = errors.New("boooooom")

func TestNewAwsClientSliceSizes(t *testing.T) {
	awsClient := newAwsClient(nil, nil)
	c, ok := awsClient.(awsAdapter)

	assert.True(t, ok)
	assert.Equal(t, c.describeTasksWindowSz, 100)
	assert.Equal(t, c.describeContainerInstancesWindowSz, 100)
}

var sliceWalkInput = ptr.StringSlice([]string{"one", "two", "three", "four", "five", "six", "seven"})

func TestSliceWalkFull(t *testing.T) {
	seen := [][]*string{}

	assert.Nil(t,
		sliceWalk(3, sliceWalkInput, func(in []*string) error {
			seen = append(seen, in)
			return nil
		}),
	)

	assert.DeepEqual(t, seen, [][]*string{
		ptr.StringSlice([]string{"one", "two", "three"}),
		ptr.StringSlice([]string{"four", "five", "six"}),
		ptr.StringSlice([]string{"seven"}),
	})
}

func TestSliceWalkAbort(t *testing.T) {
	seen := [][]*string{}
	i := 0

	assert.DeepEqual(t,
		sliceWalk(3, sliceWalkInput, func(in []*string) error {
			i++
			seen = append(seen, in)

			if i == 2 {
				return boom
			}
			return nil
		}),
		boom,
	)

	assert.Equal(t, len(seen), 2)
}

func TestSliceWalkBadWindow(t *testing.T) {
	assert.DeepEqual(t, sliceWalk(0, sliceWalkInput, nil), badWindowSize)
	assert.DeepEqual(t, sliceWalk(-1, sliceWalkInput, nil), badWindowSize)
}

func mkAwsAdapter(t *testing.T) (awsAdapter, *mockEcsInterface, *mockEc2Interface, func()) {
	ctrl := gomock.NewController(assert.Tracing(t))
	ecsMock := newMockEcsInterface(ctrl)
	ec2Mock := newMockEc2Interface(ctrl)
	aws := awsAdapter{ecsMock, ec2Mock, 2, 2}
	return aws, ecsMock, ec2Mock, ctrl.Finish
}

func TestListTasksPaginates(t *testing.T) {
	aws, ecsMock, _, finish := mkAwsAdapter(t)
	defer finish()

	ctx := context.Background()

	gomock.InOrder(
		ecsMock.EXPECT().
			ListTasksWithContext(ctx, gomock.Any()).
			Do(func(_ context.Context, in *ecs.ListTasksInput) {
				assert.Equal(t, ptr.StringValue(in.Cluster), "c1")
				assert.Equal(t, ptr.StringValue(in.DesiredStatus), "RUNNING")
				assert.Nil(t, in.NextToken)
			}).
			Return(&ecs.ListTasksOutput{
				TaskArns:  ptr.StringSlice([]string{"t1", "t2"}),
				NextToken: ptr.String("page2"),
			}, nil),
		ecsMock.EXPECT().
			ListTasksWithContext(ctx, gomock.Any()).
			Do(func(_ context.Context, in *ecs.ListTasksInput) {
				assert.Equal(t, ptr.StringValue(in.NextToken), "page2")
			}).
			Return(&ecs.ListTasksOutput{TaskArns: ptr.StringSlice([]string{"t3"})}, nil),
	)

	got, err := aws.ListTasks(ctx, "c1")
	assert.Nil(t, err)
	assert.ArrayEqual(t, got, []arn{"t1", "t2", "t3"})
}

func TestListTasksError(t *testing.T) {
	aws, ecsMock, _, finish := mkAwsAdapter(t)
	defer finish()

	ecsMock.EXPECT().ListTasksWithContext(gomock.Any(), gomock.Any()).Return(nil, boom)

	got, err := aws.ListTasks(context.Background(), "c1")
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "could not list tasks for cluster c1: "+boom.Error())
}

func describeTasksOutput(ids ...string) *ecs.DescribeTasksOutput {
	out := &ecs.DescribeTasksOutput{}
	for _, id := range ids {
		out.Tasks = append(out.Tasks, &ecs.Task{TaskArn: ptr.String(id)})
	}
	return out
}

func TestGetTasksWindows(t *testing.T) {
	aws, ecsMock, _, finish := mkAwsAdapter(t)
	defer finish()

	windows := [][]string{}
	record := func(_ context.Context, in *ecs.DescribeTasksInput) {
		assert.Equal(t, ptr.StringValue(in.Cluster), "c1")
		assert.DeepEqual(t, in.Include, ptr.StringSlice([]string{"TAGS"}))
		ids := []string{}
		for _, id := range in.Tasks {
			ids = append(ids, ptr.StringValue(id))
		}
		windows = append(windows, ids)
	}

	gomock.InOrder(
		ecsMock.EXPECT().
			DescribeTasksWithContext(gomock.Any(), gomock.Any()).
			Do(record).
			Return(describeTasksOutput("t1", "t2"), nil),
		ecsMock.EXPECT().
			DescribeTasksWithContext(gomock.Any(), gomock.Any()).
			Do(record).
			Return(describeTasksOutput("t3"), nil),
	)

	got, err := aws.GetTasks(context.Background(), "c1", "t1", "t2", "t3")
	assert.Nil(t, err)
	assert.Equal(t, len(got), 3)
	assert.DeepEqual(t, windows, [][]string{{"t1", "t2"}, {"t3"}})
}

func TestGetTasksNone(t *testing.T) {
	aws, _, _, finish := mkAwsAdapter(t)
	defer finish()

	got, err := aws.GetTasks(context.Background(), "c1")
	assert.Nil(t, got)
	assert.Nil(t, err)
}

func TestGetTasksIgnoresMissing(t *testing.T) {
	aws, ecsMock, _, finish := mkAwsAdapter(t)
	defer finish()

	out := describeTasksOutput("t1")
	out.Failures = []*ecs.Failure{{Arn: ptr.String("t2"), Reason: ptr.String("MISSING")}}
	ecsMock.EXPECT().DescribeTasksWithContext(gomock.Any(), gomock.Any()).Return(out, nil)

	got, err := aws.GetTasks(context.Background(), "c1", "t1", "t2")
	assert.Nil(t, err)
	assert.Equal(t, len(got), 1)
}

func TestGetTasksOtherFailuresAreErrors(t *testing.T) {
	aws, ecsMock, _, finish := mkAwsAdapter(t)
	defer finish()

	out := describeTasksOutput("t1")
	out.Failures = []*ecs.Failure{{Arn: ptr.String("t2"), Reason: ptr.String("ACCESS_DENIED")}}
	ecsMock.EXPECT().DescribeTasksWithContext(gomock.Any(), gomock.Any()).Return(out, nil)

	got, err := aws.GetTasks(context.Background(), "c1", "t1", "t2")
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "failed to describe tasks: t2")
}

func TestGetTasksError(t *testing.T) {
	aws, ecsMock, _, finish := mkAwsAdapter(t)
	defer finish()

	ecsMock.EXPECT().DescribeTasksWithContext(gomock.Any(), gomock.Any()).Return(nil, boom)

	got, err := aws.GetTasks(context.Background(), "c1", "t1")
	assert.Nil(t, got)
	assert.ErrorContains(t, err, boom.Error())
}

func TestGetContainerInstances(t *testing.T) {
	aws, ecsMock, _, finish := mkAwsAdapter(t)
	defer finish()

	gomock.InOrder(
		ecsMock.EXPECT().
			DescribeContainerInstancesWithContext(gomock.Any(), gomock.Any()).
			Return(&ecs.DescribeContainerInstancesOutput{
				ContainerInstances: []*ecs.ContainerInstance{
					{ContainerInstanceArn: ptr.String("ci1"), Ec2InstanceId: ptr.String("i-1")},
					{ContainerInstanceArn: ptr.String("ci2"), Ec2InstanceId: ptr.String("i-2")},
				},
			}, nil),
		ecsMock.EXPECT().
			DescribeContainerInstancesWithContext(gomock.Any(), gomock.Any()).
			Return(&ecs.DescribeContainerInstancesOutput{
				Failures: []*ecs.Failure{{Arn: ptr.String("ci3"), Reason: ptr.String("MISSING")}},
			}, nil),
	)

	got, err := aws.GetContainerInstances(context.Background(), "c1", "ci1", "ci2", "ci3")
	assert.Nil(t, err)
	assert.DeepEqual(t, got, map[arn]string{"ci1": "i-1", "ci2": "i-2"})
}

func TestGetContainerInstancesError(t *testing.T) {
	aws, ecsMock, _, finish := mkAwsAdapter(t)
	defer finish()

	ecsMock.EXPECT().
		DescribeContainerInstancesWithContext(gomock.Any(), gomock.Any()).
		Return(nil, boom)

	got, err := aws.GetContainerInstances(context.Background(), "c1", "ci1")
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "unable to load container instance data")
}

func TestGetEC2InstancesPaginates(t *testing.T) {
	aws, _, ec2Mock, finish := mkAwsAdapter(t)
	defer finish()

	inst := func(id string) *ec2.Instance {
		return &ec2.Instance{
			InstanceId:       ptr.String(id),
			PrivateIpAddress: ptr.String(fmt.Sprintf("10.1.0.%s", id[2:])),
		}
	}

	gomock.InOrder(
		ec2Mock.EXPECT().
			DescribeInstancesWithContext(gomock.Any(), gomock.Any()).
			Return(&ec2.DescribeInstancesOutput{
				Reservations: []*ec2.Reservation{{Instances: []*ec2.Instance{inst("i-1")}}},
				NextToken:    ptr.String("next"),
			}, nil),
		ec2Mock.EXPECT().
			DescribeInstancesWithContext(gomock.Any(), gomock.Any()).
			Return(&ec2.DescribeInstancesOutput{
				Reservations: []*ec2.Reservation{{Instances: []*ec2.Instance{inst("i-2"), nil}}},
			}, nil),
	)

	got, err := aws.GetEC2Instances(context.Background(), "i-1", "i-2")
	assert.Nil(t, err)
	assert.Equal(t, len(got), 2)
	assert.Equal(t, ptr.StringValue(got["i-2"].PrivateIpAddress), "10.1.0.2")
}

func TestGetEC2InstancesError(t *testing.T) {
	aws, _, ec2Mock, finish := mkAwsAdapter(t)
	defer finish()

	ec2Mock.EXPECT().DescribeInstancesWithContext(gomock.Any(), gomock.Any()).Return(nil, boom)

	got, err := aws.GetEC2Instances(context.Background(), "i-1")
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "unable to load EC2 instance data")
}

func TestShortName(t *testing.T) {
	assert.Equal(t, shortName("arn:aws:ecs:us-east-1:123456789012:task/c1/0123abcd"), "0123abcd")
	assert.Equal(t, shortName("0123abcd"), "0123abcd")
}
