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
	"testing"

	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ecs"

	"github.com/turbinelabs/nonstdlib/ptr"
	"github.com/turbinelabs/test/assert"
)

func awsvpcTask() *ecs.Task {
	return &ecs.Task{
		TaskArn:           ptr.String("arn:aws:ecs:us-east-1:123456789012:task/c1/abc"),
		Group:             ptr.String("service:qc"),
		TaskDefinitionArn: ptr.String("arn:aws:ecs:us-east-1:123456789012:task-definition/qc-task:7"),
		Tags: []*ecs.Tag{
			{Key: ptr.String("team"), Value: ptr.String("science")},
			{Key: ptr.String("rolodex-role"), Value: ptr.String("qc_py")},
		},
		Containers: []*ecs.Container{
			{
				Name: ptr.String("qc_py"),
				NetworkInterfaces: []*ecs.NetworkInterface{
					{PrivateIpv4Address: ptr.String("10.0.0.5"), Ipv6Address: ptr.String("fd00::5")},
				},
			},
			{
				Name: ptr.String("sidecar"),
				NetworkInterfaces: []*ecs.NetworkInterface{
					{PrivateIpv4Address: ptr.String("10.0.0.6")},
					{PrivateIpv4Address: ptr.String("10.0.1.6")},
				},
			},
		},
		Attachments: []*ecs.Attachment{
			{
				Type: ptr.String("ElasticNetworkInterface"),
				Details: []*ecs.KeyValuePair{
					{Name: ptr.String("subnetId"), Value: ptr.String("subnet-1")},
					{Name: ptr.String("privateIPv4Address"), Value: ptr.String("10.0.0.7")},
				},
			},
		},
		ContainerInstanceArn: ptr.String("ci1"),
	}
}

func TestDefaultExtractRule(t *testing.T) {
	rule := DefaultExtractRule()
	assert.Nil(t, rule.Validate())
	assert.Equal(t, rule.role(awsvpcTask()), "qc_py")
	assert.Equal(t, rule.address(awsvpcTask(), nil), "10.0.0.5")
}

func TestExtractRuleValidate(t *testing.T) {
	valid := DefaultExtractRule()

	rule := valid
	rule.Source = "carrier-pigeon"
	assert.ErrorContains(t, rule.Validate(), "unknown address source")

	rule = valid
	rule.Family = "ipx"
	assert.ErrorContains(t, rule.Validate(), "unknown ip family")

	rule = valid
	rule.Source = AddressFromAttachment
	rule.Family = IPv6
	assert.ErrorContains(t, rule.Validate(), "ipv4 only")

	rule = valid
	rule.InterfaceIndex = -1
	assert.ErrorContains(t, rule.Validate(), "may not be negative")

	rule = valid
	rule.RoleFrom = "tag:"
	assert.ErrorContains(t, rule.Validate(), "tag name may not be empty")

	rule = valid
	rule.RoleFrom = "hostname"
	assert.ErrorContains(t, rule.Validate(), "unknown role source")

	rule = valid
	rule.RoleFrom = "tag:rolodex-role"
	assert.Nil(t, rule.Validate())
}

func TestExtractRuleRoles(t *testing.T) {
	task := awsvpcTask()
	rule := DefaultExtractRule()

	rule.Container = "sidecar"
	assert.Equal(t, rule.role(task), "sidecar")

	rule.Container = "absent"
	assert.Equal(t, rule.role(task), "")

	rule.Container = ""
	rule.RoleFrom = RoleFromGroup
	assert.Equal(t, rule.role(task), "qc")

	rule.RoleFrom = RoleFromFamily
	assert.Equal(t, rule.role(task), "qc-task")

	rule.RoleFrom = "tag:rolodex-role"
	assert.Equal(t, rule.role(task), "qc_py")

	rule.RoleFrom = "tag:absent"
	assert.Equal(t, rule.role(task), "")
}

func TestExtractRuleENIAddresses(t *testing.T) {
	task := awsvpcTask()
	rule := DefaultExtractRule()

	rule.Family = IPv6
	assert.Equal(t, rule.address(task, nil), "fd00::5")

	rule.Family = IPv4
	rule.Container = "sidecar"
	rule.InterfaceIndex = 1
	assert.Equal(t, rule.address(task, nil), "10.0.1.6")

	rule.InterfaceIndex = 2
	assert.Equal(t, rule.address(task, nil), "")
}

func TestExtractRuleENIMissing(t *testing.T) {
	// a task still provisioning its interface
	task := awsvpcTask()
	task.Containers[0].NetworkInterfaces = nil
	assert.Equal(t, DefaultExtractRule().address(task, nil), "")

	task.Containers = nil
	assert.Equal(t, DefaultExtractRule().address(task, nil), "")
	assert.Equal(t, DefaultExtractRule().role(task), "")
}

func TestExtractRuleAttachmentAddress(t *testing.T) {
	rule := DefaultExtractRule()
	rule.Source = AddressFromAttachment
	assert.Equal(t, rule.address(awsvpcTask(), nil), "10.0.0.7")

	rule.InterfaceIndex = 1
	assert.Equal(t, rule.address(awsvpcTask(), nil), "")
}

func TestExtractRuleInstanceAddress(t *testing.T) {
	hosts := map[arn]*ec2.Instance{
		"ci1": {
			PrivateIpAddress: ptr.String("10.2.0.1"),
			NetworkInterfaces: []*ec2.InstanceNetworkInterface{
				{Ipv6Addresses: []*ec2.InstanceIpv6Address{{Ipv6Address: ptr.String("fd00::21")}}},
			},
		},
	}

	rule := DefaultExtractRule()
	rule.Source = AddressFromInstance
	assert.Equal(t, rule.address(awsvpcTask(), hosts), "10.2.0.1")

	rule.Family = IPv6
	assert.Equal(t, rule.address(awsvpcTask(), hosts), "fd00::21")

	task := awsvpcTask()
	task.ContainerInstanceArn = nil
	assert.Equal(t, rule.address(task, hosts), "")
}
