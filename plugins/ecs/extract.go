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
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ecs"

	"github.com/turbinelabs/nonstdlib/ptr"
)

// AddressSource selects where a task's address is read from.
type AddressSource string

const (
	// AddressFromENI reads the selected container's network interfaces, as
	// populated for awsvpc tasks.
	AddressFromENI AddressSource = "eni"

	// AddressFromAttachment reads the task's ElasticNetworkInterface
	// attachment details.
	AddressFromAttachment AddressSource = "attachment"

	// AddressFromInstance uses the private address of the EC2 instance
	// hosting the task, for bridge and host networking.
	AddressFromInstance AddressSource = "instance"
)

// AddressSources lists the valid AddressSource values.
var AddressSources = []string{
	string(AddressFromENI),
	string(AddressFromAttachment),
	string(AddressFromInstance),
}

// IPFamily selects IPv4 or IPv6 addresses.
type IPFamily string

const (
	IPv4 IPFamily = "ipv4"
	IPv6 IPFamily = "ipv6"
)

const (
	RoleFromContainer = "container"
	RoleFromGroup     = "group"
	RoleFromFamily    = "family"
	RoleFromTagPrefix = "tag:"

	eniAttachmentType       = "ElasticNetworkInterface"
	attachmentPrivateIPv4   = "privateIPv4Address"
	taskDefinitionARNMarker = "task-definition/"
)

// ExtractRule describes how a task's role and address are derived from its
// ECS description.
type ExtractRule struct {
	// Source selects where the address is read from.
	Source AddressSource

	// Container names the container whose network interfaces (for
	// AddressFromENI) or name (for RoleFromContainer) are used. If empty, the
	// first container is used.
	Container string

	// InterfaceIndex selects among multiple network interfaces or
	// attachments.
	InterfaceIndex int

	// Family selects IPv4 or IPv6 addresses.
	Family IPFamily

	// RoleFrom is one of "container", "group", "family", or "tag:<name>".
	RoleFrom string
}

// DefaultExtractRule returns the rule matching a single-container awsvpc
// task: the first container's name and its first IPv4 address.
func DefaultExtractRule() ExtractRule {
	return ExtractRule{
		Source:   AddressFromENI,
		Family:   IPv4,
		RoleFrom: RoleFromContainer,
	}
}

// Validate returns an error if the rule is incomplete or inconsistent.
func (r ExtractRule) Validate() error {
	switch r.Source {
	case AddressFromENI, AddressFromInstance:
	case AddressFromAttachment:
		if r.Family == IPv6 {
			return errors.New("the attachment address source supports ipv4 only")
		}
	default:
		return fmt.Errorf(
			"unknown address source %q, must be one of: %s",
			r.Source,
			strings.Join(AddressSources, ", "),
		)
	}

	switch r.Family {
	case IPv4, IPv6:
	default:
		return fmt.Errorf("unknown ip family %q, must be ipv4 or ipv6", r.Family)
	}

	if r.InterfaceIndex < 0 {
		return errors.New("interface index may not be negative")
	}

	switch {
	case r.RoleFrom == RoleFromContainer,
		r.RoleFrom == RoleFromGroup,
		r.RoleFrom == RoleFromFamily:
	case strings.HasPrefix(r.RoleFrom, RoleFromTagPrefix):
		if r.RoleFrom == RoleFromTagPrefix {
			return errors.New("role tag name may not be empty")
		}
	default:
		return fmt.Errorf(
			"unknown role source %q, must be container, group, family, or tag:<name>",
			r.RoleFrom,
		)
	}

	return nil
}

func (r ExtractRule) container(t *ecs.Task) *ecs.Container {
	for _, c := range t.Containers {
		if c == nil {
			continue
		}
		if r.Container == "" || ptr.StringValue(c.Name) == r.Container {
			return c
		}
	}
	return nil
}

// role derives a task's role, returning "" if it cannot.
func (r ExtractRule) role(t *ecs.Task) string {
	switch r.RoleFrom {
	case RoleFromContainer:
		if c := r.container(t); c != nil {
			return ptr.StringValue(c.Name)
		}

	case RoleFromGroup:
		// groups look like "service:name" or "family:name"
		group := ptr.StringValue(t.Group)
		if i := strings.Index(group, ":"); i >= 0 {
			return group[i+1:]
		}
		return group

	case RoleFromFamily:
		// arn:aws:ecs:region:account:task-definition/family:revision
		td := ptr.StringValue(t.TaskDefinitionArn)
		if i := strings.Index(td, taskDefinitionARNMarker); i >= 0 {
			td = td[i+len(taskDefinitionARNMarker):]
		}
		if i := strings.LastIndex(td, ":"); i >= 0 {
			td = td[:i]
		}
		return td

	default:
		name := strings.TrimPrefix(r.RoleFrom, RoleFromTagPrefix)
		for _, tag := range t.Tags {
			if tag != nil && ptr.StringValue(tag.Key) == name {
				return ptr.StringValue(tag.Value)
			}
		}
	}

	return ""
}

// address derives a task's address, returning "" if it cannot. hosts maps
// container instance ARNs to their EC2 instances and is consulted only for
// AddressFromInstance.
func (r ExtractRule) address(t *ecs.Task, hosts map[arn]*ec2.Instance) string {
	switch r.Source {
	case AddressFromENI:
		c := r.container(t)
		if c == nil || r.InterfaceIndex >= len(c.NetworkInterfaces) {
			return ""
		}
		ni := c.NetworkInterfaces[r.InterfaceIndex]
		if ni == nil {
			return ""
		}
		if r.Family == IPv6 {
			return ptr.StringValue(ni.Ipv6Address)
		}
		return ptr.StringValue(ni.PrivateIpv4Address)

	case AddressFromAttachment:
		enis := []*ecs.Attachment{}
		for _, a := range t.Attachments {
			if a != nil && ptr.StringValue(a.Type) == eniAttachmentType {
				enis = append(enis, a)
			}
		}
		if r.InterfaceIndex >= len(enis) {
			return ""
		}
		for _, d := range enis[r.InterfaceIndex].Details {
			if d != nil && ptr.StringValue(d.Name) == attachmentPrivateIPv4 {
				return ptr.StringValue(d.Value)
			}
		}

	case AddressFromInstance:
		inst := hosts[arnValue(t.ContainerInstanceArn)]
		if inst == nil {
			return ""
		}
		if r.Family == IPv4 {
			return ptr.StringValue(inst.PrivateIpAddress)
		}
		if r.InterfaceIndex < len(inst.NetworkInterfaces) {
			ni := inst.NetworkInterfaces[r.InterfaceIndex]
			if ni != nil && len(ni.Ipv6Addresses) > 0 && ni.Ipv6Addresses[0] != nil {
				return ptr.StringValue(ni.Ipv6Addresses[0].Ipv6Address)
			}
		}
	}

	return ""
}
