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

const ecsDescription = `Connects to one or more ECS clusters and keeps the
registry in sync with the tasks running in them, at startup and periodically
thereafter.

Each cycle lists every running task in a cluster, derives a role and an
address for each task, and compares the result with the registry entries in
the cluster's scope. Entries are created or updated when a task's address
changes and deleted when no running task maps to them. Each write is a
conditional write against the entry observed at the start of the cycle, so
that several rolodex instances may safely reconcile the same cluster.

A task's address is read according to --address-source:

    eni         the private address of the selected container's network
                interface (awsvpc networking, including Fargate)
    attachment  the private IPv4 address of the task's elastic network
                interface attachment
    instance    the private address of the EC2 instance hosting the task
                (bridge or host networking)

A task's role is read according to --role-from:

    container   the name of the selected container
    group       the task group, e.g. the service name
    family      the task definition family
    tag:<name>  the value of the named task tag

Tasks without a role or address, such as tasks still provisioning their
network interface, are skipped for the cycle and counted in its result.
Skipped tasks never cause their entry to be deleted.

With --once, a single cycle is run for each cluster, its result is printed,
and the command exits with an error if any cycle or write failed.`
