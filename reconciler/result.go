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

package reconciler

import (
	"time"

	"github.com/turbinelabs/rolodex/api"
	"github.com/turbinelabs/rolodex/differ"
)

// Result summarizes one reconciliation cycle.
type Result struct {
	CycleID  string        `json:"cycle_id"`
	Cluster  string        `json:"cluster"`
	Scope    string        `json:"scope"`
	DryRun   bool          `json:"dry_run,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`

	// Upserts and Deletes count successful writes, or planned writes in a
	// dry run.
	Upserts int `json:"upserts"`
	Deletes int `json:"deletes"`

	// Noops counts keys already matching the live state, including writes
	// refused because a concurrent cycle had already converged the key.
	Noops int `json:"noops"`

	// Converged counts the subset of Noops resolved by conflict.
	Converged int `json:"converged,omitempty"`

	// Skipped counts live tasks without a role or address.
	Skipped int `json:"skipped"`

	Failures []Failure `json:"failures,omitempty"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Failed returns true if any per-key write failed.
func (r Result) Failed() bool {
	return len(r.Failures) > 0
}

// Failure describes a per-key write that did not apply.
type Failure struct {
	Key    api.Key       `json:"key"`
	Action differ.Action `json:"action"`
	Kind   ErrorKind     `json:"kind"`
	Error  string        `json:"error"`

	Err error `json:"-"`
}

// Warning describes a task-level anomaly that did not prevent the cycle.
type Warning struct {
	Kind    ErrorKind `json:"kind"`
	TaskID  string    `json:"task_id,omitempty"`
	Key     *api.Key  `json:"key,omitempty"`
	Message string    `json:"message"`
}
