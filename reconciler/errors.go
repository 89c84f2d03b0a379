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
	"errors"
	"fmt"

	"github.com/turbinelabs/rolodex/registry"
)

// ErrorKind classifies reconciliation failures and warnings.
type ErrorKind string

const (
	// SourceUnavailable means the task list or the registry could not be
	// read. The whole cycle is abandoned before any write.
	SourceUnavailable ErrorKind = "SourceUnavailable"

	// WriteConflict means a conditional write lost a race with another
	// writer. It is retried by the next cycle.
	WriteConflict ErrorKind = "WriteConflict"

	// MalformedTask means a live task lacked a role or address and was
	// skipped.
	MalformedTask ErrorKind = "MalformedTask"

	// WriteFailure is any other per-key write error, including writes that
	// were never started because the cycle deadline passed.
	WriteFailure ErrorKind = "WriteFailure"

	// DuplicateKey means several live tasks mapped to one key. The task with
	// the greatest ID was written.
	DuplicateKey ErrorKind = "DuplicateKey"
)

// Source names which collaborator a SourceUnavailable error came from.
type Source string

const (
	// Orchestrator is the live task source.
	Orchestrator Source = "orchestrator"
	// Registry is the registry store.
	Registry Source = "registry"
)

// CycleError is returned by Reconcile when a cycle is abandoned.
type CycleError struct {
	Kind    ErrorKind
	Source  Source
	Cluster string
	Err     error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s for cluster %s: %s", e.Kind, e.Source, e.Cluster, e.Err)
}

func (e *CycleError) Unwrap() error { return e.Err }

// IsSourceUnavailable returns true if err is, or wraps, a SourceUnavailable
// CycleError.
func IsSourceUnavailable(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce) && ce.Kind == SourceUnavailable
}

func writeErrorKind(err error) ErrorKind {
	if registry.IsConflict(err) {
		return WriteConflict
	}
	return WriteFailure
}
