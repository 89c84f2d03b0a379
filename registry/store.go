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

// Package registry provides the persisted lookup table of task addresses.
// Every Store supports conditional writes keyed on the Entry Version, so
// that concurrent reconciliation cycles cannot overwrite each other blindly.
package registry

//go:generate mockgen -source $GOFILE -destination mock_$GOFILE -package $GOPACKAGE --write_package_comment=false

import (
	"context"
	"errors"
	"fmt"

	"github.com/turbinelabs/rolodex/api"
)

// ErrNotFound is returned by Store.Delete when no entry exists for the key.
var ErrNotFound = errors.New("registry entry not found")

// ConflictError is returned when a conditional write finds the stored entry
// in a different state than expected. Current holds the stored entry at the
// time of the conflict, or nil if there is none.
type ConflictError struct {
	Key     api.Key
	Current *api.Entry
}

func (e *ConflictError) Error() string {
	if e.Current == nil {
		return fmt.Sprintf("conditional write conflict on %s: entry absent", e.Key)
	}
	return fmt.Sprintf(
		"conditional write conflict on %s: found version %d",
		e.Key,
		e.Current.Version,
	)
}

// IsConflict returns true if err is, or wraps, a *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// Store is a registry of Entries.
type Store interface {
	// Scan returns every Entry in the given scope.
	Scan(ctx context.Context, scope string) ([]api.Entry, error)

	// ConditionalUpsert writes the entry if the stored entry for its key is
	// at expected.Version, or, if expected is nil, if no entry is stored. The
	// written Entry, with its new Version, is returned. A *ConflictError is
	// returned if the condition fails.
	ConditionalUpsert(ctx context.Context, entry api.Entry, expected *api.Entry) (api.Entry, error)

	// Delete removes the entry for key if it is at expected.Version. It
	// returns ErrNotFound if there is no entry and a *ConflictError if the
	// stored version differs.
	Delete(ctx context.Context, key api.Key, expected api.Entry) error

	// Close releases any resources held by the Store.
	Close() error
}

// checkUpsert applies the ConditionalUpsert precondition to the currently
// stored entry, returning the Version the write should carry.
func checkUpsert(key api.Key, current, expected *api.Entry) (int64, error) {
	switch {
	case expected == nil && current == nil:
		return 1, nil
	case expected == nil || current == nil || current.Version != expected.Version:
		return 0, &ConflictError{Key: key, Current: current}
	default:
		return current.Version + 1, nil
	}
}

// checkDelete applies the Delete precondition to the currently stored entry.
func checkDelete(key api.Key, current *api.Entry, expected api.Entry) error {
	if current == nil {
		return ErrNotFound
	}
	if current.Version != expected.Version {
		return &ConflictError{Key: key, Current: current}
	}
	return nil
}
