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

// Package api defines the objects shared by the rolodex task sources,
// registry stores and reconciler: the live Task reported by an orchestrator
// and the registry Entry that mirrors it.
package api

import (
	"fmt"
	"strings"
	"time"
)

// keySeparator separates the role from the task ID in the string form of a
// Key. Roles may not contain it.
const keySeparator = "/"

// Task is a single running unit of work as reported by an orchestrator.
// Tasks are never modified by rolodex.
type Task struct {
	// ID is the orchestrator-assigned identifier (for ECS, the task ARN).
	ID string `json:"id"`

	// Role is the logical category of the task, e.g. the container name.
	Role string `json:"role"`

	// Address is the current network address of the task. It is empty
	// while the task has no address assigned yet.
	Address string `json:"address"`
}

// Valid returns nil if the Task carries everything necessary to produce a
// registry Entry.
func (t Task) Valid() error {
	var missing []string
	if t.ID == "" {
		missing = append(missing, "id")
	}
	if t.Role == "" {
		missing = append(missing, "role")
	}
	if t.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return fmt.Errorf("task %q missing %s", t.ID, strings.Join(missing, ", "))
	}
	if strings.Contains(t.Role, keySeparator) {
		return fmt.Errorf("task %q role %q may not contain %q", t.ID, t.Role, keySeparator)
	}
	return nil
}

// Tasks is a slice of Task.
type Tasks []Task

// TasksByID sorts Tasks by ID.
type TasksByID Tasks

func (b TasksByID) Len() int           { return len(b) }
func (b TasksByID) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
func (b TasksByID) Less(i, j int) bool { return b[i].ID < b[j].ID }

// KeyMode determines how a Task is mapped to a registry Key.
type KeyMode string

const (
	// KeyByRole keys entries by role alone; one address per role.
	KeyByRole KeyMode = "role"

	// KeyByRoleAndID keys entries by role and task ID, allowing many tasks
	// to share a role.
	KeyByRoleAndID KeyMode = "role-and-id"
)

// KeyModes lists the valid KeyMode values.
var KeyModes = []string{string(KeyByRole), string(KeyByRoleAndID)}

// Key identifies a registry Entry.
type Key struct {
	Role   string `json:"role"`
	TaskID string `json:"task_id,omitempty"`
}

// KeyFor derives the Key for a Task under the given KeyMode.
func KeyFor(t Task, mode KeyMode) Key {
	if mode == KeyByRoleAndID {
		return Key{Role: t.Role, TaskID: t.ID}
	}
	return Key{Role: t.Role}
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("empty key")
	}
	parts := strings.SplitN(s, keySeparator, 2)
	if parts[0] == "" {
		return Key{}, fmt.Errorf("key %q has an empty role", s)
	}
	if len(parts) == 1 {
		return Key{Role: parts[0]}, nil
	}
	return Key{Role: parts[0], TaskID: parts[1]}, nil
}

func (k Key) String() string {
	if k.TaskID == "" {
		return k.Role
	}
	return k.Role + keySeparator + k.TaskID
}

// Entry is a registry record mapping a Key to the last known address of the
// corresponding Task.
type Entry struct {
	Key       Key       `json:"key"`
	Scope     string    `json:"scope"`
	Address   string    `json:"address"`
	UpdatedAt time.Time `json:"updated_at"`

	// Version is maintained by the store and incremented on every write. It
	// is the token for conditional writes; zero means never written.
	Version int64 `json:"version"`
}

// Matches reports whether two entries agree on key, scope and address,
// ignoring store-maintained fields.
func (e Entry) Matches(o Entry) bool {
	return e.Key == o.Key && e.Scope == o.Scope && e.Address == o.Address
}

func (e Entry) String() string {
	return fmt.Sprintf("Entry{%s@%s=%s,v%d}", e.Key, e.Scope, e.Address, e.Version)
}

// Entries is a slice of Entry.
type Entries []Entry

// Map indexes the Entries by Key. Later entries replace earlier ones.
func (es Entries) Map() map[Key]Entry {
	m := make(map[Key]Entry, len(es))
	for _, e := range es {
		m[e.Key] = e
	}
	return m
}

// EntriesByKey sorts Entries by the string form of their Key.
type EntriesByKey Entries

func (b EntriesByKey) Len() int           { return len(b) }
func (b EntriesByKey) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
func (b EntriesByKey) Less(i, j int) bool { return b[i].Key.String() < b[j].Key.String() }
