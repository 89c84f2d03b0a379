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

package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/turbinelabs/rolodex/api"
)

type scopedKey struct {
	scope string
	key   api.Key
}

// NewMemory returns a Store held entirely in memory. It is not persisted
// across processes.
func NewMemory(entries ...api.Entry) *MemoryStore {
	m := &MemoryStore{entries: map[scopedKey]api.Entry{}}
	for _, e := range entries {
		if e.Version == 0 {
			e.Version = 1
		}
		m.entries[scopedKey{e.Scope, e.Key}] = e
	}
	return m
}

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[scopedKey]api.Entry
}

var _ Store = &MemoryStore{}

func (m *MemoryStore) Scan(_ context.Context, scope string) ([]api.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []api.Entry{}
	for sk, e := range m.entries {
		if sk.scope == scope {
			result = append(result, e)
		}
	}
	sort.Sort(api.EntriesByKey(result))
	return result, nil
}

func (m *MemoryStore) lookup(scope string, key api.Key) *api.Entry {
	if e, ok := m.entries[scopedKey{scope, key}]; ok {
		return &e
	}
	return nil
}

func (m *MemoryStore) ConditionalUpsert(
	_ context.Context,
	entry api.Entry,
	expected *api.Entry,
) (api.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	version, err := checkUpsert(entry.Key, m.lookup(entry.Scope, entry.Key), expected)
	if err != nil {
		return api.Entry{}, err
	}

	entry.Version = version
	m.entries[scopedKey{entry.Scope, entry.Key}] = entry
	return entry, nil
}

func (m *MemoryStore) Delete(_ context.Context, key api.Key, expected api.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := checkDelete(key, m.lookup(expected.Scope, key), expected); err != nil {
		return err
	}

	delete(m.entries, scopedKey{expected.Scope, key})
	return nil
}

func (m *MemoryStore) Close() error { return nil }
