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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/turbinelabs/rolodex/api"
)

const boltOpenTimeout = 5 * time.Second

var bucketEntries = []byte("entries")

// boltKey lays out keys as "<scope>\x00<key>" so that a scope can be scanned
// with a prefix seek.
func boltKey(scope string, key api.Key) []byte {
	return append(boltScopePrefix(scope), key.String()...)
}

func boltScopePrefix(scope string) []byte {
	return append([]byte(scope), 0)
}

// NewBolt opens (creating if necessary) a bbolt database at path and returns
// a Store backed by it. Conditional writes run inside a single read-write
// transaction, which bbolt serializes.
func NewBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database %s: %s", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create registry bucket: %s", err)
	}

	return &BoltStore{db: db}, nil
}

// BoltStore is a Store backed by a local bbolt database.
type BoltStore struct {
	db *bolt.DB
}

var _ Store = &BoltStore{}

func (s *BoltStore) Scan(_ context.Context, scope string) ([]api.Entry, error) {
	result := []api.Entry{}
	prefix := boltScopePrefix(scope)

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketEntries).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var e api.Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("corrupt registry entry %q: %s", k, err)
			}
			result = append(result, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func getBolt(b *bolt.Bucket, k []byte) (*api.Entry, error) {
	v := b.Get(k)
	if v == nil {
		return nil, nil
	}
	var e api.Entry
	if err := json.Unmarshal(v, &e); err != nil {
		return nil, fmt.Errorf("corrupt registry entry %q: %s", k, err)
	}
	return &e, nil
}

func (s *BoltStore) ConditionalUpsert(
	_ context.Context,
	entry api.Entry,
	expected *api.Entry,
) (api.Entry, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		k := boltKey(entry.Scope, entry.Key)

		current, err := getBolt(b, k)
		if err != nil {
			return err
		}

		version, err := checkUpsert(entry.Key, current, expected)
		if err != nil {
			return err
		}
		entry.Version = version

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put(k, data)
	})
	if err != nil {
		return api.Entry{}, err
	}

	return entry, nil
}

func (s *BoltStore) Delete(_ context.Context, key api.Key, expected api.Entry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		k := boltKey(expected.Scope, key)

		current, err := getBolt(b, k)
		if err != nil {
			return err
		}
		if err := checkDelete(key, current, expected); err != nil {
			return err
		}
		return b.Delete(k)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
