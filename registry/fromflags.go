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

//go:generate $TBN_HOME/scripts/mockgen_internal.sh -type FromFlags -source $GOFILE -destination mock_$GOFILE -package $GOPACKAGE --write_package_comment=false

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/service/dynamodb"

	tbnflag "github.com/turbinelabs/nonstdlib/flag"
	"github.com/turbinelabs/rolodex/awssession"
)

const (
	// DynamoDBBackend selects a DynamoDBStore.
	DynamoDBBackend = "dynamodb"
	// BoltBackend selects a BoltStore.
	BoltBackend = "bolt"
	// MemoryBackend selects a MemoryStore.
	MemoryBackend = "memory"
)

var backends = []string{DynamoDBBackend, BoltBackend, MemoryBackend}

// FromFlags represents command-line flags specifying configuration of a
// Store.
type FromFlags interface {
	Validate() error
	Make() (Store, error)
}

// NewFromFlags installs a FromFlags in the given FlagSet. The AWS session is
// only consulted if the dynamodb backend is selected.
func NewFromFlags(flagset tbnflag.FlagSet, sessionFromFlags awssession.FromFlags) FromFlags {
	ff := &fromFlags{sessionFromFlags: sessionFromFlags}

	flagset.StringVar(
		&ff.backend,
		"backend",
		DynamoDBBackend,
		fmt.Sprintf("The registry backend, one of: %s.", strings.Join(backends, ", ")),
	)

	flagset.StringVar(
		&ff.table,
		"dynamodb.table",
		"",
		"The DynamoDB table holding registry entries. Required for the dynamodb backend.",
	)

	attrs := DefaultDynamoDBAttributes
	ff.attrs = attrs

	flagset.StringVar(
		&ff.attrs.Key,
		"dynamodb.key-attribute",
		attrs.Key,
		"The table's partition key attribute; holds the entry key.",
	)
	flagset.StringVar(
		&ff.attrs.Scope,
		"dynamodb.scope-attribute",
		attrs.Scope,
		"The attribute holding the entry's scope.",
	)
	flagset.StringVar(
		&ff.attrs.Address,
		"dynamodb.address-attribute",
		attrs.Address,
		"The attribute holding the entry's address.",
	)
	flagset.StringVar(
		&ff.attrs.UpdatedAt,
		"dynamodb.updated-at-attribute",
		attrs.UpdatedAt,
		"The attribute holding the entry's last write time.",
	)
	flagset.StringVar(
		&ff.attrs.Version,
		"dynamodb.version-attribute",
		attrs.Version,
		"The attribute holding the entry's version, used for conditional writes.",
	)

	flagset.StringVar(
		&ff.boltPath,
		"bolt.path",
		"rolodex.db",
		"The database file for the bolt backend.",
	)

	return ff
}

type fromFlags struct {
	sessionFromFlags awssession.FromFlags

	backend  string
	table    string
	attrs    DynamoDBAttributes
	boltPath string
}

func (ff *fromFlags) Validate() error {
	switch ff.backend {
	case DynamoDBBackend:
		if ff.table == "" {
			return errors.New("--registry.dynamodb.table must be specified for the dynamodb backend")
		}
		seen := map[string]bool{}
		for _, a := range []string{
			ff.attrs.Key,
			ff.attrs.Scope,
			ff.attrs.Address,
			ff.attrs.UpdatedAt,
			ff.attrs.Version,
		} {
			if a == "" {
				return errors.New("dynamodb attribute names may not be empty")
			}
			if seen[a] {
				return fmt.Errorf("dynamodb attribute name %q used more than once", a)
			}
			seen[a] = true
		}
		return ff.sessionFromFlags.Validate()

	case BoltBackend:
		if ff.boltPath == "" {
			return errors.New("--registry.bolt.path must be specified for the bolt backend")
		}
		return nil

	case MemoryBackend:
		return nil

	default:
		return fmt.Errorf(
			"unknown registry backend %q, must be one of: %s",
			ff.backend,
			strings.Join(backends, ", "),
		)
	}
}

func (ff *fromFlags) Make() (Store, error) {
	switch ff.backend {
	case DynamoDBBackend:
		client := dynamodb.New(ff.sessionFromFlags.Make())
		return NewDynamoDB(client, ff.table, ff.attrs), nil

	case BoltBackend:
		return NewBolt(ff.boltPath)

	case MemoryBackend:
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown registry backend %q", ff.backend)
	}
}
