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

//go:generate $TBN_HOME/scripts/mockgen_internal.sh -type dynamoInterface -source $GOFILE -destination mock_$GOFILE -package $GOPACKAGE --write_package_comment=false

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"

	"github.com/turbinelabs/nonstdlib/log/console"
	"github.com/turbinelabs/nonstdlib/ptr"
	"github.com/turbinelabs/rolodex/api"
)

// DynamoDBAttributes names the item attributes used to store an Entry. The
// Key attribute must be the table's partition key. It holds the scope and the
// Entry Key joined by scopeSeparator, so that scopes sharing a table never
// share items.
//
// Items without a Scope attribute, as written by earlier ECS-to-DynamoDB
// mirrors, are returned by every Scan with an empty Scope. Writing such an
// entry into a scope removes the unscoped item and creates the scoped one;
// deleting it removes the unscoped item.
type DynamoDBAttributes struct {
	Key       string
	Scope     string
	Address   string
	UpdatedAt string
	Version   string
}

// DefaultDynamoDBAttributes keeps the key and address attribute names of
// tables populated by earlier ECS-to-DynamoDB address mirrors.
var DefaultDynamoDBAttributes = DynamoDBAttributes{
	Key:       "task_type",
	Scope:     "cluster",
	Address:   "private_ip",
	UpdatedAt: "updated_at",
	Version:   "version",
}

// dynamoInterface is the subset of the DynamoDB client used by the store,
// see github.com/aws/aws-sdk-go/service/dynamodb/api.go for method docs.
type dynamoInterface interface {
	ScanWithContext(
		aws.Context, *dynamodb.ScanInput, ...request.Option) (*dynamodb.ScanOutput, error)
	GetItemWithContext(
		aws.Context, *dynamodb.GetItemInput, ...request.Option) (*dynamodb.GetItemOutput, error)
	PutItemWithContext(
		aws.Context, *dynamodb.PutItemInput, ...request.Option) (*dynamodb.PutItemOutput, error)
	DeleteItemWithContext(
		aws.Context, *dynamodb.DeleteItemInput, ...request.Option) (*dynamodb.DeleteItemOutput, error)
}

// NewDynamoDB returns a Store backed by the named DynamoDB table.
func NewDynamoDB(
	client dynamoInterface,
	table string,
	attrs DynamoDBAttributes,
) *DynamoDBStore {
	return &DynamoDBStore{client: client, table: table, attrs: attrs}
}

// DynamoDBStore is a Store backed by a DynamoDB table. Conditional writes are
// expressed as ConditionExpressions on the version attribute.
type DynamoDBStore struct {
	client dynamoInterface
	table  string
	attrs  DynamoDBAttributes
}

var _ Store = &DynamoDBStore{}

// scopeSeparator joins scope and key in the partition key value. ECS cluster
// names may not contain it.
const scopeSeparator = ":"

func str(s string) *dynamodb.AttributeValue {
	return &dynamodb.AttributeValue{S: aws.String(s)}
}

func num(i int64) *dynamodb.AttributeValue {
	return &dynamodb.AttributeValue{N: aws.String(strconv.FormatInt(i, 10))}
}

func keyValue(scope string, key api.Key) string {
	if scope == "" {
		return key.String()
	}
	return scope + scopeSeparator + key.String()
}

func (s *DynamoDBStore) itemKey(scope string, key api.Key) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{s.attrs.Key: str(keyValue(scope, key))}
}

func (s *DynamoDBStore) encode(e api.Entry) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		s.attrs.Key:       str(keyValue(e.Scope, e.Key)),
		s.attrs.Scope:     str(e.Scope),
		s.attrs.Address:   str(e.Address),
		s.attrs.UpdatedAt: str(e.UpdatedAt.UTC().Format(time.RFC3339Nano)),
		s.attrs.Version:   num(e.Version),
	}
}

func (s *DynamoDBStore) decode(item map[string]*dynamodb.AttributeValue) (api.Entry, error) {
	attrString := func(name string) string {
		if av, ok := item[name]; ok && av != nil {
			return ptr.StringValue(av.S)
		}
		return ""
	}

	scope := attrString(s.attrs.Scope)
	raw := attrString(s.attrs.Key)
	if scope != "" {
		prefix := scope + scopeSeparator
		if !strings.HasPrefix(raw, prefix) {
			return api.Entry{}, fmt.Errorf(
				"%s %q is not qualified by %s %q", s.attrs.Key, raw, s.attrs.Scope, scope)
		}
		raw = strings.TrimPrefix(raw, prefix)
	}

	key, err := api.ParseKey(raw)
	if err != nil {
		return api.Entry{}, err
	}

	e := api.Entry{
		Key:     key,
		Scope:   scope,
		Address: attrString(s.attrs.Address),
	}

	if ts := attrString(s.attrs.UpdatedAt); ts != "" {
		if e.UpdatedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return api.Entry{}, fmt.Errorf("bad %s for %s: %s", s.attrs.UpdatedAt, key, err)
		}
	}

	// items written by tools that predate versioning have no version; they
	// read as version 0.
	if av, ok := item[s.attrs.Version]; ok && av != nil && av.N != nil {
		if e.Version, err = strconv.ParseInt(*av.N, 10, 64); err != nil {
			return api.Entry{}, fmt.Errorf("bad %s for %s: %s", s.attrs.Version, key, err)
		}
	}

	return e, nil
}

func (s *DynamoDBStore) Scan(ctx context.Context, scope string) ([]api.Entry, error) {
	arg := &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		ConsistentRead:            aws.Bool(true),
		FilterExpression:          aws.String("#scope = :scope OR attribute_not_exists(#scope)"),
		ExpressionAttributeNames:  map[string]*string{"#scope": aws.String(s.attrs.Scope)},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{":scope": str(scope)},
	}

	scoped := []api.Entry{}
	unscoped := []api.Entry{}
	moreItems := true
	for moreItems {
		out, err := s.client.ScanWithContext(ctx, arg)
		if err != nil {
			return nil, fmt.Errorf("could not scan table %s: %s", s.table, err)
		}

		for _, item := range out.Items {
			e, err := s.decode(item)
			if err != nil {
				console.Error().Printf("Skipping unreadable item in %s: %s", s.table, err)
				continue
			}
			if e.Scope == "" {
				unscoped = append(unscoped, e)
			} else {
				scoped = append(scoped, e)
			}
		}

		arg.ExclusiveStartKey = out.LastEvaluatedKey
		moreItems = len(arg.ExclusiveStartKey) > 0
	}

	// an unscoped item shadowed by a scoped one was rewritten by a legacy
	// writer after adoption; the scoped item wins.
	seen := make(map[api.Key]bool, len(scoped))
	for _, e := range scoped {
		seen[e.Key] = true
	}
	for _, e := range unscoped {
		if seen[e.Key] {
			console.Info().Printf("Ignoring unscoped %s in %s, %s holds it", e.Key, s.table, scope)
			continue
		}
		scoped = append(scoped, e)
	}

	return scoped, nil
}

// current reads the stored entry for key in scope with a consistent read. It
// returns nil if there is none.
func (s *DynamoDBStore) current(
	ctx context.Context,
	scope string,
	key api.Key,
) (*api.Entry, error) {
	out, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.itemKey(scope, key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not read %s from table %s: %s", key, s.table, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	e, err := s.decode(out.Item)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// versionCondition produces a ConditionExpression matching the expected
// entry, along with its attribute names and values. An expected entry with
// no scope only matches an item with no scope attribute.
func (s *DynamoDBStore) versionCondition(
	expected *api.Entry,
) (*string, map[string]*string, map[string]*dynamodb.AttributeValue) {
	names := map[string]*string{"#key": aws.String(s.attrs.Key)}

	if expected == nil {
		return aws.String("attribute_not_exists(#key)"), names, nil
	}

	var (
		cond   string
		values map[string]*dynamodb.AttributeValue
	)

	names["#version"] = aws.String(s.attrs.Version)
	if expected.Version == 0 {
		cond = "attribute_exists(#key) AND attribute_not_exists(#version)"
	} else {
		cond = "attribute_exists(#key) AND #version = :version"
		values = map[string]*dynamodb.AttributeValue{":version": num(expected.Version)}
	}

	if expected.Scope == "" {
		names["#scope"] = aws.String(s.attrs.Scope)
		cond += " AND attribute_not_exists(#scope)"
	}

	return aws.String(cond), names, values
}

func isConditionFailure(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		return aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException
	}
	return false
}

func (s *DynamoDBStore) conflict(ctx context.Context, scope string, key api.Key) error {
	current, err := s.current(ctx, scope, key)
	if err != nil {
		return err
	}
	return &ConflictError{Key: key, Current: current}
}

// adopt removes the unscoped item expected for key. An item that is already
// gone is not an error.
func (s *DynamoDBStore) adopt(ctx context.Context, key api.Key, expected api.Entry) error {
	err := s.Delete(ctx, key, expected)
	if err == ErrNotFound {
		return nil
	}
	return err
}

func (s *DynamoDBStore) ConditionalUpsert(
	ctx context.Context,
	entry api.Entry,
	expected *api.Entry,
) (api.Entry, error) {
	if entry.Scope == "" {
		return api.Entry{}, fmt.Errorf(
			"could not write %s to table %s: no scope", entry.Key, s.table)
	}

	if expected != nil && expected.Scope != entry.Scope {
		if expected.Scope != "" {
			return api.Entry{}, fmt.Errorf(
				"could not write %s to table %s: scope %s does not match expected scope %s",
				entry.Key,
				s.table,
				entry.Scope,
				expected.Scope,
			)
		}
		if err := s.adopt(ctx, entry.Key, *expected); err != nil {
			return api.Entry{}, err
		}
		expected = nil
	}

	entry.Version = 1
	if expected != nil {
		entry.Version = expected.Version + 1
	}

	cond, names, values := s.versionCondition(expected)
	_, err := s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.table),
		Item:                      s.encode(entry),
		ConditionExpression:       cond,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		if isConditionFailure(err) {
			return api.Entry{}, s.conflict(ctx, entry.Scope, entry.Key)
		}
		return api.Entry{}, fmt.Errorf(
			"could not write %s to table %s: %s", entry.Key, s.table, err)
	}

	return entry, nil
}

func (s *DynamoDBStore) Delete(ctx context.Context, key api.Key, expected api.Entry) error {
	cond, names, values := s.versionCondition(&expected)
	_, err := s.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(s.table),
		Key:                       s.itemKey(expected.Scope, key),
		ConditionExpression:       cond,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err == nil {
		return nil
	}

	if !isConditionFailure(err) {
		return fmt.Errorf("could not delete %s from table %s: %s", key, s.table, err)
	}

	current, err := s.current(ctx, expected.Scope, key)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	return &ConflictError{Key: key, Current: current}
}

func (s *DynamoDBStore) Close() error { return nil }
