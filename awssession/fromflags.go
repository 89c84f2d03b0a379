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

// Package awssession configures the AWS client session shared by the ECS task
// source and the DynamoDB registry.
package awssession

//go:generate $TBN_HOME/scripts/mockgen_internal.sh -type FromFlags -source $GOFILE -destination mock_$GOFILE -package $GOPACKAGE --write_package_comment=false

import (
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/defaults"
	"github.com/aws/aws-sdk-go/aws/session"

	tbnflag "github.com/turbinelabs/nonstdlib/flag"
	"github.com/turbinelabs/nonstdlib/flag/usage"
)

// FromFlags represents the command-line flags specifying configuration of an
// AWS client session.
type FromFlags interface {
	// Validate ensures a region was given.
	Validate() error

	// Make produces an AWS client session. Repeated calls return the same
	// session.
	Make() *session.Session
}

// NewFromFlags produces a FromFlags, adding necessary flags to the provided
// FlagSet.
func NewFromFlags(fs tbnflag.FlagSet) FromFlags {
	ff := &fromFlags{}

	fs.StringVar(
		&ff.awsRegion,
		"aws.region",
		"",
		usage.Required("The AWS region in which the binary is running"),
	)

	fs.StringVar(
		&ff.awsSecretAccessKey,
		"aws.secret-access-key",
		"",
		usage.Sensitive("The AWS API secret access key. If omitted, the environment, "+
			"shared credentials file, and instance or task role are consulted in turn."),
	)

	fs.StringVar(
		&ff.awsAccessKeyID,
		"aws.access-key-id",
		"",
		usage.Sensitive("The AWS API access key ID"),
	)

	return ff
}

type fromFlags struct {
	awsRegion          string
	awsSecretAccessKey string
	awsAccessKeyID     string

	once sync.Once
	sess *session.Session
}

func (ff *fromFlags) Validate() error {
	if ff.awsRegion == "" {
		return errors.New("--aws.region must be specified")
	}
	return nil
}

func (ff *fromFlags) Make() *session.Session {
	ff.once.Do(func() {
		ff.sess = session.New(&aws.Config{
			Region:      aws.String(ff.awsRegion),
			Credentials: ff.awsCredentials(),
		})
	})
	return ff.sess
}

func (ff *fromFlags) awsCredentials() *credentials.Credentials {
	defaultConfig := defaults.Config()
	defaultHandlers := defaults.Handlers()

	providers := []credentials.Provider{}
	if ff.awsAccessKeyID != "" || ff.awsSecretAccessKey != "" {
		providers = append(providers, &credentials.StaticProvider{
			Value: credentials.Value{
				AccessKeyID:     ff.awsAccessKeyID,
				SecretAccessKey: ff.awsSecretAccessKey,
			},
		})
	}

	// Mirrors the default provider chain from aws/defaults, with explicit
	// flags taking precedence. RemoteCredProvider covers both ECS task roles
	// and EC2 instance roles.
	providers = append(
		providers,
		&credentials.EnvProvider{},
		&credentials.SharedCredentialsProvider{Filename: "", Profile: ""},
		defaults.RemoteCredProvider(*defaultConfig, defaultHandlers),
	)

	return credentials.NewCredentials(
		&credentials.ChainProvider{VerboseErrors: true, Providers: providers},
	)
}
