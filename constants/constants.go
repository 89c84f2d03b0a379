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

// Package constants contains constants shared accross rolodex packages.
package constants

const (
	// Version is the current version of rolodex.
	Version = "0.1.0"

	// EnvPrefix prefixes the environment variables that may be used in
	// place of command line flags, e.g. ROLODEX_REGISTRY_BACKEND for
	// --registry.backend.
	EnvPrefix = "ROLODEX"

	// VersionTag is the stats tag carrying Version.
	VersionTag = "rolodex_version"
)
