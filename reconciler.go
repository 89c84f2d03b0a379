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

package rolodex

import (
	"github.com/turbinelabs/rolodex/reconciler"
	"github.com/turbinelabs/stats"
)

// reconcilerWithStats wraps a reconciler.Reconciler and its stats.Stats and
// insures that when the Reconciler is closed, the Stats are closed too.
type reconcilerWithStats struct {
	reconciler.Reconciler
	stats stats.Stats
}

var _ reconciler.Reconciler = &reconcilerWithStats{}

func (r *reconcilerWithStats) Close() error {
	statsErr := r.stats.Close()
	if err := r.Reconciler.Close(); err != nil {
		return err
	}
	return statsErr
}
