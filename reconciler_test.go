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
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/turbinelabs/rolodex/reconciler"
	"github.com/turbinelabs/stats"
	"github.com/turbinelabs/test/assert"
)

func TestReconcilerWithStatsClose(t *testing.T) {
	ctrl := gomock.NewController(assert.Tracing(t))
	defer ctrl.Finish()

	mockReconciler := reconciler.NewMockReconciler(ctrl)
	mockStats := stats.NewMockStats(ctrl)

	gomock.InOrder(
		mockStats.EXPECT().Close().Return(nil),
		mockReconciler.EXPECT().Close().Return(errors.New("boom")),
	)

	r := &reconcilerWithStats{Reconciler: mockReconciler, stats: mockStats}
	assert.ErrorContains(t, r.Close(), "boom")
}

func TestReconcilerWithStatsCloseStatsError(t *testing.T) {
	ctrl := gomock.NewController(assert.Tracing(t))
	defer ctrl.Finish()

	mockReconciler := reconciler.NewMockReconciler(ctrl)
	mockStats := stats.NewMockStats(ctrl)

	gomock.InOrder(
		mockStats.EXPECT().Close().Return(errors.New("flush")),
		mockReconciler.EXPECT().Close().Return(nil),
	)

	r := &reconcilerWithStats{Reconciler: mockReconciler, stats: mockStats}
	assert.ErrorContains(t, r.Close(), "flush")
}
