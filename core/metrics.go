// Copyright 2026 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

package core

import (
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/probechain/skillreg/common"
)

// processorMetrics holds the collectors of one processor. They are created
// with the processor, so collection follows metrics.Enabled at that moment.
type processorMetrics struct {
	registry metrics.Registry

	applyTimer    metrics.Timer
	lockWaitTimer metrics.Timer
	applied       metrics.Meter
	failed        metrics.Meter
	commitFailure metrics.Meter

	purchaseVolume metrics.Meter
	purchaseFee    metrics.Meter
	ratings        metrics.Counter

	reversed        metrics.Meter
	reversalsFailed metrics.Meter
}

func newProcessorMetrics(r metrics.Registry) *processorMetrics {
	return &processorMetrics{
		registry:        r,
		applyTimer:      metrics.NewRegisteredTimer("registry/apply", r),
		lockWaitTimer:   metrics.NewRegisteredTimer("registry/lock/wait", r),
		applied:         metrics.NewRegisteredMeter("registry/applied", r),
		failed:          metrics.NewRegisteredMeter("registry/failed", r),
		commitFailure:   metrics.NewRegisteredMeter("registry/commit/failed", r),
		purchaseVolume:  metrics.NewRegisteredMeter("registry/purchase/volume", r),
		purchaseFee:     metrics.NewRegisteredMeter("registry/purchase/fee", r),
		ratings:         metrics.NewRegisteredCounter("registry/ratings", r),
		reversed:        metrics.NewRegisteredMeter("registry/transfer/reversed", r),
		reversalsFailed: metrics.NewRegisteredMeter("registry/transfer/reversefailed", r),
	}
}

// txType returns the meter counting applied transitions of type t.
func (m *processorMetrics) txType(t common.TxType) metrics.Meter {
	return metrics.GetOrRegisterMeter("registry/applied/"+t.String(), m.registry)
}

// stop detaches every meter and timer from the shared ticker.
func (m *processorMetrics) stop() {
	m.registry.Each(func(name string, i interface{}) {
		switch metric := i.(type) {
		case metrics.Meter:
			metric.Stop()
		case metrics.Timer:
			metric.Stop()
		}
	})
}
