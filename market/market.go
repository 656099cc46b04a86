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

// Package market implements the skill registry service.
package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/probechain/skillreg/common/mclock"
	"github.com/probechain/skillreg/core"
	"github.com/probechain/skillreg/core/rawdb"
	"github.com/probechain/skillreg/core/state"
	"github.com/probechain/skillreg/core/types"
	"github.com/probechain/skillreg/market/marketconfig"
	"github.com/probechain/skillreg/skilldb"
)

// DatabaseVersion is the record layout version written by this release.
const DatabaseVersion = 1

// ErrClosed is returned by every call made after Close.
var ErrClosed = errors.New("market closed")

// Market implements the skill registry service.
type Market struct {
	config *marketconfig.Config

	diskdb    skilldb.KeyValueStore // record store
	recorddb  *state.Database       // cached, commit-serializing view of diskdb
	processor *core.Processor

	lock   sync.RWMutex // held for reading by calls, for writing by Close
	closed bool
}

// New creates a registry backed by the store config describes. Purchases
// move value through ledger. A nil clock means the system clock. Whatever the
// source, record timestamps never go backwards.
func New(config *marketconfig.Config, ledger core.Transferer, clock mclock.Clock) (*Market, error) {
	if ledger == nil {
		return nil, errors.New("market requires a token ledger")
	}
	if clock == nil {
		clock = mclock.System{}
	}
	clock = mclock.NewMonotonic(clock)
	if config.Metrics && !metrics.Enabled {
		log.Warn("Metrics requested but collection is disabled, restart with --metrics")
	}
	var (
		diskdb skilldb.KeyValueStore
		err    error
	)
	if config.NoPersist {
		diskdb = rawdb.NewMemoryDatabase()
		log.Warn("Using in-memory record database, nothing will be persisted")
	} else {
		diskdb, err = rawdb.NewLevelDBDatabase(config.DatabasePath(), config.DatabaseCache, config.DatabaseHandles, "market/db/records/", false)
		if err != nil {
			return nil, err
		}
	}
	dbVersion := rawdb.ReadDatabaseVersion(diskdb)
	var dbVer = "<nil>"
	if dbVersion != nil {
		dbVer = fmt.Sprintf("%d", *dbVersion)
	}
	log.Info("Initialising skill registry", "dbversion", dbVer, "clock", mclock.Source(clock))

	if dbVersion != nil && *dbVersion > DatabaseVersion {
		diskdb.Close()
		return nil, fmt.Errorf("database version is v%d, this release only supports v%d", *dbVersion, DatabaseVersion)
	} else if dbVersion == nil || *dbVersion < DatabaseVersion {
		if dbVersion != nil { // only print warning on upgrade, not on init
			log.Warn("Upgrade record database version", "from", dbVer, "to", DatabaseVersion)
		}
		rawdb.WriteDatabaseVersion(diskdb, DatabaseVersion)
	}
	log.Info("Allocated record caches", "clean", gethcommon.StorageSize(config.RecordCache)*1024*1024, "exist", config.ExistCache)

	recorddb := state.NewDatabaseWithConfig(diskdb, &state.Config{
		Cache:      config.RecordCache,
		ExistCache: config.ExistCache,
	})
	return &Market{
		config:    config,
		diskdb:    diskdb,
		recorddb:  recorddb,
		processor: core.NewProcessor(recorddb, ledger, clock),
	}, nil
}

// Close releases the record store. Calls in flight complete first.
func (m *Market) Close() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	if m.config.Metrics && metrics.Enabled {
		m.logActivity()
	}
	m.processor.Stop()
	return m.diskdb.Close()
}

// WriteMetrics writes a snapshot of the transition and store collectors to w.
func (m *Market) WriteMetrics(w io.Writer) {
	metrics.WriteOnce(m.processor.Metrics(), w)
	metrics.WriteOnce(metrics.DefaultRegistry, w)
}

// logActivity summarizes the transitions served since the registry opened.
func (m *Market) logActivity() {
	registry := m.processor.Metrics()
	count := func(name string) int64 {
		switch metric := registry.Get(name).(type) {
		case metrics.Meter:
			return metric.Count()
		case metrics.Counter:
			return metric.Count()
		}
		return 0
	}
	log.Info("Skill registry activity",
		"applied", count("registry/applied"), "failed", count("registry/failed"),
		"volume", count("registry/purchase/volume"), "fees", count("registry/purchase/fee"),
		"ratings", count("registry/ratings"), "reversefailed", count("registry/transfer/reversefailed"))
}

// Config returns the configuration the registry was opened with.
func (m *Market) Config() *marketconfig.Config { return m.config }

// RecordDb returns the record store.
func (m *Market) RecordDb() skilldb.KeyValueStore { return m.diskdb }

// Apply runs a single transition.
func (m *Market) Apply(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	return m.processor.Apply(ctx, tx)
}

// read runs fn against a fresh view of the committed records.
func (m *Market) read(fn func(s *state.StateDB) error) error {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.closed {
		return ErrClosed
	}
	return fn(state.New(m.recorddb))
}
