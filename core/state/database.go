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

package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	lru "github.com/hashicorp/golang-lru"
	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/core/rawdb"
	"github.com/probechain/skillreg/core/types"
	"github.com/probechain/skillreg/skilldb"
)

var (
	// ErrNotFound is returned when no record lives at an address.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when creating a record at an occupied address.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrOverflow is returned when a counter increment would wrap.
	ErrOverflow = errors.New("counter overflow")
)

var (
	memcacheCleanHitMeter   = metrics.NewRegisteredMeter("state/memcache/clean/hit", nil)
	memcacheCleanMissMeter  = metrics.NewRegisteredMeter("state/memcache/clean/miss", nil)
	memcacheCleanWriteMeter = metrics.NewRegisteredMeter("state/memcache/clean/write", nil)
	existCacheHitMeter      = metrics.NewRegisteredMeter("state/existcache/hit", nil)
	commitTimer             = metrics.NewRegisteredTimer("state/commit", nil)
	commitCollisionMeter    = metrics.NewRegisteredMeter("state/commit/collision", nil)
)

// Config defines the cache sizes of a record database.
type Config struct {
	Cache      int // Memory allowance (MB) for caching clean records
	ExistCache int // Number of record addresses remembered as present
}

// Database wraps access to the record store. It owns the commit protocol:
// every StateDB commit runs under a single short lock, during which creations
// are checked against the store and registry deltas are merged. Transitions
// that touch disjoint records therefore never wait on each other except for
// that final write.
type Database struct {
	disk   skilldb.KeyValueStore
	cleans *fastcache.Cache // clean record blobs, keyed by address
	exists *lru.Cache       // addresses known to hold a record

	lock sync.Mutex // serializes commits and cache fills
}

// NewDatabase creates a record database with no clean cache.
func NewDatabase(disk skilldb.KeyValueStore) *Database {
	return NewDatabaseWithConfig(disk, nil)
}

// NewDatabaseWithConfig creates a record database with the given cache
// allowances.
func NewDatabaseWithConfig(disk skilldb.KeyValueStore, config *Config) *Database {
	var (
		cleans     *fastcache.Cache
		existCache = 1024
	)
	if config != nil {
		if config.Cache > 0 {
			cleans = fastcache.New(config.Cache * 1024 * 1024)
		}
		if config.ExistCache > 0 {
			existCache = config.ExistCache
		}
	}
	exists, _ := lru.New(existCache)
	return &Database{
		disk:   disk,
		cleans: cleans,
		exists: exists,
	}
}

// DiskDB retrieves the low level key-value store backing the records.
func (db *Database) DiskDB() skilldb.KeyValueStore {
	return db.disk
}

// Load retrieves the encoded record at addr.
func (db *Database) Load(addr common.Address) ([]byte, error) {
	if db.cleans != nil {
		if blob, ok := db.cleans.HasGet(nil, addr[:]); ok {
			memcacheCleanHitMeter.Mark(1)
			return blob, nil
		}
	}
	// Fill the cache under the commit lock, so a commit racing this read can
	// never be shadowed by the older blob.
	db.lock.Lock()
	defer db.lock.Unlock()

	blob := rawdb.ReadRecord(db.disk, addr)
	if len(blob) == 0 {
		return nil, ErrNotFound
	}
	db.exists.Add(addr, struct{}{})
	if db.cleans != nil {
		memcacheCleanMissMeter.Mark(1)
		memcacheCleanWriteMeter.Mark(int64(len(blob)))
		db.cleans.Set(addr[:], blob)
	}
	return blob, nil
}

// Exists reports whether a record is stored at addr. Records are never
// destroyed, so a positive answer is cached forever.
func (db *Database) Exists(addr common.Address) bool {
	if db.exists.Contains(addr) {
		existCacheHitMeter.Mark(1)
		return true
	}
	if db.cleans != nil && db.cleans.Has(addr[:]) {
		return true
	}
	if rawdb.HasRecord(db.disk, addr) {
		db.exists.Add(addr, struct{}{})
		return true
	}
	return false
}

// LoadRecord retrieves and decodes the record at addr.
func (db *Database) LoadRecord(addr common.Address) (types.Record, error) {
	kind, err := common.RecordKindOf(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	blob, err := db.Load(addr)
	if err != nil {
		return nil, err
	}
	return types.DecodeRecord(kind, blob)
}

// commit atomically writes the dirty objects and merges the registry delta.
func (db *Database) commit(objects []*recordObject, delta registryDelta) error {
	start := time.Now()

	db.lock.Lock()
	defer db.lock.Unlock()

	batch := db.disk.NewBatch()
	blobs := make(map[common.Address][]byte, len(objects)+1)
	for _, obj := range objects {
		if obj.created && rawdb.HasRecord(db.disk, obj.address) {
			commitCollisionMeter.Mark(1)
			return fmt.Errorf("%w: %s %x", ErrAlreadyExists, common.RecordKindName(obj.kind()), obj.address)
		}
		blob, err := types.EncodeRecord(obj.data)
		if err != nil {
			return err
		}
		blobs[obj.address] = blob
	}
	if !delta.empty() {
		addr := types.MarketplaceAddress()
		if _, ok := blobs[addr]; ok {
			return errors.New("registry delta committed together with a registry write")
		}
		blob := rawdb.ReadRecord(db.disk, addr)
		if len(blob) == 0 {
			return fmt.Errorf("%w: marketplace %x", ErrNotFound, addr)
		}
		rec, err := types.DecodeRecord(common.KIND_OF_MARKETPLACE, blob)
		if err != nil {
			return err
		}
		merged, err := delta.applyTo(rec.(*types.Marketplace))
		if err != nil {
			return err
		}
		if blobs[addr], err = types.EncodeRecord(merged); err != nil {
			return err
		}
	}
	for addr, blob := range blobs {
		rawdb.WriteRecord(batch, addr, blob)
	}
	if err := batch.Write(); err != nil {
		return err
	}
	for addr, blob := range blobs {
		db.exists.Add(addr, struct{}{})
		if db.cleans != nil {
			db.cleans.Set(addr[:], blob)
		}
	}
	commitTimer.UpdateSince(start)
	log.Trace("Committed records", "count", len(blobs), "elapsed", time.Since(start))
	return nil
}
