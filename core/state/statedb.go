// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package state provides a journaled caching layer atop the record store.
package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/core/types"
)

var errRegistryWrite = errors.New("marketplace counters change through AddRegistryDelta only")

type revision struct {
	id           int
	journalIndex int
}

// StateDB holds the records touched by one transition. Reads go through to
// the Database, writes stay in memory until Commit, and every write is
// journaled so the transition can be rolled back to any snapshot.
//
// A StateDB is not safe for concurrent use.
type StateDB struct {
	db *Database

	// This map holds 'live' objects, which will get modified while processing
	// a transition.
	objects map[common.Address]*recordObject

	// Pending increments of the marketplace counters.
	delta registryDelta

	// Journal of state modifications. This is the backbone of
	// Snapshot and RevertToSnapshot.
	journal        *journal
	validRevisions []revision
	nextRevisionId int
}

// New creates a new state on top of the given record database.
func New(db *Database) *StateDB {
	return &StateDB{
		db:      db,
		objects: make(map[common.Address]*recordObject),
		journal: newJournal(),
	}
}

// Database retrieves the low level database supporting the state.
func (s *StateDB) Database() *Database {
	return s.db
}

// Exist reports whether a record lives at addr, either pending in this state
// or persisted.
func (s *StateDB) Exist(addr common.Address) bool {
	if _, ok := s.objects[addr]; ok {
		return true
	}
	return s.db.Exists(addr)
}

// getStateObject retrieves the record of the given kind at addr, loading it
// from the database if it is not live yet.
func (s *StateDB) getStateObject(addr common.Address, kind byte) (*recordObject, error) {
	if addr[0] != kind {
		return nil, fmt.Errorf("%w: no %s at %x", ErrNotFound, common.RecordKindName(kind), addr)
	}
	if obj := s.objects[addr]; obj != nil {
		return obj, nil
	}
	blob, err := s.db.Load(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %x", err, common.RecordKindName(kind), addr)
	}
	data, err := types.DecodeRecord(kind, blob)
	if err != nil {
		return nil, err
	}
	obj := newObject(addr, data, false)
	s.objects[addr] = obj
	return obj, nil
}

func (s *StateDB) getRecord(addr common.Address, kind byte) (types.Record, error) {
	obj, err := s.getStateObject(addr, kind)
	if err != nil {
		return nil, err
	}
	return obj.data.Copy(), nil
}

// GetMarketplace returns a copy of the registry with any pending counter
// increments of this state applied.
func (s *StateDB) GetMarketplace() (*types.Marketplace, error) {
	rec, err := s.getRecord(types.MarketplaceAddress(), common.KIND_OF_MARKETPLACE)
	if err != nil {
		return nil, err
	}
	return s.delta.applyTo(rec.(*types.Marketplace))
}

// GetAgent returns a copy of the agent directory at addr.
func (s *StateDB) GetAgent(addr common.Address) (*types.Agent, error) {
	rec, err := s.getRecord(addr, common.KIND_OF_AGENT)
	if err != nil {
		return nil, err
	}
	return rec.(*types.Agent), nil
}

// GetSkill returns a copy of the skill at addr.
func (s *StateDB) GetSkill(addr common.Address) (*types.Skill, error) {
	rec, err := s.getRecord(addr, common.KIND_OF_SKILL)
	if err != nil {
		return nil, err
	}
	return rec.(*types.Skill), nil
}

// GetPurchase returns a copy of the purchase at addr.
func (s *StateDB) GetPurchase(addr common.Address) (*types.Purchase, error) {
	rec, err := s.getRecord(addr, common.KIND_OF_PURCHASE)
	if err != nil {
		return nil, err
	}
	return rec.(*types.Purchase), nil
}

// CreateRecord places a new record at addr. It fails with ErrAlreadyExists if
// the address is occupied, pending or persisted. Commit checks the address
// once more under the commit lock.
func (s *StateDB) CreateRecord(addr common.Address, rec types.Record) error {
	if addr[0] != rec.Kind() {
		return fmt.Errorf("cannot place %s record at %s address %x",
			common.RecordKindName(rec.Kind()), common.RecordKindName(addr[0]), addr)
	}
	if s.Exist(addr) {
		return fmt.Errorf("%w: %s %x", ErrAlreadyExists, common.RecordKindName(rec.Kind()), addr)
	}
	s.journal.append(createRecordChange{address: &addr})
	s.objects[addr] = newObject(addr, rec.Copy(), true)
	return nil
}

// UpdateRecord replaces the record at addr. The record must have been read
// or created through this state first.
func (s *StateDB) UpdateRecord(addr common.Address, rec types.Record) error {
	obj := s.objects[addr]
	if obj == nil || obj.kind() != rec.Kind() {
		return fmt.Errorf("%w: %s %x not loaded", ErrNotFound, common.RecordKindName(rec.Kind()), addr)
	}
	if rec.Kind() == common.KIND_OF_MARKETPLACE && !obj.created {
		return errRegistryWrite
	}
	s.journal.append(updateRecordChange{address: &addr, prev: obj.data})
	obj.data = rec.Copy()
	return nil
}

// AddRegistryDelta schedules increments of the marketplace counters. The
// increment is checked against the registry as currently persisted; the
// check is repeated at commit against the registry at that time.
func (s *StateDB) AddRegistryDelta(skills, purchases, volume uint64) error {
	m, err := s.GetMarketplace()
	if err != nil {
		return err
	}
	inc := registryDelta{Skills: skills, Purchases: purchases, Volume: volume}
	if _, err := inc.applyTo(m); err != nil {
		return err
	}
	next, err := s.delta.add(inc)
	if err != nil {
		return err
	}
	s.journal.append(registryDeltaChange{prev: s.delta})
	s.delta = next
	return nil
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	id := s.nextRevisionId
	s.nextRevisionId++
	s.validRevisions = append(s.validRevisions, revision{id, s.journal.length()})
	return id
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	// Find the snapshot in the stack of valid snapshots.
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= revid
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != revid {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	snapshot := s.validRevisions[idx].journalIndex

	// Replay the journal to undo changes and remove invalidated snapshots
	s.journal.revert(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
}

// Dirty returns the addresses written by this state, in address order. The
// marketplace is included when counter increments are pending.
func (s *StateDB) Dirty() []common.Address {
	addrs := make([]common.Address, 0, len(s.journal.dirties)+1)
	for addr := range s.journal.dirties {
		addrs = append(addrs, addr)
	}
	if !s.delta.empty() {
		addrs = append(addrs, types.MarketplaceAddress())
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Cmp(addrs[j]) < 0 })
	return addrs
}

// Commit writes every dirty record and the pending registry increments to
// the database in one atomic batch. On success the journal is reset and the
// state can be reused; on failure nothing is written.
func (s *StateDB) Commit() error {
	objects := make([]*recordObject, 0, len(s.journal.dirties))
	for addr := range s.journal.dirties {
		objects = append(objects, s.objects[addr])
	}
	if len(objects) == 0 && s.delta.empty() {
		return nil
	}
	if err := s.db.commit(objects, s.delta); err != nil {
		return err
	}
	for _, obj := range objects {
		obj.created = false
	}
	// Counters were merged into the persisted registry; drop the live copy so
	// the next read sees the merged value.
	if !s.delta.empty() {
		delete(s.objects, types.MarketplaceAddress())
	}
	s.delta = registryDelta{}
	s.journal = newJournal()
	s.validRevisions = s.validRevisions[:0]
	return nil
}
