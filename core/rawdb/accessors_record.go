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

package rawdb

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/skilldb"
)

// ReadDatabaseVersion retrieves the version number of the database.
func ReadDatabaseVersion(db skilldb.KeyValueReader) *uint64 {
	var version uint64

	enc, _ := db.Get(databaseVersionKey)
	if len(enc) == 0 {
		return nil
	}
	if err := rlp.DecodeBytes(enc, &version); err != nil {
		return nil
	}
	return &version
}

// WriteDatabaseVersion stores the version number of the database
func WriteDatabaseVersion(db skilldb.KeyValueWriter, version uint64) {
	enc, err := rlp.EncodeToBytes(version)
	if err != nil {
		log.Crit("Failed to encode database version", "err", err)
	}
	if err = db.Put(databaseVersionKey, enc); err != nil {
		log.Crit("Failed to store the database version", "err", err)
	}
}

// ReadRecord retrieves the encoded record stored at the given address.
func ReadRecord(db skilldb.KeyValueReader, addr common.Address) []byte {
	data, _ := db.Get(recordKey(addr))
	recordReadCounter.Inc(1)
	return data
}

// HasRecord checks if a record is present at the given address.
func HasRecord(db skilldb.KeyValueReader, addr common.Address) bool {
	if has, err := db.Has(recordKey(addr)); !has || err != nil {
		return false
	}
	return true
}

// WriteRecord stores an encoded record at the given address.
func WriteRecord(db skilldb.KeyValueWriter, addr common.Address, blob []byte) {
	if err := db.Put(recordKey(addr), blob); err != nil {
		log.Crit("Failed to store record", "addr", addr, "err", err)
	}
	recordWriteCounter.Inc(1)
}

// DeleteRecord removes the record at the given address. Records are never
// destroyed by a transition; this is only used by tooling.
func DeleteRecord(db skilldb.KeyValueWriter, addr common.Address) {
	if err := db.Delete(recordKey(addr)); err != nil {
		log.Crit("Failed to delete record", "addr", addr, "err", err)
	}
}

// IterateRecords calls fn for every record of the given kind, in address
// order, until fn returns false.
func IterateRecords(db skilldb.Iteratee, kind byte, fn func(addr common.Address, blob []byte) bool) error {
	it := db.NewIterator(recordKindPrefix(kind), nil)
	defer it.Release()

	for it.Next() {
		key := it.Key()
		if len(key) != len(recordPrefix)+common.AddressLength {
			continue
		}
		if !fn(common.BytesToAddress(key[len(recordPrefix):]), it.Value()) {
			break
		}
	}
	return it.Error()
}
