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

// Package rawdb contains a collection of low level database accessors.
package rawdb

import (
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/probechain/skillreg/common"
)

// The fields below define the low level database schema prefixing.
var (
	// databaseVersionKey tracks the current database version.
	databaseVersionKey = []byte("DatabaseVersion")

	// recordPrefix + address (kind byte first) -> rlp encoded record
	recordPrefix = []byte("r")

	recordReadCounter  = metrics.NewRegisteredCounter("db/record/read", nil)
	recordWriteCounter = metrics.NewRegisteredCounter("db/record/write", nil)
)

// recordKey = recordPrefix + address
func recordKey(addr common.Address) []byte {
	key := make([]byte, 0, len(recordPrefix)+common.AddressLength)
	key = append(key, recordPrefix...)
	return append(key, addr.Bytes()...)
}

// recordKindPrefix = recordPrefix + kind
func recordKindPrefix(kind byte) []byte {
	return append(append([]byte{}, recordPrefix...), kind)
}
