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

package state

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/core/types"
)

// recordObject represents a registry record which is being modified.
//
// The usage pattern is as follows:
// First you need to obtain a record object through the StateDB.
// Record values can be read and replaced through the StateDB setters.
// Finally, call Commit to write the modified records into the database.
type recordObject struct {
	address common.Address
	data    types.Record

	// created is set when the record did not exist in the database at the
	// time the object was made. Commit rejects it if someone else created
	// the address in the meantime.
	created bool
}

func newObject(address common.Address, data types.Record, created bool) *recordObject {
	return &recordObject{
		address: address,
		data:    data,
		created: created,
	}
}

// kind returns the record kind of the object.
func (o *recordObject) kind() byte {
	return o.data.Kind()
}

// registryDelta accumulates increments of the marketplace counters. Deltas
// commute, so concurrent transitions never need to hold the registry while
// they run; they are folded into the persisted record at commit time.
type registryDelta struct {
	Skills    uint64
	Purchases uint64
	Volume    uint64
}

func (d registryDelta) empty() bool {
	return d == registryDelta{}
}

// add returns d+o, failing if any counter would wrap.
func (d registryDelta) add(o registryDelta) (registryDelta, error) {
	var overflow bool
	if d.Skills, overflow = math.SafeAdd(d.Skills, o.Skills); overflow {
		return d, ErrOverflow
	}
	if d.Purchases, overflow = math.SafeAdd(d.Purchases, o.Purchases); overflow {
		return d, ErrOverflow
	}
	if d.Volume, overflow = math.SafeAdd(d.Volume, o.Volume); overflow {
		return d, ErrOverflow
	}
	return d, nil
}

// applyTo folds the delta into a copy of m.
func (d registryDelta) applyTo(m *types.Marketplace) (*types.Marketplace, error) {
	sum, err := registryDelta{m.TotalSkills, m.TotalPurchases, m.TotalVolume}.add(d)
	if err != nil {
		return nil, err
	}
	cpy := *m
	cpy.TotalSkills, cpy.TotalPurchases, cpy.TotalVolume = sum.Skills, sum.Purchases, sum.Volume
	return &cpy, nil
}
