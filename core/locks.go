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
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set"
	"github.com/probechain/skillreg/common"
)

// lockStripes is the number of mutexes record addresses are spread over.
const lockStripes = 256

// recordLocks serializes transitions that write the same records. Addresses
// are hashed onto a fixed set of stripes, and a transition takes all of its
// stripes in ascending order, so two transitions can never wait on each
// other in a cycle.
type recordLocks struct {
	stripes [lockStripes]sync.Mutex
}

// stripeOf maps an address onto a stripe. Derived addresses are hash outputs,
// so the last byte is uniformly distributed.
func stripeOf(addr common.Address) int {
	return int(addr[common.AddressLength-1]) % lockStripes
}

// lock acquires the stripes covering addrs and returns the release function.
func (l *recordLocks) lock(addrs ...common.Address) func() {
	set := mapset.NewThreadUnsafeSet()
	for _, addr := range addrs {
		set.Add(stripeOf(addr))
	}
	stripes := make([]int, 0, set.Cardinality())
	for _, s := range set.ToSlice() {
		stripes = append(stripes, s.(int))
	}
	sort.Ints(stripes)

	for _, s := range stripes {
		l.stripes[s].Lock()
	}

	return func() {
		for i := len(stripes) - 1; i >= 0; i-- {
			l.stripes[stripes[i]].Unlock()
		}
	}
}
