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
	"sync"
	"testing"
	"time"

	"github.com/probechain/skillreg/common"
)

func TestLockDuplicateAddresses(t *testing.T) {
	var l recordLocks
	addr := common.HexToAddress("0x01")

	// Locking the same stripe twice in one call must not self-deadlock.
	unlock := l.lock(addr, addr, addr)
	unlock()
	l.lock(addr)()
}

func TestLockExcludes(t *testing.T) {
	var (
		l    recordLocks
		a    = common.HexToAddress("0x0101")
		b    = common.HexToAddress("0x0202")
		held = make(chan struct{})
		done = make(chan struct{})
	)
	unlock := l.lock(a, b)
	go func() {
		close(held)
		l.lock(b)()
		close(done)
	}()
	<-held
	select {
	case <-done:
		t.Fatal("second holder acquired a locked stripe")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	<-done
}

func TestLockOpposingOrders(t *testing.T) {
	var (
		l  recordLocks
		a  = common.HexToAddress("0x0101")
		b  = common.HexToAddress("0x0202")
		wg sync.WaitGroup
	)
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); l.lock(a, b)() }()
		go func() { defer wg.Done(); l.lock(b, a)() }()
	}
	wg.Wait()
}
