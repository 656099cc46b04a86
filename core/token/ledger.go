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

// Package token implements an in-memory stable-value token ledger. It stands
// in for the external ledger the registry pays through.
package token

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/skillreg/common"
)

var (
	// ErrInsufficientBalance is returned if the payer cannot cover a transfer.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrBalanceOverflow is returned if a credit would wrap the payee balance.
	ErrBalanceOverflow = errors.New("balance overflow")
)

// Ledger holds non-negative balances and moves them atomically.
type Ledger struct {
	mu       sync.Mutex
	balances map[common.Address]uint64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[common.Address]uint64)}
}

// Mint credits amount to addr out of thin air.
func (l *Ledger) Mint(addr common.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	bal, overflow := math.SafeAdd(l.balances[addr], amount)
	if overflow {
		return ErrBalanceOverflow
	}
	l.balances[addr] = bal
	return nil
}

// BalanceOf returns the balance of addr.
func (l *Ledger) BalanceOf(addr common.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[addr]
}

// Transfer moves amount from one account to another, entirely or not at all.
func (l *Ledger) Transfer(ctx context.Context, from, to common.Address, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	have := l.balances[from]
	if have < amount {
		return fmt.Errorf("%w: have %d, want %d", ErrInsufficientBalance, have, amount)
	}
	if from == to {
		return nil
	}
	credited, overflow := math.SafeAdd(l.balances[to], amount)
	if overflow {
		return ErrBalanceOverflow
	}
	l.balances[from] = have - amount
	l.balances[to] = credited
	log.Trace("Transferred tokens", "from", from, "to", to, "amount", amount)
	return nil
}
