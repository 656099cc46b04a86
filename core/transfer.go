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
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/skillreg/common"
)

// Transferer moves stable-value tokens between accounts. A call either moves
// the whole amount or nothing.
type Transferer interface {
	Transfer(ctx context.Context, from, to common.Address, amount uint64) error
}

// transferLeg is one movement of value performed by a transition.
type transferLeg struct {
	from, to common.Address
	amount   uint64
}

// transfers runs a sequence of legs. If a leg fails, the legs already
// executed are reversed so the transition leaves no value moved behind.
type transfers struct {
	ledger Transferer
	done   []transferLeg

	reversed int // legs successfully reversed
	stuck    int // legs whose reversal failed
}

// execute performs leg, skipping zero amounts.
func (t *transfers) execute(ctx context.Context, leg transferLeg) error {
	if leg.amount == 0 {
		return nil
	}
	if err := t.ledger.Transfer(ctx, leg.from, leg.to, leg.amount); err != nil {
		t.rollback()
		return fmt.Errorf("%w: %d from %x to %x: %v", ErrTransferFailed, leg.amount, leg.from, leg.to, err)
	}
	t.done = append(t.done, leg)
	return nil
}

// rollback reverses every executed leg, newest first. It does not take the
// caller's context: the reversal must run even if the caller gave up.
func (t *transfers) rollback() {
	ctx := context.Background()
	for i := len(t.done) - 1; i >= 0; i-- {
		leg := t.done[i]
		if err := t.ledger.Transfer(ctx, leg.to, leg.from, leg.amount); err != nil {
			t.stuck++
			log.Error("Failed to reverse transfer", "from", leg.to, "to", leg.from, "amount", leg.amount, "err", err)
			continue
		}
		t.reversed++
	}
	t.done = nil
}
