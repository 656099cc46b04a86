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
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/common/mclock"
	"github.com/probechain/skillreg/core/state"
	"github.com/probechain/skillreg/core/types"
)

// Processor applies transitions to the record database. It is safe for
// concurrent use: transitions writing disjoint records run in parallel and
// only share the short commit step of the database.
type Processor struct {
	db      *state.Database
	ledger  Transferer
	clock   mclock.Clock
	locks   recordLocks
	metrics *processorMetrics
}

// NewProcessor creates a processor writing to db, moving value through
// ledger and stamping records with clock.
func NewProcessor(db *state.Database, ledger Transferer, clock mclock.Clock) *Processor {
	return &Processor{
		db:      db,
		ledger:  ledger,
		clock:   clock,
		metrics: newProcessorMetrics(metrics.NewRegistry()),
	}
}

// Metrics returns the registry holding the processor's collectors.
func (p *Processor) Metrics() metrics.Registry {
	return p.metrics.registry
}

// Stop releases the processor's collectors.
func (p *Processor) Stop() {
	p.metrics.stop()
}

// Apply runs tx as one atomic unit: on success every record change and
// value transfer it made is in place, on failure none is.
func (p *Processor) Apply(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	start := time.Now()
	receipt, err := p.apply(ctx, tx)
	if err != nil {
		p.metrics.failed.Mark(1)
		log.Debug("Transition rejected", "type", tx.Type(), "from", tx.From(), "err", err)
		return nil, err
	}
	p.metrics.applied.Mark(1)
	p.metrics.txType(tx.Type()).Mark(1)
	p.metrics.applyTimer.UpdateSince(start)
	p.report(tx, receipt)
	return receipt, nil
}

func (p *Processor) apply(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateTx(tx); err != nil {
		return nil, err
	}
	targets, err := p.writeSet(tx)
	if err != nil {
		return nil, err
	}
	lockStart := time.Now()
	unlock := p.locks.lock(targets...)
	defer unlock()
	p.metrics.lockWaitTimer.UpdateSince(lockStart)

	statedb := state.New(p.db)
	snap := statedb.Snapshot()

	st := NewStateTransition(ctx, NewTxContext(tx, p.clock), tx, statedb, p.ledger)
	defer func() {
		reversed, stuck := st.Reversals()
		p.metrics.reversed.Mark(int64(reversed))
		p.metrics.reversalsFailed.Mark(int64(stuck))
	}()
	receipt, err := st.TransitionDb()
	if err != nil {
		statedb.RevertToSnapshot(snap)
		return nil, err
	}
	if err := statedb.Commit(); err != nil {
		p.metrics.commitFailure.Mark(1)
		st.Rollback()
		return nil, err
	}
	return receipt, nil
}

// writeSet returns the addresses of the records tx may write, apart from the
// marketplace counters which are merged at commit. Links between records
// (purchase to skill, skill to agent) never change once written, so they can
// be followed before the locks are taken.
func (p *Processor) writeSet(tx *types.Transaction) ([]common.Address, error) {
	from := tx.From()
	switch data := tx.Data().(type) {
	case *types.InitMarketplaceTx:
		return []common.Address{types.MarketplaceAddress()}, nil

	case *types.RegisterAgentTx:
		return []common.Address{types.AgentAddress(from)}, nil

	case *types.RegisterSkillTx:
		return []common.Address{types.SkillAddress(data.SkillID), types.AgentAddress(from)}, nil

	case *types.PurchaseSkillTx:
		skill, err := p.loadSkill(data.Skill)
		if err != nil {
			return nil, err
		}
		return []common.Address{types.PurchaseAddress(from, data.Skill), data.Skill, skill.Agent}, nil

	case *types.RateSkillTx:
		rec, err := p.db.LoadRecord(data.Purchase)
		if err != nil {
			return nil, err
		}
		purchase := rec.(*types.Purchase)
		skill, err := p.loadSkill(purchase.Skill)
		if err != nil {
			return nil, err
		}
		return []common.Address{data.Purchase, purchase.Skill, skill.Agent}, nil

	case *types.UpdateSkillPriceTx:
		return []common.Address{data.Skill}, nil

	case *types.DeactivateSkillTx:
		return []common.Address{data.Skill}, nil
	}
	return nil, ErrUnknownTxType
}

func (p *Processor) loadSkill(addr common.Address) (*types.Skill, error) {
	rec, err := p.db.LoadRecord(addr)
	if err != nil {
		return nil, err
	}
	return rec.(*types.Skill), nil
}

// report logs a committed transition and feeds the value meters.
func (p *Processor) report(tx *types.Transaction, receipt *types.Receipt) {
	switch data := tx.Data().(type) {
	case *types.InitMarketplaceTx:
		log.Info("Marketplace initialized", "authority", tx.From(), "feeBps", data.FeeBps)
	case *types.RegisterAgentTx:
		log.Info("Agent registered", "owner", tx.From(), "name", data.Name, "agent", receipt.Record)
	case *types.RegisterSkillTx:
		log.Info("Skill registered", "id", data.SkillID, "price", data.Price, "publisher", tx.From(), "skill", receipt.Record)
	case *types.PurchaseSkillTx:
		p.metrics.purchaseVolume.Mark(int64(receipt.SellerAmount + receipt.Fee))
		p.metrics.purchaseFee.Mark(int64(receipt.Fee))
		log.Info("Skill purchased", "skill", data.Skill, "buyer", tx.From(),
			"price", receipt.SellerAmount+receipt.Fee, "fee", receipt.Fee)
	case *types.RateSkillTx:
		p.metrics.ratings.Inc(1)
		log.Info("Skill rated", "purchase", data.Purchase, "rating", data.Rating)
	case *types.UpdateSkillPriceTx:
		log.Info("Skill price updated", "skill", data.Skill, "price", data.NewPrice)
	case *types.DeactivateSkillTx:
		log.Info("Skill deactivated", "skill", data.Skill)
	}
}
