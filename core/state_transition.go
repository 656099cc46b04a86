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

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/core/state"
	"github.com/probechain/skillreg/core/types"
)

// StateTransition applies one transition to a StateDB.
//
// Every TransitionDbOf* method loads the records it needs, checks
// authorization and invariants, and only then writes. Writes land in the
// StateDB; nothing is persisted until the caller commits it. Value transfers
// are the exception: they are made at the very end, after every check has
// passed, and are reversed by Rollback if the commit does not happen.
type StateTransition struct {
	ctx   context.Context
	msg   *types.Transaction
	txCtx TxContext
	state *state.StateDB

	transfers transfers
	receipt   *types.Receipt
}

// NewStateTransition initialises and returns a new state transition object.
func NewStateTransition(ctx context.Context, txCtx TxContext, msg *types.Transaction, statedb *state.StateDB, ledger Transferer) *StateTransition {
	return &StateTransition{
		ctx:       ctx,
		msg:       msg,
		txCtx:     txCtx,
		state:     statedb,
		transfers: transfers{ledger: ledger},
		receipt:   &types.Receipt{TxHash: msg.Hash(), Type: msg.Type()},
	}
}

// TransitionDb dispatches the message to its handler.
func (st *StateTransition) TransitionDb() (*types.Receipt, error) {
	var err error
	switch data := st.msg.Data().(type) {
	case *types.InitMarketplaceTx:
		err = st.TransitionDbOfInitMarketplace(data)
	case *types.RegisterAgentTx:
		err = st.TransitionDbOfRegisterAgent(data)
	case *types.RegisterSkillTx:
		err = st.TransitionDbOfRegisterSkill(data)
	case *types.PurchaseSkillTx:
		err = st.TransitionDbOfPurchaseSkill(data)
	case *types.RateSkillTx:
		err = st.TransitionDbOfRateSkill(data)
	case *types.UpdateSkillPriceTx:
		err = st.TransitionDbOfUpdateSkillPrice(data)
	case *types.DeactivateSkillTx:
		err = st.TransitionDbOfDeactivateSkill(data)
	default:
		err = ErrUnknownTxType
	}
	if err != nil {
		return nil, err
	}
	st.receipt.Touched = st.state.Dirty()
	return st.receipt, nil
}

// Rollback reverses any value transfer the transition made. It is called
// when the transition's state changes could not be committed.
func (st *StateTransition) Rollback() {
	st.transfers.rollback()
}

// Reversals reports how many transfer legs were reversed, and how many
// could not be.
func (st *StateTransition) Reversals() (reversed, stuck int) {
	return st.transfers.reversed, st.transfers.stuck
}

func (st *StateTransition) TransitionDbOfInitMarketplace(tx *types.InitMarketplaceTx) error {
	if tx.FeeBps > MaxFeeBps {
		return ErrFeeTooHigh
	}
	addr := types.MarketplaceAddress()
	if err := st.state.CreateRecord(addr, &types.Marketplace{
		Authority: st.txCtx.Origin,
		FeeBps:    tx.FeeBps,
	}); err != nil {
		return err
	}
	st.receipt.Record = addr
	return nil
}

func (st *StateTransition) TransitionDbOfRegisterAgent(tx *types.RegisterAgentTx) error {
	if err := validateTxOfRegisterAgent(tx); err != nil {
		return err
	}
	addr := types.AgentAddress(st.txCtx.Origin)
	if err := st.state.CreateRecord(addr, &types.Agent{
		Owner:       st.txCtx.Origin,
		Name:        tx.Name,
		MetadataURI: tx.MetadataURI,
		CreatedAt:   st.txCtx.Time,
	}); err != nil {
		return err
	}
	st.receipt.Record = addr
	return nil
}

func (st *StateTransition) TransitionDbOfRegisterSkill(tx *types.RegisterSkillTx) error {
	if err := validateTxOfRegisterSkill(tx); err != nil {
		return err
	}
	agentAddr := types.AgentAddress(st.txCtx.Origin)
	agent, err := st.state.GetAgent(agentAddr)
	if err != nil {
		return err
	}
	if agent.Owner != st.txCtx.Origin {
		return fmt.Errorf("%w: caller does not own agent %x", ErrUnauthorized, agentAddr)
	}
	// The registry must exist before anything can be listed on it.
	if _, err := st.state.GetMarketplace(); err != nil {
		return err
	}
	var overflow bool
	if agent.SkillsPublished, overflow = math.SafeAdd(agent.SkillsPublished, 1); overflow {
		return fmt.Errorf("%w: agent skills published", ErrOverflow)
	}
	addr := types.SkillAddress(tx.SkillID)
	if err := st.state.CreateRecord(addr, &types.Skill{
		Publisher:     st.txCtx.Origin,
		Agent:         agentAddr,
		SkillID:       tx.SkillID,
		Name:          tx.Name,
		Description:   tx.Description,
		EndpointCount: tx.EndpointCount,
		AuthType:      tx.AuthType,
		Price:         tx.Price,
		MetadataURI:   tx.MetadataURI,
		IsActive:      true,
		CreatedAt:     st.txCtx.Time,
		UpdatedAt:     st.txCtx.Time,
	}); err != nil {
		return err
	}
	if err := st.state.AddRegistryDelta(1, 0, 0); err != nil {
		return fmt.Errorf("%w: marketplace total skills", err)
	}
	if err := st.state.UpdateRecord(agentAddr, agent); err != nil {
		return err
	}
	st.receipt.Record = addr
	return nil
}

func (st *StateTransition) TransitionDbOfPurchaseSkill(tx *types.PurchaseSkillTx) error {
	buyer := st.txCtx.Origin

	skill, err := st.state.GetSkill(tx.Skill)
	if err != nil {
		return err
	}
	// Collision is reported ahead of deactivation.
	purchaseAddr := types.PurchaseAddress(buyer, tx.Skill)
	if st.state.Exist(purchaseAddr) {
		return fmt.Errorf("%w: purchase %x", ErrAlreadyExists, purchaseAddr)
	}
	if !skill.IsActive {
		return fmt.Errorf("%w: %s", ErrNotActive, skill.SkillID)
	}
	market, err := st.state.GetMarketplace()
	if err != nil {
		return err
	}
	agent, err := st.state.GetAgent(skill.Agent)
	if err != nil {
		return err
	}
	price := skill.Price
	sellerAmount, fee, err := SplitFee(price, market.FeeBps)
	if err != nil {
		return err
	}
	// Stage every counter before any value moves, so an overflow can never
	// be discovered after the buyer has paid.
	var overflow bool
	if skill.TotalPurchases, overflow = math.SafeAdd(skill.TotalPurchases, 1); overflow {
		return fmt.Errorf("%w: skill total purchases", ErrOverflow)
	}
	if skill.TotalRevenue, overflow = math.SafeAdd(skill.TotalRevenue, price); overflow {
		return fmt.Errorf("%w: skill total revenue", ErrOverflow)
	}
	if agent.SkillsSold, overflow = math.SafeAdd(agent.SkillsSold, 1); overflow {
		return fmt.Errorf("%w: agent skills sold", ErrOverflow)
	}
	if agent.TotalEarnings, overflow = math.SafeAdd(agent.TotalEarnings, sellerAmount); overflow {
		return fmt.Errorf("%w: agent total earnings", ErrOverflow)
	}
	if err := st.state.AddRegistryDelta(0, 1, price); err != nil {
		return fmt.Errorf("%w: marketplace totals", err)
	}
	if err := st.state.CreateRecord(purchaseAddr, &types.Purchase{
		Buyer:       buyer,
		Skill:       tx.Skill,
		PricePaid:   price,
		FeePaid:     fee,
		PurchasedAt: st.txCtx.Time,
	}); err != nil {
		return err
	}
	if err := st.state.UpdateRecord(tx.Skill, skill); err != nil {
		return err
	}
	if err := st.state.UpdateRecord(skill.Agent, agent); err != nil {
		return err
	}
	// Seller proceeds go to the publisher identity; the fee to the registry
	// authority, which acts as treasury.
	if err := st.transfers.execute(st.ctx, transferLeg{from: buyer, to: skill.Publisher, amount: sellerAmount}); err != nil {
		return err
	}
	if err := st.transfers.execute(st.ctx, transferLeg{from: buyer, to: market.Authority, amount: fee}); err != nil {
		return err
	}
	st.receipt.Record = purchaseAddr
	st.receipt.SellerAmount = sellerAmount
	st.receipt.Fee = fee
	return nil
}

func (st *StateTransition) TransitionDbOfRateSkill(tx *types.RateSkillTx) error {
	purchase, err := st.state.GetPurchase(tx.Purchase)
	if err != nil {
		return err
	}
	if purchase.Buyer != st.txCtx.Origin {
		return fmt.Errorf("%w: caller is not the buyer of %x", ErrUnauthorized, tx.Purchase)
	}
	if purchase.Rating != 0 {
		return fmt.Errorf("%w: rated %d", ErrAlreadyRated, purchase.Rating)
	}
	skill, err := st.state.GetSkill(purchase.Skill)
	if err != nil {
		return err
	}
	agent, err := st.state.GetAgent(skill.Agent)
	if err != nil {
		return err
	}
	if skill.AvgRating, skill.TotalRatings, err = FoldRating(skill.AvgRating, skill.TotalRatings, tx.Rating); err != nil {
		return fmt.Errorf("skill rating: %w", err)
	}
	if agent.ReputationScore, agent.TotalRatings, err = FoldRating(agent.ReputationScore, agent.TotalRatings, tx.Rating); err != nil {
		return fmt.Errorf("agent reputation: %w", err)
	}
	purchase.Rating = tx.Rating

	if err := st.state.UpdateRecord(tx.Purchase, purchase); err != nil {
		return err
	}
	if err := st.state.UpdateRecord(purchase.Skill, skill); err != nil {
		return err
	}
	if err := st.state.UpdateRecord(skill.Agent, agent); err != nil {
		return err
	}
	st.receipt.Record = tx.Purchase
	return nil
}

func (st *StateTransition) TransitionDbOfUpdateSkillPrice(tx *types.UpdateSkillPriceTx) error {
	skill, err := st.loadPublishedSkill(tx.Skill)
	if err != nil {
		return err
	}
	if tx.NewPrice == 0 {
		return ErrPriceNotPositive
	}
	skill.Price = tx.NewPrice
	skill.UpdatedAt = st.txCtx.Time
	if err := st.state.UpdateRecord(tx.Skill, skill); err != nil {
		return err
	}
	st.receipt.Record = tx.Skill
	return nil
}

func (st *StateTransition) TransitionDbOfDeactivateSkill(tx *types.DeactivateSkillTx) error {
	skill, err := st.loadPublishedSkill(tx.Skill)
	if err != nil {
		return err
	}
	if !skill.IsActive {
		log.Debug("Skill already inactive", "skill", skill.SkillID)
	}
	skill.IsActive = false
	skill.UpdatedAt = st.txCtx.Time
	if err := st.state.UpdateRecord(tx.Skill, skill); err != nil {
		return err
	}
	st.receipt.Record = tx.Skill
	return nil
}

// loadPublishedSkill loads a skill and checks the caller published it.
func (st *StateTransition) loadPublishedSkill(addr common.Address) (*types.Skill, error) {
	skill, err := st.state.GetSkill(addr)
	if err != nil {
		return nil, err
	}
	if skill.Publisher != st.txCtx.Origin {
		return nil, fmt.Errorf("%w: caller is not the publisher of %s", ErrUnauthorized, skill.SkillID)
	}
	return skill, nil
}
