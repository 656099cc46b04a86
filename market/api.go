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

package market

import (
	"context"

	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/core/state"
	"github.com/probechain/skillreg/core/types"
)

// InitMarketplace creates the registry with caller as its authority.
func (m *Market) InitMarketplace(ctx context.Context, caller common.Address, feeBps uint16) (*types.Marketplace, error) {
	if _, err := m.Apply(ctx, types.NewTx(caller, &types.InitMarketplaceTx{FeeBps: feeBps})); err != nil {
		return nil, err
	}
	return m.Marketplace()
}

// RegisterAgent creates the agent profile owned by caller.
func (m *Market) RegisterAgent(ctx context.Context, caller common.Address, name, metadataURI string) (*types.Agent, error) {
	receipt, err := m.Apply(ctx, types.NewTx(caller, &types.RegisterAgentTx{Name: name, MetadataURI: metadataURI}))
	if err != nil {
		return nil, err
	}
	return m.agentAt(receipt.Record)
}

// RegisterSkill lists a new skill under the agent owned by caller.
func (m *Market) RegisterSkill(ctx context.Context, caller common.Address, skill *types.RegisterSkillTx) (*types.Skill, error) {
	receipt, err := m.Apply(ctx, types.NewTx(caller, skill))
	if err != nil {
		return nil, err
	}
	return m.SkillAt(receipt.Record)
}

// PurchaseSkill buys the skill at addr for buyer at its current price.
func (m *Market) PurchaseSkill(ctx context.Context, buyer common.Address, skill common.Address) (*types.Purchase, error) {
	receipt, err := m.Apply(ctx, types.NewTx(buyer, &types.PurchaseSkillTx{Skill: skill}))
	if err != nil {
		return nil, err
	}
	return m.PurchaseAt(receipt.Record)
}

// RateSkill records buyer's rating of the purchase at addr.
func (m *Market) RateSkill(ctx context.Context, buyer common.Address, purchase common.Address, rating uint8) (*types.Purchase, error) {
	receipt, err := m.Apply(ctx, types.NewTx(buyer, &types.RateSkillTx{Purchase: purchase, Rating: rating}))
	if err != nil {
		return nil, err
	}
	return m.PurchaseAt(receipt.Record)
}

// UpdateSkillPrice changes the price future purchases of a skill pay.
func (m *Market) UpdateSkillPrice(ctx context.Context, caller common.Address, skill common.Address, price uint64) (*types.Skill, error) {
	receipt, err := m.Apply(ctx, types.NewTx(caller, &types.UpdateSkillPriceTx{Skill: skill, NewPrice: price}))
	if err != nil {
		return nil, err
	}
	return m.SkillAt(receipt.Record)
}

// DeactivateSkill stops new purchases of a skill.
func (m *Market) DeactivateSkill(ctx context.Context, caller common.Address, skill common.Address) (*types.Skill, error) {
	receipt, err := m.Apply(ctx, types.NewTx(caller, &types.DeactivateSkillTx{Skill: skill}))
	if err != nil {
		return nil, err
	}
	return m.SkillAt(receipt.Record)
}

// Marketplace returns the registry record.
func (m *Market) Marketplace() (rec *types.Marketplace, err error) {
	err = m.read(func(s *state.StateDB) error {
		rec, err = s.GetMarketplace()
		return err
	})
	return rec, err
}

// Agent returns the agent owned by owner.
func (m *Market) Agent(owner common.Address) (*types.Agent, error) {
	return m.agentAt(types.AgentAddress(owner))
}

func (m *Market) agentAt(addr common.Address) (rec *types.Agent, err error) {
	err = m.read(func(s *state.StateDB) error {
		rec, err = s.GetAgent(addr)
		return err
	})
	return rec, err
}

// Skill returns the skill listed under skillID.
func (m *Market) Skill(skillID string) (*types.Skill, error) {
	return m.SkillAt(types.SkillAddress(skillID))
}

// SkillAt returns the skill stored at addr.
func (m *Market) SkillAt(addr common.Address) (rec *types.Skill, err error) {
	err = m.read(func(s *state.StateDB) error {
		rec, err = s.GetSkill(addr)
		return err
	})
	return rec, err
}

// Purchase returns buyer's purchase of the skill at skill.
func (m *Market) Purchase(buyer common.Address, skill common.Address) (*types.Purchase, error) {
	return m.PurchaseAt(types.PurchaseAddress(buyer, skill))
}

// PurchaseAt returns the purchase stored at addr.
func (m *Market) PurchaseAt(addr common.Address) (rec *types.Purchase, err error) {
	err = m.read(func(s *state.StateDB) error {
		rec, err = s.GetPurchase(addr)
		return err
	})
	return rec, err
}
