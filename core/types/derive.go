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

package types

import (
	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/crypto"
)

var marketplaceAddress = crypto.CreateRecordAddress(common.KIND_OF_MARKETPLACE, common.TagMarketplace)

// MarketplaceAddress returns the fixed address of the registry singleton.
func MarketplaceAddress() common.Address {
	return marketplaceAddress
}

// AgentAddress returns the address of the directory owned by owner.
func AgentAddress(owner common.Address) common.Address {
	return crypto.CreateRecordAddress(common.KIND_OF_AGENT, common.TagAgent, owner.Bytes())
}

// SkillAddress returns the address of the catalog entry for skillID.
func SkillAddress(skillID string) common.Address {
	return crypto.CreateRecordAddress(common.KIND_OF_SKILL, common.TagSkill, []byte(skillID))
}

// PurchaseAddress returns the address of buyer's purchase of skill.
func PurchaseAddress(buyer common.Address, skill common.Address) common.Address {
	return crypto.CreateRecordAddress(common.KIND_OF_PURCHASE, common.TagPurchase, buyer.Bytes(), skill.Bytes())
}
