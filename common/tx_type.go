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

package common

// TxType identifies a marketplace state transition.
type TxType byte

const (
	InitMarketplace  TxType = 0x00 // create the registry singleton
	RegisterAgent    TxType = 0x10 // open an agent directory
	RegisterSkill    TxType = 0x20 // publish a skill
	UpdateSkillPrice TxType = 0x21 // reprice a skill
	DeactivateSkill  TxType = 0x2f // retire a skill
	PurchaseSkill    TxType = 0x30 // buy a skill
	RateSkill        TxType = 0x31 // rate a purchase
)

// CheckTxType reports whether t names a known transition.
func CheckTxType(t TxType) bool {
	switch t {
	case InitMarketplace, RegisterAgent, RegisterSkill, UpdateSkillPrice,
		DeactivateSkill, PurchaseSkill, RateSkill:
		return true
	default:
		return false
	}
}

func (t TxType) String() string {
	switch t {
	case InitMarketplace:
		return "init_marketplace"
	case RegisterAgent:
		return "register_agent"
	case RegisterSkill:
		return "register_skill"
	case UpdateSkillPrice:
		return "update_skill_price"
	case DeactivateSkill:
		return "deactivate_skill"
	case PurchaseSkill:
		return "purchase_skill"
	case RateSkill:
		return "rate_skill"
	default:
		return "unknown"
	}
}
