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
	"fmt"

	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/core/types"
)

// ValidateTx runs the checks of a transition that need no state: string
// bounds, numeric ranges and address kinds.
func ValidateTx(tx *types.Transaction) error {
	switch data := tx.Data().(type) {
	case *types.InitMarketplaceTx:
		return validateTxOfInitMarketplace(data)
	case *types.RegisterAgentTx:
		return validateTxOfRegisterAgent(data)
	case *types.RegisterSkillTx:
		return validateTxOfRegisterSkill(data)
	case *types.PurchaseSkillTx:
		return validateSkillTarget(data.Skill)
	case *types.RateSkillTx:
		return validateTxOfRateSkill(data)
	case *types.UpdateSkillPriceTx:
		return validateTxOfUpdateSkillPrice(data)
	case *types.DeactivateSkillTx:
		return validateSkillTarget(data.Skill)
	default:
		return ErrUnknownTxType
	}
}

func validateTxOfInitMarketplace(tx *types.InitMarketplaceTx) error {
	if tx.FeeBps > MaxFeeBps {
		return ErrFeeTooHigh
	}
	return nil
}

func validateTxOfRegisterAgent(tx *types.RegisterAgentTx) error {
	if len(tx.Name) > MaxAgentNameLength {
		return fmt.Errorf("%w: must be <= %d characters", ErrNameTooLong, MaxAgentNameLength)
	}
	if len(tx.MetadataURI) > MaxMetadataURILength {
		return fmt.Errorf("%w: must be <= %d characters", ErrURITooLong, MaxMetadataURILength)
	}
	return nil
}

func validateTxOfRegisterSkill(tx *types.RegisterSkillTx) error {
	if len(tx.SkillID) > MaxSkillIDLength {
		return fmt.Errorf("%w: must be <= %d characters", ErrSkillIDTooLong, MaxSkillIDLength)
	}
	if len(tx.Name) > MaxSkillNameLength {
		return fmt.Errorf("%w: must be <= %d characters", ErrNameTooLong, MaxSkillNameLength)
	}
	if len(tx.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: must be <= %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}
	if len(tx.MetadataURI) > MaxMetadataURILength {
		return fmt.Errorf("%w: must be <= %d characters", ErrURITooLong, MaxMetadataURILength)
	}
	if tx.Price == 0 {
		return ErrPriceNotPositive
	}
	if !tx.AuthType.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidAuthType, tx.AuthType)
	}
	return nil
}

func validateTxOfRateSkill(tx *types.RateSkillTx) error {
	if tx.Rating < MinRating || tx.Rating > MaxRating {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, tx.Rating)
	}
	if err := common.ValidateRecordKind(tx.Purchase, common.KIND_OF_PURCHASE, "purchase"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecordTarget, err)
	}
	return nil
}

func validateTxOfUpdateSkillPrice(tx *types.UpdateSkillPriceTx) error {
	if err := validateSkillTarget(tx.Skill); err != nil {
		return err
	}
	if tx.NewPrice == 0 {
		return ErrPriceNotPositive
	}
	return nil
}

func validateSkillTarget(addr common.Address) error {
	if err := common.ValidateRecordKind(addr, common.KIND_OF_SKILL, "skill"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecordTarget, err)
	}
	return nil
}
