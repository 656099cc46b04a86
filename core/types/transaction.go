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
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/crypto"
)

// Transaction is one state transition submitted by an authenticated caller.
// Authentication itself happens outside the registry; From is trusted.
type Transaction struct {
	from  common.Address
	inner TxData

	// caches
	hash atomic.Value
}

// TxData is the underlying data of a transaction.
//
// This is implemented by InitMarketplaceTx, RegisterAgentTx, RegisterSkillTx,
// PurchaseSkillTx, RateSkillTx, UpdateSkillPriceTx and DeactivateSkillTx.
type TxData interface {
	txType() common.TxType
	copy() TxData
}

// NewTx creates a new transaction on behalf of from.
func NewTx(from common.Address, inner TxData) *Transaction {
	return &Transaction{from: from, inner: inner.copy()}
}

// Type returns the transition kind.
func (tx *Transaction) Type() common.TxType { return tx.inner.txType() }

// From returns the calling identity.
func (tx *Transaction) From() common.Address { return tx.from }

// Data returns a copy of the transition payload.
func (tx *Transaction) Data() TxData { return tx.inner.copy() }

// Hash returns the transaction hash, used to correlate log lines.
func (tx *Transaction) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return hash.(common.Hash)
	}
	enc, _ := rlp.EncodeToBytes([]interface{}{tx.from, uint8(tx.Type()), tx.inner})
	h := crypto.Keccak256Hash(enc)
	tx.hash.Store(h)
	return h
}

// InitMarketplaceTx creates the registry singleton.
type InitMarketplaceTx struct {
	FeeBps uint16
}

// RegisterAgentTx opens the caller's agent directory.
type RegisterAgentTx struct {
	Name        string
	MetadataURI string
}

// RegisterSkillTx publishes a skill under the caller's agent directory.
type RegisterSkillTx struct {
	SkillID       string
	Name          string
	Description   string
	EndpointCount uint16
	AuthType      AuthType
	Price         uint64
	MetadataURI   string
}

// PurchaseSkillTx buys the skill at the given address for the caller.
type PurchaseSkillTx struct {
	Skill common.Address
}

// RateSkillTx rates the caller's purchase.
type RateSkillTx struct {
	Purchase common.Address
	Rating   uint8
}

// UpdateSkillPriceTx reprices a skill the caller published.
type UpdateSkillPriceTx struct {
	Skill    common.Address
	NewPrice uint64
}

// DeactivateSkillTx retires a skill the caller published.
type DeactivateSkillTx struct {
	Skill common.Address
}

func (tx *InitMarketplaceTx) txType() common.TxType  { return common.InitMarketplace }
func (tx *RegisterAgentTx) txType() common.TxType    { return common.RegisterAgent }
func (tx *RegisterSkillTx) txType() common.TxType    { return common.RegisterSkill }
func (tx *PurchaseSkillTx) txType() common.TxType    { return common.PurchaseSkill }
func (tx *RateSkillTx) txType() common.TxType        { return common.RateSkill }
func (tx *UpdateSkillPriceTx) txType() common.TxType { return common.UpdateSkillPrice }
func (tx *DeactivateSkillTx) txType() common.TxType  { return common.DeactivateSkill }

func (tx *InitMarketplaceTx) copy() TxData  { cpy := *tx; return &cpy }
func (tx *RegisterAgentTx) copy() TxData    { cpy := *tx; return &cpy }
func (tx *RegisterSkillTx) copy() TxData    { cpy := *tx; return &cpy }
func (tx *PurchaseSkillTx) copy() TxData    { cpy := *tx; return &cpy }
func (tx *RateSkillTx) copy() TxData        { cpy := *tx; return &cpy }
func (tx *UpdateSkillPriceTx) copy() TxData { cpy := *tx; return &cpy }
func (tx *DeactivateSkillTx) copy() TxData  { cpy := *tx; return &cpy }
