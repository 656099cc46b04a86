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

// Package types contains the record and transition types of the registry.
package types

import (
	"errors"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/probechain/skillreg/common"
)

// Record is the decoded form of anything persisted at a derived address.
type Record interface {
	// Kind returns the record kind stamped into the record's address.
	Kind() byte

	// Copy returns a deep copy of the record.
	Copy() Record
}

// Marketplace is the registry singleton: fee configuration plus global
// counters.
type Marketplace struct {
	Authority      common.Address // administrative identity, set once
	FeeBps         uint16         // fee rate in basis points, at most MaxFeeBps
	TotalSkills    uint64
	TotalPurchases uint64
	TotalVolume    uint64 // sum of every purchase price
}

// Agent is the per-identity directory of publishing and selling activity.
type Agent struct {
	Owner           common.Address
	Name            string
	MetadataURI     string
	SkillsPublished uint64
	SkillsSold      uint64
	TotalEarnings   uint64 // post-fee seller proceeds
	ReputationScore uint8  // floor average of every rating received
	TotalRatings    uint64
	CreatedAt       uint64
}

// Skill is one purchasable capability listing.
type Skill struct {
	Publisher      common.Address
	Agent          common.Address // directory of the publisher
	SkillID        string
	Name           string
	Description    string
	EndpointCount  uint16
	AuthType       AuthType
	Price          uint64
	MetadataURI    string
	TotalPurchases uint64
	TotalRevenue   uint64
	AvgRating      uint8
	TotalRatings   uint64
	IsActive       bool
	CreatedAt      uint64
	UpdatedAt      uint64
}

// Purchase records one completed sale of a skill to a buyer.
type Purchase struct {
	Buyer       common.Address
	Skill       common.Address
	PricePaid   uint64
	FeePaid     uint64
	PurchasedAt uint64
	Rating      uint8 // 0 until rated, then fixed
}

func (m *Marketplace) Kind() byte { return common.KIND_OF_MARKETPLACE }
func (a *Agent) Kind() byte       { return common.KIND_OF_AGENT }
func (s *Skill) Kind() byte       { return common.KIND_OF_SKILL }
func (p *Purchase) Kind() byte    { return common.KIND_OF_PURCHASE }

func (m *Marketplace) Copy() Record { cpy := *m; return &cpy }
func (a *Agent) Copy() Record       { cpy := *a; return &cpy }
func (s *Skill) Copy() Record       { cpy := *s; return &cpy }
func (p *Purchase) Copy() Record    { cpy := *p; return &cpy }

var errUnknownRecord = errors.New("unknown record kind")

// EncodeRecord returns the rlp encoding of a record.
func EncodeRecord(r Record) ([]byte, error) {
	return rlp.EncodeToBytes(r)
}

// DecodeRecord decodes blob as a record of the given kind.
func DecodeRecord(kind byte, blob []byte) (Record, error) {
	var r Record
	switch kind {
	case common.KIND_OF_MARKETPLACE:
		r = new(Marketplace)
	case common.KIND_OF_AGENT:
		r = new(Agent)
	case common.KIND_OF_SKILL:
		r = new(Skill)
	case common.KIND_OF_PURCHASE:
		r = new(Purchase)
	default:
		return nil, errUnknownRecord
	}
	if err := rlp.DecodeBytes(blob, r); err != nil {
		return nil, err
	}
	return r, nil
}
