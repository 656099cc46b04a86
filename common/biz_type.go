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

import "errors"

// Record kinds. The kind is stamped into the first byte of every derived
// record address so that a bare address is enough to pick the decoder.
const (
	KIND_OF_MARKETPLACE = byte(0x01) // marketplace registry singleton
	KIND_OF_AGENT       = byte(0x02) // agent directory
	KIND_OF_SKILL       = byte(0x03) // skill catalog entry
	KIND_OF_PURCHASE    = byte(0x04) // purchase ledger entry
)

// Domain tags fed into the address derivation, one per record kind.
const (
	TagMarketplace = "marketplace"
	TagAgent       = "agent"
	TagSkill       = "skill"
	TagPurchase    = "purchase"
)

var errUnknownRecordKind = errors.New("unknown record kind")

// CheckRecordKind check record kind
func CheckRecordKind(kind byte) bool {
	return KIND_OF_MARKETPLACE <= kind && kind <= KIND_OF_PURCHASE
}

// RecordKindOf returns the record kind stamped into a derived address.
func RecordKindOf(addr Address) (byte, error) {
	if !CheckRecordKind(addr[0]) {
		return addr[0], errUnknownRecordKind
	}
	return addr[0], nil
}

// RecordKindName returns the human readable name of a record kind.
func RecordKindName(kind byte) string {
	switch kind {
	case KIND_OF_MARKETPLACE:
		return TagMarketplace
	case KIND_OF_AGENT:
		return TagAgent
	case KIND_OF_SKILL:
		return TagSkill
	case KIND_OF_PURCHASE:
		return TagPurchase
	default:
		return "unknown"
	}
}
