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

import "github.com/probechain/skillreg/common"

// Receipt describes the outcome of a committed transition.
type Receipt struct {
	TxHash common.Hash
	Type   common.TxType

	// Record is the address of the record the transition created or targeted.
	Record common.Address

	// Touched lists every record address written by the transition.
	Touched []common.Address

	// Purchase only.
	SellerAmount uint64
	Fee          uint64
}
