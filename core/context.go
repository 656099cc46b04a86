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
	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/common/mclock"
	"github.com/probechain/skillreg/core/types"
)

// TxContext provides the transition with information about its caller and
// the moment it runs. All timestamps written by one transition are equal.
type TxContext struct {
	Origin common.Address // authenticated caller
	Time   uint64         // unix seconds
}

// NewTxContext creates a new context for a single transition.
func NewTxContext(tx *types.Transaction, clock mclock.Clock) TxContext {
	return TxContext{
		Origin: tx.From(),
		Time:   clock.Now(),
	}
}
