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
	"github.com/holiman/uint256"
)

// SplitFee divides price into the seller's share and the marketplace fee.
// fee = floor(price * feeBps / 10000), computed in 256 bits so the product
// cannot wrap, and seller = price - fee. The buyer always pays exactly price.
func SplitFee(price uint64, feeBps uint16) (seller uint64, fee uint64, err error) {
	if feeBps > MaxFeeBps {
		return 0, 0, ErrFeeTooHigh
	}
	f := new(uint256.Int).Mul(new(uint256.Int).SetUint64(price), new(uint256.Int).SetUint64(uint64(feeBps)))
	f.Div(f, new(uint256.Int).SetUint64(BpsDivisor))
	if !f.IsUint64() {
		// Unreachable while feeBps <= BpsDivisor.
		return 0, 0, ErrOverflow
	}
	fee = f.Uint64()
	return price - fee, fee, nil
}
