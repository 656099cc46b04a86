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

// FoldRating folds rating into a running integer average backed by count
// samples: avg' = floor((avg*count + rating) / (count+1)). Only the rounded
// average is kept, so the result drifts from the true mean; that is the
// stored format and is preserved as is.
func FoldRating(avg uint8, count uint64, rating uint8) (uint8, uint64, error) {
	if rating < MinRating || rating > MaxRating {
		return avg, count, ErrInvalidRating
	}
	if count == ^uint64(0) {
		return avg, count, ErrOverflow
	}
	total := new(uint256.Int).Mul(new(uint256.Int).SetUint64(uint64(avg)), new(uint256.Int).SetUint64(count))
	total.Add(total, new(uint256.Int).SetUint64(uint64(rating)))
	total.Div(total, new(uint256.Int).SetUint64(count+1))
	return uint8(total.Uint64()), count + 1, nil
}
