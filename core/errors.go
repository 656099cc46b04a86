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
	"errors"
	"fmt"

	"github.com/probechain/skillreg/core/state"
)

// List of error kinds a transition can fail with. Callers match them with
// errors.Is; the returned error usually wraps one of these with context.
var (
	// ErrInvalidParameter is returned for an out of range or non-positive
	// numeric input, or an oversized string.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrFieldTooLong is the InvalidParameter case of a string over its bound.
	ErrFieldTooLong = fmt.Errorf("%w: field too long", ErrInvalidParameter)

	// ErrAlreadyExists is returned when a creation targets an occupied address.
	ErrAlreadyExists = state.ErrAlreadyExists

	// ErrNotFound is returned when a referenced record is absent.
	ErrNotFound = state.ErrNotFound

	// ErrNotActive is returned when purchasing a deactivated skill.
	ErrNotActive = errors.New("skill is not active")

	// ErrUnauthorized is returned when the caller does not control the record.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyRated is returned when a purchase is rated a second time.
	ErrAlreadyRated = errors.New("purchase already rated")

	// ErrOverflow is returned when a counter increment would wrap.
	ErrOverflow = state.ErrOverflow

	// ErrTransferFailed is returned when the token ledger refuses a transfer.
	ErrTransferFailed = errors.New("token transfer failed")
)

// Specific validation failures.
var (
	ErrFeeTooHigh          = fmt.Errorf("%w: fee must be <= %d bps (50%%)", ErrInvalidParameter, MaxFeeBps)
	ErrNameTooLong         = fmt.Errorf("%w: name", ErrFieldTooLong)
	ErrURITooLong          = fmt.Errorf("%w: metadata uri", ErrFieldTooLong)
	ErrSkillIDTooLong      = fmt.Errorf("%w: skill id", ErrFieldTooLong)
	ErrDescriptionTooLong  = fmt.Errorf("%w: description", ErrFieldTooLong)
	ErrPriceNotPositive    = fmt.Errorf("%w: price must be greater than 0", ErrInvalidParameter)
	ErrInvalidRating       = fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidParameter, MinRating, MaxRating)
	ErrInvalidAuthType     = fmt.Errorf("%w: unknown auth type", ErrInvalidParameter)
	ErrInvalidRecordTarget = fmt.Errorf("%w: wrong record address", ErrInvalidParameter)
	ErrUnknownTxType       = fmt.Errorf("%w: unknown transition type", ErrInvalidParameter)
)
