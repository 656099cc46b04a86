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

// AuthType is how callers of a skill's endpoints authenticate.
type AuthType uint8

const (
	AuthNone AuthType = iota
	AuthBearer
	AuthCookie
	AuthAPIKey
	AuthOAuth
	AuthCustom
)

// Valid reports whether t is one of the known authentication schemes.
func (t AuthType) Valid() bool {
	return t <= AuthCustom
}

func (t AuthType) String() string {
	switch t {
	case AuthNone:
		return "none"
	case AuthBearer:
		return "bearer"
	case AuthCookie:
		return "cookie"
	case AuthAPIKey:
		return "api-key"
	case AuthOAuth:
		return "oauth"
	case AuthCustom:
		return "custom"
	default:
		return "invalid"
	}
}
