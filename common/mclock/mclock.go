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

// Package mclock provides the timestamp sources used to stamp records.
package mclock

import (
	"sync"
	"time"
)

// ClockSource identifies where a clock reads its time from.
type ClockSource uint8

const (
	ClockSourceSystem    ClockSource = 0 // OS system clock
	ClockSourceSimulated ClockSource = 1 // manually driven, for tests
)

// Clock reports the current time as unix seconds.
type Clock interface {
	Now() uint64
}

// System implements Clock using the system clock.
type System struct{}

// Now returns the current unix time in seconds.
func (System) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Simulated is a Clock that only moves when told to.
type Simulated struct {
	mu  sync.Mutex
	now uint64
}

// NewSimulated creates a simulated clock starting at the given unix second.
func NewSimulated(start uint64) *Simulated {
	return &Simulated{now: start}
}

// Now returns the simulated time.
func (s *Simulated) Now() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Run moves the clock forward by d, truncated to whole seconds.
func (s *Simulated) Run(d time.Duration) {
	s.mu.Lock()
	s.now += uint64(d / time.Second)
	s.mu.Unlock()
}

// Set jumps the clock to t. Moving backwards is allowed so tests can model a
// misbehaving source; wrap it in Monotonic to hide that from callers.
func (s *Simulated) Set(t uint64) {
	s.mu.Lock()
	s.now = t
	s.mu.Unlock()
}

// Monotonic wraps a Clock so the reported time never decreases, even if the
// underlying source steps backwards.
type Monotonic struct {
	source Clock

	mu   sync.Mutex
	last uint64
}

// NewMonotonic wraps source.
func NewMonotonic(source Clock) *Monotonic {
	return &Monotonic{source: source}
}

// Now returns the larger of the source time and the last reported time.
func (m *Monotonic) Now() uint64 {
	now := m.source.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if now < m.last {
		return m.last
	}
	m.last = now
	return now
}

// Source reports which kind of clock backs c.
func Source(c Clock) ClockSource {
	switch c := c.(type) {
	case *Simulated:
		return ClockSourceSimulated
	case *Monotonic:
		return Source(c.source)
	default:
		return ClockSourceSystem
	}
}
