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

// Package marketconfig contains the configuration of the skill registry.
package marketconfig

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
)

// Defaults contains default settings for a persistent registry.
var Defaults = Config{
	DatabaseCache:   128,
	DatabaseHandles: 256,
	RecordCache:     32,
	ExistCache:      16384,
}

func init() {
	home := os.Getenv("HOME")
	if home == "" {
		if user, err := user.Current(); err == nil {
			home = user.HomeDir
		}
	}
	if runtime.GOOS == "darwin" {
		Defaults.DataDir = filepath.Join(home, "Library", "SkillRegistry")
	} else if runtime.GOOS == "windows" {
		localappdata := os.Getenv("LOCALAPPDATA")
		if localappdata != "" {
			Defaults.DataDir = filepath.Join(localappdata, "SkillRegistry")
		} else {
			Defaults.DataDir = filepath.Join(home, "AppData", "Local", "SkillRegistry")
		}
	} else {
		Defaults.DataDir = filepath.Join(home, ".skillreg")
	}
}

// Config contains configuration options for the skill registry.
type Config struct {
	// DataDir is the directory holding the record database.
	DataDir string

	// Database options
	DatabaseCache   int // MB of leveldb read and write caches
	DatabaseHandles int `toml:"-"`

	// Record cache options
	RecordCache int // MB of clean record blobs kept in memory
	ExistCache  int // number of record addresses remembered as present

	// NoPersist keeps every record in memory. Nothing survives Close.
	NoPersist bool `toml:",omitempty"`

	// Metrics asks for metrics collection. Collectors are only live if
	// metrics were enabled when the process started.
	Metrics bool `toml:",omitempty"`
}

// DatabasePath returns the location of the record database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "records")
}
