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

package rawdb

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	skillcommon "github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/skilldb"
	"github.com/probechain/skillreg/skilldb/leveldb"
)

// NewMemoryDatabase creates an ephemeral in-memory key-value database.
func NewMemoryDatabase() skilldb.KeyValueStore {
	return leveldb.NewMemory()
}

// NewLevelDBDatabase creates a persistent key-value database using the
// LevelDB backend.
func NewLevelDBDatabase(file string, cache int, handles int, namespace string, readonly bool) (skilldb.KeyValueStore, error) {
	db, err := leveldb.New(file, cache, handles, namespace, readonly)
	if err != nil {
		return nil, err
	}
	return db, nil
}

type counter uint64

func (c counter) String() string {
	return fmt.Sprintf("%d", c)
}

// stat stores sizes and count for a parameter
type stat struct {
	size  common.StorageSize
	count counter
}

// Add size to the stat and increase the counter by 1
func (s *stat) Add(size common.StorageSize) {
	s.size += size
	s.count++
}

func (s *stat) Size() string {
	return s.size.String()
}

func (s *stat) Count() string {
	return s.count.String()
}

// InspectDatabase traverses the entire database and writes the size of every
// record category to w as a table, followed by the backend's level stats.
func InspectDatabase(db skilldb.KeyValueStore, w io.Writer) error {
	it := db.NewIterator(nil, nil)
	defer it.Release()

	var (
		count  int64
		start  = time.Now()
		logged = time.Now()

		marketplaces stat
		agents       stat
		skills       stat
		purchases    stat
		metadata     stat
		unaccounted  stat

		total common.StorageSize
	)
	for it.Next() {
		var (
			key  = it.Key()
			size = common.StorageSize(len(key) + len(it.Value()))
		)
		total += size
		switch {
		case bytes.HasPrefix(key, recordPrefix) && len(key) == len(recordPrefix)+skillcommon.AddressLength:
			switch key[len(recordPrefix)] {
			case skillcommon.KIND_OF_MARKETPLACE:
				marketplaces.Add(size)
			case skillcommon.KIND_OF_AGENT:
				agents.Add(size)
			case skillcommon.KIND_OF_SKILL:
				skills.Add(size)
			case skillcommon.KIND_OF_PURCHASE:
				purchases.Add(size)
			default:
				unaccounted.Add(size)
			}
		case bytes.Equal(key, databaseVersionKey):
			metadata.Add(size)
		default:
			unaccounted.Add(size)
		}
		count++
		if count%1000 == 0 && time.Since(logged) > 8*time.Second {
			log.Info("Inspecting database", "count", count, "elapsed", common.PrettyDuration(time.Since(start)))
			logged = time.Now()
		}
	}
	if err := it.Error(); err != nil {
		return err
	}
	stats := [][]string{
		{"Records", "Marketplace", marketplaces.Size(), marketplaces.Count()},
		{"Records", "Agents", agents.Size(), agents.Count()},
		{"Records", "Skills", skills.Size(), skills.Count()},
		{"Records", "Purchases", purchases.Size(), purchases.Count()},
		{"Key-Value store", "Metadata", metadata.Size(), metadata.Count()},
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Database", "Category", "Size", "Items"})
	table.SetFooter([]string{"", "Total", total.String(), " "})
	table.AppendBulk(stats)
	table.Render()

	if unaccounted.size > 0 {
		log.Error("Database contains unaccounted data", "size", unaccounted.size, "count", unaccounted.count)
	}
	levelStats, err := db.Stat("leveldb.stats")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n%s\n", levelStats)
	return err
}
