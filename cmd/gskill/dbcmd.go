// Copyright 2026 The go-probeum Authors
// This file is part of go-probeum.
//
// go-probeum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-probeum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-probeum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/common/mclock"
	"github.com/probechain/skillreg/core/rawdb"
	"github.com/probechain/skillreg/core/token"
	"github.com/probechain/skillreg/core/types"
	"github.com/probechain/skillreg/market"
	"github.com/probechain/skillreg/skilldb"
	"gopkg.in/urfave/cli.v1"
)

var (
	feeFlag = cli.UintFlag{
		Name:  "fee",
		Usage: "Marketplace fee in basis points",
		Value: 250,
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "Print the full Go representation of each record",
	}
	kindFlag = cli.StringFlag{
		Name:  "kind",
		Usage: "Record kind to list (marketplace, agent, skill, purchase)",
	}

	initCommand = cli.Command{
		Action:    initMarketplace,
		Name:      "init",
		Usage:     "Create the marketplace registry",
		ArgsUsage: "<authority>",
		Flags:     []cli.Flag{feeFlag},
		Category:  "DATABASE COMMANDS",
		Description: `
The init command creates the registry record in the data directory, with the
given address as the authority collecting fees. It fails if a registry
already exists.`,
	}
	dbCommand = cli.Command{
		Name:      "db",
		Usage:     "Low level database operations",
		ArgsUsage: "",
		Category:  "DATABASE COMMANDS",
		Subcommands: []cli.Command{
			{
				Action:      inspect,
				Name:        "inspect",
				Usage:       "Inspect the storage size for each type of record",
				Description: `This commands iterates the entire database and reports the size of each record kind.`,
			},
			{
				Action:      compact,
				Name:        "compact",
				Usage:       "Compact the record database",
				Description: `This command performs a database compaction. WARNING: This operation may take a very long time to finish.`,
			},
		},
	}
	recordCommand = cli.Command{
		Action:    showRecords,
		Name:      "record",
		Usage:     "Print stored records",
		ArgsUsage: "[<address>]",
		Flags:     []cli.Flag{dumpFlag, kindFlag},
		Category:  "DATABASE COMMANDS",
		Description: `
The record command prints the record stored at the given address, or every
record of the kind given with --kind.`,
	}
	deriveCommand = cli.Command{
		Action:    derive,
		Name:      "derive",
		Usage:     "Compute the address of a record",
		ArgsUsage: "marketplace | agent <owner> | skill <id> | purchase <buyer> <skill>",
		Category:  "MISCELLANEOUS COMMANDS",
	}
)

func openDatabase(ctx *cli.Context, readonly bool) skilldb.KeyValueStore {
	cfg := makeConfig(ctx)
	db, err := rawdb.NewLevelDBDatabase(cfg.Market.DatabasePath(), cfg.Market.DatabaseCache, cfg.Market.DatabaseHandles, "", readonly)
	if err != nil {
		fatalf("Could not open database: %v", err)
	}
	return db
}

func initMarketplace(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need the authority address as argument")
	}
	authority, err := parseAddress(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	fee := ctx.Uint(feeFlag.Name)
	if fee > 0xffff {
		return fmt.Errorf("fee %d out of range", fee)
	}
	cfg := makeConfig(ctx)
	// Registry creation moves no value, an empty ledger suffices.
	m, err := market.New(&cfg.Market, token.NewLedger(), mclock.System{})
	if err != nil {
		return err
	}
	defer m.Close()

	registry, err := m.InitMarketplace(context.Background(), authority, uint16(fee))
	if err != nil {
		return err
	}
	fmt.Printf("Marketplace: %s\nAuthority:   %s\nFee:         %d bps\n", types.MarketplaceAddress(), registry.Authority, registry.FeeBps)
	if cfg.Market.Metrics && metrics.Enabled {
		m.WriteMetrics(os.Stdout)
	}
	return nil
}

func inspect(ctx *cli.Context) error {
	db := openDatabase(ctx, true)
	defer db.Close()

	return rawdb.InspectDatabase(db, os.Stdout)
}

func compact(ctx *cli.Context) error {
	db := openDatabase(ctx, false)
	defer db.Close()

	log.Info("Stats before compaction")
	showLevelStats(db)

	start := time.Now()
	log.Info("Triggering compaction")
	if err := db.Compact(nil, nil); err != nil {
		log.Error("Compact err", "error", err)
		return err
	}
	log.Info("Compaction done", "elapsed", gethcommon.PrettyDuration(time.Since(start)))
	showLevelStats(db)
	return nil
}

func showLevelStats(db skilldb.KeyValueStater) {
	if stats, err := db.Stat("leveldb.stats"); err != nil {
		log.Warn("Failed to read database stats", "error", err)
	} else {
		fmt.Println(stats)
	}
}

func showRecords(ctx *cli.Context) error {
	db := openDatabase(ctx, true)
	defer db.Close()

	dump := ctx.Bool(dumpFlag.Name)
	if ctx.NArg() > 0 {
		addr, err := parseAddress(ctx.Args().Get(0))
		if err != nil {
			return err
		}
		kind, err := common.RecordKindOf(addr)
		if err != nil {
			return fmt.Errorf("%s: %v", addr, err)
		}
		blob := rawdb.ReadRecord(db, addr)
		if len(blob) == 0 {
			return fmt.Errorf("no %s record at %s", common.RecordKindName(kind), addr)
		}
		return printRecord(addr, kind, blob, dump)
	}
	kind, err := parseKind(ctx.String(kindFlag.Name))
	if err != nil {
		return err
	}
	var count int
	err = rawdb.IterateRecords(db, kind, func(addr common.Address, blob []byte) bool {
		if err := printRecord(addr, kind, blob, dump); err != nil {
			log.Error("Skipping undecodable record", "addr", addr, "err", err)
		}
		count++
		return true
	})
	log.Info("Listed records", "kind", common.RecordKindName(kind), "count", count)
	return err
}

func printRecord(addr common.Address, kind byte, blob []byte, dump bool) error {
	rec, err := types.DecodeRecord(kind, blob)
	if err != nil {
		return err
	}
	if dump {
		fmt.Printf("%s %s\n", common.RecordKindName(kind), addr)
		spew.Dump(rec)
		return nil
	}
	fmt.Printf("%s %s %+v\n", common.RecordKindName(kind), addr, rec)
	return nil
}

func derive(ctx *cli.Context) error {
	addr, err := deriveAddress(ctx.Args())
	if err != nil {
		return err
	}
	fmt.Println(addr)
	return nil
}

// deriveAddress computes the record address named by a derive command line.
func deriveAddress(args []string) (common.Address, error) {
	if len(args) == 0 {
		return common.Address{}, errors.New("missing record kind")
	}
	kind, rest := args[0], args[1:]
	want := map[string]int{
		common.TagMarketplace: 0,
		common.TagAgent:       1,
		common.TagSkill:       1,
		common.TagPurchase:    2,
	}
	n, ok := want[kind]
	if !ok {
		return common.Address{}, fmt.Errorf("unknown record kind %q", kind)
	}
	if len(rest) != n {
		return common.Address{}, fmt.Errorf("%s takes %d arguments, have %d", kind, n, len(rest))
	}
	switch kind {
	case common.TagMarketplace:
		return types.MarketplaceAddress(), nil
	case common.TagAgent:
		owner, err := parseAddress(rest[0])
		if err != nil {
			return common.Address{}, err
		}
		return types.AgentAddress(owner), nil
	case common.TagSkill:
		return types.SkillAddress(rest[0]), nil
	default:
		buyer, err := parseAddress(rest[0])
		if err != nil {
			return common.Address{}, err
		}
		skill, err := parseAddress(rest[1])
		if err != nil {
			return common.Address{}, err
		}
		return types.PurchaseAddress(buyer, skill), nil
	}
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseKind(name string) (byte, error) {
	for _, kind := range []byte{common.KIND_OF_MARKETPLACE, common.KIND_OF_AGENT, common.KIND_OF_SKILL, common.KIND_OF_PURCHASE} {
		if common.RecordKindName(kind) == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown record kind %q", name)
}
