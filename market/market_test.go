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

package market

import (
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/google/go-cmp/cmp"
	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/common/mclock"
	"github.com/probechain/skillreg/core"
	"github.com/probechain/skillreg/core/rawdb"
	"github.com/probechain/skillreg/core/token"
	"github.com/probechain/skillreg/core/types"
	"github.com/probechain/skillreg/market/marketconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	authority = common.HexToAddress("0xaa")
	publisher = common.HexToAddress("0xbb")
	buyer     = common.HexToAddress("0xcc")
)

func newMemoryMarket(t *testing.T, ledger *token.Ledger) *Market {
	config := marketconfig.Defaults
	config.NoPersist = true
	m, err := New(&config, ledger, mclock.NewSimulated(1_000))
	require.NoError(t, err)
	return m
}

// listSkill sets up a marketplace, the publisher's agent and one skill.
func listSkill(t *testing.T, m *Market, price uint64) *types.Skill {
	ctx := context.Background()
	_, err := m.InitMarketplace(ctx, authority, 250)
	require.NoError(t, err)
	_, err = m.RegisterAgent(ctx, publisher, "forecaster", "ipfs://agent")
	require.NoError(t, err)
	skill, err := m.RegisterSkill(ctx, publisher, &types.RegisterSkillTx{
		SkillID:  "weather-api",
		Name:     "Weather",
		AuthType: types.AuthBearer,
		Price:    price,
	})
	require.NoError(t, err)
	return skill
}

func TestMarketFlow(t *testing.T) {
	ledger := token.NewLedger()
	require.NoError(t, ledger.Mint(buyer, 1_000_000))
	m := newMemoryMarket(t, ledger)
	defer m.Close()
	ctx := context.Background()

	skill := listSkill(t, m, 1_000_000)
	assert.Equal(t, "weather-api", skill.SkillID)
	assert.True(t, skill.IsActive)

	skillAddr := types.SkillAddress(skill.SkillID)
	purchase, err := m.PurchaseSkill(ctx, buyer, skillAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(25_000), purchase.FeePaid)
	assert.Equal(t, uint64(975_000), ledger.BalanceOf(publisher))
	assert.Equal(t, uint64(25_000), ledger.BalanceOf(authority))

	purchase, err = m.RateSkill(ctx, buyer, types.PurchaseAddress(buyer, skillAddr), 5)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), purchase.Rating)

	updated, err := m.UpdateSkillPrice(ctx, publisher, skillAddr, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), updated.Price)

	deactivated, err := m.DeactivateSkill(ctx, publisher, skillAddr)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	agent, err := m.Agent(publisher)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), agent.ReputationScore)
	assert.Equal(t, uint64(975_000), agent.TotalEarnings)

	market, err := m.Marketplace()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), market.TotalSkills)
	assert.Equal(t, uint64(1_000_000), market.TotalVolume)

	got, err := m.Purchase(buyer, skillAddr)
	require.NoError(t, err)
	assert.Equal(t, purchase, got)
}

func TestMarketReadErrors(t *testing.T) {
	m := newMemoryMarket(t, token.NewLedger())
	defer m.Close()

	_, err := m.Marketplace()
	assert.True(t, errors.Is(err, core.ErrNotFound))
	_, err = m.Skill("missing")
	assert.True(t, errors.Is(err, core.ErrNotFound))
	_, err = m.Agent(publisher)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestMarketClosed(t *testing.T) {
	m := newMemoryMarket(t, token.NewLedger())
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, err := m.InitMarketplace(context.Background(), authority, 0)
	assert.Equal(t, ErrClosed, err)
	_, err = m.Marketplace()
	assert.Equal(t, ErrClosed, err)
}

func TestMarketRequiresLedger(t *testing.T) {
	config := marketconfig.Defaults
	config.NoPersist = true
	_, err := New(&config, nil, nil)
	assert.Error(t, err)
}

func TestMarketPersists(t *testing.T) {
	dir, err := ioutil.TempDir("", "skillreg-market")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	config := marketconfig.Defaults
	config.DataDir = dir

	ledger := token.NewLedger()
	require.NoError(t, ledger.Mint(buyer, 500))

	m, err := New(&config, ledger, mclock.NewSimulated(1_000))
	require.NoError(t, err)
	skill := listSkill(t, m, 500)
	skillAddr := types.SkillAddress(skill.SkillID)
	_, err = m.PurchaseSkill(context.Background(), buyer, skillAddr)
	require.NoError(t, err)
	before, err := m.SkillAt(skillAddr)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	m, err = New(&config, ledger, mclock.NewSimulated(2_000))
	require.NoError(t, err)
	defer m.Close()

	version := rawdb.ReadDatabaseVersion(m.RecordDb())
	require.NotNil(t, version)
	assert.Equal(t, uint64(DatabaseVersion), *version)

	reloaded, err := m.SkillAt(skillAddr)
	require.NoError(t, err)
	if diff := cmp.Diff(before, reloaded); diff != "" {
		t.Fatalf("skill changed across reopen (-before +after):\n%s", diff)
	}
	assert.Equal(t, uint64(1), reloaded.TotalPurchases)
	assert.Equal(t, uint64(1_000), reloaded.CreatedAt)

	// A second purchase by the same buyer is still rejected after reopening.
	_, err = m.PurchaseSkill(context.Background(), buyer, skillAddr)
	assert.True(t, errors.Is(err, core.ErrAlreadyExists))
}

func TestMarketRejectsNewerDatabase(t *testing.T) {
	dir, err := ioutil.TempDir("", "skillreg-market")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	config := marketconfig.Defaults
	config.DataDir = dir

	db, err := rawdb.NewLevelDBDatabase(config.DatabasePath(), 0, 0, "", false)
	require.NoError(t, err)
	rawdb.WriteDatabaseVersion(db, DatabaseVersion+1)
	require.NoError(t, db.Close())

	_, err = New(&config, token.NewLedger(), nil)
	assert.Error(t, err)
}

func TestTimestampsNeverGoBackwards(t *testing.T) {
	ledger := token.NewLedger()
	require.NoError(t, ledger.Mint(buyer, 1_000))

	clock := mclock.NewSimulated(5_000)
	config := marketconfig.Defaults
	config.NoPersist = true
	m, err := New(&config, ledger, clock)
	require.NoError(t, err)
	defer m.Close()

	skill := listSkill(t, m, 1_000)
	skillAddr := types.SkillAddress(skill.SkillID)
	require.Equal(t, uint64(5_000), skill.CreatedAt)

	// The source steps back an hour.
	clock.Set(5_000 - 3_600)
	purchase, err := m.PurchaseSkill(context.Background(), buyer, skillAddr)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, purchase.PurchasedAt, skill.CreatedAt)

	updated, err := m.DeactivateSkill(context.Background(), publisher, skillAddr)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, updated.UpdatedAt, updated.CreatedAt)
	assert.Equal(t, uint64(5_000), updated.UpdatedAt)
}

func TestMarketWriteMetrics(t *testing.T) {
	defer func(enabled bool) { metrics.Enabled = enabled }(metrics.Enabled)
	metrics.Enabled = true

	ledger := token.NewLedger()
	require.NoError(t, ledger.Mint(buyer, 1_000_000))
	config := marketconfig.Defaults
	config.NoPersist = true
	config.Metrics = true
	m, err := New(&config, ledger, mclock.NewSimulated(1_000))
	require.NoError(t, err)
	defer m.Close()

	skill := listSkill(t, m, 1_000_000)
	_, err = m.PurchaseSkill(context.Background(), buyer, types.SkillAddress(skill.SkillID))
	require.NoError(t, err)

	var out bytes.Buffer
	m.WriteMetrics(&out)
	for _, want := range []string{"registry/purchase/volume", "registry/applied/purchase_skill", "1000000"} {
		assert.Contains(t, out.String(), want)
	}
}
