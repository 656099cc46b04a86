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
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/probechain/skillreg/common"
	"github.com/probechain/skillreg/common/mclock"
	"github.com/probechain/skillreg/core/rawdb"
	"github.com/probechain/skillreg/core/state"
	"github.com/probechain/skillreg/core/token"
	"github.com/probechain/skillreg/core/types"
	"github.com/probechain/skillreg/skilldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	authority = common.HexToAddress("0xaa")
	publisher = common.HexToAddress("0xbb")
	buyer     = common.HexToAddress("0xcc")
	stranger  = common.HexToAddress("0xdd")
)

const (
	testStart   = 1_700_000_000
	testFunds   = 10_000_000
	testPrice   = 1_000_000
	testFeeBps  = 250
	testSkillID = "weather-api"
)

// failingStore is a record store whose batch writes can be switched off.
type failingStore struct {
	skilldb.KeyValueStore
	fail int32
}

func (s *failingStore) NewBatch() skilldb.Batch {
	return &failingBatch{Batch: s.KeyValueStore.NewBatch(), store: s}
}

type failingBatch struct {
	skilldb.Batch
	store *failingStore
}

func (b *failingBatch) Write() error {
	if atomic.LoadInt32(&b.store.fail) != 0 {
		return errors.New("disk full")
	}
	return b.Batch.Write()
}

// failingLedger refuses every transfer paying into one account.
type failingLedger struct {
	*token.Ledger
	refuse common.Address
}

func (l *failingLedger) Transfer(ctx context.Context, from, to common.Address, amount uint64) error {
	if to == l.refuse {
		return errors.New("account frozen")
	}
	return l.Ledger.Transfer(ctx, from, to, amount)
}

type testBackend struct {
	t      *testing.T
	disk   *failingStore
	db     *state.Database
	ledger *token.Ledger
	clock  *mclock.Simulated
	proc   *Processor
}

func newTestBackend(t *testing.T) *testBackend {
	disk := &failingStore{KeyValueStore: rawdb.NewMemoryDatabase()}
	b := &testBackend{
		t:      t,
		disk:   disk,
		db:     state.NewDatabase(disk),
		ledger: token.NewLedger(),
		clock:  mclock.NewSimulated(testStart),
	}
	b.proc = NewProcessor(b.db, b.ledger, b.clock)
	require.NoError(t, b.ledger.Mint(buyer, testFunds))
	return b
}

// newListedBackend returns a backend with a marketplace, the publisher's
// agent and one listed skill.
func newListedBackend(t *testing.T) *testBackend {
	b := newTestBackend(t)
	b.mustApply(authority, &types.InitMarketplaceTx{FeeBps: testFeeBps})
	b.mustApply(publisher, &types.RegisterAgentTx{Name: "forecaster", MetadataURI: "ipfs://agent"})
	b.mustApply(publisher, &types.RegisterSkillTx{
		SkillID:       testSkillID,
		Name:          "Weather",
		Description:   "Hourly forecasts",
		EndpointCount: 3,
		AuthType:      types.AuthAPIKey,
		Price:         testPrice,
		MetadataURI:   "ipfs://skill",
	})
	return b
}

func (b *testBackend) apply(from common.Address, data types.TxData) (*types.Receipt, error) {
	return b.proc.Apply(context.Background(), types.NewTx(from, data))
}

func (b *testBackend) mustApply(from common.Address, data types.TxData) *types.Receipt {
	receipt, err := b.apply(from, data)
	require.NoError(b.t, err, "apply %T", data)
	return receipt
}

func (b *testBackend) marketplace() *types.Marketplace {
	m, err := state.New(b.db).GetMarketplace()
	require.NoError(b.t, err)
	return m
}

func (b *testBackend) agent(owner common.Address) *types.Agent {
	a, err := state.New(b.db).GetAgent(types.AgentAddress(owner))
	require.NoError(b.t, err)
	return a
}

func (b *testBackend) skill(id string) *types.Skill {
	s, err := state.New(b.db).GetSkill(types.SkillAddress(id))
	require.NoError(b.t, err)
	return s
}

func (b *testBackend) purchase(who common.Address, id string) *types.Purchase {
	p, err := state.New(b.db).GetPurchase(types.PurchaseAddress(who, types.SkillAddress(id)))
	require.NoError(b.t, err)
	return p
}

func (b *testBackend) balances() [3]uint64 {
	return [3]uint64{b.ledger.BalanceOf(buyer), b.ledger.BalanceOf(publisher), b.ledger.BalanceOf(authority)}
}

func TestMarketplaceLifecycle(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)

	m := b.marketplace()
	assert.Equal(t, authority, m.Authority)
	assert.Equal(t, uint16(testFeeBps), m.FeeBps)
	assert.Equal(t, uint64(1), m.TotalSkills)

	s := b.skill(testSkillID)
	assert.True(t, s.IsActive)
	assert.Equal(t, publisher, s.Publisher)
	assert.Equal(t, types.AgentAddress(publisher), s.Agent)
	assert.Equal(t, uint64(testStart), s.CreatedAt)
	assert.Equal(t, uint64(1), b.agent(publisher).SkillsPublished)

	// Purchase splits the price between publisher and authority.
	b.clock.Set(testStart + 60)
	receipt := b.mustApply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	assert.Equal(t, uint64(975_000), receipt.SellerAmount)
	assert.Equal(t, uint64(25_000), receipt.Fee)
	assert.Equal(t, types.PurchaseAddress(buyer, skillAddr), receipt.Record)
	assert.Equal(t, [3]uint64{testFunds - testPrice, 975_000, 25_000}, b.balances())

	p := b.purchase(buyer, testSkillID)
	assert.Equal(t, uint64(testPrice), p.PricePaid)
	assert.Equal(t, uint64(25_000), p.FeePaid)
	assert.Equal(t, uint64(testStart+60), p.PurchasedAt)
	assert.Zero(t, p.Rating)

	m = b.marketplace()
	assert.Equal(t, uint64(1), m.TotalPurchases)
	assert.Equal(t, uint64(testPrice), m.TotalVolume)

	s = b.skill(testSkillID)
	assert.Equal(t, uint64(1), s.TotalPurchases)
	assert.Equal(t, uint64(testPrice), s.TotalRevenue)

	a := b.agent(publisher)
	assert.Equal(t, uint64(1), a.SkillsSold)
	assert.Equal(t, uint64(975_000), a.TotalEarnings)

	// Rating folds into both the skill and the agent.
	b.mustApply(buyer, &types.RateSkillTx{Purchase: types.PurchaseAddress(buyer, skillAddr), Rating: 4})
	assert.Equal(t, uint8(4), b.purchase(buyer, testSkillID).Rating)
	s = b.skill(testSkillID)
	assert.Equal(t, uint8(4), s.AvgRating)
	assert.Equal(t, uint64(1), s.TotalRatings)
	a = b.agent(publisher)
	assert.Equal(t, uint8(4), a.ReputationScore)
	assert.Equal(t, uint64(1), a.TotalRatings)

	// Price updates and deactivation stamp UpdatedAt.
	b.clock.Set(testStart + 120)
	b.mustApply(publisher, &types.UpdateSkillPriceTx{Skill: skillAddr, NewPrice: 2_000_000})
	s = b.skill(testSkillID)
	assert.Equal(t, uint64(2_000_000), s.Price)
	assert.Equal(t, uint64(testStart+120), s.UpdatedAt)
	assert.Equal(t, uint64(testStart), s.CreatedAt)

	b.mustApply(publisher, &types.DeactivateSkillTx{Skill: skillAddr})
	assert.False(t, b.skill(testSkillID).IsActive)

	// Deactivating again is not an error.
	b.mustApply(publisher, &types.DeactivateSkillTx{Skill: skillAddr})
}

func TestInitMarketplaceOnce(t *testing.T) {
	b := newTestBackend(t)
	b.mustApply(authority, &types.InitMarketplaceTx{FeeBps: 100})

	_, err := b.apply(stranger, &types.InitMarketplaceTx{FeeBps: 200})
	require.ErrorIs(t, err, ErrAlreadyExists)

	m := b.marketplace()
	assert.Equal(t, authority, m.Authority)
	assert.Equal(t, uint16(100), m.FeeBps)
}

func TestInitMarketplaceFeeBound(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.apply(authority, &types.InitMarketplaceTx{FeeBps: MaxFeeBps + 1})
	require.ErrorIs(t, err, ErrInvalidParameter)

	b.mustApply(authority, &types.InitMarketplaceTx{FeeBps: MaxFeeBps})
}

func TestRegisterAgentOncePerOwner(t *testing.T) {
	b := newTestBackend(t)
	b.mustApply(publisher, &types.RegisterAgentTx{Name: "first"})

	_, err := b.apply(publisher, &types.RegisterAgentTx{Name: "second"})
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "first", b.agent(publisher).Name)
}

func TestRegisterSkillRequiresAgentAndRegistry(t *testing.T) {
	b := newTestBackend(t)
	skill := &types.RegisterSkillTx{SkillID: testSkillID, Name: "Weather", Price: 1}

	_, err := b.apply(publisher, skill)
	require.ErrorIs(t, err, ErrNotFound, "no agent")

	b.mustApply(publisher, &types.RegisterAgentTx{Name: "forecaster"})
	_, err = b.apply(publisher, skill)
	require.ErrorIs(t, err, ErrNotFound, "no marketplace")
	assert.Zero(t, b.agent(publisher).SkillsPublished)

	b.mustApply(authority, &types.InitMarketplaceTx{FeeBps: testFeeBps})
	b.mustApply(publisher, skill)

	// Skill ids are global.
	b.mustApply(stranger, &types.RegisterAgentTx{Name: "copycat"})
	_, err = b.apply(stranger, skill)
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.Zero(t, b.agent(stranger).SkillsPublished)
	assert.Equal(t, uint64(1), b.marketplace().TotalSkills)
}

func TestDuplicatePurchase(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)
	b.mustApply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	before := b.balances()

	_, err := b.apply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	require.ErrorIs(t, err, ErrAlreadyExists)

	assert.Equal(t, before, b.balances())
	assert.Equal(t, uint64(1), b.skill(testSkillID).TotalPurchases)
	assert.Equal(t, uint64(1), b.marketplace().TotalPurchases)
	assert.Equal(t, uint64(1), b.agent(publisher).SkillsSold)
}

func TestPurchaseInactiveSkill(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)
	b.mustApply(publisher, &types.DeactivateSkillTx{Skill: skillAddr})

	_, err := b.apply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	require.ErrorIs(t, err, ErrNotActive)
	assert.Equal(t, [3]uint64{testFunds, 0, 0}, b.balances())
	assert.False(t, state.New(b.db).Exist(types.PurchaseAddress(buyer, skillAddr)))
}

func TestRepurchaseAfterDeactivation(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)
	b.mustApply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	b.mustApply(publisher, &types.DeactivateSkillTx{Skill: skillAddr})
	before := b.balances()

	_, err := b.apply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, before, b.balances())

	// A new buyer still sees the deactivation.
	require.NoError(t, b.ledger.Mint(stranger, testPrice))
	_, err = b.apply(stranger, &types.PurchaseSkillTx{Skill: skillAddr})
	require.ErrorIs(t, err, ErrNotActive)
}

func TestPurchaseOwnSkill(t *testing.T) {
	b := newListedBackend(t)
	require.NoError(t, b.ledger.Mint(publisher, testPrice))

	receipt := b.mustApply(publisher, &types.PurchaseSkillTx{Skill: types.SkillAddress(testSkillID)})
	assert.Equal(t, uint64(975_000), b.ledger.BalanceOf(publisher))
	assert.Equal(t, receipt.Fee, b.ledger.BalanceOf(authority))
}

func TestPurchaseUnknownSkill(t *testing.T) {
	b := newListedBackend(t)
	_, err := b.apply(buyer, &types.PurchaseSkillTx{Skill: types.SkillAddress("missing")})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.apply(buyer, &types.PurchaseSkillTx{Skill: types.AgentAddress(publisher)})
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestPurchaseZeroFee(t *testing.T) {
	b := newTestBackend(t)
	b.mustApply(authority, &types.InitMarketplaceTx{FeeBps: 0})
	b.mustApply(publisher, &types.RegisterAgentTx{Name: "forecaster"})
	b.mustApply(publisher, &types.RegisterSkillTx{SkillID: testSkillID, Price: 7})

	receipt := b.mustApply(buyer, &types.PurchaseSkillTx{Skill: types.SkillAddress(testSkillID)})
	assert.Zero(t, receipt.Fee)
	assert.Equal(t, [3]uint64{testFunds - 7, 7, 0}, b.balances())
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)

	_, err := b.apply(stranger, &types.PurchaseSkillTx{Skill: skillAddr})
	require.ErrorIs(t, err, ErrTransferFailed)

	assert.False(t, state.New(b.db).Exist(types.PurchaseAddress(stranger, skillAddr)))
	assert.Zero(t, b.skill(testSkillID).TotalPurchases)
	assert.Zero(t, b.marketplace().TotalVolume)
}

func TestPurchaseFeeLegFailure(t *testing.T) {
	b := newListedBackend(t)
	b.proc.ledger = &failingLedger{Ledger: b.ledger, refuse: authority}
	skillAddr := types.SkillAddress(testSkillID)

	_, err := b.apply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	require.ErrorIs(t, err, ErrTransferFailed)

	// The seller leg already ran and must have been reversed.
	assert.Equal(t, [3]uint64{testFunds, 0, 0}, b.balances())
	assert.False(t, state.New(b.db).Exist(types.PurchaseAddress(buyer, skillAddr)))
	assert.Zero(t, b.skill(testSkillID).TotalPurchases)
	assert.Zero(t, b.agent(publisher).TotalEarnings)
	assert.Zero(t, b.marketplace().TotalPurchases)
}

func TestPurchaseCommitFailure(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)

	atomic.StoreInt32(&b.disk.fail, 1)
	_, err := b.apply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	require.Error(t, err)
	atomic.StoreInt32(&b.disk.fail, 0)

	assert.Equal(t, [3]uint64{testFunds, 0, 0}, b.balances())
	assert.False(t, state.New(b.db).Exist(types.PurchaseAddress(buyer, skillAddr)))
	assert.Zero(t, b.skill(testSkillID).TotalPurchases)

	// Nothing is left behind that blocks a retry.
	b.mustApply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	assert.Equal(t, [3]uint64{testFunds - testPrice, 975_000, 25_000}, b.balances())
}

func TestPurchaseOverflowGuard(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)

	s := b.skill(testSkillID)
	s.TotalRevenue = math.MaxUint64 - testPrice + 1
	blob, err := types.EncodeRecord(s)
	require.NoError(t, err)
	rawdb.WriteRecord(b.disk, skillAddr, blob)

	_, err = b.apply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	require.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, [3]uint64{testFunds, 0, 0}, b.balances())
	assert.Zero(t, b.skill(testSkillID).TotalPurchases)
	assert.False(t, state.New(b.db).Exist(types.PurchaseAddress(buyer, skillAddr)))
}

func TestRateSkill(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)
	purchaseAddr := types.PurchaseAddress(buyer, skillAddr)
	b.mustApply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})

	_, err := b.apply(stranger, &types.RateSkillTx{Purchase: purchaseAddr, Rating: 1})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = b.apply(buyer, &types.RateSkillTx{Purchase: purchaseAddr, Rating: 0})
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = b.apply(buyer, &types.RateSkillTx{Purchase: purchaseAddr, Rating: 6})
	require.ErrorIs(t, err, ErrInvalidParameter)

	b.mustApply(buyer, &types.RateSkillTx{Purchase: purchaseAddr, Rating: 5})

	_, err = b.apply(buyer, &types.RateSkillTx{Purchase: purchaseAddr, Rating: 1})
	require.ErrorIs(t, err, ErrAlreadyRated)

	assert.Equal(t, uint8(5), b.purchase(buyer, testSkillID).Rating)
	s := b.skill(testSkillID)
	assert.Equal(t, uint8(5), s.AvgRating)
	assert.Equal(t, uint64(1), s.TotalRatings)
}

func TestRatingAverageAcrossBuyers(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)

	for i, rating := range []uint8{5, 1, 4} {
		who := common.BytesToAddress([]byte{0xe0, byte(i)})
		require.NoError(t, b.ledger.Mint(who, testPrice))
		b.mustApply(who, &types.PurchaseSkillTx{Skill: skillAddr})
		b.mustApply(who, &types.RateSkillTx{Purchase: types.PurchaseAddress(who, skillAddr), Rating: rating})
	}
	s := b.skill(testSkillID)
	assert.Equal(t, uint8(3), s.AvgRating)
	assert.Equal(t, uint64(3), s.TotalRatings)

	a := b.agent(publisher)
	assert.Equal(t, uint8(3), a.ReputationScore)
	assert.Equal(t, uint64(3), a.TotalRatings)
}

func TestRateMissingPurchase(t *testing.T) {
	b := newListedBackend(t)
	purchaseAddr := types.PurchaseAddress(buyer, types.SkillAddress(testSkillID))

	_, err := b.apply(buyer, &types.RateSkillTx{Purchase: purchaseAddr, Rating: 3})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.apply(buyer, &types.RateSkillTx{Purchase: types.SkillAddress(testSkillID), Rating: 3})
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestPublisherOnlyTransitions(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)

	_, err := b.apply(stranger, &types.UpdateSkillPriceTx{Skill: skillAddr, NewPrice: 1})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = b.apply(stranger, &types.DeactivateSkillTx{Skill: skillAddr})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = b.apply(publisher, &types.UpdateSkillPriceTx{Skill: skillAddr, NewPrice: 0})
	require.ErrorIs(t, err, ErrInvalidParameter)

	s := b.skill(testSkillID)
	assert.Equal(t, uint64(testPrice), s.Price)
	assert.True(t, s.IsActive)
}

func TestPriceChangeAppliesToLaterPurchases(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)
	b.mustApply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	b.mustApply(publisher, &types.UpdateSkillPriceTx{Skill: skillAddr, NewPrice: 40})

	require.NoError(t, b.ledger.Mint(stranger, 40))
	receipt := b.mustApply(stranger, &types.PurchaseSkillTx{Skill: skillAddr})
	assert.Equal(t, uint64(40), receipt.SellerAmount+receipt.Fee)

	assert.Equal(t, uint64(testPrice), b.purchase(buyer, testSkillID).PricePaid)
	assert.Equal(t, uint64(40), b.purchase(stranger, testSkillID).PricePaid)
	assert.Equal(t, uint64(testPrice+40), b.marketplace().TotalVolume)
}

func TestValidationErrors(t *testing.T) {
	long := func(n int) string {
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = 'x'
		}
		return string(buf)
	}
	b := newTestBackend(t)
	b.mustApply(authority, &types.InitMarketplaceTx{FeeBps: testFeeBps})

	tests := []types.TxData{
		&types.RegisterAgentTx{Name: long(MaxAgentNameLength + 1)},
		&types.RegisterAgentTx{Name: "a", MetadataURI: long(MaxMetadataURILength + 1)},
		&types.RegisterSkillTx{SkillID: long(MaxSkillIDLength + 1), Price: 1},
		&types.RegisterSkillTx{SkillID: "s", Name: long(MaxSkillNameLength + 1), Price: 1},
		&types.RegisterSkillTx{SkillID: "s", Description: long(MaxDescriptionLength + 1), Price: 1},
		&types.RegisterSkillTx{SkillID: "s", MetadataURI: long(MaxMetadataURILength + 1), Price: 1},
		&types.RegisterSkillTx{SkillID: "s", Price: 0},
		&types.RegisterSkillTx{SkillID: "s", Price: 1, AuthType: 200},
		&types.UpdateSkillPriceTx{Skill: types.SkillAddress("s"), NewPrice: 0},
		&types.DeactivateSkillTx{Skill: types.MarketplaceAddress()},
	}
	for i, data := range tests {
		if _, err := b.apply(publisher, data); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("test %d (%T): err = %v, want %v", i, data, err, ErrInvalidParameter)
		}
	}
	// Bounds are inclusive.
	b.mustApply(publisher, &types.RegisterAgentTx{Name: long(MaxAgentNameLength), MetadataURI: long(MaxMetadataURILength)})
	b.mustApply(publisher, &types.RegisterSkillTx{
		SkillID:     long(MaxSkillIDLength),
		Name:        long(MaxSkillNameLength),
		Description: long(MaxDescriptionLength),
		MetadataURI: long(MaxMetadataURILength),
		Price:       1,
	})
}

func TestApplyCancelledContext(t *testing.T) {
	b := newTestBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.proc.Apply(ctx, types.NewTx(authority, &types.InitMarketplaceTx{FeeBps: 1}))
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, state.New(b.db).Exist(types.MarketplaceAddress()))
}

func TestReceiptTouched(t *testing.T) {
	b := newListedBackend(t)
	skillAddr := types.SkillAddress(testSkillID)
	receipt := b.mustApply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})

	assert.ElementsMatch(t, []common.Address{
		types.MarketplaceAddress(),
		types.AgentAddress(publisher),
		skillAddr,
		types.PurchaseAddress(buyer, skillAddr),
	}, receipt.Touched)
}

func TestProcessorMetrics(t *testing.T) {
	defer func(enabled bool) { metrics.Enabled = enabled }(metrics.Enabled)
	metrics.Enabled = true

	b := newListedBackend(t)
	defer b.proc.Stop()
	skillAddr := types.SkillAddress(testSkillID)
	b.mustApply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	b.mustApply(buyer, &types.RateSkillTx{Purchase: types.PurchaseAddress(buyer, skillAddr), Rating: 3})
	_, err := b.apply(buyer, &types.PurchaseSkillTx{Skill: skillAddr})
	require.ErrorIs(t, err, ErrAlreadyExists)

	registry := b.proc.Metrics()
	meter := func(name string) int64 {
		m, ok := registry.Get(name).(metrics.Meter)
		require.True(t, ok, "meter %s not registered", name)
		return m.Count()
	}
	assert.Equal(t, int64(testPrice), meter("registry/purchase/volume"))
	assert.Equal(t, int64(25_000), meter("registry/purchase/fee"))
	assert.Equal(t, int64(5), meter("registry/applied"))
	assert.Equal(t, int64(1), meter("registry/failed"))
	assert.Equal(t, int64(1), meter("registry/applied/purchase_skill"))
	assert.Equal(t, int64(1), registry.Get("registry/ratings").(metrics.Counter).Count())
}

func TestProcessorMetricsReversal(t *testing.T) {
	defer func(enabled bool) { metrics.Enabled = enabled }(metrics.Enabled)
	metrics.Enabled = true

	b := newListedBackend(t)
	defer b.proc.Stop()
	b.proc.ledger = &failingLedger{Ledger: b.ledger, refuse: authority}

	_, err := b.apply(buyer, &types.PurchaseSkillTx{Skill: types.SkillAddress(testSkillID)})
	require.ErrorIs(t, err, ErrTransferFailed)

	registry := b.proc.Metrics()
	assert.Equal(t, int64(1), registry.Get("registry/transfer/reversed").(metrics.Meter).Count())
	assert.Equal(t, int64(0), registry.Get("registry/transfer/reversefailed").(metrics.Meter).Count())
	assert.Equal(t, int64(0), registry.Get("registry/purchase/volume").(metrics.Meter).Count())
}
