// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/lvldb"
	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/xenv"
	"github.com/yokaihunt/custody/yokai"
)

const day = yokai.SecondsPerDay

var (
	admin    = yokai.BytesToAddress([]byte("admin"))
	escrow   = yokai.BytesToAddress([]byte("escrow"))
	staker   = yokai.BytesToAddress([]byte("staker"))
	stranger = yokai.BytesToAddress([]byte("stranger"))
)

// legendaries is an in-memory legendary index.
type legendaries map[uint64]bool

func (l legendaries) IsLegendaryAsset(assetID uint64) (bool, error) { return l[assetID], nil }

type fixture struct {
	t         *testing.T
	st        *state.State
	vault     *custody.Vault
	s         *Staking
	legendary legendaries
	asset     uint64
	reward    uint64
	now       uint64
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, nil)
	f := &fixture{t: t, st: st, vault: custody.NewVault(st), legendary: legendaries{}}
	f.s = New(escrow, st, f.legendary)

	f.reward, err = f.vault.CreateAsset(&custody.AssetSpec{Name: "Spirit", Unit: "SPRT", Total: 1_000_000_000_000_000, Decimals: 6, Creator: escrow})
	require.NoError(t, err)
	f.asset, err = f.vault.CreateAsset(&custody.AssetSpec{Name: "Kappa", Unit: "YOKAI", Total: 1, Creator: staker})
	require.NoError(t, err)

	require.NoError(t, f.s.Initialize(admin, f.reward, DefaultYieldRates()))
	return f
}

func (f *fixture) env(caller yokai.Address, legs ...*bundle.Leg) *xenv.Environment {
	return xenv.New(f.st, f.vault, &xenv.CallContext{
		Caller: caller,
		Time:   f.now,
		Bundle: bundle.New(f.now, legs...),
	})
}

func (f *fixture) stake(rate uint64, legendary bool) (*StakeInfo, error) {
	return f.s.Stake(f.env(staker,
		bundle.AppCall(staker, MethodStake),
		bundle.AssetTransfer(f.asset, staker, escrow, 1),
	), f.asset, rate, legendary)
}

func (f *fixture) claim(caller yokai.Address) (*Payout, error) {
	return f.s.Claim(f.env(caller, bundle.AppCall(caller, MethodClaim)), f.asset)
}

func (f *fixture) unstake(caller yokai.Address) (*Payout, error) {
	return f.s.Unstake(f.env(caller, bundle.AppCall(caller, MethodUnstake)), f.asset)
}

func (f *fixture) holding(assetID uint64, owner yokai.Address) uint64 {
	bal, err := f.vault.AssetBalance(assetID, owner)
	require.NoError(f.t, err)
	return bal
}

func TestStake(t *testing.T) {
	f := newFixture(t)

	info, err := f.stake(100, false)
	require.NoError(t, err)
	assert.Equal(t, &StakeInfo{AssetID: f.asset, Staker: staker, YieldRate: 100, IsActive: true}, info)

	assert.Equal(t, uint64(0), f.holding(f.asset, staker))
	assert.Equal(t, uint64(1), f.holding(f.asset, escrow))

	staked, err := f.s.IsStaked(f.asset)
	require.NoError(t, err)
	assert.True(t, staked)

	total, _ := f.s.TotalStaked()
	assert.Equal(t, uint64(1), total)

	_, err = f.stake(100, false)
	assert.True(t, reverts.Is(err, reverts.KindInvalidState))
}

func TestStakeRejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.stake(0, false)
	assert.True(t, reverts.Is(err, reverts.KindInvalidParameter))

	_, err = f.stake(1<<16, false)
	assert.True(t, reverts.Is(err, reverts.KindInvalidParameter))

	// deposit into an address other than the escrow
	_, err = f.s.Stake(f.env(staker,
		bundle.AppCall(staker, MethodStake),
		bundle.AssetTransfer(f.asset, staker, stranger, 1),
	), f.asset, 100, false)
	assert.True(t, reverts.Is(err, reverts.KindMalformedBundle))

	// wrong method on the control call
	_, err = f.s.Stake(f.env(staker,
		bundle.AppCall(staker, MethodClaim),
		bundle.AssetTransfer(f.asset, staker, escrow, 1),
	), f.asset, 100, false)
	assert.True(t, reverts.Is(err, reverts.KindMalformedBundle))

	staked, _ := f.s.IsStaked(f.asset)
	assert.False(t, staked)
	assert.Equal(t, uint64(1), f.holding(f.asset, staker))
}

func TestLegendaryRate(t *testing.T) {
	f := newFixture(t)
	f.legendary[f.asset] = true

	info, err := f.stake(100, true)
	require.NoError(t, err)
	assert.Equal(t, yokai.DefaultLegendaryYield, info.YieldRate)
	assert.True(t, info.IsLegendary)

	f.now = 2 * day
	pending, err := f.s.GetPendingYield(f.asset, f.now)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), pending)
}

func TestDeclaredRateChecked(t *testing.T) {
	f := newFixture(t)

	for _, rate := range []uint64{65535, 1000, 150, 1} {
		_, err := f.stake(rate, false)
		assert.True(t, reverts.Is(err, reverts.KindInvalidParameter), "rate %d", rate)
	}
	staked, _ := f.s.IsStaked(f.asset)
	assert.False(t, staked)

	info, err := f.stake(uint64(yokai.DefaultStage2Yield), false)
	require.NoError(t, err)
	assert.Equal(t, yokai.DefaultStage2Yield, info.YieldRate)
}

func TestLegendaryFlagChecked(t *testing.T) {
	f := newFixture(t)

	// not a registered legendary
	_, err := f.stake(100, true)
	assert.True(t, reverts.Is(err, reverts.KindInvalidParameter))

	// a registered legendary staked as a common asset
	f.legendary[f.asset] = true
	_, err = f.stake(100, false)
	assert.True(t, reverts.Is(err, reverts.KindInvalidParameter))

	assert.Equal(t, uint64(1), f.holding(f.asset, staker))
	total, _ := f.s.TotalStaked()
	assert.Equal(t, uint64(0), total)
}

func TestClaim(t *testing.T) {
	f := newFixture(t)

	_, err := f.stake(100, false)
	require.NoError(t, err)

	f.now = 3*day + 100
	payout, err := f.claim(staker)
	require.NoError(t, err)
	assert.Equal(t, &Payout{AssetID: f.asset, Staker: staker, Reward: 300, TokenAmount: 300 * yokai.RewardUnit, Days: 3}, payout)
	assert.Equal(t, 300*yokai.RewardUnit, f.holding(f.reward, staker))

	info, err := f.s.GetStakeInfo(f.asset)
	require.NoError(t, err)
	assert.Equal(t, f.now, info.LastClaim)
	assert.True(t, info.IsActive)

	// the partial day was forfeited by the claim
	_, err = f.claim(staker)
	assert.True(t, reverts.Is(err, reverts.KindNothingToClaim))
	assert.Equal(t, 300*yokai.RewardUnit, f.holding(f.reward, staker))
}

func TestClaimRejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.claim(staker)
	assert.True(t, reverts.Is(err, reverts.KindNotFound))

	_, err = f.stake(100, false)
	require.NoError(t, err)
	f.now = 5 * day

	_, err = f.claim(stranger)
	assert.True(t, reverts.Is(err, reverts.KindNotAuthorized))

	// signed call naming another method
	_, err = f.s.Claim(f.env(staker, bundle.AppCall(staker, MethodUnstake)), f.asset)
	assert.True(t, reverts.Is(err, reverts.KindMalformedBundle))

	info, err := f.s.GetStakeInfo(f.asset)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), info.LastClaim)
}

func TestClaimWithoutRewardToken(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(db, nil)
	vault := custody.NewVault(st)
	s := New(escrow, st, legendaries{})
	require.NoError(t, s.Initialize(admin, 0, DefaultYieldRates()))

	asset, err := vault.CreateAsset(&custody.AssetSpec{Name: "Oni", Unit: "YOKAI", Total: 1, Creator: staker})
	require.NoError(t, err)

	env := func(now uint64, legs ...*bundle.Leg) *xenv.Environment {
		return xenv.New(st, vault, &xenv.CallContext{Caller: staker, Time: now, Bundle: bundle.New(now, legs...)})
	}
	_, err = s.Stake(env(0, bundle.AppCall(staker, MethodStake), bundle.AssetTransfer(asset, staker, escrow, 1)), asset, 100, false)
	require.NoError(t, err)

	_, err = s.Claim(env(day, bundle.AppCall(staker, MethodClaim)), asset)
	assert.True(t, reverts.Is(err, reverts.KindInvalidState))
}

func TestUnstake(t *testing.T) {
	f := newFixture(t)

	_, err := f.stake(250, false)
	require.NoError(t, err)

	f.now = 2*day + 10
	payout, err := f.unstake(staker)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), payout.Reward)
	assert.Equal(t, 500*yokai.RewardUnit, f.holding(f.reward, staker))
	assert.Equal(t, uint64(1), f.holding(f.asset, staker))
	assert.Equal(t, uint64(0), f.holding(f.asset, escrow))

	info, err := f.s.GetStakeInfo(f.asset)
	require.NoError(t, err)
	assert.False(t, info.IsActive)
	assert.Equal(t, f.now, info.LastClaim)

	total, _ := f.s.TotalStaked()
	assert.Equal(t, uint64(0), total)

	pending, err := f.s.GetPendingYield(f.asset, f.now+10*day)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), pending)

	_, err = f.unstake(staker)
	assert.True(t, reverts.Is(err, reverts.KindInvalidState))
}

func TestImmediateUnstake(t *testing.T) {
	f := newFixture(t)

	_, err := f.stake(100, false)
	require.NoError(t, err)

	payout, err := f.unstake(staker)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), payout.Reward)
	assert.Equal(t, uint64(0), payout.TokenAmount)
	assert.Equal(t, uint64(0), f.holding(f.reward, staker))
	assert.Equal(t, uint64(1), f.holding(f.asset, staker))

	total, _ := f.s.TotalStaked()
	assert.Equal(t, uint64(0), total)

	// the asset can be staked again after the episode closed
	_, err = f.stake(100, false)
	require.NoError(t, err)
}

func TestUnstakeByStranger(t *testing.T) {
	f := newFixture(t)

	_, err := f.stake(100, false)
	require.NoError(t, err)

	f.now = day
	_, err = f.unstake(stranger)
	assert.True(t, reverts.Is(err, reverts.KindNotAuthorized))
	assert.Equal(t, uint64(1), f.holding(f.asset, escrow))
}

func TestAdminOperations(t *testing.T) {
	f := newFixture(t)

	rates := YieldRates{Stage1: 10, Stage2: 20, Legendary: 30}
	err := f.s.UpdateYieldRates(f.env(stranger, bundle.AppCall(stranger, MethodUpdateYieldRates)), rates)
	assert.True(t, reverts.Is(err, reverts.KindNotAuthorized))

	require.NoError(t, f.s.UpdateYieldRates(f.env(admin, bundle.AppCall(admin, MethodUpdateYieldRates)), rates))
	got, err := f.s.YieldRates()
	require.NoError(t, err)
	assert.Equal(t, rates, got)

	for stage, want := range map[uint8]uint16{0: 0, 1: 10, 2: 20, 7: 0} {
		rate, err := f.s.YieldRateForStage(stage)
		require.NoError(t, err)
		assert.Equal(t, want, rate, "stage %d", stage)
	}

	err = f.s.SetRewardToken(f.env(admin, bundle.AppCall(admin, MethodSetRewardToken)), custody.PaymentAssetID)
	assert.True(t, reverts.Is(err, reverts.KindInvalidParameter))
	require.NoError(t, f.s.SetRewardToken(f.env(admin, bundle.AppCall(admin, MethodSetRewardToken)), 4242))
	token, _ := f.s.RewardToken()
	assert.Equal(t, uint64(4242), token)

	require.NoError(t, f.s.UpdateAdmin(f.env(admin, bundle.AppCall(admin, MethodUpdateAdmin)), stranger))
	cur, _ := f.s.Admin()
	assert.Equal(t, stranger, cur)

	err = f.s.UpdateAdmin(f.env(admin, bundle.AppCall(admin, MethodUpdateAdmin)), admin)
	assert.True(t, reverts.Is(err, reverts.KindNotAuthorized))
}

func TestInitializeOnce(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.s.Initialize(stranger, 1, YieldRates{}))
	cur, _ := f.s.Admin()
	assert.Equal(t, admin, cur)
	rates, _ := f.s.YieldRates()
	assert.Equal(t, DefaultYieldRates(), rates)
}
