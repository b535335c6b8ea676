// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis launches the development ledgers used by solo mode and tests.
package genesis

import (
	"crypto/ecdsa"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/yokaihunt/custody/builtin"
	"github.com/yokaihunt/custody/builtin/staking"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/runtime"
	"github.com/yokaihunt/custody/yokai"
)

// InitialFunds is the payment balance of every dev account.
const InitialFunds = 1_000_000_000

// DevAccount is a pre-funded solo mode account.
type DevAccount struct {
	Address    yokai.Address
	PrivateKey *ecdsa.PrivateKey
}

// devAccountCount is the number of accounts funded by Devnet.
const devAccountCount = 6

// DevAccounts returns pre-funded accounts for solo mode. The first one is the admin.
// Keys are derived from a fixed seed so that every solo run funds the same accounts.
var DevAccounts = sync.OnceValue(func() []DevAccount {
	accs := make([]DevAccount, 0, devAccountCount)
	for i := range devAccountCount {
		seed := crypto.Keccak256([]byte("yokai dev account " + strconv.Itoa(i)))
		pk, err := crypto.ToECDSA(seed)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{yokai.Address(crypto.PubkeyToAddress(pk.PublicKey)), pk})
	}
	return accs
})

// RewardAsset describes the reward token minted for the devnet. The staking
// escrow holds the whole supply.
func RewardAsset() *custody.AssetSpec {
	return &custody.AssetSpec{
		Name:     "Spirit",
		Unit:     "SPRT",
		Total:    1 << 60,
		Decimals: 6,
		Creator:  builtin.Staking.Address,
	}
}

// Devnet mints the reward token, funds the dev accounts and returns the genesis
// naming the first dev account as every principal. An executor launched before
// is left untouched and its current settings are returned.
func Devnet(exec *runtime.Executor) (*runtime.Genesis, error) {
	admin := DevAccounts()[0].Address
	gene := &runtime.Genesis{
		Admin:        admin,
		FeeRecipient: admin,
		FeePercent:   yokai.DefaultPlatformFeePercent,
		YieldRates:   staking.DefaultYieldRates(),
	}
	err := exec.Setup(func(l *runtime.Ledgers) (err error) {
		cur, err := l.Market.Admin()
		if err != nil {
			return err
		}
		if !cur.IsZero() {
			gene.RewardToken, err = l.Staking.RewardToken()
			return err
		}

		if gene.RewardToken, err = l.Vault.CreateAsset(RewardAsset()); err != nil {
			return err
		}
		for _, acc := range DevAccounts() {
			if err := l.Vault.Fund(acc.Address, InitialFunds); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gene, nil
}
