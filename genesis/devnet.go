// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/saffron-finance/sfi-farm/sfi"
)

// DevAccount account for development.
type DevAccount struct {
	Address    sfi.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for solo mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{sfi.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// Dev asset addresses used by the devnet.
var (
	DevRewardAsset = sfi.BytesToAddress([]byte("SFI"))
	DevStakeAssetA = sfi.BytesToAddress([]byte("SFI-NEO-LP"))
	DevStakeAssetB = sfi.BytesToAddress([]byte("SFI-FLM-LP"))
)

// NewDevnet create genesis for solo mode. The first dev account owns the farm,
// every dev account holds 10,000 units of each stake asset.
func NewDevnet() *Genesis {
	accs := DevAccounts()
	cfg := &Config{
		Name:           "devnet",
		LaunchTime:     1526400000,
		Owner:          accs[0].Address,
		RewardAsset:    DevRewardAsset,
		Reserve:        NewAmount(sfi.Units(1_000_000)),
		RewardPerBlock: NewAmount(sfi.Units(1)),
		RewardCutoff:   1_000_000,
		Pools: []Pool{
			{Asset: DevStakeAssetA, Weight: NewAmount(big.NewInt(100))},
			{Asset: DevStakeAssetB, Weight: NewAmount(big.NewInt(50))},
		},
	}
	for _, acc := range accs {
		for _, asset := range []sfi.Address{DevStakeAssetA, DevStakeAssetB} {
			cfg.Balances = append(cfg.Balances, Balance{
				Asset:   asset,
				Address: acc.Address,
				Amount:  NewAmount(sfi.Units(10_000)),
			})
		}
	}

	gen, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return gen
}
