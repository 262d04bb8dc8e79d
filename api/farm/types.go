// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/saffron-finance/sfi-farm/builtin"
	"github.com/saffron-finance/sfi-farm/sfi"
)

// Schedule is the emission schedule of the farm.
type Schedule struct {
	Owner           sfi.Address           `json:"owner"`
	Rewarder        sfi.Address           `json:"rewarder"`
	SFIPerBlock     *math.HexOrDecimal256 `json:"sfiPerBlock"`
	RewardCutoff    uint64                `json:"rewardCutoff"`
	TotalAllocPoint *math.HexOrDecimal256 `json:"totalAllocPoint"`
	PoolLength      uint64                `json:"poolLength"`
	Block           uint64                `json:"block"`
}

// Pool is a pool with its id.
type Pool struct {
	ID uint64 `json:"id"`
	*builtin.PoolInfo
}

// Position is a depositor's position with the reward harvestable now.
type Position struct {
	Pid  uint64      `json:"pid"`
	User sfi.Address `json:"user"`
	*builtin.UserInfo
	PendingSFI *math.HexOrDecimal256 `json:"pendingSFI"`
	Block      uint64                `json:"block"`
}
