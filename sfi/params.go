// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sfi

import "math/big"

// Precision is the fixed-point multiplier of per-share accounting.
var Precision = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Ether is one whole token with 18 decimals.
var Ether = Precision

// Units returns n whole tokens of 18 decimals.
func Units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Ether)
}
