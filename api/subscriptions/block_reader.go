// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"

	"github.com/saffron-finance/sfi-farm/chain"
)

type blockReader struct {
	chain *chain.Chain
	cache *messageCache
	pos   uint64
}

func newBlockReader(chain *chain.Chain, cache *messageCache, position uint64) *blockReader {
	return &blockReader{
		chain: chain,
		cache: cache,
		pos:   position,
	}
}

// Read returns the blocks sealed after the position, and moves the position to the best block.
func (br *blockReader) Read() ([][]byte, bool, error) {
	best := br.chain.BestBlock().Number
	if best <= br.pos {
		return nil, false, nil
	}
	var msgs [][]byte
	for num := br.pos + 1; num <= best; num++ {
		msg, _, err := br.cache.GetOrAdd(num, func() ([]byte, error) {
			b, err := br.chain.GetBlock(num)
			if err != nil {
				return nil, err
			}
			return json.Marshal(convertBlock(b))
		})
		if err != nil {
			return nil, false, err
		}
		msgs = append(msgs, msg)
		br.pos = num
	}
	return msgs, true, nil
}
