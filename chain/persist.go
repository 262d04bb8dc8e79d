// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/saffron-finance/sfi-farm/kv"
	"github.com/saffron-finance/sfi-farm/sfi"
)

var (
	blockBucket   = kv.Bucket("b")
	receiptBucket = kv.Bucket("r")
	metaBucket    = kv.Bucket("m")

	bestBlockKey = []byte("best")
	genesisKey   = []byte("genesis")
)

func numberKey(num uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], num)
	return k[:]
}

func saveRLP(w kv.Putter, bucket kv.Bucket, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return bucket.Put(w, key, data)
}

func loadRLP(r kv.Getter, bucket kv.Bucket, key []byte, val any) error {
	data, err := bucket.Get(r, key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

func saveBlockSummary(w kv.Putter, summary *BlockSummary) error {
	return saveRLP(w, blockBucket, numberKey(summary.Number), summary)
}

func loadBlockSummary(r kv.Getter, num uint64) (*BlockSummary, error) {
	var summary BlockSummary
	if err := loadRLP(r, blockBucket, numberKey(num), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func saveReceipt(w kv.Putter, receipt *Receipt) error {
	return saveRLP(w, receiptBucket, receipt.TxID.Bytes(), receipt)
}

func loadReceipt(r kv.Getter, txID sfi.Bytes32) (*Receipt, error) {
	var receipt Receipt
	if err := loadRLP(r, receiptBucket, txID.Bytes(), &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func saveBestBlockNumber(w kv.Putter, num uint64) error {
	return metaBucket.Put(w, bestBlockKey, numberKey(num))
}

func loadBestBlockNumber(r kv.Getter) (uint64, error) {
	data, err := metaBucket.Get(r, bestBlockKey)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(data), nil
}

func saveGenesisName(w kv.Putter, name string) error {
	return metaBucket.Put(w, genesisKey, []byte(name))
}

func loadGenesisName(r kv.Getter) (string, error) {
	data, err := metaBucket.Get(r, genesisKey)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
