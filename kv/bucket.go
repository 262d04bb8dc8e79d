// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "github.com/syndtr/goleveldb/leveldb/util"

// Bucket provides logical bucket for kv store.
type Bucket string

// Key returns the bucket-prefixed key.
func (b Bucket) Key(key []byte) []byte {
	return append([]byte(b), key...)
}

// Range returns the range covering every key in the bucket.
func (b Bucket) Range() Range {
	r := util.BytesPrefix([]byte(b))
	return Range{From: r.Start, To: r.Limit}
}

// Get reads key from the bucket.
func (b Bucket) Get(src Getter, key []byte) ([]byte, error) {
	return src.Get(b.Key(key))
}

// Put writes key into the bucket.
func (b Bucket) Put(dst Putter, key, val []byte) error {
	return dst.Put(b.Key(key), val)
}
