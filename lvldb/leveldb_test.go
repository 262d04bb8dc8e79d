// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saffron-finance/sfi-farm/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	disk, err := New(filepath.Join(t.TempDir(), "main.db"), Options{16, 16})
	require.NoError(t, err)
	defer disk.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, ldb := range []*LevelDB{disk, mem} {
		require.NoError(t, ldb.Put(key, value))

		ret1, err := ldb.Get(key)
		assert.NoError(t, err)
		ret2, err := ldb.Has(key)
		assert.NoError(t, err)
		ret3, err := ldb.Has(inValidKey)
		assert.NoError(t, err)

		require.NoError(t, ldb.Delete(key))
		_, ret4 := ldb.Get(key)

		tests := []struct {
			ret      any
			expected any
		}{
			{ret1, value},
			{ret2, true},
			{ret3, false},
			{ldb.IsNotFound(ret4), true},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.ret)
		}
	}
}

func TestLevelDBBatch(t *testing.T) {
	ldb, err := NewMem()
	require.NoError(t, err)
	defer ldb.Close()

	batch := ldb.NewBatch()
	require.NoError(t, batch.Put([]byte("a1"), []byte("x")))
	require.NoError(t, batch.Put([]byte("a2"), []byte("y")))
	require.NoError(t, batch.Put([]byte("b1"), []byte("z")))
	assert.Equal(t, 3, batch.Len())

	ok, _ := ldb.Has([]byte("a1"))
	assert.False(t, ok, "batch must not be visible before write")

	require.NoError(t, batch.Write())

	it := ldb.NewIterator(kv.Bucket("a").Range())
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"a1", "a2"}, keys)
}
