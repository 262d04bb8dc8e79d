// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/saffron-finance/sfi-farm/cache"
	"github.com/saffron-finance/sfi-farm/kv"
	"github.com/saffron-finance/sfi-farm/sfi"
	"github.com/saffron-finance/sfi-farm/stackedmap"
)

const storageCacheSize = 4096

// StorageBucket is the kv bucket holding committed contract storage.
var StorageBucket = kv.Bucket("s")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr sfi.Address
	key  sfi.Bytes32
}

func (k storageKey) dbKey() []byte {
	return StorageBucket.Key(append(k.addr.Bytes(), k.key.Bytes()...))
}

// State manages contract storage with checkpoint/revert support.
type State struct {
	db    kv.GetPutter
	cache *cache.LRU
	sm    *stackedmap.StackedMap
}

// New create state object on top of the given store.
func New(db kv.GetPutter) *State {
	c, _ := cache.NewLRU(storageCacheSize)
	state := &State{
		db:    db,
		cache: c,
	}
	state.sm = stackedmap.New(state.cacheGetter)
	return state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (any, bool, error) {
	switch k := key.(type) {
	case storageKey:
		v, err := s.cache.GetOrLoad(k, func(any) (any, error) {
			raw, err := s.db.Get(k.dbKey())
			if err != nil {
				if s.db.IsNotFound(err) {
					return rlp.RawValue(nil), nil
				}
				return nil, err
			}
			return rlp.RawValue(raw), nil
		})
		if err != nil {
			return nil, false, err
		}
		metricStorageCounter().AddWithLabel(1, map[string]string{"type": "read"})
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr sfi.Address, key sfi.Bytes32) (sfi.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return sfi.Bytes32{}, err
	}
	if len(raw) == 0 {
		return sfi.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return sfi.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return sfi.Blake2b(raw), nil
	}
	return sfi.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr sfi.Address, key, value sfi.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr sfi.Address, key sfi.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr sfi.Address, key sfi.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr sfi.Address, key sfi.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr sfi.Address, key sfi.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to commit changes.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	var order []storageKey
	s.sm.Journal(func(k, v any) bool {
		if key, ok := k.(storageKey); ok {
			if _, seen := changes[key]; !seen {
				order = append(order, key)
			}
			changes[key] = v.(rlp.RawValue)
		}
		return true
	})
	return &Stage{state: s, changes: changes, order: order}
}
