// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/stackedmap"
)

// Stage holds the flattened journal of a state, ready to be written.
type Stage struct {
	state   *State
	changes map[storageKey]rlp.RawValue
	order   []storageKey
}

// Len returns the number of distinct slots changed.
func (st *Stage) Len() int {
	return len(st.order)
}

// Commit writes changes into the underlying store in one batch and resets the journal.
func (st *Stage) Commit() error {
	batch := st.state.db.NewBatch()
	for _, key := range st.order {
		raw := st.changes[key]
		if len(raw) == 0 {
			if err := batch.Delete(key.dbKey()); err != nil {
				return errors.Wrap(err, "stage delete")
			}
		} else {
			if err := batch.Put(key.dbKey(), raw); err != nil {
				return errors.Wrap(err, "stage put")
			}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{errors.Wrap(err, "commit")}
	}

	for _, key := range st.order {
		st.state.cache.Add(key, st.changes[key])
	}
	metricStorageCounter().AddWithLabel(int64(len(st.order)), map[string]string{"type": "write"})

	st.state.sm = stackedmap.New(st.state.cacheGetter)
	return nil
}
