// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saffron-finance/sfi-farm/builtin/reverts"
	"github.com/saffron-finance/sfi-farm/runtime"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest},
		{"forbidden", Forbidden(errors.New("no")), http.StatusForbidden},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
		{"revert", OutputError(&runtime.Output{Reverted: true, RevertKind: reverts.NotFound, RevertReason: "non-existent pool"}), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), strings.TrimSpace(rec.Body.String()))
			}
		})
	}
}

func TestOutputError(t *testing.T) {
	assert.NoError(t, OutputError(&runtime.Output{}))
	assert.Equal(t, http.StatusConflict, RevertStatus(reverts.AlreadyExists))
	assert.Equal(t, http.StatusUnprocessableEntity, RevertStatus(reverts.Expired))
	assert.Equal(t, http.StatusForbidden, RevertStatus(reverts.Unauthorized))
}

func TestParseJSONStrict(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	assert.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))
}
