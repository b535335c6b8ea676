// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/reverts"
)

func serve(err error) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return err })(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	return rr
}

func TestWrapHandlerFunc(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(BadRequest(errors.New("bad"))).Code)
	assert.Equal(t, http.StatusNotFound, serve(NotFound(errors.New("gone"))).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(errors.New("disk")).Code)

	tests := []struct {
		err    error
		status int
	}{
		{reverts.NotFound("x"), http.StatusNotFound},
		{reverts.NotAuthorized("x"), http.StatusForbidden},
		{reverts.InvalidState("x"), http.StatusConflict},
		{reverts.NothingToClaim("x"), http.StatusConflict},
		{reverts.InsufficientFunds("x"), http.StatusPaymentRequired},
		{reverts.MalformedBundle("x"), http.StatusBadRequest},
		{errors.Wrap(reverts.InvalidParameter("price"), "list"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		rr := serve(tt.err)
		assert.Equal(t, tt.status, rr.Code, tt.err.Error())

		var body RevertResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, reverts.KindOf(tt.err).String(), body.Kind)
	}
}
