// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/api/vault"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/test/testledger"
)

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestVault(t *testing.T) {
	l, err := testledger.New(1_700_000_000)
	require.NoError(t, err)
	defer l.Close()

	router := mux.NewRouter()
	vault.New(l.Exec).Mount(router, "/vault")
	ts := httptest.NewServer(router)
	defer ts.Close()

	owner := testledger.DevAccounts()[1].Address
	assetID, err := l.MintYokai(owner, "Yuki-onna")
	require.NoError(t, err)
	id := strconv.FormatUint(assetID, 10)

	body, status := httpGet(t, ts.URL+"/vault/assets/"+id)
	require.Equal(t, http.StatusOK, status, string(body))
	var spec custody.AssetSpec
	require.NoError(t, json.Unmarshal(body, &spec))
	assert.Equal(t, "Yuki-onna", spec.Name)
	assert.Equal(t, owner, spec.Creator)

	body, status = httpGet(t, ts.URL+"/vault/balances/"+owner.String())
	require.Equal(t, http.StatusOK, status, string(body))
	var balance vault.Balance
	require.NoError(t, json.Unmarshal(body, &balance))
	assert.Equal(t, uint64(testledger.InitialFunds), balance.Amount)
	assert.Equal(t, custody.PaymentAssetID, balance.AssetID)

	body, status = httpGet(t, ts.URL+"/vault/balances/"+owner.String()+"/"+id)
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &balance))
	assert.Equal(t, uint64(1), balance.Amount)

	_, status = httpGet(t, ts.URL+"/vault/assets/1")
	assert.Equal(t, http.StatusNotFound, status)

	_, status = httpGet(t, ts.URL+"/vault/balances/0x12")
	assert.Equal(t, http.StatusBadRequest, status)
}
