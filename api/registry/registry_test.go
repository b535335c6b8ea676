// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/api/registry"
	"github.com/yokaihunt/custody/api/utils"
	builtinregistry "github.com/yokaihunt/custody/builtin/registry"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/test/testledger"
)

var (
	admin  = testledger.DevAccounts()[0]
	player = testledger.DevAccounts()[1]
)

func initServer(t *testing.T) (*testledger.Ledger, *httptest.Server) {
	l, err := testledger.New(1_700_000_000)
	require.NoError(t, err)
	t.Cleanup(l.Close)

	router := mux.NewRouter()
	registry.New(l.Exec).Mount(router, "/registry")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return l, ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

type recordResult struct {
	Output *builtinregistry.EvolutionRecord `json:"output"`
}

func TestLegendary(t *testing.T) {
	l, ts := initServer(t)

	body, status := httpPost(t, ts.URL+"/registry/legendary", &registry.LegendaryRequest{
		Bundle:  l.Call(admin, builtinregistry.MethodRegisterLegendary),
		Species: "Ryujin",
		AssetID: 4242,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	body, status = httpGet(t, ts.URL+"/registry/legendary/Ryujin")
	require.Equal(t, http.StatusOK, status, string(body))
	var legendary registry.Legendary
	require.NoError(t, json.Unmarshal(body, &legendary))
	assert.Equal(t, registry.Legendary{Species: "Ryujin", AssetID: 4242}, legendary)

	body, status = httpPost(t, ts.URL+"/registry/legendary", &registry.LegendaryRequest{
		Bundle:  l.Call(admin, builtinregistry.MethodRegisterLegendary),
		Species: "Ryujin",
		AssetID: 4343,
	})
	assert.Equal(t, http.StatusConflict, status)
	var revert utils.RevertResponse
	require.NoError(t, json.Unmarshal(body, &revert))
	assert.Equal(t, "InvalidState", revert.Kind)

	_, status = httpGet(t, ts.URL+"/registry/legendary/Raijin")
	assert.Equal(t, http.StatusNotFound, status)

	_, status = httpPost(t, ts.URL+"/registry/legendary", &registry.LegendaryRequest{
		Bundle:  l.Call(player, builtinregistry.MethodRegisterLegendary),
		Species: "Raijin",
		AssetID: 1,
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestEvolutions(t *testing.T) {
	l, ts := initServer(t)

	body, status := httpPost(t, ts.URL+"/registry/evolutions", &registry.EvolutionRequest{
		Bundle:         l.Call(admin, builtinregistry.MethodRecordEvolution),
		Species:        "Kappa",
		Stage:          1,
		BurnedAssets:   []uint64{11, 12},
		EvolvedAssetID: 20,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	body, status = httpGet(t, ts.URL+"/registry/evolutions/20")
	require.Equal(t, http.StatusOK, status, string(body))
	var rec builtinregistry.EvolutionRecord
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, []uint64{11, 12}, rec.BurnedAssets)
	assert.Equal(t, uint8(1), rec.Stage)

	_, status = httpPost(t, ts.URL+"/registry/evolutions", &registry.EvolutionRequest{
		Bundle:         l.Call(admin, builtinregistry.MethodRecordEvolution),
		Species:        "Kappa",
		Stage:          2,
		BurnedAssets:   []uint64{1, 2},
		EvolvedAssetID: 21,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpGet(t, ts.URL+"/registry/evolutions/21")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestEvolve(t *testing.T) {
	l, ts := initServer(t)

	body, status := httpPost(t, ts.URL+"/registry/evolve", &registry.EvolveRequest{
		Bundle:       l.Call(admin, builtinregistry.MethodEvolve),
		Species:      "Tanuki",
		Stage:        1,
		BurnedAssets: []uint64{3, 4},
		Asset:        &custody.AssetSpec{Name: "Tanuki II", Unit: "YOKAI", Total: 1, Creator: player.Address},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var evolved recordResult
	require.NoError(t, json.Unmarshal(body, &evolved))
	require.NotNil(t, evolved.Output)

	_, status = httpGet(t, ts.URL+"/registry/evolutions/"+strconv.FormatUint(evolved.Output.EvolvedAssetID, 10))
	assert.Equal(t, http.StatusOK, status)

	_, status = httpPost(t, ts.URL+"/registry/evolve", &registry.EvolveRequest{
		Bundle:       l.Call(admin, builtinregistry.MethodEvolve),
		Species:      "Tanuki",
		Stage:        1,
		BurnedAssets: []uint64{3, 4},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRequiredBurns(t *testing.T) {
	_, ts := initServer(t)

	for stage, want := range map[string]uint64{"0": 0, "1": 2, "2": 4, "3": 0} {
		body, status := httpGet(t, ts.URL+"/registry/burns/"+stage)
		require.Equal(t, http.StatusOK, status, string(body))
		var burns registry.Burns
		require.NoError(t, json.Unmarshal(body, &burns))
		assert.Equal(t, want, burns.Required, stage)
	}

	_, status := httpGet(t, ts.URL+"/registry/burns/256")
	assert.Equal(t, http.StatusBadRequest, status)
}
