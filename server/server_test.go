// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/polyfix/spatial"
	"github.com/jcodagnone/polyfix/stitch"
	"github.com/jcodagnone/polyfix/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServerTest(t *testing.T, repo store.ChainRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return NewServer(repo).Router()
}

func do(t *testing.T, router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestHealthz(t *testing.T) {
	w := do(t, setupServerTest(t, nil), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStitchEndpoint(t *testing.T) {
	router := setupServerTest(t, nil)

	n := func(lon, lat float64, sub string) spatial.Node {
		return spatial.Node{Lon: lon, Lat: lat, Name: "7", SubLabel: sub}
	}

	body, err := json.Marshal(StitchRequest{Nodes: []spatial.Node{
		n(0, 0, "1"), n(1, 0, "1"), n(1, 1, "1"),
		n(1, 1, "2"), n(0, 1, "2"), n(0, 0, "2"),
	}})
	require.NoError(t, err)

	w := do(t, router, http.MethodPost, "/api/stitch", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp StitchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Completed, 1)
	assert.Len(t, resp.Completed[0], 5)
	assert.Equal(t, resp.Completed[0][0].Key(), resp.Completed[0][4].Key())
	assert.Empty(t, resp.Residual)
	assert.Equal(t, 1, resp.Joins)
	assert.Empty(t, resp.Junctions)
	assert.Contains(t, w.Body.String(), `"residual":[]`)
}

func TestStitchEndpointErrors(t *testing.T) {
	router := setupServerTest(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"nodes":`},
		{"empty", `{"nodes":[]}`},
		{"missing nodes", `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/stitch", []byte(tc.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestSummaryEndpoint(t *testing.T) {
	w := do(t, setupServerTest(t, nil), http.MethodGet, "/api/summary", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	repo := store.NewChainRepository(db)
	require.NoError(t, repo.CreateSchema())

	router := setupServerTest(t, repo)

	w = do(t, router, http.MethodGet, "/api/summary", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	chains, err := store.Chains("7", stitch.Result{Residual: []stitch.Chain{{{Lon: 1, Lat: 1, Name: "7"}}}})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceFile("roads.txt", chains))

	w = do(t, router, http.MethodGet, "/api/summary", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"file":"roads.txt","features":1,"completed":0,"residual":1,"nodes":1}]`, w.Body.String())
}
