package ipc

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dalfonso89/rolimons-bridge/internal/bridge"
	"github.com/dalfonso89/rolimons-bridge/internal/httpclient"
	"github.com/dalfonso89/rolimons-bridge/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jsonrpc"
)

// JSON-RPC 2.0 reserved error codes
const (
	invalidRequestCode = -32600
	methodNotFoundCode = -32601
	internalErrorCode  = -32603
)

func newTestHandler(upstream *testutils.MockUpstreamServer) *Handler {
	log := testutils.MockLogger()
	b := bridge.New(httpclient.New(log), log,
		bridge.WithItemsURL(upstream.ItemsURL()),
		bridge.WithRatesURL(upstream.RatesURL()),
	)
	server := NewServer(bridge.NewRegistry(b, log), log)
	return server.NewHandler(context.Background(), nil).(*Handler)
}

func serve(handler *Handler, method string, params string) *jsonrpc.Response {
	request := &jsonrpc.Request{Jsonrpc: jsonrpc.Version, Method: method, Id: 1}
	if params != "" {
		request.Params = json.RawMessage(params)
	}
	response := &jsonrpc.Response{}
	handler.Serve(context.Background(), request, response)
	return response
}

func TestHandler_GetRolimonItems(t *testing.T) {
	upstream := testutils.NewMockUpstreamServer()
	defer upstream.Close()

	response := serve(newTestHandler(upstream), bridge.CommandGetRolimonItems, "")

	require.Nil(t, response.Error)
	var items string
	require.NoError(t, json.Unmarshal(response.Result, &items))
	assert.Equal(t, testutils.MockItemDetailsBody, items)
}

func TestHandler_GetExchangeRate(t *testing.T) {
	upstream := testutils.NewMockUpstreamServer()
	defer upstream.Close()
	upstream.SetRatesBody(`{"amount":100.0,"base":"USD","date":"2026-10-13","rates":{"EUR":92.3}}`)

	response := serve(newTestHandler(upstream), bridge.CommandGetExchangeRate, `{"from":"USD","to":"EUR","amount":100}`)

	require.Nil(t, response.Error)
	assert.JSONEq(t, `92.3`, string(response.Result))
}

func TestHandler_CommandFailuresKeepMessage(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*testutils.MockUpstreamServer)
		method  string
		params  string
		message string
	}{
		{
			name:    "rate not found",
			setup:   func(*testutils.MockUpstreamServer) {},
			method:  bridge.CommandGetExchangeRate,
			params:  `{"from":"USD","to":"ZZZ","amount":100}`,
			message: "No rate field in response",
		},
		{
			name:    "catalog status",
			setup:   func(m *testutils.MockUpstreamServer) { m.SetItems(http.StatusForbidden, "denied") },
			method:  bridge.CommandGetRolimonItems,
			message: "Failed to fetch: 403 Forbidden",
		},
		{
			name:    "conversion status",
			setup:   func(m *testutils.MockUpstreamServer) { m.SetRatesStatus(http.StatusInternalServerError) },
			method:  bridge.CommandGetExchangeRate,
			params:  `{"from":"USD","to":"EUR","amount":1}`,
			message: "Failed to fetch: 500 Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := testutils.NewMockUpstreamServer()
			defer upstream.Close()
			tt.setup(upstream)

			response := serve(newTestHandler(upstream), tt.method, tt.params)

			require.NotNil(t, response.Error)
			assert.EqualValues(t, internalErrorCode, response.Error.Code)
			assert.Equal(t, tt.message, response.Error.Message)
			assert.Empty(t, response.Result)
		})
	}
}

func TestHandler_UnknownMethod(t *testing.T) {
	upstream := testutils.NewMockUpstreamServer()
	defer upstream.Close()

	response := serve(newTestHandler(upstream), "open_window", "")

	require.NotNil(t, response.Error)
	assert.EqualValues(t, methodNotFoundCode, response.Error.Code)
	assert.Contains(t, response.Error.Message, "open_window")
}

func TestHandler_InvalidParams(t *testing.T) {
	upstream := testutils.NewMockUpstreamServer()
	defer upstream.Close()

	response := serve(newTestHandler(upstream), bridge.CommandGetExchangeRate, `{"from":"USD"}`)

	require.NotNil(t, response.Error)
	assert.EqualValues(t, jsonrpc.InvalidParams, response.Error.Code)
	assert.Contains(t, response.Error.Message, "missing required key to")
	assert.Equal(t, 0, upstream.Hits(testutils.LatestRatesPath))
}

func TestHandler_InvalidVersion(t *testing.T) {
	upstream := testutils.NewMockUpstreamServer()
	defer upstream.Close()

	request := &jsonrpc.Request{Jsonrpc: "1.0", Method: bridge.CommandGetRolimonItems, Id: 1}
	response := &jsonrpc.Response{}
	newTestHandler(upstream).Serve(context.Background(), request, response)

	require.NotNil(t, response.Error)
	assert.EqualValues(t, invalidRequestCode, response.Error.Code)
	assert.Equal(t, 0, upstream.Hits(testutils.ItemDetailsPath))
}

func TestHandler_OnNotificationIsNoop(t *testing.T) {
	upstream := testutils.NewMockUpstreamServer()
	defer upstream.Close()

	newTestHandler(upstream).OnNotification(context.Background(), &jsonrpc.Notification{Method: bridge.CommandGetRolimonItems})

	assert.Equal(t, 0, upstream.Hits(testutils.ItemDetailsPath))
}
