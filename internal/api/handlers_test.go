package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainpilot-ai/chainpilot/internal/core"
	"github.com/chainpilot-ai/chainpilot/internal/intent"
	"github.com/chainpilot-ai/chainpilot/internal/market"
)

const goodAddress = "0x000000000000000000000000000000000000dEaD"

type fakeOracle struct {
	rec   *intent.Record
	calls int
}

func (f *fakeOracle) ParseIntent(ctx context.Context, userMessage, walletAddress string) (*intent.Record, error) {
	f.calls++
	return f.rec, nil
}

func newTestHandler(t *testing.T, fake *fakeOracle) http.Handler {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	t.Cleanup(upstream.Close)

	poller := market.NewPoller(market.NewClientWithBaseURL(upstream.URL), time.Minute)
	return NewRouter(NewAPIHandler(core.NewIntentService(fake), poller))
}

func postIntent(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/intent/parse-intent", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestParseIntentMissingMessageReturns400(t *testing.T) {
	fake := &fakeOracle{rec: intent.Degraded("unused")}
	handler := newTestHandler(t, fake)

	w := postIntent(t, handler, `{"user_message":"","wallet_address":"0xabc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postIntent(t, handler, `{"wallet_address":"0xabc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The oracle is never consulted for rejected input.
	assert.Zero(t, fake.calls)
}

func TestParseIntentReturnsRecordJSON(t *testing.T) {
	fake := &fakeOracle{rec: &intent.Record{
		IntentDetected: true,
		Action:         intent.ActionTransfer,
		Chain:          "ethereum",
		Asset:          "ETH",
		Amount:         "0.05",
		ToAddress:      goodAddress,
		Confidence:     0.92,
		Summary:        "You are about to send 0.05 ETH",
		RiskFlags:      []string{},
	}}
	handler := newTestHandler(t, fake)

	w := postIntent(t, handler, `{"user_message":"send 0.05 eth","wallet_address":"`+goodAddress+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var rec intent.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.True(t, rec.IntentDetected)
	assert.Equal(t, intent.ActionTransfer, rec.Action)
	assert.Equal(t, 0.92, rec.Confidence)
	assert.NotNil(t, rec.RiskFlags)
}

func TestParseIntentDowngradesBadTransferOverHTTP(t *testing.T) {
	fake := &fakeOracle{rec: &intent.Record{
		IntentDetected: true,
		Action:         intent.ActionTransfer,
		Amount:         "abc",
		ToAddress:      "not-an-address",
		Confidence:     0.95,
		RiskFlags:      []string{},
	}}
	handler := newTestHandler(t, fake)

	w := postIntent(t, handler, `{"user_message":"send abc eth to bob","wallet_address":""}`)
	require.Equal(t, http.StatusOK, w.Code)

	var rec intent.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, 0.7, rec.Confidence)
	assert.Contains(t, rec.RiskFlags, intent.FlagInvalidRecipient)
	assert.Contains(t, rec.RiskFlags, intent.FlagInvalidAmount)
}

func TestParseIntentMalformedBodyReturns400(t *testing.T) {
	handler := newTestHandler(t, &fakeOracle{rec: intent.Degraded("unused")})

	w := postIntent(t, handler, `{not-json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(t, &fakeOracle{rec: intent.Degraded("unused")})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "intent-parser-backend", body["service"])
}

func TestMarketEndpointsServeRows(t *testing.T) {
	handler := newTestHandler(t, &fakeOracle{rec: intent.Degraded("unused")})

	for _, path := range []string{
		"/api/market/top-movers?category=Memes",
		"/api/market/popular?type=Top",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, path)

		var tokens []market.Token
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens), path)
	}
}
