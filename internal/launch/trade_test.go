package launch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadResultFixture() *UploadResult {
	result := &UploadResult{MetadataURI: "ipfs://QmTest"}
	result.Metadata.Name = "Test Token"
	result.Metadata.Symbol = "TEST"
	return result
}

func TestTradeClient_CreateTransaction_Defaults(t *testing.T) {
	mint := solana.NewWallet()
	user := solana.NewWallet().PublicKey().String()

	var got tradeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte{0xde, 0xad, 0xbe, 0xef})
	}))
	defer srv.Close()

	client := NewTradeClient(srv.URL)
	raw, err := client.CreateTransaction(context.Background(), user, mint.PublicKey(), uploadResultFixture(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, raw)

	assert.Equal(t, user, got.PublicKey)
	assert.Equal(t, "create", got.Action)
	assert.Equal(t, "Test Token", got.TokenMetadata.Name)
	assert.Equal(t, "TEST", got.TokenMetadata.Symbol)
	assert.Equal(t, "ipfs://QmTest", got.TokenMetadata.URI)
	assert.Equal(t, mint.PublicKey().String(), got.Mint)
	assert.Equal(t, "true", got.DenominatedInSol)
	assert.Equal(t, float64(0), got.Amount)
	assert.Equal(t, 10, got.Slippage)
	assert.Equal(t, 0.0001, got.PriorityFee)
	assert.Equal(t, "pump", got.Pool)
}

func TestTradeClient_CreateTransaction_ExplicitOptions(t *testing.T) {
	mint := solana.NewWallet()

	var got tradeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte{0x01})
	}))
	defer srv.Close()

	client := NewTradeClient(srv.URL)
	_, err := client.CreateTransaction(context.Background(), "payer", mint.PublicKey(), uploadResultFixture(), Options{
		InitialBuyAmount: 0.5,
		SlippageBps:      25,
		PriorityFee:      0.002,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.5, got.Amount)
	assert.Equal(t, 25, got.Slippage)
	assert.Equal(t, 0.002, got.PriorityFee)
}

func TestTradeClient_CreateTransaction_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient balance for initial buy", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewTradeClient(srv.URL)
	_, err := client.CreateTransaction(context.Background(), "payer", solana.NewWallet().PublicKey(), uploadResultFixture(), Options{})
	require.Error(t, err)

	var tradeErr *TradeRequestError
	require.ErrorAs(t, err, &tradeErr)
	assert.Equal(t, http.StatusBadRequest, tradeErr.StatusCode)
	assert.Contains(t, tradeErr.Body, "insufficient balance")
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "insufficient balance")
}

func TestTradeClient_CreateTransaction_SimulationLogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error": "simulation failed",
			"logs":  []string{"Program log: custom error 0x1", "Program failed"},
		})
	}))
	defer srv.Close()

	client := NewTradeClient(srv.URL)
	_, err := client.CreateTransaction(context.Background(), "payer", solana.NewWallet().PublicKey(), uploadResultFixture(), Options{})

	var tradeErr *TradeRequestError
	require.ErrorAs(t, err, &tradeErr)
	assert.Equal(t, []string{"Program log: custom error 0x1", "Program failed"}, tradeErr.SimLogs)
}
