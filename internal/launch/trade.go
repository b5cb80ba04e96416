package launch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gagliardetto/solana-go"
)

const (
	defaultSlippageBps = 10
	defaultPriorityFee = 0.0001
)

// Options are the optional buy parameters of a launch. Zero values fall back
// to the endpoint defaults: slippage 10 bps, priority fee 0.0001, no initial
// buy.
type Options struct {
	Twitter          string
	Telegram         string
	Website          string
	InitialBuyAmount float64
	SlippageBps      int
	PriorityFee      float64
}

type tradeTokenMetadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

type tradeRequest struct {
	PublicKey        string             `json:"publicKey"`
	Action           string             `json:"action"`
	TokenMetadata    tradeTokenMetadata `json:"tokenMetadata"`
	Mint             string             `json:"mint"`
	DenominatedInSol string             `json:"denominatedInSol"`
	Amount           float64            `json:"amount"`
	Slippage         int                `json:"slippage"`
	PriorityFee      float64            `json:"priorityFee"`
	Pool             string             `json:"pool"`
}

// TradeClient requests unsigned creation transactions from the trade
// construction endpoint.
type TradeClient struct {
	endpoint string
	client   *http.Client
}

func NewTradeClient(endpoint string) *TradeClient {
	return &TradeClient{
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

// CreateTransaction posts a "create" action and returns the raw unsigned
// transaction bytes from the response body.
func (t *TradeClient) CreateTransaction(ctx context.Context, userPublicKey string, mint solana.PublicKey, upload *UploadResult, opts Options) ([]byte, error) {
	slippage := opts.SlippageBps
	if slippage == 0 {
		slippage = defaultSlippageBps
	}
	priorityFee := opts.PriorityFee
	if priorityFee == 0 {
		priorityFee = defaultPriorityFee
	}

	payload := tradeRequest{
		PublicKey: userPublicKey,
		Action:    "create",
		TokenMetadata: tradeTokenMetadata{
			Name:   upload.Metadata.Name,
			Symbol: upload.Metadata.Symbol,
			URI:    upload.MetadataURI,
		},
		Mint:             mint.String(),
		DenominatedInSol: "true",
		Amount:           opts.InitialBuyAmount,
		Slippage:         slippage,
		PriorityFee:      priorityFee,
		Pool:             "pump",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trade request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create trade request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach trade endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read trade response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TradeRequestError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			SimLogs:    extractSimLogs(raw),
		}
	}

	return raw, nil
}

// extractSimLogs pulls the "logs" array out of a JSON error body, if there
// is one. Trade endpoint errors that originate from transaction simulation
// carry one.
func extractSimLogs(body []byte) []string {
	var parsed struct {
		Logs []string `json:"logs"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}
	return parsed.Logs
}
