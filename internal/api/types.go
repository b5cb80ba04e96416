package api

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tokenforge/forge-backend/internal/launch"
)

type LaunchTokenRequest struct {
	PublicKey   string `json:"publicKey"`
	TokenName   string `json:"tokenName"`
	TokenTicker string `json:"tokenTicker"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Twitter     string `json:"twitter,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
	Website     string `json:"website,omitempty"`
	// Amount and PriorityFee are decimal strings denominated in SOL.
	Amount      string `json:"amount,omitempty"`
	SlippageBps int    `json:"slippageBps,omitempty"`
	PriorityFee string `json:"priorityFee,omitempty"`
}

type LaunchTokenResponse struct {
	SignedTransaction string `json:"signedTransaction"`
	Mint              string `json:"mint"`
}

type ValidateAddressRequest struct {
	Address string `json:"address"`
}

type ValidateCoinTypeRequest struct {
	CoinType string `json:"coinType"`
}

type ValidationResultDTO struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// toLaunchRequest validates required fields and parses the decimal amounts.
func (r *LaunchTokenRequest) toLaunchRequest() (*launch.Request, error) {
	required := []struct {
		name  string
		value string
	}{
		{"publicKey", r.PublicKey},
		{"tokenName", r.TokenName},
		{"tokenTicker", r.TokenTicker},
		{"description", r.Description},
		{"imageUrl", r.ImageURL},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, fmt.Errorf("%s is required", f.name)
		}
	}

	amount, err := parseNonNegative("amount", r.Amount)
	if err != nil {
		return nil, err
	}
	priorityFee, err := parseNonNegative("priorityFee", r.PriorityFee)
	if err != nil {
		return nil, err
	}
	if r.SlippageBps < 0 {
		return nil, fmt.Errorf("slippageBps must not be negative")
	}

	return &launch.Request{
		UserPublicKey: r.PublicKey,
		TokenName:     r.TokenName,
		TokenTicker:   r.TokenTicker,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		Options: launch.Options{
			Twitter:          r.Twitter,
			Telegram:         r.Telegram,
			Website:          r.Website,
			InitialBuyAmount: amount,
			SlippageBps:      r.SlippageBps,
			PriorityFee:      priorityFee,
		},
	}, nil
}

func parseNonNegative(name, value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid decimal number", name)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return d.InexactFloat64(), nil
}
