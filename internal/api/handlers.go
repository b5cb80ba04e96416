package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tokenforge/forge-backend/internal/config"
	"github.com/tokenforge/forge-backend/internal/launch"
	"github.com/tokenforge/forge-backend/internal/onchain"
	"go.uber.org/zap"
)

// MetricsInterface defines the domain metrics the handlers record.
type MetricsInterface interface {
	RecordLaunch(ctx context.Context, outcome string, duration time.Duration)
	RecordValidation(ctx context.Context, kind string, valid bool)
}

// LauncherService runs the launch sequence end to end.
type LauncherService interface {
	Launch(ctx context.Context, req launch.Request) (*launch.Result, error)
}

// CoinTypeValidator checks a coin type against the node.
type CoinTypeValidator interface {
	ValidateCoinType(ctx context.Context, coinType string) error
}

type Handler struct {
	launcher  LauncherService
	validator CoinTypeValidator
	config    *config.Config
	logger    *zap.SugaredLogger
	metrics   MetricsInterface
}

func NewHandler(
	launcher LauncherService,
	validator CoinTypeValidator,
	config *config.Config,
	logger *zap.SugaredLogger,
	metrics MetricsInterface,
) *Handler {
	return &Handler{
		launcher:  launcher,
		validator: validator,
		config:    config,
		logger:    logger,
		metrics:   metrics,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"rpc":    h.config.Sui.RPCURL,
	})
}

// LaunchToken handles POST /v1/tokens/launch.
func (h *Handler) LaunchToken(w http.ResponseWriter, r *http.Request) {
	var req LaunchTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	launchReq, err := req.toLaunchRequest()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	start := time.Now()
	result, err := h.launcher.Launch(r.Context(), *launchReq)
	if err != nil {
		h.metrics.RecordLaunch(r.Context(), "error", time.Since(start))
		status, code := launchErrorStatus(err)
		h.writeError(w, status, code, err.Error())
		return
	}
	h.metrics.RecordLaunch(r.Context(), "ok", time.Since(start))

	h.writeJSON(w, http.StatusOK, LaunchTokenResponse{
		SignedTransaction: result.SignedTransaction,
		Mint:              result.Mint,
	})
}

// launchErrorStatus maps launch failures to HTTP codes: upstream failures
// surface as 502, everything else as 500.
func launchErrorStatus(err error) (int, string) {
	var (
		imageErr  *launch.ImageFetchError
		uploadErr *launch.UploadError
		tradeErr  *launch.TradeRequestError
		decodeErr *launch.DeserializationError
	)
	switch {
	case errors.As(err, &imageErr):
		return http.StatusBadGateway, "IMAGE_FETCH_ERROR"
	case errors.As(err, &uploadErr):
		return http.StatusBadGateway, "UPLOAD_ERROR"
	case errors.As(err, &tradeErr):
		return http.StatusBadGateway, "TRADE_REQUEST_ERROR"
	case errors.As(err, &decodeErr):
		return http.StatusBadGateway, "BAD_TRANSACTION"
	default:
		return http.StatusInternalServerError, "LAUNCH_ERROR"
	}
}

// ValidateAddress handles POST /v1/validate/address.
func (h *Handler) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	var req ValidateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if req.Address == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_PARAMETER", "address is required")
		return
	}

	if err := onchain.ValidateAddress(req.Address); err != nil {
		h.metrics.RecordValidation(r.Context(), "address", false)
		h.writeJSON(w, http.StatusOK, ValidationResultDTO{Valid: false, Reason: err.Error()})
		return
	}

	h.metrics.RecordValidation(r.Context(), "address", true)
	h.writeJSON(w, http.StatusOK, ValidationResultDTO{Valid: true})
}

// ValidateCoinType handles POST /v1/validate/coin-type.
func (h *Handler) ValidateCoinType(w http.ResponseWriter, r *http.Request) {
	var req ValidateCoinTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if req.CoinType == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_PARAMETER", "coinType is required")
		return
	}

	if err := h.validator.ValidateCoinType(r.Context(), req.CoinType); err != nil {
		// The external message is generic; keep the distinct cause in the log.
		h.logger.Debugw("coin type rejected",
			"coin_type", req.CoinType,
			"cause", errors.Unwrap(err),
		)
		h.metrics.RecordValidation(r.Context(), "coin_type", false)
		h.writeJSON(w, http.StatusOK, ValidationResultDTO{Valid: false, Reason: err.Error()})
		return
	}

	h.metrics.RecordValidation(r.Context(), "coin_type", true)
	h.writeJSON(w, http.StatusOK, ValidationResultDTO{Valid: true})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.logger.Errorw("API error", "code", code, "message", message, "status", status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := ErrorResponse{
		Code:    code,
		Message: message,
	}
	json.NewEncoder(w).Encode(err)
}
