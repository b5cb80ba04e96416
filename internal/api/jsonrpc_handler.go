package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tokenforge/forge-backend/internal/onchain"
)

// HandleJSONRPC handles JSON-RPC 2.0 requests
func (h *Handler) HandleJSONRPC(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Parse JSON-RPC request
	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendJSONRPCError(w, nil, JSONRPCParseError, "Parse error", err.Error())
		return
	}

	// Validate JSON-RPC version
	if req.JSONRPC != "2.0" {
		h.sendJSONRPCError(w, req.ID, JSONRPCInvalidRequest, "Invalid Request", "jsonrpc must be '2.0'")
		return
	}

	// Handle method
	switch req.Method {
	case "launchToken":
		h.handleLaunchToken(w, r, &req)
	case "validateAddress":
		h.handleValidateAddress(w, &req)
	case "validateCoinType":
		h.handleValidateCoinType(w, r, &req)
	default:
		h.sendJSONRPCError(w, req.ID, JSONRPCMethodNotFound, "Method not found", fmt.Sprintf("Method '%s' not found", req.Method))
	}
}

func (h *Handler) handleLaunchToken(w http.ResponseWriter, r *http.Request, req *JSONRPCRequest) {
	var params LaunchTokenParams
	if !h.decodeJSONRPCParams(w, req, &params) {
		return
	}

	launchReq, err := params.toLaunchRequest()
	if err != nil {
		h.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "Invalid params", err.Error())
		return
	}

	start := time.Now()
	result, err := h.launcher.Launch(r.Context(), *launchReq)
	if err != nil {
		h.metrics.RecordLaunch(r.Context(), "error", time.Since(start))
		h.sendJSONRPCError(w, req.ID, JSONRPCInternalError, "Launch failed", err.Error())
		return
	}
	h.metrics.RecordLaunch(r.Context(), "ok", time.Since(start))

	h.sendJSONRPCResponse(w, req.ID, LaunchTokenResponse{
		SignedTransaction: result.SignedTransaction,
		Mint:              result.Mint,
	})
}

func (h *Handler) handleValidateAddress(w http.ResponseWriter, req *JSONRPCRequest) {
	var params ValidateAddressParams
	if !h.decodeJSONRPCParams(w, req, &params) {
		return
	}
	if params.Address == "" {
		h.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "Invalid params", "address is required")
		return
	}

	if err := onchain.ValidateAddress(params.Address); err != nil {
		h.sendJSONRPCResponse(w, req.ID, ValidationResultDTO{Valid: false, Reason: err.Error()})
		return
	}
	h.sendJSONRPCResponse(w, req.ID, ValidationResultDTO{Valid: true})
}

func (h *Handler) handleValidateCoinType(w http.ResponseWriter, r *http.Request, req *JSONRPCRequest) {
	var params ValidateCoinTypeParams
	if !h.decodeJSONRPCParams(w, req, &params) {
		return
	}
	if params.CoinType == "" {
		h.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "Invalid params", "coinType is required")
		return
	}

	if err := h.validator.ValidateCoinType(r.Context(), params.CoinType); err != nil {
		h.sendJSONRPCResponse(w, req.ID, ValidationResultDTO{Valid: false, Reason: err.Error()})
		return
	}
	h.sendJSONRPCResponse(w, req.ID, ValidationResultDTO{Valid: true})
}

// decodeJSONRPCParams re-marshals the request params into the typed params
// struct. Writes the error response and returns false on failure.
func (h *Handler) decodeJSONRPCParams(w http.ResponseWriter, req *JSONRPCRequest, out interface{}) bool {
	paramsBytes, err := json.Marshal(req.Params)
	if err != nil {
		h.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "Invalid params", "Failed to parse parameters")
		return false
	}
	if err := json.Unmarshal(paramsBytes, out); err != nil {
		h.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "Invalid params", err.Error())
		return false
	}
	return true
}

func (h *Handler) sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) sendJSONRPCError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	h.logger.Errorw("JSON-RPC error", "code", code, "message", message, "data", data)

	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
	json.NewEncoder(w).Encode(resp)
}
