package onchain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Canonical address form: "0x" plus 32 bytes of hex.
const addressLength = 66

var errNoCoinMetadata = errors.New("coin metadata lookup returned no result")

// ValidationError reports an invalid address or coin type. The message is
// deliberately generic and stable; the underlying cause stays reachable
// through Unwrap for logging.
type ValidationError struct {
	msg   string
	cause error
}

func (e *ValidationError) Error() string { return e.msg }

func (e *ValidationError) Unwrap() error { return e.cause }

// ValidateAddress checks the canonical 0x-prefixed address form. It is a
// pure string check and performs no network I/O.
func ValidateAddress(address string) error {
	if !strings.HasPrefix(address, "0x") || len(address) != addressLength {
		return &ValidationError{msg: fmt.Sprintf("invalid address: %s", address)}
	}
	return nil
}

// Validator performs remote coin type checks through a shared RPC client.
type Validator struct {
	reader CoinReader
	logger *zap.SugaredLogger
}

func NewValidator(reader CoinReader, logger *zap.SugaredLogger) *Validator {
	return &Validator{
		reader: reader,
		logger: logger,
	}
}

// ValidateCoinType looks the coin type up on the node. A failed lookup and
// an empty result produce the same external message; the distinct cause is
// logged and kept on the returned error.
func (v *Validator) ValidateCoinType(ctx context.Context, coinType string) error {
	meta, err := v.reader.GetCoinMetadata(ctx, coinType)
	if err != nil {
		v.logger.Debugw("coin metadata lookup failed", "coin_type", coinType, "error", err)
		return &ValidationError{
			msg:   fmt.Sprintf("not a valid coin type: %s", coinType),
			cause: err,
		}
	}
	if meta == nil {
		v.logger.Debugw("coin metadata lookup returned nothing", "coin_type", coinType)
		return &ValidationError{
			msg:   fmt.Sprintf("not a valid coin type: %s", coinType),
			cause: errNoCoinMetadata,
		}
	}
	return nil
}
