package launch

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Request carries everything needed to launch a token. UserPublicKey is the
// base58 wallet address that will pay for and later co-sign the creation
// transaction.
type Request struct {
	UserPublicKey string
	TokenName     string
	TokenTicker   string
	Description   string
	ImageURL      string
	Options       Options
}

// Result is a successful launch: the partially signed creation transaction
// (base64 of the serialized bytes, the mint signature applied and the payer
// slot left open) and the mint address it creates.
type Result struct {
	SignedTransaction string
	Mint              string
}

// Launcher sequences a token launch: metadata upload, unsigned transaction
// construction, then local co-signing with a fresh mint keypair. The keypair
// lives for exactly one call and is never persisted.
type Launcher struct {
	uploader *Uploader
	trade    *TradeClient
	logger   *zap.SugaredLogger
}

func NewLauncher(uploader *Uploader, trade *TradeClient, logger *zap.SugaredLogger) *Launcher {
	return &Launcher{
		uploader: uploader,
		trade:    trade,
		logger:   logger,
	}
}

func (l *Launcher) Launch(ctx context.Context, req Request) (*Result, error) {
	mint := solana.NewWallet()

	result, err := l.launch(ctx, req, mint)
	if err != nil {
		l.logger.Errorw("token launch failed",
			"ticker", req.TokenTicker,
			"mint", mint.PublicKey().String(),
			"error", err,
		)
		var tradeErr *TradeRequestError
		if errors.As(err, &tradeErr) && len(tradeErr.SimLogs) > 0 {
			l.logger.Errorw("trade endpoint simulation logs", "logs", tradeErr.SimLogs)
		}
		return nil, err
	}

	l.logger.Infow("token launch transaction ready",
		"ticker", req.TokenTicker,
		"mint", result.Mint,
	)
	return result, nil
}

func (l *Launcher) launch(ctx context.Context, req Request, mint *solana.Wallet) (*Result, error) {
	upload, err := l.uploader.Upload(ctx, TokenMetadata{
		Name:        req.TokenName,
		Symbol:      req.TokenTicker,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Twitter:     req.Options.Twitter,
		Telegram:    req.Options.Telegram,
		Website:     req.Options.Website,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload token metadata: %w", err)
	}
	if upload.Metadata.Name == "" || upload.Metadata.Symbol == "" || upload.MetadataURI == "" {
		return nil, fmt.Errorf("metadata response missing name, symbol or uri")
	}

	raw, err := l.trade.CreateTransaction(ctx, req.UserPublicKey, mint.PublicKey(), upload, req.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to build creation transaction: %w", err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, &DeserializationError{Err: err}
	}

	// Add the mint signature only. Existing signature slots stay untouched;
	// the payer signs client-side after this returns.
	if _, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(mint.PublicKey()) {
			pk := mint.PrivateKey
			return &pk
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to sign transaction with mint key: %w", err)
	}

	if !hasSignature(tx, mint.PublicKey()) {
		return nil, fmt.Errorf("mint signature absent from constructed transaction")
	}

	signed, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize signed transaction: %w", err)
	}

	return &Result{
		SignedTransaction: base64.StdEncoding.EncodeToString(signed),
		Mint:              mint.PublicKey().String(),
	}, nil
}

// hasSignature reports whether key is a required signer with a non-empty
// signature attached.
func hasSignature(tx *solana.Transaction, key solana.PublicKey) bool {
	numSigners := int(tx.Message.Header.NumRequiredSignatures)
	for i, account := range tx.Message.AccountKeys {
		if i >= numSigners {
			break
		}
		if account.Equals(key) {
			return i < len(tx.Signatures) && !tx.Signatures[i].IsZero()
		}
	}
	return false
}
