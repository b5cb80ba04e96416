package launch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// TokenMetadata describes the token being created. Name, Symbol, Description
// and ImageURL are required; the social links are optional and omitted from
// the upload when empty.
type TokenMetadata struct {
	Name        string
	Symbol      string
	Description string
	ImageURL    string
	Twitter     string
	Telegram    string
	Website     string
}

// UploadResult is the metadata endpoint response. Field presence is not
// guaranteed by the endpoint; callers validate before use.
type UploadResult struct {
	Metadata struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"metadata"`
	MetadataURI string `json:"metadataUri"`
}

// Uploader pushes token metadata plus image bytes to the IPFS-backed
// metadata endpoint as a single multipart form submission.
type Uploader struct {
	endpoint    string
	client      *http.Client // upload POST; proxy-aware when configured
	imageClient *http.Client // image fetch; never proxied
	logger      *zap.SugaredLogger
}

// NewUploader creates an uploader for the given metadata endpoint. proxyURL,
// when non-empty, routes the upload request only.
func NewUploader(endpoint, proxyURL string, logger *zap.SugaredLogger) (*Uploader, error) {
	client := &http.Client{}
	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse proxy URL: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
	}

	return &Uploader{
		endpoint:    endpoint,
		client:      client,
		imageClient: &http.Client{},
		logger:      logger,
	}, nil
}

// Upload fetches the token image and posts it with the text fields to the
// metadata endpoint. The image fetch happens first: if it fails, nothing is
// sent upstream.
func (u *Uploader) Upload(ctx context.Context, meta TokenMetadata) (*UploadResult, error) {
	image, err := u.fetchImage(ctx, meta.ImageURL)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := []struct {
		key      string
		value    string
		optional bool
	}{
		{"name", meta.Name, false},
		{"symbol", meta.Symbol, false},
		{"description", meta.Description, false},
		{"showName", "true", false},
		{"twitter", meta.Twitter, true},
		{"telegram", meta.Telegram, true},
		{"website", meta.Website, true},
	}
	for _, f := range fields {
		if f.optional && f.value == "" {
			continue
		}
		if err := form.WriteField(f.key, f.value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", f.key, err)
		}
	}

	file, err := form.CreateFormFile("file", "token.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create image form part: %w", err)
	}
	if _, err := file.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image bytes: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach metadata endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UploadError{Status: resp.Status}
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode metadata response: %w", err)
	}

	u.logger.Debugw("metadata uploaded",
		"name", result.Metadata.Name,
		"symbol", result.Metadata.Symbol,
		"uri", result.MetadataURI,
	)

	return &result, nil
}

func (u *Uploader) fetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, &ImageFetchError{URL: imageURL, Err: err}
	}

	resp, err := u.imageClient.Do(req)
	if err != nil {
		return nil, &ImageFetchError{URL: imageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ImageFetchError{URL: imageURL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ImageFetchError{URL: imageURL, Err: err}
	}

	return image, nil
}
