package launch

import "fmt"

// ImageFetchError reports a failure to retrieve the token image. It is
// returned before any metadata is sent upstream.
type ImageFetchError struct {
	URL string
	Err error
}

func (e *ImageFetchError) Error() string {
	return fmt.Sprintf("failed to fetch token image %s: %v", e.URL, e.Err)
}

func (e *ImageFetchError) Unwrap() error { return e.Err }

// UploadError reports a non-success response from the metadata endpoint.
type UploadError struct {
	Status string // HTTP status line, e.g. "403 Forbidden"
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("metadata upload failed: %s", e.Status)
}

// TradeRequestError reports a non-success response from the trade endpoint.
// SimLogs carries on-chain simulation logs when the response body includes
// them.
type TradeRequestError struct {
	StatusCode int
	Body       string
	SimLogs    []string
}

func (e *TradeRequestError) Error() string {
	return fmt.Sprintf("trade request failed with status %d: %s", e.StatusCode, e.Body)
}

// DeserializationError reports malformed transaction bytes from the trade
// endpoint.
type DeserializationError struct {
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to deserialize transaction: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }
