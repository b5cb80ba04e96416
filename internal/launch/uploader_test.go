package launch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testImage = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00}

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(testImage)
	}))
}

func TestUploader_Upload_Success(t *testing.T) {
	imageSrv := newImageServer(t)
	defer imageSrv.Close()

	type received struct {
		fields   map[string]string
		filename string
		file     []byte
	}
	var got received

	uploadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		got.fields = make(map[string]string)
		for key, values := range r.MultipartForm.Value {
			got.fields[key] = values[0]
		}

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		got.filename = header.Filename
		got.file, err = io.ReadAll(file)
		require.NoError(t, err)

		json.NewEncoder(w).Encode(map[string]any{
			"metadata":    map[string]string{"name": "Test Token", "symbol": "TEST"},
			"metadataUri": "ipfs://QmTest",
		})
	}))
	defer uploadSrv.Close()

	uploader, err := NewUploader(uploadSrv.URL, "", zap.NewNop().Sugar())
	require.NoError(t, err)

	result, err := uploader.Upload(context.Background(), TokenMetadata{
		Name:        "Test Token",
		Symbol:      "TEST",
		Description: "a test token",
		ImageURL:    imageSrv.URL,
		Twitter:     "https://x.com/test",
	})
	require.NoError(t, err)

	assert.Equal(t, "Test Token", result.Metadata.Name)
	assert.Equal(t, "TEST", result.Metadata.Symbol)
	assert.Equal(t, "ipfs://QmTest", result.MetadataURI)

	assert.Equal(t, "Test Token", got.fields["name"])
	assert.Equal(t, "TEST", got.fields["symbol"])
	assert.Equal(t, "a test token", got.fields["description"])
	assert.Equal(t, "true", got.fields["showName"])
	assert.Equal(t, "https://x.com/test", got.fields["twitter"])
	assert.NotContains(t, got.fields, "telegram")
	assert.NotContains(t, got.fields, "website")
	assert.Equal(t, "token.png", got.filename)
	assert.Equal(t, testImage, got.file)
}

func TestUploader_Upload_ImageFetchFailsBeforePost(t *testing.T) {
	var uploadHits atomic.Int32
	uploadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploadHits.Add(1)
	}))
	defer uploadSrv.Close()

	// A server that is already closed stands in for an unreachable image host.
	deadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := deadSrv.URL
	deadSrv.Close()

	uploader, err := NewUploader(uploadSrv.URL, "", zap.NewNop().Sugar())
	require.NoError(t, err)

	_, err = uploader.Upload(context.Background(), TokenMetadata{
		Name:        "T",
		Symbol:      "T",
		Description: "t",
		ImageURL:    deadURL,
	})
	require.Error(t, err)

	var fetchErr *ImageFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, deadURL, fetchErr.URL)
	assert.Equal(t, int32(0), uploadHits.Load(), "metadata endpoint must not be called when the image fetch fails")
}

func TestUploader_Upload_ImageNotFound(t *testing.T) {
	imageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer imageSrv.Close()

	uploader, err := NewUploader("http://unused.invalid", "", zap.NewNop().Sugar())
	require.NoError(t, err)

	_, err = uploader.Upload(context.Background(), TokenMetadata{ImageURL: imageSrv.URL})
	var fetchErr *ImageFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestUploader_Upload_NonSuccessStatus(t *testing.T) {
	imageSrv := newImageServer(t)
	defer imageSrv.Close()

	uploadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer uploadSrv.Close()

	uploader, err := NewUploader(uploadSrv.URL, "", zap.NewNop().Sugar())
	require.NoError(t, err)

	_, err = uploader.Upload(context.Background(), TokenMetadata{
		Name:        "T",
		Symbol:      "T",
		Description: "t",
		ImageURL:    imageSrv.URL,
	})
	require.Error(t, err)

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Contains(t, err.Error(), "403 Forbidden")
}

func TestNewUploader_BadProxyURL(t *testing.T) {
	_, err := NewUploader("http://example.invalid", "://not-a-url", zap.NewNop().Sugar())
	assert.Error(t, err)
}
