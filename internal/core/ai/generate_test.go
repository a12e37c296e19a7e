package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var editImagePayloads = map[string][]byte{
	"/img/garment.jpg":   []byte("garment-photo-bytes"),
	"/img/reference.jpg": []byte("reference-image"),
	"/img/previous.png":  []byte("previous-design-output"),
}

type recordedPart struct {
	filename string
	size     int
}

type recordedEdit struct {
	prompt string
	auth   string
	images []recordedPart
}

// newEditServer serves the input images and records every images-edit
// submission. With rejectFirst set, the first edit fails with a
// content-safety error so the fallback path runs.
func newEditServer(t *testing.T, rejectFirst bool) (*httptest.Server, *[]recordedEdit) {
	t.Helper()
	calls := &[]recordedEdit{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if payload, ok := editImagePayloads[r.URL.Path]; ok {
			w.Write(payload)
			return
		}
		if r.URL.Path != "/images/edits" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		require.NoError(t, r.ParseMultipartForm(32<<20))
		call := recordedEdit{
			prompt: r.FormValue("prompt"),
			auth:   r.Header.Get("Authorization"),
		}
		for _, fh := range r.MultipartForm.File["image[]"] {
			f, err := fh.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(f)
			f.Close()
			require.NoError(t, err)
			call.images = append(call.images, recordedPart{filename: fh.Filename, size: len(data)})
		}
		*calls = append(*calls, call)

		if rejectFirst && len(*calls) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"message": "Your request was rejected by the safety system",
					"type":    "invalid_request_error",
				},
			})
			return
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"b64_json": base64.StdEncoding.EncodeToString([]byte("generated-png"))},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestGenerateImageComposesImagesInOrder(t *testing.T) {
	srv, calls := newEditServer(t, false)
	provider := NewOpenAIProviderWithBaseURL("test-key", "", "", srv.URL)

	result, err := provider.GenerateImage(context.Background(), GenerationParams{
		GarmentImageURL:    srv.URL + "/img/garment.jpg",
		CustomReferenceURL: srv.URL + "/img/reference.jpg",
		PreviousDesignURL:  srv.URL + "/img/previous.png",
		Prompt:             "add embroidered flowers along the collar",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("generated-png"), result.Image)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "add embroidered flowers along the collar", call.prompt)
	assert.Equal(t, "Bearer test-key", call.auth)

	// Garment first, reference second, previous last: the prompt refers to
	// the images positionally.
	require.Len(t, call.images, 3)
	assert.Equal(t, "clothing.jpg", call.images[0].filename)
	assert.Equal(t, "reference.jpg", call.images[1].filename)
	assert.Equal(t, "previous.png", call.images[2].filename)
	assert.Equal(t, len(editImagePayloads["/img/garment.jpg"]), call.images[0].size)
	assert.Equal(t, len(editImagePayloads["/img/reference.jpg"]), call.images[1].size)
	assert.Equal(t, len(editImagePayloads["/img/previous.png"]), call.images[2].size)
}

func TestGenerateImageGarmentOnly(t *testing.T) {
	srv, calls := newEditServer(t, false)
	provider := NewOpenAIProviderWithBaseURL("test-key", "", "", srv.URL)

	_, err := provider.GenerateImage(context.Background(), GenerationParams{
		GarmentImageURL: srv.URL + "/img/garment.jpg",
		Prompt:          "patches across the back panel",
	})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	require.Len(t, (*calls)[0].images, 1)
	assert.Equal(t, "clothing.jpg", (*calls)[0].images[0].filename)
}

func TestGenerateImageSafetyFallbackResendsFullImages(t *testing.T) {
	srv, calls := newEditServer(t, true)
	provider := NewOpenAIProviderWithBaseURL("test-key", "", "", srv.URL)

	result, err := provider.GenerateImage(context.Background(), GenerationParams{
		GarmentImageURL:    srv.URL + "/img/garment.jpg",
		CustomReferenceURL: srv.URL + "/img/reference.jpg",
		Prompt:             "a photorealistic jacket on a person",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("generated-png"), result.Image)

	require.Len(t, *calls, 2)
	first, retry := (*calls)[0], (*calls)[1]

	// The retry must carry the same full image payloads, not drained readers.
	require.Len(t, retry.images, 2)
	for i := range first.images {
		assert.Equal(t, first.images[i].filename, retry.images[i].filename)
		assert.Equal(t, first.images[i].size, retry.images[i].size)
		assert.Positive(t, retry.images[i].size)
	}

	assert.NotContains(t, retry.prompt, "person")
	assert.NotContains(t, retry.prompt, "photorealistic")
	assert.Contains(t, retry.prompt, "product image")
}

func TestGenerateImageSurfacesNonSafetyErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/img/garment.jpg" {
			w.Write([]byte("garment"))
			return
		}
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"server overloaded","type":"server_error"}}`)
	}))
	defer srv.Close()

	provider := NewOpenAIProviderWithBaseURL("test-key", "", "", srv.URL)
	_, err := provider.GenerateImage(context.Background(), GenerationParams{
		GarmentImageURL: srv.URL + "/img/garment.jpg",
		Prompt:          "patches",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server overloaded")
	assert.Equal(t, 1, calls, "non-safety failures get no retry")
}
