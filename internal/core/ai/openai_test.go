package ai

import (
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestSimplifyPromptStripsSensitiveTerms(t *testing.T) {
	in := "A photorealistic jacket worn on a person's body with visible skin"
	out := simplifyPrompt(in)

	assert.NotContains(t, out, "person")
	assert.NotContains(t, out, "body")
	assert.NotContains(t, out, "skin")
	assert.NotContains(t, out, "photorealistic")
	assert.Contains(t, out, "product image")
	assert.Contains(t, out, "jacket")
}

func TestSimplifyPromptLeavesCleanTextAlone(t *testing.T) {
	in := "Add embroidered flowers along the collar of the denim jacket"
	assert.Equal(t, in, simplifyPrompt(in))
}

func TestIsSafetyRejection(t *testing.T) {
	safety := &openai.APIError{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        "Your request was rejected by the safety system",
	}
	assert.True(t, isSafetyRejection(safety))

	rateLimited := &openai.APIError{
		HTTPStatusCode: http.StatusTooManyRequests,
		Message:        "rate limit exceeded",
	}
	assert.False(t, isSafetyRejection(rateLimited))

	badRequest := &openai.APIError{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        "invalid image format",
	}
	assert.False(t, isSafetyRejection(badRequest))

	assert.False(t, isSafetyRejection(errors.New("connection reset")))
	assert.False(t, isSafetyRejection(nil))
}
