package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sergedenimes/denim-atelier-be/internal/core/catalog"
	"github.com/sergedenimes/denim-atelier-be/internal/core/prompt"
	"github.com/sergedenimes/denim-atelier-be/internal/shared/utils"
)

const defaultBaseURL = "https://api.openai.com/v1"

// sensitiveTerms and realismTerms feed the safety-rejection fallback: the
// same creative prompt can trip content filters unpredictably depending on
// phrasing, and resubmitting with fewer trigger words recovers many false
// positives.
var (
	sensitiveTerms = regexp.MustCompile(`(?i)person|body|skin|face|human|nude|naked|weapon`)
	realismTerms   = regexp.MustCompile(`(?i)photorealistic|hyper-?realistic`)
)

// OpenAIProvider implements Provider against the OpenAI API.
type OpenAIProvider struct {
	client      *openai.Client
	httpClient  *http.Client
	editClient  *http.Client
	apiKey      string
	baseURL     string
	detectModel string
	imageModel  string
}

// NewOpenAIProvider creates the adapter. The HTTP timeout covers a single
// provider call; callers bound the whole operation with their own context.
func NewOpenAIProvider(apiKey, detectModel, imageModel string) *OpenAIProvider {
	return NewOpenAIProviderWithBaseURL(apiKey, detectModel, imageModel, defaultBaseURL)
}

// NewOpenAIProviderWithBaseURL points the adapter at a different API root.
// Tests use it to stand in a local server for both endpoints.
func NewOpenAIProviderWithBaseURL(apiKey, detectModel, imageModel, baseURL string) *OpenAIProvider {
	if detectModel == "" {
		detectModel = "gpt-4o"
	}
	if imageModel == "" {
		imageModel = "gpt-image-1"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(cfg),
		httpClient:  &http.Client{},
		editClient:  &http.Client{Timeout: 120 * time.Second},
		apiKey:      apiKey,
		baseURL:     baseURL,
		detectModel: detectModel,
		imageModel:  imageModel,
	}
}

func (p *OpenAIProvider) GetProviderName() string {
	return "OpenAI"
}

// DetectGarment downloads the photo, hands it to the vision model and parses
// the strict-JSON classification.
func (p *OpenAIProvider) DetectGarment(ctx context.Context, imageURL string) (*DetectionResult, error) {
	data, err := fetchImageBytes(ctx, p.httpClient, imageURL)
	if err != nil {
		return nil, err
	}

	mimeType := "image/jpeg"
	if strings.HasSuffix(strings.ToLower(imageURL), ".png") {
		mimeType = "image/png"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.detectModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.DetectionPrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens: 500,
	})
	if err != nil {
		return nil, fmt.Errorf("openai detection error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no detection response from AI")
	}

	content := resp.Choices[0].Message.Content

	var result DetectionResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("malformed detection response: %w", err)
	}
	if _, err := catalog.ParseCategory(string(result.Category)); err != nil {
		return nil, fmt.Errorf("malformed detection response: %w", err)
	}
	if result.Description == "" {
		return nil, fmt.Errorf("malformed detection response: missing description")
	}
	result.Raw = json.RawMessage(content)

	return &result, nil
}

// imagePart is one input image held as bytes. Holding bytes rather than a
// reader lets the safety-fallback retry rebuild the multipart body; a shared
// reader would already be drained after the first attempt.
type imagePart struct {
	filename    string
	contentType string
	data        []byte
}

// GenerateImage composes the 1-3 input images in their contract order and
// submits the edit. A content-safety rejection gets exactly one retry with a
// simplified prompt; any other failure is surfaced as-is.
func (p *OpenAIProvider) GenerateImage(ctx context.Context, params GenerationParams) (*GenerationResult, error) {
	parts := make([]imagePart, 0, 3)

	garment, err := fetchImageBytes(ctx, p.httpClient, params.GarmentImageURL)
	if err != nil {
		return nil, err
	}
	parts = append(parts, imagePart{filename: "clothing.jpg", contentType: "image/jpeg", data: garment})

	if params.CustomReferenceURL != "" {
		ref, err := fetchImageBytes(ctx, p.httpClient, params.CustomReferenceURL)
		if err != nil {
			return nil, err
		}
		parts = append(parts, imagePart{filename: "reference.jpg", contentType: "image/jpeg", data: ref})
	}

	if params.PreviousDesignURL != "" {
		prev, err := fetchImageBytes(ctx, p.httpClient, params.PreviousDesignURL)
		if err != nil {
			return nil, err
		}
		parts = append(parts, imagePart{filename: "previous.png", contentType: "image/png", data: prev})
	}

	result, err := p.editImage(ctx, parts, params.Prompt)
	if err == nil {
		return result, nil
	}
	if !isSafetyRejection(err) {
		return nil, err
	}

	utils.LogWarn("safety filter triggered, retrying with simplified prompt", nil)
	return p.editImage(ctx, parts, simplifyPrompt(params.Prompt))
}

// editImage submits the images-edit request with the multipart body built by
// hand: every input image rides as its own image[] part, in the positional
// order the prompt refers to. The client library's edit request carries a
// single image, which cannot express this call.
func (p *OpenAIProvider) editImage(ctx context.Context, parts []imagePart, promptText string) (*GenerationResult, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	for _, img := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image[]"; filename=%q`, img.filename))
		header.Set("Content-Type", img.contentType)
		fw, err := form.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(img.data); err != nil {
			return nil, err
		}
	}

	if err := form.WriteField("model", p.imageModel); err != nil {
		return nil, err
	}
	if err := form.WriteField("prompt", promptText); err != nil {
		return nil, err
	}
	if err := form.WriteField("n", "1"); err != nil {
		return nil, err
	}
	if err := form.WriteField("size", "1024x1024"); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/images/edits", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.editClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai image edit error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai image edit error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error *openai.APIError `json:"error"`
		}
		if jsonErr := json.Unmarshal(raw, &failure); jsonErr == nil && failure.Error != nil {
			failure.Error.HTTPStatusCode = resp.StatusCode
			return nil, fmt.Errorf("openai image edit error: %w", failure.Error)
		}
		return nil, fmt.Errorf("openai image edit error: HTTP %d", resp.StatusCode)
	}

	var out struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("malformed image edit response: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("no image generated")
	}

	data, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}

	return &GenerationResult{Image: data}, nil
}

// simplifyPrompt strips the terms that most often trip content filters and
// softens the photorealism language.
func simplifyPrompt(s string) string {
	s = sensitiveTerms.ReplaceAllString(s, "")
	s = realismTerms.ReplaceAllString(s, "product image")
	return s
}

// isSafetyRejection matches the provider's content-safety errors by status
// code and message text.
func isSafetyRejection(err error) bool {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.HTTPStatusCode != http.StatusBadRequest {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "safety") || strings.Contains(msg, "rejected")
}
