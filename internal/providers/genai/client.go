// Package genai is a lightweight facade over the Gemini REST API covering
// the three endpoint families the pipeline needs: text generation (optionally
// schema-constrained JSON), image generation with inline reference images,
// and long-running video operations.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"brandforge/internal/infra"
)

// ErrNoPayload is returned when the service answered successfully but the
// response carried no usable media part.
var ErrNoPayload = errors.New("genai: response carried no payload")

// Options controls how the client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	VideoModel string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client issues requests against the Gemini API. Safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	videoModel string
	httpClient *http.Client
	logger     *infra.Logger
}

// Image is an inline image exchanged with the model in either direction.
type Image struct {
	Data []byte
	MIME string
}

// TextRequest describes a text-generation call. When Schema is set the model
// is constrained to JSON output matching it.
type TextRequest struct {
	System      string
	Prompt      string
	Images      []Image
	Schema      json.RawMessage
	Temperature float64
}

// ImageRequest describes an image-generation or image-edit call. References
// are sent as inline side-channel images ahead of the prompt text.
type ImageRequest struct {
	Prompt     string
	References []Image
}

// VideoJobRequest describes a long-running video generation submission.
type VideoJobRequest struct {
	Prompt      string
	Image       *Image
	AspectRatio string
	Resolution  string
	Count       int
}

// NewClient constructs a client with sane defaults. Callers may provide a
// nil HTTP client; a reusable one with a generous timeout will be created.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	videoModel := strings.TrimSpace(opts.VideoModel)
	if videoModel == "" {
		videoModel = "veo-3.0-generate-001"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		textModel:  textModel,
		imageModel: imageModel,
		videoModel: videoModel,
		httpClient: client,
		logger:     logger,
	}
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts,omitempty"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type generationConfig struct {
	Temperature        float64         `json:"temperature,omitempty"`
	CandidateCount     int             `json:"candidateCount,omitempty"`
	ResponseMimeType   string          `json:"responseMimeType,omitempty"`
	ResponseSchema     json.RawMessage `json:"responseSchema,omitempty"`
	ResponseModalities []string        `json:"responseModalities,omitempty"`
}

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Status  string `json:"status,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// GenerateText runs a text call against the text model and returns the first
// non-empty text part.
func (c *Client) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	payload := generateContentRequest{
		Contents: []content{{Role: "user", Parts: buildParts(req.Prompt, req.Images)}},
	}
	if strings.TrimSpace(req.System) != "" {
		payload.SystemInstruction = &content{Role: "user", Parts: []part{{Text: req.System}}}
	}
	cfg := &generationConfig{Temperature: req.Temperature, CandidateCount: 1}
	if len(req.Schema) > 0 {
		cfg.ResponseMimeType = "application/json"
		cfg.ResponseSchema = req.Schema
	}
	payload.GenerationConfig = cfg

	var resp generateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.textModel))
	if err := c.invoke(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return "", err
	}
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text, nil
			}
		}
	}
	return "", ErrNoPayload
}

// GenerateImage runs an image call against the image model and returns the
// first inline image part. ErrNoPayload means the service completed without
// producing an image; callers map that to their own failure taxonomy.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	payload := generateContentRequest{
		Contents: []content{{Role: "user", Parts: buildParts(req.Prompt, req.References)}},
		GenerationConfig: &generationConfig{
			CandidateCount:     1,
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	var resp generateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.imageModel))
	if err := c.invoke(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return nil, err
	}
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode inline data: %w", err)
			}
			mime := p.InlineData.MimeType
			if mime == "" {
				mime = "image/png"
			}
			return &Image{Data: data, MIME: mime}, nil
		}
	}
	return nil, ErrNoPayload
}

func buildParts(prompt string, images []Image) []part {
	parts := make([]part, 0, len(images)+1)
	for _, img := range images {
		if len(img.Data) == 0 {
			continue
		}
		mime := img.MIME
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: mime,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		}})
	}
	parts = append(parts, part{Text: prompt})
	return parts
}

func (c *Client) invoke(ctx context.Context, method, path string, payload any, out any) error {
	endpoint := c.baseURL + path
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}
