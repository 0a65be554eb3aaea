package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// 客户端级错误
var (
	ErrMissingAPIKey  = errors.New("gemini api key is not configured")
	ErrEmptyResponse  = errors.New("gemini response contains no usable text")
	ErrRequestFailed  = errors.New("gemini request failed")
	ErrInvalidPayload = errors.New("gemini response payload is invalid")
)

const (
	// DefaultBaseURL Google 生成式语言服务默认地址
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	generateTimeout  = 30 * time.Second
	discoveryTimeout = 15 * time.Second
)

// Config Gemini 客户端配置
type Config struct {
	APIKey  string
	BaseURL string
}

// Client Gemini REST 客户端
// 说明：仅封装传输与解析，模型选择策略由上层决定。
type Client struct {
	apiKey          string
	baseURL         string
	generateClient  *http.Client
	discoveryClient *http.Client
}

// NewClient 创建 Gemini 客户端
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:          strings.TrimSpace(cfg.APIKey),
		baseURL:         baseURL,
		generateClient:  &http.Client{Timeout: generateTimeout},
		discoveryClient: &http.Client{Timeout: discoveryTimeout},
	}
}

// Configured 是否配置了 API Key
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type listModelsResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

// GenerateContent 调用指定版本与模型生成文本
func (c *Client) GenerateContent(ctx context.Context, version, model, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrMissingAPIKey
	}

	payload := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 500,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		c.baseURL, version, model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.generateClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s/%s: %v", ErrRequestFailed, version, model, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s/%s: HTTP %d: %s",
			ErrRequestFailed, version, model, resp.StatusCode, extractErrorMessage(raw))
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %s/%s: %v", ErrInvalidPayload, version, model, err)
	}

	text, ok := extractText(parsed)
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrEmptyResponse, version, model)
	}
	return text, nil
}

// ListModels 枚举支持 generateContent 的可用模型
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}

	endpoint := fmt.Sprintf("%s/v1/models?key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build list models request: %w", err)
	}

	resp, err := c.discoveryClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list models: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read list models response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list models: HTTP %d: %s",
			ErrRequestFailed, resp.StatusCode, extractErrorMessage(raw))
	}

	var parsed listModelsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: list models: %v", ErrInvalidPayload, err)
	}

	names := make([]string, 0, len(parsed.Models))
	for _, model := range parsed.Models {
		if !supportsGenerateContent(model.SupportedGenerationMethods) {
			continue
		}
		name := strings.TrimPrefix(model.Name, "models/")
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func supportsGenerateContent(methods []string) bool {
	for _, method := range methods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

// extractText 取首个候选的文本；多段时拼接非空段
func extractText(resp generateResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", false
	}
	if len(parts) == 1 {
		text := parts[0].Text
		if strings.TrimSpace(text) == "" {
			return "", false
		}
		return text, true
	}
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		segments = append(segments, p.Text)
	}
	if len(segments) == 0 {
		return "", false
	}
	return strings.Join(segments, "\n"), true
}

// extractErrorMessage 从响应体提取错误描述，失败时退回原始片段
func extractErrorMessage(raw []byte) string {
	var wrapper struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Error != nil && wrapper.Error.Message != "" {
		return wrapper.Error.Message
	}
	snippet := strings.TrimSpace(string(raw))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	if snippet == "" {
		return "empty response body"
	}
	return snippet
}
