package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nexify/nexify-api/internal/config"
)

type fakeProvider struct {
	models       []string
	listErr      error
	responses    map[string]string // "version/model" -> text
	failWith     error
	calls        []string
	generateHits int
}

func (p *fakeProvider) Configured() bool { return true }

func (p *fakeProvider) ListModels(ctx context.Context) ([]string, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.models, nil
}

func (p *fakeProvider) GenerateContent(ctx context.Context, version, model, prompt string) (string, error) {
	p.generateHits++
	label := fmt.Sprintf("%s/%s", version, model)
	p.calls = append(p.calls, label)
	if text, ok := p.responses[label]; ok {
		return text, nil
	}
	if p.failWith != nil {
		return "", p.failWith
	}
	return "", errors.New("no response configured for " + label)
}

func newChatbotTestConfig(mode string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: mode},
	}
}

func TestChatbotLadderFallsThroughToWorkingModel(t *testing.T) {
	provider := &fakeProvider{
		models: []string{"gemini-2.5-flash", "gemini-2.5-pro"},
		responses: map[string]string{
			"v1beta/gemini-2.5-pro": "  Here is your ROI analysis.  ",
		},
	}
	svc := NewChatbotService(newChatbotTestConfig("debug"), provider, nil)

	response := svc.GenerateResponse(context.Background(), "How is my ROI?", nil)
	if response != "Here is your ROI analysis." {
		t.Fatalf("unexpected response: %q", response)
	}

	want := []string{
		"v1/gemini-2.5-flash",
		"v1beta/gemini-2.5-flash",
		"v1/gemini-2.5-pro",
		"v1beta/gemini-2.5-pro",
	}
	if len(provider.calls) != len(want) {
		t.Fatalf("unexpected call sequence: %v", provider.calls)
	}
	for i, label := range want {
		if provider.calls[i] != label {
			t.Fatalf("call %d want %s got %s", i, label, provider.calls[i])
		}
	}
}

func TestChatbotDiscoveryFailureUsesPreferredList(t *testing.T) {
	provider := &fakeProvider{
		listErr: errors.New("discovery down"),
		responses: map[string]string{
			"v1/gemini-2.5-flash": "ok",
		},
	}
	svc := NewChatbotService(newChatbotTestConfig("debug"), provider, nil)

	response := svc.GenerateResponse(context.Background(), "hello", nil)
	if response != "ok" {
		t.Fatalf("unexpected response: %q", response)
	}
	if provider.calls[0] != "v1/gemini-2.5-flash" {
		t.Fatalf("unexpected first call: %v", provider.calls)
	}
}

func TestChatbotAllEndpointsFailWithContext(t *testing.T) {
	provider := &fakeProvider{
		models:   []string{"gemini-2.5-flash"},
		failWith: errors.New("HTTP 503: upstream down"),
	}
	svc := NewChatbotService(newChatbotTestConfig("debug"), provider, nil)

	campaignContext := &CampaignContext{
		CampaignID: 7,
		Name:       "Holiday Blast",
		Budget:     12500.5,
		ROICalculation: CampaignContextROI{
			ROIPercentage: 42.3,
		},
	}

	response := svc.GenerateResponse(context.Background(), "status?", campaignContext)
	if !strings.Contains(response, "**Holiday Blast**") {
		t.Fatalf("fallback should cite campaign name: %q", response)
	}
	if !strings.Contains(response, "Budget: $12,500.50") {
		t.Fatalf("fallback should format budget with grouping: %q", response)
	}
	if !strings.Contains(response, "ROI: 42.30%") {
		t.Fatalf("fallback should include roi: %q", response)
	}
	if !strings.Contains(response, "(AI error: All Gemini endpoints failed: HTTP 503: upstream down)") {
		t.Fatalf("debug mode should append error detail: %q", response)
	}
}

func TestChatbotReleaseModeHidesErrorDetail(t *testing.T) {
	provider := &fakeProvider{
		models:   []string{"gemini-2.5-flash"},
		failWith: errors.New("HTTP 503"),
	}
	svc := NewChatbotService(newChatbotTestConfig("release"), provider, nil)

	response := svc.GenerateResponse(context.Background(), "status?", nil)
	if strings.Contains(response, "AI error") {
		t.Fatalf("release mode should hide error detail: %q", response)
	}
	if !strings.Contains(response, "unable to process your request") {
		t.Fatalf("unexpected fallback response: %q", response)
	}
}

func TestChatbotCachesSuccessfulResponse(t *testing.T) {
	enableTestRedis(t)
	provider := &fakeProvider{
		models: []string{"gemini-2.5-flash"},
		responses: map[string]string{
			"v1/gemini-2.5-flash": "cached answer",
		},
	}
	svc := NewChatbotService(newChatbotTestConfig("debug"), provider, nil)

	ctx := context.Background()
	if got := svc.GenerateResponse(ctx, "same question", nil); got != "cached answer" {
		t.Fatalf("unexpected response: %q", got)
	}
	hitsAfterFirst := provider.generateHits

	if got := svc.GenerateResponse(ctx, "same question", nil); got != "cached answer" {
		t.Fatalf("unexpected cached response: %q", got)
	}
	if provider.generateHits != hitsAfterFirst {
		t.Fatalf("second call should be served from cache, hits=%d", provider.generateHits)
	}

	// 不同活动上下文使用独立缓存键
	other := &CampaignContext{CampaignID: 3, Name: "Other"}
	if got := svc.GenerateResponse(ctx, "same question", other); got != "cached answer" {
		t.Fatalf("unexpected response: %q", got)
	}
	if provider.generateHits == hitsAfterFirst {
		t.Fatal("different campaign should bypass the cached entry")
	}
}

func TestChatbotPromptIncludesContext(t *testing.T) {
	campaignContext := &CampaignContext{
		CampaignID: 9,
		Name:       "Spring Promo",
		Budget:     800,
		Status:     "active",
	}

	prompt := buildPrompt("What should I improve?", campaignContext)
	if !strings.Contains(prompt, "advertising campaign management and ROI analysis") {
		t.Fatalf("prompt missing system preamble: %q", prompt)
	}
	if !strings.Contains(prompt, `"name": "Spring Promo"`) {
		t.Fatalf("prompt missing campaign data: %q", prompt)
	}
	if !strings.Contains(prompt, "User query: What should I improve?") {
		t.Fatalf("prompt missing user query: %q", prompt)
	}

	bare := buildPrompt("Hi", nil)
	if strings.Contains(bare, "campaign data") {
		t.Fatalf("bare prompt should not mention campaign data: %q", bare)
	}
}

func TestOrderCandidateModels(t *testing.T) {
	ordered := orderCandidateModels([]string{"gemini-exp-1114", "gemini-1.5-pro", "gemini-2.5-flash"})
	want := []string{"gemini-2.5-flash", "gemini-1.5-pro", "gemini-exp-1114"}
	if len(ordered) != len(want) {
		t.Fatalf("unexpected ordering: %v", ordered)
	}
	for i, model := range want {
		if ordered[i] != model {
			t.Fatalf("position %d want %s got %s", i, model, ordered[i])
		}
	}

	if fallback := orderCandidateModels(nil); len(fallback) != len(preferredModels) {
		t.Fatalf("empty discovery should fall back to preferred list: %v", fallback)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:          "0.00",
		42.3:       "42.30",
		1234.5:     "1,234.50",
		12345.678:  "12,345.68",
		1234567.89: "1,234,567.89",
		-9876.54:   "-9,876.54",
	}
	for input, want := range cases {
		if got := formatAmount(input); got != want {
			t.Fatalf("formatAmount(%v) want %s got %s", input, want, got)
		}
	}
}
