package service

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nexify/nexify-api/internal/cache"
	"github.com/nexify/nexify-api/internal/config"
	"github.com/nexify/nexify-api/internal/logger"
)

// ModelProvider 文本生成上游抽象
// 说明：模型发现失败按可用列表为空处理，生成失败逐个回退。
type ModelProvider interface {
	Configured() bool
	ListModels(ctx context.Context) ([]string, error)
	GenerateContent(ctx context.Context, version, model, prompt string) (string, error)
}

// preferredModels 候选模型偏好顺序
var preferredModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-1.0-pro",
}

// apiVersions 每个模型依次尝试的 API 版本
var apiVersions = []string{"v1", "v1beta"}

// ChatbotService 聊天机器人响应引擎
type ChatbotService struct {
	cfg      *config.Config
	provider ModelProvider
	builder  *ContextBuilderService
	cacheTTL time.Duration
}

// NewChatbotService 创建聊天机器人服务
func NewChatbotService(cfg *config.Config, provider ModelProvider, builder *ContextBuilderService) *ChatbotService {
	ttl := 600 * time.Second
	if cfg != nil && cfg.Chatbot.ResponseTTLSeconds > 0 {
		ttl = time.Duration(cfg.Chatbot.ResponseTTLSeconds) * time.Second
	}
	if provider != nil && !provider.Configured() {
		logger.Warnw("chatbot_provider_not_configured", "fallback", "canned_response")
	}
	return &ChatbotService{
		cfg:      cfg,
		provider: provider,
		builder:  builder,
		cacheTTL: ttl,
	}
}

// BuildCampaignContext 构建查询关联的活动上下文
func (s *ChatbotService) BuildCampaignContext(ctx context.Context, campaignID uint) *CampaignContext {
	if s.builder == nil {
		return nil
	}
	return s.builder.Build(ctx, campaignID)
}

// responseCacheKey 响应缓存键：查询与活动联合散列
func responseCacheKey(query string, campaignContext *CampaignContext) string {
	campaignPart := "none"
	if campaignContext != nil {
		campaignPart = strconv.FormatUint(uint64(campaignContext.CampaignID), 10)
	}
	digest := md5.Sum([]byte(query + "|" + campaignPart))
	return fmt.Sprintf("chatbot:response:v2:%x", digest)
}

// GenerateResponse 生成聊天响应
// 成功结果按 TTL 缓存；上游全部失败时返回降级响应且不缓存。
func (s *ChatbotService) GenerateResponse(ctx context.Context, query string, campaignContext *CampaignContext) string {
	cacheKey := responseCacheKey(query, campaignContext)

	response, err := cache.Remember(ctx, cacheKey, s.cacheTTL, func() (string, error) {
		prompt := buildPrompt(query, campaignContext)
		return s.callModelLadder(ctx, prompt)
	})
	if err != nil {
		logger.Warnw("chatbot_upstream_failed", "error", err)
		return s.fallbackResponse(campaignContext, err.Error())
	}
	return response
}

// callModelLadder 依偏好顺序尝试模型与版本，返回首个成功结果
func (s *ChatbotService) callModelLadder(ctx context.Context, prompt string) (string, error) {
	available, err := s.provider.ListModels(ctx)
	if err != nil {
		// 发现失败不致命，退回偏好列表
		logger.Debugw("chatbot_model_discovery_failed", "error", err)
		available = nil
	}

	ordered := orderCandidateModels(available)

	var lastErr error
	for _, model := range ordered {
		for _, version := range apiVersions {
			text, err := s.provider.GenerateContent(ctx, version, model, prompt)
			if err != nil {
				lastErr = err
				continue
			}
			return strings.TrimSpace(text), nil
		}
	}

	lastMessage := "No endpoints available"
	if lastErr != nil {
		lastMessage = lastErr.Error()
	}
	return "", fmt.Errorf("All Gemini endpoints failed: %s", lastMessage)
}

// orderCandidateModels 偏好模型优先，其余可用模型追加在后
// 可用列表为空时直接使用偏好列表。
func orderCandidateModels(available []string) []string {
	if len(available) == 0 {
		return preferredModels
	}

	availableSet := make(map[string]struct{}, len(available))
	for _, model := range available {
		availableSet[model] = struct{}{}
	}

	ordered := make([]string, 0, len(available))
	orderedSet := make(map[string]struct{}, len(available))
	for _, model := range preferredModels {
		if _, ok := availableSet[model]; ok {
			ordered = append(ordered, model)
			orderedSet[model] = struct{}{}
		}
	}
	for _, model := range available {
		if _, ok := orderedSet[model]; !ok {
			ordered = append(ordered, model)
			orderedSet[model] = struct{}{}
		}
	}
	return ordered
}

// buildPrompt 组装带活动数据的提示词
func buildPrompt(query string, campaignContext *CampaignContext) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant specializing in advertising campaign management and ROI analysis. ")

	if campaignContext != nil {
		b.WriteString("You have access to the following campaign data:\n")
		if encoded, err := json.MarshalIndent(campaignContext, "", "  "); err == nil {
			b.Write(encoded)
		}
		b.WriteString("\n\n")
		b.WriteString("Use this data to provide personalized, data-driven advice.\n\n")
	}

	b.WriteString("User query: ")
	b.WriteString(query)
	b.WriteString("\n\n")
	b.WriteString("Please provide a helpful, professional response:")
	return b.String()
}

// fallbackResponse 上游不可用时的降级话术
// 非发布模式会附带错误详情便于排查。
func (s *ChatbotService) fallbackResponse(campaignContext *CampaignContext, detail string) string {
	suffix := ""
	if s.cfg == nil || s.cfg.Server.Mode != "release" {
		if detail != "" {
			suffix = " (AI error: " + detail + ")"
		}
	}

	if campaignContext != nil {
		name := campaignContext.Name
		if name == "" {
			name = "your campaign"
		}
		return fmt.Sprintf(
			"I apologize, but I'm currently unable to access the AI service. However, based on your **%s** campaign data (Budget: $%s, ROI: %s%%), I can see you have active performance metrics. Please try your question again in a moment, or contact support if the issue persists.%s",
			name,
			formatAmount(campaignContext.Budget),
			formatAmount(campaignContext.ROICalculation.ROIPercentage),
			suffix,
		)
	}

	return "I apologize, but I'm currently unable to process your request due to a technical issue. Please try again in a moment." + suffix
}

// formatAmount 千分位分组并保留 2 位小数
func formatAmount(v float64) string {
	fixed := strconv.FormatFloat(v, 'f', 2, 64)

	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}

	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	result := b.String() + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}
