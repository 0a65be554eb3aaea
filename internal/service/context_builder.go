package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nexify/nexify-api/internal/cache"
	"github.com/nexify/nexify-api/internal/config"
	"github.com/nexify/nexify-api/internal/logger"
	"github.com/nexify/nexify-api/internal/models"
	"github.com/nexify/nexify-api/internal/repository"

	"github.com/shopspring/decimal"
)

// CampaignContext 供聊天机器人使用的活动快照
type CampaignContext struct {
	CampaignID     uint                  `json:"campaign_id"`
	Name           string                `json:"name"`
	Budget         float64               `json:"budget"`
	Status         string                `json:"status"`
	Affiliates     []string              `json:"affiliates"`
	CurrentMetrics CampaignContextTotals `json:"current_metrics"`
	ROICalculation CampaignContextROI    `json:"roi_calculation"`
}

// CampaignContextTotals 指标按名称关键字归类后的累计值
type CampaignContextTotals struct {
	Clicks      float64 `json:"clicks"`
	Conversions float64 `json:"conversions"`
	Revenue     float64 `json:"revenue"`
	Cost        float64 `json:"cost"`
}

// CampaignContextROI 基于成本口径的 ROI 计算
type CampaignContextROI struct {
	TotalSpent    float64 `json:"total_spent"`
	TotalRevenue  float64 `json:"total_revenue"`
	ROIPercentage float64 `json:"roi_percentage"`
	Status        string  `json:"status"` // profit / loss
}

// campaignContextCacheKey 活动上下文缓存键
func campaignContextCacheKey(campaignID uint) string {
	return fmt.Sprintf("chatbot:context:%d", campaignID)
}

// invalidateCampaignContext 活动或指标变更后失效上下文缓存
func invalidateCampaignContext(ctx context.Context, campaignID uint) {
	if campaignID == 0 {
		return
	}
	if err := cache.Del(ctx, campaignContextCacheKey(campaignID)); err != nil {
		logger.Warnw("campaign_context_invalidate_failed", "campaign_id", campaignID, "error", err)
	}
}

// ContextBuilderService 活动上下文构建服务
type ContextBuilderService struct {
	campaignRepo repository.CampaignRepository
	cacheTTL     time.Duration
}

// NewContextBuilderService 创建上下文构建服务
func NewContextBuilderService(cfg *config.Config, campaignRepo repository.CampaignRepository) *ContextBuilderService {
	ttl := 300 * time.Second
	if cfg != nil && cfg.Chatbot.ContextTTLSeconds > 0 {
		ttl = time.Duration(cfg.Chatbot.ContextTTLSeconds) * time.Second
	}
	return &ContextBuilderService{
		campaignRepo: campaignRepo,
		cacheTTL:     ttl,
	}
}

// Build 构建活动上下文快照（带缓存）
// 说明：活动不存在或查询出错时返回 nil，调用方降级为无上下文。
func (s *ContextBuilderService) Build(ctx context.Context, campaignID uint) *CampaignContext {
	if campaignID == 0 {
		return nil
	}

	result, err := cache.Remember(ctx, campaignContextCacheKey(campaignID), s.cacheTTL, func() (*CampaignContext, error) {
		return s.build(campaignID)
	})
	if err != nil {
		logger.Warnw("campaign_context_build_failed", "campaign_id", campaignID, "error", err)
		return nil
	}
	return result
}

func (s *ContextBuilderService) build(campaignID uint) (*CampaignContext, error) {
	campaign, err := s.campaignRepo.GetDetailByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}

	totals := classifyMetricTotals(campaign.Metrics)

	roi := 0.0
	if totals.Cost > 0 {
		roi = (totals.Revenue - totals.Cost) / totals.Cost * 100
	}
	roiStatus := "profit"
	if roi < 0 {
		roiStatus = "loss"
	}

	affiliateNames := make([]string, 0, len(campaign.Affiliates))
	for _, affiliate := range campaign.Affiliates {
		affiliateNames = append(affiliateNames, affiliate.Name)
	}

	budget, _ := campaign.Budget.Float64()
	return &CampaignContext{
		CampaignID:     campaign.ID,
		Name:           campaign.Name,
		Budget:         budget,
		Status:         campaign.Status,
		Affiliates:     affiliateNames,
		CurrentMetrics: totals,
		ROICalculation: CampaignContextROI{
			TotalSpent:    totals.Cost,
			TotalRevenue:  totals.Revenue,
			ROIPercentage: roundTwo(roi),
			Status:        roiStatus,
		},
	}, nil
}

// classifyMetricTotals 按指标名称关键字把 value 归入四个桶
// 桶之间按声明顺序短路，一条指标只进一个桶。
func classifyMetricTotals(metrics []models.Metric) CampaignContextTotals {
	var totals CampaignContextTotals
	for _, metric := range metrics {
		name := strings.ToLower(metric.Name)
		value, _ := metric.Value.Float64()

		switch {
		case containsAny(name, "views", "searches", "clicks", "impressions"):
			totals.Clicks += value
		case containsAny(name, "sales", "orders", "conversions", "purchases"):
			totals.Conversions += value
		case containsAny(name, "revenue", "income"):
			totals.Revenue += value
		case containsAny(name, "cost", "spend", "spent"):
			totals.Cost += value
		}
	}
	return totals
}

func containsAny(name string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

func roundTwo(v float64) float64 {
	result, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return result
}
