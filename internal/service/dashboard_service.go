package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nexify/nexify-api/internal/cache"
	"github.com/nexify/nexify-api/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardCacheTTL  = 45 * time.Second
	dashboardMaxDays   = 90
	dashboardTopsLimit = 5
)

// DashboardService 仪表盘服务
// 说明：聚合活动经营数据供前端首页展示。
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardOverviewResponse 仪表盘总览响应
type DashboardOverviewResponse struct {
	KPI          DashboardKPI               `json:"kpi"`
	TopCampaigns []DashboardCampaignRanking `json:"top_campaigns"`
}

// DashboardKPI 仪表盘核心指标
type DashboardKPI struct {
	CampaignsTotal   int64  `json:"campaigns_total"`
	ActiveCampaigns  int64  `json:"active_campaigns"`
	PausedCampaigns  int64  `json:"paused_campaigns"`
	AffiliatesTotal  int64  `json:"affiliates_total"`
	MetricsTotal     int64  `json:"metrics_total"`
	TotalBudget      string `json:"total_budget"`
	TotalRevenue     string `json:"total_revenue"`
	OverallROI       string `json:"overall_roi"`
	TotalClicks      int64  `json:"total_clicks"`
	TotalConversions int64  `json:"total_conversions"`
}

// DashboardCampaignRanking 活动排行项
type DashboardCampaignRanking struct {
	CampaignID    uint   `json:"campaign_id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	Budget        string `json:"budget"`
	TotalRevenue  string `json:"total_revenue"`
	ROIPercentage string `json:"roi_percentage"`
}

// DashboardTrendResponse 仪表盘趋势响应
type DashboardTrendResponse struct {
	Days   int                   `json:"days"`
	From   string                `json:"from"`
	To     string                `json:"to"`
	Points []DashboardTrendPoint `json:"points"`
}

// DashboardTrendPoint 趋势点
type DashboardTrendPoint struct {
	Date        string `json:"date"`
	Revenue     string `json:"revenue"`
	Conversions int64  `json:"conversions"`
}

// GetOverview 获取仪表盘总览
func (s *DashboardService) GetOverview(ctx context.Context) (*DashboardOverviewResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOverviewResponse{}, nil
	}

	cacheKey := "dashboard:overview"
	var cached DashboardOverviewResponse
	if hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached); cacheErr == nil && hit {
		return &cached, nil
	}

	overview, err := s.repo.GetOverview()
	if err != nil {
		return nil, err
	}
	rankings, err := s.repo.GetTopCampaigns(dashboardTopsLimit)
	if err != nil {
		return nil, err
	}

	overallROI := 0.0
	if overview.TotalBudget > 0 {
		overallROI = (overview.TotalRevenue - overview.TotalBudget) / overview.TotalBudget * 100
	}

	topCampaigns := make([]DashboardCampaignRanking, 0, len(rankings))
	for _, row := range rankings {
		topCampaigns = append(topCampaigns, DashboardCampaignRanking{
			CampaignID:    row.CampaignID,
			Name:          row.Name,
			Status:        row.Status,
			Budget:        formatMoneyValue(row.Budget),
			TotalRevenue:  formatMoneyValue(row.TotalRevenue),
			ROIPercentage: formatPercentValue(row.ROIPercentage),
		})
	}

	response := &DashboardOverviewResponse{
		KPI: DashboardKPI{
			CampaignsTotal:   overview.CampaignsTotal,
			ActiveCampaigns:  overview.ActiveCampaigns,
			PausedCampaigns:  overview.PausedCampaigns,
			AffiliatesTotal:  overview.AffiliatesTotal,
			MetricsTotal:     overview.MetricsTotal,
			TotalBudget:      formatMoneyValue(overview.TotalBudget),
			TotalRevenue:     formatMoneyValue(overview.TotalRevenue),
			OverallROI:       formatPercentValue(overallROI),
			TotalClicks:      overview.TotalClicks,
			TotalConversions: overview.TotalConversion,
		},
		TopCampaigns: topCampaigns,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetTrends 获取收入趋势
func (s *DashboardService) GetTrends(ctx context.Context, days int) (*DashboardTrendResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardTrendResponse{}, nil
	}

	if days <= 0 {
		days = 30
	}
	if days > dashboardMaxDays {
		days = dashboardMaxDays
	}

	now := time.Now()
	endAt := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	startAt := endAt.AddDate(0, 0, -days)

	cacheKey := fmt.Sprintf("dashboard:trends:%d", days)
	var cached DashboardTrendResponse
	if hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached); cacheErr == nil && hit {
		return &cached, nil
	}

	rows, err := s.repo.GetRevenueTrends(startAt, endAt)
	if err != nil {
		return nil, err
	}

	points := make([]DashboardTrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, DashboardTrendPoint{
			Date:        row.Day,
			Revenue:     formatMoneyValue(row.Revenue),
			Conversions: row.Conversions,
		})
	}

	response := &DashboardTrendResponse{
		Days:   days,
		From:   startAt.Format(time.RFC3339),
		To:     endAt.Add(-time.Second).Format(time.RFC3339),
		Points: points,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// formatMoneyValue 金额统一 2 位小数输出
func formatMoneyValue(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}

// formatPercentValue 百分比统一 2 位小数输出
func formatPercentValue(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}
