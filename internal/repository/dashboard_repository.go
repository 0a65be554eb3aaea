package repository

import (
	"fmt"
	"time"

	"github.com/nexify/nexify-api/internal/constants"
	"github.com/nexify/nexify-api/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview() (DashboardOverviewRow, error)
	GetRevenueTrends(startAt, endAt time.Time) ([]DashboardRevenueTrendRow, error)
	GetTopCampaigns(limit int) ([]DashboardCampaignRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	CampaignsTotal  int64
	ActiveCampaigns int64
	PausedCampaigns int64
	TotalBudget     float64
	TotalRevenue    float64
	AffiliatesTotal int64
	MetricsTotal    int64
	TotalClicks     int64
	TotalConversion int64
}

// DashboardRevenueTrendRow 收入趋势统计
type DashboardRevenueTrendRow struct {
	Day         string
	Revenue     float64
	Conversions int64
}

// DashboardCampaignRankingRow 活动排行原始行
type DashboardCampaignRankingRow struct {
	CampaignID    uint
	Name          string
	Status        string
	Budget        float64
	TotalRevenue  float64
	ROIPercentage float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview() (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	campaignBase := func() *gorm.DB {
		return r.db.Model(&models.Campaign{})
	}

	if err := campaignBase().Count(&result.CampaignsTotal).Error; err != nil {
		return result, err
	}
	if err := campaignBase().Where("status = ?", constants.CampaignStatusActive).Count(&result.ActiveCampaigns).Error; err != nil {
		return result, err
	}
	if err := campaignBase().Where("status = ?", constants.CampaignStatusPaused).Count(&result.PausedCampaigns).Error; err != nil {
		return result, err
	}
	if err := campaignBase().
		Select("COALESCE(SUM(budget), 0)").
		Scan(&result.TotalBudget).Error; err != nil {
		return result, err
	}
	if err := campaignBase().
		Select("COALESCE(SUM(total_revenue), 0)").
		Scan(&result.TotalRevenue).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Affiliate{}).Count(&result.AffiliatesTotal).Error; err != nil {
		return result, err
	}

	metricBase := func() *gorm.DB {
		return r.db.Model(&models.Metric{})
	}
	if err := metricBase().Count(&result.MetricsTotal).Error; err != nil {
		return result, err
	}
	if err := metricBase().
		Select("COALESCE(SUM(clicks), 0)").
		Scan(&result.TotalClicks).Error; err != nil {
		return result, err
	}
	if err := metricBase().
		Select("COALESCE(SUM(conversions), 0)").
		Scan(&result.TotalConversion).Error; err != nil {
		return result, err
	}

	return result, nil
}

// GetRevenueTrends 获取收入趋势（按日汇总指标收入与转化）
func (r *GormDashboardRepository) GetRevenueTrends(startAt, endAt time.Time) ([]DashboardRevenueTrendRow, error) {
	type revenueRow struct {
		Day     string
		Revenue float64
	}
	type conversionRow struct {
		Day   string
		Total int64
	}

	dayExpr := "CAST(date(timestamp) AS TEXT)"

	var revenues []revenueRow
	if err := r.db.Model(&models.Metric{}).
		Select(fmt.Sprintf("%s as day, COALESCE(SUM(revenue), 0) as revenue", dayExpr)).
		Where("timestamp >= ? AND timestamp < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&revenues).Error; err != nil {
		return nil, err
	}

	var conversions []conversionRow
	if err := r.db.Model(&models.Metric{}).
		Select(fmt.Sprintf("%s as day, COALESCE(SUM(conversions), 0) as total", dayExpr)).
		Where("timestamp >= ? AND timestamp < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&conversions).Error; err != nil {
		return nil, err
	}

	conversionMap := make(map[string]int64, len(conversions))
	for _, item := range conversions {
		conversionMap[item.Day] = item.Total
	}

	result := make([]DashboardRevenueTrendRow, 0, len(revenues))
	for _, item := range revenues {
		result = append(result, DashboardRevenueTrendRow{
			Day:         item.Day,
			Revenue:     item.Revenue,
			Conversions: conversionMap[item.Day],
		})
	}
	return result, nil
}

// GetTopCampaigns 获取收入排行靠前的活动
func (r *GormDashboardRepository) GetTopCampaigns(limit int) ([]DashboardCampaignRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []DashboardCampaignRankingRow
	err := r.db.Model(&models.Campaign{}).
		Select("id as campaign_id, name, status, budget, total_revenue, roi_percentage").
		Order("total_revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
