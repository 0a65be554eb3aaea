package service

import (
	"strings"

	"github.com/nexify/nexify-api/internal/models"

	"github.com/shopspring/decimal"
)

// CampaignAggregates 活动聚合计算结果
type CampaignAggregates struct {
	TotalRevenue  models.Money
	ROIPercentage float64
}

// metricRevenueContribution 单条指标对总收入的贡献
// 规则：revenue 字段非零优先；否则名称含 revenue 的指标取 value；其余为 0。
func metricRevenueContribution(metric models.Metric) decimal.Decimal {
	if !metric.Revenue.IsZero() {
		return metric.Revenue.Decimal
	}
	if strings.Contains(strings.ToLower(metric.Name), "revenue") {
		return metric.Value.Decimal
	}
	return decimal.Zero
}

// CalculateCampaignAggregates 由指标集合计算活动总收入与 ROI
// ROI = (总收入 - 预算) / 预算 * 100，预算非正时恒为 0。
func CalculateCampaignAggregates(budget models.Money, metrics []models.Metric) CampaignAggregates {
	total := decimal.Zero
	for _, metric := range metrics {
		total = total.Add(metricRevenueContribution(metric))
	}
	total = total.Round(2)

	roi := 0.0
	if budget.IsPositive() {
		roi, _ = total.Sub(budget.Decimal).
			Div(budget.Decimal).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			Float64()
	}

	return CampaignAggregates{
		TotalRevenue:  models.NewMoneyFromDecimal(total),
		ROIPercentage: roi,
	}
}
