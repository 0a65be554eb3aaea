package service

import (
	"testing"

	"github.com/nexify/nexify-api/internal/models"
)

func money(t *testing.T, s string) models.Money {
	t.Helper()
	m, err := models.NewMoneyFromString(s)
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	return m
}

func TestCalculateCampaignAggregates(t *testing.T) {
	budget := money(t, "200.00")
	metrics := []models.Metric{
		{Name: "Banner Clicks", Revenue: money(t, "120.50")},
		{Name: "Referral Revenue", Value: money(t, "222.40")},
		{Name: "Impressions", Value: money(t, "9000.00")},
	}

	result := CalculateCampaignAggregates(budget, metrics)

	if got := result.TotalRevenue.String(); got != "342.90" {
		t.Fatalf("total revenue want 342.90 got %s", got)
	}
	// (342.90 - 200) / 200 * 100 = 71.45
	if result.ROIPercentage != 71.45 {
		t.Fatalf("roi want 71.45 got %v", result.ROIPercentage)
	}
}

func TestCalculateCampaignAggregatesRevenueFieldWins(t *testing.T) {
	metrics := []models.Metric{
		// revenue 非零时忽略 value，即使名称含 revenue
		{Name: "Revenue Share", Value: money(t, "50.00"), Revenue: money(t, "10.00")},
	}

	result := CalculateCampaignAggregates(money(t, "100.00"), metrics)
	if got := result.TotalRevenue.String(); got != "10.00" {
		t.Fatalf("total revenue want 10.00 got %s", got)
	}
}

func TestCalculateCampaignAggregatesKeywordCaseInsensitive(t *testing.T) {
	metrics := []models.Metric{
		{Name: "Monthly REVENUE total", Value: money(t, "75.25")},
	}

	result := CalculateCampaignAggregates(money(t, "100.00"), metrics)
	if got := result.TotalRevenue.String(); got != "75.25" {
		t.Fatalf("total revenue want 75.25 got %s", got)
	}
	if result.ROIPercentage != -24.75 {
		t.Fatalf("roi want -24.75 got %v", result.ROIPercentage)
	}
}

func TestCalculateCampaignAggregatesZeroBudget(t *testing.T) {
	metrics := []models.Metric{
		{Name: "Sales Revenue", Revenue: money(t, "500.00")},
	}

	result := CalculateCampaignAggregates(models.Money{}, metrics)
	if got := result.TotalRevenue.String(); got != "500.00" {
		t.Fatalf("total revenue want 500.00 got %s", got)
	}
	if result.ROIPercentage != 0 {
		t.Fatalf("roi with zero budget want 0 got %v", result.ROIPercentage)
	}
}

func TestCalculateCampaignAggregatesNoMetrics(t *testing.T) {
	result := CalculateCampaignAggregates(money(t, "100.00"), nil)
	if got := result.TotalRevenue.String(); got != "0.00" {
		t.Fatalf("total revenue want 0.00 got %s", got)
	}
	if result.ROIPercentage != -100 {
		t.Fatalf("roi without metrics want -100 got %v", result.ROIPercentage)
	}
}
