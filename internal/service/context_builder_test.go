package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/nexify/nexify-api/internal/cache"
	"github.com/nexify/nexify-api/internal/config"
	"github.com/nexify/nexify-api/internal/constants"
	"github.com/nexify/nexify-api/internal/repository"

	"github.com/alicebob/miniredis/v2"
)

func setupContextBuilderTest(t *testing.T) (*CampaignService, *MetricService, *AffiliateService, *ContextBuilderService) {
	t.Helper()
	db, campaignSvc, metricSvc, affiliateSvc := setupServiceTest(t)
	builder := NewContextBuilderService(nil, repository.NewCampaignRepository(db))
	return campaignSvc, metricSvc, affiliateSvc, builder
}

func enableTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv := miniredis.RunT(t)
	port, err := strconv.Atoi(srv.Port())
	if err != nil {
		t.Fatalf("parse miniredis port failed: %v", err)
	}
	if err := cache.InitRedis(&config.RedisConfig{
		Enabled: true,
		Host:    srv.Host(),
		Port:    port,
		Prefix:  "nexify_test",
	}); err != nil {
		t.Fatalf("init redis failed: %v", err)
	}
	t.Cleanup(func() {
		_ = cache.InitRedis(&config.RedisConfig{Enabled: false})
	})
	return srv
}

func TestContextBuilderClassifiesMetricBuckets(t *testing.T) {
	campaignSvc, metricSvc, affiliateSvc, builder := setupContextBuilderTest(t)
	ctx := context.Background()

	affiliate, err := affiliateSvc.Create(context.Background(), CreateAffiliateInput{Name: "Acme Media", Email: "acme@example.com"})
	if err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}

	campaign, err := campaignSvc.Create(ctx, CreateCampaignInput{
		Name:         "Holiday Blast",
		Budget:       money(t, "1000.00"),
		StartDate:    time.Now(),
		Status:       constants.CampaignStatusActive,
		AffiliateIDs: []uint{affiliate.ID},
	})
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}

	inputs := []CreateMetricInput{
		{CampaignID: campaign.ID, Name: "Page Views", Value: money(t, "5000")},
		{CampaignID: campaign.ID, Name: "Product Searches", Value: money(t, "1200")},
		{CampaignID: campaign.ID, Name: "Completed Orders", Value: money(t, "80")},
		{CampaignID: campaign.ID, Name: "Affiliate Income", Value: money(t, "900.00")},
		{CampaignID: campaign.ID, Name: "Ad Spend", Value: money(t, "400.00")},
		{CampaignID: campaign.ID, Name: "Temperature", Value: money(t, "21")},
	}
	for _, input := range inputs {
		if _, err := metricSvc.Create(ctx, input); err != nil {
			t.Fatalf("create metric failed: %v", err)
		}
	}

	result := builder.Build(ctx, campaign.ID)
	if result == nil {
		t.Fatal("context should not be nil")
	}
	if result.CampaignID != campaign.ID || result.Name != "Holiday Blast" {
		t.Fatalf("unexpected campaign fields: %+v", result)
	}
	if result.Budget != 1000 {
		t.Fatalf("budget want 1000 got %v", result.Budget)
	}
	if len(result.Affiliates) != 1 || result.Affiliates[0] != "Acme Media" {
		t.Fatalf("unexpected affiliates: %v", result.Affiliates)
	}
	if result.CurrentMetrics.Clicks != 6200 {
		t.Fatalf("clicks want 6200 got %v", result.CurrentMetrics.Clicks)
	}
	if result.CurrentMetrics.Conversions != 80 {
		t.Fatalf("conversions want 80 got %v", result.CurrentMetrics.Conversions)
	}
	if result.CurrentMetrics.Revenue != 900 {
		t.Fatalf("revenue want 900 got %v", result.CurrentMetrics.Revenue)
	}
	if result.CurrentMetrics.Cost != 400 {
		t.Fatalf("cost want 400 got %v", result.CurrentMetrics.Cost)
	}

	// (900 - 400) / 400 * 100 = 125
	if result.ROICalculation.ROIPercentage != 125 {
		t.Fatalf("context roi want 125 got %v", result.ROICalculation.ROIPercentage)
	}
	if result.ROICalculation.Status != "profit" {
		t.Fatalf("roi status want profit got %s", result.ROICalculation.Status)
	}
	if result.ROICalculation.TotalSpent != 400 || result.ROICalculation.TotalRevenue != 900 {
		t.Fatalf("unexpected roi totals: %+v", result.ROICalculation)
	}
}

func TestContextBuilderZeroCostROI(t *testing.T) {
	campaignSvc, metricSvc, _, builder := setupContextBuilderTest(t)
	ctx := context.Background()

	campaign := seedCampaign(t, campaignSvc, "No Spend", "100.00")
	if _, err := metricSvc.Create(ctx, CreateMetricInput{
		CampaignID: campaign.ID,
		Name:       "Subscription Income",
		Value:      money(t, "250.00"),
	}); err != nil {
		t.Fatalf("create metric failed: %v", err)
	}

	result := builder.Build(ctx, campaign.ID)
	if result == nil {
		t.Fatal("context should not be nil")
	}
	if result.ROICalculation.ROIPercentage != 0 {
		t.Fatalf("roi without cost want 0 got %v", result.ROICalculation.ROIPercentage)
	}
	if result.ROICalculation.Status != "profit" {
		t.Fatalf("roi status want profit got %s", result.ROICalculation.Status)
	}
}

func TestContextBuilderMissingCampaign(t *testing.T) {
	_, _, _, builder := setupContextBuilderTest(t)

	if result := builder.Build(context.Background(), 4242); result != nil {
		t.Fatalf("missing campaign should yield nil context, got: %+v", result)
	}
}

func TestContextBuilderCachesAndInvalidates(t *testing.T) {
	enableTestRedis(t)
	campaignSvc, metricSvc, _, builder := setupContextBuilderTest(t)
	ctx := context.Background()

	campaign := seedCampaign(t, campaignSvc, "Cached", "100.00")
	if _, err := metricSvc.Create(ctx, CreateMetricInput{
		CampaignID: campaign.ID,
		Name:       "Ad Income",
		Value:      money(t, "100.00"),
	}); err != nil {
		t.Fatalf("create metric failed: %v", err)
	}

	first := builder.Build(ctx, campaign.ID)
	if first == nil || first.CurrentMetrics.Revenue != 100 {
		t.Fatalf("unexpected first context: %+v", first)
	}

	// 指标写入会失效缓存，再次构建应看到新数据
	if _, err := metricSvc.Create(ctx, CreateMetricInput{
		CampaignID: campaign.ID,
		Name:       "Bonus Income",
		Value:      money(t, "50.00"),
	}); err != nil {
		t.Fatalf("create metric failed: %v", err)
	}

	second := builder.Build(ctx, campaign.ID)
	if second == nil || second.CurrentMetrics.Revenue != 150 {
		t.Fatalf("context should reflect new metric: %+v", second)
	}
}

func TestContextBuilderInvalidatesOnAffiliateChange(t *testing.T) {
	enableTestRedis(t)
	campaignSvc, _, affiliateSvc, builder := setupContextBuilderTest(t)
	ctx := context.Background()

	campaign := seedCampaign(t, campaignSvc, "Partnered", "100.00")
	affiliate, err := affiliateSvc.Create(ctx, CreateAffiliateInput{
		Name:        "Initial Media",
		Email:       "initial.media@example.com",
		CampaignIDs: []uint{campaign.ID},
	})
	if err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}

	first := builder.Build(ctx, campaign.ID)
	if first == nil || len(first.Affiliates) != 1 || first.Affiliates[0] != "Initial Media" {
		t.Fatalf("unexpected first context: %+v", first)
	}

	// 联盟伙伴改名也要失效关联活动的上下文缓存
	if _, err := affiliateSvc.Update(ctx, affiliate.ID, CreateAffiliateInput{
		Name:        "Renamed Media",
		Email:       "initial.media@example.com",
		CampaignIDs: []uint{campaign.ID},
	}); err != nil {
		t.Fatalf("update affiliate failed: %v", err)
	}

	renamed := builder.Build(ctx, campaign.ID)
	if renamed == nil || len(renamed.Affiliates) != 1 || renamed.Affiliates[0] != "Renamed Media" {
		t.Fatalf("context should reflect renamed affiliate: %+v", renamed)
	}

	if err := affiliateSvc.Delete(ctx, affiliate.ID); err != nil {
		t.Fatalf("delete affiliate failed: %v", err)
	}

	after := builder.Build(ctx, campaign.ID)
	if after == nil || len(after.Affiliates) != 0 {
		t.Fatalf("context should drop deleted affiliate: %+v", after)
	}
}
