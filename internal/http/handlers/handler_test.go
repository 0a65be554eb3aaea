package handlers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nexify/nexify-api/internal/config"
	"github.com/nexify/nexify-api/internal/models"
	"github.com/nexify/nexify-api/internal/provider"
	"github.com/nexify/nexify-api/internal/repository"
	"github.com/nexify/nexify-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Campaign{},
		&models.Metric{},
		&models.Affiliate{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.JWT.SecretKey = "handler-test-secret-key-0123456789abcdef"
	cfg.JWT.ExpireHours = 24

	userRepo := repository.NewUserRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	metricRepo := repository.NewMetricRepository(db)
	affiliateRepo := repository.NewAffiliateRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	contextBuilder := service.NewContextBuilderService(cfg, campaignRepo)

	h := New(&provider.Container{
		Config:           cfg,
		UserRepo:         userRepo,
		CampaignRepo:     campaignRepo,
		MetricRepo:       metricRepo,
		AffiliateRepo:    affiliateRepo,
		DashboardRepo:    dashboardRepo,
		AuthService:      service.NewAuthService(cfg, userRepo),
		CampaignService:  service.NewCampaignService(campaignRepo, affiliateRepo),
		MetricService:    service.NewMetricService(metricRepo, campaignRepo),
		AffiliateService: service.NewAffiliateService(affiliateRepo, campaignRepo),
		DashboardService: service.NewDashboardService(dashboardRepo),
		ContextBuilder:   contextBuilder,
		ChatbotService:   service.NewChatbotService(cfg, stubProvider{}, contextBuilder),
	})
	return h, db
}

// stubProvider 测试用上游：全部调用失败，驱动降级响应
type stubProvider struct{}

func (stubProvider) Configured() bool { return true }

func (stubProvider) ListModels(ctx context.Context) ([]string, error) {
	return nil, errors.New("discovery unavailable")
}

func (stubProvider) GenerateContent(ctx context.Context, version, model, prompt string) (string, error) {
	return "", errors.New("HTTP 503: upstream down")
}
