package provider

import (
	"github.com/nexify/nexify-api/internal/cache"
	"github.com/nexify/nexify-api/internal/config"
	"github.com/nexify/nexify-api/internal/gemini"
	"github.com/nexify/nexify-api/internal/logger"
	"github.com/nexify/nexify-api/internal/models"
	"github.com/nexify/nexify-api/internal/repository"
	"github.com/nexify/nexify-api/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// Repositories
	UserRepo      repository.UserRepository
	CampaignRepo  repository.CampaignRepository
	MetricRepo    repository.MetricRepository
	AffiliateRepo repository.AffiliateRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthService      *service.AuthService
	CampaignService  *service.CampaignService
	MetricService    *service.MetricService
	AffiliateService *service.AffiliateService
	DashboardService *service.DashboardService
	ContextBuilder   *service.ContextBuilderService
	ChatbotService   *service.ChatbotService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{Config: cfg}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CampaignRepo = repository.NewCampaignRepository(db)
	c.MetricRepo = repository.NewMetricRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.CampaignService = service.NewCampaignService(c.CampaignRepo, c.AffiliateRepo)
	c.MetricService = service.NewMetricService(c.MetricRepo, c.CampaignRepo)
	c.AffiliateService = service.NewAffiliateService(c.AffiliateRepo, c.CampaignRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
	c.ContextBuilder = service.NewContextBuilderService(c.Config, c.CampaignRepo)

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:  c.Config.Gemini.APIKey,
		BaseURL: c.Config.Gemini.BaseURL,
	})
	c.ChatbotService = service.NewChatbotService(c.Config, geminiClient, c.ContextBuilder)
}
