package main

import (
	"time"

	"github.com/nexify/nexify-api/internal/config"
	"github.com/nexify/nexify-api/internal/logger"
	"github.com/nexify/nexify-api/internal/models"
	"github.com/nexify/nexify-api/internal/service"

	"github.com/shopspring/decimal"
)

type campaignSeed struct {
	Name   string
	Budget string
	Start  string
	End    string
	Status string
}

type affiliateSeed struct {
	Name      string
	Email     string
	Campaigns []int // 关联活动在 campaignSeeds 中的下标
}

type metricSeed struct {
	Campaign    int // 所属活动在 campaignSeeds 中的下标
	Name        string
	Value       string
	Clicks      int
	Conversions int
	Revenue     string
	Notes       string
	Date        string
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认后台账号
	if err := models.InitDefaultUser("admin@example.com", "password"); err != nil {
		stdLog.Printf("Failed to create default user: %v", err)
	}

	var existing int64
	models.DB.Model(&models.Campaign{}).Count(&existing)
	if existing > 0 {
		stdLog.Printf("Campaigns already exist (%d), skipping seed", existing)
		return
	}

	campaignSeeds := []campaignSeed{
		{"Electronics & Gadgets Launch", "5000.00", "2025-06-01", "2025-08-31", "active"},
		{"Winter Apparel Collection", "3000.00", "2025-12-01", "2025-12-31", "draft"},
		{"Academic Resources Platform", "7500.00", "2025-08-15", "2025-09-15", "active"},
		{"Fashion Brand Relaunch", "12000.00", "2025-03-01", "2025-05-31", "completed"},
		{"Summer Travel Deals", "8000.00", "2025-06-15", "2025-07-31", "active"},
		{"Home Decor Collection", "4500.00", "2025-09-01", "2025-10-31", "draft"},
		{"Fitness Challenge Program", "6000.00", "2025-01-01", "2025-02-28", "active"},
		{"Kids Toy Drive", "2000.00", "2025-11-01", "2025-12-15", "pending"},
		{"Sustainable Living Expo", "10000.00", "2025-04-01", "2025-04-30", "completed"},
		{"Pet Care Product Launch", "3500.00", "2025-07-01", "2025-08-15", "active"},
		{"Gourmet Food Festival", "9000.00", "2025-10-01", "2025-10-15", "draft"},
		{"Digital Marketing Workshop", "2500.00", "2025-03-10", "2025-03-12", "completed"},
		{"Art Exhibition Promotion", "5500.00", "2025-05-01", "2025-05-31", "active"},
		{"Charity Gala Event", "15000.00", "2025-11-20", "2025-11-20", "pending"},
		{"New Year Sales Campaign", "7000.00", "2025-12-26", "2026-01-05", "draft"},
		{"Home Improvement Tools", "8500.00", "2025-04-01", "2025-06-30", "active"},
		{"Health & Fitness App", "6200.00", "2025-01-15", "2025-03-15", "completed"},
		{"E-commerce Platform Sale", "25000.00", "2025-11-20", "2025-11-30", "draft"},
		{"Digital Services Bundle", "18000.00", "2025-12-01", "2025-12-02", "draft"},
		{"Premium Beauty Products", "4500.00", "2025-02-01", "2025-02-14", "completed"},
		{"Family Entertainment Package", "3200.00", "2025-03-20", "2025-04-20", "completed"},
		{"Professional Development Courses", "5500.00", "2025-05-01", "2025-05-12", "active"},
		{"Technology Solutions Suite", "4800.00", "2025-06-01", "2025-06-16", "active"},
		{"Outdoor Adventure Gear", "3800.00", "2025-06-20", "2025-07-04", "active"},
		{"Creative Arts Supplies", "2900.00", "2025-10-15", "2025-10-31", "active"},
		{"Gourmet Food Delivery", "4100.00", "2025-11-15", "2025-11-28", "draft"},
	}

	campaigns := make([]models.Campaign, 0, len(campaignSeeds))
	for _, seed := range campaignSeeds {
		end := mustDate(seed.End)
		campaign := models.Campaign{
			Name:      seed.Name,
			Budget:    money(seed.Budget),
			StartDate: mustDate(seed.Start),
			EndDate:   &end,
			Status:    seed.Status,
		}
		if err := models.DB.Create(&campaign).Error; err != nil {
			stdLog.Fatalf("Failed to create campaign %s: %v", seed.Name, err)
		}
		campaigns = append(campaigns, campaign)
	}
	stdLog.Printf("Created %d campaigns", len(campaigns))

	affiliateSeeds := []affiliateSeed{
		{"Tech Review Network", "contact@techreviewnetwork.com", []int{0, 2}},
		{"Fashion Industry Blog", "partnerships@fashionindustryblog.com", []int{1, 3}},
		{"Home Improvement Hub", "collaborate@homeimprovementhub.com", []int{15}},
		{"Education Technology Partners", "deals@edtechpartners.net", []int{2, 0}},
		{"Health & Wellness Network", "affiliates@healthwellnessnetwork.com", []int{16, 15}},
		{"Digital Commerce Alliance", "marketing@digitalcommercealliance.com", []int{0, 1, 3}},
		{"Business Solutions Group", "partners@businesssolutionsgroup.com", []int{2, 15, 16}},
		{"Lifestyle & Technology", "business@lifestyletechnology.com", []int{3, 16}},
		{"E-commerce Solutions Pro", "deals@ecommercesolutionspro.com", []int{1, 17, 18, 25}},
		{"Beauty & Lifestyle Magazine", "partnerships@beautylifestylemag.com", []int{19}},
		{"Family & Entertainment Network", "affiliates@familyentertainmentnetwork.com", []int{20, 21, 22}},
		{"Tech Solutions Review", "sponsorships@techsolutionsreview.com", []int{0, 22}},
		{"Adventure & Outdoor Hub", "collaborate@adventureoutdoorhub.com", []int{15, 23}},
		{"Creative Arts Community", "business@creativeartscommunity.com", []int{24}},
		{"Gourmet Dining Network", "partnerships@gourmetdiningnetwork.com", []int{25, 20}},
		{"Professional Development Institute", "advertising@professionaldevelopmentinst.com", []int{16, 19, 21}},
	}

	for _, seed := range affiliateSeeds {
		linked := make([]models.Campaign, 0, len(seed.Campaigns))
		for _, idx := range seed.Campaigns {
			if idx >= 0 && idx < len(campaigns) {
				linked = append(linked, campaigns[idx])
			}
		}
		affiliate := models.Affiliate{
			Name:      seed.Name,
			Email:     seed.Email,
			Campaigns: linked,
		}
		if err := models.DB.Create(&affiliate).Error; err != nil {
			stdLog.Fatalf("Failed to create affiliate %s: %v", seed.Name, err)
		}
	}
	stdLog.Printf("Created %d affiliates", len(affiliateSeeds))

	metricSeeds := []metricSeed{
		// Electronics & Gadgets Launch
		{0, "Product Launch Traffic", "2850.00", 2850, 57, "2850.00", "Initial product launch website visits", "2025-06-02"},
		{0, "Device Sales", "420.00", 1890, 38, "420.00", "Electronic device purchases from campaign", "2025-06-20"},
		{0, "Gadget Revenue", "18750.00", 6200, 145, "18750.00", "Total revenue from electronics and gadgets", "2025-06-25"},
		{0, "Tech Reviews", "125.00", 125, 25, "125.00", "Product reviews and testimonials shared", "2025-07-01"},
		// Winter Apparel Collection
		{1, "Seasonal Catalog Views", "3450.00", 3450, 69, "3450.00", "Winter clothing catalog page views", "2025-12-05"},
		{1, "Conversion Analytics", "18.75", 1840, 34, "1840.00", "Percentage of visitors who made purchases", "2025-12-10"},
		{1, "Winter Collection Sales", "2400.00", 1200, 48, "2400.00", "Revenue from winter apparel and accessories", "2025-12-20"},
		// Academic Resources Platform
		{2, "Student Account Creations", "675.00", 675, 135, "675.00", "New student accounts registered", "2025-08-20"},
		{2, "Resource Downloads", "480.00", 960, 96, "480.00", "Educational materials downloaded", "2025-08-25"},
		{2, "Academic Inquiries", "270.00", 540, 54, "270.00", "Contact forms from educational institutions", "2025-09-01"},
		{2, "Education Platform Revenue", "14200.00", 0, 0, "", "Revenue from subscriptions and resource sales", "2025-09-10"},
		// Fashion Brand Relaunch
		{3, "Brand Awareness Coverage", "95.00", 1900, 19, "95.00", "Media mentions and brand coverage", "2025-03-15"},
		{3, "Fashion Collection Revenue", "31200.00", 0, 0, "", "Sales from relaunched fashion line", "2025-04-01"},
		{3, "Social Media Growth", "1850.00", 18500, 185, "1850.00", "New followers from brand relaunch campaign", "2025-04-15"},
		// Home Improvement Tools
		{15, "Tool Sales Performance", "435.00", 870, 87, "435.00", "Power tools and equipment purchases", "2025-04-10"},
		{15, "DIY Project Leads", "234.00", 1170, 117, "234.00", "Contact forms from homeowners", "2025-05-01"},
		{15, "Workshop Registrations", "127.50", 510, 51, "127.50", "Signups for home improvement training", "2025-05-15"},
		{15, "Home Improvement Revenue", "16800.00", 0, 0, "", "Revenue from tools, materials, and services", "2025-06-01"},
		// Health & Fitness App
		{16, "App Subscriptions", "510.00", 1020, 102, "510.00", "New premium app subscriptions", "2025-01-20"},
		{16, "Mobile App Downloads", "1875.00", 7500, 750, "1875.00", "App store installations", "2025-02-01"},
		{16, "Fitness Consultations", "142.50", 570, 57, "142.50", "Booked personal training sessions", "2025-02-15"},
		{16, "Nutrition Program Sales", "270.00", 540, 54, "270.00", "Custom diet plan purchases", "2025-03-01"},
		{16, "Fitness Platform Revenue", "12750.00", 0, 0, "", "Revenue from subscriptions and services", "2025-03-10"},
		// E-commerce Platform Sale
		{17, "Platform Traffic Surge", "7500.00", 7500, 375, "7500.00", "Website visitors during promotional period", "2025-11-25"},
		{17, "Sales Volume Metrics", "1875.00", 3750, 188, "1875.00", "Total units sold during promotion", "2025-11-29"},
		{17, "E-commerce Revenue", "20000.00", 0, 0, "", "Total revenue from platform sales", "2025-11-30"},
		// Digital Services Bundle
		{18, "Service Page Visits", "4800.00", 4800, 240, "4800.00", "Digital service landing page views", "2025-12-01"},
		{18, "Service Subscriptions", "1335.00", 2670, 267, "1335.00", "Digital service packages sold", "2025-12-02"},
		{18, "Digital Services Revenue", "15000.00", 0, 0, "", "Revenue from digital products and subscriptions", "2025-12-03"},
		// Premium Beauty Products
		{19, "Beauty Product Views", "2700.00", 2700, 135, "2700.00", "Premium beauty product page views", "2025-02-05"},
		{19, "Luxury Beauty Sales", "630.00", 1260, 126, "630.00", "Units sold from premium beauty line", "2025-02-14"},
		{19, "Beauty Campaign Revenue", "5500.00", 0, 0, "", "Revenue from premium beauty products", "2025-02-15"},
		// Family Entertainment Package
		{20, "Entertainment Signups", "975.00", 1950, 195, "975.00", "Family entertainment package subscriptions", "2025-03-25"},
		{20, "Media Package Sales", "570.00", 1140, 114, "570.00", "Entertainment bundles and subscriptions", "2025-04-10"},
		{20, "Entertainment Revenue", "3800.00", 0, 0, "", "Revenue from family entertainment packages", "2025-04-20"},
		// Professional Development Courses
		{21, "Course Catalog Views", "3150.00", 3150, 158, "3150.00", "Professional development course listings viewed", "2025-05-05"},
		{21, "Course Enrollments", "435.00", 870, 87, "435.00", "Students enrolled in professional courses", "2025-05-10"},
		{21, "Education Revenue", "13800.00", 27600, 2760, "", "Revenue from professional development courses", "2025-05-12"},
		// Technology Solutions Suite
		{22, "Tech Solution Searches", "2400.00", 4800, 480, "", "Searches for technology solutions", "2025-06-08"},
		{22, "Solution Sales", "510.00", 1020, 102, "", "Technology solution packages sold", "2025-06-15"},
		{22, "Tech Solutions Revenue", "11700.00", 23400, 2340, "", "Revenue from technology solution sales", "2025-06-16"},
		// Outdoor Adventure Gear
		{23, "Adventure Gear Views", "1800.00", 3600, 360, "", "Outdoor equipment and gear page views", "2025-06-25"},
		{23, "Equipment Sales", "420.00", 840, 84, "", "Outdoor adventure gear sold", "2025-07-02"},
		{23, "Adventure Gear Revenue", "9600.00", 19200, 1920, "", "Revenue from outdoor adventure products", "2025-07-04"},
		// Creative Arts Supplies
		{24, "Art Supply Searches", "1425.00", 2850, 285, "", "Creative arts supplies and materials searches", "2025-10-20"},
		{24, "Art Material Orders", "630.00", 1260, 126, "", "Art supplies and creative materials ordered", "2025-10-28"},
		{24, "Creative Arts Revenue", "2500.00", 5000, 500, "", "Revenue from art supplies and materials", "2025-10-31"},
		// Gourmet Food Delivery
		{25, "Recipe Content Views", "2700.00", 5400, 540, "", "Gourmet recipe and meal planning content", "2025-11-18"},
		{25, "Meal Kit Orders", "525.00", 1050, 105, "", "Gourmet meal delivery packages sold", "2025-11-25"},
		{25, "Food Delivery Revenue", "3500.00", 7000, 700, "", "Revenue from gourmet food delivery services", "2025-11-28"},
	}

	touched := map[int]bool{}
	for _, seed := range metricSeeds {
		metric := models.Metric{
			CampaignID:  campaigns[seed.Campaign].ID,
			Name:        seed.Name,
			Value:       money(seed.Value),
			Clicks:      seed.Clicks,
			Conversions: seed.Conversions,
			Notes:       seed.Notes,
			Timestamp:   mustDate(seed.Date),
		}
		if seed.Revenue != "" {
			metric.Revenue = money(seed.Revenue)
		}
		if err := models.DB.Create(&metric).Error; err != nil {
			stdLog.Fatalf("Failed to create metric %s: %v", seed.Name, err)
		}
		touched[seed.Campaign] = true
	}
	stdLog.Printf("Created %d metrics", len(metricSeeds))

	// 逐活动重算聚合字段
	for idx := range touched {
		campaign := campaigns[idx]
		var metrics []models.Metric
		if err := models.DB.Where("campaign_id = ?", campaign.ID).Find(&metrics).Error; err != nil {
			stdLog.Fatalf("Failed to load metrics for campaign %d: %v", campaign.ID, err)
		}
		aggregates := service.CalculateCampaignAggregates(campaign.Budget, metrics)
		updates := map[string]interface{}{
			"total_revenue":  aggregates.TotalRevenue,
			"roi_percentage": aggregates.ROIPercentage,
			"updated_at":     time.Now(),
		}
		if err := models.DB.Model(&models.Campaign{}).Where("id = ?", campaign.ID).Updates(updates).Error; err != nil {
			stdLog.Fatalf("Failed to update aggregates for campaign %d: %v", campaign.ID, err)
		}
	}

	stdLog.Printf("Seed completed")
}

func money(amount string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(amount))
}

func mustDate(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}
