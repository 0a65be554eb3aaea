package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nexify/nexify-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func TestCreateCampaignAndGet(t *testing.T) {
	h, db := setupHandlerTest(t)

	affiliate := models.Affiliate{Name: "Tech Review Network", Email: "contact@techreviewnetwork.com"}
	if err := db.Create(&affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}

	body := fmt.Sprintf(`{
		"name": "Summer Sale",
		"budget": 5000,
		"start_date": "2025-06-01",
		"end_date": "2025-08-31",
		"status": "active",
		"affiliate_ids": [%d]
	}`, affiliate.ID)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/campaigns", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CreateCampaign(c)

	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}

	var resp struct {
		StatusCode int             `json:"status_code"`
		Data       models.Campaign `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 0 {
		t.Fatalf("status_code want 0 got %d", resp.StatusCode)
	}
	if resp.Data.ID == 0 || resp.Data.Name != "Summer Sale" {
		t.Fatalf("unexpected campaign: %+v", resp.Data)
	}

	// 详情应携带关联的联盟伙伴
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/1", nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(resp.Data.ID)}}

	h.GetCampaign(c)

	var detail struct {
		StatusCode int             `json:"status_code"`
		Data       models.Campaign `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshal detail failed: %v", err)
	}
	if detail.StatusCode != 0 {
		t.Fatalf("detail status_code want 0 got %d", detail.StatusCode)
	}
	if len(detail.Data.Affiliates) != 1 || detail.Data.Affiliates[0].ID != affiliate.ID {
		t.Fatalf("detail affiliates mismatch: %+v", detail.Data.Affiliates)
	}
}

func TestCreateCampaignRejectsInvalidStatus(t *testing.T) {
	h, _ := setupHandlerTest(t)

	body := `{"name":"Bad Status","budget":100,"start_date":"2025-06-01","status":"archived"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/campaigns", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CreateCampaign(c)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status_code want 400 got %d", resp.StatusCode)
	}
}

func TestGetCampaignNotFound(t *testing.T) {
	h, _ := setupHandlerTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/999", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	h.GetCampaign(c)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("status_code want 404 got %d", resp.StatusCode)
	}
}

func TestGetCampaignInvalidID(t *testing.T) {
	h, _ := setupHandlerTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.GetCampaign(c)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status_code want 400 got %d", resp.StatusCode)
	}
}

func TestListCampaignsFiltersByStatus(t *testing.T) {
	h, db := setupHandlerTest(t)

	seeds := []models.Campaign{
		{Name: "Active One", Budget: models.NewMoneyFromDecimal(decimal.NewFromInt(100)), StartDate: time.Now(), Status: "active"},
		{Name: "Active Two", Budget: models.NewMoneyFromDecimal(decimal.NewFromInt(200)), StartDate: time.Now(), Status: "active"},
		{Name: "Draft One", Budget: models.NewMoneyFromDecimal(decimal.NewFromInt(300)), StartDate: time.Now(), Status: "draft"},
	}
	for i := range seeds {
		if err := db.Create(&seeds[i]).Error; err != nil {
			t.Fatalf("create campaign failed: %v", err)
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/campaigns?status=active&page=1&page_size=20", nil)

	h.ListCampaigns(c)

	var resp struct {
		StatusCode int               `json:"status_code"`
		Data       []models.Campaign `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 0 {
		t.Fatalf("status_code want 0 got %d", resp.StatusCode)
	}
	if resp.Pagination.Total != 2 {
		t.Fatalf("pagination total want 2 got %d", resp.Pagination.Total)
	}
	for _, campaign := range resp.Data {
		if campaign.Status != "active" {
			t.Fatalf("unexpected status in filtered list: %+v", campaign)
		}
	}
}
