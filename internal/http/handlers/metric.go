package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/nexify/nexify-api/internal/http/response"
	"github.com/nexify/nexify-api/internal/models"
	"github.com/nexify/nexify-api/internal/repository"
	"github.com/nexify/nexify-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateMetricRequest 创建/更新指标请求
type CreateMetricRequest struct {
	CampaignID  uint    `json:"campaign_id" binding:"required,gt=0"`
	Name        string  `json:"name" binding:"required,max=255"`
	Value       float64 `json:"value"`
	Clicks      int     `json:"clicks" binding:"gte=0"`
	Conversions int     `json:"conversions" binding:"gte=0"`
	Revenue     float64 `json:"revenue"`
	Notes       string  `json:"notes"`
	Timestamp   string  `json:"timestamp"`
}

func (req CreateMetricRequest) toInput() (service.CreateMetricInput, error) {
	var timestamp *time.Time
	if trimmed := strings.TrimSpace(req.Timestamp); trimmed != "" {
		parsed, err := time.Parse(time.RFC3339, trimmed)
		if err != nil {
			return service.CreateMetricInput{}, err
		}
		timestamp = &parsed
	}

	return service.CreateMetricInput{
		CampaignID:  req.CampaignID,
		Name:        strings.TrimSpace(req.Name),
		Value:       models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Value)),
		Clicks:      req.Clicks,
		Conversions: req.Conversions,
		Revenue:     models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Revenue)),
		Notes:       req.Notes,
		Timestamp:   timestamp,
	}, nil
}

// ListMetrics 指标列表
func (h *Handler) ListMetrics(c *gin.Context) {
	page, pageSize := parsePagination(c)

	campaignID := uint(0)
	if raw := c.Query("campaign_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid campaign_id filter", err)
			return
		}
		campaignID = uint(parsed)
	}

	metrics, total, err := h.MetricService.List(repository.MetricListFilter{
		Page:       page,
		PageSize:   pageSize,
		CampaignID: campaignID,
		Search:     c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "list metrics failed", err)
		return
	}

	response.SuccessWithPage(c, metrics, response.NewPagination(page, pageSize, total))
}

// GetMetric 指标详情
func (h *Handler) GetMetric(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	metric, err := h.MetricService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "metric not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "get metric failed", err)
		return
	}

	response.Success(c, metric)
}

// CreateMetric 创建指标
func (h *Handler) CreateMetric(c *gin.Context) {
	var req CreateMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid metric payload", err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid metric timestamp", err)
		return
	}

	metric, err := h.MetricService.Create(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			respondError(c, response.CodeBadRequest, "campaign does not exist", nil)
			return
		}
		respondError(c, response.CodeInternal, "create metric failed", err)
		return
	}

	response.Success(c, metric)
}

// UpdateMetric 更新指标
func (h *Handler) UpdateMetric(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid metric payload", err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid metric timestamp", err)
		return
	}

	metric, err := h.MetricService.Update(c.Request.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "metric not found", nil)
		case errors.Is(err, service.ErrCampaignNotFound):
			respondError(c, response.CodeBadRequest, "campaign does not exist", nil)
		default:
			respondError(c, response.CodeInternal, "update metric failed", err)
		}
		return
	}

	response.Success(c, metric)
}

// DeleteMetric 删除指标
func (h *Handler) DeleteMetric(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.MetricService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "metric not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "delete metric failed", err)
		return
	}

	response.SuccessWithMsg(c, "metric deleted", gin.H{"id": id})
}
