package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/nexify/nexify-api/internal/http/response"
	"github.com/nexify/nexify-api/internal/models"
	"github.com/nexify/nexify-api/internal/repository"
	"github.com/nexify/nexify-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateCampaignRequest 创建/更新活动请求
type CreateCampaignRequest struct {
	Name         string  `json:"name" binding:"required,max=255"`
	Budget       float64 `json:"budget" binding:"gte=0"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date"`
	Status       string  `json:"status" binding:"required"`
	AffiliateIDs []uint  `json:"affiliate_ids"`
}

func (req CreateCampaignRequest) toInput() (service.CreateCampaignInput, error) {
	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		// 兼容仅日期的输入
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return service.CreateCampaignInput{}, err
		}
	}

	var endDate *time.Time
	if trimmed := strings.TrimSpace(req.EndDate); trimmed != "" {
		parsed, err := time.Parse(time.RFC3339, trimmed)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", trimmed)
			if err != nil {
				return service.CreateCampaignInput{}, err
			}
		}
		endDate = &parsed
	}

	return service.CreateCampaignInput{
		Name:         strings.TrimSpace(req.Name),
		Budget:       models.NewMoneyFromDecimal(decimal.NewFromFloat(req.Budget)),
		StartDate:    startDate,
		EndDate:      endDate,
		Status:       req.Status,
		AffiliateIDs: req.AffiliateIDs,
	}, nil
}

// ListCampaigns 活动列表
func (h *Handler) ListCampaigns(c *gin.Context) {
	page, pageSize := parsePagination(c)
	filter := repository.CampaignListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Status:   c.Query("status"),
	}

	campaigns, total, err := h.CampaignService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "list campaigns failed", err)
		return
	}

	response.SuccessWithPage(c, campaigns, response.NewPagination(page, pageSize, total))
}

// GetCampaign 活动详情
func (h *Handler) GetCampaign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	campaign, err := h.CampaignService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "campaign not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "get campaign failed", err)
		return
	}

	response.Success(c, campaign)
}

// CreateCampaign 创建活动
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid campaign payload", err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid campaign dates", err)
		return
	}

	campaign, err := h.CampaignService.Create(c.Request.Context(), input)
	if err != nil {
		respondCampaignError(c, err, "create campaign failed")
		return
	}

	response.Success(c, campaign)
}

// UpdateCampaign 更新活动
func (h *Handler) UpdateCampaign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid campaign payload", err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid campaign dates", err)
		return
	}

	campaign, err := h.CampaignService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondCampaignError(c, err, "update campaign failed")
		return
	}

	response.Success(c, campaign)
}

// DeleteCampaign 删除活动
func (h *Handler) DeleteCampaign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.CampaignService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "campaign not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "delete campaign failed", err)
		return
	}

	response.SuccessWithMsg(c, "campaign deleted", gin.H{"id": id})
}

// RecalculateCampaign 手动触发活动聚合重算
func (h *Handler) RecalculateCampaign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.CampaignService.RecalculateAggregates(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "campaign not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "recalculate campaign failed", err)
		return
	}

	campaign, err := h.CampaignService.Get(id)
	if err != nil {
		respondError(c, response.CodeInternal, "get campaign failed", err)
		return
	}
	response.Success(c, campaign)
}

func respondCampaignError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "campaign not found", nil)
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(c, response.CodeBadRequest, "invalid campaign status", nil)
	case errors.Is(err, service.ErrInvalidDateRange):
		respondError(c, response.CodeBadRequest, "end date must not be before start date", nil)
	case errors.Is(err, service.ErrAffiliateNotFound):
		respondError(c, response.CodeBadRequest, "one or more affiliates do not exist", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}
