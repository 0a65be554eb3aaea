package handlers

import (
	"errors"

	"github.com/nexify/nexify-api/internal/http/response"
	"github.com/nexify/nexify-api/internal/repository"
	"github.com/nexify/nexify-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateAffiliateRequest 创建/更新联盟伙伴请求
type CreateAffiliateRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Email       string `json:"email" binding:"required,email"`
	CampaignIDs []uint `json:"campaign_ids"`
}

// ListAffiliates 联盟伙伴列表
func (h *Handler) ListAffiliates(c *gin.Context) {
	page, pageSize := parsePagination(c)

	affiliates, total, err := h.AffiliateService.List(repository.AffiliateListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "list affiliates failed", err)
		return
	}

	response.SuccessWithPage(c, affiliates, response.NewPagination(page, pageSize, total))
}

// GetAffiliate 联盟伙伴详情
func (h *Handler) GetAffiliate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	affiliate, err := h.AffiliateService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "affiliate not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "get affiliate failed", err)
		return
	}

	response.Success(c, affiliate)
}

// CreateAffiliate 创建联盟伙伴
func (h *Handler) CreateAffiliate(c *gin.Context) {
	var req CreateAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid affiliate payload", err)
		return
	}

	affiliate, err := h.AffiliateService.Create(c.Request.Context(), service.CreateAffiliateInput{
		Name:        req.Name,
		Email:       req.Email,
		CampaignIDs: req.CampaignIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeBadRequest, "email already in use", nil)
		case errors.Is(err, service.ErrCampaignNotFound):
			respondError(c, response.CodeBadRequest, "one or more campaigns do not exist", nil)
		default:
			respondError(c, response.CodeInternal, "create affiliate failed", err)
		}
		return
	}

	response.Success(c, affiliate)
}

// UpdateAffiliate 更新联盟伙伴
func (h *Handler) UpdateAffiliate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid affiliate payload", err)
		return
	}

	affiliate, err := h.AffiliateService.Update(c.Request.Context(), id, service.CreateAffiliateInput{
		Name:        req.Name,
		Email:       req.Email,
		CampaignIDs: req.CampaignIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "affiliate not found", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeBadRequest, "email already in use", nil)
		case errors.Is(err, service.ErrCampaignNotFound):
			respondError(c, response.CodeBadRequest, "one or more campaigns do not exist", nil)
		default:
			respondError(c, response.CodeInternal, "update affiliate failed", err)
		}
		return
	}

	response.Success(c, affiliate)
}

// DeleteAffiliate 删除联盟伙伴
func (h *Handler) DeleteAffiliate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.AffiliateService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "affiliate not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "delete affiliate failed", err)
		return
	}

	response.SuccessWithMsg(c, "affiliate deleted", gin.H{"id": id})
}
