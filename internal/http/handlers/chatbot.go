package handlers

import (
	"github.com/nexify/nexify-api/internal/http/response"
	"github.com/nexify/nexify-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatbotQueryRequest 聊天查询请求
type ChatbotQueryRequest struct {
	Query      string `json:"query" binding:"required,min=1,max=1000"`
	CampaignID uint   `json:"campaignId" binding:"omitempty,gt=0"`
}

// ChatbotQueryResponse 聊天查询响应
type ChatbotQueryResponse struct {
	Response string `json:"response"`
}

// ChatbotQuery 处理聊天查询
// 指定了活动但活动不存在时直接返回 404，不触发上游调用。
func (h *Handler) ChatbotQuery(c *gin.Context) {
	var req ChatbotQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid chatbot payload", err)
		return
	}

	ctx := c.Request.Context()

	var campaignContext *service.CampaignContext
	if req.CampaignID > 0 {
		campaignContext = h.ChatbotService.BuildCampaignContext(ctx, req.CampaignID)
		if campaignContext == nil {
			respondError(c, response.CodeNotFound, "campaign not found", nil)
			return
		}
	}

	answer := h.ChatbotService.GenerateResponse(ctx, req.Query, campaignContext)
	response.Success(c, ChatbotQueryResponse{Response: answer})
}
