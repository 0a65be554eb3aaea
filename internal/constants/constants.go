package constants

// 活动状态常量
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
	CampaignStatusPending   = "pending"
)

// ValidCampaignStatuses 合法的活动状态集合
var ValidCampaignStatuses = []string{
	CampaignStatusDraft,
	CampaignStatusActive,
	CampaignStatusPaused,
	CampaignStatusCompleted,
	CampaignStatusPending,
}

// IsValidCampaignStatus 校验活动状态
func IsValidCampaignStatus(status string) bool {
	for _, s := range ValidCampaignStatuses {
		if s == status {
			return true
		}
	}
	return false
}
