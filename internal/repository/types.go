package repository

// CampaignListFilter 查询活动列表的过滤条件
type CampaignListFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

// MetricListFilter 查询指标列表的过滤条件
type MetricListFilter struct {
	Page       int
	PageSize   int
	CampaignID uint
	Search     string
}

// AffiliateListFilter 查询联盟伙伴列表的过滤条件
type AffiliateListFilter struct {
	Page     int
	PageSize int
	Search   string
}
