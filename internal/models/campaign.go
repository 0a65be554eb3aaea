package models

import (
	"time"
)

// Campaign 营销活动表
// 说明：total_revenue 与 roi_percentage 是派生字段，只允许聚合计算写入，
// 且必须与触发写入的指标变更处于同一事务。
type Campaign struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                   // 主键
	Name          string     `gorm:"type:varchar(255);not null;index" json:"name"`          // 活动名称
	Budget        Money      `gorm:"type:decimal(10,2);not null;default:0" json:"budget"`   // 预算
	TotalRevenue  Money      `gorm:"type:decimal(10,2);not null;default:0" json:"total_revenue"` // 总收入（派生）
	ROIPercentage float64    `gorm:"column:roi_percentage;not null;default:0" json:"roi_percentage"` // ROI 百分比（派生）
	StartDate     time.Time  `gorm:"not null" json:"start_date"`                            // 开始时间
	EndDate       *time.Time `json:"end_date"`                                              // 结束时间
	Status        string     `gorm:"type:varchar(20);not null;index;default:'draft'" json:"status"` // 活动状态
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt     time.Time  `gorm:"index" json:"updated_at"`                               // 更新时间

	Metrics    []Metric    `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"metrics,omitempty"` // 指标数据
	Affiliates []Affiliate `gorm:"many2many:campaign_affiliates;" json:"affiliates,omitempty"`                 // 联盟伙伴
}

// TableName 指定表名
func (Campaign) TableName() string {
	return "campaigns"
}
