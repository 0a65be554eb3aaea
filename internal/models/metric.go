package models

import (
	"time"
)

// Metric 活动效果指标表
// 说明：revenue 为零时，名称含 "revenue" 的指标以 value 兜底参与收入聚合。
type Metric struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                 // 主键
	CampaignID  uint      `gorm:"index;not null" json:"campaign_id"`                    // 所属活动ID
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`               // 指标名称
	Value       Money     `gorm:"type:decimal(10,2);not null;default:0" json:"value"`   // 指标值
	Clicks      int       `gorm:"not null;default:0" json:"clicks"`                     // 点击数
	Conversions int       `gorm:"not null;default:0" json:"conversions"`                // 转化数
	Revenue     Money     `gorm:"type:decimal(10,2);not null;default:0" json:"revenue"` // 收入
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`                     // 备注
	Timestamp   time.Time `gorm:"index;not null" json:"timestamp"`                      // 业务发生时间
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`                              // 更新时间

	Campaign *Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"` // 所属活动
}

// TableName 指定表名
func (Metric) TableName() string {
	return "metrics"
}
