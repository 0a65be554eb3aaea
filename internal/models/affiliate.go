package models

import (
	"time"
)

// Affiliate 联盟伙伴表（生命周期与活动相互独立）
type Affiliate struct {
	ID        uint      `gorm:"primarykey" json:"id"`                          // 主键
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`  // 伙伴名称
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"` // 联系邮箱（唯一）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                       // 更新时间

	Campaigns []Campaign `gorm:"many2many:campaign_affiliates;" json:"campaigns,omitempty"` // 关联活动
}

// TableName 指定表名
func (Affiliate) TableName() string {
	return "affiliates"
}
