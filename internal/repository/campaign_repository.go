package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/nexify/nexify-api/internal/models"

	"gorm.io/gorm"
)

// CampaignRepository 营销活动数据访问接口
type CampaignRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CampaignRepository

	GetByID(id uint) (*models.Campaign, error)
	GetDetailByID(id uint) (*models.Campaign, error)
	List(filter CampaignListFilter) ([]models.Campaign, int64, error)
	ListByIDs(ids []uint) ([]models.Campaign, error)
	Create(campaign *models.Campaign) error
	Update(campaign *models.Campaign) error
	UpdateAggregates(id uint, totalRevenue models.Money, roiPercentage float64, updatedAt time.Time) error
	Delete(id uint) error
	ReplaceAffiliates(campaign *models.Campaign, affiliates []models.Affiliate) error
	ListMetrics(campaignID uint) ([]models.Metric, error)
}

// GormCampaignRepository GORM 活动仓储
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository 创建活动仓储
func NewCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCampaignRepository) WithTx(tx *gorm.DB) CampaignRepository {
	if tx == nil {
		return r
	}
	return &GormCampaignRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCampaignRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 按ID获取活动（不带关联）
func (r *GormCampaignRepository) GetByID(id uint) (*models.Campaign, error) {
	if id == 0 {
		return nil, nil
	}
	var campaign models.Campaign
	if err := r.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// GetDetailByID 按ID获取活动详情（带指标与联盟伙伴）
func (r *GormCampaignRepository) GetDetailByID(id uint) (*models.Campaign, error) {
	if id == 0 {
		return nil, nil
	}
	var campaign models.Campaign
	err := r.db.
		Preload("Metrics", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp DESC")
		}).
		Preload("Affiliates").
		First(&campaign, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// List 查询活动列表
func (r *GormCampaignRepository) List(filter CampaignListFilter) ([]models.Campaign, int64, error) {
	query := r.db.Model(&models.Campaign{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []models.Campaign
	err := applyPagination(query, filter.Page, filter.PageSize).
		Preload("Affiliates").
		Order("created_at DESC").
		Find(&campaigns).Error
	if err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// ListByIDs 按ID集合获取活动
func (r *GormCampaignRepository) ListByIDs(ids []uint) ([]models.Campaign, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var campaigns []models.Campaign
	if err := r.db.Where("id IN ?", ids).Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Create 创建活动
func (r *GormCampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

// Update 更新活动
func (r *GormCampaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

// UpdateAggregates 写入聚合字段（仅聚合计算调用）
func (r *GormCampaignRepository) UpdateAggregates(id uint, totalRevenue models.Money, roiPercentage float64, updatedAt time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_revenue":  totalRevenue,
			"roi_percentage": roiPercentage,
			"updated_at":     updatedAt,
		}).Error
}

// Delete 删除活动及其全部指标（孤儿清理）
func (r *GormCampaignRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&models.Metric{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Campaign{ID: id}).Association("Affiliates").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Campaign{}, id).Error
	})
}

// ReplaceAffiliates 替换活动的联盟伙伴关联
func (r *GormCampaignRepository) ReplaceAffiliates(campaign *models.Campaign, affiliates []models.Affiliate) error {
	if campaign == nil || campaign.ID == 0 {
		return nil
	}
	return r.db.Model(campaign).Association("Affiliates").Replace(affiliates)
}

// ListMetrics 获取活动全部指标
func (r *GormCampaignRepository) ListMetrics(campaignID uint) ([]models.Metric, error) {
	if campaignID == 0 {
		return nil, nil
	}
	var metrics []models.Metric
	if err := r.db.Where("campaign_id = ?", campaignID).Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}
