package repository

import (
	"errors"
	"strings"

	"github.com/nexify/nexify-api/internal/models"

	"gorm.io/gorm"
)

// MetricRepository 指标数据访问接口
type MetricRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) MetricRepository

	GetByID(id uint) (*models.Metric, error)
	List(filter MetricListFilter) ([]models.Metric, int64, error)
	ListByCampaign(campaignID uint) ([]models.Metric, error)
	Create(metric *models.Metric) error
	Update(metric *models.Metric) error
	Delete(id uint) error
}

// GormMetricRepository GORM 指标仓储
type GormMetricRepository struct {
	db *gorm.DB
}

// NewMetricRepository 创建指标仓储
func NewMetricRepository(db *gorm.DB) *GormMetricRepository {
	return &GormMetricRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMetricRepository) WithTx(tx *gorm.DB) MetricRepository {
	if tx == nil {
		return r
	}
	return &GormMetricRepository{db: tx}
}

// Transaction 执行事务
func (r *GormMetricRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 按ID获取指标
func (r *GormMetricRepository) GetByID(id uint) (*models.Metric, error) {
	if id == 0 {
		return nil, nil
	}
	var metric models.Metric
	if err := r.db.First(&metric, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metric, nil
}

// List 查询指标列表（按时间倒序）
func (r *GormMetricRepository) List(filter MetricListFilter) ([]models.Metric, int64, error) {
	query := r.db.Model(&models.Metric{})

	if filter.CampaignID > 0 {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var metrics []models.Metric
	err := applyPagination(query, filter.Page, filter.PageSize).
		Order("timestamp DESC").
		Find(&metrics).Error
	if err != nil {
		return nil, 0, err
	}
	return metrics, total, nil
}

// ListByCampaign 获取某活动全部指标
func (r *GormMetricRepository) ListByCampaign(campaignID uint) ([]models.Metric, error) {
	if campaignID == 0 {
		return nil, nil
	}
	var metrics []models.Metric
	if err := r.db.Where("campaign_id = ?", campaignID).Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}

// Create 创建指标
func (r *GormMetricRepository) Create(metric *models.Metric) error {
	return r.db.Create(metric).Error
}

// Update 更新指标
func (r *GormMetricRepository) Update(metric *models.Metric) error {
	return r.db.Save(metric).Error
}

// Delete 删除指标
func (r *GormMetricRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Metric{}, id).Error
}
