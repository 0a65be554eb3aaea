package repository

import (
	"errors"
	"strings"

	"github.com/nexify/nexify-api/internal/models"

	"gorm.io/gorm"
)

// AffiliateRepository 联盟伙伴数据访问接口
type AffiliateRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AffiliateRepository

	GetByID(id uint) (*models.Affiliate, error)
	GetDetailByID(id uint) (*models.Affiliate, error)
	GetByEmail(email string) (*models.Affiliate, error)
	List(filter AffiliateListFilter) ([]models.Affiliate, int64, error)
	ListByIDs(ids []uint) ([]models.Affiliate, error)
	Create(affiliate *models.Affiliate) error
	Update(affiliate *models.Affiliate) error
	ReplaceCampaigns(affiliate *models.Affiliate, campaigns []models.Campaign) error
	Delete(id uint) error
}

// GormAffiliateRepository GORM 联盟伙伴仓储
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository 创建联盟伙伴仓储
func NewAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAffiliateRepository) WithTx(tx *gorm.DB) AffiliateRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateRepository{db: tx}
}

// Transaction 执行事务
func (r *GormAffiliateRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 按ID获取联盟伙伴
func (r *GormAffiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetDetailByID 按ID获取联盟伙伴详情（带参与活动）
func (r *GormAffiliateRepository) GetDetailByID(id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Preload("Campaigns").First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// GetByEmail 按邮箱获取联盟伙伴
func (r *GormAffiliateRepository) GetByEmail(email string) (*models.Affiliate, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	var affiliate models.Affiliate
	if err := r.db.Where("email = ?", email).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliate, nil
}

// List 查询联盟伙伴列表
func (r *GormAffiliateRepository) List(filter AffiliateListFilter) ([]models.Affiliate, int64, error) {
	query := r.db.Model(&models.Affiliate{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var affiliates []models.Affiliate
	err := applyPagination(query, filter.Page, filter.PageSize).
		Order("created_at DESC").
		Find(&affiliates).Error
	if err != nil {
		return nil, 0, err
	}
	return affiliates, total, nil
}

// ListByIDs 按ID集合获取联盟伙伴
func (r *GormAffiliateRepository) ListByIDs(ids []uint) ([]models.Affiliate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var affiliates []models.Affiliate
	if err := r.db.Where("id IN ?", ids).Find(&affiliates).Error; err != nil {
		return nil, err
	}
	return affiliates, nil
}

// Create 创建联盟伙伴
func (r *GormAffiliateRepository) Create(affiliate *models.Affiliate) error {
	return r.db.Create(affiliate).Error
}

// Update 更新联盟伙伴
func (r *GormAffiliateRepository) Update(affiliate *models.Affiliate) error {
	return r.db.Save(affiliate).Error
}

// ReplaceCampaigns 全量替换参与的活动
func (r *GormAffiliateRepository) ReplaceCampaigns(affiliate *models.Affiliate, campaigns []models.Campaign) error {
	if affiliate == nil {
		return nil
	}
	return r.db.Model(affiliate).Association("Campaigns").Replace(campaigns)
}

// Delete 删除联盟伙伴（先清除活动关联）
func (r *GormAffiliateRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Affiliate{ID: id}).Association("Campaigns").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Affiliate{}, id).Error
	})
}
