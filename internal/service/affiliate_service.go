package service

import (
	"context"
	"strings"

	"github.com/nexify/nexify-api/internal/logger"
	"github.com/nexify/nexify-api/internal/models"
	"github.com/nexify/nexify-api/internal/repository"

	"gorm.io/gorm"
)

// AffiliateService 联盟伙伴业务服务
type AffiliateService struct {
	repo         repository.AffiliateRepository
	campaignRepo repository.CampaignRepository
}

// NewAffiliateService 创建联盟伙伴服务
func NewAffiliateService(repo repository.AffiliateRepository, campaignRepo repository.CampaignRepository) *AffiliateService {
	return &AffiliateService{repo: repo, campaignRepo: campaignRepo}
}

// CreateAffiliateInput 创建/更新联盟伙伴输入
type CreateAffiliateInput struct {
	Name        string
	Email       string
	CampaignIDs []uint
}

// resolveCampaigns 校验并加载关联活动
func (s *AffiliateService) resolveCampaigns(ids []uint) ([]models.Campaign, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return []models.Campaign{}, nil
	}
	campaigns, err := s.campaignRepo.ListByIDs(unique)
	if err != nil {
		return nil, err
	}
	if len(campaigns) != len(unique) {
		return nil, ErrCampaignNotFound
	}
	return campaigns, nil
}

// linkedCampaignIDs 读取联盟伙伴当前关联的活动 ID
func (s *AffiliateService) linkedCampaignIDs(id uint) []uint {
	detail, err := s.repo.GetDetailByID(id)
	if err != nil || detail == nil {
		return nil
	}
	ids := make([]uint, 0, len(detail.Campaigns))
	for _, campaign := range detail.Campaigns {
		ids = append(ids, campaign.ID)
	}
	return ids
}

// invalidateLinkedContexts 上下文缓存里嵌有联盟伙伴名单，关联活动逐个失效
func invalidateLinkedContexts(ctx context.Context, campaignIDs []uint) {
	for _, id := range uniqueIDs(campaignIDs) {
		invalidateCampaignContext(ctx, id)
	}
}

// List 获取联盟伙伴列表
func (s *AffiliateService) List(filter repository.AffiliateListFilter) ([]models.Affiliate, int64, error) {
	return s.repo.List(filter)
}

// Get 获取联盟伙伴详情（带参与活动）
func (s *AffiliateService) Get(id uint) (*models.Affiliate, error) {
	affiliate, err := s.repo.GetDetailByID(id)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}
	return affiliate, nil
}

// Create 创建联盟伙伴
func (s *AffiliateService) Create(ctx context.Context, input CreateAffiliateInput) (*models.Affiliate, error) {
	email := strings.TrimSpace(input.Email)
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	campaigns, err := s.resolveCampaigns(input.CampaignIDs)
	if err != nil {
		return nil, err
	}

	affiliate := models.Affiliate{
		Name:  strings.TrimSpace(input.Name),
		Email: email,
	}
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(&affiliate); err != nil {
			return err
		}
		return repo.ReplaceCampaigns(&affiliate, campaigns)
	})
	if err != nil {
		return nil, err
	}

	invalidateLinkedContexts(ctx, input.CampaignIDs)
	logger.Infow("affiliate_created", "affiliate_id", affiliate.ID, "email", affiliate.Email)
	return s.Get(affiliate.ID)
}

// Update 更新联盟伙伴
func (s *AffiliateService) Update(ctx context.Context, id uint, input CreateAffiliateInput) (*models.Affiliate, error) {
	affiliate, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}

	email := strings.TrimSpace(input.Email)
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrEmailExists
	}

	campaigns, err := s.resolveCampaigns(input.CampaignIDs)
	if err != nil {
		return nil, err
	}
	previous := s.linkedCampaignIDs(id)

	affiliate.Name = strings.TrimSpace(input.Name)
	affiliate.Email = email
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(affiliate); err != nil {
			return err
		}
		return repo.ReplaceCampaigns(affiliate, campaigns)
	})
	if err != nil {
		return nil, err
	}

	invalidateLinkedContexts(ctx, append(previous, input.CampaignIDs...))
	return s.Get(id)
}

// Delete 删除联盟伙伴
func (s *AffiliateService) Delete(ctx context.Context, id uint) error {
	affiliate, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if affiliate == nil {
		return ErrNotFound
	}
	linked := s.linkedCampaignIDs(id)
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	invalidateLinkedContexts(ctx, linked)
	logger.Infow("affiliate_deleted", "affiliate_id", id)
	return nil
}
