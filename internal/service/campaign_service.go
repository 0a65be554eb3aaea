package service

import (
	"context"
	"time"

	"github.com/nexify/nexify-api/internal/constants"
	"github.com/nexify/nexify-api/internal/logger"
	"github.com/nexify/nexify-api/internal/models"
	"github.com/nexify/nexify-api/internal/repository"

	"gorm.io/gorm"
)

// CampaignService 营销活动业务服务
type CampaignService struct {
	campaignRepo  repository.CampaignRepository
	affiliateRepo repository.AffiliateRepository
}

// NewCampaignService 创建活动服务
func NewCampaignService(campaignRepo repository.CampaignRepository, affiliateRepo repository.AffiliateRepository) *CampaignService {
	return &CampaignService{
		campaignRepo:  campaignRepo,
		affiliateRepo: affiliateRepo,
	}
}

// CreateCampaignInput 创建/更新活动输入
type CreateCampaignInput struct {
	Name         string
	Budget       models.Money
	StartDate    time.Time
	EndDate      *time.Time
	Status       string
	AffiliateIDs []uint
}

func (input CreateCampaignInput) validate() error {
	if !constants.IsValidCampaignStatus(input.Status) {
		return ErrInvalidStatus
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// resolveAffiliates 校验并加载关联的联盟伙伴
func (s *CampaignService) resolveAffiliates(ids []uint) ([]models.Affiliate, error) {
	if len(ids) == 0 {
		return []models.Affiliate{}, nil
	}
	affiliates, err := s.affiliateRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(affiliates) != len(uniqueIDs(ids)) {
		return nil, ErrAffiliateNotFound
	}
	return affiliates, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// List 获取活动列表
func (s *CampaignService) List(filter repository.CampaignListFilter) ([]models.Campaign, int64, error) {
	return s.campaignRepo.List(filter)
}

// Get 获取活动详情（带指标与联盟伙伴）
func (s *CampaignService) Get(id uint) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetDetailByID(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrNotFound
	}
	return campaign, nil
}

// Create 创建活动
func (s *CampaignService) Create(ctx context.Context, input CreateCampaignInput) (*models.Campaign, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	affiliates, err := s.resolveAffiliates(input.AffiliateIDs)
	if err != nil {
		return nil, err
	}

	campaign := models.Campaign{
		Name:      input.Name,
		Budget:    input.Budget,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    input.Status,
	}

	err = s.campaignRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.campaignRepo.WithTx(tx)
		if err := repo.Create(&campaign); err != nil {
			return err
		}
		return repo.ReplaceAffiliates(&campaign, affiliates)
	})
	if err != nil {
		return nil, err
	}

	campaign.Affiliates = affiliates
	logger.Infow("campaign_created", "campaign_id", campaign.ID, "name", campaign.Name)
	return &campaign, nil
}

// Update 更新活动
// 说明：预算变更会影响 ROI，更新后重算聚合字段并失效上下文缓存。
func (s *CampaignService) Update(ctx context.Context, id uint, input CreateCampaignInput) (*models.Campaign, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrNotFound
	}

	affiliates, err := s.resolveAffiliates(input.AffiliateIDs)
	if err != nil {
		return nil, err
	}

	campaign.Name = input.Name
	campaign.Budget = input.Budget
	campaign.StartDate = input.StartDate
	campaign.EndDate = input.EndDate
	campaign.Status = input.Status

	err = s.campaignRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.campaignRepo.WithTx(tx)
		if err := repo.Update(campaign); err != nil {
			return err
		}
		if err := repo.ReplaceAffiliates(campaign, affiliates); err != nil {
			return err
		}
		return recalculateAggregatesTx(repo, campaign.ID)
	})
	if err != nil {
		return nil, err
	}

	invalidateCampaignContext(ctx, campaign.ID)
	return s.Get(campaign.ID)
}

// Delete 删除活动及其指标
func (s *CampaignService) Delete(ctx context.Context, id uint) error {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return err
	}
	if campaign == nil {
		return ErrNotFound
	}

	if err := s.campaignRepo.Delete(id); err != nil {
		return err
	}

	invalidateCampaignContext(ctx, id)
	logger.Infow("campaign_deleted", "campaign_id", id)
	return nil
}

// RecalculateAggregates 对外暴露的聚合重算入口
func (s *CampaignService) RecalculateAggregates(ctx context.Context, id uint) error {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return err
	}
	if campaign == nil {
		return ErrNotFound
	}

	err = s.campaignRepo.Transaction(func(tx *gorm.DB) error {
		return recalculateAggregatesTx(s.campaignRepo.WithTx(tx), id)
	})
	if err != nil {
		return err
	}

	invalidateCampaignContext(ctx, id)
	return nil
}

// recalculateAggregatesTx 在事务内重算活动聚合字段
func recalculateAggregatesTx(repo repository.CampaignRepository, campaignID uint) error {
	campaign, err := repo.GetByID(campaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return ErrNotFound
	}

	metrics, err := repo.ListMetrics(campaignID)
	if err != nil {
		return err
	}

	aggregates := CalculateCampaignAggregates(campaign.Budget, metrics)
	if err := repo.UpdateAggregates(campaignID, aggregates.TotalRevenue, aggregates.ROIPercentage, time.Now()); err != nil {
		return err
	}

	logger.Debugw("campaign_aggregates_updated",
		"campaign_id", campaignID,
		"total_revenue", aggregates.TotalRevenue.String(),
		"roi_percentage", aggregates.ROIPercentage,
	)
	return nil
}
