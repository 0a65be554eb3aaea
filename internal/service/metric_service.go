package service

import (
	"context"
	"time"

	"github.com/nexify/nexify-api/internal/logger"
	"github.com/nexify/nexify-api/internal/models"
	"github.com/nexify/nexify-api/internal/repository"

	"gorm.io/gorm"
)

// MetricService 指标业务服务
// 说明：指标写操作会同步重算所属活动的聚合字段。
type MetricService struct {
	metricRepo   repository.MetricRepository
	campaignRepo repository.CampaignRepository
}

// NewMetricService 创建指标服务
func NewMetricService(metricRepo repository.MetricRepository, campaignRepo repository.CampaignRepository) *MetricService {
	return &MetricService{
		metricRepo:   metricRepo,
		campaignRepo: campaignRepo,
	}
}

// CreateMetricInput 创建/更新指标输入
type CreateMetricInput struct {
	CampaignID  uint
	Name        string
	Value       models.Money
	Clicks      int
	Conversions int
	Revenue     models.Money
	Notes       string
	Timestamp   *time.Time
}

// List 获取指标列表
func (s *MetricService) List(filter repository.MetricListFilter) ([]models.Metric, int64, error) {
	return s.metricRepo.List(filter)
}

// Get 获取指标详情
func (s *MetricService) Get(id uint) (*models.Metric, error) {
	metric, err := s.metricRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if metric == nil {
		return nil, ErrNotFound
	}
	return metric, nil
}

// Create 创建指标并重算活动聚合
func (s *MetricService) Create(ctx context.Context, input CreateMetricInput) (*models.Metric, error) {
	campaign, err := s.campaignRepo.GetByID(input.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}

	timestamp := time.Now()
	if input.Timestamp != nil {
		timestamp = *input.Timestamp
	}

	metric := models.Metric{
		CampaignID:  input.CampaignID,
		Name:        input.Name,
		Value:       input.Value,
		Clicks:      input.Clicks,
		Conversions: input.Conversions,
		Revenue:     input.Revenue,
		Notes:       input.Notes,
		Timestamp:   timestamp,
	}

	err = s.metricRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.metricRepo.WithTx(tx).Create(&metric); err != nil {
			return err
		}
		return recalculateAggregatesTx(s.campaignRepo.WithTx(tx), input.CampaignID)
	})
	if err != nil {
		return nil, err
	}

	invalidateCampaignContext(ctx, input.CampaignID)
	logger.Infow("metric_created", "metric_id", metric.ID, "campaign_id", metric.CampaignID)
	return &metric, nil
}

// Update 更新指标并重算活动聚合
// 说明：指标可在活动之间迁移，新旧活动都需重算。
func (s *MetricService) Update(ctx context.Context, id uint, input CreateMetricInput) (*models.Metric, error) {
	metric, err := s.metricRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if metric == nil {
		return nil, ErrNotFound
	}

	previousCampaignID := metric.CampaignID

	if input.CampaignID != previousCampaignID {
		campaign, err := s.campaignRepo.GetByID(input.CampaignID)
		if err != nil {
			return nil, err
		}
		if campaign == nil {
			return nil, ErrCampaignNotFound
		}
	}

	metric.CampaignID = input.CampaignID
	metric.Name = input.Name
	metric.Value = input.Value
	metric.Clicks = input.Clicks
	metric.Conversions = input.Conversions
	metric.Revenue = input.Revenue
	metric.Notes = input.Notes
	if input.Timestamp != nil {
		metric.Timestamp = *input.Timestamp
	}

	err = s.metricRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.metricRepo.WithTx(tx).Update(metric); err != nil {
			return err
		}
		campaignRepo := s.campaignRepo.WithTx(tx)
		if err := recalculateAggregatesTx(campaignRepo, metric.CampaignID); err != nil {
			return err
		}
		if previousCampaignID != metric.CampaignID {
			return recalculateAggregatesTx(campaignRepo, previousCampaignID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateCampaignContext(ctx, metric.CampaignID)
	if previousCampaignID != metric.CampaignID {
		invalidateCampaignContext(ctx, previousCampaignID)
	}
	return metric, nil
}

// Delete 删除指标并重算活动聚合
func (s *MetricService) Delete(ctx context.Context, id uint) error {
	metric, err := s.metricRepo.GetByID(id)
	if err != nil {
		return err
	}
	if metric == nil {
		return ErrNotFound
	}

	campaignID := metric.CampaignID
	err = s.metricRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.metricRepo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		return recalculateAggregatesTx(s.campaignRepo.WithTx(tx), campaignID)
	})
	if err != nil {
		return err
	}

	invalidateCampaignContext(ctx, campaignID)
	logger.Infow("metric_deleted", "metric_id", id, "campaign_id", campaignID)
	return nil
}
