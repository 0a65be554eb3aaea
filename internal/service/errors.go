package service

import "errors"

// 服务层通用错误
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailExists        = errors.New("邮箱已被使用")
	ErrInvalidStatus      = errors.New("无效的活动状态")
	ErrInvalidDateRange   = errors.New("结束日期不能早于开始日期")
	ErrAffiliateNotFound  = errors.New("联盟伙伴不存在")
	ErrCampaignNotFound   = errors.New("活动不存在")
)
