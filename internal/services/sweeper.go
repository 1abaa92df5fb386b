package services

import (
	"context"

	"domainhub/internal/config"
	"domainhub/pkg/logging"

	"github.com/robfig/cron/v3"
)

// Sweeper 后台定时任务：订单/套餐过期扫描与DNS创建重试
type Sweeper struct {
	cron     *cron.Cron
	orders   *OrderService
	packages *PackageService
}

// NewSweeper 创建后台任务调度器
func NewSweeper(orders *OrderService, packages *PackageService) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		orders:   orders,
		packages: packages,
	}
}

// Start 注册并启动定时任务，spec 非法时返回错误
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(config.AppConfig.ExpireSweepSpec, func() {
		if _, err := s.orders.ExpireSweep(); err != nil {
			logging.Errorf("订单过期扫描失败: %v", err)
		}
		if _, err := s.packages.ExpireSweep(); err != nil {
			logging.Errorf("套餐过期扫描失败: %v", err)
		}
	})
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc(config.AppConfig.ProvisionRetrySpec, func() {
		s.orders.RetryProvisioning(context.Background(), 20)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logging.Infof("后台任务已启动：过期扫描 %s，DNS重试 %s",
		config.AppConfig.ExpireSweepSpec, config.AppConfig.ProvisionRetrySpec)
	return nil
}

// Stop 停止调度，等待在跑任务结束
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
