package services

import (
	"errors"
	"time"

	"domainhub/internal/database"
	"domainhub/pkg/logging"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PackageService 套餐台账：判定可抵扣套餐并执行原子预留/归还
type PackageService struct{}

// NewPackageService 创建套餐服务
func NewPackageService() *PackageService {
	return &PackageService{}
}

// PackageStatusItem 单个可用套餐的快照
type PackageStatusItem struct {
	PackageID      uint      `json:"packageId"`
	PackageName    string    `json:"packageName"`
	TotalCount     int       `json:"totalCount"`
	UsedCount      int       `json:"usedCount"`
	AvailableCount int       `json:"availableCount"`
	ValidEnd       time.Time `json:"validEnd"`
}

// PackageStatus 用户在某域名下的套餐可用性
type PackageStatus struct {
	HasPackage     bool                `json:"hasPackage"`
	Packages       []PackageStatusItem `json:"packages"`
	TotalAvailable int                 `json:"totalAvailable"`
	CanUsePackage  bool                `json:"canUsePackage"`
	SinglePrice    *decimal.Decimal    `json:"singlePrice,omitempty"`
}

// CheckStatus 查询用户在指定域名下的套餐可用性
func (s *PackageService) CheckStatus(userID, domainID uint) (*PackageStatus, error) {
	domain, err := database.GetDomainByID(domainID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDomainNotFound
		}
		return nil, err
	}

	packages, err := database.FindEligiblePackagesWithDetail(userID, domainID, time.Now())
	if err != nil {
		return nil, err
	}

	if len(packages) == 0 {
		price := domain.Price
		return &PackageStatus{
			HasPackage:  false,
			Packages:    []PackageStatusItem{},
			SinglePrice: &price,
		}, nil
	}

	items := make([]PackageStatusItem, 0, len(packages))
	totalAvailable := 0
	for _, up := range packages {
		name := ""
		if up.Package != nil {
			name = up.Package.Name
		}
		items = append(items, PackageStatusItem{
			PackageID:      up.PackageID,
			PackageName:    name,
			TotalCount:     up.TotalCount,
			UsedCount:      up.UsedCount,
			AvailableCount: up.AvailableCount(),
			ValidEnd:       up.ValidEnd,
		})
		totalAvailable += up.AvailableCount()
	}

	return &PackageStatus{
		HasPackage:     true,
		Packages:       items,
		TotalAvailable: totalAvailable,
		CanUsePackage:  totalAvailable > 0,
	}, nil
}

// ReserveSlot 在调用方事务内预留一个抵扣名额。
// 按到期时间升序扫描，第一个条件扣减成功的套餐即为预留结果；
// 输掉并发竞争的套餐跳过，全部失败时 reserved=false，调用方落入支付流程。
func (s *PackageService) ReserveSlot(tx *gorm.DB, userID, domainID uint, now time.Time) (reserved bool, packageID uint, err error) {
	packages, err := database.FindEligiblePackages(tx, userID, domainID, now)
	if err != nil {
		return false, 0, err
	}

	for i := range packages {
		if packages[i].AvailableCount() <= 0 {
			continue
		}
		ok, err := database.ConsumeSlot(tx, packages[i].ID)
		if err != nil {
			return false, 0, err
		}
		if ok {
			return true, packages[i].ID, nil
		}
	}
	return false, 0, nil
}

// ReleaseSlot 在调用方事务内归还一个名额（审核拒绝的补偿）
func (s *PackageService) ReleaseSlot(tx *gorm.DB, userPackageID uint) error {
	return database.RestoreSlot(tx, userPackageID)
}

// ExpireSweep 将有效期已过的套餐置为 expired，幂等
func (s *PackageService) ExpireSweep() (int64, error) {
	count, err := database.ExpireUserPackages(time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logging.Infof("套餐过期扫描：%d 个套餐已过期", count)
	}
	return count, nil
}
