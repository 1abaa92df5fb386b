package api

import (
	"strconv"

	"domainhub/internal/middleware"
	"domainhub/internal/response"
	"domainhub/internal/services"

	"github.com/gin-gonic/gin"
)

// PackageHandler 用户套餐接口
type PackageHandler struct {
	packages *services.PackageService
}

// NewPackageHandler 创建套餐接口处理器
func NewPackageHandler(packages *services.PackageService) *PackageHandler {
	return &PackageHandler{packages: packages}
}

// CheckStatus 查询指定域名下的套餐抵扣状态
func (h *PackageHandler) CheckStatus(c *gin.Context) {
	domainID, err := strconv.ParseUint(c.Query("domainId"), 10, 32)
	if err != nil || domainID == 0 {
		response.BadRequest(c, response.CodeBadParams, "缺少或无效的 domainId 参数")
		return
	}

	userID := middleware.CurrentUserID(c)
	status, err := h.packages.CheckStatus(userID, uint(domainID))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, status)
}
