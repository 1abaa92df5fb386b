package api

import (
	"errors"

	"domainhub/internal/database"
	"domainhub/internal/provider"
	"domainhub/internal/response"
	"domainhub/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler 管理端接口
type AdminHandler struct {
	orders   *services.OrderService
	registry *provider.Registry
}

// NewAdminHandler 创建管理端接口处理器
func NewAdminHandler(orders *services.OrderService, registry *provider.Registry) *AdminHandler {
	return &AdminHandler{orders: orders, registry: registry}
}

// ListOrders 按状态分页查询订单
func (h *AdminHandler) ListOrders(c *gin.Context) {
	status := c.Query("status")
	page, pageSize := pagination(c)

	orders, total, err := h.orders.ListByStatus(status, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, toOrderView(&orders[i]))
	}

	response.Success(c, gin.H{
		"list":     views,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

type reviewOrderRequest struct {
	Approve bool   `json:"approve"`
	Remark  string `json:"remark" binding:"max=500"`
}

// ReviewOrder 审核 reviewing 状态的订单
func (h *AdminHandler) ReviewOrder(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	var req reviewOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParams, "请求参数错误: "+err.Error())
		return
	}

	if err := h.orders.ReviewOrder(c.Request.Context(), orderID, req.Approve, req.Remark); err != nil {
		handleServiceError(c, err)
		return
	}

	if req.Approve {
		response.SuccessMsg(c, "审核通过", nil)
		return
	}
	response.SuccessMsg(c, "审核已拒绝", nil)
}

// ListDomainRecords 查看域名在云平台的解析记录
func (h *AdminHandler) ListDomainRecords(c *gin.Context) {
	domainID, ok := pathID(c, "domainId")
	if !ok {
		return
	}

	domain, err := database.GetDomainByID(domainID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = services.ErrDomainNotFound
		}
		handleServiceError(c, err)
		return
	}

	p, err := h.registry.ForDomain(domain.DomainName)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	page, pageSize := pagination(c)
	records, err := p.ListRecords(c.Request.Context(), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// 站内引用数（套餐+订单），下线域名前的参考
	references, err := database.CountDomainReferences(domain.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"platform":   p.Name(),
		"domain":     domain.DomainName,
		"references": references,
		"list":       records,
		"page":       page,
		"pageSize":   pageSize,
	})
}

// ListCredentialZones 查看凭证名下可管理的域名列表
func (h *AdminHandler) ListCredentialZones(c *gin.Context) {
	credentialID, ok := pathID(c, "credentialId")
	if !ok {
		return
	}

	p, err := h.registry.ForCredential(credentialID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	page, pageSize := pagination(c)
	zones, err := p.ListZones(c.Request.Context(), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"platform": p.Name(),
		"list":     zones,
		"page":     page,
		"pageSize": pageSize,
	})
}

// ListPaymentSettings 支付配置列表，配置中的密钥字段脱敏后返回
func (h *AdminHandler) ListPaymentSettings(c *gin.Context) {
	settings, err := database.ListPaymentSettings()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	type settingView struct {
		ID            uint   `json:"id"`
		PaymentMethod string `json:"paymentMethod"`
		PaymentName   string `json:"paymentName"`
		ConfigData    string `json:"configData"`
		IsEnabled     bool   `json:"isEnabled"`
		SortOrder     int    `json:"sortOrder"`
		Description   string `json:"description,omitempty"`
	}

	views := make([]settingView, 0, len(settings))
	for _, s := range settings {
		views = append(views, settingView{
			ID:            s.ID,
			PaymentMethod: s.PaymentMethod,
			PaymentName:   s.PaymentName,
			ConfigData:    response.MaskConfigJSON(s.ConfigData),
			IsEnabled:     s.IsEnabled,
			SortOrder:     s.SortOrder,
			Description:   s.Description,
		})
	}
	response.Success(c, views)
}
