package api

import (
	"domainhub/internal/middleware"
	"domainhub/internal/models"
	"domainhub/internal/response"
	"domainhub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// OrderHandler 解析订单接口
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler 创建订单接口处理器
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderRequest struct {
	DomainID    uint   `json:"domainId" binding:"required"`
	WebsiteName string `json:"websiteName" binding:"required,max=50"`
	Hostname    string `json:"hostname" binding:"required,max=100"`
	RecordType  string `json:"recordType" binding:"required"`
	RecordValue string `json:"recordValue" binding:"required,max=255"`
	Remark      string `json:"remark" binding:"max=200"`
}

type orderView struct {
	ID            uint            `json:"id"`
	OrderNo       string          `json:"orderNo"`
	DomainID      uint            `json:"domainId"`
	DomainName    string          `json:"domainName,omitempty"`
	WebsiteName   string          `json:"websiteName"`
	Hostname      string          `json:"hostname"`
	FullHostname  string          `json:"fullHostname"`
	RecordType    string          `json:"recordType"`
	RecordValue   string          `json:"recordValue"`
	TTL           int             `json:"ttl"`
	Price         decimal.Decimal `json:"price"`
	DeductPackage bool            `json:"deductPackage"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	CloudRecordID string          `json:"cloudRecordId,omitempty"`
	Remark        string          `json:"remark,omitempty"`
	ReviewRemark  string          `json:"reviewRemark,omitempty"`
	CreatedAt     string          `json:"createdAt"`
	PaymentTime   string          `json:"paymentTime,omitempty"`
	ExpiresAt     string          `json:"expiresAt,omitempty"`
}

const timeLayout = "2006-01-02 15:04:05"

func toOrderView(o *models.ParseOrder) orderView {
	v := orderView{
		ID:            o.ID,
		OrderNo:       o.OrderNo,
		DomainID:      o.DomainID,
		WebsiteName:   o.WebsiteName,
		Hostname:      o.Hostname,
		FullHostname:  o.FullHostname,
		RecordType:    o.RecordType,
		RecordValue:   o.RecordValue,
		TTL:           o.TTL,
		Price:         o.Price,
		DeductPackage: o.DeductPackage,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		CloudRecordID: o.CloudRecordID,
		Remark:        o.Remark,
		ReviewRemark:  o.ReviewRemark,
		CreatedAt:     o.CreatedAt.Format(timeLayout),
	}
	if o.Domain != nil {
		v.DomainName = o.Domain.DomainName
	}
	if o.PaymentTime != nil {
		v.PaymentTime = o.PaymentTime.Format(timeLayout)
	}
	if o.ExpiresAt != nil {
		v.ExpiresAt = o.ExpiresAt.Format(timeLayout)
	}
	return v
}

// Create 创建解析订单
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParams, "请求参数错误: "+err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	order, domain, err := h.orders.CreateOrder(c.Request.Context(), userID, services.CreateOrderInput{
		DomainID:    req.DomainID,
		WebsiteName: req.WebsiteName,
		Hostname:    req.Hostname,
		RecordType:  req.RecordType,
		RecordValue: req.RecordValue,
		Remark:      req.Remark,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	order.Domain = domain
	response.Success(c, toOrderView(order))
}

type payOrderRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// Pay 对待支付订单发起支付
func (h *OrderHandler) Pay(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	var req payOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParams, "请求参数错误: "+err.Error())
		return
	}

	userID := middleware.CurrentUserID(c)
	intent, order, err := h.orders.PayOrder(c.Request.Context(), userID, orderID, req.PaymentMethod, c.ClientIP())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"orderId":       order.ID,
		"orderNo":       order.OrderNo,
		"paymentMethod": intent.PaymentMethod,
		"paymentUrl":    intent.PaymentURL,
		"qrCode":        intent.QRCode,
		"amount":        intent.Amount,
		"expiresAt":     intent.ExpiresAt,
	})
}

// List 用户订单列表（分页，新订单在前）
func (h *OrderHandler) List(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	page, pageSize := pagination(c)

	orders, total, err := h.orders.ListUserOrders(userID, page, pageSize)
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

// Cancel 取消未支付订单
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.orders.CancelOrder(c.Request.Context(), userID, orderID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessMsg(c, "订单已取消", nil)
}
