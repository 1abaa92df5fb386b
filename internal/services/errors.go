package services

import "errors"

// 业务错误，HTTP映射只发生在 api 层
var (
	ErrInvalidRecordType        = errors.New("record type not allowed")
	ErrDomainNotFound           = errors.New("domain not found")
	ErrOrderNotFound            = errors.New("order not found")
	ErrOrderNotPayable          = errors.New("order not payable")
	ErrPackageDeductedOrder     = errors.New("order already deducted from package")
	ErrPaymentMethodUnavailable = errors.New("payment method unavailable")
	ErrPaymentGateway           = errors.New("payment gateway call failed")
	ErrBalanceNotSupported      = errors.New("balance payment not supported yet")
	ErrInvalidTransition        = errors.New("invalid order state transition")
)
