package enum

type PaymentOrderStatus string

const (
	PaymentOrderStatusCreated  PaymentOrderStatus = "CREATED"
	PaymentOrderStatusPaid     PaymentOrderStatus = "PAID"
	PaymentOrderStatusCanceled PaymentOrderStatus = "CANCELED"
)
