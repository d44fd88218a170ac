package models

import "errors"

var (
	ErrQuoteNotFound          = errors.New("quote not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrShippingQuoteNotFound  = errors.New("shipping quote not found")
	ErrCartNotFound           = errors.New("cart not found")
	ErrPaymentOrderNotFound   = errors.New("payment order not found")
	ErrInvalidStateTransition = errors.New("invalid quote state transition")
	ErrQuoteNotAccepted       = errors.New("quote is not accepted")
)
