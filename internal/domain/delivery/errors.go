package delivery

import "errors"

var (
	ErrDeliveryNotFound     = errors.New("delivery not found")
	ErrInvalidStatus        = errors.New("invalid delivery status")
	ErrInvalidInvoiceStatus = errors.New("invalid invoice status")
)
