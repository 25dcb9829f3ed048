package model

import (
	"eventro/shared/model"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID             = "id"
	FieldBookingID      = "booking_id"
	FieldUserEmail      = "user_email"
	FieldTransactionID  = "transaction_id"
	FieldValidationID   = "validation_id"
	FieldAmount         = "amount"
	FieldCurrency       = "currency"
	FieldPaymentMethod  = "payment_method"
	FieldStatus         = "status"
	FieldCardType       = "card_type"
	FieldCardIssuer     = "card_issuer"
	FieldCardBrand      = "card_brand"
	FieldPaymentDetails = "payment_details"

	MethodSSLCommerz = "sslcommerz"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

type Payment struct {
	ID             string         `db:"id"`
	BookingID      string         `db:"booking_id"`
	UserEmail      string         `db:"user_email"`
	TransactionID  string         `db:"transaction_id"`
	ValidationID   *string        `db:"validation_id"`
	Amount         float64        `db:"amount"`
	Currency       string         `db:"currency"`
	PaymentMethod  string         `db:"payment_method"`
	Status         string         `db:"status"`
	CardType       *string        `db:"card_type"`
	CardIssuer     *string        `db:"card_issuer"`
	CardBrand      *string        `db:"card_brand"`
	PaymentDetails types.JSONText `db:"payment_details"`
	model.Metadata
}
