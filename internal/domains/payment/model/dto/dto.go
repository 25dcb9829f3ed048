package dto

import (
	bookingModel "eventro/internal/domains/booking/model"
	"eventro/internal/domains/payment/model"
	"eventro/shared"
	gDto "eventro/shared/dto"
)

type InitiatePaymentResponse struct {
	BookingID      string `json:"booking_id"`
	TransactionID  string `json:"transaction_id"`
	GatewayPageURL string `json:"gateway_page_url"`
	SessionKey     string `json:"session_key"`
}

// IPNRequest is the instant payment notification payload the gateway posts
// server-to-server after settling a transaction.
type IPNRequest struct {
	Status        string `json:"status"         validate:"required"`
	TransactionID string `json:"tran_id"        validate:"required"`
	ValidationID  string `json:"val_id"         validate:"required"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	CardType      string `json:"card_type"`
	CardIssuer    string `json:"card_issuer"`
	CardBrand     string `json:"card_brand"`
	ValueA        string `json:"value_a"`
	ValueB        string `json:"value_b"`
}

type PaymentResponse struct {
	ID            string  `json:"id"`
	BookingID     string  `json:"booking_id"`
	UserEmail     string  `json:"user_email"`
	TransactionID string  `json:"transaction_id"`
	ValidationID  *string `json:"validation_id,omitempty"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	CardType      *string `json:"card_type,omitempty"`
	CardIssuer    *string `json:"card_issuer,omitempty"`
	CardBrand     *string `json:"card_brand,omitempty"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(mod model.Payment) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.UserEmail = mod.UserEmail
	r.TransactionID = mod.TransactionID
	r.ValidationID = mod.ValidationID
	r.Amount = mod.Amount
	r.Currency = mod.Currency
	r.PaymentMethod = mod.PaymentMethod
	r.Status = mod.Status
	r.CardType = mod.CardType
	r.CardIssuer = mod.CardIssuer
	r.CardBrand = mod.CardBrand
	r.Metadata.FromModel(mod.Metadata)
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
	}
}

// PaymentStatusResponse projects the booking's payment axis with the matching
// payment record, when one exists.
type PaymentStatusResponse struct {
	BookingID        string           `json:"booking_id"`
	BookingStatus    string           `json:"booking_status"`
	PaymentStatus    string           `json:"payment_status"`
	TransactionID    string           `json:"transaction_id"`
	PaymentInitiated bool             `json:"payment_initiated"`
	PaymentVerified  bool             `json:"payment_verified"`
	FinalPrice       float64          `json:"final_price"`
	Payment          *PaymentResponse `json:"payment,omitempty"`
}

func (r *PaymentStatusResponse) FromBooking(booking bookingModel.Booking) {
	r.BookingID = booking.ID
	r.BookingStatus = string(booking.Status)
	r.PaymentStatus = string(booking.PaymentStatus)
	r.TransactionID = booking.TransactionID
	r.PaymentInitiated = booking.PaymentInitiated
	r.PaymentVerified = booking.PaymentVerified
	r.FinalPrice = booking.FinalPrice
}
