package dto

import (
	"eventro/internal/domains/booking/model"
	eventModel "eventro/internal/domains/event/model"
	"eventro/shared"
	gDto "eventro/shared/dto"
	gModel "eventro/shared/model"
	"eventro/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	EventID        string  `json:"event_id"        validate:"required,uuid"`
	UserEmail      string  `json:"user_email"      validate:"required,email"`
	UserName       string  `json:"user_name"       validate:"required,min=2,max=100"`
	UserPhoto      *string `json:"user_photo,omitempty"`
	EventDate      string  `json:"event_date"      validate:"required"`
	CouponCode     *string `json:"coupon_code,omitempty"`
	DiscountAmount float64 `json:"discount_amount" validate:"gte=0"`
}

// ToModel snapshots the package fields onto the booking so later package edits
// cannot change what the customer agreed to pay for.
func (r *CreateBookingRequest) ToModel(event eventModel.EventPackage, eventDate time.Time, userID string) model.Booking {
	totalPrice := event.Price
	finalPrice := totalPrice - r.DiscountAmount

	var cartImage *string
	if len(event.Images) > 0 {
		cartImage = &event.Images[0]
	}

	return model.Booking{
		ID:                  uuid.NewString(),
		EventID:             r.EventID,
		UserID:              userID,
		UserEmail:           r.UserEmail,
		UserName:            r.UserName,
		UserPhoto:           r.UserPhoto,
		PackageName:         event.PackageName,
		CartImage:           cartImage,
		EventDate:           eventDate,
		TotalPrice:          totalPrice,
		Features:            event.Features,
		PhotographyTeamSize: event.PhotographyTeamSize,
		Videography:         event.Videography,
		DurationHours:       event.DurationHours,
		ExpectedAttendance:  event.ExpectedAttendance,
		StaffTeamSize:       event.StaffTeamSize,
		Status:              model.StatusPending,
		PaymentStatus:       model.PaymentStatusPending,
		TransactionID:       uuid.NewString(),
		CouponCode:          r.CouponCode,
		DiscountAmount:      r.DiscountAmount,
		FinalPrice:          finalPrice,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

type BookingResponse struct {
	ID                  string   `json:"id"`
	EventID             string   `json:"event_id"`
	UserID              string   `json:"user_id"`
	UserEmail           string   `json:"user_email"`
	UserName            string   `json:"user_name"`
	UserPhoto           *string  `json:"user_photo,omitempty"`
	PackageName         string   `json:"package_name"`
	CartImage           *string  `json:"cart_image,omitempty"`
	EventDate           string   `json:"event_date"`
	TotalPrice          float64  `json:"total_price"`
	Features            []string `json:"features"`
	PhotographyTeamSize int      `json:"photography_team_size"`
	Videography         bool     `json:"videography"`
	DurationHours       int      `json:"duration_hours"`
	ExpectedAttendance  int      `json:"expected_attendance"`
	StaffTeamSize       int      `json:"staff_team_size"`
	Status              string   `json:"status"`
	PaymentStatus       string   `json:"payment_status"`
	TransactionID       string   `json:"transaction_id"`
	CouponCode          *string  `json:"coupon_code,omitempty"`
	DiscountAmount      float64  `json:"discount_amount"`
	FinalPrice          float64  `json:"final_price"`
	PaymentMethod       *string  `json:"payment_method,omitempty"`
	PaymentInitiated    bool     `json:"payment_initiated"`
	PaymentInitiatedAt  *string  `json:"payment_initiated_at,omitempty"`
	PaymentVerified     bool     `json:"payment_verified"`
	PaymentVerifiedAt   *string  `json:"payment_verified_at,omitempty"`
	ConfirmedBy         *string  `json:"confirmed_by,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.EventID = mod.EventID
	r.UserID = mod.UserID
	r.UserEmail = mod.UserEmail
	r.UserName = mod.UserName
	r.UserPhoto = mod.UserPhoto
	r.PackageName = mod.PackageName
	r.CartImage = mod.CartImage
	r.EventDate = mod.EventDate.Format(time.RFC3339)
	r.TotalPrice = mod.TotalPrice
	r.Features = mod.Features
	r.PhotographyTeamSize = mod.PhotographyTeamSize
	r.Videography = mod.Videography
	r.DurationHours = mod.DurationHours
	r.ExpectedAttendance = mod.ExpectedAttendance
	r.StaffTeamSize = mod.StaffTeamSize
	r.Status = string(mod.Status)
	r.PaymentStatus = string(mod.PaymentStatus)
	r.TransactionID = mod.TransactionID
	r.CouponCode = mod.CouponCode
	r.DiscountAmount = mod.DiscountAmount
	r.FinalPrice = mod.FinalPrice
	r.PaymentMethod = mod.PaymentMethod
	r.PaymentInitiated = mod.PaymentInitiated
	r.PaymentVerified = mod.PaymentVerified
	r.ConfirmedBy = mod.ConfirmedBy

	if mod.PaymentInitiatedAt != nil {
		initiatedAt := mod.PaymentInitiatedAt.Format(time.RFC3339)
		r.PaymentInitiatedAt = &initiatedAt
	}

	if mod.PaymentVerifiedAt != nil {
		verifiedAt := mod.PaymentVerifiedAt.Format(time.RFC3339)
		r.PaymentVerifiedAt = &verifiedAt
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingCreatedEvent is the payload published to the broker when a booking is
// created.
type BookingCreatedEvent struct {
	BookingID     string  `json:"booking_id"`
	EventID       string  `json:"event_id"`
	UserEmail     string  `json:"user_email"`
	PackageName   string  `json:"package_name"`
	TransactionID string  `json:"transaction_id"`
	FinalPrice    float64 `json:"final_price"`
	CreatedAt     string  `json:"created_at"`
}
