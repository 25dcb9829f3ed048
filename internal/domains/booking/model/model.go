package model

import (
	"eventro/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                  = "id"
	FieldEventID             = "event_id"
	FieldUserID              = "user_id"
	FieldUserEmail           = "user_email"
	FieldUserName            = "user_name"
	FieldUserPhoto           = "user_photo"
	FieldPackageName         = "package_name"
	FieldCartImage           = "cart_image"
	FieldEventDate           = "event_date"
	FieldTotalPrice          = "total_price"
	FieldFeatures            = "features"
	FieldPhotographyTeamSize = "photography_team_size"
	FieldVideography         = "videography"
	FieldDurationHours       = "duration_hours"
	FieldExpectedAttendance  = "expected_attendance"
	FieldStaffTeamSize       = "staff_team_size"
	FieldStatus              = "status"
	FieldPaymentStatus       = "payment_status"
	FieldTransactionID       = "transaction_id"
	FieldCouponCode          = "coupon_code"
	FieldDiscountAmount      = "discount_amount"
	FieldFinalPrice          = "final_price"
	FieldPaymentMethod       = "payment_method"
	FieldPaymentInitiated    = "payment_initiated"
	FieldPaymentInitiatedAt  = "payment_initiated_at"
	FieldPaymentVerified     = "payment_verified"
	FieldPaymentVerifiedAt   = "payment_verified_at"
	FieldConfirmedBy         = "confirmed_by"
)

type Booking struct {
	ID                  string         `db:"id"`
	EventID             string         `db:"event_id"`
	UserID              string         `db:"user_id"`
	UserEmail           string         `db:"user_email"`
	UserName            string         `db:"user_name"`
	UserPhoto           *string        `db:"user_photo"`
	PackageName         string         `db:"package_name"`
	CartImage           *string        `db:"cart_image"`
	EventDate           time.Time      `db:"event_date"`
	TotalPrice          float64        `db:"total_price"`
	Features            pq.StringArray `db:"features"`
	PhotographyTeamSize int            `db:"photography_team_size"`
	Videography         bool           `db:"videography"`
	DurationHours       int            `db:"duration_hours"`
	ExpectedAttendance  int            `db:"expected_attendance"`
	StaffTeamSize       int            `db:"staff_team_size"`
	Status              Status         `db:"status"`
	PaymentStatus       PaymentStatus  `db:"payment_status"`
	TransactionID       string         `db:"transaction_id"`
	CouponCode          *string        `db:"coupon_code"`
	DiscountAmount      float64        `db:"discount_amount"`
	FinalPrice          float64        `db:"final_price"`
	PaymentMethod       *string        `db:"payment_method"`
	PaymentInitiated    bool           `db:"payment_initiated"`
	PaymentInitiatedAt  *time.Time     `db:"payment_initiated_at"`
	PaymentVerified     bool           `db:"payment_verified"`
	PaymentVerifiedAt   *time.Time     `db:"payment_verified_at"`
	ConfirmedBy         *string        `db:"confirmed_by"`
	model.Metadata
}
