package model

import "eventro/shared/model"

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID          = "id"
	FieldBookingID   = "booking_id"
	FieldUserID      = "user_id"
	FieldUserEmail   = "user_email"
	FieldUserName    = "user_name"
	FieldUserPhoto   = "user_photo"
	FieldPackageID   = "package_id"
	FieldPackageName = "package_name"
	FieldRating      = "rating"
	FieldReviewText  = "review_text"
)

type Review struct {
	ID          string  `db:"id"`
	BookingID   string  `db:"booking_id"`
	UserID      string  `db:"user_id"`
	UserEmail   string  `db:"user_email"`
	UserName    string  `db:"user_name"`
	UserPhoto   *string `db:"user_photo"`
	PackageID   string  `db:"package_id"`
	PackageName string  `db:"package_name"`
	Rating      int     `db:"rating"`
	ReviewText  string  `db:"review_text"`
	model.Metadata
}
