package dto

import (
	bookingModel "eventro/internal/domains/booking/model"
	"eventro/internal/domains/review/model"
	"eventro/shared"
	gDto "eventro/shared/dto"
	gModel "eventro/shared/model"
	"eventro/shared/timezone"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	Rating     int    `json:"rating"      validate:"required,gte=1,lte=5"`
	ReviewText string `json:"review_text" validate:"required,min=1,max=500"`
}

// ToModel snapshots the reviewer and package identity from the booking, so the
// review stays attributable even if the package is later edited or removed.
func (r *CreateReviewRequest) ToModel(booking bookingModel.Booking) model.Review {
	return model.Review{
		ID:          uuid.NewString(),
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		UserEmail:   booking.UserEmail,
		UserName:    booking.UserName,
		UserPhoto:   booking.UserPhoto,
		PackageID:   booking.EventID,
		PackageName: booking.PackageName,
		Rating:      r.Rating,
		ReviewText:  r.ReviewText,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  booking.UserEmail,
			ModifiedBy: booking.UserEmail,
		},
	}
}

// UpdateReviewRequest deliberately exposes only the rating and text. The
// booking and reviewer identity fields are immutable once written.
type UpdateReviewRequest struct {
	Rating     *int    `db:"rating"      json:"rating,omitempty"      validate:"omitempty,gte=1,lte=5"`
	ReviewText *string `db:"review_text" json:"review_text,omitempty" validate:"omitempty,min=1,max=500"`
}

type ReviewResponse struct {
	ID          string  `json:"id"`
	BookingID   string  `json:"booking_id"`
	UserID      string  `json:"user_id"`
	UserEmail   string  `json:"user_email"`
	UserName    string  `json:"user_name"`
	UserPhoto   *string `json:"user_photo,omitempty"`
	PackageID   string  `json:"package_id"`
	PackageName string  `json:"package_name"`
	Rating      int     `json:"rating"`
	ReviewText  string  `json:"review_text"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(mod model.Review) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.UserID = mod.UserID
	r.UserEmail = mod.UserEmail
	r.UserName = mod.UserName
	r.UserPhoto = mod.UserPhoto
	r.PackageID = mod.PackageID
	r.PackageName = mod.PackageName
	r.Rating = mod.Rating
	r.ReviewText = mod.ReviewText
	r.Metadata.FromModel(mod.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}
