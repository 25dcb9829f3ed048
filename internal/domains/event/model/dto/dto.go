package dto

import (
	"eventro/internal/domains/event/model"
	"eventro/shared"
	gDto "eventro/shared/dto"
	gModel "eventro/shared/model"
	"eventro/shared/timezone"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateEventPackageRequest struct {
	PackageName         string   `json:"package_name"          validate:"required,min=2,max=100"`
	Category            string   `json:"category"              validate:"required,oneof=Concert Conference Wedding Festival Birthday NewYearParty"`
	CartImage           string   `json:"cart_image"            validate:"required,url"`
	Price               float64  `json:"price"                 validate:"gte=0,lte=100000"`
	Features            []string `json:"features"              validate:"omitempty,max=20"`
	Images              []string `json:"images"                validate:"omitempty,max=10,dive,url"`
	PhotographyTeamSize int      `json:"photography_team_size" validate:"required,gte=1,lte=50"`
	Videography         bool     `json:"videography"`
	DurationHours       int      `json:"duration_hours"        validate:"required,gte=1,lte=72"`
	ExpectedAttendance  int      `json:"expected_attendance"   validate:"required,gte=1,lte=10000"`
	StaffTeamSize       int      `json:"staff_team_size"       validate:"required,gte=1,lte=100"`
	Description         string   `json:"description"           validate:"omitempty,max=2000"`
	Tags                []string `json:"tags"                  validate:"omitempty,max=10"`
}

func (c *CreateEventPackageRequest) ToModel(user string) model.EventPackage {
	return model.EventPackage{
		ID:                  uuid.NewString(),
		PackageName:         c.PackageName,
		Category:            c.Category,
		CartImage:           c.CartImage,
		Price:               c.Price,
		Features:            c.Features,
		Images:              c.Images,
		PhotographyTeamSize: c.PhotographyTeamSize,
		Videography:         c.Videography,
		DurationHours:       c.DurationHours,
		ExpectedAttendance:  c.ExpectedAttendance,
		StaffTeamSize:       c.StaffTeamSize,
		IsActive:            true,
		Description:         c.Description,
		Tags:                deriveTags(c.Tags, c.Category, c.Videography, c.PhotographyTeamSize, c.DurationHours, c.Price),
		Status:              model.StatusDraft,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// deriveTags augments the caller-provided tags with a few classification tags
// so the catalog filters keep working even when the admin supplies none.
func deriveTags(tags []string, category string, videography bool, photographers, durationHours int, price float64) []string {
	derived := slices.Clone(tags)

	appendUnique := func(tag string) {
		if !slices.Contains(derived, tag) {
			derived = append(derived, tag)
		}
	}

	if category != "" {
		appendUnique(strings.ToLower(category))
	}

	if videography {
		appendUnique("videography")
	}

	switch {
	case photographers >= 5:
		appendUnique("large-team")
	case photographers <= 2:
		appendUnique("small-team")
	}

	switch {
	case durationHours >= 8:
		appendUnique("full-day")
	case durationHours >= 4:
		appendUnique("half-day")
	default:
		appendUnique("short-event")
	}

	switch {
	case price >= 5000:
		appendUnique("premium")
	case price >= 2000:
		appendUnique("mid-range")
	default:
		appendUnique("budget-friendly")
	}

	return derived
}

type UpdateEventPackageRequest struct {
	PackageName         string   `db:"package_name"          json:"package_name"          validate:"omitempty,min=2,max=100"`
	Category            string   `db:"category"              json:"category"              validate:"omitempty,oneof=Concert Conference Wedding Festival Birthday NewYearParty"`
	CartImage           string   `db:"cart_image"            json:"cart_image"            validate:"omitempty,url"`
	Price               float64  `db:"price"                 json:"price"                 validate:"omitempty,gte=0,lte=100000"`
	PhotographyTeamSize int      `db:"photography_team_size" json:"photography_team_size" validate:"omitempty,gte=1,lte=50"`
	DurationHours       int      `db:"duration_hours"        json:"duration_hours"        validate:"omitempty,gte=1,lte=72"`
	ExpectedAttendance  int      `db:"expected_attendance"   json:"expected_attendance"   validate:"omitempty,gte=1,lte=10000"`
	StaffTeamSize       int      `db:"staff_team_size"       json:"staff_team_size"       validate:"omitempty,gte=1,lte=100"`
	Description         string   `db:"description"           json:"description"           validate:"omitempty,max=2000"`
	Features            []string `json:"features"            validate:"omitempty,max=20"`
	Images              []string `json:"images"              validate:"omitempty,max=10,dive,url"`
	Tags                []string `json:"tags"                validate:"omitempty,max=10"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type EventPackageResponse struct {
	ID                  string   `json:"id"`
	PackageName         string   `json:"package_name"`
	Category            string   `json:"category"`
	CartImage           string   `json:"cart_image"`
	Price               float64  `json:"price"`
	Features            []string `json:"features"`
	Images              []string `json:"images"`
	PhotographyTeamSize int      `json:"photography_team_size"`
	Videography         bool     `json:"videography"`
	DurationHours       int      `json:"duration_hours"`
	ExpectedAttendance  int      `json:"expected_attendance"`
	StaffTeamSize       int      `json:"staff_team_size"`
	IsActive            bool     `json:"is_active"`
	Description         string   `json:"description"`
	Tags                []string `json:"tags"`
	Rating              float64  `json:"rating"`
	ReviewsCount        int      `json:"reviews_count"`
	LastBooked          string   `json:"last_booked,omitempty"`
	Status              string   `json:"status"`
	PublishedAt         string   `json:"published_at,omitempty"`
	gDto.Metadata
}

func (r *EventPackageResponse) FromModel(mod model.EventPackage) {
	r.ID = mod.ID
	r.PackageName = mod.PackageName
	r.Category = mod.Category
	r.CartImage = mod.CartImage
	r.Price = mod.Price
	r.Features = mod.Features
	r.Images = mod.Images
	r.PhotographyTeamSize = mod.PhotographyTeamSize
	r.Videography = mod.Videography
	r.DurationHours = mod.DurationHours
	r.ExpectedAttendance = mod.ExpectedAttendance
	r.StaffTeamSize = mod.StaffTeamSize
	r.IsActive = mod.IsActive
	r.Description = mod.Description
	r.Tags = mod.Tags
	r.Rating = mod.Rating
	r.ReviewsCount = mod.ReviewsCount
	r.Status = mod.Status

	if mod.LastBooked != nil {
		r.LastBooked = mod.LastBooked.Format(time.RFC3339)
	}

	if mod.PublishedAt != nil {
		r.PublishedAt = mod.PublishedAt.Format(time.RFC3339)
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetEventPackagesResponse struct {
	Events    []EventPackageResponse `json:"events"`
	TotalPage int                    `json:"total_page"`
	TotalData int                    `json:"total_data"`
}

func (r *GetEventPackagesResponse) FromModels(models []model.EventPackage, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Events = make([]EventPackageResponse, len(models))
	for i, mod := range models {
		r.Events[i].FromModel(mod)
	}
}

type BookmarkRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
	EventID   string `json:"event_id"   validate:"required"`
}

type BookmarkResponse struct {
	Bookmarked bool   `json:"bookmarked"`
	EventID    string `json:"event_id"`
}

type GetBookmarksResponse struct {
	Events []EventPackageResponse `json:"events"`
	Total  int                    `json:"total"`
}

type GetRecommendationsResponse struct {
	Events []EventPackageResponse `json:"events"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type UploadImagesResponse struct {
	URLs []string `json:"urls"`
}
