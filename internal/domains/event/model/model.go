package model

import (
	"eventro/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "event_packages"
	EntityName = "event_package"

	BookmarkTableName  = "event_bookmarks"
	BookmarkEntityName = "event_bookmark"

	FieldID                  = "id"
	FieldPackageName         = "package_name"
	FieldCategory            = "category"
	FieldCartImage           = "cart_image"
	FieldPrice               = "price"
	FieldFeatures            = "features"
	FieldImages              = "images"
	FieldPhotographyTeamSize = "photography_team_size"
	FieldVideography         = "videography"
	FieldDurationHours       = "duration_hours"
	FieldExpectedAttendance  = "expected_attendance"
	FieldStaffTeamSize       = "staff_team_size"
	FieldIsActive            = "is_active"
	FieldDescription         = "description"
	FieldTags                = "tags"
	FieldRating              = "rating"
	FieldReviewsCount        = "reviews_count"
	FieldLastBooked          = "last_booked"
	FieldStatus              = "status"
	FieldPublishedAt         = "published_at"

	FieldBookmarkUserEmail = "user_email"
	FieldBookmarkEventID   = "event_id"

	StatusDraft     = "draft"
	StatusPublished = "published"
)

type EventPackage struct {
	ID                  string         `db:"id"`
	PackageName         string         `db:"package_name"`
	Category            string         `db:"category"`
	CartImage           string         `db:"cart_image"`
	Price               float64        `db:"price"`
	Features            pq.StringArray `db:"features"`
	Images              pq.StringArray `db:"images"`
	PhotographyTeamSize int            `db:"photography_team_size"`
	Videography         bool           `db:"videography"`
	DurationHours       int            `db:"duration_hours"`
	ExpectedAttendance  int            `db:"expected_attendance"`
	StaffTeamSize       int            `db:"staff_team_size"`
	IsActive            bool           `db:"is_active"`
	Description         string         `db:"description"`
	Tags                pq.StringArray `db:"tags"`
	Rating              float64        `db:"rating"`
	ReviewsCount        int            `db:"reviews_count"`
	LastBooked          *time.Time     `db:"last_booked"`
	Status              string         `db:"status"`
	PublishedAt         *time.Time     `db:"published_at"`
	model.Metadata
}

type Bookmark struct {
	ID        string `db:"id"`
	UserEmail string `db:"user_email"`
	EventID   string `db:"event_id"`
	model.Metadata
}
