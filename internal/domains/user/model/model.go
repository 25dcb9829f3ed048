package model

import (
	"eventro/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID                 = "id"
	FieldEmail              = "email"
	FieldPassword           = "password"
	FieldName               = "name"
	FieldMobile             = "mobile"
	FieldPhoto              = "photo"
	FieldBio                = "bio"
	FieldRole               = "role"
	FieldFavoriteCategories = "favorite_categories"
	FieldEmailVerified      = "email_verified"
	FieldLastLogin          = "last_login"
	FieldActive             = "active"
)

type User struct {
	ID                 string         `db:"id"`
	Email              string         `db:"email"`
	Password           string         `db:"password"`
	Name               string         `db:"name"`
	Mobile             *string        `db:"mobile"`
	Photo              *string        `db:"photo"`
	Bio                *string        `db:"bio"`
	Role               string         `db:"role"`
	FavoriteCategories pq.StringArray `db:"favorite_categories"`
	EmailVerified      bool           `db:"email_verified"`
	LastLogin          *string        `db:"last_login"`
	Active             bool           `db:"active"`
	model.Metadata
}
