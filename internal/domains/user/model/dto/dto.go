package dto

import (
	"eventro/internal/domains/user/model"
	"eventro/shared"
	"eventro/shared/constant"
	gDto "eventro/shared/dto"
	gModel "eventro/shared/model"
	"eventro/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateUserRequest struct {
	Email         string  `json:"email"                    validate:"required,email"`
	Password      string  `json:"password"                 validate:"required,min=8"`
	Name          string  `json:"name"                     validate:"required,min=2,max=100"`
	Mobile        *string `json:"mobile,omitempty"`
	Photo         *string `json:"photo,omitempty"`
	Role          string  `json:"role"                     validate:"omitempty,oneof=user admin moderator"`
	EmailVerified *bool   `json:"email_verified,omitempty"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	role := r.Role
	if role == "" {
		role = constant.RoleUser
	}

	emailVerified := false
	if r.EmailVerified != nil {
		emailVerified = *r.EmailVerified
	}

	return model.User{
		ID:            uuid.NewString(),
		Email:         r.Email,
		Password:      hashedPassword,
		Name:          r.Name,
		Mobile:        r.Mobile,
		Photo:         r.Photo,
		Role:          role,
		EmailVerified: emailVerified,
		Active:        true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UserResponse struct {
	ID                 string   `json:"id"`
	Email              string   `json:"email"`
	Name               string   `json:"name"`
	Mobile             *string  `json:"mobile,omitempty"`
	Photo              *string  `json:"photo,omitempty"`
	Bio                *string  `json:"bio,omitempty"`
	Role               string   `json:"role"`
	FavoriteCategories []string `json:"favorite_categories"`
	EmailVerified      bool     `json:"email_verified"`
	LastLogin          *string  `json:"last_login,omitempty"`
	Active             bool     `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.Name = model.Name
	r.Mobile = model.Mobile
	r.Photo = model.Photo
	r.Bio = model.Bio
	r.Role = model.Role
	r.FavoriteCategories = model.FavoriteCategories
	r.EmailVerified = model.EmailVerified
	r.LastLogin = model.LastLogin
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type UpdateUserRequest struct {
	Role          *string `db:"role"           json:"role,omitempty"           validate:"omitempty,oneof=user admin moderator"`
	EmailVerified *bool   `db:"email_verified" json:"email_verified,omitempty"`
	Active        *bool   `db:"active"         json:"active,omitempty"`
}

// UpdateProfileRequest carries self-service profile edits. Favorite categories
// map to a text[] column so they stay out of TransformFields.
type UpdateProfileRequest struct {
	Name               *string  `db:"name"   json:"name,omitempty"   validate:"omitempty,min=2,max=100"`
	Mobile             *string  `db:"mobile" json:"mobile,omitempty"`
	Photo              *string  `db:"photo"  json:"photo,omitempty"`
	Bio                *string  `db:"bio"    json:"bio,omitempty"    validate:"omitempty,max=500"`
	FavoriteCategories []string `json:"favorite_categories,omitempty"`
}

func (r *UpdateProfileRequest) FavoriteCategoriesArray() pq.StringArray {
	return pq.StringArray(r.FavoriteCategories)
}

type AdminCheckResponse struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	Role    string `json:"role"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
