package dto

import "github.com/noah-isme/idcard-api/internal/models"

// SignupRequest registers a school admin together with the school.
type SignupRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=255"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone" form:"phone" validate:"omitempty,max=32"`
	School   string `json:"school" form:"school" validate:"required,max=255"`
	Address  string `json:"address" form:"address" validate:"omitempty,max=512"`
	State    string `json:"state" form:"state" validate:"omitempty,max=128"`
	Pincode  string `json:"pincode" form:"pincode" validate:"omitempty,max=16"`
}

// LoginRequest carries portal credentials.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Role         models.UserRole `json:"role"`
	SchoolID     string          `json:"school_id,omitempty"`
	IsFirstLogin bool            `json:"is_first_login"`
}

// LoginResponse tells the browser where to land after signing in.
type LoginResponse struct {
	Redirect string       `json:"redirect"`
	User     UserResponse `json:"user"`
}

// LoginPageResponse is the view model of the login page.
type LoginPageResponse struct {
	Error string `json:"error,omitempty"`
}

// NewUserResponse converts a user model.
func NewUserResponse(user models.User) UserResponse {
	response := UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		Role:         user.Role,
		IsFirstLogin: user.IsFirstLogin,
	}
	if user.SchoolID != nil {
		response.SchoolID = *user.SchoolID
	}
	return response
}
