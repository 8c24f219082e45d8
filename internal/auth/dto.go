// CaterEase API | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Phone    string `json:"phone"    validate:"omitempty,min=7,max=20"`
	Address  string `json:"address"  validate:"omitempty,max=255"`
	City     string `json:"city"     validate:"omitempty,max=100"`
	State    string `json:"state"    validate:"omitempty,max=100"`
}

type RegisterCatererRequest struct {
	RegisterRequest

	BusinessName string   `json:"business_name" validate:"required,min=1,max=150"`
	Description  string   `json:"description"   validate:"omitempty,max=2000"`
	Location     string   `json:"location"      validate:"required,max=255"`
	Specialties  []string `json:"specialties"   validate:"omitempty,dive,min=1,max=100"`
	EventTypes   []string `json:"event_types"   validate:"omitempty,dive,oneof=wedding corporate pooja party other"`
	MinPlate     int      `json:"min_plate"     validate:"required,gte=1"`
	MaxPlate     int      `json:"max_plate"     validate:"required,gte=1"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	User    UserResponse  `json:"user"`
	Caterer *CatererInfo  `json:"caterer,omitempty"`
	Tokens  TokenResponse `json:"tokens"`
}

type MeResponse struct {
	User    UserResponse `json:"user"`
	Caterer *CatererInfo `json:"caterer,omitempty"`
}

type SessionInfo struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
}
