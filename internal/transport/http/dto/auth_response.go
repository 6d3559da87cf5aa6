package dto

import (
	"github.com/contacthub/contacthub/internal/application/auth"
	"github.com/contacthub/contacthub/internal/domain"
)

// UserView is the standard user payload. Password hash and refresh token
// never leave the service.
type UserView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role"`
	Confirmed bool   `json:"confirmed"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Role:      u.Role,
		Confirmed: u.Confirmed,
	}
}

// TokenPairView is the standard token payload for login and refresh.
type TokenPairView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // "bearer"
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

func NewTokenPairView(t auth.TokenPair) TokenPairView {
	return TokenPairView{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
	}
}

// SignupData is returned by signup.
type SignupData struct {
	User   UserView `json:"user"`
	Detail string   `json:"detail"`
}

// StatusResponse covers the endpoints that only need to say "done".
type StatusResponse struct {
	Message string `json:"message"`
}
