package dto

import (
	"strings"
	"travelnest/infras/jwt"
	userModel "travelnest/internal/domains/user/model"
	userDto "travelnest/internal/domains/user/model/dto"
	"travelnest/shared/constant"
	gModel "travelnest/shared/model"
	"travelnest/shared/timezone"
)

type RegisterRequest struct {
	FirstName       string `json:"first_name"       validate:"required,max=100"`
	LastName        string `json:"last_name"        validate:"required,max=100"`
	Email           string `json:"email"            validate:"required,email,max=255"`
	Mobile          string `json:"mobile"           validate:"omitempty,max=20"`
	Address         string `json:"address"          validate:"omitempty,max=500"`
	Password        string `json:"password"         validate:"required,password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// ToUserModel builds a new account. Self-registered accounts are always plain users.
func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	email := strings.ToLower(strings.TrimSpace(r.Email))

	return userModel.User{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     email,
		Mobile:    strings.TrimSpace(r.Mobile),
		Address:   strings.TrimSpace(r.Address),
		Password:  hashedPassword,
		Role:      constant.RoleUser,
		Metadata:  gModel.NewMetadata(email, timezone.Now()),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	TokenType    string               `json:"token_type"`
	ExpiresIn    int64                `json:"expires_in"`
	User         userDto.UserResponse `json:"user"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.TokenType = tokenPair.TokenType
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.TokenType = tokenPair.TokenType
	r.ExpiresIn = tokenPair.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}
