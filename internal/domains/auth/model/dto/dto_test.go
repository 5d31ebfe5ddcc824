package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travelnest/infras/jwt"
	"travelnest/internal/domains/auth/model/dto"
	"travelnest/shared/constant"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, int64(900), response.ExpiresIn)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{
		FirstName: " Ayu ",
		LastName:  "Lestari",
		Email:     " Ayu@TravelNest.io ",
		Mobile:    "+62811",
		Address:   "Jl. Raya Ubud",
		Password:  "Secret@1",
	}

	user := req.ToUserModel("hashed")

	assert.Zero(t, user.ID)
	assert.Equal(t, "Ayu", user.FirstName)
	assert.Equal(t, "ayu@travelnest.io", user.Email)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, constant.RoleUser, user.Role)
	assert.Equal(t, "ayu@travelnest.io", user.CreatedBy)
}
