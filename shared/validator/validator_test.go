package validator_test

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
	"travelnest/shared/failure"
	"travelnest/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewForm struct {
	HotelID int64  `json:"hotel_id" validate:"required,gt=0"`
	Rating  int    `json:"rating"   validate:"required,min=1,max=5"`
	Comment string `json:"comment"  validate:"omitempty,max=20"`
	Email   string `json:"email"    validate:"omitempty,email"`
	Status  string `json:"status"   validate:"omitempty,oneof=pending confirmed cancelled"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    reviewForm
		wantErr string
	}{
		{name: "valid", data: reviewForm{HotelID: 1, Rating: 5, Comment: "Lovely stay"}},
		{name: "missing hotel", data: reviewForm{Rating: 4}, wantErr: "hotel_id is required"},
		{name: "rating above range", data: reviewForm{HotelID: 1, Rating: 6}, wantErr: "rating must be at most 5"},
		{name: "comment too long", data: reviewForm{HotelID: 1, Rating: 3, Comment: strings.Repeat("a", 21)}, wantErr: "comment must be at most 20"},
		{name: "bad email", data: reviewForm{HotelID: 1, Rating: 3, Email: "guest"}, wantErr: "email must be a valid email address"},
		{name: "unknown status", data: reviewForm{HotelID: 1, Rating: 3, Status: "lost"}, wantErr: "status must be one of pending confirmed cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("guest@travelnest.test", "required,email"))
	assert.NoError(t, validator.ValidateVar("2026-03-01", "isodate"))
	assert.Error(t, validator.ValidateVar("", "required"))
	assert.Error(t, validator.ValidateVar(7, "gte=0,lte=5"))
	assert.Error(t, validator.ValidateVar("penthouse", "oneof=single double suite"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"hotel_id":3,"rating":4}`},
		{name: "fails rules", body: `{"hotel_id":3,"rating":0}`, wantErr: "rating is required"},
		{name: "malformed", body: `{"hotel_id":}`, wantErr: "failed to decode request body"},
		{name: "wrong type", body: `{"hotel_id":"three","rating":4}`, wantErr: "failed to decode request body"},
		{name: "empty body", body: ``, wantErr: "request body is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form reviewForm

			err := validator.Validate(strings.NewReader(tt.body), &form)

			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, int64(3), form.HotelID)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

type signupForm struct {
	Password        string `json:"password"         validate:"required,password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	CheckIn         string `json:"check_in"         validate:"required,isodate"`
}

func TestCustomValidations(t *testing.T) {
	tests := []struct {
		name    string
		data    signupForm
		wantErr string
	}{
		{
			name: "valid form",
			data: signupForm{Password: "Secret1!", ConfirmPassword: "Secret1!", CheckIn: "2025-01-10"},
		},
		{
			name:    "weak password",
			data:    signupForm{Password: "secret", ConfirmPassword: "secret", CheckIn: "2025-01-10"},
			wantErr: "password must be at least 6 characters",
		},
		{
			name:    "password confirmation mismatch",
			data:    signupForm{Password: "Secret1!", ConfirmPassword: "Secret2!", CheckIn: "2025-01-10"},
			wantErr: "confirm_password must match Password",
		},
		{
			name:    "bad date",
			data:    signupForm{Password: "Secret1!", ConfirmPassword: "Secret1!", CheckIn: "10/01/2025"},
			wantErr: "check_in must be a date in YYYY-MM-DD format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type uploadForm struct {
	Image *multipart.FileHeader `form:"image" validate:"required,mimetypes=image/jpeg image/png,maxfilesize=1"`
}

func TestFileValidations(t *testing.T) {
	header := func(contentType string, size int64) *multipart.FileHeader {
		return &multipart.FileHeader{
			Filename: "cover",
			Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
			Size:     size,
		}
	}

	assert.NoError(t, validator.ValidateStruct(&uploadForm{Image: header("image/png", 512)}))

	err := validator.ValidateStruct(&uploadForm{Image: header("application/pdf", 512)})
	assert.EqualError(t, err, "image must be one of image/jpeg image/png")

	err = validator.ValidateStruct(&uploadForm{Image: header("image/jpeg", 2<<20)})
	assert.EqualError(t, err, "image must not exceed 1 MB")

	assert.EqualError(t, validator.ValidateStruct(&uploadForm{}), "image is required")
}
