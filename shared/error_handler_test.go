package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Nickname string `validate:"max=3"`
}

func TestNewFailedValidationError(t *testing.T) {
	req := signupRequest{Email: "not-an-email", Nickname: "toolong"}

	err := validator.New().Struct(req)
	var validationErrs validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))

	failed := NewFailedValidationError(&req, validationErrs)

	assert.Equal(t, map[string]string{
		"email":    "must be a valid email address",
		"password": "is required",
		"Nickname": "must be at most 3 characters",
	}, failed.Fields)
	assert.Equal(t, "validation failed on 3 field(s)", failed.Error())
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "fiber error keeps its status",
			err:         fiber.NewError(fiber.StatusConflict, "Duplicate entry"),
			wantStatus:  fiber.StatusConflict,
			wantMessage: "Duplicate entry",
		},
		{
			name:        "validation error",
			err:         &FailedValidationError{Fields: map[string]string{"email": "is required"}},
			wantStatus:  fiber.StatusBadRequest,
			wantMessage: "Validation failed",
		},
		{
			name:        "anything else is hidden",
			err:         errors.New("dial tcp: connection refused"),
			wantStatus:  fiber.StatusInternalServerError,
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer res.Body.Close()

			var body map[string]any
			require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.Contains(t, body, "data")
			assert.Contains(t, body, "errors")
		})
	}
}
