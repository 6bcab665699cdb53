package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/shopswift/marketplace/services/common/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user vendor"`
}

func bindBody(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req signup
	return NewRequestValidator().Bind(c, &req)
}

func TestBind(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"valid", `{"email":"a@b.io","password":"secret1"}`, ""},
		{"empty body", ``, "Request body is required"},
		{"malformed json", `{"email":`, "Invalid request body"},
		{"short password", `{"email":"a@b.io","password":"abc"}`, "password must be at least 6 characters"},
		{"bad email", `{"email":"nope","password":"secret1"}`, "email must be a valid email"},
		{"bad role", `{"email":"a@b.io","password":"secret1","role":"admin"}`, "role must be one of [user vendor]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bindBody(t, tt.body)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			appErr := apperrors.As(err)
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"page=3&limit=20", 3, 20},
		{"page=-1&limit=abc", 1, 10},
		{"limit=500", 1, 100},
		{"page=9223372036854775807&limit=100", MaxPage, 100},
		{"page=99999999999999999999", 1, 10},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)

		page, limit := ParsePagination(c)
		assert.Equal(t, tt.wantPage, page, tt.query)
		assert.Equal(t, tt.wantLimit, limit, tt.query)
	}
}
