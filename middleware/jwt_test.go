package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"EstateHub/models"
	"EstateHub/utils"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, JWTMiddleware()(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareBadFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, JWTMiddleware()(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, JWTMiddleware()(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareSetsClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userID := primitive.NewObjectID()
	token, err := utils.GenerateJWT(userID, "admin@example.com", models.RoleAdmin)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID primitive.ObjectID
	var gotEmail, gotRole string
	next := func(c echo.Context) error {
		gotID = c.Get("user_id").(primitive.ObjectID)
		gotEmail = c.Get("user_email").(string)
		gotRole = c.Get("user_role").(string)
		return c.String(http.StatusOK, "ok")
	}

	require.NoError(t, JWTMiddleware()(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "admin@example.com", gotEmail)
	assert.Equal(t, models.RoleAdmin, gotRole)
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name string
		role interface{}
		code int
	}{
		{"admin passes", models.RoleAdmin, http.StatusOK},
		{"plain user forbidden", models.RoleUser, http.StatusForbidden},
		{"no role forbidden", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != nil {
				c.Set("user_role", tt.role)
			}

			require.NoError(t, AdminOnly()(okHandler)(c))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
