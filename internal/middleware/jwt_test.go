package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "tech@example.com", "technician", "Terry Tech")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "tech@example.com", claims.Email)
	assert.Equal(t, "technician", claims.Role)
	assert.Equal(t, "Terry Tech", claims.Name)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func protectedRouter(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id"), "role": c.GetString("role")})
	}
	if role == "" {
		r.GET("/protected", RequireAuth(), handler)
	} else {
		r.GET("/protected", RequireAuthWithRole(role), handler)
	}
	return r
}

func TestRequireAuth(t *testing.T) {
	r := protectedRouter("")

	// Missing header
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Malformed header
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token
	token, err := GenerateToken(7, "driver@example.com", "driver", "Driver")
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"driver"`)
}

func TestRequireAuthWithRoleBlocksHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlerRan := false
	r.POST("/admin-only", RequireAuthWithRole("admin"), func(c *gin.Context) {
		handlerRan = true
		c.JSON(http.StatusCreated, gin.H{"created": true})
	})

	token, err := GenerateToken(7, "driver@example.com", "driver", "Driver")
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	// The protected handler must never execute for an insufficient role,
	// and the response must carry only the 403 body.
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, handlerRan)
	assert.NotContains(t, w.Body.String(), "created")
}

func TestRequireAuthWithRole(t *testing.T) {
	r := protectedRouter("admin")

	driverToken, err := GenerateToken(7, "driver@example.com", "driver", "Driver")
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+driverToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := GenerateToken(1, "admin@example.com", "admin", "Admin")
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
