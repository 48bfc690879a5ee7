package controllers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fleet_maintenance/internal/config"
	"fleet_maintenance/internal/middleware"
	"fleet_maintenance/internal/models"
	"fleet_maintenance/internal/routes"
)

// setupRouter builds the full engine against an isolated in-memory sqlite
// store, migrated and seeded the same way InitDB seeds production.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("UPLOAD_DIR", t.TempDir())

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.MigrateAll(db))
	require.NoError(t, config.SeedChecklistTemplates(db))
	require.NoError(t, config.SeedDefaultUsers(db))

	return routes.SetupRouter(db), db
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := middleware.GenerateToken(1, "admin@example.com", "admin", "Admin")
	require.NoError(t, err)
	return token
}

func driverToken(t *testing.T) string {
	t.Helper()
	token, err := middleware.GenerateToken(2, "driver@example.com", "driver", "Driver")
	require.NoError(t, err)
	return token
}

// doJSON performs a JSON request against the router.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// submitRecord posts a multipart maintenance-record form, optionally with a
// signature file attached.
func submitRecord(t *testing.T, r *gin.Engine, token string, fields map[string]string, signature []byte) *httptest.ResponseRecorder {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if signature != nil {
		fw, err := mw.CreateFormFile("signature", "sig pad.png")
		require.NoError(t, err)
		_, err = fw.Write(signature)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/maintenance-records", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// createUnit inserts a unit directly into the store and returns it.
func createUnit(t *testing.T, db *gorm.DB, number, unitType string) models.Unit {
	t.Helper()
	unit := models.Unit{UnitNumber: number, Type: unitType}
	require.NoError(t, db.Create(&unit).Error)
	return unit
}

// decodeData unmarshals a {"data": [...]} list response.
func decodeData(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}
