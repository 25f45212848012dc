package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"subscription-api/internal/config"
	"subscription-api/internal/database"
	"subscription-api/internal/models"
	"subscription-api/internal/services"
	"subscription-api/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	require.NoError(t, config.InitConfig())
	logging.InitLogging()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	previous := database.DB
	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		database.DB = previous
	})

	r := gin.New()
	SetupRoutes(r)
	return r
}

func tokenFor(t *testing.T, email, role string) (string, *models.User) {
	t.Helper()
	user := models.User{Email: email, Name: "Test User", Role: role}
	require.NoError(t, database.DB.Create(&user).Error)

	token, err := services.NewUserService().IssueToken(&user)
	require.NoError(t, err)
	return token, &user
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "response: %s", w.Body.String())
	return envelope.Data
}

func TestPurchaseCancelFlow(t *testing.T) {
	r := setupTestServer(t)
	adminToken, _ := tokenFor(t, "admin@example.com", models.RoleAdmin)
	userToken, user := tokenFor(t, "user@example.com", models.RoleUser)

	// Admin creates a package
	w := doJSON(t, r, http.MethodPost, "/api/packages", adminToken, gin.H{
		"name":     "Package A",
		"price":    10.0,
		"duration": 30,
		"credits":  100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pkgID := dataField(t, w)["id"].(string)

	// User purchases it
	w = doJSON(t, r, http.MethodPost, "/api/subscriptions", userToken, gin.H{
		"userId":    user.ID,
		"packageId": pkgID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	subscription := dataField(t, w)
	assert.Equal(t, models.SubscriptionActive, subscription["status"])
	subID := subscription["id"].(string)

	// Balance reflects the minted grant
	w = doJSON(t, r, http.MethodGet, "/api/user-credits?userId="+user.ID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(100), dataField(t, w)["totalCredits"])

	// Cancelling zeroes it again
	w = doJSON(t, r, http.MethodPut, "/api/subscriptions/"+subID, userToken, gin.H{
		"status": models.SubscriptionCancelled,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.SubscriptionCancelled, dataField(t, w)["status"])

	w = doJSON(t, r, http.MethodGet, "/api/user-credits?userId="+user.ID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), dataField(t, w)["totalCredits"])
}

func TestPurchaseUnknownPackageIs404(t *testing.T) {
	r := setupTestServer(t)
	userToken, user := tokenFor(t, "user@example.com", models.RoleUser)

	w := doJSON(t, r, http.MethodPost, "/api/subscriptions", userToken, gin.H{
		"userId":    user.ID,
		"packageId": "no-such-package",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionRoutesRequireAuth(t *testing.T) {
	r := setupTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/subscriptions?userId=whoever", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPackageWritesRequireAdmin(t *testing.T) {
	r := setupTestServer(t)
	userToken, _ := tokenFor(t, "user@example.com", models.RoleUser)

	w := doJSON(t, r, http.MethodPost, "/api/packages", userToken, gin.H{
		"name":     "Package A",
		"price":    10.0,
		"duration": 30,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteAllSubscriptionsReportsCount(t *testing.T) {
	r := setupTestServer(t)
	userToken, user := tokenFor(t, "user@example.com", models.RoleUser)

	// No history yet: success with count 0
	w := doJSON(t, r, http.MethodDelete, "/api/subscriptions/delete-all?userId="+user.ID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), dataField(t, w)["deletedCount"])
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "new@example.com",
		"name":  "New User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotEmpty(t, dataField(t, w)["token"])

	// Duplicate registration conflicts
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "new@example.com",
		"name":  "New User",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "new@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, dataField(t, w)["token"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "missing@example.com",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
