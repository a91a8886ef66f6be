package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sylvain-Z/signalcampus-backend/internal/config"
	"github.com/Sylvain-Z/signalcampus-backend/internal/database"
	"github.com/Sylvain-Z/signalcampus-backend/internal/dto"
	"github.com/Sylvain-Z/signalcampus-backend/internal/handlers"
	"github.com/Sylvain-Z/signalcampus-backend/internal/models"
	"github.com/Sylvain-Z/signalcampus-backend/internal/routes"
	"github.com/Sylvain-Z/signalcampus-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app         *fiber.App
	db          *gorm.DB
	authService *services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	systemReporter, err := database.EnsureSystemReporter(db)
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  24 * time.Hour,
	}

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	signalementService := services.NewSignalementService(db, nil, systemReporter)

	app := fiber.New()
	routes.Setup(app, cfg, db,
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(userService),
		handlers.NewSignalementHandler(signalementService),
		handlers.NewHealthHandler(db),
	)

	return &testEnv{app: app, db: db, authService: authService}
}

// newUser signs a user up and returns its ID and a valid bearer token.
// Staff users are promoted directly in the store.
func (e *testEnv) newUser(t *testing.T, login string, role int) (uuid.UUID, string) {
	t.Helper()

	user, err := e.authService.Signup(&dto.SignupRequest{
		Login:    login,
		Password: "pw-" + login,
		Email:    login + "@example.org",
	})
	require.NoError(t, err)

	if role != models.RoleReporter {
		require.NoError(t, e.db.Model(&models.User{}).
			Where("id = ?", user.ID).Update("role", role).Error)
	}

	resp, err := e.authService.Login(&dto.LoginRequest{
		Login:    login,
		Password: "pw-" + login,
	})
	require.NoError(t, err)
	return user.ID, resp.Token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
