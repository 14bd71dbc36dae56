package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"expensetracker/internal/config"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setTestConfig(t *testing.T) {
	t.Helper()
	config.Set(&config.Config{
		JWTSecret:        "test-secret",
		JWTExpirationDur: 30 * time.Minute,
	})
}

type mockPrincipalLookup struct {
	getUserByIDFn func(id string) (*models.User, error)
}

func (m *mockPrincipalLookup) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func setupAuthRouter() *gin.Engine {
	return setupAuthRouterWith(&mockPrincipalLookup{})
}

func setupAuthRouterWith(users PrincipalLookup) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(users))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey)})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func signClaims(t *testing.T, claims *JWTClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	setTestConfig(t)
	user := &models.User{Base: models.Base{ID: "0190b7a1-0000-7000-8000-000000000001"}, Username: "alice"}

	valid, expiry, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if expiry != 30*time.Minute {
		t.Errorf("expected 30m expiry, got %s", expiry)
	}

	expired := signClaims(t, &JWTClaims{
		UserID:    user.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, "test-secret")

	forged := signClaims(t, &JWTClaims{
		UserID:           user.ID,
		TokenType:        tokenType,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
	}, "another-secret")

	wrongType := signClaims(t, &JWTClaims{
		UserID:           user.ID,
		TokenType:        "refresh",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
	}, "test-secret")

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid_token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "lowercase_scheme", header: "bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong_scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized},
		{name: "no_token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "garbage_token", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized},
		{name: "expired_token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "forged_signature", header: "Bearer " + forged, wantStatus: http.StatusUnauthorized},
		{name: "not_an_access_token", header: "Bearer " + wrongType, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(setupAuthRouter(), tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}

			body := parseBody(t, rec)
			if tt.wantStatus == http.StatusOK {
				if body["user_id"] != user.ID {
					t.Errorf("expected user_id %s in context, got %v", user.ID, body["user_id"])
				}
				return
			}
			errObj, ok := body["error"].(map[string]interface{})
			if !ok || errObj["code"] != "UNAUTHORIZED" {
				t.Errorf("expected UNAUTHORIZED error body, got %v", body)
			}
		})
	}
}

func TestAuthMiddleware_PrincipalLookup(t *testing.T) {
	setTestConfig(t)
	user := &models.User{Base: models.Base{ID: "0190b7a1-0000-7000-8000-000000000002"}, Username: "bob"}
	token, _, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name       string
		lookupErr  error
		wantStatus int
		wantCode   string
	}{
		{name: "deleted_user", lookupErr: apperrors.ErrUserNotFound, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "store_failure", lookupErr: apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down")), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupAuthRouterWith(&mockPrincipalLookup{
				getUserByIDFn: func(id string) (*models.User, error) {
					if id != user.ID {
						t.Errorf("expected lookup of %s, got %s", user.ID, id)
					}
					return nil, tt.lookupErr
				},
			})

			rec := doRequest(r, "Bearer "+token)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			errObj, _ := parseBody(t, rec)["error"].(map[string]interface{})
			if errObj["code"] != tt.wantCode {
				t.Errorf("expected code %s, got %v", tt.wantCode, errObj["code"])
			}
			if _, reached := parseBody(t, rec)["user_id"]; reached {
				t.Error("handler must not run")
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app_error", apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"wrapped_internal_cause", apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/test", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			rec := doRequest(r, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			errObj := parseBody(t, rec)["error"].(map[string]interface{})
			if errObj["code"] != tt.wantCode {
				t.Errorf("expected code %s, got %v", tt.wantCode, errObj["code"])
			}
			if tt.name == "wrapped_internal_cause" && errObj["message"] == "db down" {
				t.Error("internal cause leaked to the client")
			}
		})
	}
}

func TestWriteError_LogsOnlyInternalFaults(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logger.Set(zap.New(core).Sugar())
	t.Cleanup(func() { logger.Set(zap.NewNop().Sugar()) })

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantLogged bool
	}{
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, false},
		{"conflict", apperrors.ErrDuplicateCategoryName, http.StatusConflict, false},
		{"invalid_reference_with_cause", apperrors.Wrap(apperrors.ErrInvalidReference, errors.New("fk")), http.StatusBadRequest, false},
		{"default_category_missing", apperrors.ErrDefaultCategoryMissing, http.StatusInternalServerError, true},
		{"internal_with_cause", apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down")), http.StatusInternalServerError, true},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.TakeAll()
			r := gin.New()
			r.GET("/test", func(c *gin.Context) { WriteError(c, tt.err) })

			rec := doRequest(r, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if logged := logs.FilterMessage("internal fault").Len() == 1; logged != tt.wantLogged {
				t.Errorf("expected logged=%v, got %v", tt.wantLogged, logged)
			}
		})
	}
}

func TestRequestLogging_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	rec := doRequest(r, "")
	generated := rec.Header().Get("X-Request-ID")
	if generated == "" {
		t.Fatal("expected a generated X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", generated)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != generated {
		t.Errorf("expected incoming request id %s to be echoed, got %s", generated, got)
	}
}

func TestNotFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(NotFound())

	rec := doRequest(r, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	errObj := parseBody(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %v", errObj["code"])
	}
}
