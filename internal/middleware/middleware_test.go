package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travel_photos/internal/db/dbtest"
	"travel_photos/internal/domain"
	"travel_photos/internal/service"
	"travel_photos/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "middleware-secret"

func setup(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb := dbtest.New(t)
	auth := service.NewAuthService(gdb, secret, time.Hour, nil, nil)

	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/me", JWTAuthMiddleware(auth), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "userID": c.MustGet(UserIDKey)})
	})
	r.GET("/admin", JWTAuthMiddleware(auth), AdminOnlyMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/miswired", AdminOnlyMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, gdb
}

func do(r http.Handler, path, authHeader string) (int, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func bearer(t *testing.T, id uuid.UUID) string {
	t.Helper()
	token, err := utils.GenerateJWT(id, secret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestJWTAuthMiddleware(t *testing.T) {
	r, gdb := setup(t)
	user := dbtest.CreateUser(t, gdb, "alice@example.com", "pw", domain.RoleUser)

	code, body := do(r, "/me", bearer(t, user.ID))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, user.ID.String(), body["id"])
	require.Equal(t, user.ID.String(), body["userID"])

	cases := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "No se proporcionó token de autenticación"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "No se proporcionó token de autenticación"},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, "Token inválido o expirado"},
		{"unknown user", bearer(t, uuid.New()), http.StatusUnauthorized, "Usuario no encontrado"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := do(r, "/me", tc.header)
			require.Equal(t, tc.status, code)
			require.Equal(t, tc.message, body["error"])
		})
	}
}

func TestJWTAuthMiddlewareBlocked(t *testing.T) {
	r, gdb := setup(t)
	user := dbtest.CreateUser(t, gdb, "alice@example.com", "pw", domain.RoleUser)
	header := bearer(t, user.ID)
	require.NoError(t, gdb.Model(user).Update("is_blocked", true).Error)

	code, body := do(r, "/me", header)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Usuario bloqueado", body["error"])
}

func TestAdminOnlyMiddleware(t *testing.T) {
	r, gdb := setup(t)
	user := dbtest.CreateUser(t, gdb, "alice@example.com", "pw", domain.RoleUser)
	admin := dbtest.CreateUser(t, gdb, "admin@example.com", "pw", domain.RoleAdmin)

	code, body := do(r, "/admin", bearer(t, user.ID))
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Acceso denegado", body["error"])

	code, _ = do(r, "/admin", bearer(t, admin.ID))
	require.Equal(t, http.StatusOK, code)

	code, _ = do(r, "/admin", "")
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(r, "/miswired", "")
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestPrometheusMiddleware(t *testing.T) {
	r, _ := setup(t)
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/me", "401"))
	do(r, "/me", "")
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/me", "401"))
	require.Equal(t, before+1, after)

	do(r, "/nowhere", "")
	require.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")), 1.0)
}
