package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"travel_photos/internal/db/dbtest"
	"travel_photos/internal/domain"
	"travel_photos/internal/service"
	"travel_photos/internal/storage"
	"travel_photos/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "router-secret"

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{1}, 128)...)

type testServer struct {
	r   *gin.Engine
	db  *gorm.DB
	dir string
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb := dbtest.New(t)
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir, "")
	require.NoError(t, err)
	auth := service.NewAuthService(gdb, secret, time.Hour, nil, nil)
	r := gin.New()
	Setup(r, gdb, store, auth)
	return &testServer{r: r, db: gdb, dir: dir}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) (int, map[string]any) {
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func (s *testServer) token(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(user.ID, secret, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) upload(t *testing.T, token string, fields map[string]string, image []byte) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("photo", "trip.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/photos/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return s.serve(req)
}

func TestRegisterLoginFlow(t *testing.T) {
	s := newServer(t)

	code, reg := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "ana@example.com", "password": "x", "name": "Ana"})
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, reg["token"])
	regUser := reg["user"].(map[string]any)
	require.NotContains(t, regUser, "password")

	code, login := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com", "password": "x"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, regUser["id"], login["user"].(map[string]any)["id"])

	code, body := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com", "password": "y"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Credenciales inválidas", body["error"])

	code, body = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Email y contraseña son requeridos", body["error"])

	code, body = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "ana@example.com", "password": "z", "name": "Ana"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "El email ya está registrado", body["error"])
}

func TestBlockedUser(t *testing.T) {
	s := newServer(t)
	admin := dbtest.CreateUser(t, s.db, "admin@example.com", "pw", domain.RoleAdmin)
	user := dbtest.CreateUser(t, s.db, "ana@example.com", "pw", domain.RoleUser)
	userToken := s.token(t, user)

	code, body := s.do(t, http.MethodPatch, "/api/admin/users/"+user.ID.String(), s.token(t, admin), gin.H{"isBlocked": true})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["isBlocked"])

	code, body = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com", "password": "pw"})
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Usuario bloqueado", body["error"])

	code, body = s.do(t, http.MethodGet, "/api/photos/mine", userToken, nil)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Usuario bloqueado", body["error"])
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newServer(t)
	owner := dbtest.CreateUser(t, s.db, "ana@example.com", "pw", domain.RoleUser)
	blockedAdmin := dbtest.CreateUser(t, s.db, "old@example.com", "pw", domain.RoleAdmin)
	require.NoError(t, s.db.Model(blockedAdmin).Update("is_blocked", true).Error)
	photo := dbtest.CreatePhoto(t, s.db, owner.ID, "Paris", domain.StatusPending)
	path := "/api/admin/photos/" + photo.ID.String() + "/moderate"
	approve := gin.H{"status": "approved"}

	code, _ := s.do(t, http.MethodPatch, path, "", approve)
	require.Equal(t, http.StatusUnauthorized, code)
	code, body := s.do(t, http.MethodPatch, path, s.token(t, owner), approve)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Acceso denegado", body["error"])
	code, _ = s.do(t, http.MethodPatch, path, s.token(t, blockedAdmin), approve)
	require.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(t, http.MethodGet, "/api/admin/stats", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, code)

	var stored domain.Photo
	require.NoError(t, s.db.First(&stored, "id = ?", photo.ID).Error)
	require.Equal(t, domain.StatusPending, stored.Status)
}

func TestModerateRoute(t *testing.T) {
	s := newServer(t)
	admin := dbtest.CreateUser(t, s.db, "admin@example.com", "pw", domain.RoleAdmin)
	owner := dbtest.CreateUser(t, s.db, "ana@example.com", "pw", domain.RoleUser)
	photo := dbtest.CreatePhoto(t, s.db, owner.ID, "Paris", domain.StatusPending)
	token := s.token(t, admin)
	path := "/api/admin/photos/" + photo.ID.String() + "/moderate"

	for i := 0; i < 2; i++ {
		code, body := s.do(t, http.MethodPatch, path, token, gin.H{"status": "approved"})
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "approved", body["status"])
	}

	code, body := s.do(t, http.MethodPatch, path, token, gin.H{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Estado inválido", body["error"])

	code, body = s.do(t, http.MethodPatch, "/api/admin/photos/"+uuid.NewString()+"/moderate", token, gin.H{"status": "rejected"})
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Foto no encontrada", body["error"])

	code, _ = s.do(t, http.MethodPatch, "/api/admin/photos/not-a-uuid/moderate", token, gin.H{"status": "rejected"})
	require.Equal(t, http.StatusNotFound, code)
}

func TestUploadModerationVisibility(t *testing.T) {
	s := newServer(t)
	admin := dbtest.CreateUser(t, s.db, "admin@example.com", "pw", domain.RoleAdmin)
	owner := dbtest.CreateUser(t, s.db, "ana@example.com", "pw", domain.RoleUser)
	userToken := s.token(t, owner)
	adminToken := s.token(t, admin)

	code, body := s.upload(t, userToken, map[string]string{
		"title": "Tower", "location": "Paris", "description": "At night", "travelDays": "3", "latitude": "48.85",
	}, pngBytes)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "pending", body["status"])
	require.Equal(t, 48.85, body["latitude"])
	id := body["id"].(string)
	filename := body["filename"].(string)
	_, err := os.Stat(filepath.Join(s.dir, filename))
	require.NoError(t, err)

	code, body = s.do(t, http.MethodGet, "/api/admin/photos/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, body["total"])

	code, body = s.do(t, http.MethodGet, "/api/public/destinations/Paris/photos", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 0, body["total"])
	code, _ = s.do(t, http.MethodGet, "/api/photos/"+id, "", nil)
	require.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPatch, "/api/admin/photos/"+id+"/moderate", adminToken, gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, code)

	code, body = s.do(t, http.MethodGet, "/api/public/destinations/Paris/photos", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, body["total"])
	require.EqualValues(t, 1, body["pages"])
	listed := body["photos"].([]any)[0].(map[string]any)
	require.Equal(t, map[string]any{"id": owner.ID.String(), "name": "ana@example.com"}, listed["user"])
	code, body = s.do(t, http.MethodGet, "/api/photos/"+id, "", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, map[string]any{"id": owner.ID.String(), "name": "ana@example.com"}, body["user"])

	code, body = s.do(t, http.MethodPost, "/api/photos/"+id+"/like", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, body["likes"])

	code, body = s.do(t, http.MethodGet, "/api/public/destinations", "", nil)
	require.Equal(t, http.StatusOK, code)
	dests := body["destinations"].([]any)
	require.Len(t, dests, 1)
	require.Equal(t, "/uploads/"+filename, dests[0].(map[string]any)["imageUrl"])

	req := httptest.NewRequest(http.MethodGet, "/uploads/"+filename, nil)
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, pngBytes, w.Body.Bytes())

	code, _ = s.do(t, http.MethodDelete, "/api/photos/"+id, userToken, nil)
	require.Equal(t, http.StatusOK, code)
	_, err = os.Stat(filepath.Join(s.dir, filename))
	require.True(t, os.IsNotExist(err))
}

func TestUploadRejections(t *testing.T) {
	s := newServer(t)
	owner := dbtest.CreateUser(t, s.db, "ana@example.com", "pw", domain.RoleUser)
	token := s.token(t, owner)
	fields := map[string]string{"title": "t", "location": "l", "description": "d"}

	code, body := s.upload(t, token, fields, nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "No se han proporcionado archivos", body["error"])

	code, body = s.upload(t, token, fields, []byte("GIF89a......"))
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Tipo de archivo no permitido. Solo se permiten JPEG y PNG.", body["error"])

	code, body = s.upload(t, token, map[string]string{"title": "t"}, pngBytes)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Título, ubicación y descripción son requeridos", body["error"])

	code, _ = s.upload(t, "", fields, pngBytes)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestUploadBlankGeotag(t *testing.T) {
	s := newServer(t)
	owner := dbtest.CreateUser(t, s.db, "ana@example.com", "pw", domain.RoleUser)
	token := s.token(t, owner)

	code, body := s.upload(t, token, map[string]string{
		"title": "Bridge", "location": "Porto", "description": "Morning", "latitude": "", "longitude": " ",
	}, pngBytes)
	require.Equal(t, http.StatusCreated, code)
	require.NotContains(t, body, "latitude")
	require.NotContains(t, body, "longitude")

	var stored domain.Photo
	require.NoError(t, s.db.First(&stored, "id = ?", body["id"]).Error)
	require.Nil(t, stored.Latitude)
	require.Nil(t, stored.Longitude)

	code, body = s.upload(t, token, map[string]string{
		"title": "Bridge", "location": "Porto", "description": "Morning", "latitude": "north",
	}, pngBytes)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Datos de la foto inválidos", body["error"])
}

func TestUpdateUserWithoutBody(t *testing.T) {
	s := newServer(t)
	admin := dbtest.CreateUser(t, s.db, "admin@example.com", "pw", domain.RoleAdmin)
	owner := dbtest.CreateUser(t, s.db, "ana@example.com", "pw", domain.RoleUser)

	code, body := s.do(t, http.MethodPatch, "/api/admin/users/"+owner.ID.String(), s.token(t, admin), nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, owner.ID.String(), body["id"])
	require.Equal(t, false, body["isBlocked"])
	require.Equal(t, domain.RoleUser, body["role"])

	code, body = s.do(t, http.MethodPatch, "/api/admin/users/"+owner.ID.String(), s.token(t, admin), "not an object")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Solicitud inválida", body["error"])
}

func TestDeleteOthersPhotoForbidden(t *testing.T) {
	s := newServer(t)
	owner := dbtest.CreateUser(t, s.db, "ana@example.com", "pw", domain.RoleUser)
	other := dbtest.CreateUser(t, s.db, "bea@example.com", "pw", domain.RoleUser)
	photo := dbtest.CreatePhoto(t, s.db, owner.ID, "Paris", domain.StatusApproved)

	code, body := s.do(t, http.MethodDelete, "/api/photos/"+photo.ID.String(), s.token(t, other), nil)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Acceso denegado", body["error"])
}

func TestPublicPagination(t *testing.T) {
	s := newServer(t)
	owner := dbtest.CreateUser(t, s.db, "ana@example.com", "pw", domain.RoleUser)
	for i := 0; i < 25; i++ {
		dbtest.CreatePhoto(t, s.db, owner.ID, "Rome", domain.StatusApproved)
	}

	code, body := s.do(t, http.MethodGet, "/api/public/destinations/Rome/photos", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 25, body["total"])
	require.EqualValues(t, 3, body["pages"])
	require.EqualValues(t, 1, body["currentPage"])
	require.Len(t, body["photos"], 12)

	code, body = s.do(t, http.MethodGet, "/api/public/destinations/Rome/photos?page=3&limit=10", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["photos"], 5)

	code, body = s.do(t, http.MethodGet, "/api/public/destinations/Rome/photos?page=9&limit=10", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 25, body["total"])
	require.Empty(t, body["photos"])
}

func TestEmptyStats(t *testing.T) {
	s := newServer(t)
	admin := dbtest.CreateUser(t, s.db, "admin@example.com", "pw", domain.RoleAdmin)

	code, body := s.do(t, http.MethodGet, "/api/admin/stats", s.token(t, admin), nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 0, body["totalLikes"])
	require.EqualValues(t, 0, body["totalPhotos"])
	require.Equal(t, []any{}, body["locationStats"])
	require.Equal(t, []any{}, body["recentActivity"])
}

func TestAdminDestinationsAndUsers(t *testing.T) {
	s := newServer(t)
	admin := dbtest.CreateUser(t, s.db, "admin@example.com", "pw", domain.RoleAdmin)
	other := dbtest.CreateUser(t, s.db, "root@example.com", "pw", domain.RoleAdmin)
	owner := dbtest.CreateUser(t, s.db, "ana@example.com", "pw", domain.RoleUser)
	dbtest.CreatePhoto(t, s.db, owner.ID, "Paris", domain.StatusApproved)
	dbtest.CreatePhoto(t, s.db, owner.ID, "Rome", domain.StatusApproved)
	token := s.token(t, admin)

	code, body := s.do(t, http.MethodPost, "/api/admin/destinations", token, gin.H{"name": "Paris"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Este destino ya existe", body["error"])
	code, body = s.do(t, http.MethodPost, "/api/admin/destinations", token, gin.H{})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "El nombre del destino es requerido", body["error"])
	code, body = s.do(t, http.MethodPost, "/api/admin/destinations", token, gin.H{"name": "Lima"})
	require.Equal(t, http.StatusCreated, code)
	require.EqualValues(t, 0, body["destination"].(map[string]any)["photoCount"])

	code, _ = s.do(t, http.MethodPut, "/api/admin/destinations/2", token, gin.H{"name": "Roma"})
	require.Equal(t, http.StatusOK, code)
	code, body = s.do(t, http.MethodPut, "/api/admin/destinations/7", token, gin.H{"name": "X"})
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Destino no encontrado", body["error"])

	code, _ = s.do(t, http.MethodDelete, "/api/admin/destinations/Paris", token, nil)
	require.Equal(t, http.StatusOK, code)
	code, body = s.do(t, http.MethodGet, "/api/admin/destinations", token, nil)
	require.Equal(t, http.StatusOK, code)
	dests := body["destinations"].([]any)
	require.Len(t, dests, 1)
	require.Equal(t, "Roma", dests[0].(map[string]any)["name"])

	code, body = s.do(t, http.MethodGet, "/api/admin/users?search=ANA", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 1, body["total"])

	code, body = s.do(t, http.MethodPatch, "/api/admin/users/"+other.ID.String(), token, gin.H{"isBlocked": true})
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "No se puede modificar a otro administrador", body["error"])
	code, body = s.do(t, http.MethodPatch, "/api/admin/users/"+uuid.NewString(), token, gin.H{"isBlocked": true})
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Usuario no encontrado", body["error"])
	code, body = s.do(t, http.MethodPatch, "/api/admin/users/"+owner.ID.String(), token, gin.H{"role": "root"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Rol inválido", body["error"])
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)
	code, body := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "http_requests_total")
}
