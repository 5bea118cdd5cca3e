package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daebak/restapi/models"
)

var testSecret = []byte("test-session-secret")

func signToken(t *testing.T, username, uid, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"uid":      uid,
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	})
	s, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return s
}

func TestSetCurrentUserRejectsMissingToken(t *testing.T) {
	auth := &Auth{Secret: testSecret}
	h := auth.SetCurrentUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSetCurrentUserPopulatesContext(t *testing.T) {
	auth := &Auth{Secret: testSecret}
	var gotName, gotUID, gotRole string
	h := auth.SetCurrentUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotName, _ = r.Context().Value("username").(string)
		gotUID, _ = r.Context().Value("uid").(string)
		gotRole, _ = r.Context().Value("userRole").(string)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("token", signToken(t, "홍길동", "u1", models.RoleCustomer))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "홍길동", gotName)
	assert.Equal(t, "u1", gotUID)
	assert.Equal(t, models.RoleCustomer, gotRole)
}

func TestSetCurrentUserRejectsWrongSecret(t *testing.T) {
	auth := &Auth{Secret: []byte("another-secret")}
	h := auth.SetCurrentUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("token", signToken(t, "홍길동", "u1", models.RoleCustomer))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireStaff(t *testing.T) {
	auth := &Auth{Secret: testSecret}
	h := auth.SetCurrentUser(RequireStaff(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("customer is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/inventory/x", nil)
		req.Header.Set("token", signToken(t, "홍길동", "u1", models.RoleCustomer))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("staff passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/inventory/x", nil)
		req.Header.Set("token", signToken(t, "관리자", "u2", models.RoleStaff))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestValidateRegistrationBody(t *testing.T) {
	h := ValidateRegistrationBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("complete body passes", func(t *testing.T) {
		rec := post(`{"name":"홍길동","email":"hong@example.com","password":"secret","role":"CUSTOMER"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("missing field fails", func(t *testing.T) {
		rec := post(`{"name":"홍길동","email":"hong@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty body fails", func(t *testing.T) {
		rec := post("")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong content type fails", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader("name=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}
