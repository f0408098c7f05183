package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aafab/recadastro/internal/auth"
)

const testSecret = "segredo-de-teste-com-32-caracteres!!"

func protegido(t *testing.T) http.Handler {
	t.Helper()
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSubject(r.Context()) == "" {
			t.Error("subject ausente no contexto")
		}
		w.WriteHeader(http.StatusOK)
	})
	mgr := auth.NewJWTManager(testSecret, time.Hour)
	return Auth(mgr)(RequireAdmin(final))
}

func TestAuthSemToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cadastro/admin/list", nil)

	protegido(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperava 401", rec.Code)
	}
}

func TestAuthTokenInvalido(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cadastro/admin/list", nil)
	req.Header.Set("Authorization", "Bearer token-qualquer")

	protegido(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperava 401", rec.Code)
	}
}

func TestAuthAdminAutorizado(t *testing.T) {
	mgr := auth.NewJWTManager(testSecret, time.Hour)
	token, _, err := mgr.GenerateAccessToken(auth.AudienceAdmin, []string{auth.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cadastro/admin/list", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	protegido(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperava 200", rec.Code)
	}
}

func TestAuthSemPapelAdmin(t *testing.T) {
	mgr := auth.NewJWTManager(testSecret, time.Hour)
	token, _, err := mgr.GenerateAccessToken(auth.AudienceAdmin, []string{"LEITURA"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cadastro/admin/list", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	protegido(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, esperava 403", rec.Code)
	}
}
