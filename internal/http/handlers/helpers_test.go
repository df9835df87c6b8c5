package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/rogerio-castellano/retail-inventory/internal/auth"
	"github.com/rogerio-castellano/retail-inventory/internal/config"
	handler "github.com/rogerio-castellano/retail-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/retail-inventory/internal/http/router"
	"github.com/rogerio-castellano/retail-inventory/internal/models"
	"github.com/rogerio-castellano/retail-inventory/internal/repo"
)

type testEnv struct {
	router    http.Handler
	products  *repo.InMemoryProductRepository
	users     *repo.InMemoryUserRepository
	tokens    *auth.TokenIssuer
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		products:  repo.NewInMemoryProductRepository(),
		users:     repo.NewInMemoryUserRepository(),
		tokens:    auth.NewTokenIssuer("test-secret", time.Hour),
		uploadDir: t.TempDir(),
	}
	h := handler.New(handler.Deps{
		Products:  env.products,
		Users:     env.users,
		Tokens:    env.tokens,
		Upload:    config.UploadConfig{Dir: env.uploadDir, MaxBytes: 1 << 20},
		StoreName: config.DriverMemory,
	})
	env.router = router.NewRouter(router.Options{Handler: h, Tokens: env.tokens, Users: env.users})

	t.Cleanup(func() {
		env.products.Clear()
		env.users.Clear()
	})
	return env
}

func (e *testEnv) request(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) sendJSON(method, path string, payload any, token string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	return e.request(method, path, bytes.NewReader(body), "application/json", token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return out
}

func (e *testEnv) seedProduct(t *testing.T, code string) models.Product {
	t.Helper()
	p, err := e.products.Create(context.Background(), models.Product{
		ItemCode:        code,
		ItemDescription: "Seeded " + code,
		Unit:            "pcs",
		MRP:             100,
		DP:              90,
		NLC:             80,
		Percentage:      10,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func (e *testEnv) seedAdmin(t *testing.T, email, password string) (models.User, string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return e.seedAccount(t, "Admin", models.AdminIdentity{Email: email, PasswordHash: hash})
}

func (e *testEnv) seedUser(t *testing.T, phone string) (models.User, string) {
	t.Helper()
	return e.seedAccount(t, "Customer", models.UserIdentity{PhoneNumber: phone})
}

func (e *testEnv) seedAccount(t *testing.T, name string, id models.Identity) (models.User, string) {
	t.Helper()
	u, err := e.users.CreateUser(context.Background(), models.User{Name: name, Identity: id})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	token, err := e.tokens.GenerateToken(u.ID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return u, token
}

func multipartFile(field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, _ := writer.CreatePart(hdr)
	part.Write(content)

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func assertUploadDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected upload dir to be empty, found %d file(s)", len(entries))
	}
}

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func fullProduct(code string) handler.ProductRequest {
	return handler.ProductRequest{
		ItemCode:        strPtr(code),
		ItemDescription: strPtr("LED bulb 9W"),
		Unit:            strPtr("pcs"),
		MRP:             numPtr(150),
		DP:              numPtr(120),
		NLC:             numPtr(110),
		Percentage:      numPtr(18),
	}
}
