package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gharfindr/rental-api/internal/core/domain"
	"github.com/gharfindr/rental-api/internal/core/ports"
	"github.com/gharfindr/rental-api/internal/infrastructure/storage"
)

type stubAccountService struct {
	registerFn     func(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error)
	verifyFn       func(ctx context.Context, email, code string) error
	resendFn       func(ctx context.Context, email string) error
	loginFn        func(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error)
	logoutFn       func(ctx context.Context, accountID, sessionID string) error
	forgotFn       func(ctx context.Context, email string) error
	resetFn        func(ctx context.Context, token, newPassword string) error
	profileImageFn func(ctx context.Context, accountID, imagePath string) error
}

func (s *stubAccountService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAccountService) VerifyEmail(ctx context.Context, email, code string) error {
	return s.verifyFn(ctx, email, code)
}

func (s *stubAccountService) ResendVerification(ctx context.Context, email string) error {
	return s.resendFn(ctx, email)
}

func (s *stubAccountService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, input)
}

func (s *stubAccountService) Logout(ctx context.Context, accountID, sessionID string) error {
	return s.logoutFn(ctx, accountID, sessionID)
}

func (s *stubAccountService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotFn(ctx, email)
}

func (s *stubAccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.resetFn(ctx, token, newPassword)
}

func (s *stubAccountService) UpdateProfileImage(ctx context.Context, accountID, imagePath string) error {
	return s.profileImageFn(ctx, accountID, imagePath)
}

func (s *stubAccountService) Unlock(context.Context, string) error {
	return nil
}

func (s *stubAccountService) Stats(context.Context, string) (*ports.AccountStats, error) {
	return nil, domain.ErrAccountNotFound
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
			if input.Name != "Asha" || input.Email != "asha@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.RegisterResult{AccountID: "acc_1", PendingVerification: true}, nil
		},
	}
	h := NewAuthHandler(stub, nil)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Asha","email":"asha@example.com","password":"s3cret99"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "acc_1" || resp["pending_verification"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_EmailExists(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.RegisterResult, error) {
			return nil, domain.ErrEmailExists
		},
	}
	h := NewAuthHandler(stub, nil)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Asha","email":"asha@example.com","password":"s3cret99"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.RegisterResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, nil)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"asha@example.com"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_VerifyEmail_CodeLength(t *testing.T) {
	stub := &stubAccountService{
		verifyFn: func(context.Context, string, string) error {
			t.Fatalf("service should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub, nil)

	// A five digit code fails validation before the service is consulted.
	c, _ := newTestContext(t, http.MethodPost, "/auth/verify-email",
		`{"email":"a@b.com","verificationCode":"12345"}`)

	err := h.VerifyEmail(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_VerifyEmail_Success(t *testing.T) {
	stub := &stubAccountService{
		verifyFn: func(_ context.Context, email, code string) error {
			if email != "a@b.com" || code != "123456" {
				t.Fatalf("unexpected args: %s %s", email, code)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, nil)

	c, rec := newTestContext(t, http.MethodPost, "/auth/verify-email",
		`{"email":"a@b.com","verificationCode":"123456"}`)

	if err := h.VerifyEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(_ context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
			if input.Email != "a@b.com" || input.Password != "pw" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.LoginResult{
				Token:     "token123",
				SessionID: "sess_1",
				AccountID: "acc_1",
				Name:      "Asha",
				Role:      domain.RoleUser,
			}, nil
		},
	}
	h := NewAuthHandler(stub, nil)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"pw"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["session_id"] != "sess_1" || resp["role"] != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_Locked(t *testing.T) {
	lockedErr := &domain.LockedError{}
	stub := &stubAccountService{
		loginFn: func(context.Context, ports.LoginInput) (*ports.LoginResult, error) {
			return nil, lockedErr
		},
	}
	h := NewAuthHandler(stub, nil)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"pw"}`)

	err := h.Login(c)
	var locked *domain.LockedError
	if !errors.As(err, &locked) {
		t.Fatalf("expected LockedError, got %v", err)
	}
}

func TestAuthHandler_UploadProfileImage(t *testing.T) {
	var gotID, gotPath string
	stub := &stubAccountService{
		profileImageFn: func(_ context.Context, accountID, imagePath string) error {
			gotID, gotPath = accountID, imagePath
			return nil
		},
	}
	images, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}
	h := NewAuthHandler(stub, images)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("profileImage", "me.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/auth/profile-image", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("account_id", "acc_1")
	c.Set("role", "user")

	if err := h.UploadProfileImage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "acc_1" || gotPath == "" {
		t.Fatalf("stored image not recorded on account: id=%q path=%q", gotID, gotPath)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["image"] != gotPath {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_UploadProfileImage_MissingFile(t *testing.T) {
	stub := &stubAccountService{
		profileImageFn: func(context.Context, string, string) error {
			t.Fatalf("service should not be called")
			return nil
		},
	}
	images, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}
	h := NewAuthHandler(stub, images)

	c, _ := newTestContext(t, http.MethodPost, "/auth/profile-image", "")
	c.Set("account_id", "acc_1")
	c.Set("role", "user")

	uploadErr := h.UploadProfileImage(c)
	var he *echo.HTTPError
	if !errors.As(uploadErr, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", uploadErr)
	}
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	stub := &stubAccountService{
		forgotFn: func(_ context.Context, email string) error {
			if email != "a@b.com" {
				t.Fatalf("unexpected email: %s", email)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, nil)

	c, rec := newTestContext(t, http.MethodPost, "/auth/forgot-password", `{"email":"a@b.com"}`)

	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	stub := &stubAccountService{
		resetFn: func(_ context.Context, token, newPassword string) error {
			if token != "tok-1" || newPassword != "new-password-1" {
				t.Fatalf("unexpected args: %s %s", token, newPassword)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, nil)

	c, rec := newTestContext(t, http.MethodPost, "/auth/reset-password",
		`{"token":"tok-1","newPassword":"new-password-1"}`)

	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
