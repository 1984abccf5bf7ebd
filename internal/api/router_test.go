package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gharfindr/rental-api/internal/infrastructure/config"
	"github.com/gharfindr/rental-api/internal/infrastructure/storage"
)

type nopMailer struct{}

func (nopMailer) SendVerificationCode(context.Context, string, string, string) error { return nil }

func (nopMailer) SendPasswordReset(context.Context, string, string, string) error { return nil }

// newTestRouter wires the full route table against backends that are never
// dialled: the requests below are answered by middleware or by id validation
// before any database call.
func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("mongo client: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	images, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}

	cfg := &config.Config{JWTSecret: "router-test-secret"}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRouter(client.Database("gharfindr_test"), rdb, cfg, nopMailer{}, images, zerolog.Nop())
}

// The prometheus middleware registers its collectors globally, so the router
// is built once and shared across subtests.
func TestRouterAccessControl(t *testing.T) {
	e := newTestRouter(t)

	do := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("listing detail is open for read", func(t *testing.T) {
		// A malformed id fails lookup, proving the request reached the
		// handler instead of being refused by the auth middleware.
		for _, path := range []string{"/rooms/not-a-valid-id", "/roommates/not-a-valid-id"} {
			if code := do(http.MethodGet, path); code != http.StatusNotFound {
				t.Fatalf("GET %s without a token: expected 404, got %d", path, code)
			}
		}
	})

	t.Run("listing writes require a token", func(t *testing.T) {
		cases := []struct {
			method string
			path   string
		}{
			{http.MethodPost, "/rooms"},
			{http.MethodGet, "/rooms"},
			{http.MethodPut, "/rooms/abc"},
			{http.MethodDelete, "/rooms/abc"},
			{http.MethodPost, "/roommates"},
			{http.MethodGet, "/roommates"},
			{http.MethodPut, "/roommates/abc"},
			{http.MethodDelete, "/roommates/abc"},
			{http.MethodGet, "/wishlist"},
		}
		for _, tc := range cases {
			if code := do(tc.method, tc.path); code != http.StatusUnauthorized {
				t.Fatalf("%s %s without a token: expected 401, got %d", tc.method, tc.path, code)
			}
		}
	})
}
