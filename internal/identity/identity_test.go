package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mostaqbalcity/forumclient/internal/api"
	"github.com/mostaqbalcity/forumclient/internal/models"
	"github.com/mostaqbalcity/forumclient/internal/pkg/apperrors"
)

func tempTokenStore(t *testing.T) *TokenStore {
	t.Helper()
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	if err != nil {
		t.Fatalf("NewTokenStore: %v", err)
	}
	return store
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newIdentity(t *testing.T, handler http.Handler, tokens *TokenStore) (*Context, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, tokens, 5*time.Second, zerolog.Nop())
	return NewContext(client, tokens, zerolog.Nop()), srv
}

func TestTokenStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")

	store, err := NewTokenStore(path)
	if err != nil {
		t.Fatalf("NewTokenStore: %v", err)
	}
	if store.Token() != "" {
		t.Fatal("fresh store should hold no token")
	}

	if err := store.Save("abc123"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A second store over the same path sees the persisted credential.
	reopened, err := NewTokenStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Token() != "abc123" {
		t.Fatalf("reopened token = %q", reopened.Token())
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("Clear should remove the token file")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear must be idempotent: %v", err)
	}
}

func TestResumeWithoutCredential(t *testing.T) {
	var hits atomic.Int64
	tokens := tempTokenStore(t)
	identity, _ := newIdentity(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}), tokens)

	if err := identity.Resume(context.Background()); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if identity.Current() != nil {
		t.Fatal("no credential should yield no identity")
	}
	if hits.Load() != 0 {
		t.Fatal("resume without credential must not touch the backend")
	}
}

func TestResumeExpiredTokenClearsCredentialLocally(t *testing.T) {
	var hits atomic.Int64
	tokens := tempTokenStore(t)
	if err := tokens.Save(signedToken(t, time.Now().Add(-time.Minute))); err != nil {
		t.Fatalf("Save: %v", err)
	}

	identity, _ := newIdentity(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}), tokens)

	err := identity.Resume(context.Background())
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Fatalf("Resume = %v, want ErrTokenExpired", err)
	}
	if tokens.Token() != "" {
		t.Fatal("expired credential should be cleared")
	}
	if hits.Load() != 0 {
		t.Fatal("expired token must be rejected without a round trip")
	}
}

func TestResumeResolvesProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auth/profile", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.User{ID: 7, Username: "resident7"})
	})

	tokens := tempTokenStore(t)
	if err := tokens.Save(signedToken(t, time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("Save: %v", err)
	}

	identity, _ := newIdentity(t, router, tokens)
	if err := identity.Resume(context.Background()); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	user := identity.Current()
	if user == nil || user.ID != 7 {
		t.Fatalf("current = %+v, want user 7", user)
	}
}

func TestProfileRejectionForcesLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auth/profile", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
	})

	tokens := tempTokenStore(t)
	if err := tokens.Save(signedToken(t, time.Now().Add(time.Hour))); err != nil {
		t.Fatalf("Save: %v", err)
	}

	identity, _ := newIdentity(t, router, tokens)
	if err := identity.Resume(context.Background()); err == nil {
		t.Fatal("expected resume to fail on 401")
	}
	if identity.Current() != nil {
		t.Fatal("identity should be cleared after a 401")
	}
	if tokens.Token() != "" {
		t.Fatal("credential should be cleared after a 401")
	}
}

func TestLoginPersistsTokenAndNotifiesObservers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, api.LoginResponse{
			AccessToken: "issued-token",
			User:        models.User{ID: 7, Username: "resident7"},
		})
	})

	tokens := tempTokenStore(t)
	identity, _ := newIdentity(t, router, tokens)

	var transitions []*models.User
	unsubscribe := identity.OnChange(func(user *models.User) {
		transitions = append(transitions, user)
	})
	defer unsubscribe()

	user, err := identity.Login(context.Background(), "resident7", "pass123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("login user = %+v", user)
	}
	if tokens.Token() != "issued-token" {
		t.Fatalf("persisted token = %q", tokens.Token())
	}

	identity.Logout()
	if identity.Current() != nil || tokens.Token() != "" {
		t.Fatal("logout should clear identity and credential")
	}

	if len(transitions) != 2 || transitions[0] == nil || transitions[1] != nil {
		t.Fatalf("observer transitions = %v, want [user, nil]", transitions)
	}
}

func TestObserverDeregistration(t *testing.T) {
	tokens := tempTokenStore(t)
	identity := NewContext(api.NewClient("http://127.0.0.1:0", tokens, time.Second, zerolog.Nop()), tokens, zerolog.Nop())

	calls := 0
	unsubscribe := identity.OnChange(func(*models.User) { calls++ })
	unsubscribe()

	identity.Logout()
	if calls != 0 {
		t.Fatalf("deregistered observer was called %d times", calls)
	}
}
