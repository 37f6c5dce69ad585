package identity

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/kapu/mathsprint-site-go/internal/service/cache"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbName := strings.NewReplacer("/", "_", " ", "_", ":", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func newTestCache(t *testing.T) *cache.Service {
	t.Helper()

	mr := miniredis.RunT(t)

	host, portStr, err := net.SplitHostPort(mr.Addr())
	if err != nil {
		t.Fatalf("failed to split host/port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("failed to parse port: %v", err)
	}

	cacheSvc, err := cache.NewCacheService(cache.Config{
		Host:         host,
		Port:         port,
		DisableCache: true,
	}, newTestLogger())
	if err != nil {
		t.Fatalf("failed to create cache service: %v", err)
	}
	t.Cleanup(func() { _ = cacheSvc.Close() })

	return cacheSvc
}

// fakeProvider spins up a stub OAuth server with token and userinfo endpoints.
type fakeProvider struct {
	server *httptest.Server

	// profile returned by the userinfo endpoint (mutable between logins)
	sub     string
	name    string
	email   string
	picture string
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()

	fp := &fakeProvider{sub: "ext-123", name: "Test Player", email: "player@example.com"}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-access-token","token_type":"bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"sub":%q,"name":%q,"email":%q,"picture":%q}`, fp.sub, fp.name, fp.email, fp.picture)
	})

	fp.server = httptest.NewServer(mux)
	t.Cleanup(fp.server.Close)
	return fp
}

func (fp *fakeProvider) providerConfig() ProviderConfig {
	return ProviderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthURL:      fp.server.URL + "/auth",
		TokenURL:     fp.server.URL + "/token",
		UserInfoURL:  fp.server.URL + "/userinfo",
		RedirectURL:  "http://localhost:8080/api/auth/callback",
		Scopes:       []string{"openid", "profile"},
	}
}

func newTestService(t *testing.T, fp *fakeProvider) *Service {
	t.Helper()

	svc, err := NewService(context.Background(), newTestDB(t), newTestCache(t), NewProvider(fp.providerConfig()), newTestLogger(), DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

// beginLogin starts a login flow and extracts the state parameter from the auth URL.
func beginLogin(t *testing.T, svc *Service) string {
	t.Helper()

	authURL, err := svc.BeginLogin(context.Background())
	if err != nil {
		t.Fatalf("BeginLogin failed: %v", err)
	}
	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("failed to parse auth URL: %v", err)
	}
	state := parsed.Query().Get("state")
	if state == "" {
		t.Fatalf("auth URL has no state parameter: %s", authURL)
	}
	return state
}

func assertIdentityCode(t *testing.T, err error, want ErrorCode) {
	t.Helper()

	var ie *Error
	if !stdErrors.As(err, &ie) {
		t.Fatalf("expected *identity.Error, got: %T (%v)", err, err)
	}
	if ie.Code != want {
		t.Fatalf("unexpected code: got=%s want=%s", ie.Code, want)
	}
}

func TestCompleteLogin_CreatesUser(t *testing.T) {
	fp := newFakeProvider(t)
	svc := newTestService(t, fp)
	ctx := context.Background()

	state := beginLogin(t, svc)
	session, user, err := svc.CompleteLogin(ctx, state, "auth-code")
	if err != nil {
		t.Fatalf("CompleteLogin failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected a session token")
	}
	if user.ExternalID != "ext-123" || user.DisplayName != "Test Player" {
		t.Fatalf("unexpected user: %+v", user)
	}

	me, err := svc.Me(ctx, session.Token)
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if me.ID != user.ID {
		t.Fatalf("Me returned different user: %s vs %s", me.ID, user.ID)
	}
}

func TestCompleteLogin_UpdatesExistingUser(t *testing.T) {
	fp := newFakeProvider(t)
	svc := newTestService(t, fp)
	ctx := context.Background()

	state := beginLogin(t, svc)
	_, first, err := svc.CompleteLogin(ctx, state, "auth-code")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}

	fp.name = "Renamed Player"
	fp.picture = "https://cdn.example.com/avatar.png"

	state = beginLogin(t, svc)
	_, second, err := svc.CompleteLogin(ctx, state, "auth-code")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected same user, got %s and %s", first.ID, second.ID)
	}
	if second.DisplayName != "Renamed Player" {
		t.Fatalf("displayName not updated: %s", second.DisplayName)
	}
	if second.AvatarURL == nil || *second.AvatarURL != "https://cdn.example.com/avatar.png" {
		t.Fatalf("avatarURL not updated: %v", second.AvatarURL)
	}
}

func TestCompleteLogin_StateValidation(t *testing.T) {
	fp := newFakeProvider(t)
	svc := newTestService(t, fp)
	ctx := context.Background()

	t.Run("unknown state", func(t *testing.T) {
		_, _, err := svc.CompleteLogin(ctx, "st_forged", "auth-code")
		assertIdentityCode(t, err, CodeStateMismatch)
	})

	t.Run("state is single use", func(t *testing.T) {
		state := beginLogin(t, svc)
		if _, _, err := svc.CompleteLogin(ctx, state, "auth-code"); err != nil {
			t.Fatalf("first use failed: %v", err)
		}
		_, _, err := svc.CompleteLogin(ctx, state, "auth-code")
		assertIdentityCode(t, err, CodeStateMismatch)
	})

	t.Run("missing parameters", func(t *testing.T) {
		_, _, err := svc.CompleteLogin(ctx, "", "")
		assertIdentityCode(t, err, CodeInvalidInput)
	})
}

func TestLogout(t *testing.T) {
	fp := newFakeProvider(t)
	svc := newTestService(t, fp)
	ctx := context.Background()

	state := beginLogin(t, svc)
	session, _, err := svc.CompleteLogin(ctx, state, "auth-code")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	_, err = svc.Me(ctx, session.Token)
	assertIdentityCode(t, err, CodeUnauthorized)

	err = svc.Logout(ctx, session.Token)
	assertIdentityCode(t, err, CodeUnauthorized)
}

func TestRevokeAllSessions(t *testing.T) {
	fp := newFakeProvider(t)
	svc := newTestService(t, fp)
	ctx := context.Background()

	state := beginLogin(t, svc)
	first, user, err := svc.CompleteLogin(ctx, state, "auth-code")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}

	state = beginLogin(t, svc)
	second, _, err := svc.CompleteLogin(ctx, state, "auth-code")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	if err := svc.RevokeAllSessions(ctx, user.ID); err != nil {
		t.Fatalf("RevokeAllSessions failed: %v", err)
	}

	for _, token := range []string{first.Token, second.Token} {
		_, err := svc.Me(ctx, token)
		assertIdentityCode(t, err, CodeUnauthorized)
	}
}

func TestValidateSession_MissingToken(t *testing.T) {
	fp := newFakeProvider(t)
	svc := newTestService(t, fp)

	_, err := svc.ValidateSession(context.Background(), "")
	assertIdentityCode(t, err, CodeUnauthorized)
}

func TestTokenHelpers(t *testing.T) {
	first, err := mintToken(sessionTokenPrefix, 32)
	if err != nil {
		t.Fatalf("mintToken failed: %v", err)
	}
	second, err := mintToken(sessionTokenPrefix, 32)
	if err != nil {
		t.Fatalf("mintToken failed: %v", err)
	}

	if !strings.HasPrefix(first, sessionTokenPrefix) {
		t.Fatalf("token %q missing prefix %q", first, sessionTokenPrefix)
	}
	if first == second {
		t.Fatalf("expected distinct tokens, got %q twice", first)
	}

	digest := tokenDigest(first)
	if len(digest) != 64 {
		t.Fatalf("digest length = %d, want 64 hex chars", len(digest))
	}
	if digest != tokenDigest(first) {
		t.Fatalf("digest is not stable for the same token")
	}
}
