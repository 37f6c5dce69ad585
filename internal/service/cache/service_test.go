package cache

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"
)

type testPayload struct {
	Name string `json:"name"`
}

func newTestCacheService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mini := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(mini.Addr())
	if err != nil {
		t.Fatalf("failed to split address: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{net.JoinHostPort(host, portStr)},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		t.Fatalf("failed to create valkey client: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		t.Fatalf("failed to ping miniredis: %v", err)
	}
	svc := &Service{client: client, logger: logger}

	t.Cleanup(func() {
		_ = svc.Close()
		mini.Close()
	})

	return svc, mini
}

func TestCacheServiceSetGetAndExists(t *testing.T) {
	svc, mini := newTestCacheService(t)
	ctx := context.Background()

	value := testPayload{Name: "value"}
	if err := svc.Set(ctx, "key", value, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got testPayload
	found, err := svc.Get(ctx, "key", &got)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found || got.Name != "value" {
		t.Fatalf("unexpected value: %+v, found=%v", got, found)
	}

	// stored representation is plain JSON
	raw, err := mini.Get("key")
	if err != nil {
		t.Fatalf("raw get failed: %v", err)
	}
	var decoded testPayload
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("stored value is not valid JSON: %v", err)
	}
	if decoded.Name != "value" {
		t.Fatalf("unexpected stored value: %+v", decoded)
	}

	exists, err := svc.Exists(ctx, "key")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected key to exist")
	}

	if err := svc.Expire(ctx, "key", time.Second); err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	mini.FastForward(2 * time.Second)

	exists, err = svc.Exists(ctx, "key")
	if err != nil {
		t.Fatalf("exists after expire failed: %v", err)
	}
	if exists {
		t.Fatalf("expected key to expire")
	}
}

func TestCacheServiceGetMissingKey(t *testing.T) {
	svc, _ := newTestCacheService(t)

	var got testPayload
	found, err := svc.Get(context.Background(), "missing", &got)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found {
		t.Fatalf("expected missing key to return found=false")
	}
}

func TestCacheServiceDelMany(t *testing.T) {
	svc, _ := newTestCacheService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "a", testPayload{Name: "A"}, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := svc.Set(ctx, "b", testPayload{Name: "B"}, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	count, err := svc.DelMany(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("delmany failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 deletions, got %d", count)
	}
}

func TestCacheServiceSetOperations(t *testing.T) {
	svc, _ := newTestCacheService(t)
	ctx := context.Background()

	added, err := svc.SAdd(ctx, "sessions:user-1", []string{"t1", "t2"})
	if err != nil {
		t.Fatalf("sadd failed: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 additions, got %d", added)
	}

	isMember, err := svc.SIsMember(ctx, "sessions:user-1", "t1")
	if err != nil {
		t.Fatalf("sismember failed: %v", err)
	}
	if !isMember {
		t.Fatalf("expected t1 to be a member")
	}

	members, err := svc.SMembers(ctx, "sessions:user-1")
	if err != nil {
		t.Fatalf("smembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	removed, err := svc.SRem(ctx, "sessions:user-1", []string{"t1"})
	if err != nil {
		t.Fatalf("srem failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
}
