package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tests talk to a real Redis and skip when none is running locally.
const testRedisAddr = "localhost:6379"

// cachedUser mirrors the payload shape the auth module stores.
type cachedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// setupTestCache creates a cache over a live Redis connection.
// Returns the cache, the raw client, and a cleanup function.
func setupTestCache(t *testing.T, prefix string) (*Cache, *redis.Client, func()) {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: testRedisAddr,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	cleanupKeys(ctx, client, prefix+"*")

	c := New(client, prefix, 5*time.Minute)

	cleanup := func() {
		cleanupKeys(ctx, client, prefix+"*")
		client.Close()
	}

	return c, client, cleanup
}

// cleanupKeys removes all keys matching the pattern.
func cleanupKeys(ctx context.Context, client *redis.Client, pattern string) {
	var cursor uint64
	for {
		keys, nextCursor, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
}

func TestNew(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	defer client.Close()

	c := New(client, "test:", 10*time.Minute)

	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.prefix != "test:" {
		t.Errorf("prefix = %q, want %q", c.prefix, "test:")
	}
	if c.ttl != 10*time.Minute {
		t.Errorf("ttl = %v, want %v", c.ttl, 10*time.Minute)
	}
	if c.stats == nil {
		t.Error("stats is nil")
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c, _, cleanup := setupTestCache(t, "test:setget:")
	defer cleanup()

	ctx := context.Background()

	testCases := []struct {
		name  string
		key   string
		value cachedUser
	}{
		{
			name:  "plain user",
			key:   "user-1",
			value: cachedUser{ID: "user-1", Name: "Ada", Email: "ada@example.com"},
		},
		{
			name:  "name with special characters",
			key:   "user-2",
			value: cachedUser{ID: "user-2", Name: "O'Brien & Co", Email: "ob@example.com"},
		},
		{
			name:  "zero values",
			key:   "user-3",
			value: cachedUser{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := c.Set(ctx, tc.key, tc.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			var result cachedUser
			found, err := c.Get(ctx, tc.key, &result)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !found {
				t.Fatal("Get() returned found = false, want true")
			}
			if result != tc.value {
				t.Errorf("result = %+v, want %+v", result, tc.value)
			}
		})
	}
}

func TestCache_GetMiss(t *testing.T) {
	c, _, cleanup := setupTestCache(t, "test:miss:")
	defer cleanup()

	var result cachedUser
	found, err := c.Get(context.Background(), "nonexistent", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() returned found = true for nonexistent key, want false")
	}
}

func TestCache_SetWithTTL(t *testing.T) {
	c, _, cleanup := setupTestCache(t, "test:ttl:")
	defer cleanup()

	ctx := context.Background()

	if err := c.SetWithTTL(ctx, "expiring", "test value", 100*time.Millisecond); err != nil {
		t.Fatalf("SetWithTTL() error = %v", err)
	}

	var result string
	found, err := c.Get(ctx, "expiring", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() immediately after Set should find the key")
	}

	time.Sleep(200 * time.Millisecond)

	found, err = c.Get(ctx, "expiring", &result)
	if err != nil {
		t.Fatalf("Get() after expiration error = %v", err)
	}
	if found {
		t.Error("Get() after TTL expiration should return found = false")
	}
}

func TestCache_Delete(t *testing.T) {
	c, _, cleanup := setupTestCache(t, "test:delete:")
	defer cleanup()

	ctx := context.Background()

	if err := c.Set(ctx, "to-delete", "some value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var result string
	found, _ := c.Get(ctx, "to-delete", &result)
	if !found {
		t.Fatal("Key should exist before deletion")
	}

	if err := c.Delete(ctx, "to-delete"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	found, _ = c.Get(ctx, "to-delete", &result)
	if found {
		t.Error("Key should not exist after deletion")
	}
}

func TestCache_Stats(t *testing.T) {
	c, _, cleanup := setupTestCache(t, "test:stats:")
	defer cleanup()

	ctx := context.Background()

	c.Set(ctx, "stats-test", "value")

	var result string
	c.Get(ctx, "stats-test", &result)  // hit
	c.Get(ctx, "nonexistent", &result) // miss
	c.Get(ctx, "stats-test", &result)  // hit
	c.Delete(ctx, "stats-test")

	stats := c.GetStats()

	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Deletes != 1 {
		t.Errorf("Deletes = %d, want 1", stats.Deletes)
	}
	if stats.TotalGets != 3 {
		t.Errorf("TotalGets = %d, want 3", stats.TotalGets)
	}

	wantHitRate := float64(2) / float64(3) * 100
	if stats.HitRate < wantHitRate-0.01 || stats.HitRate > wantHitRate+0.01 {
		t.Errorf("HitRate = %f, want ~%f", stats.HitRate, wantHitRate)
	}
}

func TestCache_KeyPrefix(t *testing.T) {
	c, client, cleanup := setupTestCache(t, "user:")
	defer cleanup()

	ctx := context.Background()

	if err := c.Set(ctx, "abc-123", "myvalue"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// The stored key carries the module prefix.
	result, err := client.Get(ctx, "user:abc-123").Result()
	if err != nil {
		t.Fatalf("Direct Redis Get error = %v", err)
	}
	if result != `"myvalue"` { // JSON encoded string
		t.Errorf("Stored value = %q, want %q", result, `"myvalue"`)
	}
}

func TestCache_Ping(t *testing.T) {
	c, _, cleanup := setupTestCache(t, "test:ping:")
	defer cleanup()

	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestModule_Health(t *testing.T) {
	m := NewModule(testRedisAddr, "test:health:", time.Minute)

	t.Run("before init", func(t *testing.T) {
		status := m.Health(context.Background())
		if status.Healthy {
			t.Error("Health() before Init should be unhealthy")
		}
	})

	if err := m.Init(nil); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}
	defer m.Stop(context.Background())

	ctx := context.Background()
	c := m.GetCache()
	c.Set(ctx, "key", "value")
	var result string
	c.Get(ctx, "key", &result)
	c.Get(ctx, "nonexistent", &result)

	status := m.Health(ctx)
	if !status.Healthy {
		t.Fatalf("Health() = %+v, want healthy", status)
	}
	if status.Details["hits"].(uint64) != 1 {
		t.Errorf("hits = %v, want 1", status.Details["hits"])
	}
	if status.Details["misses"].(uint64) != 1 {
		t.Errorf("misses = %v, want 1", status.Details["misses"])
	}
	if status.Details["prefix"] != "test:health:" {
		t.Errorf("prefix = %v, want %q", status.Details["prefix"], "test:health:")
	}

	cleanupKeys(ctx, m.client, "test:health:*")
}
