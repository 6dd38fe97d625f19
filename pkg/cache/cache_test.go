package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// exerciseCache runs the behavior every persistent backend must share.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "layout:a", []byte(`{"v":1}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:a")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if !bytes.Equal(data, []byte(`{"v":1}`)) {
		t.Errorf("Get = %q", data)
	}

	if err := c.Set(ctx, "layout:a", []byte(`{"v":2}`), time.Hour); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, _, _ = c.Get(ctx, "layout:a")
	if !bytes.Equal(data, []byte(`{"v":2}`)) {
		t.Errorf("Get after overwrite = %q", data)
	}

	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "layout:signup", []byte(`{"fields":[]}`), 0); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, err := c.Get(ctx, "layout:signup"); hit || err != nil {
		t.Errorf("Get = hit %v, err %v; want a clean miss", hit, err)
	}
	if err := c.Delete(ctx, "layout:signup"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	exerciseCache(t, c)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "plan:x", []byte("p"), time.Minute)
	if _, hit, _ := c.Get(ctx, "plan:x"); !hit {
		t.Fatal("entry should be live before its ttl")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "plan:x"); hit {
		t.Error("entry should expire after its ttl")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not evicted, Len = %d", c.Len())
	}
}

func TestMemoryCacheCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	in := []byte("abc")
	_ = c.Set(ctx, "k", in, 0)
	in[0] = 'x'
	out, _, _ := c.Get(ctx, "k")
	if string(out) != "abc" {
		t.Errorf("stored value aliased caller slice: %q", out)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exerciseCache(t, c)
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)

	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v; want miss", hit, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheExpired(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), time.Nanosecond)
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")
	c, _ := NewFileCache(dir)
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("dir should exist after Clear: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dir has %d entries after Clear", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q", c.Dir())
	}
}

func TestSQLiteCache(t *testing.T) {
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteCache: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestSQLiteCachePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "layout:form", []byte("saved"), 0)
	c.Close()

	c, err = NewSQLiteCache(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	data, hit, err := c.Get(ctx, "layout:form")
	if err != nil || !hit || string(data) != "saved" {
		t.Errorf("reopened Get = %q, %v, %v", data, hit, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{name: "default is file", opts: Options{Dir: dir}, want: "*cache.FileCache"},
		{name: "file", opts: Options{Backend: "FILE", Dir: dir}, want: "*cache.FileCache"},
		{name: "memory", opts: Options{Backend: BackendMemory}, want: "*cache.MemoryCache"},
		{name: "none", opts: Options{Backend: BackendNone}, want: "cache.NullCache"},
		{name: "sqlite in dir", opts: Options{Backend: BackendSQLite, Dir: dir}, want: "*cache.SQLiteCache"},
		{name: "file without dir", opts: Options{Backend: BackendFile}, wantErr: true},
		{name: "sqlite without path", opts: Options{Backend: BackendSQLite}, wantErr: true},
		{name: "unknown", opts: Options{Backend: "etcd"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(ctx, tt.opts)
			if tt.wantErr {
				if err == nil {
					c.Close()
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer c.Close()
			if got := typeName(c); got != tt.want {
				t.Errorf("Open() type = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := Open(ctx, Options{Backend: "etcd"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("unknown backend error = %v", err)
	}
}

func typeName(c Cache) string {
	switch c.(type) {
	case *FileCache:
		return "*cache.FileCache"
	case *MemoryCache:
		return "*cache.MemoryCache"
	case NullCache:
		return "cache.NullCache"
	case *SQLiteCache:
		return "*cache.SQLiteCache"
	}
	return "?"
}

func TestDigest(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Digest([]byte(tt.in)); got != tt.want {
				t.Errorf("Digest(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.LayoutKey("signup"); got != "layout:signup" {
		t.Errorf("LayoutKey = %q", got)
	}

	a := k.PlanKey("h1", PlanKeyOpts{FieldID: "email", Width: 0.5, Row: 1})
	b := k.PlanKey("h1", PlanKeyOpts{FieldID: "email", Width: 0.5, Row: 1})
	if a != b {
		t.Error("PlanKey should be deterministic")
	}
	if !strings.HasPrefix(a, "plan:") {
		t.Errorf("PlanKey prefix: %q", a)
	}

	variants := []string{
		k.PlanKey("h2", PlanKeyOpts{FieldID: "email", Width: 0.5, Row: 1}),
		k.PlanKey("h1", PlanKeyOpts{FieldID: "phone", Width: 0.5, Row: 1}),
		k.PlanKey("h1", PlanKeyOpts{FieldID: "email", Width: 1, Row: 1}),
		k.PlanKey("h1", PlanKeyOpts{FieldID: "email", Width: 0.5, Row: 2}),
	}
	for i, v := range variants {
		if v == a {
			t.Errorf("variant %d collides with base key", i)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "tenant:acme:")
	plain := NewDefaultKeyer()

	if got := scoped.LayoutKey("x"); got != "tenant:acme:layout:x" {
		t.Errorf("LayoutKey = %q", got)
	}
	opts := PlanKeyOpts{FieldID: "a", Width: 1, Row: 0}
	if got, want := scoped.PlanKey("h", opts), "tenant:acme:"+plain.PlanKey("h", opts); got != want {
		t.Errorf("PlanKey = %q, want %q", got, want)
	}

	if NewScopedKeyer(nil, "p:").LayoutKey("x") != "p:layout:x" {
		t.Error("nil inner keyer should fall back to default")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })

	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("succeeds after retries", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return Retryable(boom)
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("non-retryable stops", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) || calls != 1 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("gives up unwrapped", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return Retryable(boom) })
		if err != boom {
			t.Errorf("err = %#v, want bare cause", err)
		}
		if IsRetryable(err) {
			t.Error("final error should not be marked retryable")
		}
	})

	t.Run("custom attempts", func(t *testing.T) {
		calls := 0
		_ = Retry(ctx, 5, time.Millisecond, func() error {
			calls++
			return Retryable(boom)
		})
		if calls != 5 {
			t.Errorf("calls = %d, want 5", calls)
		}
		calls = 0
		_ = Retry(ctx, 0, time.Millisecond, func() error {
			calls++
			return Retryable(boom)
		})
		if calls != 1 {
			t.Errorf("attempts < 1 should still call once, got %d", calls)
		}
	})

	t.Run("context cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(cctx, func() error { return Retryable(boom) })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v", err)
		}
	})
}
