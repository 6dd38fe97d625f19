//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Run with: MAGNETGRID_TEST_MONGO_URI=mongodb://localhost:27017 go test -tags integration ./pkg/cache
func TestMongoCache(t *testing.T) {
	uri := os.Getenv("MAGNETGRID_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MAGNETGRID_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	coll := "cache_test_" + uuid.NewString()[:8]
	c, err := NewMongoCache(ctx, uri, "magnetgrid_test", coll)
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	t.Cleanup(func() {
		_ = c.coll.Drop(context.Background())
		c.Close()
	})

	exerciseCache(t, c)

	_ = c.Set(ctx, "short", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss before the TTL monitor runs")
	}

	cur, err := c.coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	var indexes []bson.M
	if err := cur.All(ctx, &indexes); err != nil {
		t.Fatalf("decode indexes: %v", err)
	}
	ttl := false
	for _, idx := range indexes {
		if hasKey(idx["key"], "expires_at") && idx["expireAfterSeconds"] != nil {
			ttl = true
		}
	}
	if !ttl {
		t.Errorf("no TTL index on expires_at in %v", indexes)
	}
}

func hasKey(doc any, name string) bool {
	switch d := doc.(type) {
	case bson.M:
		_, ok := d[name]
		return ok
	case bson.D:
		for _, e := range d {
			if e.Key == name {
				return true
			}
		}
	}
	return false
}
