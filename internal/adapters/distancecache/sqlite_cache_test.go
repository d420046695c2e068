package distancecache

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKeyIsStableUnderMapIterationOrder(t *testing.T) {
	raw := map[int]map[int]float64{
		1: {2: 5, 3: 8},
		2: {1: 5, 3: 3},
	}
	k1 := Key(raw)
	k2 := Key(raw)
	if k1 != k2 {
		t.Errorf("Key() is not stable across calls: %q != %q", k1, k2)
	}
}

func TestGetMissesThenPutThenHits(t *testing.T) {
	db := openTestDB(t)
	c := New(db)
	if err := c.InitSchema(); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}

	raw := map[int]map[int]float64{1: {2: 5}, 2: {1: 5}}
	key := Key(raw)

	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("expected a cache miss before Put, got ok=%v err=%v", ok, err)
	}

	closed := map[int]map[int]float64{1: {2: 5}, 2: {1: 5}}
	if err := c.Put(key, closed); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected a cache hit after Put, got ok=%v err=%v", ok, err)
	}
	if got[1][2] != 5 {
		t.Errorf("Get() = %+v, want distance 5 from 1 to 2", got)
	}
}
