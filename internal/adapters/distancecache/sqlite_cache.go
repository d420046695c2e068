// Package distancecache persists a closed distance matrix keyed by a
// content hash of its raw input, so repeated runs against the same
// locations/distances files skip the Dijkstra closure pass. Adapted from
// the teacher's per-pair SQLite distance cache, retargeted from
// origin/destination lookups to whole-matrix storage.
package distancecache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SqliteCache is a SQLite-backed cache of closed distance matrices.
type SqliteCache struct {
	DB *sql.DB
}

// New returns a SqliteCache over db. InitSchema must be called once before
// use.
func New(db *sql.DB) *SqliteCache {
	return &SqliteCache{DB: db}
}

// InitSchema creates the distance_cache table if it does not already
// exist.
func (c *SqliteCache) InitSchema() error {
	if c.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	_, err := c.DB.Exec(`
	CREATE TABLE IF NOT EXISTS distance_cache (
		matrix_key TEXT PRIMARY KEY,
		closed_matrix TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("distance cache: init schema: %w", err)
	}
	return nil
}

// Key deterministically hashes a raw distance matrix so two runs over the
// same distances.csv content hit the same cache row.
func Key(raw map[int]map[int]float64) string {
	origins := make([]int, 0, len(raw))
	for o := range raw {
		origins = append(origins, o)
	}
	sort.Ints(origins)

	var sb strings.Builder
	for _, o := range origins {
		dests := raw[o]
		destIDs := make([]int, 0, len(dests))
		for d := range dests {
			destIDs = append(destIDs, d)
		}
		sort.Ints(destIDs)
		sb.WriteString(strconv.Itoa(o))
		for _, d := range destIDs {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(d))
			sb.WriteByte('=')
			sb.WriteString(strconv.FormatFloat(dests[d], 'f', -1, 64))
		}
		sb.WriteByte(';')
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return fmt.Sprintf("%x", sum)
}

// Get returns the closed matrix stored under key, or (nil, false) on a
// cache miss.
func (c *SqliteCache) Get(key string) (map[int]map[int]float64, bool, error) {
	if c.DB == nil {
		return nil, false, errors.New("distance cache: db is nil")
	}

	var blob string
	err := c.DB.QueryRow(`SELECT closed_matrix FROM distance_cache WHERE matrix_key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("distance cache: get: %w", err)
	}

	var matrix map[int]map[int]float64
	if err := json.Unmarshal([]byte(blob), &matrix); err != nil {
		return nil, false, fmt.Errorf("distance cache: decode: %w", err)
	}
	return matrix, true, nil
}

// Put stores the closed matrix under key, replacing any existing entry.
func (c *SqliteCache) Put(key string, closed map[int]map[int]float64) error {
	if c.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	blob, err := json.Marshal(closed)
	if err != nil {
		return fmt.Errorf("distance cache: encode: %w", err)
	}

	_, err = c.DB.Exec(`INSERT OR REPLACE INTO distance_cache (matrix_key, closed_matrix) VALUES (?, ?)`, key, string(blob))
	if err != nil {
		return fmt.Errorf("distance cache: put: %w", err)
	}
	return nil
}
