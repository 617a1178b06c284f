// Package gain persists byte-savings counters across tokf invocations and
// renders the `tokf gain` report (§6 CLI surface). Out of scope for the
// engine itself (§1 "persistent counters for bytes saved" is an external
// collaborator), backed by bbolt, a single-file embedded KV store, for
// boring, dependency-light local persistence.
package gain

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("gain")

// Store wraps a bbolt database file holding per-day, per-filter byte
// counters.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the gain database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("gain: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record adds one filter execution's before/after byte counts to today's
// running total for that filter.
func (s *Store) Record(filterName string, before, after int) error {
	day := time.Now().UTC().Format("2006-01-02")
	key := []byte(day + "\x00" + filterName)
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		var saved int64
		if v := b.Get(key); v != nil {
			saved = int64(binary.BigEndian.Uint64(v))
		}
		saved += int64(before - after)
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(saved))
		return b.Put(key, buf[:])
	})
}

// Entry is one rendered row of a gain report.
type Entry struct {
	Day        string
	FilterName string
	BytesSaved int64
}

// Report lists every recorded entry, optionally restricted to a single
// filter name (byFilter == "" means all filters).
func (s *Store) Report(byFilter string) ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		return b.ForEach(func(k, v []byte) error {
			day, name, err := splitKey(k)
			if err != nil {
				return nil // skip malformed keys rather than aborting the report
			}
			if byFilter != "" && name != byFilter {
				return nil
			}
			out = append(out, Entry{
				Day:        day,
				FilterName: name,
				BytesSaved: int64(binary.BigEndian.Uint64(v)),
			})
			return nil
		})
	})
	return out, err
}

func splitKey(k []byte) (day, name string, err error) {
	for i, b := range k {
		if b == 0 {
			return string(k[:i]), string(k[i+1:]), nil
		}
	}
	return "", "", fmt.Errorf("gain: malformed key %q", k)
}

// FormatBytes renders a byte count the way `tokf gain` prints it
// (go-humanize's binary-prefix IEC form, e.g. "4.2 KiB").
func FormatBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}
