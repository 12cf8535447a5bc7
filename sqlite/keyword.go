package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/mkarczewski/keysheet"
)

var _ keysheet.KeywordService = (*KeywordService)(nil)

// KeywordService implements keysheet.KeywordService using SQLite.
type KeywordService struct {
	db *DB
}

// NewKeywordService creates a new KeywordService.
func NewKeywordService(db *DB) *KeywordService {
	return &KeywordService{db: db}
}

// hashKeyword computes xxHash of the keyword and returns a hex string. The
// unique index on the hash is what makes repeat inserts cheap to reject.
func hashKeyword(k keysheet.Keyword) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(k.String()))
	return hex.EncodeToString(b)
}

// Record implements keysheet.Sink. A keyword already on file is left
// untouched, keeping its original engine attribution and discovery time.
func (s *KeywordService) Record(ctx context.Context, d keysheet.Discovery) error {
	if err := d.Keyword.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO keywords (id, keyword, keyword_hash, engine, discovered_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(keyword_hash) DO NOTHING
	`, uuid.New().String(), d.Keyword.String(), hashKeyword(d.Keyword), string(d.Engine),
		time.Now().UTC().Format(time.RFC3339))

	return err
}

// FindKeywords implements keysheet.KeywordService.
func (s *KeywordService) FindKeywords(ctx context.Context, filter keysheet.KeywordFilter) ([]*keysheet.KeywordRecord, int, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, keyword, engine, discovered_at, COUNT(*) OVER() FROM keywords WHERE 1=1`)

	if filter.Engine != nil {
		query.WriteString(" AND engine = ?")
		args = append(args, string(*filter.Engine))
	}

	query.WriteString(" ORDER BY discovered_at DESC, keyword ASC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite only accepts OFFSET after a LIMIT clause; -1 is unlimited.
		query.WriteString(" LIMIT -1")
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []*keysheet.KeywordRecord
	var total int
	for rows.Next() {
		var rec keysheet.KeywordRecord
		var keyword, engine, discoveredAt string
		if err := rows.Scan(&rec.ID, &keyword, &engine, &discoveredAt, &total); err != nil {
			return nil, 0, err
		}
		rec.Keyword = keysheet.Keyword(keyword)
		rec.Engine = keysheet.Engine(engine)
		rec.DiscoveredAt, err = time.Parse(time.RFC3339, discoveredAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to parse discovered_at: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// CountKeywords implements keysheet.KeywordService.
func (s *KeywordService) CountKeywords(ctx context.Context) (map[keysheet.Engine]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT engine, COUNT(*) FROM keywords GROUP BY engine`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[keysheet.Engine]int)
	for rows.Next() {
		var engine string
		var n int
		if err := rows.Scan(&engine, &n); err != nil {
			return nil, err
		}
		counts[keysheet.Engine(engine)] = n
	}
	return counts, rows.Err()
}
