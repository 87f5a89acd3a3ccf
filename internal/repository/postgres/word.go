package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"wordfeed/internal/domain"
	"wordfeed/internal/repository"
)

// insertChunk bounds the number of rows per multi-row INSERT
const insertChunk = 500

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var wordColumns = []string{"id", "term", "meaning", "note", "day", "category", "active", "created_at"}

// WordRepo implements repository.WordRepository
type WordRepo struct {
	db *sql.DB
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

// FetchPage returns one window of active words in the seed's order.
// Filtering and exclusion happen before LIMIT/OFFSET so offsets count only eligible rows.
func (r *WordRepo) FetchPage(ctx context.Context, q repository.PageQuery) ([]domain.WordEntry, error) {
	b := psql.Select(wordColumns...).
		From("words").
		Where(sq.Eq{"active": true})
	b = applyFilter(b, q.Filter)

	if len(q.Excluded) > 0 {
		b = b.Where("NOT (id = ANY(?))", pq.Array(q.Excluded))
	}

	b = b.OrderByClause("md5(id::text || ?), id", q.Seed).
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset))

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build page query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []domain.WordEntry
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}

	return words, rows.Err()
}

// Categories returns distinct categories of active words
func (r *WordRepo) Categories(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("DISTINCT category").
		From("words").
		Where(sq.Eq{"active": true}).
		Where("category IS NOT NULL AND category <> ''").
		OrderBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// Days returns day buckets of active words with counts
func (r *WordRepo) Days(ctx context.Context) ([]domain.DayBucket, error) {
	query, args, err := psql.Select("day", "COUNT(*)").
		From("words").
		Where(sq.Eq{"active": true}).
		Where(sq.NotEq{"day": nil}).
		GroupBy("day").
		OrderBy("day").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build days query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []domain.DayBucket
	for rows.Next() {
		var d domain.DayBucket
		if err := rows.Scan(&d.Day, &d.WordCount); err != nil {
			return nil, err
		}
		days = append(days, d)
	}

	return days, rows.Err()
}

// ExistingTerms returns every stored term, active or not
func (r *WordRepo) ExistingTerms(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT term FROM words`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}

	return terms, rows.Err()
}

// InsertWords appends words in one transaction
func (r *WordRepo) InsertWords(ctx context.Context, words []domain.WordEntry) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	n, err := insertWords(ctx, tx, words)
	if err != nil {
		return 0, err
	}

	return n, tx.Commit()
}

// ReplaceWords drops every word and restarts the id sequence before inserting,
// so previously issued ids are reused
func (r *WordRepo) ReplaceWords(ctx context.Context, words []domain.WordEntry) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE TABLE words RESTART IDENTITY`); err != nil {
		return 0, fmt.Errorf("truncate words: %w", err)
	}

	n, err := insertWords(ctx, tx, words)
	if err != nil {
		return 0, err
	}

	return n, tx.Commit()
}

func insertWords(ctx context.Context, tx *sql.Tx, words []domain.WordEntry) (int, error) {
	total := 0
	for start := 0; start < len(words); start += insertChunk {
		end := start + insertChunk
		if end > len(words) {
			end = len(words)
		}

		b := psql.Insert("words").Columns("term", "meaning", "note", "day", "category", "active")
		for _, w := range words[start:end] {
			b = b.Values(w.Term, w.Meaning, nullString(w.Note), nullInt(w.Day), nullStringPtr(w.Category), w.Active)
		}

		query, args, err := b.ToSql()
		if err != nil {
			return total, fmt.Errorf("build insert: %w", err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("insert words: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += int(affected)
	}
	return total, nil
}

func applyFilter(b sq.SelectBuilder, f domain.Filter) sq.SelectBuilder {
	if f.Category != nil {
		b = b.Where(sq.Eq{"category": *f.Category})
	}
	if f.Day != nil {
		b = b.Where(sq.Eq{"day": *f.Day})
	}
	return b
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(s rowScanner) (domain.WordEntry, error) {
	var (
		w        domain.WordEntry
		note     sql.NullString
		day      sql.NullInt64
		category sql.NullString
	)
	if err := s.Scan(&w.ID, &w.Term, &w.Meaning, &note, &day, &category, &w.Active, &w.CreatedAt); err != nil {
		return domain.WordEntry{}, err
	}

	w.Note = note.String
	if day.Valid {
		d := int(day.Int64)
		w.Day = &d
	}
	if category.Valid {
		c := category.String
		w.Category = &c
	}
	return w, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return nullString(*s)
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
