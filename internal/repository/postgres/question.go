package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"wordfeed/internal/domain"
)

// QuestionRepo implements repository.QuestionRepository
type QuestionRepo struct {
	db *sql.DB
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *sql.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Versions returns distinct question set versions
func (r *QuestionRepo) Versions(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT version FROM questions ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}

	return versions, rows.Err()
}

// QuestionsByVersion returns questions of a version with their answers in stored order
func (r *QuestionRepo) QuestionsByVersion(ctx context.Context, version string) ([]domain.Question, error) {
	query := `
		SELECT id, version, question, note
		FROM questions
		WHERE version = $1
		ORDER BY position, id
	`
	rows, err := r.db.QueryContext(ctx, query, version)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		questions []domain.Question
		ids       []int64
	)
	for rows.Next() {
		var (
			q    domain.Question
			note sql.NullString
		)
		if err := rows.Scan(&q.ID, &q.Version, &q.Text, &note); err != nil {
			return nil, err
		}
		q.Note = note.String
		questions = append(questions, q)
		ids = append(ids, q.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}

	answers, err := r.answersFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Answers = answers[questions[i].ID]
	}

	return questions, nil
}

func (r *QuestionRepo) answersFor(ctx context.Context, questionIDs []int64) (map[int64][]domain.Answer, error) {
	query := `
		SELECT id, question_id, answer, correct, note
		FROM answers
		WHERE question_id = ANY($1)
		ORDER BY question_id, id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(questionIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byQuestion := make(map[int64][]domain.Answer)
	for rows.Next() {
		var (
			a    domain.Answer
			note sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Text, &a.Correct, &note); err != nil {
			return nil, err
		}
		a.Note = note.String
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}

	return byQuestion, rows.Err()
}

// SaveVersion replaces every question of a version. Answers go with their question (ON DELETE CASCADE).
func (r *QuestionRepo) SaveVersion(ctx context.Context, version string, questions []domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE version = $1`, version); err != nil {
		return fmt.Errorf("delete version %q: %w", version, err)
	}

	for i, q := range questions {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO questions (version, question, note, position)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, version, q.Text, nullString(q.Note), i).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", i+1, err)
		}

		if len(q.Answers) == 0 {
			continue
		}

		b := psql.Insert("answers").Columns("question_id", "answer", "correct", "note")
		for _, a := range q.Answers {
			b = b.Values(id, a.Text, a.Correct, nullString(a.Note))
		}
		query, args, err := b.ToSql()
		if err != nil {
			return fmt.Errorf("build answers insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert answers of question %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// foreignKeyViolation is the Postgres SQLSTATE for a missing referenced row
const foreignKeyViolation = "23503"

// AddAnswer appends one answer to a stored question and returns it with its id
func (r *QuestionRepo) AddAnswer(ctx context.Context, questionID int64, a domain.Answer) (domain.Answer, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO answers (question_id, answer, correct, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, questionID, a.Text, a.Correct, nullString(a.Note)).Scan(&a.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return domain.Answer{}, fmt.Errorf("question %d: %w", questionID, domain.ErrNotFound)
		}
		return domain.Answer{}, err
	}

	a.QuestionID = questionID
	return a, nil
}

// DeleteAnswer removes one answer
func (r *QuestionRepo) DeleteAnswer(ctx context.Context, answerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM answers WHERE id = $1`, answerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("answer %d: %w", answerID, domain.ErrNotFound)
	}
	return nil
}
