package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wordfeed/internal/config"
	"wordfeed/internal/database"
	"wordfeed/internal/domain"
	"wordfeed/internal/repository/postgres"
	"wordfeed/internal/repository/sqlite"
	"wordfeed/internal/service"
)

// cliRetry gives up quickly; an operator is waiting
var cliRetry = database.Retry{Attempts: 3, Delay: time.Second}

// env is what every command needs from the outside world
type env struct {
	cfg    *config.Config
	db     *sql.DB
	logger *zap.Logger
}

func openEnv(ctx context.Context) (*env, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := config.LoadCLI()
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(ctx, cfg.DSN(), cliRetry, logger)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, db: db, logger: logger}, nil
}

func (e *env) Close() {
	e.db.Close()
	e.logger.Sync()
}

// --- migrate ---

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			if err := database.Migrate(e.db, e.cfg.MigrationsPath, e.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

// --- import ---

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import words or quiz questions from an .xlsx workbook",
	}
	cmd.AddCommand(newImportWordsCmd(), newImportQuizCmd())
	return cmd
}

func newImportWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words <file.xlsx>",
		Short: "Import a word list",
		Long: `Import a word list.

By default only terms that are not stored yet are added. With --replace every
stored word is dropped first, identifiers restart, and everyone's progress is
cleared.

Examples:
  wordctl import words day1.xlsx
  wordctl import words all-words.xlsx --replace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replace, _ := cmd.Flags().GetBool("replace")
			mode := domain.ImportAppend
			if replace {
				mode = domain.ImportReplace
			}

			f, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			local, err := sqlite.Open(e.cfg.LocalStorePath)
			if err != nil {
				return err
			}
			defer local.Close()

			svc := importService(e, local)
			result, err := svc.ImportWords(cmd.Context(), f, mode)
			if result != nil {
				printResult(cmd.OutOrStdout(), result)
			}
			if errors.Is(err, domain.ErrNoNewWords) {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing new to import")
				return nil
			}
			return err
		},
	}
	cmd.Flags().Bool("replace", false, "drop every stored word before importing")
	return cmd
}

func newImportQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz <file.xlsx>",
		Short: "Import a quiz question set, replacing the version's questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, _ := cmd.Flags().GetString("version")
			if strings.TrimSpace(version) == "" {
				return domain.ErrEmptyVersion
			}

			f, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			svc := importService(e, nil)
			n, err := svc.ImportQuestions(cmd.Context(), f, version)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d questions saved as version %q\n", n, version)
			return nil
		},
	}
	cmd.Flags().String("version", "", "question set version to replace")
	cmd.MarkFlagRequired("version")
	return cmd
}

// --- answer ---

func newAnswerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answer",
		Short: "Edit single answers of a stored quiz question",
	}
	cmd.AddCommand(newAnswerAddCmd(), newAnswerDeleteCmd())
	return cmd
}

func newAnswerAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <question-id> <text>",
		Short: "Append an answer to a question",
		Example: `  wordctl answer add 12 "Paris" --correct
  wordctl answer add 12 "Rome" --note "capital of Italy"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			questionID, err := parseID("question", args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(args[1]) == "" {
				return domain.ErrEmptyAnswer
			}
			correct, _ := cmd.Flags().GetBool("correct")
			note, _ := cmd.Flags().GetString("note")

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			saved, err := quizService(e).AddAnswer(cmd.Context(), questionID, domain.Answer{
				Text:    args[1],
				Correct: correct,
				Note:    note,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "answer %d added to question %d\n", saved.ID, questionID)
			return nil
		},
	}
	cmd.Flags().Bool("correct", false, "mark the answer as correct")
	cmd.Flags().String("note", "", "explanation shown after grading")
	return cmd
}

func newAnswerDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <answer-id>",
		Short: "Remove an answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answerID, err := parseID("answer", args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			if err := quizService(e).DeleteAnswer(cmd.Context(), answerID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "answer %d deleted\n", answerID)
			return nil
		},
	}
}

func parseID(what, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

func quizService(e *env) *service.QuizService {
	return service.NewQuizService(postgres.NewQuestionRepo(e.db), e.logger)
}

func importService(e *env, local *sqlite.LocalStore) *service.ImportService {
	return service.NewImportService(postgres.NewWordRepo(e.db), quizService(e), local, e.logger)
}

func openWorkbook(path string) (*os.File, error) {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return nil, fmt.Errorf("%s: only .xlsx workbooks can be imported", path)
	}
	return os.Open(path)
}

func printResult(w io.Writer, r *domain.ImportResult) {
	fmt.Fprintln(w, r.Summary())
	if r.Mode == domain.ImportReplace && r.Inserted > 0 {
		fmt.Fprintln(w, "all completion sets were cleared")
	}
	for _, msg := range r.Errors {
		fmt.Fprintln(w, "  "+msg)
	}
}
