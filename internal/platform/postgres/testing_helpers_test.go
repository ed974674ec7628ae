package postgres

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	// Registers the pgx driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nickunderhill/ai-interviewer/internal/migrations"
)

var migrateOnce sync.Once

// newTestDB opens a connection to the integration test database and ensures
// the schema is migrated. Tests are skipped when DATABASE_URL is not set.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test - DATABASE_URL environment variable required")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Error closing database connection: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Failed to ping database")

	migrateOnce.Do(func() {
		require.NoError(t, migrations.Up(db), "Failed to migrate test database")
	})

	return db
}

// beginTestTx starts a transaction that is rolled back when the test ends,
// so tests never leak rows into the shared database.
func beginTestTx(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")
	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Logf("Error rolling back transaction: %v", err)
		}
	})

	return tx
}

func testStoreLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Session rows are owned by the surrounding API layer, so tests seed them
// with raw SQL rather than through a store.

func seedUser(t *testing.T, tx *sql.Tx) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := tx.Exec(
		`INSERT INTO users (id, email) VALUES ($1, $2)`,
		id, id.String()+"@example.com",
	)
	require.NoError(t, err, "Failed to seed user")
	return id
}

func seedResume(t *testing.T, tx *sql.Tx, userID uuid.UUID, content string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := tx.Exec(
		`INSERT INTO resumes (id, user_id, content) VALUES ($1, $2, $3)`,
		id, userID, content,
	)
	require.NoError(t, err, "Failed to seed resume")
	return id
}

func seedJobPosting(t *testing.T, tx *sql.Tx, userID uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := tx.Exec(
		`INSERT INTO job_postings (id, user_id, title, company, description, tech_stack, experience_level, language)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, userID,
		"Senior Go Developer", "Acme",
		"Build and operate backend services.",
		"Go, PostgreSQL, Docker", "senior", "en",
	)
	require.NoError(t, err, "Failed to seed job posting")
	return id
}

func seedSession(t *testing.T, tx *sql.Tx, userID, jobPostingID uuid.UUID, questionNumber int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := tx.Exec(
		`INSERT INTO interview_sessions (id, user_id, job_posting_id, current_question_number)
		 VALUES ($1, $2, $3, $4)`,
		id, userID, jobPostingID, questionNumber,
	)
	require.NoError(t, err, "Failed to seed interview session")
	return id
}
