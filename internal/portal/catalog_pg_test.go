package portal

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestSchema connects to PORTAL_TEST_DATABASE_URL with search_path set to a
// fresh schema that is dropped when the test ends.
func openTestSchema(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("PORTAL_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PORTAL_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	admin, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close() })

	schema := "portal_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.ExecContext(ctx, `CREATE SCHEMA `+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.ExecContext(context.Background(), `DROP SCHEMA `+schema+` CASCADE`)
	})

	cfg, err := pgx.ParseConfig(url)
	require.NoError(t, err)
	cfg.RuntimeParams["search_path"] = schema
	db := stdlib.OpenDB(*cfg)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPostgres_MigrateSeedsStaticCatalog(t *testing.T) {
	db := openTestSchema(t)
	ctx := context.Background()
	pg := NewPostgres(db)

	require.NoError(t, pg.Migrate(ctx))
	// second run finds the tables seeded and leaves them alone
	require.NoError(t, pg.Migrate(ctx))

	want, _ := Static{}.Classes(ctx)
	got, err := pg.Classes(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	docs, err := pg.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 5)
	assert.Equal(t, "Mathematics Assignment - Chapter 5", docs[0].Name)
	assert.Equal(t, "2024-01-15", docs[0].Date)
	assert.Equal(t, "Chemistry Exam Paper", docs[4].Name)
	assert.Empty(t, docs[4].URL)
}

func TestPostgres_ReadsEditedRows(t *testing.T) {
	db := openTestSchema(t)
	ctx := context.Background()
	pg := NewPostgres(db)
	require.NoError(t, pg.Migrate(ctx))

	_, err := db.ExecContext(ctx, `UPDATE classes SET subjects = $1, hours_per_day = NULL WHERE grade = 3`, []string{"Music"})
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
		INSERT INTO documents (id, name, type, size, published_on, subject, grade, status, url)
		VALUES ('6', 'Term Timetable', 'Schedule', '0.2 MB', '2024-02-01', 'General', '7', 'Active', 'https://cdn.test/t.pdf')
	`)
	require.NoError(t, err)

	class, err := FindClass(ctx, pg, 3)
	require.NoError(t, err)
	require.NotNil(t, class)
	assert.Equal(t, []string{"Music"}, class.Subjects)
	assert.Equal(t, defaultHoursPerDay, class.HoursPerDay)

	lib := NewLibrary(pg)
	docs, err := lib.Search(ctx, "timetable")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "https://cdn.test/t.pdf", docs[0].URL)
}
