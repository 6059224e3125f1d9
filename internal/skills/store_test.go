package skills

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/learnpath/backend/internal/config"
	"github.com/learnpath/backend/internal/database"
	"github.com/learnpath/backend/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(config.Config{
		DBDriver:   database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "skills.db"),
	})
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	return NewStore(db, database.DriverSQLite)
}

func TestUpsertSkillRecord_InsertThenOverwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertSkillRecord(ctx, "u1", "python", models.SkillBeginner); err != nil {
		t.Fatalf("UpsertSkillRecord() error: %v", err)
	}
	if err := store.UpsertSkillRecord(ctx, "u1", "python", models.SkillAdvanced); err != nil {
		t.Fatalf("UpsertSkillRecord() second call error: %v", err)
	}

	rec, err := store.GetSkillRecord(ctx, "u1", "python")
	if err != nil {
		t.Fatalf("GetSkillRecord() error: %v", err)
	}
	if rec.SkillLevel != models.SkillAdvanced {
		t.Errorf("SkillLevel = %q, want advanced", rec.SkillLevel)
	}
	if rec.UserID != "u1" || rec.Subject != "python" {
		t.Errorf("record key = (%q, %q)", rec.UserID, rec.Subject)
	}
	if rec.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}

	var rows int
	store.db.QueryRow(`SELECT COUNT(*) FROM user_subject_skills`).Scan(&rows)
	if rows != 1 {
		t.Errorf("table has %d rows, want 1", rows)
	}
}

func TestUpsertSkillRecord_SeparateSubjects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.UpsertSkillRecord(ctx, "u1", "python", models.SkillBeginner)
	store.UpsertSkillRecord(ctx, "u1", "sql", models.SkillIntermediate)

	rec, err := store.GetSkillRecord(ctx, "u1", "sql")
	if err != nil {
		t.Fatalf("GetSkillRecord() error: %v", err)
	}
	if rec.SkillLevel != models.SkillIntermediate {
		t.Errorf("sql SkillLevel = %q, want intermediate", rec.SkillLevel)
	}
}

func TestGetSkillRecord_NotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetSkillRecord(context.Background(), "nobody", "python"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSkillRecord(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRebind(t *testing.T) {
	pg := NewStore(nil, "postgres")
	lite := NewStore(nil, "sqlite")
	q := `SELECT * FROM t WHERE a = $1 AND b = $12`

	if got := pg.rebind(q); got != q {
		t.Errorf("postgres rebind changed query: %q", got)
	}
	if got, want := lite.rebind(q), `SELECT * FROM t WHERE a = ?1 AND b = ?12`; got != want {
		t.Errorf("sqlite rebind = %q, want %q", got, want)
	}
}
