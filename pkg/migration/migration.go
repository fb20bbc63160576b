package migration

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/logger"
	"github.com/zd0907-arc/market-live-terminal/pkg/questdb"
)

// Migration is one versioned schema change, loaded from a pair of files
// named <YYYYMMDDHHMMSS>_<name>.up.sql and .down.sql.
type Migration struct {
	ID        string
	Name      string
	Timestamp time.Time
	UpSQL     string
	DownSQL   string
}

// Runner applies migrations from a filesystem (usually an embed.FS) to QuestDB.
type Runner struct {
	client questdb.QuestDBClient
	source fs.FS
	logger logger.Interface
}

// NewRunner creates a new migration runner.
func NewRunner(client questdb.QuestDBClient, source fs.FS, log logger.Interface) *Runner {
	return &Runner{
		client: client,
		source: source,
		logger: log,
	}
}

// EnsureMigrationTable creates the schema_migrations table if it doesn't exist.
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	return r.client.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SYMBOL,
			name STRING,
			applied_at TIMESTAMP
		) TIMESTAMP(applied_at) PARTITION BY YEAR`)
}

// Applied returns the set of migration ids already recorded.
func (r *Runner) Applied(ctx context.Context) (map[string]bool, error) {
	rows, err := r.client.Query(ctx, "SELECT id FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}
	return applied, rows.Err()
}

// Load reads every *.up.sql in the source, ordered by file name.
func (r *Runner) Load() ([]Migration, error) {
	upFiles, err := fs.Glob(r.source, "*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		m, err := r.parse(upFile)
		if err != nil {
			return nil, errors.Tracef(err, "parse migration %s", upFile)
		}
		migrations = append(migrations, m)
	}
	return migrations, nil
}

func (r *Runner) parse(upFile string) (Migration, error) {
	upContent, err := fs.ReadFile(r.source, upFile)
	if err != nil {
		return Migration{}, err
	}

	id := strings.TrimSuffix(upFile, ".up.sql")
	name := id
	timestamp := time.Unix(0, 0).UTC()
	if stamp, rest, ok := strings.Cut(id, "_"); ok {
		name = rest
		if parsed, err := time.Parse("20060102150405", stamp); err == nil {
			timestamp = parsed
		}
	}

	// a missing down file only blocks reverting
	downContent, _ := fs.ReadFile(r.source, id+".down.sql")

	return Migration{
		ID:        id,
		Name:      name,
		Timestamp: timestamp,
		UpSQL:     strings.TrimSpace(string(upContent)),
		DownSQL:   strings.TrimSpace(string(downContent)),
	}, nil
}

// Up applies pending migrations, at most steps of them when steps > 0, and
// returns how many were applied.
func (r *Runner) Up(ctx context.Context, steps int) (int, error) {
	if err := r.EnsureMigrationTable(ctx); err != nil {
		return 0, errors.Tracef(err, "ensure schema_migrations")
	}

	migrations, err := r.Load()
	if err != nil {
		return 0, err
	}
	applied, err := r.Applied(ctx)
	if err != nil {
		return 0, errors.Tracef(err, "read applied migrations")
	}

	var pending []Migration
	for _, m := range migrations {
		if !applied[m.ID] {
			pending = append(pending, m)
		}
	}
	if steps > 0 && len(pending) > steps {
		pending = pending[:steps]
	}

	count := 0
	for _, m := range pending {
		if m.UpSQL == "" {
			r.logger.Warn("Migration has no up statements", logger.NewField("id", m.ID))
			continue
		}
		for _, stmt := range statements(m.UpSQL) {
			if err := r.client.Exec(ctx, stmt); err != nil {
				return count, errors.Tracef(err, "apply migration %s", m.ID)
			}
		}
		if err := r.client.Exec(ctx, "INSERT INTO schema_migrations VALUES ($1, $2, now())", m.ID, m.Name); err != nil {
			return count, errors.Tracef(err, "record migration %s", m.ID)
		}
		r.logger.Info("Applied migration", logger.NewField("id", m.ID))
		count++
	}
	return count, nil
}

// Down reverts the last steps applied migrations.
func (r *Runner) Down(ctx context.Context, steps int) (int, error) {
	if steps <= 0 {
		return 0, fmt.Errorf("steps must be greater than 0 for down migrations")
	}

	migrations, err := r.Load()
	if err != nil {
		return 0, err
	}
	applied, err := r.Applied(ctx)
	if err != nil {
		return 0, errors.Tracef(err, "read applied migrations")
	}

	count := 0
	for i := len(migrations) - 1; i >= 0 && count < steps; i-- {
		m := migrations[i]
		if !applied[m.ID] {
			continue
		}
		if m.DownSQL == "" {
			return count, fmt.Errorf("no down statements for migration %s", m.ID)
		}
		for _, stmt := range statements(m.DownSQL) {
			if err := r.client.Exec(ctx, stmt); err != nil {
				return count, errors.Tracef(err, "revert migration %s", m.ID)
			}
		}
		if err := r.client.Exec(ctx, "DELETE FROM schema_migrations WHERE id = $1", m.ID); err != nil {
			return count, errors.Tracef(err, "unrecord migration %s", m.ID)
		}
		r.logger.Info("Reverted migration", logger.NewField("id", m.ID))
		count++
	}
	return count, nil
}

// statements splits a file on ';' since QuestDB runs one statement per call.
func statements(sql string) []string {
	var out []string
	for _, stmt := range strings.Split(sql, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
