// Package storage keeps a SQLite catalog of finished runs.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/tensegrity/internal/sim"
)

var ErrRunNotFound = errors.New("run not found")

// Run is the catalog entry for one finished simulation.
type Run struct {
	ID        string             `json:"id"`
	Plan      string             `json:"plan"`
	CreatedAt time.Time          `json:"created_at"`
	Frames    int                `json:"frames"`
	Age       int                `json:"age"`
	Stage     string             `json:"stage"`
	Unstable  bool               `json:"unstable"`
	Joints    int                `json:"joints"`
	Pushes    int                `json:"pushes"`
	Pulls     int                `json:"pulls"`
	Height    float64            `json:"height"`
	Elapsed   time.Duration      `json:"elapsed"`
	Metrics   map[string]float64 `json:"metrics"`
}

type runRow struct {
	ID          string  `db:"id"`
	Plan        string  `db:"plan"`
	CreatedAt   int64   `db:"created_at"`
	Frames      int     `db:"frames"`
	Age         int     `db:"age"`
	Stage       string  `db:"stage"`
	Unstable    int     `db:"unstable"`
	Joints      int     `db:"joints"`
	Pushes      int     `db:"pushes"`
	Pulls       int     `db:"pulls"`
	Height      float64 `db:"height"`
	ElapsedNS   int64   `db:"elapsed_ns"`
	MetricsJSON string  `db:"metrics_json"`
}

func (r runRow) run() (*Run, error) {
	run := &Run{
		ID:        r.ID,
		Plan:      r.Plan,
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
		Frames:    r.Frames,
		Age:       r.Age,
		Stage:     r.Stage,
		Unstable:  r.Unstable != 0,
		Joints:    r.Joints,
		Pushes:    r.Pushes,
		Pulls:     r.Pulls,
		Height:    r.Height,
		Elapsed:   time.Duration(r.ElapsedNS),
	}
	if err := json.Unmarshal([]byte(r.MetricsJSON), &run.Metrics); err != nil {
		return nil, fmt.Errorf("run %s metrics: %w", r.ID, err)
	}
	return run, nil
}

// Catalog wraps a SQLite connection holding run summaries and their
// sampled history.
type Catalog struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open opens or creates a catalog at the given path.
func Open(path string) (*Catalog, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	c := &Catalog{conn: conn, now: time.Now}
	if err := c.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return c, nil
}

func (c *Catalog) Close() error {
	return c.conn.Close()
}

func (c *Catalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		plan TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		frames INTEGER NOT NULL,
		age INTEGER NOT NULL,
		stage TEXT NOT NULL,
		unstable INTEGER NOT NULL,
		joints INTEGER NOT NULL,
		pushes INTEGER NOT NULL,
		pulls INTEGER NOT NULL,
		height REAL NOT NULL,
		elapsed_ns INTEGER NOT NULL,
		metrics_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		frame INTEGER NOT NULL,
		age INTEGER NOT NULL,
		stage TEXT NOT NULL,
		speed REAL NOT NULL,
		energy REAL NOT NULL,
		height REAL NOT NULL,
		joints INTEGER NOT NULL,
		intervals INTEGER NOT NULL,
		PRIMARY KEY (run_id, frame)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_plan ON runs(plan);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := c.conn.Exec(schema)
	return err
}

// Save records a result and its history under a fresh id.
func (c *Catalog) Save(result *sim.Result) (string, error) {
	metrics := result.Metrics
	if metrics == nil {
		metrics = map[string]float64{}
	}
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return "", err
	}

	row := runRow{
		ID:          uuid.NewString(),
		Plan:        result.Plan,
		CreatedAt:   c.now().UnixNano(),
		Frames:      result.Frames,
		Age:         result.Stats.Age,
		Stage:       result.Stage,
		Joints:      result.Stats.Joints,
		Pushes:      result.Stats.Pushes,
		Pulls:       result.Stats.Pulls,
		Height:      result.Stats.Height,
		ElapsedNS:   int64(result.Elapsed),
		MetricsJSON: string(metricsJSON),
	}
	if result.Unstable {
		row.Unstable = 1
	}

	tx, err := c.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO runs
		(id, plan, created_at, frames, age, stage, unstable, joints, pushes, pulls, height, elapsed_ns, metrics_json)
		VALUES (:id, :plan, :created_at, :frames, :age, :stage, :unstable, :joints, :pushes, :pulls, :height, :elapsed_ns, :metrics_json)`, row)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO samples
		(run_id, frame, age, stage, speed, energy, height, joints, intervals)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, s := range result.History {
		if _, err := stmt.Exec(row.ID, s.Frame, s.Age, s.Stage, s.Speed, s.Energy, s.Height, s.Joints, s.Intervals); err != nil {
			return "", fmt.Errorf("insert sample %d: %w", s.Frame, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return row.ID, nil
}

// Get loads a run by id, or by a unique id prefix.
func (c *Catalog) Get(id string) (*Run, error) {
	var rows []runRow
	if err := c.conn.Select(&rows, "SELECT * FROM runs WHERE id LIKE ? || '%' LIMIT 2", id); err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return rows[0].run()
	}
	return nil, fmt.Errorf("run id %s is ambiguous", id)
}

// List returns runs newest first, optionally only those of one plan.
func (c *Catalog) List(plan string) ([]*Run, error) {
	var rows []runRow
	var err error
	if plan == "" {
		err = c.conn.Select(&rows, "SELECT * FROM runs ORDER BY created_at DESC")
	} else {
		err = c.conn.Select(&rows, "SELECT * FROM runs WHERE plan = ? ORDER BY created_at DESC", plan)
	}
	if err != nil {
		return nil, err
	}

	runs := make([]*Run, 0, len(rows))
	for _, r := range rows {
		run, err := r.run()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// History returns the samples recorded for a run in frame order.
func (c *Catalog) History(id string) ([]sim.Sample, error) {
	run, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	var samples []sim.Sample
	err = c.conn.Select(&samples,
		"SELECT frame, age, stage, speed, energy, height, joints, intervals FROM samples WHERE run_id = ? ORDER BY frame",
		run.ID)
	return samples, err
}

// Delete removes a run and its samples.
func (c *Catalog) Delete(id string) error {
	run, err := c.Get(id)
	if err != nil {
		return err
	}

	tx, err := c.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM samples WHERE run_id = ?", run.ID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", run.ID); err != nil {
		return err
	}
	return tx.Commit()
}
