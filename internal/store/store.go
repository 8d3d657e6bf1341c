package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"
	_ "modernc.org/sqlite"

	"github.com/signalsfoundry/mission-planner/internal/logging"
	"github.com/signalsfoundry/mission-planner/model"
)

// ErrNotFound is returned when no plan with the requested id exists.
var ErrNotFound = errors.New("plan not found")

// ErrDigestMismatch is returned when a stored payload no longer matches its
// recorded digest.
var ErrDigestMismatch = errors.New("stored plan digest mismatch")

const schema = `
CREATE TABLE IF NOT EXISTS mission_plans (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	launchpad_id TEXT NOT NULL,
	duration_s REAL NOT NULL,
	digest TEXT NOT NULL,
	payload BLOB NOT NULL
);
`

// Store persists planned missions in SQLite. Payloads are LZ4-compressed
// JSON; a BLAKE3 digest of the uncompressed payload is stored alongside and
// verified on every read.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

// Open opens (creating if needed) the plan database at path. ":memory:"
// yields an ephemeral store.
func Open(path string, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Noop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open plan store: %w", err)
	}
	// The modernc driver does not tolerate concurrent writers on one file.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// PlanSummary is the listing row for a stored plan.
type PlanSummary struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"createdAt"`
	ChosenLaunchpadID string    `json:"chosenLaunchpadId"`
	DurationSeconds   float64   `json:"totalDurationSeconds"`
}

// SavePlan stores a finished mission result and returns its generated id.
func (s *Store) SavePlan(ctx context.Context, res *model.MissionResult) (string, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}
	digest := blake3.Sum256(payload)

	compressed, err := compress(payload)
	if err != nil {
		return "", fmt.Errorf("compress plan: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO mission_plans (id, created_at, launchpad_id, duration_s, digest, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Unix(), res.ChosenLaunchpadID, res.TotalDurationSeconds,
		hex.EncodeToString(digest[:]), compressed,
	)
	if err != nil {
		return "", fmt.Errorf("insert plan: %w", err)
	}

	s.log.Info(ctx, "plan stored",
		logging.String("plan_id", id),
		logging.String("pad_id", res.ChosenLaunchpadID),
		logging.Int("payload_bytes", len(payload)),
		logging.Int("compressed_bytes", len(compressed)),
	)
	return id, nil
}

// GetPlan loads, decompresses, and verifies a stored plan.
func (s *Store) GetPlan(ctx context.Context, id string) (*model.MissionResult, error) {
	var digest string
	var compressed []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT digest, payload FROM mission_plans WHERE id = ?`, id,
	).Scan(&digest, &compressed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query plan %s: %w", id, err)
	}

	payload, err := decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress plan %s: %w", id, err)
	}
	sum := blake3.Sum256(payload)
	if hex.EncodeToString(sum[:]) != digest {
		return nil, fmt.Errorf("plan %s: %w", id, ErrDigestMismatch)
	}

	var res model.MissionResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", id, err)
	}
	return &res, nil
}

// ListPlans returns summaries of all stored plans, newest first.
func (s *Store) ListPlans(ctx context.Context) ([]PlanSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, launchpad_id, duration_s
		 FROM mission_plans ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var out []PlanSummary
	for rows.Next() {
		var p PlanSummary
		var createdAt int64
		if err := rows.Scan(&p.ID, &createdAt, &p.ChosenLaunchpadID, &p.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

func compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(src []byte) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(src))
	var out bytes.Buffer
	if _, err := io.Copy(&out, zr); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
