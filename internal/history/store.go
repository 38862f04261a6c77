package history

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an analysis id does not exist.
var ErrNotFound = errors.New("analysis not found")

// TimeLayout is fixed-width so created_at sorts as text.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	analysis_id   TEXT PRIMARY KEY,
	source        TEXT NOT NULL,
	features_json TEXT NOT NULL,
	scores        BLOB NOT NULL,
	base          TEXT NOT NULL,
	votes_json    TEXT NOT NULL,
	final         TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS provenance_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	analysis_id   TEXT NOT NULL,
	trigger_type  TEXT NOT NULL,
	signals_json  TEXT,
	decision      TEXT NOT NULL,
	reason        TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (analysis_id) REFERENCES analyses(analysis_id)
);

CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
`

// #endregion schema

// #region store-struct
// Store keeps analysis history in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #region save
// Save inserts a record. An empty AnalysisID gets a fresh uuid and a zero CreatedAt
// gets the current time; the stored record is returned.
func (s *Store) Save(rec Record) (Record, error) {
	return s.SaveWith(rec, nil)
}

// SaveWith inserts rec and runs also inside the same transaction, so a failure in
// either leaves no row behind. also may be nil.
func (s *Store) SaveWith(rec Record, also func(tx *sql.Tx, rec Record) error) (Record, error) {
	if rec.AnalysisID == "" {
		rec.AnalysisID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	featJSON, err := json.Marshal(rec.Features)
	if err != nil {
		return Record{}, fmt.Errorf("marshal features: %w", err)
	}
	votesJSON, err := json.Marshal(rec.Votes)
	if err != nil {
		return Record{}, fmt.Errorf("marshal votes: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Record{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO analyses (analysis_id, source, features_json, scores, base, votes_json, final, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.AnalysisID, rec.Source, string(featJSON), encodeScores(rec.Scores),
		rec.Base.String(), string(votesJSON), rec.Final.String(),
		rec.CreatedAt.UTC().Format(TimeLayout),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert analysis: %w", err)
	}
	if also != nil {
		if err := also(tx, rec); err != nil {
			return Record{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// #endregion save

// #region get
// Get retrieves one analysis by id.
func (s *Store) Get(id string) (Record, error) {
	row := s.db.QueryRow(
		`SELECT analysis_id, source, features_json, scores, base, votes_json, final, created_at
		 FROM analyses WHERE analysis_id = ?`, id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get analysis %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get analysis %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get

// #region list
// List returns the most recent analyses, newest first. A non-positive limit returns all.
func (s *Store) List(limit int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT analysis_id, source, features_json, scores, base, votes_json, final, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT ?`, sqlLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListWithProvenance returns the most recent analyses joined with their latest
// provenance row, newest first. Analyses without provenance have empty decision fields.
// A non-positive limit returns all.
func (s *Store) ListWithProvenance(limit int) ([]RecordWithProvenance, error) {
	rows, err := s.db.Query(
		`SELECT a.analysis_id, a.source, a.features_json, a.scores, a.base, a.votes_json, a.final, a.created_at,
		        p.decision, p.reason, p.signals_json
		 FROM analyses a
		 LEFT JOIN provenance_log p ON p.id = (
		     SELECT MAX(id) FROM provenance_log WHERE analysis_id = a.analysis_id
		 )
		 ORDER BY a.created_at DESC LIMIT ?`, sqlLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list with provenance: %w", err)
	}
	defer rows.Close()

	var out []RecordWithProvenance
	for rows.Next() {
		var r rawRecord
		var decision, reason, signals sql.NullString
		if err := rows.Scan(r.dest(&decision, &reason, &signals)...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec, err := r.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, RecordWithProvenance{
			Record:      rec,
			Decision:    decision.String,
			Reason:      reason.String,
			SignalsJSON: signals.String,
		})
	}
	return out, rows.Err()
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// #endregion list

// #region scan
type scanner interface {
	Scan(dest ...any) error
}

// rawRecord holds column values before decoding.
type rawRecord struct {
	id, source, featJSON string
	scores               []byte
	base, votesJSON      string
	final, created       string
}

func (r *rawRecord) dest(extra ...any) []any {
	return append([]any{&r.id, &r.source, &r.featJSON, &r.scores, &r.base, &r.votesJSON, &r.final, &r.created}, extra...)
}

func (r *rawRecord) decode() (Record, error) {
	rec := Record{AnalysisID: r.id, Source: r.source, Scores: decodeScores(r.scores)}
	var err error
	if err = json.Unmarshal([]byte(r.featJSON), &rec.Features); err != nil {
		return Record{}, fmt.Errorf("unmarshal features: %w", err)
	}
	if err = json.Unmarshal([]byte(r.votesJSON), &rec.Votes); err != nil {
		return Record{}, fmt.Errorf("unmarshal votes: %w", err)
	}
	if rec.Base, err = dosha.Parse(r.base); err != nil {
		return Record{}, fmt.Errorf("base: %w", err)
	}
	if rec.Final, err = dosha.Parse(r.final); err != nil {
		return Record{}, fmt.Errorf("final: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, r.created)
	return rec, nil
}

func scanRecord(sc scanner) (Record, error) {
	var r rawRecord
	if err := sc.Scan(r.dest()...); err != nil {
		return Record{}, err
	}
	return r.decode()
}

// #endregion scan

// #region score-encoding
func encodeScores(m dosha.ScoreMap) []byte {
	buf := make([]byte, dosha.Count*8)
	for i, f := range m {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeScores(b []byte) dosha.ScoreMap {
	var m dosha.ScoreMap
	for i := range m {
		if i*8+8 <= len(b) {
			m[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
		}
	}
	return m
}

// #endregion score-encoding
