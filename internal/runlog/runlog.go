// Package runlog keeps the append-only CSV record of what each run did to
// each file.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Step names used in the log.
const (
	StepScan      = "scan"
	StepImport    = "import"
	StepStatement = "statement"
	StepReconcile = "reconcile"
	StepReport    = "report"
	StepCommit    = "commit"
	StepArchive   = "archive"
)

// Statuses.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Entity    string
	Step      string
	File      string
	Status    string
	Details   string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,entity,step,file,status,details"

const (
	numFields    = 7
	logDir       = "logs"
	logFile      = "logs/run-log.csv"
	colTimestamp = 0
	colRunID     = 1
	colEntity    = 2
	colStep      = 3
	colFile      = 4
	colStatus    = 5
	colDetails   = 6
)

// NewRunID returns a fresh identifier for one pipeline run.
func NewRunID() string {
	return uuid.NewString()
}

// Path returns the log location under dir.
func Path(dir string) string {
	return filepath.Join(dir, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colEntity] = e.Entity
	row[colStep] = e.Step
	row[colFile] = e.File
	row[colStatus] = e.Status
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Entity:    record[colEntity],
		Step:      record[colStep],
		File:      record[colFile],
		Status:    record[colStatus],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <dir>/logs/run-log.csv, creating the file and header if needed.
func Append(dir string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(dir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(dir)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/logs/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Recorder collects the entries of one run and stamps them with its id,
// entity and the current time.
type Recorder struct {
	RunID  string
	Entity string
	now    func() time.Time
	buf    []Entry
}

// NewRecorder starts a recorder for a new run.
func NewRecorder(entity string) *Recorder {
	return &Recorder{RunID: NewRunID(), Entity: entity, now: time.Now}
}

// Record adds one step outcome.
func (r *Recorder) Record(step, file, status, details string) {
	r.buf = append(r.buf, Entry{
		Timestamp: r.now().UTC(),
		RunID:     r.RunID,
		Entity:    r.Entity,
		Step:      step,
		File:      file,
		Status:    status,
		Details:   details,
	})
}

// Entries returns what has been recorded so far.
func (r *Recorder) Entries() []Entry {
	return r.buf
}

// Flush appends the recorded entries to the log under dir and clears them.
func (r *Recorder) Flush(dir string) error {
	if err := Append(dir, r.buf); err != nil {
		return err
	}
	r.buf = nil
	return nil
}
