package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studymate/internal/transcript"
)

// HistoryEntry is a persisted transcript entry.
type HistoryEntry struct {
	Sequence int64
	RunID    string
	Entry    transcript.Entry
}

// HistoryRepo stores the transcript entries of every run.
type HistoryRepo interface {
	// Append records one final entry of run runID.
	Append(ctx context.Context, runID string, e transcript.Entry) error

	// Recent returns the last limit entries across all runs, oldest first.
	// A limit of 0 returns everything.
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)

	// Clear deletes all history.
	Clear(ctx context.Context) error
}

type historyRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *historyRepo) Append(ctx context.Context, runID string, e transcript.Entry) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	var options string
	if len(e.Options) > 0 {
		b, err := json.Marshal(e.Options)
		if err != nil {
			return fmt.Errorf("encode options: %w", err)
		}
		options = string(b)
	}

	var correct sql.NullBool
	if e.Correct != nil {
		correct = sql.NullBool{Bool: *e.Correct, Valid: true}
	}

	at := e.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO transcript_entries
			(sequence, run_id, entry_id, role, kind, text, options, correct, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, runID, e.ID, string(e.Role), string(e.Kind), e.Text, options, correct, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *historyRepo) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	q := `SELECT sequence, run_id, entry_id, role, kind, text, options, correct, at
		FROM transcript_entries ORDER BY sequence DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			h       HistoryEntry
			role    string
			kind    string
			options string
			correct sql.NullBool
		)
		if err := rows.Scan(&h.Sequence, &h.RunID, &h.Entry.ID, &role, &kind,
			&h.Entry.Text, &options, &correct, &h.Entry.At); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.Entry.Role = transcript.Role(role)
		h.Entry.Kind = transcript.Kind(kind)
		if options != "" {
			if err := json.Unmarshal([]byte(options), &h.Entry.Options); err != nil {
				return nil, fmt.Errorf("decode options of entry %d: %w", h.Sequence, err)
			}
		}
		if correct.Valid {
			v := correct.Bool
			h.Entry.Correct = &v
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	// Oldest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *historyRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transcript_entries`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// writeTimeout bounds a single history write from the sink.
const writeTimeout = 2 * time.Second

// TranscriptSink persists final transcript entries of one run. It
// implements transcript.Sink; write failures are logged, not returned.
type TranscriptSink struct {
	repo  HistoryRepo
	runID string
	log   *zap.Logger
}

// NewTranscriptSink creates a sink that files entries under runID.
func NewTranscriptSink(repo HistoryRepo, runID string, log *zap.Logger) *TranscriptSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &TranscriptSink{repo: repo, runID: runID, log: log.Named("history")}
}

// RunID returns the run the sink files entries under.
func (s *TranscriptSink) RunID() string {
	return s.runID
}

// Record implements transcript.Sink.
func (s *TranscriptSink) Record(e transcript.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.repo.Append(ctx, s.runID, e); err != nil {
		s.log.Warn("history write failed", zap.String("entry_id", e.ID), zap.Error(err))
	}
}
