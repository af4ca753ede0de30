package history

import (
	"context"

	"clipmeta/internal/sidecar"
)

// Recorder stores sidecar results under a single run ID.
type Recorder struct {
	Store *Store
	RunID string
}

// Record implements sidecar.Recorder.
func (r Recorder) Record(ctx context.Context, res sidecar.Result) error {
	if r.Store == nil {
		return nil
	}
	_, err := r.Store.Record(ctx, EntryFromResult(r.RunID, res))
	return err
}

// EntryFromResult converts a sidecar result into a ledger row.
func EntryFromResult(runID string, res sidecar.Result) Entry {
	entry := Entry{
		RunID:       runID,
		Input:       res.Input,
		Output:      res.Output,
		Status:      string(res.Status),
		Properties:  res.Properties,
		InputSHA256: res.InputSHA256,
		InputSize:   res.InputSize,
		StartedAt:   res.Started,
		Duration:    res.Duration,
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	return entry
}
