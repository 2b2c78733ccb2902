package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"wdx/internal"
	"wdx/internal/config"
	"wdx/internal/storage"
)

type Result struct {
	TraceID    string
	Rows       int
	Skipped    int
	Files      int
	Countries  int
	Series     int
	DurationMs int64
}

// Run executes the full normalization pass: stream the source once,
// materialize the dataset, write the normalized layout. When db is
// non-nil the completed run is recorded for `wdx runs`.
func Run(input, outDir string, cfg config.Config, db *storage.DB) (Result, error) {
	start := time.Now()
	trace := traceID()

	ds := NewDataset()
	err := ReadSourceFile(input, func(row internal.SourceRow) error {
		ds.Add(row)
		if cfg.ProgressRows > 0 && ds.Rows()%cfg.ProgressRows == 0 {
			fmt.Printf("read rows=%d pairs=%d\n", ds.Rows(), ds.Pairs())
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if err := WriteNormalized(ds, outDir, cfg.ProgressFiles, func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	}); err != nil {
		return Result{}, err
	}

	res := Result{
		TraceID:    trace,
		Rows:       ds.Rows(),
		Skipped:    ds.Skipped(),
		Files:      ds.Pairs(),
		Countries:  len(ds.Countries()),
		Series:     len(ds.Series()),
		DurationMs: time.Since(start).Milliseconds(),
	}

	if db != nil {
		record := internal.RunRecord{
			TraceID:    trace,
			Input:      input,
			OutputDir:  outDir,
			Rows:       res.Rows,
			Skipped:    res.Skipped,
			Files:      res.Files,
			Countries:  res.Countries,
			Series:     res.Series,
			DurationMs: res.DurationMs,
		}
		if err := db.InsertRun(record); err != nil {
			return res, err
		}
		if err := db.SetMetadata("pipeline.last_run", time.Now().UTC().Format(time.RFC3339)); err != nil {
			return res, err
		}
		if err := db.SetMetadata("pipeline.last_output_dir", outDir); err != nil {
			return res, err
		}
	}

	return res, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
