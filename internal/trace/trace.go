// Package trace renders a synthetic experiment trace as text.
//
// A trace is one header line followed by comma-separated rows:
//
//	one_core:   # Generating {trials} fake trials
//	            trial,value
//	many_core:  Generating {trials} trials, {cores} cores
//	            trial,source,dest,value
//
// The many_core header carries no comment marker. Consumers of existing
// traces depend on that, so it is kept as is.
package trace

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"fakedata/internal/config"
	"fakedata/internal/sampler"

	"go.uber.org/zap"
)

// Stats summarizes a completed Write.
type Stats struct {
	Rows int
}

// Header returns the first line of a trace, without the newline.
func Header(cfg *config.Config) string {
	if cfg.Experiment() == config.OneCore {
		return fmt.Sprintf("# Generating %d fake trials", cfg.Trials)
	}
	return fmt.Sprintf("Generating %d trials, %d cores", cfg.Trials, cfg.CoreCount)
}

// ExpectedRows returns the number of data rows Write emits for cfg.
func ExpectedRows(cfg *config.Config) int {
	if cfg.Trials < 1 {
		return 0
	}
	if cfg.Experiment() == config.OneCore {
		return cfg.Trials
	}
	return cfg.Trials * sampler.ManyCoreRowsPerTrial(cfg.CoreCount)
}

// Writer emits traces to an underlying io.Writer.
type Writer struct {
	w      *bufio.Writer
	logger *zap.Logger
	line   []byte
}

// NewWriter wraps w. A nil logger disables logging.
func NewWriter(w io.Writer, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		w:      bufio.NewWriter(w),
		logger: logger,
		line:   make([]byte, 0, 64),
	}
}

// Write renders the experiment described by cfg using draws from s.
// Cancellation is checked between rows; buffered rows are flushed either way.
func (tw *Writer) Write(ctx context.Context, cfg *config.Config, s *sampler.Sampler) (stats Stats, err error) {
	defer func() {
		if ferr := tw.w.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("failed to flush trace: %w", ferr)
		}
	}()

	if _, err := tw.w.WriteString(Header(cfg) + "\n"); err != nil {
		return stats, fmt.Errorf("failed to write header: %w", err)
	}

	tw.logger.Debug("writing trace",
		zap.String("type", string(cfg.Experiment())),
		zap.Int("trials", cfg.Trials),
		zap.Int("cores", cfg.CoreCount),
		zap.Int("scale_factor", cfg.ScaleFactor),
		zap.Int("expected_rows", ExpectedRows(cfg)),
	)

	switch cfg.Experiment() {
	case config.OneCore:
		for row, serr := range s.OneCore(cfg.Trials, cfg.ScaleFactor) {
			if err := tw.check(ctx, serr, row.Trial); err != nil {
				return stats, err
			}
			if err := tw.emit(row.Trial, row.Value); err != nil {
				return stats, err
			}
			stats.Rows++
		}
	default:
		for row, serr := range s.ManyCore(cfg.Trials, cfg.CoreCount, cfg.ScaleFactor) {
			if err := tw.check(ctx, serr, row.Trial); err != nil {
				return stats, err
			}
			if err := tw.emit(row.Trial, row.Source, row.Dest, row.Value); err != nil {
				return stats, err
			}
			stats.Rows++
		}
	}

	tw.logger.Debug("trace complete", zap.Int("rows", stats.Rows))
	return stats, nil
}

func (tw *Writer) check(ctx context.Context, sampleErr error, trial int) error {
	if sampleErr != nil {
		return fmt.Errorf("failed to sample trial %d: %w", trial, sampleErr)
	}
	if err := ctx.Err(); err != nil {
		tw.logger.Warn("trace interrupted", zap.Int("trial", trial), zap.Error(err))
		return err
	}
	return nil
}

// emit writes fields as one comma-separated line.
func (tw *Writer) emit(fields ...int) error {
	tw.line = tw.line[:0]
	for i, f := range fields {
		if i > 0 {
			tw.line = append(tw.line, ',')
		}
		tw.line = strconv.AppendInt(tw.line, int64(f), 10)
	}
	tw.line = append(tw.line, '\n')
	if _, err := tw.w.Write(tw.line); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}
