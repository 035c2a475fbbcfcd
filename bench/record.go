package bench

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/katalvlaran/matbench/matio"
	"github.com/katalvlaran/matbench/matrix"
)

// Timing is one reported observation. Trial is -1 for a per-size mean.
type Timing struct {
	Size    int
	Trial   int
	Elapsed time.Duration
}

// collector implements distrib.Recorder for every variant: it buffers the
// trials of the current size and reports them when the size completes.
type collector struct {
	cfg     Config
	log     *slog.Logger
	timings *matio.TimingWriter
	verify  func(size int, c *matrix.Dense) error

	pending []time.Duration
	out     []Timing
}

func (c *collector) Record(size int, elapsed time.Duration) {
	c.pending = append(c.pending, elapsed)
}

// Result reports the buffered trials of size, then stores or checks c.
func (c *collector) Result(size int, res *matrix.Dense) error {
	trials := c.pending
	c.pending = c.pending[:0]

	var report []Timing
	switch c.cfg.Report {
	case ReportMean:
		mean := lo.Sum(trials) / time.Duration(max(len(trials), 1))
		report = []Timing{{Size: size, Trial: -1, Elapsed: mean}}
	default:
		report = lo.Map(trials, func(d time.Duration, i int) Timing {
			return Timing{Size: size, Trial: i, Elapsed: d}
		})
	}
	for _, t := range report {
		if err := c.timings.Write(t.Size, t.Elapsed); err != nil {
			return err
		}
	}
	if err := c.timings.Flush(); err != nil {
		return fmt.Errorf("timing file: %w", err)
	}
	c.out = append(c.out, report...)
	c.log.Info("size complete", "size", size, "trials", len(trials),
		"mean", lo.Sum(trials)/time.Duration(max(len(trials), 1)))

	if c.verify != nil {
		if err := c.verify(size, res); err != nil {
			return err
		}
	}
	if c.cfg.Source == SourceFiles || c.cfg.WriteResults {
		path := matio.ResultPath(c.cfg.DataDir, size)
		if err := matio.WriteMatrixFile(path, res); err != nil {
			return fmt.Errorf("result %d: %w", size, err)
		}
		c.log.Debug("result written", "path", path)
	}

	return nil
}
