package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/ecosim/config"
)

// csvLog appends gocsv records of one type to a file, writing the header
// with the first record only.
type csvLog[T any] struct {
	name   string
	file   *os.File
	header bool
}

func openCSVLog[T any](dir, name string) (*csvLog[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvLog[T]{name: name, file: f}, nil
}

func (l *csvLog[T]) append(rec T) error {
	records := []T{rec}
	var err error
	if l.header {
		err = gocsv.MarshalWithoutHeaders(records, l.file)
	} else {
		err = gocsv.Marshal(records, l.file)
		l.header = err == nil
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", l.name, err)
	}
	return nil
}

func (l *csvLog[T]) close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}

// OutputManager writes a run's CSV logs and config snapshot into one
// directory. A nil *OutputManager discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvLog[WindowStats]
	perf      *csvLog[PerfStatsCSV]
	bookmarks *csvLog[Bookmark]
	history   *csvLog[Snapshot]
}

// NewOutputManager creates dir and opens the run's CSV files.
// It returns nil, nil when dir is empty.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = openCSVLog[WindowStats](dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = openCSVLog[PerfStatsCSV](dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarks, err = openCSVLog[Bookmark](dir, "bookmarks.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.history, err = openCSVLog[Snapshot](dir, "history.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig snapshots cfg as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.append(stats)
}

// WritePerf appends the perf window ending at windowEnd to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return om.perf.append(stats.ToCSV(windowEnd))
}

// WriteBookmark appends to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.append(b)
}

// WriteHistory appends a population snapshot to history.csv.
func (om *OutputManager) WriteHistory(s Snapshot) error {
	if om == nil {
		return nil
	}
	return om.history.append(s)
}

// Dir returns the output directory, or "" when output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every open file and joins their errors.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(
		om.telemetry.close(),
		om.perf.close(),
		om.bookmarks.close(),
		om.history.close(),
	)
}
