package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/ecosim/config"
)

type options struct {
	configPath string
	outputDir  string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 200000, "Tick cap per simulation run")
	flag.IntVar(&opts.seeds, "seeds", 3, "Seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Evaluation budget")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = 4 + 1.5*dim)")
	flag.StringVar(&opts.outputDir, "output", "", "Directory for optimize_log.csv and best_config.yaml")
	flag.Parse()

	// Simulation runs log at info; only warnings reach the terminal.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(opts); err != nil {
		slog.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.outputDir == "" {
		return errors.New("-output is required")
	}
	if opts.seeds < 1 {
		return errors.New("-seeds must be at least 1")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = int64(42 + 1000*i)
	}
	evaluator := NewFitnessEvaluator(params, int32(opts.maxTicks), seeds, baseCfg)

	popSize := opts.population
	if popSize <= 0 {
		popSize = 4 + 3*params.Dim()/2
	}

	logFile, err := os.Create(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	progress, err := newEvalLog(logFile, os.Stdout, params, opts.maxEvals)
	if err != nil {
		return err
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			progress.record(values, fitness, evaluator.LastSurvival(), evaluator.LastQuality())
			return fitness
		},
	}

	fmt.Printf("CMA-ES over %d parameters, population %d, budget %d evaluations\n",
		params.Dim(), popSize, opts.maxEvals)
	fmt.Printf("%d seeds per evaluation, up to %d ticks per run\n", opts.seeds, opts.maxTicks)

	_, err = optimize.Minimize(problem,
		params.Normalize(params.ExtractFromConfig(baseCfg)),
		&optimize.Settings{FuncEvaluations: opts.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		// Hitting the evaluation budget is reported as an error too.
		slog.Warn("optimization ended", "error", err)
	}
	if progress.best == nil {
		return errors.New("no evaluations completed")
	}

	fmt.Printf("\nDone: %d evaluations in %s, best fitness %.0f\n",
		progress.count, formatDuration(time.Since(progress.start)), progress.bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %-36s %.6f\n", spec.Name, progress.best[i])
	}

	bestCfg := evaluator.copyConfig()
	params.ApplyToConfig(bestCfg, progress.best)
	out := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return err
	}
	fmt.Printf("Best config saved to %s\n", out)
	return nil
}

// evalLog records every evaluation to CSV, tracks the best point and
// prints a progress line with an ETA.
type evalLog struct {
	csv      *csv.Writer
	term     io.Writer
	maxEvals int
	start    time.Time

	count       int
	best        []float64
	bestFitness float64
}

func newEvalLog(csvOut, term io.Writer, params *ParamVector, maxEvals int) (*evalLog, error) {
	l := &evalLog{csv: csv.NewWriter(csvOut), term: term, maxEvals: maxEvals, start: time.Now()}
	header := []string{"eval", "fitness", "survival_sec", "quality"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := l.csv.Write(header); err != nil {
		return nil, fmt.Errorf("writing log header: %w", err)
	}
	l.csv.Flush()
	return l, l.csv.Error()
}

func (l *evalLog) record(values []float64, fitness, survival, quality float64) {
	l.count++
	if l.best == nil || fitness < l.bestFitness {
		l.best, l.bestFitness = values, fitness
	}

	row := []string{
		strconv.Itoa(l.count),
		strconv.FormatFloat(fitness, 'f', 3, 64),
		strconv.FormatFloat(survival, 'f', 1, 64),
		strconv.FormatFloat(quality, 'f', 4, 64),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := l.csv.Write(row); err != nil {
		slog.Warn("writing eval log", "error", err)
	}
	l.csv.Flush()

	elapsed := time.Since(l.start)
	eta := time.Duration(l.maxEvals-l.count) * (elapsed / time.Duration(l.count))
	fmt.Fprintf(l.term, "eval %d/%d: coexisted %.0fs, quality %.2f (best %.0f) | %s elapsed, ETA %s\n",
		l.count, l.maxEvals, survival, quality, l.bestFitness, formatDuration(elapsed), formatDuration(eta))
}

// formatDuration renders d as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := d/time.Hour, d%time.Hour/time.Minute, d%time.Minute/time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
