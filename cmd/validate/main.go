// Command validate checks a data directory before a report run: every
// dataset must load with the expected columns and rows, the ALSI EU
// aggregate must match its country rows, and AGSI fill levels must agree
// with the stored volumes.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data -date 2024-01-20
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/couchcryptid/eu-gas-report/internal/adapter/dataset"
	"github.com/couchcryptid/eu-gas-report/internal/config"
	"github.com/couchcryptid/eu-gas-report/internal/domain"
	"github.com/couchcryptid/eu-gas-report/internal/fixture"
	"github.com/couchcryptid/eu-gas-report/internal/observability"
	"github.com/couchcryptid/eu-gas-report/internal/pipeline"
	"github.com/couchcryptid/eu-gas-report/internal/report"
)

// Tolerances.
const (
	aggregateTolerance = 0.01 // relative
	fullTolerance      = 0.5  // percentage points
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "directory holding the dataset exports")
	date := flag.String("date", fixture.Day.Format(config.StorageDateLayout), "gas day of the AGSI snapshot")
	flag.Parse()

	day, err := time.Parse(config.StorageDateLayout, *date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -date %q: %v\n", *date, err)
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataDir, day); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string, day time.Time) int {
	fmt.Println("=== Gas Dataset Validation ===")
	fmt.Println()

	plan, err := pipeline.NewPlan(report.All(), report.Params{StorageDay: day})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: plan: %v\n", err)
		return 1
	}

	loader := dataset.NewFileLoader(dataDir, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetrics())
	schema, frames := validateSchema(loader, plan.Datasets())

	phases := []*phase{
		schema,
		validateLNGAggregate(frames[domain.DatasetLNG]),
		validateNonNegative(frames),
		validateStorageFill(frames[domain.DatasetStorage]),
		validatePipelineFlows(frames[domain.DatasetPipelines]),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	for _, spec := range plan.Datasets() {
		if df, ok := frames[spec.ID]; ok {
			fmt.Printf("%-10s %3d rows  (%s)\n", spec.ID, df.Nrow(), spec.Name)
		}
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phases ──

// validateSchema loads every dataset. Frames that fail to load are left out
// of the returned map and skipped by the later phases.
func validateSchema(loader dataset.Loader, specs []dataset.Spec) (*phase, map[string]dataframe.DataFrame) {
	p := &phase{name: "Schema (columns, required rows)"}
	frames := make(map[string]dataframe.DataFrame, len(specs))
	for _, spec := range specs {
		df, err := loader.Load(context.Background(), spec)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		frames[spec.ID] = df
	}
	return p, frames
}

func validateLNGAggregate(df dataframe.DataFrame) *phase {
	p := &phase{name: "LNG: EU row equals sum of countries"}
	if df.Nrow() == 0 {
		p.errorf("LNG dataset not loaded")
		return p
	}
	names := df.Col(domain.ColName).Records()
	for _, col := range domain.LNGColumns[1:] {
		vals := df.Col(col).Float()
		var eu, sum float64
		for i, name := range names {
			if math.IsNaN(vals[i]) {
				continue
			}
			if name == domain.AggregateName {
				eu = vals[i]
				continue
			}
			sum += vals[i]
		}
		if !withinRelative(eu, sum, aggregateTolerance) {
			p.errorf("%s: EU %.1f, countries %.1f", col, eu, sum)
		}
	}
	return p
}

func validateNonNegative(frames map[string]dataframe.DataFrame) *phase {
	p := &phase{name: "Values are non-negative"}
	numeric := map[string][]string{
		domain.DatasetLNG:       domain.LNGColumns[1:],
		domain.DatasetStorage:   domain.StorageColumns[2:],
		domain.DatasetPipelines: domain.PipelinesColumns[1:],
	}
	for id, cols := range numeric {
		df, ok := frames[id]
		if !ok {
			continue
		}
		names := df.Col(domain.ColName).Records()
		for _, col := range cols {
			for i, v := range df.Col(col).Float() {
				if v < 0 {
					p.errorf("%s %q: %s is %g", id, names[i], col, v)
				}
			}
		}
	}
	return p
}

func validateStorageFill(df dataframe.DataFrame) *phase {
	p := &phase{name: "Storage: Full (%) matches stored volume"}
	if df.Nrow() == 0 {
		p.errorf("storage dataset not loaded")
		return p
	}
	status := df.Col(domain.ColStatus).Records()
	names := df.Col(domain.ColName).Records()
	stored := df.Col(domain.ColGasInStorage).Float()
	volume := df.Col(domain.ColWorkingVolume).Float()
	full := df.Col(domain.ColFull).Float()
	for i := range names {
		if status[i] == domain.StatusNoData || !(volume[i] > 0) || math.IsNaN(stored[i]) || math.IsNaN(full[i]) {
			continue
		}
		want := 100 * stored[i] / volume[i]
		if math.Abs(want-full[i]) > fullTolerance {
			p.errorf("%s: Full %.2f%%, stored/volume %.2f%%", names[i], full[i], want)
		}
	}
	return p
}

func validatePipelineFlows(df dataframe.DataFrame) *phase {
	p := &phase{name: "Pipelines: mean flow within capacity"}
	if df.Nrow() == 0 {
		p.errorf("pipelines dataset not loaded")
		return p
	}
	names := df.Col(domain.ColName).Records()
	capacity := df.Col(domain.ColCapacity).Float()
	flow := df.Col(domain.ColMeanFlowWinter).Float()
	for i := range names {
		if flow[i] > capacity[i] {
			p.errorf("%s: mean flow %.0f exceeds capacity %.0f GWh/d", names[i], flow[i], capacity[i])
		}
	}
	return p
}

func withinRelative(want, got, tol float64) bool {
	if want == 0 {
		return got == 0
	}
	return math.Abs(got-want)/math.Abs(want) <= tol
}
