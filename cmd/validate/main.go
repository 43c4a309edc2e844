// Command validate performs end-to-end integrity checks on the report fixture:
// it confirms the fixture matches its source CSV, re-runs every assessment
// through the current engine, and checks each report for schema invariants.
// Any drift between engine and fixture fails the run.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/scenarios.csv \
//	  -fixture data/mock/flight_risk_reports.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/flight-risk-service/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
)

// fixtureTime must match the clock genmock freezes.
var fixtureTime = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)

const tolerance = 1e-9

var approx = cmpopts.EquateApprox(0, tolerance)

type scenario struct {
	Name    string         `json:"name"`
	Reading domain.Reading `json:"reading"`
	Report  domain.Report  `json:"report"`
}

type csvRow struct {
	name   string
	values map[domain.Factor]float64
}

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
	csvPath := flag.String("csv", "", "CSV file of named readings")
	fixturePath := flag.String("fixture", "", "path to the JSON report fixture")
	flag.Parse()

	if *csvPath == "" || *fixturePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *fixturePath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, fixturePath string) int {
	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	fmt.Println("=== Flight Risk Fixture Validation ===")
	fmt.Println()

	rows, err := loadCSV(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	scenarios, err := loadJSON[scenario](fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSourceParity(rows, scenarios),
		validateReproducibility(scenarios),
		validateSchema(scenarios),
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
	fmt.Printf("Records: %d CSV, %d fixture\n", len(rows), len(scenarios))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if !allPassed {
		return 1
	}
	return 0
}

func loadCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("empty CSV")
	}

	header := records[0]
	rows := make([]csvRow, 0, len(records)-1)
	for line, rec := range records[1:] {
		row := csvRow{name: strings.TrimSpace(rec[0]), values: map[domain.Factor]float64{}}
		for i, col := range header[1:] {
			if i+1 >= len(rec) {
				break
			}
			cell := strings.TrimSpace(rec[i+1])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", line+2, col, err)
			}
			row.values[domain.Factor(col)] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Phase 1: CSV and fixture describe the same readings ──

func validateSourceParity(rows []csvRow, scenarios []scenario) *phase {
	p := &phase{name: "Source parity (CSV ↔ fixture)"}

	if len(rows) != len(scenarios) {
		p.errorf("count mismatch: CSV=%d fixture=%d", len(rows), len(scenarios))
	}

	for i := range min(len(rows), len(scenarios)) {
		row, sc := rows[i], scenarios[i]
		if row.name != sc.Name {
			p.errorf("row %d: name CSV=%q fixture=%q", i, row.name, sc.Name)
			continue
		}
		if diff := cmp.Diff(row.values, sc.Reading.Values(), approx); diff != "" {
			p.errorf("%s: reading mismatch (-csv +fixture):\n%s", sc.Name, diff)
		}
	}
	return p
}

// ── Phase 2: the engine still produces the fixture's reports ──

func validateReproducibility(scenarios []scenario) *phase {
	p := &phase{name: "Assessment reproducibility"}

	for i := range scenarios {
		sc := &scenarios[i]
		got := domain.NewReport(domain.Assess(sc.Reading))
		compareReports(p, sc.Name, got, sc.Report)
	}
	return p
}

func compareReports(p *phase, name string, got, want domain.Report) {
	if got.Assessment.Score != want.Assessment.Score {
		p.errorf("%s: score engine=%d fixture=%d", name, got.Assessment.Score, want.Assessment.Score)
	}
	if got.Assessment.Level != want.Assessment.Level {
		p.errorf("%s: level engine=%s fixture=%s", name, got.Assessment.Level, want.Assessment.Level)
	}
	if diff := cmp.Diff(want.Assessment.Factors(), got.Assessment.Factors(), approx); diff != "" {
		p.errorf("%s: factor mismatch (-fixture +engine):\n%s", name, diff)
	}
	if diff := cmp.Diff(want.Recommendations, got.Recommendations, approx); diff != "" {
		p.errorf("%s: recommendation mismatch (-fixture +engine):\n%s", name, diff)
	}
	if diff := cmp.Diff(want.Rules, got.Rules); diff != "" {
		p.errorf("%s: applied rules mismatch (-fixture +engine):\n%s", name, diff)
	}
	if !want.AssessedAt.Equal(fixtureTime) {
		p.errorf("%s: assessed_at=%s, want %s", name, want.AssessedAt.Format(time.RFC3339), fixtureTime.Format(time.RFC3339))
	}
}

// ── Phase 3: every report satisfies the scoring invariants ──

func validateSchema(scenarios []scenario) *phase {
	p := &phase{name: "Report schema invariants"}

	for i := range scenarios {
		checkReport(p.errorf, scenarios[i].Name, &scenarios[i].Report)
	}
	return p
}

func checkReport(pf func(string, ...any), name string, r *domain.Report) {
	a := &r.Assessment
	if a.Score < 0 || a.Score > 100 {
		pf("%s: score %d outside 0..100", name, a.Score)
	}
	if want := domain.Classify(a.Score); a.Level != want {
		pf("%s: level %s does not match score %d (want %s)", name, a.Level, a.Score, want)
	}

	var weights, total float64
	for _, f := range a.Factors() {
		if f.Risk < 0 || f.Risk > 1 {
			pf("%s: %s risk %g outside [0,1]", name, f.Name, f.Risk)
		}
		if want := f.Memberships.Crisp(); !floatEq(f.Risk, want) {
			pf("%s: %s risk %g does not match memberships (%g)", name, f.Name, f.Risk, want)
		}
		weights += f.Weight
		total += f.Risk * f.Weight
	}
	if weights > 1+tolerance {
		pf("%s: factor weights sum to %g", name, weights)
	}
	if got := int(math.Round(total * 100)); got != a.Score {
		pf("%s: score %d does not match weighted sum %d", name, a.Score, got)
	}
	if len(r.Rules) == 0 {
		pf("%s: no applied rules", name)
	}
	if len(r.Recommendations) != len(a.Factors()) {
		pf("%s: %d recommendations for %d factors", name, len(r.Recommendations), len(a.Factors()))
	}
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}
