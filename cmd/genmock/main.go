// Command genmock reads a CSV of named flight readings and writes the JSON
// fixture of assessed reports used by the validate command and API clients.
// It runs the real domain engine so fixtures match live service output.
//
// Blank CSV cells are omitted from the reading, which exercises partial
// assessments.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/scenarios.csv \
//	  -out data/mock/flight_risk_reports.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/flight-risk-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// fixedTime stamps every generated report so fixtures are reproducible.
var fixedTime = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)

// scenario is one fixture entry.
type scenario struct {
	Name    string         `json:"name"`
	Reading domain.Reading `json:"reading"`
	Report  domain.Report  `json:"report"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "CSV file of named readings")
	out := flag.String("out", "", "output path for the JSON report fixture")
	flag.Parse()

	if *csvPath == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv, -out")
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer domain.SetClock(nil)

	named, err := loadScenarios(*csvPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", *csvPath, err)
	}

	scenarios := make([]scenario, 0, len(named))
	for _, n := range named {
		a := domain.Assess(n.reading)
		scenarios = append(scenarios, scenario{
			Name:    n.name,
			Reading: n.reading,
			Report:  domain.NewReport(a),
		})
		log.Printf("%s: score=%d level=%s", n.name, a.Score, a.Level)
	}

	if err := writeJSON(*out, scenarios); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	printStats(scenarios)
	return nil
}

type namedReading struct {
	name    string
	reading domain.Reading
}

func loadScenarios(path string) ([]namedReading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	header := rows[0]
	if len(header) == 0 || header[0] != "name" {
		return nil, fmt.Errorf("first column must be name")
	}

	out := make([]namedReading, 0, len(rows)-1)
	for line, row := range rows[1:] {
		values := make(map[domain.Factor]float64, len(header)-1)
		for i, col := range header[1:] {
			cell := ""
			if i+1 < len(row) {
				cell = strings.TrimSpace(row[i+1])
			}
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", line+2, col, err)
			}
			values[domain.Factor(col)] = v
		}
		out = append(out, namedReading{
			name:    strings.TrimSpace(row[0]),
			reading: domain.NewReading(values),
		})
	}
	return out, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type levelCount struct {
	level domain.Level
	count int
}

func printStats(scenarios []scenario) {
	counts := map[domain.Level]int{}
	minScore, maxScore := 101, -1
	for i := range scenarios {
		a := &scenarios[i].Report.Assessment
		counts[a.Level]++
		minScore = min(minScore, a.Score)
		maxScore = max(maxScore, a.Score)
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(scenarios))

	lc := make([]levelCount, 0, len(counts))
	for l, c := range counts {
		lc = append(lc, levelCount{l, c})
	}
	sort.Slice(lc, func(i, j int) bool { return lc[i].count > lc[j].count })
	fmt.Print("By level:")
	for _, c := range lc {
		fmt.Printf(" %s=%d", c.level, c.count)
	}
	fmt.Println()
	if len(scenarios) > 0 {
		fmt.Printf("Score range: %d..%d\n", minScore, maxScore)
	}

	// Most frequent top recommendation across scenarios.
	top := map[domain.Factor]int{}
	for i := range scenarios {
		if recs := scenarios[i].Report.Recommendations; len(recs) > 0 {
			top[recs[0].Factor]++
		}
	}
	fmt.Print("Top recommendation factor:")
	for _, f := range domain.DefaultRegistry().Factors() {
		if top[f] > 0 {
			fmt.Printf(" %s=%d", f, top[f])
		}
	}
	fmt.Println()
}
