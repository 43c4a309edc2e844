package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/flight-risk-service/internal/adapter/chart"
	"github.com/couchcryptid/flight-risk-service/internal/adapter/riskapi"
	"github.com/couchcryptid/flight-risk-service/internal/domain"
	"github.com/spf13/cobra"
)

type options struct {
	file    string
	server  string
	timeout time.Duration
	output  string
	charts  bool
	htmlDir string
	verbose bool
}

// factorFlags maps flag names to the factors they set.
var factorFlags = []struct {
	flag   string
	factor domain.Factor
	usage  string
}{
	{"speed", domain.Speed, "aircraft speed in knots"},
	{"acceleration", domain.Acceleration, "rate of speed change"},
	{"temperature", domain.Temperature, "outside air temperature"},
	{"humidity", domain.Humidity, "air humidity percentage"},
	{"wind-speed", domain.WindSpeed, "current wind speed"},
	{"visibility", domain.Visibility, "visibility distance in km"},
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	values := make(map[string]*float64, len(factorFlags))

	cmd := &cobra.Command{
		Use:          "assess",
		Short:        "Score a flight reading with the fuzzy risk model",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flagValues := make(map[domain.Factor]float64)
			for _, ff := range factorFlags {
				if cmd.Flags().Changed(ff.flag) {
					flagValues[ff.factor] = *values[ff.flag]
				}
			}
			reading, err := buildReading(opts.file, flagValues)
			if err != nil {
				return err
			}
			report, err := assess(cmd.Context(), opts, reading)
			if err != nil {
				return err
			}
			if opts.htmlDir != "" {
				paths, err := chart.WriteHTMLDir(opts.htmlDir, report.Visualizations)
				if err != nil {
					return fmt.Errorf("write charts: %w", err)
				}
				for _, p := range paths {
					fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", p)
				}
			}
			if !opts.charts {
				report.Visualizations = nil
			}
			return writeReport(cmd.OutOrStdout(), opts.output, report)
		},
	}

	for _, ff := range factorFlags {
		values[ff.flag] = cmd.Flags().Float64(ff.flag, 0, ff.usage)
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "YAML or JSON file holding a reading")
	cmd.PersistentFlags().StringVar(&opts.server, "server", "", "base URL of a risk service; assess locally when empty")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "remote request timeout")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	cmd.Flags().BoolVar(&opts.charts, "charts", false, "include chart figures in json output")
	cmd.Flags().StringVar(&opts.htmlDir, "html-dir", "", "write risk_factors.html and risk_gauge.html into this directory")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log remote requests to stderr")

	cmd.AddCommand(newFactorsCmd(opts))
	return cmd
}

func newFactorsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "factors",
		Short: "List the risk model's factors, weights, and fuzzy sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rows []riskapi.FactorInfo
			if opts.server != "" {
				ctx, cancel := context.WithTimeout(contextOrBackground(cmd.Context()), opts.timeout)
				defer cancel()
				var err error
				rows, err = newClient(opts).Factors(ctx)
				if err != nil {
					return err
				}
			} else {
				rows = localFactors(domain.DefaultRegistry())
			}
			return writeFactors(cmd.OutOrStdout(), opts.output, rows)
		},
	}
}

func assess(ctx context.Context, opts *options, reading domain.Reading) (domain.Report, error) {
	if reading.Len() == 0 {
		return domain.Report{}, fmt.Errorf("no measurements given: set factor flags or --file")
	}

	var report domain.Report
	if opts.server != "" {
		ctx, cancel := context.WithTimeout(contextOrBackground(ctx), opts.timeout)
		defer cancel()
		var err error
		if report, err = newClient(opts).Assess(ctx, reading); err != nil {
			return domain.Report{}, err
		}
	} else {
		report = domain.NewReport(domain.Assess(reading))
	}

	// Servers may run with visualizations disabled; render locally then.
	if (opts.charts || opts.htmlDir != "") && len(report.Visualizations) == 0 {
		vis, err := chart.NewRenderer().Render(report.Assessment)
		if err != nil {
			return domain.Report{}, err
		}
		report.Visualizations = vis
	}
	return report, nil
}

func newClient(opts *options) *riskapi.Client {
	var w io.Writer = io.Discard
	if opts.verbose {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return riskapi.NewClient(opts.server, opts.timeout, logger)
}

func localFactors(r *domain.Registry) []riskapi.FactorInfo {
	entries := r.Entries()
	out := make([]riskapi.FactorInfo, 0, len(entries))
	for _, e := range entries {
		lo, hi := e.Model.Universe()
		out = append(out, riskapi.FactorInfo{
			Name:        e.Model.Name,
			Weight:      e.Weight,
			Description: e.Description,
			Universe:    [2]float64{lo, hi},
			Sets: map[string]domain.Triangle{
				"low":    e.Model.Low,
				"medium": e.Model.Medium,
				"high":   e.Model.High,
			},
		})
	}
	return out
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
