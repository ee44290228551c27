// Command holtwinters fits a Holt-Winters model to a csv series and prints the model
// summary followed by the forecast.
//
// Usage:
//
//	holtwinters -config holtwinters.yaml -input series.csv -date-column ds -horizon 24
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	holtwinters "github.com/aouyang1/go-holtwinters"
	"github.com/aouyang1/go-holtwinters/config"
	"github.com/aouyang1/go-holtwinters/timedataset"
	"github.com/pkg/profile"
)

var ErrNoInput = errors.New("no input series, set -input or input.path")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "holtwinters: %v\n", err)
		os.Exit(1)
	}
}

// run parses the flags, layers them over the configuration file and performs a single fit
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("holtwinters", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "yaml, json or toml configuration file")
	input := fs.String("input", "", "csv file holding the series")
	dateColumn := fs.String("date-column", "", "csv column holding the timestamps, empty for an untimed series")
	valueColumn := fs.String("value-column", "", "csv column holding the values")
	dateFormat := fs.String("date-format", "", "time layout of the date column or unix")
	horizon := fs.Int("horizon", 0, "number of points to forecast")
	modelPath := fs.String("model", "", "write the fitted model as json to this file")
	plotPath := fs.String("plot", "", "write an html plot of the fit to this file")
	profileMode := fs.String("profile", "", "cpu or mem profile written to the working directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// explicitly set flags win over the configuration
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Path = *input
		case "date-column":
			cfg.Input.DateColumn = *dateColumn
		case "value-column":
			cfg.Input.ValueColumn = *valueColumn
		case "date-format":
			cfg.Input.DateFormat = *dateFormat
		case "horizon":
			cfg.Output.Horizon = *horizon
		case "model":
			cfg.Output.Model = *modelPath
		case "plot":
			cfg.Output.Plot = *plotPath
		case "profile":
			cfg.Output.Profile = *profileMode
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logging.Logger(stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	switch strings.ToLower(cfg.Output.Profile) {
	case config.ProfileCPU:
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case config.ProfileMem:
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	return fit(cfg, stdout)
}

func fit(cfg *config.Config, stdout io.Writer) error {
	if cfg.Input.Path == "" {
		return ErrNoInput
	}
	csvOpt, err := cfg.Input.CSVOptions()
	if err != nil {
		return err
	}
	td, err := timedataset.LoadCSV(cfg.Input.Path, csvOpt)
	if err != nil {
		return fmt.Errorf("unable to load series, %w", err)
	}

	opt, err := cfg.Options()
	if err != nil {
		return err
	}
	f, err := holtwinters.New(opt)
	if err != nil {
		return err
	}

	start := time.Now()
	var res *holtwinters.Results
	if td.T == nil {
		res, err = f.Fit(td.Y)
	} else {
		res, err = f.FitTime(td.T, td.Y)
	}
	if err != nil {
		return fmt.Errorf("unable to fit series, %w", err)
	}
	slog.Info("fit complete",
		"observations", res.NumObservations(),
		"residual_outliers", len(res.ResidualOutliers(0.1, 0.9, 1.5)),
		"elapsed", time.Since(start),
	)

	if err := res.TablePrint(stdout, "", "  "); err != nil {
		return err
	}
	if err := writeForecast(stdout, res, cfg.Output.Horizon); err != nil {
		return err
	}

	if cfg.Output.Model != "" {
		if err := writeFile(cfg.Output.Model, res.Model().Write); err != nil {
			return fmt.Errorf("unable to write model, %w", err)
		}
		slog.Info("wrote model", "path", cfg.Output.Model)
	}
	if cfg.Output.Plot != "" {
		plot := func(w io.Writer) error {
			return res.PlotFit(w, cfg.Output.Horizon)
		}
		if err := writeFile(cfg.Output.Plot, plot); err != nil {
			return fmt.Errorf("unable to write plot, %w", err)
		}
		slog.Info("wrote plot", "path", cfg.Output.Plot)
	}
	return nil
}

// writeForecast prints the forecast as csv rows keyed by time for a timed series and by
// position otherwise
func writeForecast(w io.Writer, res *holtwinters.Results, horizon int) error {
	if horizon <= 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Forecast:"); err != nil {
		return err
	}

	if res.T() == nil {
		n := res.NumObservations()
		for i, val := range res.Forecast(horizon) {
			if _, err := fmt.Fprintf(w, "%d,%s\n", n+i, formatValue(val)); err != nil {
				return err
			}
		}
		return nil
	}

	t, fcast, err := res.ForecastTimes(horizon)
	if err != nil {
		return err
	}
	for i, val := range fcast {
		if _, err := fmt.Fprintf(w, "%s,%s\n", t[i].Format(time.RFC3339), formatValue(val)); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
