// Command gridctl subdivides query regions and aggregates observation files
// without any running infrastructure.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/samirrijal/biogrid/internal/adapters/export"
	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/core/usecases"
	"github.com/samirrijal/biogrid/internal/pkg/config"
	"github.com/samirrijal/biogrid/internal/pkg/logging"
)

const usage = `usage:
  gridctl subdivide --min-lat N --max-lat N --min-lon N --max-lon N --step N [--axis lon|lat] [--json]
  gridctl aggregate [--sites FILE] [--sequences FILE] [--header] [--rows] observations.json...`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, afero.NewOsFs()))
}

// run executes one gridctl command and returns the process exit code.
func run(ctx context.Context, args []string, stdout io.Writer, fs afero.Fs) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "subdivide":
		err = subdivide(ctx, args[1:], stdout)
	case "aggregate":
		err = aggregate(ctx, args[1:], stdout, fs)
	case "-h", "--help", "help":
		fmt.Fprintln(stdout, usage)
		return 0
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}

	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		slog.Error("gridctl failed", "command", args[0], "error", err)
		return 1
	}
	return 0
}

// defaultLogLevel matches the log.level config default; viper prefers that
// default over an unchanged flag, so the two must agree.
const defaultLogLevel = "info"

func addLogLevel(flags *pflag.FlagSet) {
	flags.String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
}

func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadWithFlags("biogrid-gridctl", flags)
	if err != nil {
		return nil, err
	}
	logging.SetupCLI(cfg.Log.Level, "text")
	return cfg, nil
}

func subdivide(ctx context.Context, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("subdivide", pflag.ContinueOnError)
	var b domain.Bounds
	flags.Float64Var(&b.MinLat, "min-lat", 0, "southern edge")
	flags.Float64Var(&b.MaxLat, "max-lat", 0, "northern edge")
	flags.Float64Var(&b.MinLon, "min-lon", 0, "western edge")
	flags.Float64Var(&b.MaxLon, "max-lon", 0, "eastern edge")
	step := flags.Float64("step", 0, "cell size in degrees, rounded to one decimal")
	axisName := flags.String("axis", string(domain.AxisLongitude), "axis to split: lon or lat")
	asJSON := flags.Bool("json", false, "print the grid as JSON")
	addLogLevel(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if _, err := loadConfig(flags); err != nil {
		return err
	}

	axis, err := domain.ParseAxis(*axisName)
	if err != nil {
		return err
	}
	grid, err := usecases.NewGridService().Subdivide(ctx, b, *step, axis)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(grid)
	}
	for _, c := range grid.Cells {
		fmt.Fprintf(stdout, "%s,%s,%s,%s\n", num(c.MinLat), num(c.MaxLat), num(c.MinLon), num(c.MaxLon))
	}
	return nil
}

func aggregate(ctx context.Context, args []string, stdout io.Writer, fs afero.Fs) error {
	flags := pflag.NewFlagSet("aggregate", pflag.ContinueOnError)
	sitesPath := flags.String("sites", "", "write site rows to this file")
	seqPath := flags.String("sequences", "", "write sequence rows to this file")
	header := flags.Bool("header", false, "prepend column headers to written files")
	rows := flags.Bool("rows", false, "print site and sequence rows to stdout")
	addLogLevel(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return errors.New("no observation files given")
	}

	var mappings []domain.ObservationMap
	for _, path := range flags.Args() {
		m, err := readMappings(fs, path)
		if err != nil {
			return err
		}
		mappings = append(mappings, m...)
	}

	report := usecases.BuildReport(mappings)
	slog.Info("aggregated", "files", flags.NArg(), "sites", report.SiteCount, "sequences", report.SequenceCount)

	toStdout := *rows || (*sitesPath == "" && *seqPath == "")
	if toStdout {
		io.WriteString(stdout, report.Sites)
		io.WriteString(stdout, report.Sequences)
	}

	siteHeader, seqHeader := "", ""
	if *header || cfg.Export.Headers {
		siteHeader, seqHeader = usecases.SiteHeader, usecases.SequenceHeader
	}

	// Write failures are reported by the writer and do not change the exit code.
	w := export.NewWriter(fs, export.NewLogNotifier(slog.Default()))
	if *sitesPath != "" {
		_ = w.Export(ctx, *sitesPath, report.Sites, siteHeader)
	}
	if *seqPath != "" {
		_ = w.Export(ctx, *seqPath, report.Sequences, seqHeader)
	}
	return nil
}

// readMappings accepts either a single observation mapping or an array of them.
func readMappings(fs afero.Fs, path string) ([]domain.ObservationMap, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		var many []domain.ObservationMap
		if err := json.Unmarshal(data, &many); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return many, nil
	}

	var one domain.ObservationMap
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return []domain.ObservationMap{one}, nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
