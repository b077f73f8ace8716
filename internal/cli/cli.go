package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/specialistvlad/tilegrid/internal/app"
	"github.com/spf13/pflag"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usage = `
tilegrid - plans analysis jobs over science segments.

Usage:
  tilegrid [options] [CONFIG_PATH...]

Arguments:
  CONFIG_PATH
    A .hcl file or a directory of .hcl files. May be repeated.

Options:
`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("tilegrid", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false
	flagSet.Usage = func() {
		fmt.Fprint(output, usage)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.StringArrayP("config", "c", nil, "Path to a .hcl file or directory. May be repeated.")
	segmentsFlag := flagSet.StringP("segments", "s", "", "Path to the YAML science segment file.")
	catalogFlag := flagSet.StringToString("catalog", nil, "External catalog as name=path. May be repeated.")
	outFlag := flagSet.StringP("out", "o", "-", "Where to write the plan. '-' writes to stdout.")
	workersFlag := flagSet.IntP("workers", "w", runtime.NumCPU(), "Number of segments planned concurrently.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	paths := append(append([]string(nil), *configFlag...), flagSet.Args()...)
	if len(paths) == 0 {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *workersFlag < 1 {
		return nil, false, &ExitError{Code: 2, Message: "invalid workers: must be at least 1"}
	}

	config, err := app.NewConfig(app.Config{
		ConfigPaths:  paths,
		SegmentsPath: *segmentsFlag,
		Catalogs:     *catalogFlag,
		OutPath:      *outFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		WorkerCount:  *workersFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
