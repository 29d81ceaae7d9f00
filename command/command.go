package command

import (
	"errors"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/docxtools/docxred/docx"
	"github.com/docxtools/docxred/wordml"
)

// Commands produces the full set of docxred subcommand factories.
func Commands(ui cli.Ui) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"extract": ExtractCommandFactory(ui),
		"rebuild": RebuildCommandFactory(ui),
		"redact":  RedactCommandFactory(ui),
		"version": VersionCommandFactory(ui),
	}
}

// configureLogging takes a logger name, sets the default configuration, grabs the LOG_LEVEL from our ENV vars, and
// returns a configured and usable logger.
func configureLogging(loggerName string) hclog.Logger {
	// Create logger, set default and log level
	appLogger := hclog.New(&hclog.LoggerOptions{
		Name:  loggerName,
		Color: hclog.AutoColor,
	})
	hclog.SetDefault(appLogger)
	if logStr := os.Getenv("LOG_LEVEL"); logStr != "" {
		if level := hclog.LevelFromString(logStr); level != hclog.NoLevel {
			appLogger.SetLevel(level)
			appLogger.Debug("Logger configuration change", "LOG_LEVEL", hclog.Fmt("%s", logStr))
		}
	}
	return hclog.Default()
}

// returnCode maps an error from the job layer onto the matching exit code.
func returnCode(err error) int {
	var (
		notFound  *docx.InputNotFoundError
		malformed *docx.MalformedContainerError
		structure *wordml.StructureError
		ioErr     *docx.IOError
	)

	switch {
	case errors.As(err, &notFound):
		return InputNotFound
	case errors.As(err, &malformed):
		return MalformedContainer
	case errors.As(err, &structure):
		return MalformedBody
	case errors.As(err, &ioErr):
		return IOFailure
	default:
		return RunError
	}
}
