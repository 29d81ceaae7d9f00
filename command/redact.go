package command

import (
	"flag"
	"fmt"
	"io"

	"github.com/cosiner/argv"
	"github.com/mitchellh/cli"

	"github.com/docxtools/docxred/hcl"
	"github.com/docxtools/docxred/job"
	"github.com/docxtools/docxred/util"
)

var _ cli.Command = &RedactCommand{}

type RedactCommand struct {
	ui    cli.Ui
	flags *flag.FlagSet

	// Shell-quoted target list, in addition to positional targets
	targets string

	// HCL file location
	config string

	// Matching mode; exact by default
	caseInsensitive bool

	// Path the redacted output is written to
	dest string

	// Treat the input as a bare document body rather than a container
	xmlOnly bool

	// Record masks as tracked changes rather than in-place edits
	trackChanges bool

	// Author recorded on tracked changes
	author string

	// Dump the body structure instead of redacting
	debug bool
}

func (c *RedactCommand) init() {
	const (
		targetsUsageText = "Additional targets as one shell-quoted string, split on whitespace with quoting respected; e.g. -targets '\"John Doe\" confidential'"
		configUsageText  = "Path to an HCL configuration file with target blocks; config targets are appended after command-line targets"
		caseUsageText    = "Match targets ignoring letter case"
		destUsageText    = "Path the redacted output is written to; defaults to the input name with a _redacted suffix"
		xmlUsageText     = "Treat the input as a bare document.xml body instead of a .docx container, and rewrite it in place unless -dest is given"
		trackUsageText   = "Record each mask as a reviewable Word tracked change (a deletion of the original text plus an insertion of the mask) instead of replacing the text in place; the default output name gets a _track_changes suffix"
		authorUsageText  = "Author name recorded on tracked changes"
		debugUsageText   = "Print how the body text is split across fragments instead of redacting; no output file is written"
	)

	c.flags = flag.NewFlagSet("redact", flag.ContinueOnError)
	c.flags.StringVar(&c.targets, "targets", "", targetsUsageText)
	c.flags.StringVar(&c.config, "config", "", configUsageText)
	c.flags.BoolVar(&c.caseInsensitive, "case-insensitive", false, caseUsageText)
	c.flags.StringVar(&c.dest, "dest", "", destUsageText)
	c.flags.BoolVar(&c.xmlOnly, "xml", false, xmlUsageText)
	c.flags.BoolVar(&c.trackChanges, "track-changes", false, trackUsageText)
	c.flags.StringVar(&c.author, "author", job.DefaultAuthor, authorUsageText)
	c.flags.BoolVar(&c.debug, "debug", false, debugUsageText)
	c.flags.SetOutput(io.Discard)
}

// NewRedactCommand produces a new *command pointer, initialized for use in a CLI application.
func NewRedactCommand(ui cli.Ui) *RedactCommand {
	c := &RedactCommand{ui: ui}
	c.init()
	return c
}

// RedactCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func RedactCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewRedactCommand(ui), nil
	}
}

// Help provides help text to users who pass in the --help flag or who enter invalid options.
func (c *RedactCommand) Help() string {
	helpText := `Usage: docxred redact [options] <document.docx> [target ...]

Masks every occurrence of the target strings in the document's body text,
including occurrences split across formatting boundaries. Each masked
character becomes an asterisk; formatting, tables, images, and all other
package parts are preserved unchanged. Targets are tried in the order given,
with command-line targets ahead of config file ones. With -track-changes the
masks are recorded as reviewable Word revisions instead of in-place edits.
`

	return Usage(helpText, c.flags)
}

// Synopsis provides a brief description of the command, for inclusion in the application's primary --help.
func (c *RedactCommand) Synopsis() string {
	return "Mask target strings in a document's body text"
}

// Run executes the command.
func (c *RedactCommand) Run(args []string) int {
	if err := c.flags.Parse(args); err != nil {
		c.ui.Warn(err.Error())
		c.ui.Warn(c.Help())
		return FlagParseError
	}
	if len(c.flags.Args()) < 1 {
		c.ui.Warn("redact requires a document path")
		c.ui.Warn(c.Help())
		return FlagParseError
	}

	l := configureLogging("docxred")

	input, err := util.ExpandPath(c.flags.Arg(0))
	if err != nil {
		c.ui.Warn(err.Error())
		return FlagParseError
	}

	if c.debug {
		report, err := job.Inspect{Input: input, XMLOnly: c.xmlOnly}.Run(l)
		if err != nil {
			c.ui.Error(err.Error())
			return returnCode(err)
		}
		c.ui.Output(report)
		return Success
	}

	targets := append([]string{}, c.flags.Args()[1:]...)
	if c.targets != "" {
		quoted, err := splitTargets(c.targets)
		if err != nil {
			c.ui.Warn(err.Error())
			return FlagParseError
		}
		targets = append(targets, quoted...)
	}

	// Flags take precedence over HCL config.
	caseSensitive := true
	if c.config != "" {
		cfg, err := hcl.Parse(c.config)
		if err != nil {
			l.Error("Failed to load configuration", "config", c.config, "error", err)
			return ConfigError
		}
		l.Debug("HCL config is", "hcl", cfg)
		targets = append(targets, cfg.Strings()...)
		if cfg.CaseSensitive != nil {
			caseSensitive = *cfg.CaseSensitive
		}
	}
	if c.caseInsensitive {
		caseSensitive = false
	}

	if len(targets) == 0 {
		c.ui.Warn("at least one target is required, via arguments, -targets, or -config")
		c.ui.Warn(c.Help())
		return FlagParseError
	}

	j := job.Redact{
		Input:         input,
		Dest:          c.dest,
		Targets:       targets,
		CaseSensitive: caseSensitive,
		XMLOnly:       c.xmlOnly,
		TrackChanges:  c.trackChanges,
		Author:        c.author,
	}
	res, err := j.Run(l)
	if err != nil {
		c.ui.Error(err.Error())
		return returnCode(err)
	}

	c.ui.Output(fmt.Sprintf("Masked %d occurrence(s); wrote %s", res.Matches, j.Destination()))
	return Success
}

// splitTargets splits a shell-quoted target list into individual targets.
func splitTargets(s string) ([]string, error) {
	// Argv returns a [][]string, where each outer slice represents commands split by '|'. Targets are a single
	// list, so a pipe means the input was not quoted the way the user intended.
	p, err := argv.Argv(s, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid -targets value %q: %w", s, err)
	}
	if len(p) != 1 {
		return nil, fmt.Errorf("invalid -targets value %q: unquoted '|'", s)
	}
	return p[0], nil
}
