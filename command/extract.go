package command

import (
	"flag"
	"fmt"
	"io"

	"github.com/mitchellh/cli"

	"github.com/docxtools/docxred/job"
	"github.com/docxtools/docxred/util"
)

var _ cli.Command = &ExtractCommand{}

type ExtractCommand struct {
	ui    cli.Ui
	flags *flag.FlagSet

	// Directory the package is unpacked into
	dest string
}

func (c *ExtractCommand) init() {
	const (
		destUsageText = "Directory to unpack the document into; defaults to the input name with an _openxml suffix"
	)

	// flag.ContinueOnError allows flag.Parse to return an error if one comes up, rather than doing an `os.Exit(2)`
	// on its own.
	c.flags = flag.NewFlagSet("extract", flag.ContinueOnError)
	c.flags.StringVar(&c.dest, "dest", "", destUsageText)

	// When invalid flags are provided, Go will output a usage message of its own. If we direct our flag set to
	// io.Discard, it will effectively be hidden, allowing us to print our own Help message upon failure.
	c.flags.SetOutput(io.Discard)
}

// NewExtractCommand produces a new *command pointer, initialized for use in a CLI application.
func NewExtractCommand(ui cli.Ui) *ExtractCommand {
	c := &ExtractCommand{ui: ui}
	c.init()
	return c
}

// ExtractCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func ExtractCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewExtractCommand(ui), nil
	}
}

// Help provides help text to users who pass in the --help flag or who enter invalid options.
func (c *ExtractCommand) Help() string {
	helpText := `Usage: docxred extract [options] <document.docx>

Unpacks a document into a directory tree, one file per package part. XML parts
are pretty-printed for reading and diffing; rebuild reverses the formatting.
`

	return Usage(helpText, c.flags)
}

// Synopsis provides a brief description of the command, for inclusion in the application's primary --help.
func (c *ExtractCommand) Synopsis() string {
	return "Unpack a document into a directory of parts"
}

// Run executes the command.
func (c *ExtractCommand) Run(args []string) int {
	if err := c.flags.Parse(args); err != nil {
		c.ui.Warn(err.Error())
		c.ui.Warn(c.Help())
		return FlagParseError
	}
	if len(c.flags.Args()) != 1 {
		c.ui.Warn("extract takes exactly one document path")
		c.ui.Warn(c.Help())
		return FlagParseError
	}

	l := configureLogging("docxred")

	input, err := util.ExpandPath(c.flags.Arg(0))
	if err != nil {
		c.ui.Warn(err.Error())
		return FlagParseError
	}

	j := job.Extract{Input: input, Dest: c.dest}
	if err := j.Run(l); err != nil {
		c.ui.Error(err.Error())
		return returnCode(err)
	}

	c.ui.Output(fmt.Sprintf("Extracted %s into %s", input, j.Destination()))
	return Success
}
