package command

import (
	"flag"
	"fmt"
	"io"

	"github.com/mitchellh/cli"

	"github.com/docxtools/docxred/job"
	"github.com/docxtools/docxred/util"
)

var _ cli.Command = &RebuildCommand{}

type RebuildCommand struct {
	ui    cli.Ui
	flags *flag.FlagSet

	// Path the rebuilt document is written to
	dest string
}

func (c *RebuildCommand) init() {
	const (
		destUsageText = "Path the rebuilt document is written to; defaults to the input directory name with a .docx extension"
	)

	c.flags = flag.NewFlagSet("rebuild", flag.ContinueOnError)
	c.flags.StringVar(&c.dest, "dest", "", destUsageText)
	c.flags.SetOutput(io.Discard)
}

// NewRebuildCommand produces a new *command pointer, initialized for use in a CLI application.
func NewRebuildCommand(ui cli.Ui) *RebuildCommand {
	c := &RebuildCommand{ui: ui}
	c.init()
	return c
}

// RebuildCommandFactory provides a cli.CommandFactory that will produce an appropriately-initiated *command.
func RebuildCommandFactory(ui cli.Ui) cli.CommandFactory {
	return func() (cli.Command, error) {
		return NewRebuildCommand(ui), nil
	}
}

// Help provides help text to users who pass in the --help flag or who enter invalid options.
func (c *RebuildCommand) Help() string {
	helpText := `Usage: docxred rebuild [options] <directory>

Packs a directory tree produced by extract back into a document. Pretty-printed
XML parts are compacted first, so an extract/rebuild cycle reproduces the
original markup.
`

	return Usage(helpText, c.flags)
}

// Synopsis provides a brief description of the command, for inclusion in the application's primary --help.
func (c *RebuildCommand) Synopsis() string {
	return "Pack a directory of parts back into a document"
}

// Run executes the command.
func (c *RebuildCommand) Run(args []string) int {
	if err := c.flags.Parse(args); err != nil {
		c.ui.Warn(err.Error())
		c.ui.Warn(c.Help())
		return FlagParseError
	}
	if len(c.flags.Args()) != 1 {
		c.ui.Warn("rebuild takes exactly one directory path")
		c.ui.Warn(c.Help())
		return FlagParseError
	}

	l := configureLogging("docxred")

	input, err := util.ExpandPath(c.flags.Arg(0))
	if err != nil {
		c.ui.Warn(err.Error())
		return FlagParseError
	}

	j := job.Rebuild{Input: input, Dest: c.dest}
	if err := j.Run(l); err != nil {
		c.ui.Error(err.Error())
		return returnCode(err)
	}

	c.ui.Output(fmt.Sprintf("Rebuilt %s into %s", input, j.Destination()))
	return Success
}
