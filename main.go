package main

import (
	"os"

	"github.com/mitchellh/cli"

	"github.com/docxtools/docxred/command"
	"github.com/docxtools/docxred/version"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := cli.NewCLI("docxred", version.GetVersion().SemanticVersion())
	c.Args = os.Args[1:]
	c.Commands = command.Commands(ui)

	rc, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
	}
	return rc
}
