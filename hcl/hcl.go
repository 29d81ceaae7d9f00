// Package hcl loads redaction configuration files. A config file carries the
// same target list the command line does, which keeps long or shared target
// sets out of shell history.
package hcl

import (
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the top-level structure of a docxred configuration file.
//
//	case_sensitive = false
//
//	target "ssn" {
//	  match = "123-45-6789"
//	}
type Config struct {
	// CaseSensitive, when set, chooses the matching mode. A command-line
	// flag still takes precedence over it.
	CaseSensitive *bool `hcl:"case_sensitive,optional"`

	Targets []Target `hcl:"target,block"`
}

// Target is one literal string to mask. The label is only a name for humans;
// matching uses Match verbatim.
type Target struct {
	Label string `hcl:"name,label"`
	Match string `hcl:"match"`
}

// Parse reads and decodes the configuration file at path.
func Parse(path string) (Config, error) {
	var c Config
	if err := hclsimple.DecodeFile(path, nil, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Strings returns the target matches in declaration order.
func (c Config) Strings() []string {
	out := make([]string, 0, len(c.Targets))
	for _, t := range c.Targets {
		out = append(out, t.Match)
	}
	return out
}
