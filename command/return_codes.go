package command

// Success indicates a successful command execution.
const Success int = 0

// The following error group is intended for issues within the command's execution.
const (
	// FlagParseError indicates that a command was unable to successfully parse the flags/arguments provided to it.
	FlagParseError int = iota + 16

	// ConfigError indicates that there was an error in the docxred configuration file.
	ConfigError

	// RunError indicates an error in a job that no more specific code covers.
	RunError
)

// The following error group is intended for issues with the document being processed.
const (
	// InputNotFound is returned when the input file or directory does not exist.
	InputNotFound int = iota + 32

	// MalformedContainer is returned when the input is not a readable package, or is missing mandatory parts.
	MalformedContainer

	// MalformedBody is returned when the document body markup cannot be parsed.
	MalformedBody

	// IOFailure is returned when reading the input or writing the output fails.
	IOFailure
)
