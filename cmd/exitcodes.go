package cmd

// Exit codes returned by Execute.
const (
	ExitSuccess     = 0 // Success, including "not found" and empty results
	ExitError       = 1 // Invalid arguments or runtime failure
	ExitConfigError = 2 // Configuration could not be resolved
	ExitReadError   = 3 // Store exists but cannot be read or parsed
	ExitWriteError  = 4 // Save, backup, lock or export failed
)
