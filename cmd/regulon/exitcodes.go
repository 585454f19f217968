package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad regulon.yml, rule file, or tone)
	ExitDataError   = 3 // Data error (missing run directory, unreadable network)
	ExitAPIError    = 4 // Interactome service unreachable or returned an error
)
