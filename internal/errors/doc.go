// Package errors provides coded, actionable error messages for the Fun Day site.
//
// Every error carries a short code (e.g., "F120") that maps to a category,
// a one-line message and a longer explanation. The CLI prints them with
// Format; servers log them with FormatCompact.
//
// # Error Categories
//
//   - config: configuration file, environment or flag problems
//   - content: event content file problems
//   - submission: RSVP submission failures
//   - server: HTTP server lifecycle problems
//   - cli: command-line usage problems
//
// # Usage
//
//	err := errors.New("F121").
//	    WithDetail("Port must be between 0 and 65535").
//	    WithSuggestion("Set FUNDAY_ADDR to a value like :8080")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR F121: Invalid configuration value
//	//
//	//   Port must be between 0 and 65535
//	//
//	//   Hint: Set FUNDAY_ADDR to a value like :8080
package errors
