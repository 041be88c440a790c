package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// Registered error codes.
const (
	CodeConfigParse   = "F120"
	CodeConfigInvalid = "F121"
	CodeConfigEnv     = "F122"

	CodeContentMissing = "F140"
	CodeContentParse   = "F141"
	CodeContentInvalid = "F142"

	CodeSubmissionFailed = "F160"

	CodeServerListen   = "F180"
	CodeServerShutdown = "F181"

	CodeCLIUsage = "F190"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (F120-F139)
	// ============================================

	CodeConfigParse: {
		Category: CategoryConfig,
		Message:  "Failed to read configuration file",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	CodeConfigEnv: {
		Category: CategoryConfig,
		Message:  "Invalid environment variable",
	},

	// ============================================
	// Content Errors (F140-F159)
	// ============================================

	CodeContentMissing: {
		Category: CategoryContent,
		Message:  "Event content file not found",
	},
	CodeContentParse: {
		Category: CategoryContent,
		Message:  "Failed to parse event content",
	},
	CodeContentInvalid: {
		Category: CategoryContent,
		Message:  "Invalid event content",
	},

	// ============================================
	// Submission Errors (F160-F179)
	// ============================================

	CodeSubmissionFailed: {
		Category: CategorySubmission,
		Message:  "RSVP submission failed",
		Detail:   "The submission did not complete; the form was returned to an editable state.",
	},

	// ============================================
	// Server Errors (F180-F189)
	// ============================================

	CodeServerListen: {
		Category: CategoryServer,
		Message:  "HTTP server failed",
	},
	CodeServerShutdown: {
		Category: CategoryServer,
		Message:  "HTTP server did not shut down cleanly",
	},

	// ============================================
	// CLI Errors (F190-F199)
	// ============================================

	CodeCLIUsage: {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
