// Package errmsg renders stable error codes into user-facing messages. The
// output is plain text a frontend can display directly: a short explanation,
// then a "What to do" line. Rendered strings never contain technical jargon
// or secrets.
package errmsg

import (
	"strings"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/redact"
)

// Severity grades a failure for display purposes.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Context carries the dynamic values templates may reference. Zero values
// are fine; rendering falls back to neutral phrasing.
type Context struct {
	OperationType domain.OperationType
	RetryCount    int
}

type template struct {
	message   string
	action    string
	retriable bool
	severity  Severity
}

// Placeholders recognized inside template text.
const (
	phrasePlaceholder  = "{operation_phrase}"
	subjectPlaceholder = "{operation_subject}"
)

var templates = map[string]template{
	"RESUME_REQUIRED": {
		message:   "Unable to {operation_phrase}. A resume is required.",
		action:    "Add your resume in your profile settings, then try again.",
		retriable: false,
		severity:  SeverityError,
	},
	"JOB_POSTING_REQUIRED": {
		message:   "Unable to {operation_phrase}. This session is missing its job posting.",
		action:    "Create or select a job posting for this session, then try again.",
		retriable: false,
		severity:  SeverityError,
	},
	"NO_ANSWERS": {
		message:   "Unable to {operation_phrase}. There are no answers to analyze.",
		action:    "Complete at least one interview question, then try again.",
		retriable: false,
		severity:  SeverityError,
	},
	"API_KEY_NOT_CONFIGURED": {
		message:   "Unable to {operation_phrase}. No AI service API key is configured.",
		action:    "Contact your administrator to configure the AI service, then try again.",
		retriable: false,
		severity:  SeverityError,
	},
	"INVALID_API_KEY": {
		message:   "Unable to {operation_phrase}. The AI service rejected the configured credentials.",
		action:    "Contact your administrator to check the AI service configuration.",
		retriable: false,
		severity:  SeverityError,
	},
	"QUOTA_EXCEEDED": {
		message:   "Unable to {operation_phrase}. The AI service account has exceeded its quota.",
		action:    "Check the AI service billing and usage, then try again.",
		retriable: false,
		severity:  SeverityError,
	},
	"RATE_LIMIT": {
		message:   "{operation_subject} is taking longer than expected due to high demand.",
		action:    "Wait a moment and try again.",
		retriable: true,
		severity:  SeverityWarning,
	},
	"NETWORK_ERROR": {
		message:   "Unable to {operation_phrase} because the AI service could not be reached.",
		action:    "Check your internet connection and try again.",
		retriable: true,
		severity:  SeverityWarning,
	},
	"SERVER_ERROR": {
		message:   "The AI service is temporarily unavailable.",
		action:    "Try again in a few moments.",
		retriable: true,
		severity:  SeverityWarning,
	},
	"INVALID_RESPONSE": {
		message:   "The AI service returned an unexpected response.",
		action:    "Try again. If the problem persists, contact support.",
		retriable: true,
		severity:  SeverityError,
	},
	"UNEXPECTED_ERROR": {
		message:   "An unexpected error occurred while contacting the AI service.",
		action:    "Try again. If the problem persists, contact support.",
		retriable: true,
		severity:  SeverityError,
	},
	"SESSION_NOT_FOUND": {
		message:   "Unable to {operation_phrase}. The session could not be found.",
		action:    "Refresh the page. If the problem persists, return to your sessions list and try again.",
		retriable: false,
		severity:  SeverityError,
	},
	"USER_NOT_FOUND": {
		message:   "Unable to {operation_phrase}. Your account could not be loaded.",
		action:    "Try again. If the problem persists, log out and log back in.",
		retriable: false,
		severity:  SeverityError,
	},
	"FEEDBACK_ALREADY_EXISTS": {
		message:   "Feedback has already been generated for this session.",
		action:    "Refresh the page to view the existing feedback.",
		retriable: false,
		severity:  SeverityInfo,
	},
	"DB_WRITE_FAILED": {
		message:   "We couldn't save the result of this AI operation.",
		action:    "Try again. If the problem persists, contact support.",
		retriable: true,
		severity:  SeverityError,
	},
	"FEEDBACK_PARSE_FAILED": {
		message:   "We couldn't process the AI feedback response.",
		action:    "Try again. If the problem persists, contact support.",
		retriable: true,
		severity:  SeverityError,
	},
}

var defaultTemplate = template{
	message:   "An unexpected error occurred while contacting the AI service.",
	action:    "Try again. If the problem persists, contact support.",
	retriable: true,
	severity:  SeverityError,
}

func lookup(code string) template {
	if tmpl, ok := templates[code]; ok {
		return tmpl
	}
	return defaultTemplate
}

// operationPhrase returns the verb phrase for an operation type, used in
// "Unable to <phrase>." sentences.
func operationPhrase(opType domain.OperationType) string {
	switch opType {
	case domain.OperationTypeQuestionGeneration:
		return "generate your interview question"
	case domain.OperationTypeFeedbackAnalysis:
		return "analyze your answer"
	default:
		return "complete your request"
	}
}

// operationSubject returns the noun phrase for an operation type, used where
// the operation is the sentence subject.
func operationSubject(opType domain.OperationType) string {
	switch opType {
	case domain.OperationTypeQuestionGeneration:
		return "Question generation"
	case domain.OperationTypeFeedbackAnalysis:
		return "Feedback analysis"
	default:
		return "This operation"
	}
}

func expand(text string, ctx Context) string {
	replacer := strings.NewReplacer(
		phrasePlaceholder, operationPhrase(ctx.OperationType),
		subjectPlaceholder, operationSubject(ctx.OperationType),
	)
	return replacer.Replace(text)
}

// Render produces the complete user-facing message for an error code.
// Unknown codes render the generic fallback rather than failing, so the
// user always sees something actionable. Output is masked as a final
// guard against secrets arriving through dynamic context.
func Render(code string, ctx Context) string {
	tmpl := lookup(code)

	combined := strings.TrimSpace(expand(tmpl.message, ctx))
	if action := strings.TrimSpace(expand(tmpl.action, ctx)); action != "" {
		combined += "\n\nWhat to do: " + action
	}

	return redact.String(combined)
}

// IsRetriable reports whether the user should be offered a retry for this
// error code. Unknown codes default to retriable.
func IsRetriable(code string) bool {
	return lookup(code).retriable
}

// SeverityFor returns the display severity for an error code.
func SeverityFor(code string) Severity {
	return lookup(code).severity
}
