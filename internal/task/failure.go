package task

import "fmt"

// Orchestration failure codes. Together with the upstream codes from the
// llm package these form the closed set the message renderer understands.
const (
	CodeSessionNotFound       = "SESSION_NOT_FOUND"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeResumeRequired        = "RESUME_REQUIRED"
	CodeJobPostingRequired    = "JOB_POSTING_REQUIRED"
	CodeNoAnswers             = "NO_ANSWERS"
	CodeFeedbackParseFailed   = "FEEDBACK_PARSE_FAILED"
	CodeFeedbackAlreadyExists = "FEEDBACK_ALREADY_EXISTS"
	CodeDBWriteFailed         = "DB_WRITE_FAILED"
	CodeUnexpectedError       = "UNEXPECTED_ERROR"
)

// Failure is a task error with a stable code the runner translates into a
// user-facing operation error message.
type Failure struct {
	Code    string
	Message string
	Cause   error
}

// NewFailure creates a Failure with the given code and internal message.
func NewFailure(code, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

// WrapFailure creates a Failure preserving the underlying cause.
func WrapFailure(code, message string, cause error) *Failure {
	return &Failure{Code: code, Message: message, Cause: cause}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Code, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Unwrap exposes the cause for errors.Is/errors.As.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// ErrorCode returns the stable failure code.
func (f *Failure) ErrorCode() string {
	return f.Code
}
