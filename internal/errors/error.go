package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryRouting Category = "routing"
	CategoryRuntime Category = "runtime"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
	CategoryStorage Category = "storage"
)

// Location is a position in a project file (route file, config).
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// OutletError is a coded error with an explanation and a fix hint.
type OutletError struct {
	// Code is a unique error identifier (e.g., "E104").
	Code string

	// Category groups related codes.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location points into the file the error was found in.
	Location *Location

	// Context contains the lines surrounding Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *OutletError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *OutletError) Unwrap() error {
	return e.Wrapped
}

// WithLocation points the error at a file position and loads the
// surrounding lines for display.
func (e *OutletError) WithLocation(file string, line, column int) *OutletError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *OutletError) WithSuggestion(s string) *OutletError {
	e.Suggestion = s
	return e
}

// WithDetail sets the detailed explanation.
func (e *OutletError) WithDetail(d string) *OutletError {
	e.Detail = d
	return e
}

// WithDetailf sets a formatted detailed explanation.
func (e *OutletError) WithDetailf(format string, args ...any) *OutletError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *OutletError) Wrap(err error) *OutletError {
	e.Wrapped = err
	return e
}

func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates an OutletError from a registered error code.
func New(code string) *OutletError {
	template, ok := registry[code]
	if !ok {
		return &OutletError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &OutletError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates an uncoded error with a formatted message.
func Newf(category Category, format string, args ...any) *OutletError {
	return &OutletError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err under code unless it already is an *OutletError.
func FromError(err error, code string) *OutletError {
	if err == nil {
		return nil
	}
	var oe *OutletError
	if stderrors.As(err, &oe) {
		return oe
	}
	return New(code).Wrap(err)
}
