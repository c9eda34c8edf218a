// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError carries enough context about a failed catalog or
	// selection operation to tell the user what to do next. Commands render
	// it through Format; plain error consumers get the one-line Error form.
	//
	// Use the ErrorContext builder at the failure site:
	//
	//	return issue.NewErrorContext().
	//		WithOperation("toggle entry").
	//		WithEntry("hd-textures").
	//		WithSuggestion("Run 'modsmith list' to see valid ids").
	//		Wrap(err).
	//		BuildError()
	ActionableError struct {
		// Operation is the verb phrase that failed, e.g. "load catalog".
		Operation string

		// EntryID names the catalog component or option involved, when the
		// failure concerns a single entry rather than a file.
		EntryID string

		// Resource is the file or path involved, when one exists.
		Resource string

		// Suggestions are next steps shown under the message.
		Suggestions []string

		// Cause is the underlying error.
		Cause error
	}

	// ErrorContext builds ActionableError values incrementally, so a command
	// can stage the operation and resource up front and attach the cause at
	// the failure site.
	ErrorContext struct {
		operation   string
		entryID     string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// --- ActionableError methods ---

// Error returns the one-line form:
//
//	failed to <operation> ['<entry>'] [: <resource>] [: <cause>]
func (e *ActionableError) Error() string {
	var b strings.Builder

	b.WriteString("failed to ")
	b.WriteString(e.Operation)
	if e.EntryID != "" {
		fmt.Fprintf(&b, " '%s'", e.EntryID)
	}
	if e.Resource != "" {
		b.WriteString(": ")
		b.WriteString(e.Resource)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

// Unwrap returns the cause for errors.Is/As traversal.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for terminal display: the one-line message,
// suggestions as bullets, and in verbose mode the numbered cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder

	b.WriteString(e.Error())

	for i, s := range e.Suggestions {
		if i == 0 {
			b.WriteString("\n")
		}
		b.WriteString("\n  • ")
		b.WriteString(s)
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nError chain:")
		for i, line := range causeChain(e.Cause) {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, line)
		}
	}

	return b.String()
}

// HasSuggestions reports whether any suggestions were attached.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// causeChain flattens an error's Unwrap chain into display lines.
func causeChain(err error) []string {
	var lines []string
	for err != nil {
		lines = append(lines, err.Error())
		err = errors.Unwrap(err)
	}
	return lines
}

// --- ErrorContext methods ---

// WithOperation sets the verb phrase being attempted, e.g. "load catalog"
// or "toggle entry". Build refuses contexts without one.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithEntry names the catalog component or option the failure is about.
func (c *ErrorContext) WithEntry(id string) *ErrorContext {
	c.entryID = id
	return c
}

// WithResource sets the file or path involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion adds a next step. Call repeatedly to add several.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithSuggestions adds several next steps at once.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// Wrap records the underlying error as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates an ActionableError from the context.
// Returns nil if no operation is set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}

	return &ActionableError{
		Operation:   c.operation,
		EntryID:     c.entryID,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError creates an ActionableError and returns it as an error value,
// for direct use in return statements. Returns nil if no operation is set.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}
