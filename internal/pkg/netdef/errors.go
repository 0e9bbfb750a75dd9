package netdef

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrorKind classifies configuration errors.
type ErrorKind int

const (
	// SyntaxError is a malformed input document.
	SyntaxError ErrorKind = iota + 1
	// SchemaError is an unknown key or a value of the wrong type, shape or range.
	SchemaError
	// ReferenceError is an unresolved or cyclic reference between interfaces.
	ReferenceError
	// ValidationError is a violated invariant of the resolved configuration.
	ValidationError
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case SchemaError:
		return "schema error"
	case ReferenceError:
		return "reference error"
	case ValidationError:
		return "validation error"
	}
	return fmt.Sprintf("error(%d)", int(k))
}

// ErrFrozen is returned when documents are ingested into a finalized registry.
var ErrFrozen = errors.New("registry is finalized, reset it before ingesting more documents")

// Location points at a node of an input document.
type Location struct {
	Document string
	Line     int
	Column   int
}

func (l Location) String() string {
	switch {
	case l.Line == 0:
		return l.Document
	case l.Column == 0:
		return fmt.Sprintf("%s:%d", l.Document, l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.Document, l.Line, l.Column)
}

// Error is a configuration error attributable to an interface, key or
// document location.
type Error struct {
	Kind     ErrorKind
	Message  string
	Location *Location
}

func (e *Error) Error() string {
	if e.Location != nil {
		return fmt.Sprintf("%s: %s: %s", e.Location, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func newError(kind ErrorKind, loc *Location, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc}
}

func nodeLocation(document string, node *yaml.Node) *Location {
	loc := &Location{Document: document}
	if node != nil {
		loc.Line = node.Line
		loc.Column = node.Column
	}
	return loc
}

var yamlLineRe = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// syntaxError converts a yaml.v3 decoding error, keeping the reported line.
func syntaxError(document string, err error) *Error {
	loc := &Location{Document: document}
	msg := err.Error()
	if m := yamlLineRe.FindStringSubmatch(msg); m != nil {
		loc.Line, _ = strconv.Atoi(m[1])
		msg = m[2]
	}
	return &Error{Kind: SyntaxError, Message: msg, Location: loc}
}
