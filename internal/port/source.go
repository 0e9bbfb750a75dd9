// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

//go:generate mockgen -source=source.go -destination=../mock/mock_source.go -package=mock

import (
	"context"
)

// RawDocument is an unparsed configuration document and the name used to
// attribute errors to it.
type RawDocument struct {
	Name string
	Data []byte
}

// DocumentSource is the primary port that supplies configuration documents.
// Implementations decide where documents come from (configuration directories,
// explicit files, tests) and in which order they are returned. The parser
// ingests them in exactly that order.
type DocumentSource interface {
	// Documents returns every document to ingest, in merge order.
	Documents(ctx context.Context) ([]RawDocument, error)
}
