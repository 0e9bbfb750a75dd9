// Package netdef builds a validated registry of network interface
// definitions from one or more configuration documents.
//
// Documents are ingested one at a time with Ingest. Finalize then resolves
// references between interfaces, assigns backends and validates the result.
// A finalized registry is frozen until Reset is called.
package netdef

import (
	"context"
	"fmt"

	"golang-netdef/internal/pkg/logging"
	"golang-netdef/internal/port"
	"golang-netdef/internal/types"
)

// Parser owns one registry and drives it through ingestion and finalize.
// A Parser is not safe for concurrent use.
type Parser struct {
	reg    *Registry
	frozen bool
}

// NewParser creates a parser with an empty registry.
func NewParser() *Parser {
	return &Parser{reg: newRegistry()}
}

// Ingest applies one document to the registry. The document is applied as a
// whole: if it fails, the registry is left as it was before the call.
func (p *Parser) Ingest(doc *Document) error {
	if p.frozen {
		return ErrFrozen
	}
	logger := logging.WithDocument("netdef", doc.Name)

	stage := p.reg.clone()
	b := &builder{reg: stage, doc: doc.Name}
	if err := b.document(doc.Root); err != nil {
		logger.WithError(err).Debug("Rejected document")
		return err
	}
	p.reg = stage

	logger.WithField("interfaces", stage.Len()).WithField("pending", len(stage.Pending())).
		Debug("Ingested document")
	return nil
}

// IngestBytes parses and ingests a single document.
func (p *Parser) IngestBytes(name string, data []byte) error {
	if p.frozen {
		return ErrFrozen
	}
	doc, err := ParseDocument(name, data)
	if err != nil {
		return err
	}
	return p.Ingest(doc)
}

// IngestSource ingests every document of source in the order returned.
// The context is checked before each document.
func (p *Parser) IngestSource(ctx context.Context, source port.DocumentSource) error {
	docs, err := source.Documents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	for _, raw := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.IngestBytes(raw.Name, raw.Data); err != nil {
			return err
		}
	}
	return nil
}

// Finalize resolves references, assigns backends and validates the
// registry. On success the registry is frozen. On failure it is left in its
// pre-finalize state and more documents may still be ingested.
func (p *Parser) Finalize() error {
	if p.frozen {
		return nil
	}
	logger := logging.WithComponent("netdef")

	stage := p.reg.clone()
	if err := resolve(stage); err != nil {
		return err
	}
	assignBackends(stage)
	if err := validate(stage); err != nil {
		return err
	}

	p.reg = stage
	p.frozen = true
	logger.WithField("interfaces", stage.Len()).
		WithField("renderer", stage.effectiveGlobalBackend().String()).
		Debug("Finalized registry")
	return nil
}

// Registry returns the registry. Its contents are only complete after a
// successful Finalize.
func (p *Parser) Registry() *Registry {
	return p.reg
}

// EffectiveGlobalBackend returns the configured global backend, or
// DefaultBackend when no document selected one.
func (p *Parser) EffectiveGlobalBackend() types.Backend {
	return p.reg.effectiveGlobalBackend()
}

// Frozen reports whether Finalize has succeeded.
func (p *Parser) Frozen() bool {
	return p.frozen
}

// Reset discards every definition and unfreezes the parser.
func (p *Parser) Reset() {
	p.reg = newRegistry()
	p.frozen = false
}
