package netdef

import (
	"net"
	"strings"

	"golang-netdef/internal/pkg/logging"
	"golang-netdef/internal/types"

	"gopkg.in/yaml.v3"
)

// Document is one parsed input document.
type Document struct {
	Name string
	Root *yaml.Node
}

// ParseDocument decodes a YAML document into a node tree. Only the first
// YAML document of a stream is read.
func ParseDocument(name string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, syntaxError(name, err)
	}
	return &Document{Name: name, Root: &root}, nil
}

// handler consumes the value node of one mapping key.
type handler func(b *builder, node *yaml.Node) error

// builder walks one document and applies it to a registry.
type builder struct {
	reg *Registry
	doc string
	def *types.Definition

	// Entries of nested sequences and mappings being decoded.
	route       *types.Route
	accessPoint *types.AccessPoint
}

func (b *builder) loc(node *yaml.Node) *Location {
	return nodeLocation(b.doc, node)
}

func (b *builder) errorf(node *yaml.Node, format string, args ...interface{}) *Error {
	if b.def != nil {
		format = b.def.ID + ": " + format
	}
	return newError(SchemaError, b.loc(node), format, args...)
}

func (b *builder) document(root *yaml.Node) error {
	if root == nil {
		return nil
	}
	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	if node.Kind == 0 || isNull(node) {
		return nil
	}
	return b.mapping(node, rootHandlers)
}

// mapping dispatches every key of a mapping node to its handler. Keys
// without a handler are rejected.
func (b *builder) mapping(node *yaml.Node, handlers map[string]handler) error {
	if node.Kind != yaml.MappingNode {
		return b.errorf(node, "expected mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		h, ok := handlers[key.Value]
		if !ok {
			return b.errorf(key, "unknown key '%s'", key.Value)
		}
		if err := h(b, value); err != nil {
			return err
		}
	}
	return nil
}

// section handles one of the per-kind mappings of id to definition.
func (b *builder) section(kind types.Kind, node *yaml.Node) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return b.errorf(node, "expected mapping of interface definitions")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return b.errorf(key, "invalid interface id")
		}
		def, err := b.define(key, kind)
		if err != nil {
			return err
		}
		b.def = def
		if !isNull(value) {
			err = b.mapping(value, definitionHandlers[kind])
		}
		b.def = nil
		if err != nil {
			return err
		}
	}
	return nil
}

// define returns the definition for id, creating it on first declaration.
func (b *builder) define(key *yaml.Node, kind types.Kind) (*types.Definition, error) {
	id := key.Value
	logger := logging.WithComponentAndInterface("netdef", id)

	if existing, ok := b.reg.Get(id); ok {
		if existing.Kind != kind {
			return nil, newError(SchemaError, b.loc(key),
				"%s: updated definition changes device type from %s to %s", id, existing.Kind, kind)
		}
		logger.WithField("document", b.doc).Debug("Amending definition")
		return existing, nil
	}

	def := types.NewDefinition(id, kind)
	b.reg.add(def, *b.loc(key))
	logger.WithField("document", b.doc).WithField("kind", kind.String()).Debug("Created definition")
	return def, nil
}

// reference records a reference from the current definition to target.
func (b *builder) reference(kind RefKind, node *yaml.Node) {
	ref := DeferredReference{
		Owner:    b.def.ID,
		Kind:     kind,
		Target:   node.Value,
		Location: *b.loc(node),
	}
	b.reg.recordReference(ref)

	entry := logging.WithComponentAndInterface("netdef", b.def.ID).WithField("target", ref.Target)
	if _, ok := b.reg.Get(ref.Target); ok {
		entry.Debugf("Bound %s", kind)
	} else {
		entry.Debugf("Deferred %s", kind)
	}
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func (b *builder) scalar(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode || isNull(node) {
		return "", b.errorf(node, "expected scalar")
	}
	return node.Value, nil
}

func (b *builder) boolean(node *yaml.Node) (bool, error) {
	var v bool
	if node.Kind != yaml.ScalarNode || node.Decode(&v) != nil {
		return false, b.errorf(node, "invalid boolean value '%s'", node.Value)
	}
	return v, nil
}

func (b *builder) unsigned(node *yaml.Node) (uint, error) {
	var v uint
	if node.Kind != yaml.ScalarNode || node.Decode(&v) != nil {
		return 0, b.errorf(node, "invalid unsigned int value '%s'", node.Value)
	}
	return v, nil
}

func (b *builder) integer(node *yaml.Node) (int64, error) {
	var v int64
	if node.Kind != yaml.ScalarNode || node.Decode(&v) != nil {
		return 0, b.errorf(node, "invalid integer value '%s'", node.Value)
	}
	return v, nil
}

// sequence calls fn for every scalar item of a sequence node.
func (b *builder) sequence(node *yaml.Node, fn func(item *yaml.Node) error) error {
	if node.Kind != yaml.SequenceNode {
		return b.errorf(node, "expected sequence")
	}
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode || isNull(item) {
			return b.errorf(item, "expected scalar")
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) oneOf(node *yaml.Node, what string, allowed ...string) (string, error) {
	v, err := b.scalar(node)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", b.errorf(node, "unknown %s '%s', must be one of: %s", what, v, strings.Join(allowed, ", "))
}

func (b *builder) cidr(node *yaml.Node) (string, error) {
	if _, _, err := net.ParseCIDR(node.Value); err != nil {
		return "", b.errorf(node, "malformed address '%s', must be X.X.X.X/NN or X:X:X:X:X:X:X:X/NN", node.Value)
	}
	return node.Value, nil
}

func (b *builder) ip(node *yaml.Node, family int) (string, error) {
	v, err := b.scalar(node)
	if err != nil {
		return "", err
	}
	ip := net.ParseIP(v)
	switch {
	case ip == nil:
		return "", b.errorf(node, "malformed address '%s'", v)
	case family == 4 && ip.To4() == nil:
		return "", b.errorf(node, "invalid IPv4 address '%s'", v)
	case family == 6 && ip.To4() != nil:
		return "", b.errorf(node, "invalid IPv6 address '%s'", v)
	}
	return v, nil
}

func (b *builder) mac(node *yaml.Node) (string, error) {
	v, err := b.scalar(node)
	if err != nil {
		return "", err
	}
	hw, perr := net.ParseMAC(v)
	if perr != nil || len(hw) != 6 {
		return "", b.errorf(node, "invalid MAC address '%s', must be XX:XX:XX:XX:XX:XX", v)
	}
	return v, nil
}
