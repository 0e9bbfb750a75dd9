// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

//go:generate mockgen -source=infrastructure.go -destination=../mock/mock_infrastructure.go -package=mock

// Link describes a network link present on the system.
type Link struct {
	Name       string
	MACAddress string
	Driver     string
	Type       string
}

// LinkManager is a port for reading the system's network links.
// This interface abstracts netlink and ethtool queries. It never changes
// link state.
type LinkManager interface {
	// ListLinks returns every link known to the kernel
	ListLinks() ([]Link, error)
}

// FileManager is a port for file system operations.
// This interface abstracts file read and lookup operations.
type FileManager interface {
	// ReadFile reads the contents of a file
	ReadFile(filename string) ([]byte, error)

	// FileExists checks if a file exists
	FileExists(filename string) bool

	// Glob returns the names of all files matching pattern
	Glob(pattern string) ([]string, error)
}
