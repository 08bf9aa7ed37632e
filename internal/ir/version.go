package ir

// Version constants for the IR contract and the toolchain.
const (
	// IRVersion is the IR schema version.
	IRVersion = "1"

	// Version is the flo toolchain version.
	Version = "0.1.0"
)
