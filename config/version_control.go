package config

// Version system:
// vMAJOR.MINOR.PATCH

// Centralized version control
const (
	// Executible
	Main_version = "v1.2.0"

	// Modular components
	Alignment_Report = "v1.2.0"
	Benchmark        = "v1.1.0"
	Logging          = "v1.0.0"
)
