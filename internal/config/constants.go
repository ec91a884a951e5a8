package config

// Default storage locations
const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./recipegram.db"

	// DefaultMediaDir is the default directory for persisted images
	DefaultMediaDir = "./media"
)
