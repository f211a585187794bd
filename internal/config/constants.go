package config

import "time"

// Application constants
const (
	AppName   = "bondmatch"
	EnvPrefix = "BONDMATCH"

	DefaultPort           = 8080
	DefaultRequestTimeout = 30 * time.Second

	// Rate limiting
	DefaultRateLimit = 50 // requests per second
	DefaultBurstSize = 100

	// Dataset
	DefaultRecentTradingDays = 5
	DefaultMaxUploadBytes    = 32 << 20

	// Directories, relative to the base directory
	DefaultDataDir    = "data"
	DefaultUploadsDir = "data/uploads"
	DefaultExportsDir = "data/exports"
	DefaultLogsDir    = "logs"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultConfigFiles are searched in order when no --config is given
var DefaultConfigFiles = []string{
	"config.yaml",
	"configs/config.yaml",
	"configs/bondmatch.yaml",
}

// DefaultRetainedUploads is how many uploaded datasets survive the
// startup cleanup of the uploads directory
const DefaultRetainedUploads = 10
