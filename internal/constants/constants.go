package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "citescan"

	// ConfigFileName is the default config file name
	ConfigFileName = "citescan.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "CITESCAN"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatHTML = "html"
)

// Content limits enforced before content reaches the engine
const (
	DefaultMaxContentWords = 50000
	DefaultMaxContentBytes = 10 * 1024 * 1024
)

// Audit cache defaults
const (
	DefaultCacheTTLHours = 24
	CacheKeyPrefix       = "audit:"
)

// DefaultServerAddr is the listen address of the HTTP API
const DefaultServerAddr = ":8080"

// APIPrefix is the route prefix of the HTTP API
const APIPrefix = "/api/v1"
