package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type
// conversion. Accessors take a fallback so callers state their default at
// the point of use.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value, or fallback if the
	// key is absent or not a string.
	GetString(key, fallback string) string

	// GetInt retrieves an integer configuration value, or fallback if the
	// key is absent or not an integer.
	GetInt(key string, fallback int) int

	// GetFloat retrieves a float configuration value, or fallback if the
	// key is absent or not numeric.
	GetFloat(key string, fallback float64) float64

	// GetBool retrieves a boolean configuration value, or fallback if the
	// key is absent or not a boolean.
	GetBool(key string, fallback bool) bool

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
