package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "test-service",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  1048576,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Services: ServicesConfig{
			Remote: RemoteConfig{
				ServiceEndpointConfig: ServiceEndpointConfig{
					BaseURL: "https://jsonplaceholder.typicode.com",
					Name:    "quote-server",
				},
				ResourcePath: "/posts",
				Limit:        5,
				Category:     "Server",
			},
		},
		Store: StoreConfig{
			Driver:    "sqlite",
			Path:      "./data/quotes.db",
			QuotesKey: "quotes",
			FilterKey: "selectedCategory",
		},
		Quotes: QuotesConfig{
			CategoryMatch: "exact",
		},
		Sync: SyncConfig{
			Enabled:     true,
			Schedule:    "@every 30s",
			Policy:      "merge",
			PushOnAdd:   true,
			Timeout:     20 * time.Second,
			PushTimeout: 10 * time.Second,
		},
		Notify: NotifyConfig{
			TTL: 4 * time.Second,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestConfig_Validate_AppConfig(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Name = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.name")
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("missing version", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Version = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.version")
	})

	t.Run("missing environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.environment")
	})

	t.Run("invalid environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = "invalid"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.environment")
		assert.Contains(t, err.Error(), "must be one of")
	})
}

func TestConfig_Validate_ValidEnvironments(t *testing.T) {
	validEnvs := []string{"local", "dev", "qa", "prod", "test"}

	for _, env := range validEnvs {
		t.Run(env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = env

			err := cfg.Validate()
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Validate_ServerConfig(t *testing.T) {
	t.Run("valid port range", func(t *testing.T) {
		tests := []struct {
			name    string
			port    int
			wantErr bool
		}{
			{"minimum valid port", 1, false},
			{"typical port", 8080, false},
			{"maximum valid port", 65535, false},
			{"zero port", 0, true},
			{"negative port", -1, true},
			{"port too high", 65536, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := validConfig()
				cfg.Server.Port = tt.port

				err := cfg.Validate()
				if tt.wantErr {
					assert.Error(t, err)
					assert.Contains(t, err.Error(), "server.port")
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Host = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.host")
	})

	t.Run("timeout minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.ReadTimeout = 500 * time.Millisecond // Less than 1s minimum

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.read_timeout")
	})

	t.Run("max request size minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.MaxRequestSize = 0

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.max_request_size")
	})
}

func TestConfig_Validate_LogConfig(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		levels := []string{"debug", "info", "warn", "error"}
		for _, level := range levels {
			t.Run(level, func(t *testing.T) {
				cfg := validConfig()
				cfg.Log.Level = level

				err := cfg.Validate()
				assert.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.Level = "invalid"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
		assert.Contains(t, err.Error(), "must be one of")
	})

	t.Run("case sensitive log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.Level = "DEBUG" // Should be lowercase

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
	})

	t.Run("valid log formats", func(t *testing.T) {
		formats := []string{"json", "text", "pretty"}
		for _, format := range formats {
			t.Run(format, func(t *testing.T) {
				cfg := validConfig()
				cfg.Log.Format = format

				err := cfg.Validate()
				assert.NoError(t, err)
			})
		}
	})

	t.Run("invalid log format", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.Format = "xml"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.format")
	})
}

func TestConfig_Validate_LogFileConfig(t *testing.T) {
	t.Run("file logging disabled - path not required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.File.Enabled = false
		cfg.Log.File.Path = ""

		err := cfg.Validate()
		assert.NoError(t, err)
	})

	t.Run("file logging enabled - path required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.File.Enabled = true
		cfg.Log.File.Path = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.file.path")
	})

	t.Run("file logging enabled with valid config", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.File.Enabled = true
		cfg.Log.File.Path = "/var/log/app.log"
		cfg.Log.File.MaxSizeMB = 100
		cfg.Log.File.MaxBackups = 3
		cfg.Log.File.MaxAgeDays = 28

		err := cfg.Validate()
		assert.NoError(t, err)
	})

	t.Run("max size bounds", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.File.Enabled = true
		cfg.Log.File.Path = "/var/log/app.log"
		cfg.Log.File.MaxSizeMB = 1025 // Exceeds max of 1024

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.file.max_size")
	})
}

func TestConfig_Validate_TelemetryConfig(t *testing.T) {
	t.Run("telemetry disabled - endpoint not required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.Enabled = false
		cfg.Telemetry.Endpoint = ""

		err := cfg.Validate()
		assert.NoError(t, err)
	})

	t.Run("telemetry enabled - endpoint required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Endpoint = ""
		cfg.Telemetry.ServiceName = "test"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.endpoint")
	})

	t.Run("telemetry enabled - service name required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Endpoint = "http://localhost:4317"
		cfg.Telemetry.ServiceName = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.service_name")
	})

	t.Run("telemetry enabled - invalid endpoint URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Endpoint = "not-a-url"
		cfg.Telemetry.ServiceName = "test"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.endpoint")
	})

	t.Run("telemetry enabled with valid config", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Endpoint = "http://localhost:4317"
		cfg.Telemetry.ServiceName = "test-service"
		cfg.Telemetry.SamplingRate = 0.5

		err := cfg.Validate()
		assert.NoError(t, err)
	})

	t.Run("sampling rate bounds", func(t *testing.T) {
		tests := []struct {
			rate    float64
			wantErr bool
		}{
			{0.0, false},
			{0.5, false},
			{1.0, false},
			{-0.1, true},
			{1.1, true},
		}

		for _, tt := range tests {
			t.Run(fmt.Sprintf("rate_%v", tt.rate), func(t *testing.T) {
				cfg := validConfig()
				cfg.Telemetry.SamplingRate = tt.rate

				err := cfg.Validate()
				if tt.wantErr {
					assert.Error(t, err)
					assert.Contains(t, err.Error(), "telemetry.sampling_rate")
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})
}

func TestConfig_Validate_StoreConfig(t *testing.T) {
	t.Run("memory driver needs no path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.Driver = "memory"
		cfg.Store.Path = ""

		assert.NoError(t, cfg.Validate())
	})

	t.Run("sqlite driver requires path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.Path = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.path")
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.Driver = "redis"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.driver must be one of")
	})

	t.Run("keys must differ", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.FilterKey = cfg.Store.QuotesKey

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.filter_key must differ from quotes_key")
	})
}

func TestConfig_Validate_SyncConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown policy",
			mutate:  func(c *Config) { c.Sync.Policy = "overwrite" },
			wantErr: "sync.policy",
		},
		{
			name:    "missing schedule",
			mutate:  func(c *Config) { c.Sync.Schedule = "" },
			wantErr: "sync.schedule",
		},
		{
			name:    "schedule not cron",
			mutate:  func(c *Config) { c.Sync.Schedule = "every thirty seconds" },
			wantErr: `sync.schedule: "every thirty seconds" is not a cron expression`,
		},
		{
			name:   "five field schedule",
			mutate: func(c *Config) { c.Sync.Schedule = "*/5 * * * *" },
		},
		{
			name:    "timeout too short",
			mutate:  func(c *Config) { c.Sync.Timeout = 10 * time.Millisecond },
			wantErr: "sync.timeout",
		},
		{
			name:    "unknown category match",
			mutate:  func(c *Config) { c.Quotes.CategoryMatch = "regex" },
			wantErr: "quotes.category_match",
		},
		{
			name:    "notification ttl required",
			mutate:  func(c *Config) { c.Notify.TTL = 0 },
			wantErr: "notify.ttl",
		},
		{
			name:   "replace policy",
			mutate: func(c *Config) { c.Sync.Policy = "replace" },
		},
		{
			name:   "fold match",
			mutate: func(c *Config) { c.Quotes.CategoryMatch = "fold" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_RemoteConfig(t *testing.T) {
	t.Run("resource path must be absolute", func(t *testing.T) {
		cfg := validConfig()
		cfg.Services.Remote.ResourcePath = "posts"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "services.remote.resource_path must start with")
	})

	t.Run("limit bounds", func(t *testing.T) {
		cfg := validConfig()
		cfg.Services.Remote.Limit = 0

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "services.remote.limit")
	})

	t.Run("base url must be a url", func(t *testing.T) {
		cfg := validConfig()
		cfg.Services.Remote.BaseURL = "not a url"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "services.remote.base_url must be a valid URL")
	})
}

func TestConfig_Validate_ClientConfig(t *testing.T) {
	t.Run("timeout minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Client.Timeout = 50 * time.Millisecond // Less than 100ms minimum

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client.timeout")
	})
}

//nolint:dupl // Test functions with similar structure are acceptable
func TestConfig_Validate_RetryConfig(t *testing.T) {
	t.Run("max attempts bounds", func(t *testing.T) {
		tests := []struct {
			attempts int
			wantErr  bool
		}{
			{1, false},
			{3, false},
			{10, false},
			{0, true},
			{11, true},
		}

		for _, tt := range tests {
			t.Run(fmt.Sprintf("attempts_%d", tt.attempts), func(t *testing.T) {
				cfg := validConfig()
				cfg.Client.Retry.MaxAttempts = tt.attempts

				err := cfg.Validate()
				if tt.wantErr {
					assert.Error(t, err)
					assert.Contains(t, err.Error(), "client.retry.max_attempts")
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})

	t.Run("initial interval minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Client.Retry.InitialInterval = 5 * time.Millisecond // Less than 10ms minimum

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client.retry.initial_interval")
	})

	t.Run("max interval minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Client.Retry.MaxInterval = 50 * time.Millisecond // Less than 100ms minimum

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client.retry.max_interval")
	})

	t.Run("multiplier bounds", func(t *testing.T) {
		tests := []struct {
			multiplier float64
			wantErr    bool
		}{
			{1.1, false},
			{2.0, false},
			{10.0, false},
			{1.0, true},  // Less than 1.1 minimum
			{10.1, true}, // Greater than 10 maximum
		}

		for _, tt := range tests {
			t.Run(fmt.Sprintf("multiplier_%v", tt.multiplier), func(t *testing.T) {
				cfg := validConfig()
				cfg.Client.Retry.Multiplier = tt.multiplier

				err := cfg.Validate()
				if tt.wantErr {
					assert.Error(t, err)
					assert.Contains(t, err.Error(), "client.retry.multiplier")
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})
}

func TestConfig_Validate_CircuitBreakerConfig(t *testing.T) {
	t.Run("max failures minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Client.CircuitBreaker.MaxFailures = 0

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client.circuit_breaker.max_failures")
	})

	t.Run("timeout minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Client.CircuitBreaker.Timeout = 500 * time.Millisecond // Less than 1s minimum

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client.circuit_breaker.timeout")
	})

	t.Run("half open limit minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Client.CircuitBreaker.HalfOpenLimit = 0

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client.circuit_breaker.half_open_limit")
	})
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		App: AppConfig{
			Name:        "",        // missing
			Version:     "",        // missing
			Environment: "invalid", // invalid
		},
		Server: ServerConfig{
			Port: -1, // invalid
		},
		// Other fields will fail required validation
	}

	err := cfg.Validate()
	require.Error(t, err)

	// Should report multiple errors
	errStr := err.Error()
	assert.Contains(t, errStr, "app.name")
	assert.Contains(t, errStr, "app.version")
}

func TestFormatFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"Config.Server.Port", "server.port"},
		{"Config.App.Name", "app.name"},
		{"Config.Client.Retry.MaxAttempts", "client.retry.max_attempts"},
		{"Config.Log.File.Path", "log.file.path"},
		{"Config.Telemetry.SamplingRate", "telemetry.sampling_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			result := formatFieldPath(tt.namespace)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_Validate_RetryIntervalOrder(t *testing.T) {
	cfg := validConfig()
	cfg.Client.Retry.InitialInterval = 2 * time.Second
	cfg.Client.Retry.MaxInterval = time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client.retry.max_interval must be at least initial_interval")
}

func TestConfig_Validate_ReportsAllFields(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.Store.Driver = "postgres"
	cfg.Notify.TTL = 0

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "app.name is required")
	assert.Contains(t, msg, "store.driver must be one of: sqlite memory")
	assert.Contains(t, msg, "notify.ttl is required")
}

func TestFormatFieldPath_TagPaths(t *testing.T) {
	tests := map[string]string{
		"Config.sync.schedule":                              "sync.schedule",
		"Config.services.remote.ServiceEndpointConfig.name": "services.remote.name",
		"Config.log.file.max_size":                          "log.file.max_size",
	}

	for in, want := range tests {
		assert.Equal(t, want, formatFieldPath(in), in)
	}
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "quotes_key", snakeCase("QuotesKey"))
	assert.Equal(t, "driver sqlite", snakeCase("Driver sqlite"))
	assert.Equal(t, "10ms", snakeCase("10ms"))
}
