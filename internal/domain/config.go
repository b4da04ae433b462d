package domain

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
// This is the root configuration structure loaded from YAML files.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Log       LogConfig       `yaml:"log"`
	Tools     ToolsConfig     `yaml:"tools"`
}

// TransportConfig defines transport settings.
// Specifies whether to use stdio or HTTP transport.
type TransportConfig struct {
	Type string     `yaml:"type"` // "stdio" or "http"
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig defines HTTP transport settings.
// Only used when transport type is "http".
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig defines logging settings. File is optional; when set, logs
// are additionally written there with rotation.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn" or "error"
	File  string `yaml:"file,omitempty"`
}

// ToolsConfig defines Atlassian product configurations.
// Each product is optional - only configured products will be available.
type ToolsConfig struct {
	Jira       *ToolConfig `yaml:"jira,omitempty"`
	Confluence *ToolConfig `yaml:"confluence,omitempty"`
}

// ToolConfig defines configuration for a single Atlassian product.
type ToolConfig struct {
	BaseURL string      `yaml:"base_url"`
	Auth    *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig defines authentication settings.
// Basic auth uses the Atlassian Cloud email + API token pair; token auth
// uses a bearer access token.
type AuthConfig struct {
	Type     string `yaml:"type"` // "basic" or "token"
	Email    string `yaml:"email,omitempty"`
	APIToken string `yaml:"api_token,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

// AuthType defines supported authentication methods.
type AuthType int

const (
	// BasicAuth uses email and API token authentication
	BasicAuth AuthType = iota
	// TokenAuth uses personal access token authentication
	TokenAuth
)

// String returns the string representation of AuthType.
func (a AuthType) String() string {
	switch a {
	case BasicAuth:
		return "basic"
	case TokenAuth:
		return "token"
	default:
		return "unknown"
	}
}

// ParseAuthType converts a string to AuthType.
func ParseAuthType(s string) AuthType {
	switch s {
	case "basic":
		return BasicAuth
	case "token":
		return TokenAuth
	default:
		return BasicAuth
	}
}

// LoadConfig reads configuration from a YAML file, applies environment
// overrides and validates the result. A missing file is not fatal: the
// environment alone may carry a complete configuration.
func LoadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
		}
	case os.IsNotExist(err):
		// Fall through to environment-only configuration.
	default:
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	config.applyEnv()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyEnv overlays environment variables onto the configuration.
// Environment values take precedence over file values.
func (c *Config) applyEnv() {
	if transport := os.Getenv("MCP_TRANSPORT"); transport != "" {
		c.Transport.Type = transport
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		c.Log.File = file
	}

	c.Tools.Jira = productFromEnv(c.Tools.Jira,
		"JIRA_BASE_URL", "JIRA_EMAIL", "JIRA_API_TOKEN", "JIRA_ACCESS_TOKEN")
	c.Tools.Confluence = productFromEnv(c.Tools.Confluence,
		"CONFLUENCE_BASE_URL", "CONFLUENCE_EMAIL", "CONFLUENCE_API_TOKEN", "CONFLUENCE_ACCESS_TOKEN")
}

// productFromEnv overlays one product's environment variables onto its
// configuration, materializing the config sections when the environment
// is the only source.
func productFromEnv(tool *ToolConfig, baseURLVar, emailVar, apiTokenVar, accessTokenVar string) *ToolConfig {
	baseURL := os.Getenv(baseURLVar)
	email := os.Getenv(emailVar)
	apiToken := os.Getenv(apiTokenVar)
	accessToken := os.Getenv(accessTokenVar)

	if baseURL == "" && email == "" && apiToken == "" && accessToken == "" {
		return tool
	}

	if tool == nil {
		tool = &ToolConfig{}
	}
	if baseURL != "" {
		tool.BaseURL = baseURL
	}

	if email != "" || apiToken != "" || accessToken != "" {
		if tool.Auth == nil {
			tool.Auth = &AuthConfig{}
		}
		if email != "" {
			tool.Auth.Email = email
		}
		if apiToken != "" {
			tool.Auth.APIToken = apiToken
		}
		if accessToken != "" {
			tool.Auth.Token = accessToken
		}
		if tool.Auth.Type == "" {
			if accessToken != "" {
				tool.Auth.Type = "token"
			} else {
				tool.Auth.Type = "basic"
			}
		}
	}

	return tool
}

// applyDefaults fills unset fields with working defaults.
func (c *Config) applyDefaults() {
	if c.Transport.Type == "" {
		c.Transport.Type = "stdio"
	}
	if c.Transport.Type == "http" {
		if c.Transport.HTTP.Host == "" {
			c.Transport.HTTP.Host = "127.0.0.1"
		}
		if c.Transport.HTTP.Port == 0 {
			c.Transport.HTTP.Port = 8080
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for completeness and correctness.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errors []string

	// Validate transport configuration
	if err := c.validateTransport(); err != nil {
		errors = append(errors, err.Error())
	}

	// Validate logging configuration
	if err := c.validateLog(); err != nil {
		errors = append(errors, err.Error())
	}

	// Validate tools configuration
	if err := c.validateTools(); err != nil {
		errors = append(errors, err.Error())
	}

	// Check that at least one product is configured
	if c.Tools.Jira == nil && c.Tools.Confluence == nil {
		errors = append(errors, "at least one Atlassian product must be configured")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// validateTransport validates the transport configuration.
func (c *Config) validateTransport() error {
	var errors []string

	// Check transport type is specified
	if c.Transport.Type == "" {
		errors = append(errors, "transport type is required")
	} else if c.Transport.Type != "stdio" && c.Transport.Type != "http" {
		errors = append(errors, fmt.Sprintf("invalid transport type '%s': must be 'stdio' or 'http'", c.Transport.Type))
	}

	// If HTTP transport, validate HTTP configuration
	if c.Transport.Type == "http" {
		if c.Transport.HTTP.Host == "" {
			errors = append(errors, "HTTP host is required when transport type is 'http'")
		}
		if c.Transport.HTTP.Port <= 0 || c.Transport.HTTP.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid HTTP port %d: must be between 1 and 65535", c.Transport.HTTP.Port))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// validateLog validates the logging configuration.
func (c *Config) validateLog() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level '%s': must be 'debug', 'info', 'warn' or 'error'", c.Log.Level)
	}
}

// validateTools validates all configured Atlassian products.
func (c *Config) validateTools() error {
	var errors []string

	if c.Tools.Jira != nil {
		if err := c.Tools.Jira.Validate("Jira"); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if c.Tools.Confluence != nil {
		if err := c.Tools.Confluence.Validate("Confluence"); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate validates a single product configuration.
func (tc *ToolConfig) Validate(toolName string) error {
	var errors []string

	// Check base URL is specified
	if tc.BaseURL == "" {
		errors = append(errors, fmt.Sprintf("%s base_url is required", toolName))
	} else {
		// Validate URL format
		parsedURL, err := url.Parse(tc.BaseURL)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s base_url is invalid: %v", toolName, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("%s base_url must use http or https scheme", toolName))
		} else if parsedURL.Host == "" {
			errors = append(errors, fmt.Sprintf("%s base_url must include a host", toolName))
		}
	}

	if tc.Auth == nil {
		errors = append(errors, fmt.Sprintf("%s auth is required", toolName))
	} else if err := tc.Auth.Validate(toolName); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate validates authentication configuration.
func (ac *AuthConfig) Validate(toolName string) error {
	var errors []string

	// Check auth type is specified
	if ac.Type == "" {
		errors = append(errors, fmt.Sprintf("%s auth type is required", toolName))
	} else if ac.Type != "basic" && ac.Type != "token" {
		errors = append(errors, fmt.Sprintf("%s auth type '%s' is invalid: must be 'basic' or 'token'", toolName, ac.Type))
	}

	// Validate credentials based on auth type
	if ac.Type == "basic" {
		if ac.Email == "" {
			errors = append(errors, fmt.Sprintf("%s email is required for basic auth", toolName))
		}
		if ac.APIToken == "" {
			errors = append(errors, fmt.Sprintf("%s api_token is required for basic auth", toolName))
		}
	} else if ac.Type == "token" {
		if ac.Token == "" {
			errors = append(errors, fmt.Sprintf("%s token is required for token auth", toolName))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
