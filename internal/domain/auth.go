package domain

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// Credentials stores authentication information for an Atlassian product.
// Basic authentication pairs a Cloud account email with an API token;
// token authentication carries a bearer access token.
type Credentials struct {
	Type     AuthType // BasicAuth or TokenAuth
	Email    string   // Used for basic auth
	APIToken string   // Used for basic auth
	Token    string   // Used for token auth
}

// AuthenticationManager handles credentials for Atlassian products.
// It stores credentials for each configured product and provides
// authenticated HTTP clients for making API calls.
type AuthenticationManager struct {
	credentials map[string]*Credentials
}

// NewAuthenticationManager creates a new authentication manager.
// The credentials map should contain entries for each configured product,
// keyed by product name (e.g., "jira", "confluence").
func NewAuthenticationManager(credentials map[string]*Credentials) *AuthenticationManager {
	return &AuthenticationManager{
		credentials: credentials,
	}
}

// NewAuthenticationManagerFromConfig creates an authentication manager
// from a configuration, extracting credentials for each configured product.
func NewAuthenticationManagerFromConfig(config *Config) *AuthenticationManager {
	credentials := make(map[string]*Credentials)

	if config.Tools.Jira != nil && config.Tools.Jira.Auth != nil {
		credentials["jira"] = credentialsFromAuthConfig(config.Tools.Jira.Auth)
	}

	if config.Tools.Confluence != nil && config.Tools.Confluence.Auth != nil {
		credentials["confluence"] = credentialsFromAuthConfig(config.Tools.Confluence.Auth)
	}

	return NewAuthenticationManager(credentials)
}

// credentialsFromAuthConfig converts an AuthConfig to Credentials.
func credentialsFromAuthConfig(authConfig *AuthConfig) *Credentials {
	return &Credentials{
		Type:     ParseAuthType(authConfig.Type),
		Email:    authConfig.Email,
		APIToken: authConfig.APIToken,
		Token:    authConfig.Token,
	}
}

// GetAuthenticatedClient returns an HTTP client with authentication headers configured.
// The client is pre-configured with the appropriate authentication method for the product.
// Returns an error if the product is not configured or credentials are invalid.
func (am *AuthenticationManager) GetAuthenticatedClient(product string) (*http.Client, error) {
	// Validate credentials first
	if err := am.ValidateCredentials(product); err != nil {
		return nil, err
	}

	// Get credentials for the product
	creds := am.credentials[product]

	// Create a custom transport that adds authentication headers
	transport := &authenticatedTransport{
		base:        http.DefaultTransport,
		credentials: creds,
	}

	// Return a client with the authenticated transport
	return &http.Client{
		Transport: transport,
	}, nil
}

// ValidateCredentials checks if credentials are properly configured for a product.
// Returns an error if the product is not configured or if credentials are missing/invalid.
func (am *AuthenticationManager) ValidateCredentials(product string) error {
	// Check if product is configured
	creds, ok := am.credentials[product]
	if !ok {
		return fmt.Errorf("no credentials configured for product: %s", product)
	}

	// Validate credentials based on auth type
	switch creds.Type {
	case BasicAuth:
		if creds.Email == "" {
			return fmt.Errorf("email is required for basic authentication: %s", product)
		}
		if creds.APIToken == "" {
			return fmt.Errorf("api token is required for basic authentication: %s", product)
		}
	case TokenAuth:
		if creds.Token == "" {
			return fmt.Errorf("token is required for token authentication: %s", product)
		}
	default:
		return fmt.Errorf("invalid authentication type for product: %s", product)
	}

	return nil
}

// authenticatedTransport is an http.RoundTripper that adds authentication headers.
type authenticatedTransport struct {
	base        http.RoundTripper
	credentials *Credentials
}

// RoundTrip implements http.RoundTripper by adding authentication headers to requests.
func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())

	// Add authentication headers based on credentials type
	switch t.credentials.Type {
	case BasicAuth:
		// Basic authentication: encode email:api_token in base64
		auth := t.credentials.Email + ":" + t.credentials.APIToken
		encodedAuth := base64.StdEncoding.EncodeToString([]byte(auth))
		clonedReq.Header.Set("Authorization", "Basic "+encodedAuth)
	case TokenAuth:
		// Token authentication: use Bearer token
		clonedReq.Header.Set("Authorization", "Bearer "+t.credentials.Token)
	}

	// Execute the request with the base transport
	return t.base.RoundTrip(clonedReq)
}
