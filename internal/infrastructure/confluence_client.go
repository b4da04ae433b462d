package infrastructure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"atlassian-cloud-mcp-server/internal/domain"
)

// ConfluenceClient handles Confluence Cloud API interactions.
// It implements the AtlassianClient interface and provides methods for
// all page, comment, space and search operations required by the MCP
// server.
type ConfluenceClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewConfluenceClient creates a new Confluence API client.
// The baseURL should be the root URL of the wiki (e.g., "https://your-site.atlassian.net/wiki").
// The httpClient should be an authenticated client from the AuthenticationManager.
func NewConfluenceClient(baseURL string, httpClient *http.Client) *ConfluenceClient {
	return &ConfluenceClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured base URL for the wiki.
func (c *ConfluenceClient) BaseURL() string {
	return c.baseURL
}

// Do executes an HTTP request with authentication.
// This method is part of the AtlassianClient interface.
func (c *ConfluenceClient) Do(req *http.Request) (*http.Response, error) {
	// Set common headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// Execute the request using the authenticated HTTP client
	return c.httpClient.Do(req)
}

// ListOptions contains pagination options for Confluence listings.
type ListOptions struct {
	Start int
	Limit int
}

// GetPage retrieves a Confluence page by its ID, expanded with body,
// version and space details.
func (c *ConfluenceClient) GetPage(pageID string) (*domain.ConfluencePage, error) {
	endpoint := fmt.Sprintf("%s/rest/api/content/%s", c.baseURL, pageID)

	params := url.Values{}
	params.Set("expand", "body.storage,version,space")
	endpoint = endpoint + "?" + params.Encode()

	var page domain.ConfluencePage
	if err := c.get(endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePage creates a new Confluence page.
// Returns the created page with its assigned ID.
func (c *ConfluenceClient) CreatePage(page *domain.ContentCreate) (*domain.ConfluencePage, error) {
	endpoint := fmt.Sprintf("%s/rest/api/content", c.baseURL)

	var created domain.ConfluencePage
	if err := c.post(endpoint, page, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePage updates an existing Confluence page. The update must carry
// the next version number or the API rejects it with a conflict.
// Returns the updated page.
func (c *ConfluenceClient) UpdatePage(pageID string, update *domain.PageUpdate) (*domain.ConfluencePage, error) {
	endpoint := fmt.Sprintf("%s/rest/api/content/%s", c.baseURL, pageID)

	body, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest("PUT", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var updated domain.ConfluencePage
	if err := decodeBody(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePage deletes a Confluence page.
func (c *ConfluenceClient) DeletePage(pageID string) error {
	endpoint := fmt.Sprintf("%s/rest/api/content/%s", c.baseURL, pageID)

	req, err := http.NewRequest("DELETE", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

// ListPages retrieves the pages of a space.
func (c *ConfluenceClient) ListPages(spaceKey string, options *ListOptions) (*domain.PageList, error) {
	endpoint := fmt.Sprintf("%s/rest/api/content", c.baseURL)

	params := url.Values{}
	params.Set("type", "page")
	if spaceKey != "" {
		params.Set("spaceKey", spaceKey)
	}
	params.Set("expand", "version,space")
	setContentPageParams(params, options)
	endpoint = endpoint + "?" + params.Encode()

	var pages domain.PageList
	if err := c.get(endpoint, &pages); err != nil {
		return nil, err
	}
	return &pages, nil
}

// ListComments retrieves the comments attached to a page.
func (c *ConfluenceClient) ListComments(pageID string, options *ListOptions) (*domain.PageList, error) {
	endpoint := fmt.Sprintf("%s/rest/api/content/%s/child/comment", c.baseURL, pageID)

	params := url.Values{}
	params.Set("expand", "body.storage,version")
	setContentPageParams(params, options)
	endpoint = endpoint + "?" + params.Encode()

	var comments domain.PageList
	if err := c.get(endpoint, &comments); err != nil {
		return nil, err
	}
	return &comments, nil
}

// AddComment adds a comment to a page. Comments are content entities
// attached to their page through a container reference.
// Returns the created comment.
func (c *ConfluenceClient) AddComment(pageID string, body string) (*domain.ConfluencePage, error) {
	endpoint := fmt.Sprintf("%s/rest/api/content", c.baseURL)

	comment := &domain.ContentCreate{
		Type:      "comment",
		Container: &domain.ContainerRef{ID: pageID, Type: "page"},
		Body: domain.BodyCreate{
			Storage: domain.StorageCreate{
				Value:          body,
				Representation: "storage",
			},
		},
	}

	var created domain.ConfluencePage
	if err := c.post(endpoint, comment, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Search performs a CQL (Confluence Query Language) search.
// Returns search results including the grand total via totalSize.
func (c *ConfluenceClient) Search(cql string, options *ListOptions) (*domain.SearchResults, error) {
	endpoint := fmt.Sprintf("%s/rest/api/search", c.baseURL)

	params := url.Values{}
	params.Set("cql", cql)
	setContentPageParams(params, options)
	endpoint = endpoint + "?" + params.Encode()

	var results domain.SearchResults
	if err := c.get(endpoint, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// ListSpaces retrieves the spaces visible to the authenticated user.
func (c *ConfluenceClient) ListSpaces(options *ListOptions) (*domain.SpaceList, error) {
	endpoint := fmt.Sprintf("%s/rest/api/space", c.baseURL)

	params := url.Values{}
	setContentPageParams(params, options)
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var spaces domain.SpaceList
	if err := c.get(endpoint, &spaces); err != nil {
		return nil, err
	}
	return &spaces, nil
}

// get executes a GET request and decodes the response into out.
func (c *ConfluenceClient) get(endpoint string, out interface{}) error {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// post executes a POST request with a JSON body and decodes the response
// into out.
func (c *ConfluenceClient) post(endpoint string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest("POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	return decodeBody(resp, out)
}

// setContentPageParams applies Confluence pagination parameters.
func setContentPageParams(params url.Values, options *ListOptions) {
	if options == nil {
		return
	}
	if options.Start > 0 {
		params.Set("start", strconv.Itoa(options.Start))
	}
	if options.Limit > 0 {
		params.Set("limit", strconv.Itoa(options.Limit))
	}
}
