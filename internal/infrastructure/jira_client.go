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

// JiraClient handles Jira Cloud agile API interactions.
// It implements the AtlassianClient interface and provides methods for
// all board, sprint, backlog, search and comment operations required by
// the MCP server.
type JiraClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewJiraClient creates a new Jira API client.
// The baseURL should be the root URL of the Jira site (e.g., "https://your-site.atlassian.net").
// The httpClient should be an authenticated client from the AuthenticationManager.
func NewJiraClient(baseURL string, httpClient *http.Client) *JiraClient {
	return &JiraClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured base URL for the Jira site.
func (c *JiraClient) BaseURL() string {
	return c.baseURL
}

// Do executes an HTTP request with authentication.
// This method is part of the AtlassianClient interface.
func (c *JiraClient) Do(req *http.Request) (*http.Response, error) {
	// Set common headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// Execute the request using the authenticated HTTP client
	return c.httpClient.Do(req)
}

// BoardOptions contains filters for board listings.
type BoardOptions struct {
	Type           string // "scrum", "kanban" or "simple"
	Name           string // Boards matching this name substring
	ProjectKeyOrID string // Boards belonging to this project
	StartAt        int
	MaxResults     int
}

// ListBoards retrieves the boards visible to the authenticated user.
func (c *JiraClient) ListBoards(options *BoardOptions) (*domain.BoardList, error) {
	endpoint := fmt.Sprintf("%s/rest/agile/1.0/board", c.baseURL)

	params := url.Values{}
	if options != nil {
		if options.Type != "" {
			params.Set("type", options.Type)
		}
		if options.Name != "" {
			params.Set("name", options.Name)
		}
		if options.ProjectKeyOrID != "" {
			params.Set("projectKeyOrId", options.ProjectKeyOrID)
		}
		setPageParams(params, options.StartAt, options.MaxResults)
	}
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var boards domain.BoardList
	if err := c.get(endpoint, &boards); err != nil {
		return nil, err
	}
	return &boards, nil
}

// GetBoard retrieves a single board by its ID.
func (c *JiraClient) GetBoard(boardID string) (*domain.Board, error) {
	endpoint := fmt.Sprintf("%s/rest/agile/1.0/board/%s", c.baseURL, boardID)

	var board domain.Board
	if err := c.get(endpoint, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// SprintOptions contains filters for sprint listings.
type SprintOptions struct {
	State      string // Comma-separated sprint states: "future", "active", "closed"
	StartAt    int
	MaxResults int
}

// ListSprints retrieves the sprints of a board.
func (c *JiraClient) ListSprints(boardID string, options *SprintOptions) (*domain.SprintList, error) {
	endpoint := fmt.Sprintf("%s/rest/agile/1.0/board/%s/sprint", c.baseURL, boardID)

	params := url.Values{}
	if options != nil {
		if options.State != "" {
			params.Set("state", options.State)
		}
		setPageParams(params, options.StartAt, options.MaxResults)
	}
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var sprints domain.SprintList
	if err := c.get(endpoint, &sprints); err != nil {
		return nil, err
	}
	return &sprints, nil
}

// GetSprint retrieves a single sprint by its ID.
func (c *JiraClient) GetSprint(sprintID string) (*domain.Sprint, error) {
	endpoint := fmt.Sprintf("%s/rest/agile/1.0/sprint/%s", c.baseURL, sprintID)

	var sprint domain.Sprint
	if err := c.get(endpoint, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// CreateSprint creates a new sprint on the origin board.
// Returns the created sprint with its assigned ID.
func (c *JiraClient) CreateSprint(sprint *domain.SprintCreate) (*domain.Sprint, error) {
	endpoint := fmt.Sprintf("%s/rest/agile/1.0/sprint", c.baseURL)

	var created domain.Sprint
	if err := c.post(endpoint, sprint, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// IssueOptions contains filters for board, backlog and sprint issue listings.
type IssueOptions struct {
	JQL        string // Optional JQL filter applied on top of the listing
	StartAt    int
	MaxResults int
}

// ListBacklogIssues retrieves the backlog issues of a board, i.e. issues
// not assigned to any sprint.
func (c *JiraClient) ListBacklogIssues(boardID string, options *IssueOptions) (*domain.IssueList, error) {
	endpoint := fmt.Sprintf("%s/rest/agile/1.0/board/%s/backlog", c.baseURL, boardID)
	return c.listIssues(endpoint, options)
}

// ListBoardIssues retrieves all issues visible on a board.
func (c *JiraClient) ListBoardIssues(boardID string, options *IssueOptions) (*domain.IssueList, error) {
	endpoint := fmt.Sprintf("%s/rest/agile/1.0/board/%s/issue", c.baseURL, boardID)
	return c.listIssues(endpoint, options)
}

// ListSprintIssues retrieves the issues assigned to a sprint.
func (c *JiraClient) ListSprintIssues(sprintID string, options *IssueOptions) (*domain.IssueList, error) {
	endpoint := fmt.Sprintf("%s/rest/agile/1.0/sprint/%s/issue", c.baseURL, sprintID)
	return c.listIssues(endpoint, options)
}

// listIssues performs a GET against an agile issue listing endpoint.
func (c *JiraClient) listIssues(endpoint string, options *IssueOptions) (*domain.IssueList, error) {
	params := url.Values{}
	if options != nil {
		if options.JQL != "" {
			params.Set("jql", options.JQL)
		}
		setPageParams(params, options.StartAt, options.MaxResults)
	}
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var issues domain.IssueList
	if err := c.get(endpoint, &issues); err != nil {
		return nil, err
	}
	return &issues, nil
}

// MoveIssuesToSprint assigns issues to a sprint. Issues are identified by
// key (e.g., "PROJ-123") or ID and are removed from their previous sprint
// or backlog.
func (c *JiraClient) MoveIssuesToSprint(sprintID string, issueKeys []string) error {
	endpoint := fmt.Sprintf("%s/rest/agile/1.0/sprint/%s/issue", c.baseURL, sprintID)

	move := &domain.IssueMove{Issues: issueKeys}
	return c.post(endpoint, move, nil)
}

// SearchOptions contains options for JQL search operations.
type SearchOptions struct {
	StartAt    int
	MaxResults int
	Fields     []string // The fields to include in the response (optional)
}

// SearchIssues performs a JQL (Jira Query Language) search.
// Returns search results including issues and pagination metadata.
func (c *JiraClient) SearchIssues(jql string, options *SearchOptions) (*domain.IssueList, error) {
	endpoint := fmt.Sprintf("%s/rest/api/2/search", c.baseURL)

	params := url.Values{}
	params.Set("jql", jql)
	if options != nil {
		setPageParams(params, options.StartAt, options.MaxResults)
		for _, field := range options.Fields {
			params.Add("fields", field)
		}
	}
	endpoint = endpoint + "?" + params.Encode()

	var results domain.IssueList
	if err := c.get(endpoint, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// CommentOptions contains options for comment listings.
type CommentOptions struct {
	StartAt    int
	MaxResults int
}

// ListComments retrieves the comments of an issue.
func (c *JiraClient) ListComments(issueKey string, options *CommentOptions) (*domain.CommentList, error) {
	endpoint := fmt.Sprintf("%s/rest/api/2/issue/%s/comment", c.baseURL, issueKey)

	params := url.Values{}
	if options != nil {
		setPageParams(params, options.StartAt, options.MaxResults)
	}
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var comments domain.CommentList
	if err := c.get(endpoint, &comments); err != nil {
		return nil, err
	}
	return &comments, nil
}

// AddComment adds a comment to an issue.
// Returns the created comment with its assigned ID.
func (c *JiraClient) AddComment(issueKey string, body string) (*domain.Comment, error) {
	endpoint := fmt.Sprintf("%s/rest/api/2/issue/%s/comment", c.baseURL, issueKey)

	comment := &domain.CommentCreate{Body: body}
	var created domain.Comment
	if err := c.post(endpoint, comment, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// get executes a GET request and decodes the response into out.
func (c *JiraClient) get(endpoint string, out interface{}) error {
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
// into out when out is non-nil.
func (c *JiraClient) post(endpoint string, payload interface{}, out interface{}) error {
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
	if out == nil {
		return nil
	}
	return decodeBody(resp, out)
}

// setPageParams applies agile API pagination parameters.
func setPageParams(params url.Values, startAt, maxResults int) {
	if startAt > 0 {
		params.Set("startAt", strconv.Itoa(startAt))
	}
	if maxResults > 0 {
		params.Set("maxResults", strconv.Itoa(maxResults))
	}
}
