package application

import (
	"context"
	"fmt"
	"net/url"

	"atlassian-cloud-mcp-server/internal/domain"
	"atlassian-cloud-mcp-server/internal/infrastructure"
)

// defaultJiraPageLimit is the page size used when a caller does not
// provide one.
const defaultJiraPageLimit = 50

// Tool name constants for Jira operations
const (
	ToolJiraListBoards        = "jira_list_boards"
	ToolJiraGetBoard          = "jira_get_board"
	ToolJiraListSprints       = "jira_list_sprints"
	ToolJiraGetSprint         = "jira_get_sprint"
	ToolJiraCreateSprint      = "jira_create_sprint"
	ToolJiraListBacklogIssues = "jira_list_backlog_issues"
	ToolJiraListBoardIssues   = "jira_list_board_issues"
	ToolJiraListSprintIssues  = "jira_list_sprint_issues"
	ToolJiraMoveIssues        = "jira_move_issues_to_sprint"
	ToolJiraSearch            = "jira_search"
	ToolJiraListComments      = "jira_list_comments"
	ToolJiraAddComment        = "jira_add_comment"
)

// Resource route names for Jira resources
const (
	resourceJiraBoards        = "jira_boards"
	resourceJiraBoard         = "jira_board"
	resourceJiraBoardSprints  = "jira_board_sprints"
	resourceJiraBoardBacklog  = "jira_board_backlog"
	resourceJiraBoardIssues   = "jira_board_issues"
	resourceJiraSprintIssues  = "jira_sprint_issues"
	resourceJiraIssueComments = "jira_issue_comments"
	resourceJiraSearch        = "jira_search"
)

// JiraHandler implements ToolHandler and ResourceHandler for Jira.
// Every tool and resource route is wrapped at registration time, so a
// dispatched call always produces a response envelope.
type JiraHandler struct {
	client    *infrastructure.JiraClient
	tools     []WrappedTool
	toolIndex map[string]int
	resources map[string]WrappedResource
}

// NewJiraHandler creates a new JiraHandler instance and registers its
// tools and resource routes.
func NewJiraHandler(client *infrastructure.JiraClient) *JiraHandler {
	h := &JiraHandler{
		client:    client,
		toolIndex: make(map[string]int),
		resources: make(map[string]WrappedResource),
	}
	h.registerTools()
	h.registerResources()
	return h
}

// ToolName returns the identifier for this handler.
func (h *JiraHandler) ToolName() string {
	return "jira"
}

// Scheme returns the resource URI scheme for this handler.
func (h *JiraHandler) Scheme() string {
	return "jira"
}

// Handle processes an MCP tool call request for Jira operations.
func (h *JiraHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	index, ok := h.toolIndex[req.Name]
	if !ok {
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown Jira tool: %s", req.Name),
		}
	}

	return h.tools[index].Run(ctx, req.Arguments), nil
}

// ListTools returns available tools for Jira operations.
func (h *JiraHandler) ListTools() []domain.ToolDefinition {
	definitions := make([]domain.ToolDefinition, 0, len(h.tools))
	for _, tool := range h.tools {
		definitions = append(definitions, tool.Definition)
	}
	return definitions
}

// ReadResource resolves a resources/read request for a jira:// URI.
func (h *JiraHandler) ReadResource(ctx context.Context, req *domain.ResourceRequest) (*domain.ResourceResponse, error) {
	parsed, err := url.Parse(req.URI)
	if err != nil || parsed.Scheme != h.Scheme() {
		return nil, &domain.Error{
			Code:    domain.ResourceNotFound,
			Message: fmt.Sprintf("unknown resource: %s", req.URI),
		}
	}

	route, ok := h.resolveRoute(resourceSegments(parsed))
	if !ok {
		return nil, &domain.Error{
			Code:    domain.ResourceNotFound,
			Message: fmt.Sprintf("unknown resource: %s", req.URI),
		}
	}

	resource := h.resources[route]
	return resource.Run(ctx, req.URI, parsed), nil
}

// resolveRoute maps resource URI segments to a registered route.
func (h *JiraHandler) resolveRoute(segments []string) (string, bool) {
	switch {
	case len(segments) == 1 && segments[0] == "boards":
		return resourceJiraBoards, true
	case len(segments) == 1 && segments[0] == "search":
		return resourceJiraSearch, true
	case len(segments) == 2 && segments[0] == "boards":
		return resourceJiraBoard, true
	case len(segments) == 3 && segments[0] == "boards" && segments[2] == "sprints":
		return resourceJiraBoardSprints, true
	case len(segments) == 3 && segments[0] == "boards" && segments[2] == "backlog":
		return resourceJiraBoardBacklog, true
	case len(segments) == 3 && segments[0] == "boards" && segments[2] == "issues":
		return resourceJiraBoardIssues, true
	case len(segments) == 3 && segments[0] == "sprints" && segments[2] == "issues":
		return resourceJiraSprintIssues, true
	case len(segments) == 3 && segments[0] == "issues" && segments[2] == "comments":
		return resourceJiraIssueComments, true
	default:
		return "", false
	}
}

// ListResources returns the resource catalog for Jira.
func (h *JiraHandler) ListResources() []domain.ResourceDefinition {
	return []domain.ResourceDefinition{
		{
			URI:         "jira://boards",
			Name:        "Jira boards",
			Description: "Boards visible to the authenticated user; filter with type, name and projectKeyOrId query parameters",
			MimeType:    "application/json",
		},
		{
			URI:         "jira://boards/{boardId}",
			Name:        "Jira board",
			Description: "A single board by its ID",
			MimeType:    "application/json",
		},
		{
			URI:         "jira://boards/{boardId}/sprints",
			Name:        "Board sprints",
			Description: "Sprints of a board; filter with the state query parameter",
			MimeType:    "application/json",
		},
		{
			URI:         "jira://boards/{boardId}/backlog",
			Name:        "Board backlog",
			Description: "Backlog issues of a board, i.e. issues in no sprint",
			MimeType:    "application/json",
		},
		{
			URI:         "jira://boards/{boardId}/issues",
			Name:        "Board issues",
			Description: "All issues visible on a board",
			MimeType:    "application/json",
		},
		{
			URI:         "jira://sprints/{sprintId}/issues",
			Name:        "Sprint issues",
			Description: "Issues assigned to a sprint",
			MimeType:    "application/json",
		},
		{
			URI:         "jira://issues/{issueKey}/comments",
			Name:        "Issue comments",
			Description: "Comments of an issue",
			MimeType:    "application/json",
		},
		{
			URI:         "jira://search?jql={jql}",
			Name:        "JQL search",
			Description: "Issues matching a JQL query",
			MimeType:    "application/json",
		},
	}
}

// registerResources wires the jira:// routes to their read functions.
func (h *JiraHandler) registerResources() {
	routes := map[string]ResourceFunc{
		resourceJiraBoards:        h.readBoards,
		resourceJiraBoard:         h.readBoard,
		resourceJiraBoardSprints:  h.readBoardSprints,
		resourceJiraBoardBacklog:  h.readBoardBacklog,
		resourceJiraBoardIssues:   h.readBoardIssues,
		resourceJiraSprintIssues:  h.readSprintIssues,
		resourceJiraIssueComments: h.readIssueComments,
		resourceJiraSearch:        h.readSearch,
	}
	for name, fn := range routes {
		h.resources[name] = WrapResource(name, fn)
	}
}

// registerTool wraps a tool and adds it to the dispatch table.
func (h *JiraHandler) registerTool(def domain.ToolDefinition, fn ToolFunc) {
	h.toolIndex[def.Name] = len(h.tools)
	h.tools = append(h.tools, WrapTool(def, fn))
}

// registerTools declares every Jira tool with its input schema.
func (h *JiraHandler) registerTools() {
	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraListBoards,
		Description: "List the agile boards visible to the authenticated user",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Filter by board type: scrum, kanban or simple (optional)",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Filter boards whose name contains this text (optional)",
				},
				"projectKeyOrId": map[string]interface{}{
					"type":        "string",
					"description": "Filter boards belonging to this project (optional)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of boards to return (optional)",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the first board to return (0-based, optional)",
				},
			},
		},
	}, h.listBoards)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraGetBoard,
		Description: "Retrieve a single agile board by its ID",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"boardId": map[string]interface{}{
					"type":        "string",
					"description": "The board ID",
				},
			},
			Required: []string{"boardId"},
		},
	}, h.getBoard)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraListSprints,
		Description: "List the sprints of a board",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"boardId": map[string]interface{}{
					"type":        "string",
					"description": "The board ID",
				},
				"state": map[string]interface{}{
					"type":        "string",
					"description": "Filter by sprint state: future, active or closed; comma-separated for several (optional)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of sprints to return (optional)",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the first sprint to return (0-based, optional)",
				},
			},
			Required: []string{"boardId"},
		},
	}, h.listSprints)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraGetSprint,
		Description: "Retrieve a single sprint by its ID",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sprintId": map[string]interface{}{
					"type":        "string",
					"description": "The sprint ID",
				},
			},
			Required: []string{"sprintId"},
		},
	}, h.getSprint)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraCreateSprint,
		Description: "Create a new sprint on a scrum board",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "The sprint name",
				},
				"originBoardId": map[string]interface{}{
					"type":        "integer",
					"description": "The ID of the board the sprint belongs to",
				},
				"startDate": map[string]interface{}{
					"type":        "string",
					"description": "The planned start date, ISO 8601 (optional)",
				},
				"endDate": map[string]interface{}{
					"type":        "string",
					"description": "The planned end date, ISO 8601 (optional)",
				},
				"goal": map[string]interface{}{
					"type":        "string",
					"description": "The sprint goal (optional)",
				},
			},
			Required: []string{"name", "originBoardId"},
		},
	}, h.createSprint)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraListBacklogIssues,
		Description: "List the backlog issues of a board (issues in no sprint)",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"boardId": map[string]interface{}{
					"type":        "string",
					"description": "The board ID",
				},
				"jql": map[string]interface{}{
					"type":        "string",
					"description": "JQL filter applied on top of the backlog (optional)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of issues to return (optional)",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the first issue to return (0-based, optional)",
				},
			},
			Required: []string{"boardId"},
		},
	}, h.listBacklogIssues)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraListBoardIssues,
		Description: "List all issues visible on a board",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"boardId": map[string]interface{}{
					"type":        "string",
					"description": "The board ID",
				},
				"jql": map[string]interface{}{
					"type":        "string",
					"description": "JQL filter applied on top of the board issues (optional)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of issues to return (optional)",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the first issue to return (0-based, optional)",
				},
			},
			Required: []string{"boardId"},
		},
	}, h.listBoardIssues)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraListSprintIssues,
		Description: "List the issues assigned to a sprint",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sprintId": map[string]interface{}{
					"type":        "string",
					"description": "The sprint ID",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of issues to return (optional)",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the first issue to return (0-based, optional)",
				},
			},
			Required: []string{"sprintId"},
		},
	}, h.listSprintIssues)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraMoveIssues,
		Description: "Move issues to a sprint, removing them from their previous sprint or backlog",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sprintId": map[string]interface{}{
					"type":        "string",
					"description": "The target sprint ID",
				},
				"issueKeys": map[string]interface{}{
					"type":        "array",
					"description": "The keys of the issues to move (e.g., PROJ-123)",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"sprintId", "issueKeys"},
		},
	}, h.moveIssuesToSprint)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraSearch,
		Description: "Search for issues using JQL (Jira Query Language)",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"jql": map[string]interface{}{
					"type":        "string",
					"description": "The JQL query string",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of issues to return (optional)",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the first issue to return (0-based, optional)",
				},
			},
			Required: []string{"jql"},
		},
	}, h.searchIssues)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraListComments,
		Description: "List the comments of an issue",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"issueKey": map[string]interface{}{
					"type":        "string",
					"description": "The issue key (e.g., PROJ-123)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of comments to return (optional)",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the first comment to return (0-based, optional)",
				},
			},
			Required: []string{"issueKey"},
		},
	}, h.listComments)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolJiraAddComment,
		Description: "Add a comment to an issue",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"issueKey": map[string]interface{}{
					"type":        "string",
					"description": "The issue key (e.g., PROJ-123)",
				},
				"body": map[string]interface{}{
					"type":        "string",
					"description": "The comment text",
				},
			},
			Required: []string{"issueKey", "body"},
		},
	}, h.addComment)
}

// listBoards handles the jira_list_boards tool call.
func (h *JiraHandler) listBoards(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	boardType, err := getStringParam(args, "type", false)
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(args, "name", false)
	if err != nil {
		return nil, err
	}
	projectKeyOrID, err := getStringParam(args, "projectKeyOrId", false)
	if err != nil {
		return nil, err
	}

	page := domain.ExtractPageParams(args, defaultJiraPageLimit, 0)
	return h.boardsData(boardType, name, projectKeyOrID, page)
}

// getBoard handles the jira_get_board tool call.
func (h *JiraHandler) getBoard(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	boardID, err := getIDParam(args, "boardId", true)
	if err != nil {
		return nil, err
	}
	return h.client.GetBoard(boardID)
}

// listSprints handles the jira_list_sprints tool call.
func (h *JiraHandler) listSprints(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	boardID, err := getIDParam(args, "boardId", true)
	if err != nil {
		return nil, err
	}
	state, err := getStringParam(args, "state", false)
	if err != nil {
		return nil, err
	}

	page := domain.ExtractPageParams(args, defaultJiraPageLimit, 0)
	return h.sprintsData(boardID, state, page)
}

// getSprint handles the jira_get_sprint tool call.
func (h *JiraHandler) getSprint(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	sprintID, err := getIDParam(args, "sprintId", true)
	if err != nil {
		return nil, err
	}
	return h.client.GetSprint(sprintID)
}

// createSprint handles the jira_create_sprint tool call.
func (h *JiraHandler) createSprint(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}
	originBoardID, err := getIntParam(args, "originBoardId", true)
	if err != nil {
		return nil, err
	}
	startDate, err := getStringParam(args, "startDate", false)
	if err != nil {
		return nil, err
	}
	endDate, err := getStringParam(args, "endDate", false)
	if err != nil {
		return nil, err
	}
	goal, err := getStringParam(args, "goal", false)
	if err != nil {
		return nil, err
	}

	return h.client.CreateSprint(&domain.SprintCreate{
		Name:          name,
		OriginBoardID: originBoardID,
		StartDate:     startDate,
		EndDate:       endDate,
		Goal:          goal,
	})
}

// listBacklogIssues handles the jira_list_backlog_issues tool call.
func (h *JiraHandler) listBacklogIssues(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	boardID, err := getIDParam(args, "boardId", true)
	if err != nil {
		return nil, err
	}
	jql, err := getStringParam(args, "jql", false)
	if err != nil {
		return nil, err
	}

	page := domain.ExtractPageParams(args, defaultJiraPageLimit, 0)
	return h.backlogData(boardID, jql, page)
}

// listBoardIssues handles the jira_list_board_issues tool call.
func (h *JiraHandler) listBoardIssues(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	boardID, err := getIDParam(args, "boardId", true)
	if err != nil {
		return nil, err
	}
	jql, err := getStringParam(args, "jql", false)
	if err != nil {
		return nil, err
	}

	page := domain.ExtractPageParams(args, defaultJiraPageLimit, 0)
	return h.boardIssuesData(boardID, jql, page)
}

// listSprintIssues handles the jira_list_sprint_issues tool call.
func (h *JiraHandler) listSprintIssues(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	sprintID, err := getIDParam(args, "sprintId", true)
	if err != nil {
		return nil, err
	}

	page := domain.ExtractPageParams(args, defaultJiraPageLimit, 0)
	return h.sprintIssuesData(sprintID, page)
}

// moveIssuesToSprint handles the jira_move_issues_to_sprint tool call.
func (h *JiraHandler) moveIssuesToSprint(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	sprintID, err := getIDParam(args, "sprintId", true)
	if err != nil {
		return nil, err
	}
	issueKeys, err := getStringSliceParam(args, "issueKeys", true)
	if err != nil {
		return nil, err
	}

	if err := h.client.MoveIssuesToSprint(sprintID, issueKeys); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"sprintId": sprintID,
		"issues":   issueKeys,
	}, nil
}

// searchIssues handles the jira_search tool call.
func (h *JiraHandler) searchIssues(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	jql, err := getStringParam(args, "jql", true)
	if err != nil {
		return nil, err
	}

	page := domain.ExtractPageParams(args, defaultJiraPageLimit, 0)
	return h.searchData(jql, page)
}

// listComments handles the jira_list_comments tool call.
func (h *JiraHandler) listComments(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	issueKey, err := getStringParam(args, "issueKey", true)
	if err != nil {
		return nil, err
	}

	page := domain.ExtractPageParams(args, defaultJiraPageLimit, 0)
	return h.commentsData(issueKey, page)
}

// addComment handles the jira_add_comment tool call.
func (h *JiraHandler) addComment(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	issueKey, err := getStringParam(args, "issueKey", true)
	if err != nil {
		return nil, err
	}
	body, err := getStringParam(args, "body", true)
	if err != nil {
		return nil, err
	}

	return h.client.AddComment(issueKey, body)
}

// readBoards resolves the jira://boards resource.
func (h *JiraHandler) readBoards(ctx context.Context, uri *url.URL) (interface{}, error) {
	query := uri.Query()
	page := domain.PageParamsFromQuery(query, defaultJiraPageLimit, 0)
	return h.boardsData(query.Get("type"), query.Get("name"), query.Get("projectKeyOrId"), page)
}

// readBoard resolves the jira://boards/{boardId} resource.
func (h *JiraHandler) readBoard(ctx context.Context, uri *url.URL) (interface{}, error) {
	segments := resourceSegments(uri)
	return h.client.GetBoard(segments[1])
}

// readBoardSprints resolves the jira://boards/{boardId}/sprints resource.
func (h *JiraHandler) readBoardSprints(ctx context.Context, uri *url.URL) (interface{}, error) {
	segments := resourceSegments(uri)
	query := uri.Query()
	page := domain.PageParamsFromQuery(query, defaultJiraPageLimit, 0)
	return h.sprintsData(segments[1], query.Get("state"), page)
}

// readBoardBacklog resolves the jira://boards/{boardId}/backlog resource.
func (h *JiraHandler) readBoardBacklog(ctx context.Context, uri *url.URL) (interface{}, error) {
	segments := resourceSegments(uri)
	query := uri.Query()
	page := domain.PageParamsFromQuery(query, defaultJiraPageLimit, 0)
	return h.backlogData(segments[1], query.Get("jql"), page)
}

// readBoardIssues resolves the jira://boards/{boardId}/issues resource.
func (h *JiraHandler) readBoardIssues(ctx context.Context, uri *url.URL) (interface{}, error) {
	segments := resourceSegments(uri)
	query := uri.Query()
	page := domain.PageParamsFromQuery(query, defaultJiraPageLimit, 0)
	return h.boardIssuesData(segments[1], query.Get("jql"), page)
}

// readSprintIssues resolves the jira://sprints/{sprintId}/issues resource.
func (h *JiraHandler) readSprintIssues(ctx context.Context, uri *url.URL) (interface{}, error) {
	segments := resourceSegments(uri)
	page := domain.PageParamsFromQuery(uri.Query(), defaultJiraPageLimit, 0)
	return h.sprintIssuesData(segments[1], page)
}

// readIssueComments resolves the jira://issues/{issueKey}/comments resource.
func (h *JiraHandler) readIssueComments(ctx context.Context, uri *url.URL) (interface{}, error) {
	segments := resourceSegments(uri)
	page := domain.PageParamsFromQuery(uri.Query(), defaultJiraPageLimit, 0)
	return h.commentsData(segments[1], page)
}

// readSearch resolves the jira://search resource.
func (h *JiraHandler) readSearch(ctx context.Context, uri *url.URL) (interface{}, error) {
	query := uri.Query()
	jql := query.Get("jql")
	if jql == "" {
		return nil, domain.NewAPIError(domain.ErrorKindValidation, "missing required parameter: jql")
	}

	page := domain.PageParamsFromQuery(query, defaultJiraPageLimit, 0)
	return h.searchData(jql, page)
}

// boardsData fetches a board listing and assembles it with metadata.
func (h *JiraHandler) boardsData(boardType, name, projectKeyOrID string, page domain.PageParams) (interface{}, error) {
	boards, err := h.client.ListBoards(&infrastructure.BoardOptions{
		Type:           boardType,
		Name:           name,
		ProjectKeyOrID: projectKeyOrID,
		StartAt:        page.Offset,
		MaxResults:     page.Limit,
	})
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if boardType != "" {
		query.Set("type", boardType)
	}
	if name != "" {
		query.Set("name", name)
	}
	if projectKeyOrID != "" {
		query.Set("projectKeyOrId", projectKeyOrID)
	}
	setListQuery(query, page)

	return map[string]interface{}{
		"boards":   boards.Values,
		"metadata": domain.BuildListMetadata(boards.Total, page.Limit, page.Offset, listURI("jira", "boards", query), ""),
	}, nil
}

// sprintsData fetches a sprint listing and assembles it with metadata.
func (h *JiraHandler) sprintsData(boardID, state string, page domain.PageParams) (interface{}, error) {
	sprints, err := h.client.ListSprints(boardID, &infrastructure.SprintOptions{
		State:      state,
		StartAt:    page.Offset,
		MaxResults: page.Limit,
	})
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if state != "" {
		query.Set("state", state)
	}
	setListQuery(query, page)

	total := agileTotal(sprints.Total, sprints.StartAt, len(sprints.Values), sprints.IsLast)
	return map[string]interface{}{
		"sprints":  sprints.Values,
		"metadata": domain.BuildListMetadata(total, page.Limit, page.Offset, listURI("jira", "boards/"+boardID+"/sprints", query), ""),
	}, nil
}

// backlogData fetches a backlog listing and assembles it with metadata.
func (h *JiraHandler) backlogData(boardID, jql string, page domain.PageParams) (interface{}, error) {
	issues, err := h.client.ListBacklogIssues(boardID, &infrastructure.IssueOptions{
		JQL:        jql,
		StartAt:    page.Offset,
		MaxResults: page.Limit,
	})
	if err != nil {
		return nil, err
	}
	return h.issueListData(issues, jql, "boards/"+boardID+"/backlog", page), nil
}

// boardIssuesData fetches a board issue listing and assembles it with
// metadata.
func (h *JiraHandler) boardIssuesData(boardID, jql string, page domain.PageParams) (interface{}, error) {
	issues, err := h.client.ListBoardIssues(boardID, &infrastructure.IssueOptions{
		JQL:        jql,
		StartAt:    page.Offset,
		MaxResults: page.Limit,
	})
	if err != nil {
		return nil, err
	}
	return h.issueListData(issues, jql, "boards/"+boardID+"/issues", page), nil
}

// sprintIssuesData fetches a sprint issue listing and assembles it with
// metadata.
func (h *JiraHandler) sprintIssuesData(sprintID string, page domain.PageParams) (interface{}, error) {
	issues, err := h.client.ListSprintIssues(sprintID, &infrastructure.IssueOptions{
		StartAt:    page.Offset,
		MaxResults: page.Limit,
	})
	if err != nil {
		return nil, err
	}
	return h.issueListData(issues, "", "sprints/"+sprintID+"/issues", page), nil
}

// searchData performs a JQL search and assembles it with metadata.
func (h *JiraHandler) searchData(jql string, page domain.PageParams) (interface{}, error) {
	results, err := h.client.SearchIssues(jql, &infrastructure.SearchOptions{
		StartAt:    page.Offset,
		MaxResults: page.Limit,
	})
	if err != nil {
		return nil, err
	}
	return h.issueListData(results, jql, "search", page), nil
}

// issueListData assembles an issue page with its listing metadata.
func (h *JiraHandler) issueListData(issues *domain.IssueList, jql, path string, page domain.PageParams) map[string]interface{} {
	query := url.Values{}
	if jql != "" {
		query.Set("jql", jql)
	}
	setListQuery(query, page)

	return map[string]interface{}{
		"issues":   issues.Issues,
		"metadata": domain.BuildListMetadata(issues.Total, page.Limit, page.Offset, listURI("jira", path, query), ""),
	}
}

// commentsData fetches an issue comment listing and assembles it with
// metadata.
func (h *JiraHandler) commentsData(issueKey string, page domain.PageParams) (interface{}, error) {
	comments, err := h.client.ListComments(issueKey, &infrastructure.CommentOptions{
		StartAt:    page.Offset,
		MaxResults: page.Limit,
	})
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	setListQuery(query, page)

	return map[string]interface{}{
		"comments": comments.Comments,
		"metadata": domain.BuildListMetadata(comments.Total, page.Limit, page.Offset, listURI("jira", "issues/"+issueKey+"/comments", query), ""),
	}, nil
}
