package application

import (
	"context"
	"fmt"
	"net/url"

	"atlassian-cloud-mcp-server/internal/domain"
	"atlassian-cloud-mcp-server/internal/infrastructure"
)

// defaultConfluencePageLimit is the page size used when a caller does
// not provide one.
const defaultConfluencePageLimit = 25

// Tool name constants for Confluence operations
const (
	ToolConfluenceGetPage      = "confluence_get_page"
	ToolConfluenceCreatePage   = "confluence_create_page"
	ToolConfluenceUpdatePage   = "confluence_update_page"
	ToolConfluenceDeletePage   = "confluence_delete_page"
	ToolConfluenceListPages    = "confluence_list_pages"
	ToolConfluenceSearch       = "confluence_search"
	ToolConfluenceListComments = "confluence_list_comments"
	ToolConfluenceAddComment   = "confluence_add_comment"
	ToolConfluenceListSpaces   = "confluence_list_spaces"
)

// Resource route names for Confluence resources
const (
	resourceConfluencePages        = "confluence_pages"
	resourceConfluencePage         = "confluence_page"
	resourceConfluencePageComments = "confluence_page_comments"
	resourceConfluenceSearch       = "confluence_search"
	resourceConfluenceSpaces       = "confluence_spaces"
)

// ConfluenceHandler implements ToolHandler and ResourceHandler for
// Confluence. Every tool and resource route is wrapped at registration
// time, so a dispatched call always produces a response envelope.
type ConfluenceHandler struct {
	client    *infrastructure.ConfluenceClient
	tools     []WrappedTool
	toolIndex map[string]int
	resources map[string]WrappedResource
}

// NewConfluenceHandler creates a new ConfluenceHandler instance and
// registers its tools and resource routes.
func NewConfluenceHandler(client *infrastructure.ConfluenceClient) *ConfluenceHandler {
	h := &ConfluenceHandler{
		client:    client,
		toolIndex: make(map[string]int),
		resources: make(map[string]WrappedResource),
	}
	h.registerTools()
	h.registerResources()
	return h
}

// ToolName returns the identifier for this handler.
func (h *ConfluenceHandler) ToolName() string {
	return "confluence"
}

// Scheme returns the resource URI scheme for this handler.
func (h *ConfluenceHandler) Scheme() string {
	return "confluence"
}

// Handle processes an MCP tool call request for Confluence operations.
func (h *ConfluenceHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	index, ok := h.toolIndex[req.Name]
	if !ok {
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown Confluence tool: %s", req.Name),
		}
	}

	return h.tools[index].Run(ctx, req.Arguments), nil
}

// ListTools returns available tools for Confluence operations.
func (h *ConfluenceHandler) ListTools() []domain.ToolDefinition {
	definitions := make([]domain.ToolDefinition, 0, len(h.tools))
	for _, tool := range h.tools {
		definitions = append(definitions, tool.Definition)
	}
	return definitions
}

// ReadResource resolves a resources/read request for a confluence:// URI.
func (h *ConfluenceHandler) ReadResource(ctx context.Context, req *domain.ResourceRequest) (*domain.ResourceResponse, error) {
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
func (h *ConfluenceHandler) resolveRoute(segments []string) (string, bool) {
	switch {
	case len(segments) == 1 && segments[0] == "pages":
		return resourceConfluencePages, true
	case len(segments) == 1 && segments[0] == "search":
		return resourceConfluenceSearch, true
	case len(segments) == 1 && segments[0] == "spaces":
		return resourceConfluenceSpaces, true
	case len(segments) == 2 && segments[0] == "pages":
		return resourceConfluencePage, true
	case len(segments) == 3 && segments[0] == "pages" && segments[2] == "comments":
		return resourceConfluencePageComments, true
	default:
		return "", false
	}
}

// ListResources returns the resource catalog for Confluence.
func (h *ConfluenceHandler) ListResources() []domain.ResourceDefinition {
	return []domain.ResourceDefinition{
		{
			URI:         "confluence://pages?spaceKey={spaceKey}",
			Name:        "Confluence pages",
			Description: "Pages of a space, or of the whole site when spaceKey is omitted",
			MimeType:    "application/json",
		},
		{
			URI:         "confluence://pages/{pageId}",
			Name:        "Confluence page",
			Description: "A single page with its body, version and space",
			MimeType:    "application/json",
		},
		{
			URI:         "confluence://pages/{pageId}/comments",
			Name:        "Page comments",
			Description: "Comments attached to a page",
			MimeType:    "application/json",
		},
		{
			URI:         "confluence://search?cql={cql}",
			Name:        "CQL search",
			Description: "Content matching a CQL query",
			MimeType:    "application/json",
		},
		{
			URI:         "confluence://spaces",
			Name:        "Confluence spaces",
			Description: "Spaces visible to the authenticated user",
			MimeType:    "application/json",
		},
	}
}

// registerResources wires the confluence:// routes to their read
// functions.
func (h *ConfluenceHandler) registerResources() {
	routes := map[string]ResourceFunc{
		resourceConfluencePages:        h.readPages,
		resourceConfluencePage:         h.readPage,
		resourceConfluencePageComments: h.readPageComments,
		resourceConfluenceSearch:       h.readSearch,
		resourceConfluenceSpaces:       h.readSpaces,
	}
	for name, fn := range routes {
		h.resources[name] = WrapResource(name, fn)
	}
}

// registerTool wraps a tool and adds it to the dispatch table.
func (h *ConfluenceHandler) registerTool(def domain.ToolDefinition, fn ToolFunc) {
	h.toolIndex[def.Name] = len(h.tools)
	h.tools = append(h.tools, WrapTool(def, fn))
}

// registerTools declares every Confluence tool with its input schema.
func (h *ConfluenceHandler) registerTools() {
	h.registerTool(domain.ToolDefinition{
		Name:        ToolConfluenceGetPage,
		Description: "Retrieve a Confluence page with its body, version and space",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pageId": map[string]interface{}{
					"type":        "string",
					"description": "The page ID",
				},
			},
			Required: []string{"pageId"},
		},
	}, h.getPage)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolConfluenceCreatePage,
		Description: "Create a new Confluence page in a space",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"spaceKey": map[string]interface{}{
					"type":        "string",
					"description": "The key of the space the page is created in",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "The page title",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "The page body in Confluence storage format",
				},
			},
			Required: []string{"spaceKey", "title", "content"},
		},
	}, h.createPage)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolConfluenceUpdatePage,
		Description: "Update the title or body of an existing Confluence page",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pageId": map[string]interface{}{
					"type":        "string",
					"description": "The page ID",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "The page title; pass the current title when only the body changes",
				},
				"version": map[string]interface{}{
					"type":        "integer",
					"description": "The next version number (current version plus one)",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "The new page body in Confluence storage format (optional)",
				},
			},
			Required: []string{"pageId", "title", "version"},
		},
	}, h.updatePage)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolConfluenceDeletePage,
		Description: "Delete a Confluence page",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pageId": map[string]interface{}{
					"type":        "string",
					"description": "The page ID",
				},
			},
			Required: []string{"pageId"},
		},
	}, h.deletePage)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolConfluenceListPages,
		Description: "List the pages of a space, or of the whole site",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"spaceKey": map[string]interface{}{
					"type":        "string",
					"description": "Restrict the listing to this space (optional)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of pages to return (optional)",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the first page to return (0-based, optional)",
				},
			},
		},
	}, h.listPages)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolConfluenceSearch,
		Description: "Search for content using CQL (Confluence Query Language)",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"cql": map[string]interface{}{
					"type":        "string",
					"description": "The CQL query string",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (optional)",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the first result to return (0-based, optional)",
				},
			},
			Required: []string{"cql"},
		},
	}, h.search)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolConfluenceListComments,
		Description: "List the comments attached to a page",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pageId": map[string]interface{}{
					"type":        "string",
					"description": "The page ID",
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
			Required: []string{"pageId"},
		},
	}, h.listComments)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolConfluenceAddComment,
		Description: "Add a comment to a page",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pageId": map[string]interface{}{
					"type":        "string",
					"description": "The page ID",
				},
				"body": map[string]interface{}{
					"type":        "string",
					"description": "The comment text in Confluence storage format",
				},
			},
			Required: []string{"pageId", "body"},
		},
	}, h.addComment)

	h.registerTool(domain.ToolDefinition{
		Name:        ToolConfluenceListSpaces,
		Description: "List the spaces visible to the authenticated user",
		InputSchema: domain.JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of spaces to return (optional)",
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the first space to return (0-based, optional)",
				},
			},
		},
	}, h.listSpaces)
}

// getPage handles the confluence_get_page tool call.
func (h *ConfluenceHandler) getPage(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	pageID, err := getIDParam(args, "pageId", true)
	if err != nil {
		return nil, err
	}
	return h.client.GetPage(pageID)
}

// createPage handles the confluence_create_page tool call.
func (h *ConfluenceHandler) createPage(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	spaceKey, err := getStringParam(args, "spaceKey", true)
	if err != nil {
		return nil, err
	}
	title, err := getStringParam(args, "title", true)
	if err != nil {
		return nil, err
	}
	content, err := getStringParam(args, "content", true)
	if err != nil {
		return nil, err
	}

	return h.client.CreatePage(&domain.ContentCreate{
		Type:  "page",
		Title: title,
		Space: &domain.SpaceRef{Key: spaceKey},
		Body: domain.BodyCreate{
			Storage: domain.StorageCreate{
				Value:          content,
				Representation: "storage",
			},
		},
	})
}

// updatePage handles the confluence_update_page tool call.
func (h *ConfluenceHandler) updatePage(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	pageID, err := getIDParam(args, "pageId", true)
	if err != nil {
		return nil, err
	}
	title, err := getStringParam(args, "title", true)
	if err != nil {
		return nil, err
	}
	version, err := getIntParam(args, "version", true)
	if err != nil {
		return nil, err
	}
	content, err := getStringParam(args, "content", false)
	if err != nil {
		return nil, err
	}

	update := &domain.PageUpdate{
		Version: domain.VersionUpdate{Number: version},
		Title:   title,
		Type:    "page",
	}
	if content != "" {
		update.Body = &domain.BodyCreate{
			Storage: domain.StorageCreate{
				Value:          content,
				Representation: "storage",
			},
		}
	}

	return h.client.UpdatePage(pageID, update)
}

// deletePage handles the confluence_delete_page tool call.
func (h *ConfluenceHandler) deletePage(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	pageID, err := getIDParam(args, "pageId", true)
	if err != nil {
		return nil, err
	}

	if err := h.client.DeletePage(pageID); err != nil {
		return nil, err
	}
	return map[string]interface{}{"pageId": pageID}, nil
}

// listPages handles the confluence_list_pages tool call.
func (h *ConfluenceHandler) listPages(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	spaceKey, err := getStringParam(args, "spaceKey", false)
	if err != nil {
		return nil, err
	}

	page := domain.ExtractPageParams(args, defaultConfluencePageLimit, 0)
	return h.pagesData(spaceKey, page)
}

// search handles the confluence_search tool call.
func (h *ConfluenceHandler) search(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	cql, err := getStringParam(args, "cql", true)
	if err != nil {
		return nil, err
	}

	page := domain.ExtractPageParams(args, defaultConfluencePageLimit, 0)
	return h.searchData(cql, page)
}

// listComments handles the confluence_list_comments tool call.
func (h *ConfluenceHandler) listComments(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	pageID, err := getIDParam(args, "pageId", true)
	if err != nil {
		return nil, err
	}

	page := domain.ExtractPageParams(args, defaultConfluencePageLimit, 0)
	return h.commentsData(pageID, page)
}

// addComment handles the confluence_add_comment tool call.
func (h *ConfluenceHandler) addComment(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	pageID, err := getIDParam(args, "pageId", true)
	if err != nil {
		return nil, err
	}
	body, err := getStringParam(args, "body", true)
	if err != nil {
		return nil, err
	}

	return h.client.AddComment(pageID, body)
}

// listSpaces handles the confluence_list_spaces tool call.
func (h *ConfluenceHandler) listSpaces(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	page := domain.ExtractPageParams(args, defaultConfluencePageLimit, 0)
	return h.spacesData(page)
}

// readPages resolves the confluence://pages resource.
func (h *ConfluenceHandler) readPages(ctx context.Context, uri *url.URL) (interface{}, error) {
	query := uri.Query()
	page := domain.PageParamsFromQuery(query, defaultConfluencePageLimit, 0)
	return h.pagesData(query.Get("spaceKey"), page)
}

// readPage resolves the confluence://pages/{pageId} resource.
func (h *ConfluenceHandler) readPage(ctx context.Context, uri *url.URL) (interface{}, error) {
	segments := resourceSegments(uri)
	return h.client.GetPage(segments[1])
}

// readPageComments resolves the confluence://pages/{pageId}/comments
// resource.
func (h *ConfluenceHandler) readPageComments(ctx context.Context, uri *url.URL) (interface{}, error) {
	segments := resourceSegments(uri)
	page := domain.PageParamsFromQuery(uri.Query(), defaultConfluencePageLimit, 0)
	return h.commentsData(segments[1], page)
}

// readSearch resolves the confluence://search resource.
func (h *ConfluenceHandler) readSearch(ctx context.Context, uri *url.URL) (interface{}, error) {
	query := uri.Query()
	cql := query.Get("cql")
	if cql == "" {
		return nil, domain.NewAPIError(domain.ErrorKindValidation, "missing required parameter: cql")
	}

	page := domain.PageParamsFromQuery(query, defaultConfluencePageLimit, 0)
	return h.searchData(cql, page)
}

// readSpaces resolves the confluence://spaces resource.
func (h *ConfluenceHandler) readSpaces(ctx context.Context, uri *url.URL) (interface{}, error) {
	page := domain.PageParamsFromQuery(uri.Query(), defaultConfluencePageLimit, 0)
	return h.spacesData(page)
}

// pagesData fetches a page listing and assembles it with metadata.
func (h *ConfluenceHandler) pagesData(spaceKey string, page domain.PageParams) (interface{}, error) {
	pages, err := h.client.ListPages(spaceKey, &infrastructure.ListOptions{
		Start: page.Offset,
		Limit: page.Limit,
	})
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if spaceKey != "" {
		query.Set("spaceKey", spaceKey)
	}
	setListQuery(query, page)

	uiURL := ""
	if spaceKey != "" {
		uiURL = h.client.BaseURL() + "/spaces/" + spaceKey
	}

	total := contentTotal(pages.Start, pages.Size, effectiveLimit(pages.Limit, page.Limit))
	return map[string]interface{}{
		"pages":    pages.Results,
		"metadata": domain.BuildListMetadata(total, page.Limit, page.Offset, listURI("confluence", "pages", query), uiURL),
	}, nil
}

// searchData performs a CQL search and assembles it with metadata.
func (h *ConfluenceHandler) searchData(cql string, page domain.PageParams) (interface{}, error) {
	results, err := h.client.Search(cql, &infrastructure.ListOptions{
		Start: page.Offset,
		Limit: page.Limit,
	})
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("cql", cql)
	setListQuery(query, page)

	return map[string]interface{}{
		"results":  results.Results,
		"metadata": domain.BuildListMetadata(results.TotalSize, page.Limit, page.Offset, listURI("confluence", "search", query), ""),
	}, nil
}

// commentsData fetches a page comment listing and assembles it with
// metadata.
func (h *ConfluenceHandler) commentsData(pageID string, page domain.PageParams) (interface{}, error) {
	comments, err := h.client.ListComments(pageID, &infrastructure.ListOptions{
		Start: page.Offset,
		Limit: page.Limit,
	})
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	setListQuery(query, page)

	total := contentTotal(comments.Start, comments.Size, effectiveLimit(comments.Limit, page.Limit))
	return map[string]interface{}{
		"comments": comments.Results,
		"metadata": domain.BuildListMetadata(total, page.Limit, page.Offset, listURI("confluence", "pages/"+pageID+"/comments", query), ""),
	}, nil
}

// spacesData fetches a space listing and assembles it with metadata.
func (h *ConfluenceHandler) spacesData(page domain.PageParams) (interface{}, error) {
	spaces, err := h.client.ListSpaces(&infrastructure.ListOptions{
		Start: page.Offset,
		Limit: page.Limit,
	})
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	setListQuery(query, page)

	total := contentTotal(spaces.Start, spaces.Size, effectiveLimit(spaces.Limit, page.Limit))
	return map[string]interface{}{
		"spaces":   spaces.Results,
		"metadata": domain.BuildListMetadata(total, page.Limit, page.Offset, listURI("confluence", "spaces", query), ""),
	}, nil
}
