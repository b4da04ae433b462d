package application

import (
	"context"
	"fmt"
	"strings"

	"atlassian-cloud-mcp-server/internal/domain"
)

// RequestRouter dispatches MCP requests to the appropriate handler.
// Tool calls are routed by tool name prefix (jira_*, confluence_*);
// resource reads are routed by URI scheme (jira://, confluence://).
// Handlers that also implement domain.ResourceHandler are registered
// for both.
type RequestRouter struct {
	handlers  map[string]domain.ToolHandler
	order     []string
	resources map[string]domain.ResourceHandler
	schemes   []string
}

// NewRequestRouter creates a new RequestRouter with the provided handlers.
// Handlers are registered by their ToolName() identifier and, when they
// serve resources, by their Scheme().
func NewRequestRouter(handlers ...domain.ToolHandler) *RequestRouter {
	router := &RequestRouter{
		handlers:  make(map[string]domain.ToolHandler),
		resources: make(map[string]domain.ResourceHandler),
	}

	for _, handler := range handlers {
		name := handler.ToolName()
		router.handlers[name] = handler
		router.order = append(router.order, name)

		if resourceHandler, ok := handler.(domain.ResourceHandler); ok {
			scheme := resourceHandler.Scheme()
			router.resources[scheme] = resourceHandler
			router.schemes = append(router.schemes, scheme)
		}
	}

	return router
}

// Route dispatches a tool request to the appropriate handler based on
// the tool name. Tool names follow the pattern <handler>_<operation>
// (e.g., jira_list_boards, confluence_create_page).
func (r *RequestRouter) Route(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	handlerName := r.extractHandlerName(req.Name)
	if handlerName == "" {
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("invalid tool name format: %s (expected format: <handler>_<operation>)", req.Name),
		}
	}

	handler, exists := r.handlers[handlerName]
	if !exists {
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown tool: %s (no handler registered for '%s')", req.Name, handlerName),
		}
	}

	return handler.Handle(ctx, req)
}

// RouteResource dispatches a resource read to the handler owning the
// URI scheme.
func (r *RequestRouter) RouteResource(ctx context.Context, req *domain.ResourceRequest) (*domain.ResourceResponse, error) {
	scheme := extractScheme(req.URI)
	handler, exists := r.resources[scheme]
	if !exists {
		return nil, &domain.Error{
			Code:    domain.ResourceNotFound,
			Message: fmt.Sprintf("unknown resource: %s (no handler registered for scheme '%s')", req.URI, scheme),
		}
	}

	return handler.ReadResource(ctx, req)
}

// ListAllTools aggregates tool definitions from all registered handlers
// in registration order. This is used for MCP tool discovery
// (tools/list method).
func (r *RequestRouter) ListAllTools() []domain.ToolDefinition {
	var allTools []domain.ToolDefinition
	for _, name := range r.order {
		allTools = append(allTools, r.handlers[name].ListTools()...)
	}
	return allTools
}

// ListAllResources aggregates resource definitions from all registered
// resource handlers in registration order. This is used for MCP
// resource discovery (resources/list method).
func (r *RequestRouter) ListAllResources() []domain.ResourceDefinition {
	var allResources []domain.ResourceDefinition
	for _, scheme := range r.schemes {
		allResources = append(allResources, r.resources[scheme].ListResources()...)
	}
	return allResources
}

// extractHandlerName extracts the handler identifier from a tool name.
// For example: "jira_list_boards" -> "jira".
func (r *RequestRouter) extractHandlerName(toolName string) string {
	idx := strings.Index(toolName, "_")
	if idx == -1 {
		return ""
	}
	return toolName[:idx]
}

// extractScheme extracts the scheme from a resource URI.
// For example: "jira://boards" -> "jira".
func extractScheme(uri string) string {
	idx := strings.Index(uri, "://")
	if idx == -1 {
		return ""
	}
	return uri[:idx]
}

// GetHandler returns the handler for a specific tool name.
// This is useful for testing and debugging.
func (r *RequestRouter) GetHandler(handlerName string) (domain.ToolHandler, bool) {
	handler, exists := r.handlers[handlerName]
	return handler, exists
}
