package domain

import (
	"context"
)

// ToolHandler processes requests for a specific Atlassian product.
// Each product (Jira, Confluence) has its own handler that implements
// this interface.
type ToolHandler interface {
	// Handle processes an MCP tool call request.
	// Returns the tool response or an error if processing fails.
	Handle(ctx context.Context, req *ToolRequest) (*ToolResponse, error)

	// ListTools returns available tools for this handler.
	// Each tool represents a specific operation (e.g., create_sprint, get_page).
	ListTools() []ToolDefinition

	// ToolName returns the identifier for this handler.
	// This is used for routing requests to the appropriate handler.
	ToolName() string
}

// ResourceHandler serves URI-addressed read-only views of a product.
// Handlers own one URI scheme (e.g. "jira", "confluence") and resolve
// every resource under it.
type ResourceHandler interface {
	// ReadResource resolves a resources/read request for a URI under
	// this handler's scheme.
	ReadResource(ctx context.Context, req *ResourceRequest) (*ResourceResponse, error)

	// ListResources returns the resource catalog for this handler,
	// including templated URIs.
	ListResources() []ResourceDefinition

	// Scheme returns the URI scheme this handler serves.
	Scheme() string
}
