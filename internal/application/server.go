package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"atlassian-cloud-mcp-server/internal/domain"
)

// protocolVersion is the MCP protocol revision this server implements.
const protocolVersion = "2024-11-05"

// Server is the main MCP server implementation.
// It orchestrates the transport layer, request routing, and implements
// the MCP protocol methods.
type Server struct {
	transport domain.Transport
	router    *RequestRouter
	config    *domain.Config
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance.
func NewServer(
	transport domain.Transport,
	router *RequestRouter,
	config *domain.Config,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		transport: transport,
		router:    router,
		config:    config,
		logger:    logger,
	}
}

// Start begins the server operation.
// It starts the transport layer and begins processing incoming requests.
func (s *Server) Start(ctx context.Context) error {
	if err := s.transport.Start(ctx); err != nil {
		s.logger.Error("failed to start transport",
			"transport", s.config.Transport.Type,
			"error", err)
		return fmt.Errorf("failed to start transport: %w", err)
	}

	s.logger.Info("server started", "transport", s.config.Transport.Type)

	go s.processRequests(ctx)

	return nil
}

// processRequests continuously processes incoming JSON-RPC requests.
func (s *Server) processRequests(ctx context.Context) {
	reqChan := s.transport.Receive()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("server shutting down")
			return
		case req, ok := <-reqChan:
			if !ok {
				// Channel closed, transport is shutting down
				return
			}

			s.handleRequest(ctx, req)
		}
	}
}

// handleRequest processes a single JSON-RPC request.
func (s *Server) handleRequest(ctx context.Context, req *domain.Request) {
	// Notifications carry no ID and are never answered.
	if req.ID == nil {
		s.logger.Debug("notification received", "method", req.Method)
		return
	}

	s.logger.Info("received request", "method", req.Method, "request_id", req.ID)

	if err := s.validateRequest(req); err != nil {
		s.sendErrorResponse(req.ID, domain.InvalidRequest, "Invalid Request", err.Error())
		return
	}

	var response *domain.Response
	var err error

	switch req.Method {
	case "initialize":
		response, err = s.handleInitialize(req)
	case "ping":
		response, err = s.handlePing(req)
	case "tools/list":
		response, err = s.handleToolsList(req)
	case "tools/call":
		response, err = s.handleToolsCall(ctx, req)
	case "resources/list":
		response, err = s.handleResourcesList(req)
	case "resources/read":
		response, err = s.handleResourcesRead(ctx, req)
	default:
		s.sendErrorResponse(req.ID, domain.MethodNotFound, "Method not found", fmt.Sprintf("unknown method: %s", req.Method))
		return
	}

	if err != nil {
		s.logger.Error("request processing failed",
			"method", req.Method,
			"request_id", req.ID,
			"error", err)
		// Error response already sent by handler
		return
	}

	if err := s.transport.Send(response); err != nil {
		s.logger.Error("failed to send response", "request_id", req.ID, "error", err)
	}
}

// validateRequest validates the basic structure of a JSON-RPC request.
func (s *Server) validateRequest(req *domain.Request) error {
	if req.JSONRPC != "2.0" {
		return fmt.Errorf("invalid jsonrpc version: %s", req.JSONRPC)
	}

	if req.Method == "" {
		return fmt.Errorf("method is required")
	}

	return nil
}

// handleInitialize handles the MCP initialize method.
// This is the initial handshake between client and server.
func (s *Server) handleInitialize(req *domain.Request) (*domain.Response, error) {
	result := map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    "atlassian-cloud-mcp-server",
			"version": "1.0.0",
		},
	}

	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}, nil
}

// handlePing handles the MCP ping method.
func (s *Server) handlePing(req *domain.Request) (*domain.Response, error) {
	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  map[string]interface{}{},
	}, nil
}

// handleToolsList handles the MCP tools/list method.
// Returns all available tools from registered handlers.
func (s *Server) handleToolsList(req *domain.Request) (*domain.Response, error) {
	tools := s.router.ListAllTools()

	result := map[string]interface{}{
		"tools": tools,
	}

	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}, nil
}

// handleToolsCall handles the MCP tools/call method.
// Executes a tool call by routing it to the appropriate handler.
func (s *Server) handleToolsCall(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	toolReq, err := s.parseToolRequest(req.Params)
	if err != nil {
		s.sendErrorResponse(req.ID, domain.InvalidParams, "Invalid params", err.Error())
		return nil, err
	}

	toolResp, err := s.router.Route(ctx, toolReq)
	if err != nil {
		s.logger.Error("tool dispatch failed",
			"tool", toolReq.Name,
			"request_id", req.ID,
			"error", err)
		s.sendMappedError(req.ID, err)
		return nil, err
	}

	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  toolResp,
	}, nil
}

// handleResourcesList handles the MCP resources/list method.
// Returns the resource catalogs of all registered handlers.
func (s *Server) handleResourcesList(req *domain.Request) (*domain.Response, error) {
	resources := s.router.ListAllResources()

	result := map[string]interface{}{
		"resources": resources,
	}

	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}, nil
}

// handleResourcesRead handles the MCP resources/read method.
// Resolves a resource URI by routing it to the handler owning its scheme.
func (s *Server) handleResourcesRead(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	resourceReq, err := s.parseResourceRequest(req.Params)
	if err != nil {
		s.sendErrorResponse(req.ID, domain.InvalidParams, "Invalid params", err.Error())
		return nil, err
	}

	resourceResp, err := s.router.RouteResource(ctx, resourceReq)
	if err != nil {
		s.logger.Error("resource dispatch failed",
			"uri", resourceReq.URI,
			"request_id", req.ID,
			"error", err)
		s.sendMappedError(req.ID, err)
		return nil, err
	}

	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  resourceResp,
	}, nil
}

// parseToolRequest parses the params field into a ToolRequest.
func (s *Server) parseToolRequest(params interface{}) (*domain.ToolRequest, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required for tools/call")
	}

	// Convert params to JSON and back to ToolRequest
	// This handles both map[string]interface{} and already-parsed structs
	jsonData, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	var toolReq domain.ToolRequest
	if err := json.Unmarshal(jsonData, &toolReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool request: %w", err)
	}

	if toolReq.Name == "" {
		return nil, fmt.Errorf("tool name is required")
	}

	if toolReq.Arguments == nil {
		toolReq.Arguments = make(map[string]interface{})
	}

	return &toolReq, nil
}

// parseResourceRequest parses the params field into a ResourceRequest.
func (s *Server) parseResourceRequest(params interface{}) (*domain.ResourceRequest, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required for resources/read")
	}

	jsonData, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	var resourceReq domain.ResourceRequest
	if err := json.Unmarshal(jsonData, &resourceReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resource request: %w", err)
	}

	if resourceReq.URI == "" {
		return nil, fmt.Errorf("resource uri is required")
	}

	return &resourceReq, nil
}

// sendErrorResponse sends a JSON-RPC error response.
func (s *Server) sendErrorResponse(id interface{}, code int, message string, data interface{}) {
	response := &domain.Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &domain.Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}

	if err := s.transport.Send(response); err != nil {
		s.logger.Error("failed to send error response",
			"request_id", id,
			"error_code", code,
			"error", err)
	}
}

// sendMappedError sends a dispatch failure as a JSON-RPC error.
// Protocol-level errors pass through with their code; anything else is
// an internal error.
func (s *Server) sendMappedError(id interface{}, err error) {
	var rpcErr *domain.Error
	if errors.As(err, &rpcErr) {
		s.sendErrorResponse(id, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}

	s.sendErrorResponse(id, domain.InternalError, "Internal error", err.Error())
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	s.logger.Info("closing server")
	return s.transport.Close()
}
