package application

import (
	"context"
	"fmt"
	"net/url"

	"atlassian-cloud-mcp-server/internal/domain"
)

// ToolFunc is a domain operation exposed as an MCP tool. It returns the
// payload for the success envelope, or an error that the wrapper folds
// into a failure envelope.
type ToolFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// WrappedTool pairs a tool definition with its guarded execution func.
// Run always produces a response envelope; it never returns an error and
// never lets a panic escape.
type WrappedTool struct {
	Definition domain.ToolDefinition
	Run        func(ctx context.Context, args map[string]interface{}) *domain.ToolResponse
}

// WrapTool builds the guarded execution func for a tool at registration
// time. A nil error from fn yields a success envelope with the payload
// and a "<name> executed successfully" message; a *domain.APIError is
// forwarded with its kind, status and code; any other error or recovered
// panic value is coerced to its message alone.
func WrapTool(def domain.ToolDefinition, fn ToolFunc) WrappedTool {
	return WrappedTool{
		Definition: def,
		Run: func(ctx context.Context, args map[string]interface{}) (resp *domain.ToolResponse) {
			defer func() {
				if r := recover(); r != nil {
					resp = recoveredEnvelope(r).ToolResponse()
				}
			}()

			data, err := fn(ctx, args)
			if err != nil {
				return domain.FailureEnvelope(err).ToolResponse()
			}
			return domain.SuccessEnvelope(data, def.Name+" executed successfully").ToolResponse()
		},
	}
}

// ResourceFunc is a domain operation exposed as an MCP resource. The
// parsed request URI carries the identifiers and query parameters of the
// read.
type ResourceFunc func(ctx context.Context, uri *url.URL) (interface{}, error)

// WrappedResource is the resource counterpart of WrappedTool. Run renders
// the envelope as resource contents for the request URI.
type WrappedResource struct {
	Name string
	Run  func(ctx context.Context, rawURI string, uri *url.URL) *domain.ResourceResponse
}

// WrapResource builds the guarded execution func for a resource route at
// registration time, with the same envelope rules as WrapTool.
func WrapResource(name string, fn ResourceFunc) WrappedResource {
	return WrappedResource{
		Name: name,
		Run: func(ctx context.Context, rawURI string, uri *url.URL) (resp *domain.ResourceResponse) {
			defer func() {
				if r := recover(); r != nil {
					resp = recoveredEnvelope(r).ResourceResponse(rawURI)
				}
			}()

			data, err := fn(ctx, uri)
			if err != nil {
				return domain.FailureEnvelope(err).ResourceResponse(rawURI)
			}
			return domain.SuccessEnvelope(data, name+" executed successfully").ResourceResponse(rawURI)
		},
	}
}

// recoveredEnvelope folds a recovered panic value into a failure
// envelope. Errors keep their classification; everything else is
// coerced to a plain message.
func recoveredEnvelope(r interface{}) *domain.Envelope {
	if err, ok := r.(error); ok {
		return domain.FailureEnvelope(err)
	}
	return domain.FailureMessage(fmt.Sprint(r))
}
