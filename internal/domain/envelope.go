package domain

import (
	"encoding/json"
	"fmt"
)

// Envelope is the uniform response shape shared by every tool and resource
// operation. Exactly one envelope is produced per invocation; Success is
// true if and only if the underlying operation completed without error.
type Envelope struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message,omitempty"`
	Data       any       `json:"data,omitempty"`
	Code       string    `json:"code,omitempty"`
	StatusCode int       `json:"statusCode,omitempty"`
	Type       ErrorKind `json:"type,omitempty"`
}

// SuccessEnvelope builds the success shape. Both data and message are
// optional; absent values are omitted from the serialized form.
func SuccessEnvelope(data any, message string) *Envelope {
	return &Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// FailureEnvelope builds the failure shape for an error. Classified errors
// (an *APIError, possibly wrapped) spread their kind, status code, and
// machine code into the envelope; any other error renders as a bare
// message.
func FailureEnvelope(err error) *Envelope {
	if apiErr, ok := AsAPIError(err); ok {
		return &Envelope{
			Success:    false,
			Message:    apiErr.Message,
			Code:       apiErr.Code,
			StatusCode: apiErr.StatusCode,
			Type:       apiErr.Kind,
		}
	}
	return FailureMessage(err.Error())
}

// FailureMessage builds the failure shape for a plain message with no
// classification.
func FailureMessage(message string) *Envelope {
	return &Envelope{
		Success: false,
		Message: message,
	}
}

// ToolResponse renders the envelope as an MCP tool result: a single text
// content block holding the envelope as JSON, with IsError mirroring the
// negated success flag.
func (e *Envelope) ToolResponse() *ToolResponse {
	return &ToolResponse{
		Content: []ContentBlock{
			{
				Type: "text",
				Text: e.encode(),
			},
		},
		IsError: !e.Success,
	}
}

// ResourceResponse renders the envelope as an MCP resource read result for
// the given URI: one contents entry with an application/json MIME type and
// the envelope as its text, with IsError mirroring the negated success
// flag.
func (e *Envelope) ResourceResponse(uri string) *ResourceResponse {
	return &ResourceResponse{
		Contents: []ResourceContents{
			{
				URI:      uri,
				MimeType: "application/json",
				Text:     e.encode(),
			},
		},
		IsError: !e.Success,
	}
}

// encode serializes the envelope to indented JSON. Serialization can only
// fail for non-JSON-encodable data values; in that case the envelope
// degrades to a failure message so a caller still receives a well-formed
// envelope rather than an exception.
func (e *Envelope) encode() string {
	jsonBytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		fallback := FailureMessage(fmt.Sprintf("failed to encode response data: %v", err))
		jsonBytes, _ = json.MarshalIndent(fallback, "", "  ")
	}
	return string(jsonBytes)
}
