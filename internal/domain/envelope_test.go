package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

// decodeEnvelope parses the serialized envelope back into a generic map so
// tests can check which keys are present.
func decodeEnvelope(t *testing.T, text string) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("Envelope text is not valid JSON: %v\n%s", err, text)
	}
	return decoded
}

func TestSuccessEnvelope(t *testing.T) {
	env := SuccessEnvelope(map[string]string{"id": "42"}, "jira_get_board executed successfully")

	if !env.Success {
		t.Error("Expected Success to be true")
	}
	if env.Message != "jira_get_board executed successfully" {
		t.Errorf("Unexpected message: %q", env.Message)
	}

	resp := env.ToolResponse()
	if resp.IsError {
		t.Error("Expected IsError to be false for a success envelope")
	}
	if len(resp.Content) != 1 {
		t.Fatalf("Expected one content block, got %d", len(resp.Content))
	}
	if resp.Content[0].Type != "text" {
		t.Errorf("Expected content type 'text', got %q", resp.Content[0].Type)
	}

	decoded := decodeEnvelope(t, resp.Content[0].Text)
	if decoded["success"] != true {
		t.Error("Serialized envelope should carry success: true")
	}
	data, ok := decoded["data"].(map[string]interface{})
	if !ok {
		t.Fatal("Serialized envelope should carry the data object")
	}
	if data["id"] != "42" {
		t.Errorf("Expected data.id '42', got %v", data["id"])
	}
}

func TestFailureEnvelopeClassified(t *testing.T) {
	apiErr := NewAPIErrorWithCode(ErrorKindNotFound, "board does not exist", 404, "BOARD_MISSING")

	env := FailureEnvelope(apiErr)

	if env.Success {
		t.Error("Expected Success to be false")
	}
	if env.Message != "board does not exist" {
		t.Errorf("Unexpected message: %q", env.Message)
	}
	if env.Type != ErrorKindNotFound {
		t.Errorf("Expected type %s, got %s", ErrorKindNotFound, env.Type)
	}
	if env.StatusCode != 404 {
		t.Errorf("Expected statusCode 404, got %d", env.StatusCode)
	}
	if env.Code != "BOARD_MISSING" {
		t.Errorf("Expected code BOARD_MISSING, got %q", env.Code)
	}
}

func TestFailureEnvelopeWrappedClassified(t *testing.T) {
	// A classified error stays classified even when wrapped on its way up.
	apiErr := NewAPIErrorWithStatus(ErrorKindRateLimit, "too many requests", 429)
	wrapped := errors.Join(errors.New("listing sprints"), apiErr)

	env := FailureEnvelope(wrapped)

	if env.Type != ErrorKindRateLimit {
		t.Errorf("Expected type %s, got %s", ErrorKindRateLimit, env.Type)
	}
	if env.StatusCode != 429 {
		t.Errorf("Expected statusCode 429, got %d", env.StatusCode)
	}
}

func TestFailureEnvelopeGeneric(t *testing.T) {
	env := FailureEnvelope(errors.New("boom"))

	if env.Success {
		t.Error("Expected Success to be false")
	}
	if env.Message != "boom" {
		t.Errorf("Expected message 'boom', got %q", env.Message)
	}

	// A generic failure must not leak classification fields.
	resp := env.ToolResponse()
	if !resp.IsError {
		t.Error("Expected IsError to be true for a failure envelope")
	}
	decoded := decodeEnvelope(t, resp.Content[0].Text)
	for _, key := range []string{"code", "statusCode", "type", "data"} {
		if _, present := decoded[key]; present {
			t.Errorf("Generic failure envelope should not carry %q", key)
		}
	}
	if decoded["success"] != false {
		t.Error("Serialized envelope should carry success: false")
	}
	if decoded["message"] != "boom" {
		t.Errorf("Expected serialized message 'boom', got %v", decoded["message"])
	}
}

func TestEnvelopeResourceResponse(t *testing.T) {
	env := SuccessEnvelope([]string{"a", "b"}, "jira_boards executed successfully")

	resp := env.ResourceResponse("jira://boards?limit=50&offset=0")

	if resp.IsError {
		t.Error("Expected IsError to be false")
	}
	if len(resp.Contents) != 1 {
		t.Fatalf("Expected one contents entry, got %d", len(resp.Contents))
	}
	contents := resp.Contents[0]
	if contents.URI != "jira://boards?limit=50&offset=0" {
		t.Errorf("Expected request URI to be echoed, got %q", contents.URI)
	}
	if contents.MimeType != "application/json" {
		t.Errorf("Expected mime type application/json, got %q", contents.MimeType)
	}

	decoded := decodeEnvelope(t, contents.Text)
	if decoded["success"] != true {
		t.Error("Serialized envelope should carry success: true")
	}
}

func TestEnvelopeEncodeFallback(t *testing.T) {
	// Channels cannot be serialized; the envelope must degrade to a
	// well-formed failure instead of producing broken output.
	env := SuccessEnvelope(make(chan int), "")

	resp := env.ToolResponse()
	decoded := decodeEnvelope(t, resp.Content[0].Text)

	if decoded["success"] != false {
		t.Error("Fallback envelope should carry success: false")
	}
	message, _ := decoded["message"].(string)
	if message == "" {
		t.Error("Fallback envelope should explain the encoding failure")
	}
}
