package domain

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

// TestStdioTransport_ReadValidMessage tests reading a valid JSON-RPC message from stdin.
func TestStdioTransport_ReadValidMessage(t *testing.T) {
	// Create a mock stdin with a valid JSON-RPC request
	input := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"1.0"}}` + "\n"
	reader := strings.NewReader(input)
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	// Start the transport
	err := transport.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start transport: %v", err)
	}

	// Receive the request
	select {
	case req := <-transport.Receive():
		if req == nil {
			t.Fatal("Received nil request")
		}
		if req.JSONRPC != "2.0" {
			t.Errorf("Expected JSONRPC version 2.0, got %s", req.JSONRPC)
		}
		if req.Method != "initialize" {
			t.Errorf("Expected method 'initialize', got %s", req.Method)
		}
		if req.ID != float64(1) { // JSON unmarshals numbers as float64
			t.Errorf("Expected ID 1, got %v", req.ID)
		}
	case <-ctx.Done():
		t.Fatal("Timeout waiting for request")
	}
}

// TestStdioTransport_ReadMultipleMessages tests reading multiple JSON-RPC messages.
func TestStdioTransport_ReadMultipleMessages(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n" +
		`{"jsonrpc":"2.0","id":3,"method":"tools/call"}` + "\n"
	reader := strings.NewReader(input)
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := transport.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start transport: %v", err)
	}

	// Receive three requests
	expectedMethods := []string{"initialize", "tools/list", "tools/call"}
	for i, expectedMethod := range expectedMethods {
		select {
		case req := <-transport.Receive():
			if req == nil {
				t.Fatalf("Received nil request for message %d", i+1)
			}
			if req.Method != expectedMethod {
				t.Errorf("Message %d: expected method '%s', got '%s'", i+1, expectedMethod, req.Method)
			}
		case <-ctx.Done():
			t.Fatalf("Timeout waiting for message %d", i+1)
		}
	}
}

// TestStdioTransport_SendResponse tests writing a JSON-RPC response to stdout.
func TestStdioTransport_SendResponse(t *testing.T) {
	reader := strings.NewReader("")
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	response := &Response{
		JSONRPC: "2.0",
		ID:      1,
		Result:  map[string]string{"status": "ok"},
	}

	err := transport.Send(response)
	if err != nil {
		t.Fatalf("Failed to send response: %v", err)
	}

	// Verify the output
	output := writer.String()
	if !strings.HasSuffix(output, "\n") {
		t.Error("Output should end with newline")
	}

	// Parse the JSON to verify it's valid
	var parsedResponse Response
	err = json.Unmarshal([]byte(strings.TrimSpace(output)), &parsedResponse)
	if err != nil {
		t.Fatalf("Failed to parse output JSON: %v", err)
	}

	if parsedResponse.JSONRPC != "2.0" {
		t.Errorf("Expected JSONRPC version 2.0, got %s", parsedResponse.JSONRPC)
	}
	if parsedResponse.ID != float64(1) {
		t.Errorf("Expected ID 1, got %v", parsedResponse.ID)
	}
}

// TestStdioTransport_SendResponseSetsJSONRPCVersion tests that Send sets JSONRPC version if missing.
func TestStdioTransport_SendResponseSetsJSONRPCVersion(t *testing.T) {
	reader := strings.NewReader("")
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	response := &Response{
		ID:     1,
		Result: "ok",
		// JSONRPC version intentionally omitted
	}

	err := transport.Send(response)
	if err != nil {
		t.Fatalf("Failed to send response: %v", err)
	}

	// Parse the output
	var parsedResponse Response
	err = json.Unmarshal([]byte(strings.TrimSpace(writer.String())), &parsedResponse)
	if err != nil {
		t.Fatalf("Failed to parse output JSON: %v", err)
	}

	if parsedResponse.JSONRPC != "2.0" {
		t.Errorf("Expected JSONRPC version to be set to 2.0, got %s", parsedResponse.JSONRPC)
	}
}

// TestStdioTransport_InvalidJSONRPCVersion tests handling of invalid JSONRPC version.
func TestStdioTransport_InvalidJSONRPCVersion(t *testing.T) {
	input := `{"jsonrpc":"1.0","id":1,"method":"test"}` + "\n"
	reader := strings.NewReader(input)
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := transport.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start transport: %v", err)
	}

	// Wait a bit for the error response to be written
	time.Sleep(100 * time.Millisecond)

	// Check that an error response was written
	output := writer.String()
	if output == "" {
		t.Fatal("Expected error response to be written")
	}

	// Parse the error response
	var errorResponse Response
	err = json.Unmarshal([]byte(strings.TrimSpace(output)), &errorResponse)
	if err != nil {
		t.Fatalf("Failed to parse error response: %v", err)
	}

	if errorResponse.Error == nil {
		t.Fatal("Expected error in response")
	}
	if errorResponse.Error.Code != InvalidRequest {
		t.Errorf("Expected error code %d, got %d", InvalidRequest, errorResponse.Error.Code)
	}
}

// TestStdioTransport_MalformedJSON tests handling of malformed JSON.
func TestStdioTransport_MalformedJSON(t *testing.T) {
	input := `{invalid json}` + "\n"
	reader := strings.NewReader(input)
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := transport.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start transport: %v", err)
	}

	// Wait a bit for the error response to be written
	time.Sleep(100 * time.Millisecond)

	// Check that an error response was written
	output := writer.String()
	if output == "" {
		t.Fatal("Expected error response to be written")
	}

	// Parse the error response
	var errorResponse Response
	err = json.Unmarshal([]byte(strings.TrimSpace(output)), &errorResponse)
	if err != nil {
		t.Fatalf("Failed to parse error response: %v", err)
	}

	if errorResponse.Error == nil {
		t.Fatal("Expected error in response")
	}
	if errorResponse.Error.Code != ParseError {
		t.Errorf("Expected error code %d, got %d", ParseError, errorResponse.Error.Code)
	}
}

// TestStdioTransport_EmptyLines tests that empty lines are ignored.
func TestStdioTransport_EmptyLines(t *testing.T) {
	input := "\n\n" +
		`{"jsonrpc":"2.0","id":1,"method":"test"}` + "\n" +
		"\n\n"
	reader := strings.NewReader(input)
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := transport.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start transport: %v", err)
	}

	// Should receive exactly one request
	select {
	case req := <-transport.Receive():
		if req == nil {
			t.Fatal("Received nil request")
		}
		if req.Method != "test" {
			t.Errorf("Expected method 'test', got %s", req.Method)
		}
	case <-ctx.Done():
		t.Fatal("Timeout waiting for request")
	}

	// Should not receive any more requests (empty lines should be ignored)
	select {
	case req := <-transport.Receive():
		if req != nil {
			t.Errorf("Expected no more requests, got: %+v", req)
		}
	case <-time.After(200 * time.Millisecond):
		// Good - no more requests
	}
}

// TestStdioTransport_Close tests graceful shutdown.
func TestStdioTransport_Close(t *testing.T) {
	reader := strings.NewReader("")
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	err := transport.Close()
	if err != nil {
		t.Fatalf("Failed to close transport: %v", err)
	}

	// Sending after close should fail
	response := &Response{
		JSONRPC: "2.0",
		ID:      1,
		Result:  "ok",
	}
	err = transport.Send(response)
	if err == nil {
		t.Error("Expected error when sending after close")
	}
}

// TestStdioTransport_StartAfterClose tests that starting after close fails.
func TestStdioTransport_StartAfterClose(t *testing.T) {
	reader := strings.NewReader("")
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	err := transport.Close()
	if err != nil {
		t.Fatalf("Failed to close transport: %v", err)
	}

	ctx := context.Background()
	err = transport.Start(ctx)
	if err == nil {
		t.Error("Expected error when starting after close")
	}
}

// TestStdioTransport_ContextCancellation tests that context cancellation stops the transport.
func TestStdioTransport_ContextCancellation(t *testing.T) {
	// Create a reader that will block (simulating continuous input)
	reader := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"test"}` + "\n")
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	ctx, cancel := context.WithCancel(context.Background())

	err := transport.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start transport: %v", err)
	}

	// Receive one message
	select {
	case <-transport.Receive():
		// Good
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for request")
	}

	// Cancel the context
	cancel()

	// The receive channel should be closed
	select {
	case _, ok := <-transport.Receive():
		if ok {
			t.Error("Expected receive channel to be closed after context cancellation")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for channel to close")
	}
}

// TestStdioTransport_EscapedNewlinesInJSON tests that escaped newlines in JSON strings are handled correctly.
func TestStdioTransport_EscapedNewlinesInJSON(t *testing.T) {
	// JSON with escaped newlines in a string value
	input := `{"jsonrpc":"2.0","id":1,"method":"test","params":{"text":"line1\nline2"}}` + "\n"
	reader := strings.NewReader(input)
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := transport.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start transport: %v", err)
	}

	// Should successfully receive the request
	select {
	case req := <-transport.Receive():
		if req == nil {
			t.Fatal("Received nil request")
		}
		if req.Method != "test" {
			t.Errorf("Expected method 'test', got %s", req.Method)
		}
		// Verify params were parsed correctly
		params, ok := req.Params.(map[string]interface{})
		if !ok {
			t.Fatal("Expected params to be a map")
		}
		text, ok := params["text"].(string)
		if !ok {
			t.Fatal("Expected text parameter to be a string")
		}
		if text != "line1\nline2" {
			t.Errorf("Expected text with newline, got %q", text)
		}
	case <-ctx.Done():
		t.Fatal("Timeout waiting for request")
	}
}

// TestStdioTransport_SendError tests sending an error response.
func TestStdioTransport_SendError(t *testing.T) {
	reader := strings.NewReader("")
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	response := &Response{
		JSONRPC: "2.0",
		ID:      1,
		Error: &Error{
			Code:    MethodNotFound,
			Message: "Method not found",
			Data:    "unknown_method",
		},
	}

	err := transport.Send(response)
	if err != nil {
		t.Fatalf("Failed to send error response: %v", err)
	}

	// Parse the output
	var parsedResponse Response
	err = json.Unmarshal([]byte(strings.TrimSpace(writer.String())), &parsedResponse)
	if err != nil {
		t.Fatalf("Failed to parse output JSON: %v", err)
	}

	if parsedResponse.Error == nil {
		t.Fatal("Expected error in response")
	}
	if parsedResponse.Error.Code != MethodNotFound {
		t.Errorf("Expected error code %d, got %d", MethodNotFound, parsedResponse.Error.Code)
	}
	if parsedResponse.Error.Message != "Method not found" {
		t.Errorf("Expected error message 'Method not found', got %s", parsedResponse.Error.Message)
	}
}

// TestStdioTransport_EmbeddedNewlinesInResponse tests that responses with embedded newlines are rejected.
// Stdio framing is newline-delimited, so responses must stay on one line.
func TestStdioTransport_EmbeddedNewlinesInResponse(t *testing.T) {
	reader := strings.NewReader("")
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	// Create a response that would contain an embedded newline when marshaled
	// Note: Standard JSON marshaling doesn't produce newlines, but we test the validation
	response := &Response{
		JSONRPC: "2.0",
		ID:      1,
		Result:  "test\nvalue", // This will be escaped as "test\\nvalue" in JSON
	}

	// This should succeed because JSON marshaling escapes the newline
	err := transport.Send(response)
	if err != nil {
		t.Fatalf("Failed to send response with escaped newline: %v", err)
	}

	// Verify the output doesn't contain actual newlines (except the trailing one)
	output := writer.String()
	lines := strings.Split(output, "\n")
	if len(lines) != 2 { // Should be: [json_line, empty_string_after_final_newline]
		t.Errorf("Expected output to be a single line with trailing newline, got %d lines", len(lines)-1)
	}
}

// TestStdioTransport_MultilineInputHandling tests that multi-line input is handled correctly.
// Each line should be treated as a separate message.
func TestStdioTransport_MultilineInputHandling(t *testing.T) {
	// Simulate input where someone tries to send a multi-line JSON (which is invalid for stdio transport)
	// The transport should treat each line separately
	input := `{"jsonrpc":"2.0",` + "\n" +
		`"id":1,` + "\n" +
		`"method":"test"}` + "\n"

	reader := strings.NewReader(input)
	writer := &bytes.Buffer{}

	transport := NewStdioTransportWithIO(reader, writer, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := transport.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start transport: %v", err)
	}

	// Wait for error responses to be written
	time.Sleep(200 * time.Millisecond)

	// Each line should be treated as a separate (invalid) message
	// and should generate parse errors
	output := writer.String()
	if output == "" {
		t.Fatal("Expected error responses for malformed input")
	}

	// Count the number of error responses (one per invalid line)
	errorLines := strings.Split(strings.TrimSpace(output), "\n")
	if len(errorLines) < 2 {
		t.Errorf("Expected at least 2 error responses for multi-line input, got %d", len(errorLines))
	}

	// Verify each response is a parse error
	for i, line := range errorLines {
		if line == "" {
			continue
		}
		var errorResponse Response
		err := json.Unmarshal([]byte(line), &errorResponse)
		if err != nil {
			t.Errorf("Line %d: Failed to parse error response: %v", i, err)
			continue
		}
		if errorResponse.Error == nil {
			t.Errorf("Line %d: Expected error in response", i)
			continue
		}
		if errorResponse.Error.Code != ParseError {
			t.Errorf("Line %d: Expected parse error code %d, got %d", i, ParseError, errorResponse.Error.Code)
		}
	}
}

// readSSEEvent reads one server-sent event frame, skipping keep-alive
// comments. It returns the event name and its data line.
func readSSEEvent(reader *bufio.Reader) (string, string, error) {
	var event, data string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		line = strings.TrimRight(line, "\n")

		switch {
		case line == "":
			if event != "" || data != "" {
				return event, data, nil
			}
		case strings.HasPrefix(line, ":"):
			// Keep-alive comment, ignore
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

// dialSSE opens an SSE session and returns the stream reader plus the
// message endpoint announced by the server.
func dialSSE(t *testing.T, base string) (*http.Response, *bufio.Reader, string) {
	t.Helper()

	resp, err := http.Get(base + "/mcp")
	if err != nil {
		t.Fatalf("Failed to open SSE stream: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("Expected status 200 for SSE stream, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		resp.Body.Close()
		t.Fatalf("Expected Content-Type text/event-stream, got %s", ct)
	}

	reader := bufio.NewReader(resp.Body)
	event, data, err := readSSEEvent(reader)
	if err != nil {
		resp.Body.Close()
		t.Fatalf("Failed to read endpoint event: %v", err)
	}
	if event != "endpoint" {
		resp.Body.Close()
		t.Fatalf("Expected endpoint event, got %s", event)
	}
	if !strings.HasPrefix(data, "/mcp/message?sessionId=") {
		resp.Body.Close()
		t.Fatalf("Expected message endpoint with session ID, got %s", data)
	}

	return resp, reader, data
}

// TestHTTPTransport_StartServer tests that the HTTP server starts and shuts down cleanly.
func TestHTTPTransport_StartServer(t *testing.T) {
	transport := NewHTTPTransport("localhost", 0, nil) // Port 0 for random available port

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := transport.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start HTTP transport: %v", err)
	}

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Clean up
	err = transport.Close()
	if err != nil {
		t.Fatalf("Failed to close transport: %v", err)
	}
}

// TestHTTPTransport_SSEHandshake tests that the SSE endpoint announces a
// per-session message endpoint.
func TestHTTPTransport_SSEHandshake(t *testing.T) {
	transport := NewHTTPTransport("localhost", 8765, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := transport.Start(ctx); err != nil {
		t.Fatalf("Failed to start HTTP transport: %v", err)
	}
	defer transport.Close()

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	resp, _, endpoint := dialSSE(t, "http://localhost:8765")
	defer resp.Body.Close()

	if !strings.Contains(endpoint, "session_") {
		t.Errorf("Expected generated session ID in endpoint, got %s", endpoint)
	}
}

// TestHTTPTransport_SSERejectsNonGET tests that the SSE endpoint only accepts GET.
func TestHTTPTransport_SSERejectsNonGET(t *testing.T) {
	transport := NewHTTPTransport("localhost", 8766, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := transport.Start(ctx); err != nil {
		t.Fatalf("Failed to start HTTP transport: %v", err)
	}
	defer transport.Close()

	time.Sleep(100 * time.Millisecond)

	resp, err := http.Post("http://localhost:8766/mcp", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("Failed to send HTTP request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp.StatusCode)
	}
}

// TestHTTPTransport_MessageRejectsNonPOST tests that the message endpoint only accepts POST.
func TestHTTPTransport_MessageRejectsNonPOST(t *testing.T) {
	transport := NewHTTPTransport("localhost", 8767, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := transport.Start(ctx); err != nil {
		t.Fatalf("Failed to start HTTP transport: %v", err)
	}
	defer transport.Close()

	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get("http://localhost:8767/mcp/message?sessionId=session_1")
	if err != nil {
		t.Fatalf("Failed to send HTTP request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp.StatusCode)
	}
}

// TestHTTPTransport_MessageRequiresSession tests session validation on the message endpoint.
func TestHTTPTransport_MessageRequiresSession(t *testing.T) {
	transport := NewHTTPTransport("localhost", 8768, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := transport.Start(ctx); err != nil {
		t.Fatalf("Failed to start HTTP transport: %v", err)
	}
	defer transport.Close()

	time.Sleep(100 * time.Millisecond)

	requestBody := `{"jsonrpc":"2.0","id":1,"method":"ping"}`

	// Missing sessionId parameter
	resp, err := http.Post("http://localhost:8768/mcp/message", "application/json", strings.NewReader(requestBody))
	if err != nil {
		t.Fatalf("Failed to send HTTP request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing session, got %d", resp.StatusCode)
	}

	// Unknown sessionId
	resp, err = http.Post("http://localhost:8768/mcp/message?sessionId=session_bogus", "application/json", strings.NewReader(requestBody))
	if err != nil {
		t.Fatalf("Failed to send HTTP request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown session, got %d", resp.StatusCode)
	}
}

// TestHTTPTransport_RequestResponseRoundTrip tests the full lifecycle: SSE
// handshake, POST request, response delivered over the stream.
func TestHTTPTransport_RequestResponseRoundTrip(t *testing.T) {
	transport := NewHTTPTransport("localhost", 8769, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := transport.Start(ctx); err != nil {
		t.Fatalf("Failed to start HTTP transport: %v", err)
	}
	defer transport.Close()

	time.Sleep(100 * time.Millisecond)

	resp, reader, endpoint := dialSSE(t, "http://localhost:8769")
	defer resp.Body.Close()

	// Answer the request when it arrives
	go func() {
		select {
		case req := <-transport.Receive():
			if req == nil {
				return
			}
			transport.Send(&Response{
				JSONRPC: "2.0",
				ID:      req.ID,
				Result:  map[string]string{"status": "initialized"},
			})
		case <-ctx.Done():
		}
	}()

	requestBody := `{"jsonrpc":"2.0","id":1,"method":"initialize"}`
	postResp, err := http.Post("http://localhost:8769"+endpoint, "application/json", strings.NewReader(requestBody))
	if err != nil {
		t.Fatalf("Failed to send HTTP request: %v", err)
	}
	postResp.Body.Close()

	if postResp.StatusCode != http.StatusAccepted {
		t.Errorf("Expected status 202 for accepted request, got %d", postResp.StatusCode)
	}

	// The response arrives as a message event on the SSE stream
	event, data, err := readSSEEvent(reader)
	if err != nil {
		t.Fatalf("Failed to read message event: %v", err)
	}
	if event != "message" {
		t.Errorf("Expected message event, got %s", event)
	}

	var jsonResp Response
	if err := json.Unmarshal([]byte(data), &jsonResp); err != nil {
		t.Fatalf("Failed to parse response from stream: %v", err)
	}
	if jsonResp.ID != float64(1) {
		t.Errorf("Expected ID 1, got %v", jsonResp.ID)
	}
	if jsonResp.Error != nil {
		t.Errorf("Expected no error, got %+v", jsonResp.Error)
	}
}

// TestHTTPTransport_MalformedJSON tests that parse errors are delivered over
// the session stream.
func TestHTTPTransport_MalformedJSON(t *testing.T) {
	transport := NewHTTPTransport("localhost", 8770, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := transport.Start(ctx); err != nil {
		t.Fatalf("Failed to start HTTP transport: %v", err)
	}
	defer transport.Close()

	time.Sleep(100 * time.Millisecond)

	resp, reader, endpoint := dialSSE(t, "http://localhost:8770")
	defer resp.Body.Close()

	postResp, err := http.Post("http://localhost:8770"+endpoint, "application/json", strings.NewReader(`{invalid json}`))
	if err != nil {
		t.Fatalf("Failed to send HTTP request: %v", err)
	}
	postResp.Body.Close()

	if postResp.StatusCode != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", postResp.StatusCode)
	}

	event, data, err := readSSEEvent(reader)
	if err != nil {
		t.Fatalf("Failed to read error event: %v", err)
	}
	if event != "message" {
		t.Errorf("Expected message event, got %s", event)
	}

	var jsonResp Response
	if err := json.Unmarshal([]byte(data), &jsonResp); err != nil {
		t.Fatalf("Failed to parse error response: %v", err)
	}
	if jsonResp.Error == nil {
		t.Fatal("Expected error in response")
	}
	if jsonResp.Error.Code != ParseError {
		t.Errorf("Expected error code %d, got %d", ParseError, jsonResp.Error.Code)
	}
}

// TestHTTPTransport_InvalidJSONRPCVersion tests version validation over the
// message endpoint.
func TestHTTPTransport_InvalidJSONRPCVersion(t *testing.T) {
	transport := NewHTTPTransport("localhost", 8771, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := transport.Start(ctx); err != nil {
		t.Fatalf("Failed to start HTTP transport: %v", err)
	}
	defer transport.Close()

	time.Sleep(100 * time.Millisecond)

	resp, reader, endpoint := dialSSE(t, "http://localhost:8771")
	defer resp.Body.Close()

	requestBody := `{"jsonrpc":"1.0","id":1,"method":"test"}`
	postResp, err := http.Post("http://localhost:8771"+endpoint, "application/json", strings.NewReader(requestBody))
	if err != nil {
		t.Fatalf("Failed to send HTTP request: %v", err)
	}
	postResp.Body.Close()

	event, data, err := readSSEEvent(reader)
	if err != nil {
		t.Fatalf("Failed to read error event: %v", err)
	}
	if event != "message" {
		t.Errorf("Expected message event, got %s", event)
	}

	var jsonResp Response
	if err := json.Unmarshal([]byte(data), &jsonResp); err != nil {
		t.Fatalf("Failed to parse error response: %v", err)
	}
	if jsonResp.Error == nil {
		t.Fatal("Expected error in response")
	}
	if jsonResp.Error.Code != InvalidRequest {
		t.Errorf("Expected error code %d, got %d", InvalidRequest, jsonResp.Error.Code)
	}
}

// TestHTTPTransport_SendWithoutSessions tests that Send fails when no client
// is connected.
func TestHTTPTransport_SendWithoutSessions(t *testing.T) {
	transport := NewHTTPTransport("localhost", 8772, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := transport.Start(ctx); err != nil {
		t.Fatalf("Failed to start HTTP transport: %v", err)
	}
	defer transport.Close()

	time.Sleep(100 * time.Millisecond)

	err := transport.Send(&Response{JSONRPC: "2.0", ID: 1, Result: "ok"})
	if err == nil {
		t.Error("Expected error when sending with no active sessions")
	}
}

// TestHTTPTransport_Close tests graceful shutdown of the HTTP server.
func TestHTTPTransport_Close(t *testing.T) {
	transport := NewHTTPTransport("localhost", 8773, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := transport.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start HTTP transport: %v", err)
	}

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Close the transport
	err = transport.Close()
	if err != nil {
		t.Fatalf("Failed to close transport: %v", err)
	}

	// Sending after close should fail
	response := &Response{
		JSONRPC: "2.0",
		ID:      1,
		Result:  "ok",
	}
	err = transport.Send(response)
	if err == nil {
		t.Error("Expected error when sending after close")
	}

	// Server should no longer accept connections
	time.Sleep(100 * time.Millisecond)
	_, err = http.Get("http://localhost:8773/mcp")
	if err == nil {
		t.Error("Expected error when connecting to closed server")
	}
}

// TestHTTPTransport_StartAfterClose tests that starting after close fails.
func TestHTTPTransport_StartAfterClose(t *testing.T) {
	transport := NewHTTPTransport("localhost", 8774, nil)

	ctx := context.Background()

	err := transport.Close()
	if err != nil {
		t.Fatalf("Failed to close transport: %v", err)
	}

	err = transport.Start(ctx)
	if err == nil {
		t.Error("Expected error when starting after close")
	}
}

// TestHTTPTransport_ContextCancellation tests that context cancellation stops the server.
func TestHTTPTransport_ContextCancellation(t *testing.T) {
	transport := NewHTTPTransport("localhost", 8775, nil)

	ctx, cancel := context.WithCancel(context.Background())

	err := transport.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start HTTP transport: %v", err)
	}

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Verify the server is up
	resp, _, _ := dialSSE(t, "http://localhost:8775")
	resp.Body.Close()

	// Cancel the context
	cancel()

	// Give the server time to shut down
	time.Sleep(200 * time.Millisecond)

	// Server should no longer accept connections
	_, err = http.Get("http://localhost:8775/mcp")
	if err == nil {
		t.Error("Expected error when connecting to cancelled server")
	}
}

// TestHTTPTransport_ConfiguredHostAndPort tests that the server listens where configured.
func TestHTTPTransport_ConfiguredHostAndPort(t *testing.T) {
	testCases := []struct {
		name string
		host string
		port int
	}{
		{
			name: "localhost with specific port",
			host: "localhost",
			port: 8776,
		},
		{
			name: "127.0.0.1 with specific port",
			host: "127.0.0.1",
			port: 8777,
		},
		{
			name: "empty host binds all interfaces",
			host: "",
			port: 8778,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			transport := NewHTTPTransport(tc.host, tc.port, nil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err := transport.Start(ctx)
			if err != nil {
				t.Fatalf("Failed to start HTTP transport: %v", err)
			}
			defer transport.Close()

			// Give the server a moment to start
			time.Sleep(100 * time.Millisecond)

			connectHost := tc.host
			if connectHost == "" {
				connectHost = "localhost"
			}

			resp, _, endpoint := dialSSE(t, fmt.Sprintf("http://%s:%d", connectHost, tc.port))
			resp.Body.Close()

			if !strings.HasPrefix(endpoint, "/mcp/message?sessionId=") {
				t.Errorf("Expected message endpoint, got %s", endpoint)
			}
		})
	}
}

// TestHTTPTransport_PortAlreadyInUse tests that a bind conflict leaves the
// first server serving.
func TestHTTPTransport_PortAlreadyInUse(t *testing.T) {
	transport1 := NewHTTPTransport("localhost", 8779, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := transport1.Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start first HTTP transport: %v", err)
	}
	defer transport1.Close()

	// Give the server a moment to start and bind the port
	time.Sleep(200 * time.Millisecond)

	// Second transport on the same port fails to bind asynchronously
	transport2 := NewHTTPTransport("localhost", 8779, nil)
	_ = transport2.Start(ctx)
	time.Sleep(200 * time.Millisecond)
	defer transport2.Close()

	// The first transport still answers
	resp, _, endpoint := dialSSE(t, "http://localhost:8779")
	resp.Body.Close()

	if !strings.HasPrefix(endpoint, "/mcp/message?sessionId=") {
		t.Errorf("Expected first transport to keep serving, got endpoint %s", endpoint)
	}
}
