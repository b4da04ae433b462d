package infrastructure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"atlassian-cloud-mcp-server/internal/domain"
)

// atlassianErrorBody covers the error payload shapes the Jira and
// Confluence REST APIs produce. Jira reports errorMessages and a
// field-keyed errors map; Confluence reports message plus reason.
type atlassianErrorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
	Message       string            `json:"message"`
	Reason        string            `json:"reason"`
	ErrorKey      string            `json:"errorKey"`
}

// checkStatus classifies a non-2xx response into a *domain.APIError,
// extracting the human message and optional machine code from the body.
// Returns nil for 2xx responses without touching the body.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	message, code := errorDetails(resp.StatusCode, body)

	if code != "" {
		return domain.NewAPIErrorWithCode(domain.KindFromStatus(resp.StatusCode), message, resp.StatusCode, code)
	}
	return domain.ErrorFromStatus(resp.StatusCode, message)
}

// errorDetails extracts a message and optional error code from an
// Atlassian error body. Unparseable bodies fall back to the raw body
// text, then to the standard status text.
func errorDetails(statusCode int, body []byte) (message, code string) {
	var parsed atlassianErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		code = parsed.ErrorKey
		if code == "" {
			code = parsed.Reason
		}

		switch {
		case len(parsed.ErrorMessages) > 0:
			return parsed.ErrorMessages[0], code
		case len(parsed.Errors) > 0:
			return joinFieldErrors(parsed.Errors), code
		case parsed.Message != "":
			return parsed.Message, code
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text, code
	}
	return http.StatusText(statusCode), code
}

// joinFieldErrors renders a Jira field-error map deterministically.
func joinFieldErrors(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, fields[key]))
	}
	return strings.Join(parts, "; ")
}

// decodeBody decodes a 2xx response body into out. An empty or non-JSON
// body is treated as a plain success marker and leaves out untouched:
// several Atlassian endpoints return 204 or non-JSON acknowledgements
// and those calls must still succeed.
func decodeBody(resp *http.Response, out interface{}) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	_ = json.Unmarshal(data, out)
	return nil
}

// transportError wraps a failure to reach the remote API at all.
func transportError(err error) *domain.APIError {
	return domain.NewAPIError(domain.ErrorKindNetwork, err.Error())
}
