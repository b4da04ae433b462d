package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestGopterSetup verifies that gopter is properly configured.
// This is a simple property test to ensure the testing framework is working.
func TestGopterSetup(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Property: AuthType round-trip conversion
	// For any valid auth type string, parsing and converting back should be idempotent
	properties.Property("AuthType string conversion is consistent", prop.ForAll(
		func(authType string) bool {
			parsed := ParseAuthType(authType)
			// For valid types, round-trip should work
			if authType == "basic" || authType == "token" {
				return parsed.String() == authType
			}
			// For invalid types, should default to basic
			return parsed == BasicAuth
		},
		gen.OneConstOf("basic", "token", "invalid", ""),
	))

	properties.TestingRun(t)
}

// TestProperty_StatusClassificationIsTotal verifies that the status code
// classification is total: any integer, however nonsensical, maps to
// exactly one member of the closed kind set, and the anchored codes map
// to their documented kinds.
func TestProperty_StatusClassificationIsTotal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	knownKinds := map[ErrorKind]bool{
		ErrorKindValidation:     true,
		ErrorKindAuthentication: true,
		ErrorKindPermission:     true,
		ErrorKindNotFound:       true,
		ErrorKindConflict:       true,
		ErrorKindRateLimit:      true,
		ErrorKindServer:         true,
		ErrorKindNetwork:        true,
		ErrorKindUnknown:        true,
	}

	properties.Property("every status code yields a known kind", prop.ForAll(
		func(status int) bool {
			return knownKinds[KindFromStatus(status)]
		},
		gen.IntRange(-1000, 1000),
	))

	properties.Property("every 5xx status is a server error", prop.ForAll(
		func(status int) bool {
			return KindFromStatus(status) == ErrorKindServer
		},
		gen.IntRange(500, 599),
	))

	properties.Property("unmapped 4xx statuses are unknown", prop.ForAll(
		func(status int) bool {
			switch status {
			case 400, 401, 403, 404, 409, 429:
				return true // mapped separately
			}
			return KindFromStatus(status) == ErrorKindUnknown
		},
		gen.IntRange(400, 499),
	))

	properties.Property("classification carries the status onto the error", prop.ForAll(
		func(status int, message string) bool {
			err := ErrorFromStatus(status, message)
			return err.StatusCode == status && err.Message == message && err.Kind == KindFromStatus(status)
		},
		gen.IntRange(100, 599),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestProperty_PaginationExtractionNeverFails verifies that pagination
// extraction is total over arbitrary raw input: whatever shape or value a
// caller supplies, the result is a positive limit and a non-negative
// offset, with invalid input degrading to the defaults.
func TestProperty_PaginationExtractionNeverFails(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Generator covering the shapes tool arguments actually arrive in:
	// numbers, strings, booleans, and array-wrapped variants.
	rawValue := gen.OneGenOf(
		gen.Int().Map(func(v int) interface{} { return v }),
		gen.Float64().Map(func(v float64) interface{} { return v }),
		gen.AnyString().Map(func(v string) interface{} { return v }),
		gen.Int().Map(func(v int) interface{} { return strconv.Itoa(v) }),
		gen.Int().Map(func(v int) interface{} { return []interface{}{v} }),
		gen.Int().Map(func(v int) interface{} { return []string{strconv.Itoa(v)} }),
		gen.Bool().Map(func(v bool) interface{} { return v }),
	)

	properties.Property("result always satisfies the window invariants", prop.ForAll(
		func(limit, offset interface{}) bool {
			params := ExtractPageParams(map[string]any{"limit": limit, "offset": offset}, 20, 0)
			return params.Limit > 0 && params.Offset >= 0
		},
		rawValue,
		rawValue,
	))

	properties.Property("valid numeric strings are honoured", prop.ForAll(
		func(limit, offset int) bool {
			params := ExtractPageParams(map[string]any{
				"limit":  strconv.Itoa(limit),
				"offset": strconv.Itoa(offset),
			}, 20, 0)
			wantLimit := 20
			if limit > 0 {
				wantLimit = limit
			}
			wantOffset := 0
			if offset >= 0 {
				wantOffset = offset
			}
			return params.Limit == wantLimit && params.Offset == wantOffset
		},
		gen.IntRange(-100, 1000),
		gen.IntRange(-100, 1000),
	))

	properties.Property("extraction is idempotent", prop.ForAll(
		func(limit, offset interface{}) bool {
			first := ExtractPageParams(map[string]any{"limit": limit, "offset": offset}, 20, 0)
			second := ExtractPageParams(map[string]any{"limit": first.Limit, "offset": first.Offset}, 20, 0)
			return first == second
		},
		rawValue,
		rawValue,
	))

	properties.TestingRun(t)
}

// TestProperty_MetadataLinkAlgebra verifies the relationship between the
// window and its links: a next link exists exactly while further items
// remain, a previous link exists exactly when the window is not anchored
// at the start, and both links rewrite only the offset parameter.
func TestProperty_MetadataLinkAlgebra(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	linkOffset := func(link string) (int, bool) {
		parsed, err := url.Parse(link)
		if err != nil {
			return 0, false
		}
		offset, err := strconv.Atoi(parsed.Query().Get("offset"))
		if err != nil {
			return 0, false
		}
		return offset, true
	}

	properties.Property("links exist exactly when their window exists", prop.ForAll(
		func(total, limit, offset int) bool {
			uri := fmt.Sprintf("jira://boards?limit=%d&offset=%d", limit, offset)
			meta := BuildListMetadata(total, limit, offset, uri, "")

			if meta.HasMore != (offset+limit < total) {
				return false
			}
			if (meta.Next != "") != meta.HasMore {
				return false
			}
			return (meta.Previous != "") == (offset > 0)
		},
		gen.IntRange(0, 500),
		gen.IntRange(1, 100),
		gen.IntRange(0, 500),
	))

	properties.Property("next advances by limit, previous clamps at zero", prop.ForAll(
		func(total, limit, offset int) bool {
			uri := fmt.Sprintf("jira://boards?limit=%d&offset=%d", limit, offset)
			meta := BuildListMetadata(total, limit, offset, uri, "")

			if meta.Next != "" {
				got, ok := linkOffset(meta.Next)
				if !ok || got != offset+limit {
					return false
				}
			}
			if meta.Previous != "" {
				want := offset - limit
				if want < 0 {
					want = 0
				}
				got, ok := linkOffset(meta.Previous)
				if !ok || got != want {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 500),
		gen.IntRange(1, 100),
		gen.IntRange(0, 500),
	))

	properties.Property("window fields pass through unchanged", prop.ForAll(
		func(total, limit, offset int) bool {
			uri := fmt.Sprintf("jira://boards?limit=%d&offset=%d", limit, offset)
			meta := BuildListMetadata(total, limit, offset, uri, "")
			return meta.Total == total && meta.Limit == limit && meta.Offset == offset && meta.URI == uri
		},
		gen.IntRange(0, 500),
		gen.IntRange(1, 100),
		gen.IntRange(0, 500),
	))

	properties.TestingRun(t)
}

// TestProperty_FailureEnvelopeSpreadsClassification verifies that a
// classified failure always surfaces its kind, status and machine code in
// the envelope, while generic failures surface the message alone.
func TestProperty_FailureEnvelopeSpreadsClassification(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("classified failures spread kind, status and code", prop.ForAll(
		func(kind ErrorKind, message string, status int, code string) bool {
			env := FailureEnvelope(NewAPIErrorWithCode(kind, message, status, code))
			return !env.Success &&
				env.Message == message &&
				env.Type == kind &&
				env.StatusCode == status &&
				env.Code == code
		},
		gen.OneConstOf(
			ErrorKindValidation, ErrorKindAuthentication, ErrorKindPermission,
			ErrorKindNotFound, ErrorKindConflict, ErrorKindRateLimit,
			ErrorKindServer, ErrorKindNetwork, ErrorKindUnknown,
		),
		gen.AnyString(),
		gen.IntRange(400, 599),
		gen.Identifier(),
	))

	properties.Property("plain messages carry no classification", prop.ForAll(
		func(message string) bool {
			env := FailureMessage(message)
			return !env.Success &&
				env.Message == message &&
				env.Type == "" &&
				env.StatusCode == 0 &&
				env.Code == ""
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
