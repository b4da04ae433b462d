package domain

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// PageParams holds normalized pagination parameters for list operations.
// Limit is always positive and Offset is always non-negative.
type PageParams struct {
	Limit  int
	Offset int
}

// ExtractPageParams derives pagination parameters from raw tool arguments.
// A value may be absent, a scalar (number or numeric string), or an array
// whose first element is used, the shape multi-valued query parameters
// arrive in. Anything that does not parse to a positive limit or a
// non-negative offset degrades to the supplied default instead of failing
// the call. This function never returns an error.
func ExtractPageParams(args map[string]any, defaultLimit, defaultOffset int) PageParams {
	params := PageParams{
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}

	if limit, ok := intFromParam(args["limit"]); ok && limit > 0 {
		params.Limit = limit
	}
	if offset, ok := intFromParam(args["offset"]); ok && offset >= 0 {
		params.Offset = offset
	}

	return params
}

// PageParamsFromQuery derives pagination parameters from a resource URI's
// query component. Repeated query parameters are handled the same way as
// array-valued tool arguments: the first value wins.
func PageParamsFromQuery(query url.Values, defaultLimit, defaultOffset int) PageParams {
	args := make(map[string]any, 2)
	if values, ok := query["limit"]; ok {
		args["limit"] = values
	}
	if values, ok := query["offset"]; ok {
		args["offset"] = values
	}
	return ExtractPageParams(args, defaultLimit, defaultOffset)
}

// intFromParam coerces a raw parameter value to an integer. Arrays collapse
// to their first element; numeric strings are parsed; fractional numbers
// truncate. The second return value is false when no integer could be
// derived.
func intFromParam(value any) (int, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		parsed, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, false
		}
		return parsed, true
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return parsed, true
	case []any:
		if len(v) == 0 {
			return 0, false
		}
		return intFromParam(v[0])
	case []string:
		if len(v) == 0 {
			return 0, false
		}
		return intFromParam(v[0])
	default:
		return 0, false
	}
}
