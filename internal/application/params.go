package application

import (
	"fmt"
	"strconv"

	"atlassian-cloud-mcp-server/internal/domain"
)

// getStringParam extracts a string parameter from the arguments map.
// Returns a validation error if the parameter is required but missing,
// or present but not a string.
func getStringParam(args map[string]interface{}, name string, required bool) (string, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return "", domain.NewAPIError(domain.ErrorKindValidation,
				fmt.Sprintf("missing required parameter: %s", name))
		}
		return "", nil
	}

	strValue, ok := value.(string)
	if !ok {
		return "", domain.NewAPIError(domain.ErrorKindValidation,
			fmt.Sprintf("parameter %s must be a string", name))
	}

	return strValue, nil
}

// getIDParam extracts an identifier parameter from the arguments map.
// Atlassian IDs are numeric but travel as either JSON strings or numbers
// depending on the client; both are normalized to the string form.
func getIDParam(args map[string]interface{}, name string, required bool) (string, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return "", domain.NewAPIError(domain.ErrorKindValidation,
				fmt.Sprintf("missing required parameter: %s", name))
		}
		return "", nil
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatInt(int64(v), 10), nil
	case int:
		return strconv.Itoa(v), nil
	default:
		return "", domain.NewAPIError(domain.ErrorKindValidation,
			fmt.Sprintf("parameter %s must be a string or number", name))
	}
}

// getIntParam extracts an integer parameter from the arguments map.
// JSON numbers arrive as float64; both float64 and int are accepted.
// Returns a validation error if the parameter is required but missing,
// or present with a non-numeric type.
func getIntParam(args map[string]interface{}, name string, required bool) (int, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return 0, domain.NewAPIError(domain.ErrorKindValidation,
				fmt.Sprintf("missing required parameter: %s", name))
		}
		return 0, nil
	}

	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, domain.NewAPIError(domain.ErrorKindValidation,
			fmt.Sprintf("parameter %s must be an integer", name))
	}
}

// getStringSliceParam extracts a string array parameter from the arguments
// map. JSON arrays arrive as []interface{}; every element must be a string.
// Returns a validation error if the parameter is required but missing or
// empty, or contains non-string elements.
func getStringSliceParam(args map[string]interface{}, name string, required bool) ([]string, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return nil, domain.NewAPIError(domain.ErrorKindValidation,
				fmt.Sprintf("missing required parameter: %s", name))
		}
		return nil, nil
	}

	rawValues, ok := value.([]interface{})
	if !ok {
		return nil, domain.NewAPIError(domain.ErrorKindValidation,
			fmt.Sprintf("parameter %s must be an array of strings", name))
	}

	values := make([]string, 0, len(rawValues))
	for _, raw := range rawValues {
		strValue, ok := raw.(string)
		if !ok {
			return nil, domain.NewAPIError(domain.ErrorKindValidation,
				fmt.Sprintf("parameter %s must be an array of strings", name))
		}
		values = append(values, strValue)
	}

	if required && len(values) == 0 {
		return nil, domain.NewAPIError(domain.ErrorKindValidation,
			fmt.Sprintf("parameter %s must not be empty", name))
	}

	return values, nil
}
