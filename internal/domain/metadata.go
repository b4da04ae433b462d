package domain

import (
	"net/url"
	"strconv"
)

// ListMetadata describes the window a list response covers and how to reach
// the neighbouring windows. Next and Previous are absolute URIs derived from
// the request URI with only the offset parameter rewritten.
type ListMetadata struct {
	Total    int    `json:"total"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	URI      string `json:"uri"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	HasMore  bool   `json:"hasMore"`
	UIURL    string `json:"uiUrl,omitempty"`
}

// BuildListMetadata assembles pagination metadata for a list response.
// The next link exists only while further items remain, the previous link
// only when the window is not anchored at the start. uiURL is optional and
// passed through untouched when non-empty.
func BuildListMetadata(total, limit, offset int, uri, uiURL string) *ListMetadata {
	meta := &ListMetadata{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		URI:     uri,
		HasMore: offset+limit < total,
		UIURL:   uiURL,
	}

	if meta.HasMore {
		meta.Next = uriWithOffset(uri, offset+limit)
	}
	if offset > 0 {
		previous := offset - limit
		if previous < 0 {
			previous = 0
		}
		meta.Previous = uriWithOffset(uri, previous)
	}

	return meta
}

// uriWithOffset rewrites the offset query parameter of uri, leaving every
// other component intact. An unparseable uri is returned unchanged rather
// than poisoning the whole response.
func uriWithOffset(uri string, offset int) string {
	parsed, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	query := parsed.Query()
	query.Set("offset", strconv.Itoa(offset))
	parsed.RawQuery = query.Encode()

	return parsed.String()
}
