package application

import (
	"net/url"
	"strconv"
	"strings"

	"atlassian-cloud-mcp-server/internal/domain"
)

// listURI renders the canonical resource URI of a listing, e.g.
// jira://boards/5/sprints?limit=50&offset=0. Pagination links in list
// metadata are derived from this URI.
func listURI(scheme, path string, query url.Values) string {
	uri := scheme + "://" + path
	if encoded := query.Encode(); encoded != "" {
		uri = uri + "?" + encoded
	}
	return uri
}

// setListQuery stamps the normalized pagination window onto a listing
// query so the canonical URI is always explicit about its window.
func setListQuery(query url.Values, page domain.PageParams) {
	query.Set("limit", strconv.Itoa(page.Limit))
	query.Set("offset", strconv.Itoa(page.Offset))
}

// resourceSegments splits a resource URI into its path segments. The
// first segment is the URI host (jira://boards/5 parses with host
// "boards" and path "/5").
func resourceSegments(u *url.URL) []string {
	segments := make([]string, 0, 4)
	if u.Host != "" {
		segments = append(segments, u.Host)
	}
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// agileTotal derives the total for agile listings. Some deployments omit
// the total on sprint pages; isLast is authoritative there, and a
// non-final page reports one more than seen so far so that hasMore holds.
func agileTotal(total, startAt, count int, isLast bool) int {
	if total > 0 {
		return total
	}
	if isLast {
		return startAt + count
	}
	return startAt + count + 1
}

// contentTotal derives the total for Confluence content listings, which
// report no grand total. A page shorter than the limit is final; a full
// page reports one more than seen so far so that hasMore holds.
func contentTotal(start, size, limit int) int {
	if size < limit {
		return start + size
	}
	return start + size + 1
}

// effectiveLimit prefers the limit the server echoed back, which may be
// smaller than the requested one when the server clamps page sizes.
func effectiveLimit(serverLimit, requestedLimit int) int {
	if serverLimit > 0 {
		return serverLimit
	}
	return requestedLimit
}
