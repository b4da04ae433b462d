package domain

import "encoding/json"

// ConfluencePage represents a Confluence content entity. Pages and page
// comments share this shape; comments carry type "comment". Sub-objects
// are pointers because their presence depends on the expand parameter.
type ConfluencePage struct {
	ID      json.Number `json:"id"`
	Type    string      `json:"type"`
	Status  string      `json:"status,omitempty"`
	Title   string      `json:"title"`
	Space   *Space      `json:"space,omitempty"`
	Body    *Body       `json:"body,omitempty"`
	Version *Version    `json:"version,omitempty"`
	Links   *Links      `json:"_links,omitempty"`
}

// Links carries the hypermedia links Confluence attaches to content.
// WebUI is relative to the site base URL.
type Links struct {
	WebUI string `json:"webui,omitempty"`
	Self  string `json:"self,omitempty"`
	Base  string `json:"base,omitempty"`
}

// Space represents a Confluence space.
type Space struct {
	ID    json.Number `json:"id"`
	Key   string      `json:"key"`
	Name  string      `json:"name"`
	Type  string      `json:"type,omitempty"`
	Links *Links      `json:"_links,omitempty"`
}

// Body represents the body content of a Confluence page.
type Body struct {
	Storage Storage `json:"storage"`
}

// Storage represents the storage format of page content.
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// Version represents the version information of a Confluence page.
type Version struct {
	Number int    `json:"number"`
	When   string `json:"when,omitempty"`
	By     *User  `json:"by,omitempty"`
}

// PageList is the Confluence page shape for content listings, used for
// both page and comment children.
type PageList struct {
	Results []ConfluencePage `json:"results"`
	Start   int              `json:"start"`
	Limit   int              `json:"limit"`
	Size    int              `json:"size"`
	Links   *Links           `json:"_links,omitempty"`
}

// SpaceList is the Confluence page shape for space listings.
type SpaceList struct {
	Results []Space `json:"results"`
	Start   int     `json:"start"`
	Limit   int     `json:"limit"`
	Size    int     `json:"size"`
}

// ContentCreate represents the request body for creating content.
// Pages set Title and Space; comments set Container instead.
type ContentCreate struct {
	Type      string        `json:"type"`
	Title     string        `json:"title,omitempty"`
	Space     *SpaceRef     `json:"space,omitempty"`
	Container *ContainerRef `json:"container,omitempty"`
	Body      BodyCreate    `json:"body"`
}

// SpaceRef is a reference to a space (used in create/update operations).
type SpaceRef struct {
	Key string `json:"key"`
}

// ContainerRef is a reference to the content a comment attaches to.
type ContainerRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// BodyCreate represents the body content for creating a page.
type BodyCreate struct {
	Storage StorageCreate `json:"storage"`
}

// StorageCreate represents the storage format for creating page content.
type StorageCreate struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// PageUpdate represents the request body for updating a Confluence page.
// The version number must be the current version plus one.
type PageUpdate struct {
	Version VersionUpdate `json:"version"`
	Title   string        `json:"title,omitempty"`
	Type    string        `json:"type,omitempty"`
	Body    *BodyCreate   `json:"body,omitempty"`
}

// VersionUpdate represents the version information for updating a page.
type VersionUpdate struct {
	Number int `json:"number"`
}

// SearchResult is one hit of a CQL search. Content is nil for hits that
// are not content entities (e.g. space results).
type SearchResult struct {
	Content *ConfluencePage `json:"content,omitempty"`
	Title   string          `json:"title,omitempty"`
	Excerpt string          `json:"excerpt,omitempty"`
	URL     string          `json:"url,omitempty"`
}

// SearchResults is the response shape of the Confluence search API.
// Unlike content listings it reports a grand total via totalSize.
type SearchResults struct {
	Results   []SearchResult `json:"results"`
	Start     int            `json:"start"`
	Limit     int            `json:"limit"`
	Size      int            `json:"size"`
	TotalSize int            `json:"totalSize"`
}
