package domain

import (
	"encoding/json"
	"fmt"
)

// FlexibleID is a type that can unmarshal both string and numeric IDs from JSON.
type FlexibleID string

// UnmarshalJSON implements custom unmarshaling to handle both string and numeric IDs.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	// Try to unmarshal as string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleID(s)
		return nil
	}

	// Try to unmarshal as number
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleID(n.String())
		return nil
	}

	return fmt.Errorf("id must be a string or number")
}

// String returns the string representation of the ID.
func (f FlexibleID) String() string {
	return string(f)
}

// Board represents a Jira agile board.
// Boards are the entry point of the agile API: sprints, backlog and board
// issues all hang off a board.
type Board struct {
	ID       FlexibleID     `json:"id"`
	Self     string         `json:"self,omitempty"`
	Name     string         `json:"name"`
	Type     string         `json:"type"` // "scrum", "kanban" or "simple"
	Location *BoardLocation `json:"location,omitempty"`
}

// BoardLocation identifies the project (or user) a board belongs to.
type BoardLocation struct {
	ProjectID   FlexibleID `json:"projectId,omitempty"`
	ProjectKey  string     `json:"projectKey,omitempty"`
	ProjectName string     `json:"projectName,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

// BoardList is the agile API page shape for board listings.
type BoardList struct {
	MaxResults int     `json:"maxResults"`
	StartAt    int     `json:"startAt"`
	Total      int     `json:"total"`
	IsLast     bool    `json:"isLast"`
	Values     []Board `json:"values"`
}

// Sprint represents a Jira sprint.
type Sprint struct {
	ID            FlexibleID `json:"id"`
	Self          string     `json:"self,omitempty"`
	State         string     `json:"state"` // "future", "active" or "closed"
	Name          string     `json:"name"`
	StartDate     string     `json:"startDate,omitempty"`
	EndDate       string     `json:"endDate,omitempty"`
	CompleteDate  string     `json:"completeDate,omitempty"`
	OriginBoardID int        `json:"originBoardId,omitempty"`
	Goal          string     `json:"goal,omitempty"`
}

// SprintList is the agile API page shape for sprint listings.
// Some deployments omit total; consumers fall back to startAt plus the
// page size in that case.
type SprintList struct {
	MaxResults int      `json:"maxResults"`
	StartAt    int      `json:"startAt"`
	Total      int      `json:"total,omitempty"`
	IsLast     bool     `json:"isLast"`
	Values     []Sprint `json:"values"`
}

// SprintCreate represents the request body for creating a new sprint.
type SprintCreate struct {
	Name          string `json:"name"`
	OriginBoardID int    `json:"originBoardId"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
	Goal          string `json:"goal,omitempty"`
}

// IssueMove represents the request body for moving issues into a sprint.
type IssueMove struct {
	Issues []string `json:"issues"`
}

// JiraIssue represents a Jira issue with all its fields.
// This is the main entity returned by issue-level operations.
type JiraIssue struct {
	ID     FlexibleID `json:"id"`
	Key    string     `json:"key"`
	Self   string     `json:"self,omitempty"`
	Fields JiraFields `json:"fields"`
}

// JiraFields contains all the field data for a Jira issue.
type JiraFields struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	IssueType   IssueType `json:"issuetype"`
	Project     Project   `json:"project"`
	Status      Status    `json:"status"`
	Assignee    *User     `json:"assignee,omitempty"`
	Reporter    *User     `json:"reporter,omitempty"`
	Sprint      *Sprint   `json:"sprint,omitempty"`
	Created     string    `json:"created,omitempty"`
	Updated     string    `json:"updated,omitempty"`
}

// IssueType represents a Jira issue type (e.g., Bug, Story, Task).
type IssueType struct {
	ID   FlexibleID `json:"id"`
	Name string     `json:"name"`
}

// Project represents a Jira project.
type Project struct {
	ID   FlexibleID `json:"id"`
	Key  string     `json:"key"`
	Name string     `json:"name"`
}

// Status represents a Jira issue status (e.g., Open, In Progress, Done).
type Status struct {
	ID   FlexibleID `json:"id"`
	Name string     `json:"name"`
}

// User represents an Atlassian Cloud user.
type User struct {
	AccountID    string `json:"accountId,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// IssueList is the page shape shared by backlog, board issue, sprint issue
// and JQL search responses.
type IssueList struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	Issues     []JiraIssue `json:"issues"`
}

// Comment represents a comment on a Jira issue.
type Comment struct {
	ID      FlexibleID `json:"id"`
	Author  *User      `json:"author,omitempty"`
	Body    string     `json:"body"`
	Created string     `json:"created,omitempty"`
	Updated string     `json:"updated,omitempty"`
}

// CommentList is the page shape of issue comment listings.
type CommentList struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Comments   []Comment `json:"comments"`
}

// CommentCreate represents the request body for adding an issue comment.
type CommentCreate struct {
	Body string `json:"body"`
}
