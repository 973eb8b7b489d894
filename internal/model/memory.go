// Package model defines the core memory data types.
package model

// Memory types.
const (
	TypeRule     = "rule"
	TypeDecision = "decision"
	TypeFact     = "fact"
	TypeNote     = "note"
	TypeSkill    = "skill"
)

// Memory scopes.
const (
	ScopeGlobal  = "global"
	ScopeProject = "project"
)

// Memory represents a stored memory entry as handed to the insights engine.
// Timestamps are ISO-8601 strings; UpdatedAt may be empty.
type Memory struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	Tags      *string `json:"tags"`
	Type      string  `json:"type"`
	Scope     string  `json:"scope"`
	ProjectID *string `json:"project_id"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// TagsString returns the raw tags field, or "" when it is null.
func (m Memory) TagsString() string {
	if m.Tags == nil {
		return ""
	}
	return *m.Tags
}

// Project returns the project id, or "" when it is null.
func (m Memory) Project() string {
	if m.ProjectID == nil {
		return ""
	}
	return *m.ProjectID
}

// ValidTypes are the allowed memory types.
var ValidTypes = map[string]bool{
	TypeRule:     true,
	TypeDecision: true,
	TypeFact:     true,
	TypeNote:     true,
	TypeSkill:    true,
}

// ValidScopes are the allowed memory scopes.
var ValidScopes = map[string]bool{
	ScopeGlobal:  true,
	ScopeProject: true,
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
