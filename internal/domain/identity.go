package domain

import "strings"

// UnknownUserName is stored when a caller has neither a first nor a last name.
const UnknownUserName = "Unknown User"

// Identity is the verified caller of a request.
type Identity struct {
	UserID    string
	OrgID     string
	FirstName string
	LastName  string
	ImageURL  *string
}

// DisplayName joins first and last name, falling back to UnknownUserName.
func (i Identity) DisplayName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return UnknownUserName
	}
	return name
}

// HasOrg reports whether the identity is bound to an organization.
func (i Identity) HasOrg() bool {
	return i.OrgID != ""
}

// IsResolved reports whether both user and organization are known.
func (i Identity) IsResolved() bool {
	return i.UserID != "" && i.OrgID != ""
}
