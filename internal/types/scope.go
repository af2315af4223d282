package types

import "fmt"

// Scope is the mutually exclusive partition under which a recurring invoice,
// customer or invoice exists: either the owner's personal/default scope or a
// single named business profile. The two scopes are never merged; a lookup in
// one scope never matches a document created in the other.
type Scope struct {
	profileID string
}

// ScopePersonal returns the personal/default scope
func ScopePersonal() Scope {
	return Scope{}
}

// ScopeBusiness returns the scope of the given business profile
func ScopeBusiness(profileID string) Scope {
	return Scope{profileID: profileID}
}

// ScopeFromProfileID maps a nullable profile ID onto a Scope; an empty or nil
// value means the personal scope.
func ScopeFromProfileID(profileID *string) Scope {
	if profileID == nil || *profileID == "" {
		return ScopePersonal()
	}
	return ScopeBusiness(*profileID)
}

// IsPersonal reports whether this is the personal/default scope
func (s Scope) IsPersonal() bool {
	return s.profileID == ""
}

// ProfileID returns the business profile ID and whether one is set
func (s Scope) ProfileID() (string, bool) {
	return s.profileID, s.profileID != ""
}

// ProfileIDOrNil returns the profile ID as a nullable string for persistence
func (s Scope) ProfileIDOrNil() *string {
	if s.profileID == "" {
		return nil
	}
	id := s.profileID
	return &id
}

func (s Scope) Equal(other Scope) bool {
	return s.profileID == other.profileID
}

func (s Scope) String() string {
	if s.IsPersonal() {
		return "personal"
	}
	return fmt.Sprintf("business:%s", s.profileID)
}
