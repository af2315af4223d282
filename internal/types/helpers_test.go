package types

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name           string
		profileSetting string
		accountSetting string
		fallback       string
		want           string
	}{
		{"profile wins", "America/New_York", "Europe/Berlin", "UTC", "America/New_York"},
		{"account when profile empty", "", "Europe/Berlin", "UTC", "Europe/Berlin"},
		{"fallback when both empty", "", "", "UTC", "UTC"},
		{"empty fallback allowed", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.profileSetting, tt.accountSetting, tt.fallback))
		})
	}
}

func TestScope(t *testing.T) {
	personal := ScopePersonal()
	business := ScopeBusiness("prof_1")

	assert.True(t, personal.IsPersonal())
	assert.False(t, business.IsPersonal())
	assert.False(t, personal.Equal(business))
	assert.True(t, business.Equal(ScopeBusiness("prof_1")))
	assert.False(t, business.Equal(ScopeBusiness("prof_2")))

	_, ok := personal.ProfileID()
	assert.False(t, ok)
	id, ok := business.ProfileID()
	assert.True(t, ok)
	assert.Equal(t, "prof_1", id)

	assert.Nil(t, personal.ProfileIDOrNil())
	assert.Equal(t, "prof_1", *business.ProfileIDOrNil())

	assert.Equal(t, "personal", personal.String())
	assert.Equal(t, "business:prof_1", business.String())
}

func TestScopeFromProfileID(t *testing.T) {
	assert.True(t, ScopeFromProfileID(nil).IsPersonal())
	assert.True(t, ScopeFromProfileID(lo.ToPtr("")).IsPersonal())
	assert.True(t, ScopeFromProfileID(lo.ToPtr("prof_1")).Equal(ScopeBusiness("prof_1")))
}
