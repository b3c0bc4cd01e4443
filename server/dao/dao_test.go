package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_EffectiveMaxDocuments(t *testing.T) {
	testCases := []struct {
		name     string
		user     User
		expected int
	}{
		{
			name:     "normal user with no quota set gets the default",
			user:     User{Role: Normal},
			expected: DefaultMaxDocuments,
		},
		{
			name:     "normal user with an explicit quota keeps it",
			user:     User{Role: Normal, MaxDocuments: 3},
			expected: 3,
		},
		{
			name:     "admin is always unlimited regardless of stored value",
			user:     User{Role: Admin, MaxDocuments: 3},
			expected: 0,
		},
		{
			name:     "admin with no stored value is still unlimited",
			user:     User{Role: Admin},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.user.EffectiveMaxDocuments())
		})
	}
}
