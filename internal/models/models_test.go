package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobPost_IsOpen(t *testing.T) {
	tests := []struct {
		name string
		post JobPost
		want bool
	}{
		{"open and active", JobPost{Status: JobStatusOpening, Active: true}, true},
		{"inactive", JobPost{Status: JobStatusOpening}, false},
		{"closed", JobPost{Status: JobStatusClosed, Active: true}, false},
		{"expired", JobPost{Status: JobStatusExpired, Active: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.post.IsOpen())
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleEmployer, RoleCandidate} {
		assert.True(t, ValidRole(role), role)
	}
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("candidate"))
}
