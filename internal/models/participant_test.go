package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := map[string]Role{
		"debater":   RoleDebater,
		"debate":    RoleDebater,
		" Verifier": RoleVerifier,
		"vera":      RoleVerifier,
	}
	for in, want := range tests {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRole("judge")
	assert.Error(t, err)
}

func TestRoleInvocation(t *testing.T) {
	assert.Equal(t, InvokeDebate, RoleDebater.Invocation())
	assert.Equal(t, InvokeVera, RoleVerifier.Invocation())
}

func TestFindVerifier(t *testing.T) {
	roster := []Participant{
		NewParticipant("Agent_1", RoleDebater),
		NewParticipant("VERA_Agent", RoleVerifier),
		NewParticipant("Agent_2", RoleDebater),
	}

	v, ok := FindVerifier(roster)
	require.True(t, ok)
	assert.Equal(t, "VERA_Agent", v.Name)

	// Role, not name, decides.
	_, ok = FindVerifier([]Participant{NewParticipant("VERA_Agent", RoleDebater)})
	assert.False(t, ok)
}

func TestNewDebateCopiesRoster(t *testing.T) {
	roster := []Participant{NewParticipant("Agent_1", RoleDebater)}
	d := NewDebate(roster, 3, "claim", "")
	roster[0].Name = "changed"

	assert.Equal(t, "Agent_1", d.Participants[0].Name)
	assert.Equal(t, StatusPending, d.Status)
	assert.Equal(t, 0, d.Conversation.Len())
	assert.NotNil(t, d.Watchers)
}
