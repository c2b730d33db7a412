package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Role uint8

const (
	RoleInvalid  Role = 0
	RoleDebater  Role = 1
	RoleVerifier Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleDebater:
		return "debater"
	case RoleVerifier:
		return "verifier"
	default:
		return "invalid"
	}
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debater", "debate":
		return RoleDebater, nil
	case "verifier", "vera":
		return RoleVerifier, nil
	default:
		return RoleInvalid, fmt.Errorf("unknown participant role %q", s)
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// InvocationRole is the agent_type tag sent with every remote call.
type InvocationRole string

const (
	InvokeDebate InvocationRole = "debate"
	InvokeVera   InvocationRole = "vera"
)

func (r Role) Invocation() InvocationRole {
	if r == RoleVerifier {
		return InvokeVera
	}
	return InvokeDebate
}

type Participant struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role Role      `json:"role"`
}

func NewParticipant(name string, role Role) Participant {
	return Participant{
		Id:   uuid.New(),
		Name: name,
		Role: role,
	}
}

func (p Participant) IsVerifier() bool {
	return p.Role == RoleVerifier
}

// FindVerifier returns the first participant holding the verifier role.
func FindVerifier(participants []Participant) (Participant, bool) {
	for _, p := range participants {
		if p.IsVerifier() {
			return p, true
		}
	}
	return Participant{}, false
}
