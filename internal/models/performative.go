package models

import "fmt"

// Performative is the speech-act tag of a debate message.
type Performative string

const (
	Propose   Performative = "PROPOSE"
	Challenge Performative = "CHALLENGE"
	Verify    Performative = "VERIFY"
	Confirm   Performative = "CONFIRM"
)

var performatives = []Performative{Propose, Challenge, Verify, Confirm}

func (p Performative) Valid() bool {
	switch p {
	case Propose, Challenge, Verify, Confirm:
		return true
	default:
		return false
	}
}

func (p Performative) String() string {
	return string(p)
}

func ParsePerformative(s string) (Performative, error) {
	p := Performative(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown performative %q, expected one of %v", s, performatives)
	}
	return p, nil
}
