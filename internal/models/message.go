package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// Broadcast is the receiver used for messages addressed to every participant.
	Broadcast = "ALL"

	DefaultLanguage       = "ACL"
	DefaultOntology       = "MarketPrediction"
	DefaultProtocol       = "Debate"
	DefaultConversationId = "debate1"
)

var ErrMalformedMessage = errors.New("malformed message")

// Message is one turn of a debate. It is immutable once built; use NewMessage
// or ParseMessage to obtain one.
type Message struct {
	performative   Performative
	sender         string
	receiver       string
	content        string
	replyWith      string
	inReplyTo      string
	language       string
	ontology       string
	protocol       string
	conversationId string
}

// Record is the flat shape a Message takes on the wire and in archives.
type Record struct {
	Performative   string  `json:"performative" msgpack:"performative"`
	Sender         string  `json:"sender" msgpack:"sender"`
	Receiver       string  `json:"receiver" msgpack:"receiver"`
	Content        string  `json:"content" msgpack:"content"`
	ReplyWith      string  `json:"reply_with" msgpack:"reply_with"`
	InReplyTo      *string `json:"in_reply_to" msgpack:"in_reply_to"`
	Language       string  `json:"language,omitempty" msgpack:"language,omitempty"`
	Ontology       string  `json:"ontology,omitempty" msgpack:"ontology,omitempty"`
	Protocol       string  `json:"protocol,omitempty" msgpack:"protocol,omitempty"`
	ConversationId string  `json:"conversation_id,omitempty" msgpack:"conversation_id,omitempty"`
}

// NewMessage builds a message with the fixed protocol metadata. inReplyTo is
// optional and is not checked against earlier messages.
func NewMessage(performative Performative, sender, receiver, content, replyWith string, inReplyTo ...string) (Message, error) {
	m := Message{
		performative:   performative,
		sender:         sender,
		receiver:       receiver,
		content:        content,
		replyWith:      replyWith,
		language:       DefaultLanguage,
		ontology:       DefaultOntology,
		protocol:       DefaultProtocol,
		conversationId: DefaultConversationId,
	}
	if len(inReplyTo) > 0 {
		m.inReplyTo = inReplyTo[0]
	}
	if err := m.validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

func (m Message) validate() error {
	if !m.performative.Valid() {
		return fmt.Errorf("%w: unknown performative %q", ErrMalformedMessage, m.performative)
	}
	if m.sender == "" {
		return fmt.Errorf("%w: empty sender", ErrMalformedMessage)
	}
	if m.receiver == "" {
		return fmt.Errorf("%w: empty receiver", ErrMalformedMessage)
	}
	if m.content == "" {
		return fmt.Errorf("%w: empty content", ErrMalformedMessage)
	}
	if m.replyWith == "" {
		return fmt.Errorf("%w: empty reply_with", ErrMalformedMessage)
	}
	return nil
}

func (m Message) Performative() Performative { return m.performative }
func (m Message) Sender() string             { return m.sender }
func (m Message) Receiver() string           { return m.receiver }
func (m Message) Content() string            { return m.content }
func (m Message) ReplyWith() string          { return m.replyWith }
func (m Message) InReplyTo() string          { return m.inReplyTo }
func (m Message) Language() string           { return m.language }
func (m Message) Ontology() string           { return m.ontology }
func (m Message) Protocol() string           { return m.protocol }
func (m Message) ConversationId() string     { return m.conversationId }

func (m Message) IsBroadcast() bool {
	return m.receiver == Broadcast
}

// ParseMessage decodes a raw agent payload. Missing metadata falls back to the
// protocol defaults.
func ParseMessage(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		if errors.Is(err, ErrMalformedMessage) {
			return Message{}, err
		}
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return m, nil
}

// Serialize is the inverse of ParseMessage.
func (m Message) Serialize() []byte {
	data, _ := json.Marshal(m.Record()) // Record holds only strings
	return data
}

func (m Message) Record() Record {
	r := Record{
		Performative:   string(m.performative),
		Sender:         m.sender,
		Receiver:       m.receiver,
		Content:        m.content,
		ReplyWith:      m.replyWith,
		Language:       m.language,
		Ontology:       m.ontology,
		Protocol:       m.protocol,
		ConversationId: m.conversationId,
	}
	if m.inReplyTo != "" {
		inReplyTo := m.inReplyTo
		r.InReplyTo = &inReplyTo
	}
	return r
}

// FromRecord validates r and turns it into a Message.
func FromRecord(r Record) (Message, error) {
	m := Message{
		performative:   Performative(r.Performative),
		sender:         r.Sender,
		receiver:       r.Receiver,
		content:        r.Content,
		replyWith:      r.ReplyWith,
		language:       orDefault(r.Language, DefaultLanguage),
		ontology:       orDefault(r.Ontology, DefaultOntology),
		protocol:       orDefault(r.Protocol, DefaultProtocol),
		conversationId: orDefault(r.ConversationId, DefaultConversationId),
	}
	if r.InReplyTo != nil {
		m.inReplyTo = *r.InReplyTo
	}
	if err := m.validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Record())
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var w Record
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsed, err := FromRecord(w)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

type ParseKind int

const (
	Parsed ParseKind = iota
	Skip
	Malformed
)

func (k ParseKind) String() string {
	switch k {
	case Parsed:
		return "parsed"
	case Skip:
		return "skip"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ParseResult is the outcome of decoding one agent response.
type ParseResult struct {
	Kind    ParseKind
	Message Message
	Err     error
}

// Decode classifies a raw agent response: an empty or null payload means the
// agent had nothing to say this turn.
func Decode(raw []byte) ParseResult {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ParseResult{Kind: Skip}
	}
	m, err := ParseMessage(trimmed)
	if err != nil {
		return ParseResult{Kind: Malformed, Err: err}
	}
	return ParseResult{Kind: Parsed, Message: m}
}
