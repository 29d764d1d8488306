// Package chat provides the chat event model, the text normalizer and the
// render classifier shared by every agchat view.
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind tags how an event's text should be presented.
type Kind string

const (
	KindUserMessage        Kind = "UserMessage"
	KindUserError          Kind = "UserError"
	KindAgentMessage       Kind = "AgentMessage"
	KindAgentPartial       Kind = "AgentPartial"
	KindAgentJSON          Kind = "AgentJSON"
	KindAgentGraphQLQuery  Kind = "AgentGraphQLQuery"
	KindAgentGraphQLResult Kind = "AgentGraphQLResult"
	KindAgentInnerDialog   Kind = "AgentInnerDialog"
	KindAgentWarning       Kind = "AgentWarning"
)

// Kinds lists every known kind in declaration order.
var Kinds = []Kind{
	KindUserMessage,
	KindUserError,
	KindAgentMessage,
	KindAgentPartial,
	KindAgentJSON,
	KindAgentGraphQLQuery,
	KindAgentGraphQLResult,
	KindAgentInnerDialog,
	KindAgentWarning,
}

// FromUser reports whether events of this kind come from the user side.
func (k Kind) FromUser() bool {
	return k == KindUserMessage || k == KindUserError
}

// ErrUnknownKind is returned when an event names a kind outside Kinds.
var ErrUnknownKind = errors.New("unknown chat event kind")

// Event is a single chat event. The set of implementations is closed: only
// the types in this file satisfy it.
type Event interface {
	Kind() Kind
	Text() string
	Time() time.Time
	accept(v EventVisitor) Decision
}

// EventVisitor handles every event kind. A new kind adds a method here, so
// each visitor stops compiling until it handles it.
type EventVisitor interface {
	VisitUserMessage(UserMessage) Decision
	VisitUserError(UserError) Decision
	VisitAgentMessage(AgentMessage) Decision
	VisitAgentPartial(AgentPartial) Decision
	VisitAgentJSON(AgentJSON) Decision
	VisitAgentGraphQLQuery(AgentGraphQLQuery) Decision
	VisitAgentGraphQLResult(AgentGraphQLResult) Decision
	VisitAgentInnerDialog(AgentInnerDialog) Decision
	VisitAgentWarning(AgentWarning) Decision
}

// base holds the fields every event carries.
type base struct {
	Body string
	At   time.Time
}

func (b base) Text() string    { return b.Body }
func (b base) Time() time.Time { return b.At }

type UserMessage struct{ base }

type UserError struct{ base }

// AgentMessage is a spoken agent reply. AudioFileURL, when set, references
// an object in the audio store as <origin>/<object-key>.
type AgentMessage struct {
	base
	AudioFileURL  string
	DisableTyping bool
}

type AgentPartial struct{ base }

type AgentJSON struct{ base }

type AgentGraphQLQuery struct{ base }

type AgentGraphQLResult struct{ base }

type AgentInnerDialog struct{ base }

type AgentWarning struct{ base }

func (UserMessage) Kind() Kind        { return KindUserMessage }
func (UserError) Kind() Kind          { return KindUserError }
func (AgentMessage) Kind() Kind       { return KindAgentMessage }
func (AgentPartial) Kind() Kind       { return KindAgentPartial }
func (AgentJSON) Kind() Kind          { return KindAgentJSON }
func (AgentGraphQLQuery) Kind() Kind  { return KindAgentGraphQLQuery }
func (AgentGraphQLResult) Kind() Kind { return KindAgentGraphQLResult }
func (AgentInnerDialog) Kind() Kind   { return KindAgentInnerDialog }
func (AgentWarning) Kind() Kind       { return KindAgentWarning }

func (e UserMessage) accept(v EventVisitor) Decision        { return v.VisitUserMessage(e) }
func (e UserError) accept(v EventVisitor) Decision          { return v.VisitUserError(e) }
func (e AgentMessage) accept(v EventVisitor) Decision       { return v.VisitAgentMessage(e) }
func (e AgentPartial) accept(v EventVisitor) Decision       { return v.VisitAgentPartial(e) }
func (e AgentJSON) accept(v EventVisitor) Decision          { return v.VisitAgentJSON(e) }
func (e AgentGraphQLQuery) accept(v EventVisitor) Decision  { return v.VisitAgentGraphQLQuery(e) }
func (e AgentGraphQLResult) accept(v EventVisitor) Decision { return v.VisitAgentGraphQLResult(e) }
func (e AgentInnerDialog) accept(v EventVisitor) Decision   { return v.VisitAgentInnerDialog(e) }
func (e AgentWarning) accept(v EventVisitor) Decision       { return v.VisitAgentWarning(e) }

// Record is the wire form of an event, one JSON object per line.
type Record struct {
	Kind          Kind      `json:"kind"`
	Text          string    `json:"text"`
	AudioFileURL  string    `json:"audioFileUrl,omitempty"`
	DisableTyping bool      `json:"disableTyping,omitempty"`
	Timestamp     time.Time `json:"timestamp,omitzero"`
}

// NewEvent builds an event of the given kind.
func NewEvent(kind Kind, text string) (Event, error) {
	return Record{Kind: kind, Text: text}.Event()
}

// Event converts the record into its typed event.
func (r Record) Event() (Event, error) {
	b := base{Body: r.Text, At: r.Timestamp}
	switch r.Kind {
	case KindUserMessage:
		return UserMessage{b}, nil
	case KindUserError:
		return UserError{b}, nil
	case KindAgentMessage:
		return AgentMessage{base: b, AudioFileURL: r.AudioFileURL, DisableTyping: r.DisableTyping}, nil
	case KindAgentPartial:
		return AgentPartial{b}, nil
	case KindAgentJSON:
		return AgentJSON{b}, nil
	case KindAgentGraphQLQuery:
		return AgentGraphQLQuery{b}, nil
	case KindAgentGraphQLResult:
		return AgentGraphQLResult{b}, nil
	case KindAgentInnerDialog:
		return AgentInnerDialog{b}, nil
	case KindAgentWarning:
		return AgentWarning{b}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
}

// MustEvent is like Record.Event but panics on an unknown kind. It is meant
// for records whose kind is a compile-time constant.
func MustEvent(r Record) Event {
	e, err := r.Event()
	if err != nil {
		panic(err)
	}
	return e
}

// DecodeEvent parses a single JSON record into its typed event.
func DecodeEvent(line []byte) (Event, error) {
	var r Record
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	return r.Event()
}
