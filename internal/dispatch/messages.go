package dispatch

import (
	"encoding/json"
	"fmt"
)

type MessageType string

const (
	TypeSuccess MessageType = "Success"
	TypeError   MessageType = "Error"
)

// ErrorReason is a protocol-level condition the remote peer can act on.
type ErrorReason string

const (
	ReasonRepoPathNotSet ErrorReason = "RepoPathNotSet"
)

// OutboundMessage is the only value handed to the transport. It is either a
// Success or a Failure.
type OutboundMessage interface {
	Type() MessageType

	outbound()
}

// Success carries the parsed payload of Command. On the wire the payload is
// keyed by the command name: {"type":"Success","log":[...]}.
type Success struct {
	Command string
	Payload any
}

func (Success) Type() MessageType { return TypeSuccess }

func (Success) outbound() {}

func (m Success) MarshalJSON() ([]byte, error) {
	if m.Command == "" || m.Command == "type" {
		return nil, fmt.Errorf("invalid success payload key %q", m.Command)
	}

	return json.Marshal(map[string]any{
		"type":    TypeSuccess,
		m.Command: m.Payload,
	})
}

// Failure is serialized as {"type":"Error","reason":"RepoPathNotSet"}.
type Failure struct {
	Reason ErrorReason
}

func (Failure) Type() MessageType { return TypeError }

func (Failure) outbound() {}

func (m Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   MessageType `json:"type"`
		Reason ErrorReason `json:"reason"`
	}{
		Type:   TypeError,
		Reason: m.Reason,
	})
}
