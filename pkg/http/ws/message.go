package ws

import "encoding/json"

// MessageType constants for the live feed protocol.
const (
	// Client -> Server
	TypePing = "ping"

	// Server -> Client
	TypeWelcome         = "welcome"
	TypeQuestionCreated = "question_created"
	TypeQuestionDeleted = "question_deleted"
	TypePong            = "pong"
	TypeError           = "error"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a Message of the given type.
func NewMessage(msgType string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: data}, nil
}

type WelcomePayload struct {
	ConnectionID string `json:"connection_id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
