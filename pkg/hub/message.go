// Package hub fans out dashboard messages to websocket clients over a
// channel-based broadcast loop.
package hub

// MessageType indicates the websocket wire format of a message.
type MessageType int

const (
	// JSONMessage is a JSON-encoded text message.
	JSONMessage MessageType = iota
	// BinaryMessage is raw binary data, such as JPEG frames.
	BinaryMessage
)

// Message is a single payload to broadcast to all connected clients.
type Message struct {
	Type MessageType
	Data []byte
}

// NewJSONMessage wraps pre-encoded JSON bytes in a text message.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage wraps raw bytes in a binary message.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}
