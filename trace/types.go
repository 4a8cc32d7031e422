// Package trace reports what a generation pass does, node by node.
package trace

// Hook is the interface for receiving generation trace events.
// Pass identifies the graph being generated, so one hook can serve several
// passes running side by side.
type Hook interface {
	// Pass lifecycle
	OnPassStart(pass string)
	OnPassEnd(pass string, durationMs float64, err error)

	// Node lifecycle
	OnNodeStart(pass, nodeID, kind string)
	OnNodeEnd(pass, nodeID, kind string, order int, durationMs float64)
	OnNodeError(pass, nodeID string, err error)

	// Shared helpers. Created is false when a cached definition was reused.
	OnHelper(pass, key, name string, created bool)
}

// Message types for the JSON lines protocol
type MessageType string

const (
	MsgPassStart MessageType = "pass:start"
	MsgPassEnd   MessageType = "pass:end"
	MsgNodeStart MessageType = "node:start"
	MsgNodeEnd   MessageType = "node:end"
	MsgNodeError MessageType = "node:error"
	MsgHelper    MessageType = "helper"
)

// Message is the JSON structure written by WriterHook and sent by ChannelHook.
type Message struct {
	Type       MessageType `json:"type"`
	Pass       string      `json:"pass"`
	NodeID     string      `json:"nodeId,omitempty"`
	Kind       string      `json:"kind,omitempty"`
	Order      *int        `json:"order,omitempty"`
	Helper     string      `json:"helper,omitempty"`
	Name       string      `json:"name,omitempty"`
	Created    bool        `json:"created,omitempty"`
	DurationMs float64     `json:"durationMs,omitempty"`
	Error      string      `json:"error,omitempty"`
	Timestamp  int64       `json:"timestamp"`
}
