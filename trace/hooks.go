package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

func passStart(pass string) *Message {
	return &Message{Type: MsgPassStart, Pass: pass, Timestamp: time.Now().UnixMilli()}
}

func passEnd(pass string, durationMs float64, err error) *Message {
	msg := &Message{
		Type:       MsgPassEnd,
		Pass:       pass,
		DurationMs: durationMs,
		Timestamp:  time.Now().UnixMilli(),
	}
	if err != nil {
		msg.Error = err.Error()
	}
	return msg
}

func nodeStart(pass, nodeID, kind string) *Message {
	return &Message{
		Type:      MsgNodeStart,
		Pass:      pass,
		NodeID:    nodeID,
		Kind:      kind,
		Timestamp: time.Now().UnixMilli(),
	}
}

func nodeEnd(pass, nodeID, kind string, order int, durationMs float64) *Message {
	msg := &Message{
		Type:       MsgNodeEnd,
		Pass:       pass,
		NodeID:     nodeID,
		Kind:       kind,
		DurationMs: durationMs,
		Timestamp:  time.Now().UnixMilli(),
	}
	if order >= 0 {
		msg.Order = &order
	}
	return msg
}

func nodeError(pass, nodeID string, err error) *Message {
	msg := &Message{
		Type:      MsgNodeError,
		Pass:      pass,
		NodeID:    nodeID,
		Timestamp: time.Now().UnixMilli(),
	}
	if err != nil {
		msg.Error = err.Error()
	}
	return msg
}

func helper(pass, key, name string, created bool) *Message {
	return &Message{
		Type:      MsgHelper,
		Pass:      pass,
		Helper:    key,
		Name:      name,
		Created:   created,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ============================================================================
// ChannelHook - sends messages to a channel
// ============================================================================

// ChannelHook sends trace messages to a channel.
// Useful for testing or custom processing.
type ChannelHook struct {
	C    chan *Message
	Pass string // Optional filter
}

// NewChannelHook creates a new channel-based trace hook.
func NewChannelHook(bufferSize int) *ChannelHook {
	return &ChannelHook{
		C: make(chan *Message, bufferSize),
	}
}

func (h *ChannelHook) send(msg *Message) {
	if h.Pass != "" && msg.Pass != h.Pass {
		return
	}
	select {
	case h.C <- msg:
	default:
		// Channel full, drop message
	}
}

func (h *ChannelHook) OnPassStart(pass string) { h.send(passStart(pass)) }

func (h *ChannelHook) OnPassEnd(pass string, durationMs float64, err error) {
	h.send(passEnd(pass, durationMs, err))
}

func (h *ChannelHook) OnNodeStart(pass, nodeID, kind string) {
	h.send(nodeStart(pass, nodeID, kind))
}

func (h *ChannelHook) OnNodeEnd(pass, nodeID, kind string, order int, durationMs float64) {
	h.send(nodeEnd(pass, nodeID, kind, order, durationMs))
}

func (h *ChannelHook) OnNodeError(pass, nodeID string, err error) {
	h.send(nodeError(pass, nodeID, err))
}

func (h *ChannelHook) OnHelper(pass, key, name string, created bool) {
	h.send(helper(pass, key, name, created))
}

// ============================================================================
// WriterHook - writes JSON to an io.Writer (file, stdout, etc)
// ============================================================================

// WriterHook writes trace messages as JSON lines to an io.Writer.
type WriterHook struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterHook creates a hook that writes to the given writer.
func NewWriterHook(w io.Writer) *WriterHook {
	return &WriterHook{w: w}
}

func (h *WriterHook) write(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.w.Write(data)
	h.w.Write([]byte("\n"))
}

func (h *WriterHook) OnPassStart(pass string) { h.write(passStart(pass)) }

func (h *WriterHook) OnPassEnd(pass string, durationMs float64, err error) {
	h.write(passEnd(pass, durationMs, err))
}

func (h *WriterHook) OnNodeStart(pass, nodeID, kind string) {
	h.write(nodeStart(pass, nodeID, kind))
}

func (h *WriterHook) OnNodeEnd(pass, nodeID, kind string, order int, durationMs float64) {
	h.write(nodeEnd(pass, nodeID, kind, order, durationMs))
}

func (h *WriterHook) OnNodeError(pass, nodeID string, err error) {
	h.write(nodeError(pass, nodeID, err))
}

func (h *WriterHook) OnHelper(pass, key, name string, created bool) {
	h.write(helper(pass, key, name, created))
}

// ============================================================================
// PrintHook - prints human-readable trace output
// ============================================================================

// PrintHook prints trace messages in a human-readable format.
type PrintHook struct {
	w io.Writer
}

// NewPrintHook creates a hook that prints to the given writer.
func NewPrintHook(w io.Writer) *PrintHook {
	return &PrintHook{w: w}
}

func (h *PrintHook) OnPassStart(pass string) {
	fmt.Fprintf(h.w, "[%s] ▶ generation started\n", pass)
}

func (h *PrintHook) OnPassEnd(pass string, durationMs float64, err error) {
	if err != nil {
		fmt.Fprintf(h.w, "[%s] ✗ generation failed (%.2fms): %v\n", pass, durationMs, err)
	} else {
		fmt.Fprintf(h.w, "[%s] ✓ generation completed (%.2fms)\n", pass, durationMs)
	}
}

func (h *PrintHook) OnNodeStart(pass, nodeID, kind string) {
	fmt.Fprintf(h.w, "[%s]   → %s (%s)\n", pass, nodeID, kind)
}

func (h *PrintHook) OnNodeEnd(pass, nodeID, kind string, order int, durationMs float64) {
	// Typically silent for less noise
}

func (h *PrintHook) OnNodeError(pass, nodeID string, err error) {
	fmt.Fprintf(h.w, "[%s]   ✗ %s error: %v\n", pass, nodeID, err)
}

func (h *PrintHook) OnHelper(pass, key, name string, created bool) {
	if created {
		fmt.Fprintf(h.w, "[%s]   + helper %s as %s\n", pass, key, name)
	}
}

// ============================================================================
// MultiHook - sends to multiple hooks
// ============================================================================

// MultiHook broadcasts trace events to multiple hooks.
type MultiHook struct {
	hooks []Hook
	mu    sync.RWMutex
}

// NewMultiHook creates a hook that broadcasts to multiple hooks.
func NewMultiHook(hooks ...Hook) *MultiHook {
	return &MultiHook{hooks: hooks}
}

// Add adds a hook to the multi-hook.
func (h *MultiHook) Add(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

func (h *MultiHook) each(fn func(Hook)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.hooks {
		fn(hook)
	}
}

func (h *MultiHook) OnPassStart(pass string) {
	h.each(func(hook Hook) { hook.OnPassStart(pass) })
}

func (h *MultiHook) OnPassEnd(pass string, durationMs float64, err error) {
	h.each(func(hook Hook) { hook.OnPassEnd(pass, durationMs, err) })
}

func (h *MultiHook) OnNodeStart(pass, nodeID, kind string) {
	h.each(func(hook Hook) { hook.OnNodeStart(pass, nodeID, kind) })
}

func (h *MultiHook) OnNodeEnd(pass, nodeID, kind string, order int, durationMs float64) {
	h.each(func(hook Hook) { hook.OnNodeEnd(pass, nodeID, kind, order, durationMs) })
}

func (h *MultiHook) OnNodeError(pass, nodeID string, err error) {
	h.each(func(hook Hook) { hook.OnNodeError(pass, nodeID, err) })
}

func (h *MultiHook) OnHelper(pass, key, name string, created bool) {
	h.each(func(hook Hook) { hook.OnHelper(pass, key, name, created) })
}
