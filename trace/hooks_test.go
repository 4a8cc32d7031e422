package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
)

// ============================================================================
// ChannelHook Tests
// ============================================================================

func TestNewChannelHook(t *testing.T) {
	hook := NewChannelHook(10)
	if cap(hook.C) != 10 {
		t.Errorf("Channel capacity = %d, want 10", cap(hook.C))
	}
}

func TestChannelHook_PassEvents(t *testing.T) {
	hook := NewChannelHook(10)

	hook.OnPassStart("main")
	hook.OnPassEnd("main", 5.5, errors.New("boom"))

	start := <-hook.C
	if start.Type != MsgPassStart || start.Pass != "main" {
		t.Errorf("start = %+v", start)
	}
	end := <-hook.C
	if end.Type != MsgPassEnd {
		t.Errorf("Type = %v, want %v", end.Type, MsgPassEnd)
	}
	if end.DurationMs != 5.5 {
		t.Errorf("DurationMs = %v, want 5.5", end.DurationMs)
	}
	if end.Error != "boom" {
		t.Errorf("Error = %q, want boom", end.Error)
	}
}

func TestChannelHook_NodeEvents(t *testing.T) {
	hook := NewChannelHook(10)

	hook.OnNodeStart("main", "n1", "math_arithmetic")
	hook.OnNodeEnd("main", "n1", "math_arithmetic", 5, 1.5)
	hook.OnNodeEnd("main", "n2", "text_print", -1, 0)
	hook.OnNodeError("main", "n3", errors.New("node error"))

	msg := <-hook.C
	if msg.Type != MsgNodeStart || msg.NodeID != "n1" || msg.Kind != "math_arithmetic" {
		t.Errorf("start = %+v", msg)
	}
	msg = <-hook.C
	if msg.Order == nil || *msg.Order != 5 {
		t.Errorf("value node should report its order, got %v", msg.Order)
	}
	msg = <-hook.C
	if msg.Order != nil {
		t.Errorf("statement node should not report an order, got %d", *msg.Order)
	}
	msg = <-hook.C
	if msg.Type != MsgNodeError || msg.Error != "node error" {
		t.Errorf("error = %+v", msg)
	}
}

func TestChannelHook_OnHelper(t *testing.T) {
	hook := NewChannelHook(10)

	hook.OnHelper("main", "math_sum", "math_sum2", true)

	msg := <-hook.C
	if msg.Type != MsgHelper || msg.Helper != "math_sum" || msg.Name != "math_sum2" || !msg.Created {
		t.Errorf("helper = %+v", msg)
	}
}

func TestChannelHook_PassFilter(t *testing.T) {
	hook := NewChannelHook(10)
	hook.Pass = "a" // Only accept pass a

	hook.OnPassStart("a")
	hook.OnPassStart("b") // Should be filtered

	select {
	case msg := <-hook.C:
		if msg.Pass != "a" {
			t.Errorf("Pass = %v, want a", msg.Pass)
		}
	default:
		t.Fatal("Expected one message")
	}

	select {
	case <-hook.C:
		t.Fatal("Unexpected second message")
	default:
	}
}

func TestChannelHook_FullChannel(t *testing.T) {
	hook := NewChannelHook(1)

	hook.OnPassStart("first")
	// This should not block, just drop the message
	hook.OnPassStart("second")

	msg := <-hook.C
	if msg.Pass != "first" {
		t.Errorf("Pass = %v, want first", msg.Pass)
	}
}

// ============================================================================
// WriterHook Tests
// ============================================================================

func TestWriterHook_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	hook := NewWriterHook(&buf)

	hook.OnPassStart("main")
	hook.OnNodeStart("main", "n1", "text")
	hook.OnNodeEnd("main", "n1", "text", 0, 0.25)
	hook.OnHelper("main", "text_count", "text_count", false)
	hook.OnPassEnd("main", 1, nil)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}
	want := []MessageType{MsgPassStart, MsgNodeStart, MsgNodeEnd, MsgHelper, MsgPassEnd}
	for i, line := range lines {
		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			t.Fatalf("line %d: failed to parse JSON: %v", i, err)
		}
		if msg.Type != want[i] {
			t.Errorf("line %d: Type = %v, want %v", i, msg.Type, want[i])
		}
		if msg.Pass != "main" {
			t.Errorf("line %d: Pass = %v, want main", i, msg.Pass)
		}
	}
	if !strings.Contains(lines[2], `"order":0`) {
		t.Errorf("atomic order should be written: %s", lines[2])
	}
	if strings.Contains(lines[3], `"created"`) {
		t.Errorf("reused helper should omit created: %s", lines[3])
	}
}

func TestWriterHook_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	hook := NewWriterHook(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hook.OnNodeStart("main", "n", "text")
		}()
	}
	wg.Wait()

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			t.Fatalf("interleaved output %q: %v", line, err)
		}
	}
}

// ============================================================================
// PrintHook Tests
// ============================================================================

func TestPrintHook(t *testing.T) {
	tests := []struct {
		name string
		emit func(h *PrintHook)
		want []string
	}{
		{"pass start", func(h *PrintHook) { h.OnPassStart("main") }, []string{"[main]", "started"}},
		{"pass success", func(h *PrintHook) { h.OnPassEnd("main", 5.5, nil) }, []string{"completed", "5.50ms"}},
		{"pass failure", func(h *PrintHook) { h.OnPassEnd("main", 5.5, errors.New("test error")) }, []string{"failed", "test error"}},
		{"node start", func(h *PrintHook) { h.OnNodeStart("main", "n1", "logic_compare") }, []string{"n1", "logic_compare"}},
		{"node error", func(h *PrintHook) { h.OnNodeError("main", "n1", errors.New("bad")) }, []string{"n1", "bad"}},
		{"new helper", func(h *PrintHook) { h.OnHelper("main", "list_sort", "list_sort2", true) }, []string{"helper list_sort as list_sort2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(NewPrintHook(&buf))
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output %q does not contain %q", buf.String(), want)
				}
			}
		})
	}
}

func TestPrintHook_Quiet(t *testing.T) {
	var buf bytes.Buffer
	hook := NewPrintHook(&buf)

	hook.OnNodeEnd("main", "n1", "text", 0, 1)
	hook.OnHelper("main", "list_sort", "list_sort", false)

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

// ============================================================================
// MultiHook Tests
// ============================================================================

func TestMultiHook_Broadcasts(t *testing.T) {
	ch1 := NewChannelHook(10)
	ch2 := NewChannelHook(10)
	multi := NewMultiHook(ch1)
	multi.Add(ch2)

	multi.OnPassStart("main")

	for i, ch := range []*ChannelHook{ch1, ch2} {
		select {
		case <-ch.C:
		default:
			t.Errorf("Channel %d should receive message", i+1)
		}
	}
}

func TestMultiHook_AllMethods(t *testing.T) {
	ch := NewChannelHook(100)
	var multi Hook = NewMultiHook(ch, NoopHook{})

	multi.OnPassStart("p")
	multi.OnPassEnd("p", 1.0, nil)
	multi.OnNodeStart("p", "n", "text")
	multi.OnNodeEnd("p", "n", "text", 0, 1.0)
	multi.OnNodeError("p", "n", errors.New("err"))
	multi.OnHelper("p", "k", "k", true)

	if len(ch.C) != 6 {
		t.Errorf("Message count = %d, want 6", len(ch.C))
	}
}
