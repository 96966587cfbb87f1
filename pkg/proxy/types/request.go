package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Message roles used by the proxy.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRequest is an OpenAI-compatible chat completion request.
//
// Only the messages are interpreted. Every other top-level field (model,
// stream, options, tools, ...) is kept as raw JSON and written back unchanged
// when the request is forwarded to the backend.
type ChatRequest struct {
	// Messages is the conversation history.
	Messages []Message

	// fields holds every top-level field except "messages".
	fields map[string]json.RawMessage
}

// UnmarshalJSON decodes a chat request, keeping unknown fields verbatim.
// A missing or null "messages" field leaves Messages nil.
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	r.Messages = nil
	if raw, ok := fields["messages"]; ok {
		if err := json.Unmarshal(raw, &r.Messages); err != nil {
			return fmt.Errorf("messages: %w", err)
		}
		delete(fields, "messages")
	}
	r.fields = fields
	return nil
}

// MarshalJSON encodes the request with its passthrough fields.
func (r ChatRequest) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.fields)+1)
	for k, v := range r.fields {
		out[k] = v
	}

	messages, err := json.Marshal(r.Messages)
	if err != nil {
		return nil, err
	}
	out["messages"] = messages

	return json.Marshal(out)
}

// Field returns a passthrough field decoded into v. It reports whether the
// field was present.
func (r *ChatRequest) Field(name string, v any) (bool, error) {
	raw, ok := r.fields[name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

// Model returns the requested model name, or "" when absent or not a string.
func (r *ChatRequest) Model() string {
	var model string
	if ok, err := r.Field("model", &model); !ok || err != nil {
		return ""
	}
	return model
}

// InsertSystem inserts a system message at index, shifting later messages
// right. An index past the end appends.
func (r *ChatRequest) InsertSystem(index int, content string) {
	msg := Message{Role: RoleSystem, Content: content}
	if index < 0 {
		index = 0
	}
	if index >= len(r.Messages) {
		r.Messages = append(r.Messages, msg)
		return
	}
	r.Messages = append(r.Messages, Message{})
	copy(r.Messages[index+1:], r.Messages[index:])
	r.Messages[index] = msg
}

// Message is a single conversation message.
type Message struct {
	// Role is the author of the message ("system", "user", "assistant", ...).
	Role string

	// Content is either a string or an array of content parts.
	Content any

	// extra holds every other field (name, tool_calls, images, ...).
	extra map[string]json.RawMessage
}

// UnmarshalJSON decodes a message, keeping unknown fields verbatim. A null
// message is rejected.
func (m *Message) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("message is null")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*m = Message{}
	if raw, ok := fields["role"]; ok {
		if err := json.Unmarshal(raw, &m.Role); err != nil {
			return fmt.Errorf("role: %w", err)
		}
		delete(fields, "role")
	}
	if raw, ok := fields["content"]; ok {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&m.Content); err != nil {
			return fmt.Errorf("content: %w", err)
		}
		delete(fields, "content")
	}
	if len(fields) > 0 {
		m.extra = fields
	}
	return nil
}

// MarshalJSON encodes the message with its passthrough fields.
func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.extra)+2)
	for k, v := range m.extra {
		out[k] = v
	}
	out["role"] = m.Role
	if m.Content != nil {
		out["content"] = m.Content
	}
	return json.Marshal(out)
}

// Text returns the textual content of the message. String content is
// returned as-is; for multimodal content the text parts are joined with a
// space and other parts are skipped.
func (m Message) Text() string {
	switch content := m.Content.(type) {
	case nil:
		return ""
	case string:
		return content
	case []any:
		return multimodalText(content)
	default:
		return fmt.Sprintf("%v", content)
	}
}

// multimodalText extracts the "text" parts of a content array.
func multimodalText(parts []any) string {
	var texts []string
	for _, part := range parts {
		partMap, ok := part.(map[string]any)
		if !ok {
			continue
		}
		if partType, _ := partMap["type"].(string); partType != "text" {
			continue
		}
		if text, ok := partMap["text"].(string); ok {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, " ")
}
