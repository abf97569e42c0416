package model

import (
	"encoding/json"
)

// NetworkLog is one observed HTTP request reported by a monitored page.
type NetworkLog struct {
	RequestID   string `json:"requestId"`
	URL         string `json:"url"`
	Method      string `json:"method"`
	RequestType string `json:"type"`
	Blocked     bool   `json:"blocked"`
	BlockReason string `json:"blockReason,omitempty"`
}

// UnmarshalJSON applies wire defaults: a log without a type is "other".
func (nl *NetworkLog) UnmarshalJSON(data []byte) error {
	type Alias NetworkLog
	a := Alias{RequestType: "other"}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*nl = NetworkLog(a)
	return nil
}

// LogEntry is one batch of network logs submitted by one extension session.
type LogEntry struct {
	ClientID  string       `json:"clientId,omitempty"`
	SessionID string       `json:"sessionId"`
	Timestamp string       `json:"timestamp"`
	UserAgent string       `json:"userAgent"`
	Logs      []NetworkLog `json:"logs"`
}

// Clone returns a copy that shares no mutable state with the receiver.
func (e LogEntry) Clone() LogEntry {
	if e.Logs != nil {
		logs := make([]NetworkLog, len(e.Logs))
		copy(logs, e.Logs)
		e.Logs = logs
	}
	return e
}

// Blocklist is the current filtering configuration. Updates replace it
// wholesale; there is no merge.
type Blocklist struct {
	URLPatterns     []string `json:"urlPatterns"`
	YouTubeChannels []string `json:"youtubeChannels"`
}

// Clone returns a copy that shares no mutable state with the receiver.
func (b Blocklist) Clone() Blocklist {
	if b.URLPatterns != nil {
		patterns := make([]string, len(b.URLPatterns))
		copy(patterns, b.URLPatterns)
		b.URLPatterns = patterns
	}
	if b.YouTubeChannels != nil {
		channels := make([]string, len(b.YouTubeChannels))
		copy(channels, b.YouTubeChannels)
		b.YouTubeChannels = channels
	}
	return b
}

// ExtensionEvent is a telemetry event reported by the extension. Data is
// whatever JSON value the client sent: a map[string]any for objects, or a
// plain decoded scalar/array otherwise.
type ExtensionEvent struct {
	ClientID  string `json:"clientId,omitempty"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
	UserAgent string `json:"userAgent"`
	EventType string `json:"eventType"`
	Data      any    `json:"data"`
}

// Clone returns a copy whose Data tree shares nothing with the receiver.
func (e ExtensionEvent) Clone() ExtensionEvent {
	e.Data = cloneJSON(e.Data)
	return e
}

func cloneJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneJSON(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneJSON(val)
		}
		return out
	default:
		return v
	}
}
