package model

import (
	"encoding/json"
	"testing"
)

func TestNetworkLogDefaults(t *testing.T) {
	var nl NetworkLog
	if err := json.Unmarshal([]byte(`{"url":"https://example.com","method":"GET"}`), &nl); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if nl.RequestType != "other" {
		t.Fatalf("expected default type %q, got %q", "other", nl.RequestType)
	}
	if nl.RequestID != "" {
		t.Fatalf("expected empty request id, got %q", nl.RequestID)
	}
	if nl.Blocked {
		t.Fatalf("expected blocked to default to false")
	}
	if nl.BlockReason != "" {
		t.Fatalf("expected empty block reason, got %q", nl.BlockReason)
	}
}

func TestNetworkLogExplicitType(t *testing.T) {
	var nl NetworkLog
	if err := json.Unmarshal([]byte(`{"requestId":"r1","url":"https://example.com","method":"POST","type":"main_frame","blocked":true,"blockReason":"matched pattern"}`), &nl); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if nl.RequestType != "main_frame" {
		t.Fatalf("expected type main_frame, got %q", nl.RequestType)
	}
	if !nl.Blocked || nl.BlockReason != "matched pattern" {
		t.Fatalf("blocked fields not decoded: %+v", nl)
	}
}

func TestLogEntryWireNames(t *testing.T) {
	var entry LogEntry
	body := `{"clientId":"c1","sessionId":"s1","timestamp":"t1","userAgent":"ua","logs":[{"url":"https://a.example","method":"GET"}]}`
	if err := json.Unmarshal([]byte(body), &entry); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if entry.ClientID != "c1" || entry.SessionID != "s1" || entry.UserAgent != "ua" {
		t.Fatalf("wire fields not decoded: %+v", entry)
	}
	if len(entry.Logs) != 1 || entry.Logs[0].RequestType != "other" {
		t.Fatalf("nested log defaults not applied: %+v", entry.Logs)
	}
}

func TestBlocklistWireNames(t *testing.T) {
	bl := Blocklist{URLPatterns: []string{".*ads.*"}, YouTubeChannels: []string{"@spam"}}
	b, err := json.Marshal(bl)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := raw["urlPatterns"]; !ok {
		t.Fatalf("missing urlPatterns key: %s", b)
	}
	if _, ok := raw["youtubeChannels"]; !ok {
		t.Fatalf("missing youtubeChannels key: %s", b)
	}
}

func TestLogEntryCloneIsolation(t *testing.T) {
	entry := LogEntry{SessionID: "s1", Logs: []NetworkLog{{URL: "https://a.example"}}}
	clone := entry.Clone()

	clone.Logs[0].URL = "https://b.example"
	if entry.Logs[0].URL != "https://a.example" {
		t.Fatalf("clone shares log slice with original")
	}
}

func TestExtensionEventCloneIsolation(t *testing.T) {
	ev := ExtensionEvent{
		SessionID: "s1",
		EventType: "custom",
		Data: map[string]any{
			"nested": map[string]any{"key": "value"},
			"items":  []any{"a", "b"},
		},
	}
	clone := ev.Clone()

	clone.Data.(map[string]any)["nested"].(map[string]any)["key"] = "changed"
	clone.Data.(map[string]any)["items"].([]any)[0] = "changed"

	orig := ev.Data.(map[string]any)
	if orig["nested"].(map[string]any)["key"] != "value" {
		t.Fatalf("clone shares nested map with original")
	}
	if orig["items"].([]any)[0] != "a" {
		t.Fatalf("clone shares nested slice with original")
	}
}
