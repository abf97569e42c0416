package dashboard

import (
	"fmt"
	"reflect"
	"testing"

	"netwatch/internal/event"
	"netwatch/internal/model"
)

func enriched(session, eventType, category, packetID string, extra map[string]any) model.ExtensionEvent {
	ev := model.ExtensionEvent{
		SessionID: session,
		EventType: eventType,
		Data:      extra,
	}
	return event.Enrich(ev, packetID, category)
}

func TestDomainFromURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://ads.tracker.com:8443/x?y=1", "ads.tracker.com", true},
		{"http://example.com/path#frag", "example.com", true},
		{"example.com", "example.com", true},
		{"example.com/path", "example.com", true},
		{"  https://spaced.example.com  ", "spaced.example.com", true},
		{"https://host.example?query=1", "host.example", true},
		{"", "", false},
		{"   ", "", false},
		{"https://", "", false},
		{"://", "", false},
		{":8080", "", false},
	}

	for _, tc := range cases {
		got, ok := DomainFromURL(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("DomainFromURL(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestEventsNewestFirst(t *testing.T) {
	events := []model.ExtensionEvent{
		enriched("s1", "custom", "general", "sec-a-0", nil),
		enriched("s2", "custom", "general", "sec-a-1", nil),
		enriched("s3", "custom", "general", "sec-a-2", nil),
	}

	rows := Events(events, FilterAll)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, want := range []string{"sec-a-2", "sec-a-1", "sec-a-0"} {
		if rows[i].PacketID != want {
			t.Fatalf("row %d packet id %q, want %q", i, rows[i].PacketID, want)
		}
	}
}

func TestEventsFilter(t *testing.T) {
	events := []model.ExtensionEvent{
		enriched("s1", "custom", "general", "sec-a-0", nil),
		enriched("s2", "javascript_execution", "javascript", "sec-a-1", nil),
		enriched("s3", "threat_report", "security", "sec-a-2", nil),
	}

	security := Events(events, FilterSecurity)
	if len(security) != 1 || security[0].PacketID != "sec-a-2" {
		t.Fatalf("security filter mismatch: %+v", security)
	}

	javascript := Events(events, FilterJavaScript)
	if len(javascript) != 1 || javascript[0].PacketID != "sec-a-1" {
		t.Fatalf("javascript filter mismatch: %+v", javascript)
	}

	all := Events(events, FilterAll)
	if len(all) != 3 {
		t.Fatalf("all filter should keep everything, got %d rows", len(all))
	}

	unknown := Events(events, "bogus")
	if len(unknown) != 3 {
		t.Fatalf("unrecognized filter should keep everything, got %d rows", len(unknown))
	}
}

func TestEventsDomains(t *testing.T) {
	events := []model.ExtensionEvent{
		enriched("s1", "javascript_execution", "javascript", "sec-a-0", map[string]any{
			"url":       "https://page.example.com/article?id=1",
			"scriptUrl": "https://cdn.example.net:443/lib.js",
		}),
	}

	rows := Events(events, FilterAll)
	if rows[0].PageDomain != "page.example.com" {
		t.Fatalf("page domain %q", rows[0].PageDomain)
	}
	if rows[0].ScriptDomain != "cdn.example.net" {
		t.Fatalf("script domain %q", rows[0].ScriptDomain)
	}
}

func TestEventsHostFallback(t *testing.T) {
	events := []model.ExtensionEvent{
		enriched("s1", "custom", "general", "sec-a-0", map[string]any{"host": "fallback.example.com"}),
	}

	rows := Events(events, FilterAll)
	if rows[0].PageDomain != "fallback.example.com" {
		t.Fatalf("host fallback not applied: %q", rows[0].PageDomain)
	}
}

func TestEventsSyntheticIDForUnenriched(t *testing.T) {
	// Events that never went through enrichment (or carry a non-object
	// payload the listing cannot read) get a positional fallback id over
	// the reversed, unfiltered iteration.
	events := []model.ExtensionEvent{
		{SessionID: "s1", EventType: "custom", Data: "scalar"},
		enriched("s2", "custom", "general", "sec-a-7", nil),
		{SessionID: "s3", EventType: "custom", Data: map[string]any{"url": "https://x.example"}},
	}

	rows := Events(events, FilterAll)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].PacketID != "evt-0" {
		t.Fatalf("newest unenriched row id %q, want evt-0", rows[0].PacketID)
	}
	if rows[1].PacketID != "sec-a-7" {
		t.Fatalf("enriched row id %q, want sec-a-7", rows[1].PacketID)
	}
	if rows[2].PacketID != "evt-2" {
		t.Fatalf("oldest unenriched row id %q, want evt-2", rows[2].PacketID)
	}
	if rows[2].Category != "general" {
		t.Fatalf("missing category should default to general, got %q", rows[2].Category)
	}
}

func TestLookupByIndex(t *testing.T) {
	events := []model.ExtensionEvent{
		enriched("oldest", "custom", "general", "sec-a-0", nil),
		enriched("newest", "custom", "general", "sec-a-1", nil),
	}

	got, ok := Lookup(events, "evt-0")
	if !ok || got.SessionID != "newest" {
		t.Fatalf("evt-0 should resolve to the newest event, got %+v ok=%v", got, ok)
	}

	got, ok = Lookup(events, "evt-1")
	if !ok || got.SessionID != "oldest" {
		t.Fatalf("evt-1 should resolve to the oldest event, got %+v ok=%v", got, ok)
	}
}

func TestLookupByPacketID(t *testing.T) {
	events := []model.ExtensionEvent{
		enriched("s1", "custom", "general", "sec-20240101-000000-5", nil),
	}

	got, ok := Lookup(events, "sec-20240101-000000-5")
	if !ok || got.SessionID != "s1" {
		t.Fatalf("packet id lookup failed: %+v ok=%v", got, ok)
	}
}

func TestLookupNotFound(t *testing.T) {
	events := []model.ExtensionEvent{
		enriched("s1", "custom", "general", "sec-a-0", nil),
	}

	for _, id := range []string{"evt-5", "evt--1", "evt-x", "sec-missing", ""} {
		if _, ok := Lookup(events, id); ok {
			t.Fatalf("id %q should not resolve", id)
		}
	}
}

func TestLookupIndexDriftsAfterAppend(t *testing.T) {
	events := []model.ExtensionEvent{
		enriched("first", "custom", "general", "sec-a-0", nil),
	}

	got, _ := Lookup(events, "evt-0")
	if got.SessionID != "first" {
		t.Fatalf("expected first, got %q", got.SessionID)
	}

	events = append(events, enriched("second", "custom", "general", "sec-a-1", nil))
	got, _ = Lookup(events, "evt-0")
	if got.SessionID != "second" {
		t.Fatalf("evt-0 should now point at the newer event, got %q", got.SessionID)
	}
}

func TestClients(t *testing.T) {
	events := make([]model.ExtensionEvent, 0, 5)
	for _, cid := range []string{"c2", "c1", "", "c2", "c3"} {
		ev := enriched(fmt.Sprintf("s-%s", cid), "custom", "general", "sec-a-0", nil)
		ev.ClientID = cid
		events = append(events, ev)
	}

	got := Clients(events)
	want := []string{"c1", "c2", "c3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("clients mismatch: %v != %v", got, want)
	}
}

func TestClientsEmpty(t *testing.T) {
	if got := Clients(nil); len(got) != 0 {
		t.Fatalf("expected no clients, got %v", got)
	}
}
