// Package dashboard implements the read-side views over a store snapshot.
// Everything here is a pure transform: snapshots come in, rows go out, the
// store is never touched.
package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"netwatch/internal/model"
)

// Recognized values for the event listing filter.
const (
	FilterAll        = "all"
	FilterSecurity   = "security"
	FilterJavaScript = "javascript"
)

// EventRow is one row in the dashboard event listing.
type EventRow struct {
	PacketID     string `json:"packet_id"`
	EventType    string `json:"event_type"`
	Category     string `json:"category"`
	PageDomain   string `json:"page_domain"`
	ScriptDomain string `json:"script_domain"`
	ClientID     string `json:"client_id"`
	SessionID    string `json:"session_id"`
	Timestamp    string `json:"timestamp"`
	UserAgent    string `json:"user_agent"`
}

// Events lists stored events newest first, keeping those whose category
// matches the filter (FilterAll keeps everything, as does any unrecognized
// value). A row missing packet_id gets a synthetic "evt-<i>" id where i is
// its position in the reversed, unfiltered iteration; that id drifts as the
// store appends or trims and must not be cached across requests.
func Events(events []model.ExtensionEvent, filter string) []EventRow {
	rows := make([]EventRow, 0, len(events))

	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		pos := len(events) - 1 - i

		data, _ := ev.Data.(map[string]any)
		category := stringField(data, "category")
		if category == "" {
			category = "general"
		}

		switch filter {
		case FilterSecurity, FilterJavaScript:
			if category != filter {
				continue
			}
		}

		packetID := stringField(data, "packet_id")
		if packetID == "" {
			packetID = fmt.Sprintf("evt-%d", pos)
		}

		pageDomain, ok := DomainFromURL(stringField(data, "url"))
		if !ok {
			pageDomain, _ = DomainFromURL(stringField(data, "host"))
		}
		scriptDomain, _ := DomainFromURL(stringField(data, "scriptUrl"))

		rows = append(rows, EventRow{
			PacketID:     packetID,
			EventType:    ev.EventType,
			Category:     category,
			PageDomain:   pageDomain,
			ScriptDomain: scriptDomain,
			ClientID:     ev.ClientID,
			SessionID:    ev.SessionID,
			Timestamp:    ev.Timestamp,
			UserAgent:    ev.UserAgent,
		})
	}

	return rows
}

// Lookup resolves an event by dashboard id. An "evt-<N>" id is a positional
// index into the newest-first ordering; anything else is matched against
// the packet_id stored in event data, scanning newest first.
func Lookup(events []model.ExtensionEvent, id string) (model.ExtensionEvent, bool) {
	if raw, ok := strings.CutPrefix(id, "evt-"); ok {
		if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 && idx < len(events) {
			return events[len(events)-1-idx], true
		}
	}

	for i := len(events) - 1; i >= 0; i-- {
		data, _ := events[i].Data.(map[string]any)
		if pid := stringField(data, "packet_id"); pid != "" && pid == id {
			return events[i], true
		}
	}

	return model.ExtensionEvent{}, false
}

// Clients returns the distinct non-empty client ids across all stored
// events, sorted for stable output.
func Clients(events []model.ExtensionEvent) []string {
	seen := make(map[string]bool)
	for _, ev := range events {
		if ev.ClientID != "" {
			seen[ev.ClientID] = true
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// DomainFromURL extracts the bare host from a URL-ish string: strip an
// optional scheme, cut at the first path/query/fragment separator, drop a
// trailing port. Best effort, never fails on malformed input; the second
// return is false when nothing remains.
func DomainFromURL(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if pos := strings.Index(s, "://"); pos >= 0 {
		s = s[pos+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

func stringField(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	s, _ := data[key].(string)
	return s
}
