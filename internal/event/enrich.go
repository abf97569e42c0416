// Package event derives storage metadata for inbound extension events.
package event

import (
	"netwatch/internal/model"
)

// Event categories attached to stored payloads.
const (
	CategoryGeneral    = "general"
	CategoryJavaScript = "javascript"
	CategorySecurity   = "security"
)

// Categorize maps an event type to its category. Events arriving on the
// security ingestion path bypass this and are tagged CategorySecurity by
// the caller.
func Categorize(eventType string) string {
	if eventType == "javascript_execution" {
		return CategoryJavaScript
	}
	return CategoryGeneral
}

// Enrich returns a copy of ev whose data carries packet_id and category.
// Object payloads keep their existing keys and get the two injected
// (overwriting previous values, so enrichment is idempotent on the key
// set). Any other payload shape is rewrapped as an object with exactly
// packet_id, category, and the original value under "data". Stored events
// therefore always carry an object payload with at least those two keys.
// The input payload is never mutated.
func Enrich(ev model.ExtensionEvent, packetID, category string) model.ExtensionEvent {
	if obj, ok := ev.Data.(map[string]any); ok {
		out := make(map[string]any, len(obj)+2)
		for k, v := range obj {
			out[k] = v
		}
		out["packet_id"] = packetID
		out["category"] = category
		ev.Data = out
		return ev
	}

	ev.Data = map[string]any{
		"packet_id": packetID,
		"category":  category,
		"data":      ev.Data,
	}
	return ev
}
