package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"netwatch/internal/event"
	"netwatch/internal/model"
	"netwatch/internal/packetid"
)

func (s *Server) handlePostExtensions(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	ev, ok := s.decodeEvent(w, r, ip)
	if !ok {
		return
	}

	s.logger.Info("extension event received",
		zap.String("client_ip", ip),
		zap.String("session_id", ev.SessionID),
		zap.String("event_type", ev.EventType),
		zap.String("user_agent", ev.UserAgent),
	)
	s.logEventType(ev, ip)

	category := event.Categorize(ev.EventType)
	pid := packetid.Next()
	enriched := event.Enrich(ev, pid, category)

	if err := s.store.AddExtensionEvent(r.Context(), enriched); err != nil {
		s.writeDatabaseError(w, ip, err)
		return
	}

	s.logger.Info("extension event stored",
		zap.String("client_ip", ip), zap.String("packet_id", pid))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Extension event stored",
		"packet_id": pid,
		"client_ip": ip,
	})
}

func (s *Server) handlePostSecurity(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	ev, ok := s.decodeEvent(w, r, ip)
	if !ok {
		return
	}

	pid := packetid.Next()
	enriched := event.Enrich(ev, pid, event.CategorySecurity)

	fields := []zap.Field{
		zap.String("packet_id", pid),
		zap.String("client_ip", ip),
		zap.String("session_id", ev.SessionID),
		zap.String("event_type", ev.EventType),
		zap.String("user_agent", ev.UserAgent),
	}
	if ev.EventType == "chatgpt_file_upload" {
		if data, ok := ev.Data.(map[string]any); ok {
			if name, ok := data["file_name"].(string); ok {
				fields = append(fields, zap.String("file_name", name))
			}
			if payload, ok := data["payload"]; ok {
				fields = append(fields, zap.Any("payload", payload))
			}
		}
	} else {
		fields = append(fields, zap.Any("data", ev.Data))
	}
	s.logger.Info("security packet received", fields...)

	if err := s.store.AddExtensionEvent(r.Context(), enriched); err != nil {
		s.writeDatabaseError(w, ip, err)
		return
	}

	s.logger.Info("security packet stored",
		zap.String("client_ip", ip), zap.String("packet_id", pid))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Security event stored",
		"packet_id": pid,
		"client_ip": ip,
	})
}

func (s *Server) decodeEvent(w http.ResponseWriter, r *http.Request, ip string) (model.ExtensionEvent, bool) {
	body, err := s.readBody(r)
	if err != nil {
		s.writeInvalidJSON(w, err)
		return model.ExtensionEvent{}, false
	}

	var ev model.ExtensionEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		s.logger.Error("failed to parse extension event",
			zap.String("client_ip", ip), zap.Error(err))
		s.writeInvalidJSON(w, err)
		return model.ExtensionEvent{}, false
	}
	return ev, true
}

// logEventType gives lifecycle and threat events their own log levels so
// they stand out in the stream.
func (s *Server) logEventType(ev model.ExtensionEvent, ip string) {
	fields := []zap.Field{
		zap.String("client_ip", ip),
		zap.Any("data", ev.Data),
	}
	switch ev.EventType {
	case "extension_installed":
		s.logger.Warn("extension installed", fields...)
	case "extension_uninstalled":
		s.logger.Warn("extension uninstalled", fields...)
	case "clickfix_detection":
		s.logger.Error("clickfix detected", fields...)
	case "javascript_execution":
		s.logger.Info("javascript execution", fields...)
	default:
		s.logger.Info(fmt.Sprintf("extension event %s", ev.EventType), fields...)
	}
}
