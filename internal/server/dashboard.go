package server

import (
	"net/http"

	"go.uber.org/zap"

	"netwatch/internal/dashboard"
)

func (s *Server) handleDashboardEvents(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = dashboard.FilterAll
	}

	events, err := s.reader.GetExtensionEvents(r.Context())
	if err != nil {
		s.writeDatabaseError(w, clientIP(r), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": dashboard.Events(events, filter),
	})
}

func (s *Server) handleDashboardEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	events, err := s.reader.GetExtensionEvents(r.Context())
	if err != nil {
		s.writeDatabaseError(w, clientIP(r), err)
		return
	}

	ev, ok := dashboard.Lookup(events, id)
	if !ok {
		s.logger.Debug("packet not found", zap.String("packet_id", id))
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":     "packet not found",
			"packet_id": id,
		})
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleDashboardClients(w http.ResponseWriter, r *http.Request) {
	events, err := s.reader.GetExtensionEvents(r.Context())
	if err != nil {
		s.writeDatabaseError(w, clientIP(r), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"clients": dashboard.Clients(events),
	})
}
