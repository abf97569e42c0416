package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"netwatch/internal/model"
)

func (s *Server) handleGetBlocklist(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	bl, err := s.store.GetBlocklist(r.Context())
	if err != nil {
		s.writeDatabaseError(w, ip, err)
		return
	}

	s.logger.Info("blocklist requested",
		zap.String("client_ip", ip),
		zap.Int("url_patterns", len(bl.URLPatterns)),
		zap.Int("youtube_channels", len(bl.YouTubeChannels)),
	)
	writeJSON(w, http.StatusOK, bl)
}

func (s *Server) handlePostBlocklist(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	body, err := s.readBody(r)
	if err != nil {
		s.writeInvalidJSON(w, err)
		return
	}

	var bl model.Blocklist
	if err := json.Unmarshal(body, &bl); err != nil {
		s.logger.Error("failed to parse blocklist", zap.String("client_ip", ip), zap.Error(err))
		s.writeInvalidJSON(w, err)
		return
	}

	s.logger.Info("blocklist update requested",
		zap.String("client_ip", ip),
		zap.Int("url_patterns", len(bl.URLPatterns)),
		zap.Int("youtube_channels", len(bl.YouTubeChannels)),
	)
	for idx, pattern := range bl.URLPatterns {
		s.logger.Debug("url pattern", zap.Int("index", idx), zap.String("pattern", pattern))
	}
	for idx, channel := range bl.YouTubeChannels {
		s.logger.Debug("youtube channel", zap.Int("index", idx), zap.String("channel", channel))
	}

	if err := s.store.UpdateBlocklist(r.Context(), bl); err != nil {
		s.writeDatabaseError(w, ip, err)
		return
	}

	s.logger.Info("blocklist updated", zap.String("client_ip", ip))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Blocklist updated",
		"client_ip": ip,
	})
}
