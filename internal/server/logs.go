package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"netwatch/internal/model"
)

func (s *Server) handlePostLogs(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	body, err := s.readBody(r)
	if err != nil {
		s.writeInvalidJSON(w, err)
		return
	}

	var entry model.LogEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		s.logger.Error("failed to parse log entry", zap.String("client_ip", ip), zap.Error(err))
		s.writeInvalidJSON(w, err)
		return
	}

	if entry.SessionID == "" {
		s.logger.Warn("log entry with empty session id", zap.String("client_ip", ip))
	}
	if entry.UserAgent == "" {
		s.logger.Warn("log entry with empty user agent", zap.String("client_ip", ip))
	}

	s.logger.Info("log entry received",
		zap.String("client_ip", ip),
		zap.String("session_id", entry.SessionID),
		zap.Int("logs_count", len(entry.Logs)),
		zap.String("user_agent", entry.UserAgent),
		zap.String("timestamp", entry.Timestamp),
	)

	if len(entry.Logs) == 0 {
		s.logger.Warn("log entry with empty logs array", zap.String("client_ip", ip))
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"message":    "Logs stored (empty batch)",
			"logs_count": 0,
			"client_ip":  ip,
		})
		return
	}

	blocked := 0
	uniqueURLs := make(map[string]struct{}, len(entry.Logs))
	for idx, nl := range entry.Logs {
		if nl.URL == "" {
			s.logger.Warn("network log with empty url",
				zap.Int("index", idx), zap.String("client_ip", ip))
		}
		uniqueURLs[nl.URL] = struct{}{}
		s.logger.Debug("network log",
			zap.Int("index", idx),
			zap.String("client_ip", ip),
			zap.String("request_id", nl.RequestID),
			zap.String("url", nl.URL),
			zap.String("method", nl.Method),
			zap.String("type", nl.RequestType),
			zap.Bool("blocked", nl.Blocked),
			zap.String("block_reason", nl.BlockReason),
		)
		if nl.Blocked {
			blocked++
			s.logger.Warn("blocked request",
				zap.String("client_ip", ip),
				zap.String("url", nl.URL),
				zap.String("reason", nl.BlockReason),
			)
		}
		if nl.RequestType == "main_frame" {
			s.logger.Info("page navigation",
				zap.String("client_ip", ip),
				zap.String("url", nl.URL),
				zap.String("method", nl.Method),
			)
		}
	}

	logsCount := len(entry.Logs)
	s.logger.Info("batch summary",
		zap.String("client_ip", ip),
		zap.Int("total", logsCount),
		zap.Int("blocked", blocked),
		zap.Int("unique_urls", len(uniqueURLs)),
	)

	if err := s.store.AddLog(r.Context(), entry); err != nil {
		s.writeDatabaseError(w, ip, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Logs stored",
		"logs_count":    logsCount,
		"blocked_count": blocked,
		"unique_urls":   len(uniqueURLs),
		"client_ip":     ip,
	})
}

func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	logs, err := s.reader.GetLogs(r.Context())
	if err != nil {
		s.writeDatabaseError(w, ip, err)
		return
	}

	s.logger.Info("logs requested", zap.String("client_ip", ip), zap.Int("entries", len(logs)))
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) writeInvalidJSON(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   "Invalid JSON: " + err.Error(),
	})
}

func (s *Server) writeDatabaseError(w http.ResponseWriter, ip string, err error) {
	s.logger.Error("database error", zap.String("client_ip", ip), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success":   false,
		"error":     "Database error: " + err.Error(),
		"client_ip": ip,
	})
}
