package config

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
	// Longest wait for the next client frame. Zero waits forever.
	ReadTimeout time.Duration
}

func NewWebSocket(c Config) *WebSocket {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(c.AllowedOrigins) == 0 || slices.Contains(c.AllowedOrigins, "*") {
				return true
			}
			return slices.Contains(c.AllowedOrigins, r.Header.Get("Origin"))
		},
	}
	return &WebSocket{
		Upgrader:    upgrader,
		ReadTimeout: c.Sessions.TTL.Duration,
	}
}
