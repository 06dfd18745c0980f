package types

import (
	"time"
)

// SessionState represents the connection state of the server
type SessionState string

const (
	StateIdle      SessionState = "Idle"
	StateConnected SessionState = "Connected"
)

// Status is a point-in-time view of the server
type Status struct {
	State       SessionState `json:"state"`
	Remote      string       `json:"remote,omitempty"`
	Configured  bool         `json:"configured"`
	Rows        int          `json:"rows"`
	Cols        int          `json:"cols"`
	Elements    int          `json:"elements"`
	ConnectedAt time.Time    `json:"connected_at"`
}
