package server

import "time"

// Config is the web server configuration.
type Config struct {
	// Address to listen on (e.g., ":8501")
	ListenAddr string

	// Model is the model identifier shown in the sidebar.
	Model string

	// SessionTTL is how long an idle session keeps its conversation.
	// Zero keeps conversations until the process exits.
	SessionTTL time.Duration

	// SweepInterval is how often idle sessions are discarded.
	// Empty defaults to one minute.
	SweepInterval time.Duration
}
