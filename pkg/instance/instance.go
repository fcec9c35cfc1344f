package instance

import (
	"os"
	"strings"
)

const fallbackID = "terminal-0"

// ID names the running process for logs and lock ownership. POS_INSTANCE_ID
// wins over the hostname.
func ID() string {
	if id := strings.TrimSpace(os.Getenv("POS_INSTANCE_ID")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && strings.TrimSpace(host) != "" {
		return host
	}
	return fallbackID
}
