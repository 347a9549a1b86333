package telemetry

import (
	"os"

	"github.com/denisbrodbeck/machineid"
)

// DeviceID identifies this host in topic names and client IDs. The
// machine ID is hashed and scoped to the application so the raw ID
// never leaves the host; when unavailable the hostname serves instead.
func DeviceID() string {
	if id, err := machineid.ProtectedID("tcd1304"); err == nil {
		if len(id) > 12 {
			id = id[:12]
		}
		return id
	}
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "unknown"
}
