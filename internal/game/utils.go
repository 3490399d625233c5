// internal/game/utils.go
package game

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// EventBytes marshals a GameEvent into JSON bytes.
// Logs a warning and returns empty JSON "{}" on marshalling error.
func EventBytes(ev GameEvent) []byte {
	data, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).WithField("type", ev.Type).Warn("failed to marshal game event")
		return []byte("{}")
	}
	return data
}
