package commands

import "github.com/goliatone/go-studio/pkg/telemetry"

// Telemetry receives one event per executed widget command.
type Telemetry = telemetry.Recorder

// recorderOr substitutes an empty telemetry.Multi, which drops events, for a
// missing recorder.
func recorderOr(t Telemetry) Telemetry {
	if t == nil {
		return telemetry.Multi{}
	}
	return t
}
