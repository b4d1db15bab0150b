package dashboard

import "github.com/goliatone/go-studio/pkg/telemetry"

// Telemetry records layout and widget events.
type Telemetry = telemetry.Recorder

// discardTelemetry is used when Options carries no recorder.
var discardTelemetry Telemetry = telemetry.Multi{}
