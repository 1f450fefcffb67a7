package services

import "github.com/pitchside/fixture-engine/realtime"

// Broadcaster is the fire-and-forget notification sink. Implementations must
// never return delivery failures into the calling service; the websocket Hub
// satisfies this by logging and dropping.
type Broadcaster interface {
	BroadcastToFixture(fixtureID int, event realtime.Event)
}
