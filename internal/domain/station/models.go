package station

import "time"

// Station is one physical terminal. The credential issued at registration is
// returned exactly once; only its hash is kept.
type Station struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Registration is what the operator gets back when enrolling a terminal:
// the station record plus the one-time credential to persist locally.
type Registration struct {
	Station Station `json:"station"`
	Token   string  `json:"token"`
}
