// Package viewproto defines the wire messages of the live watch stream:
// a read-only visualization feed, not a control surface.
package viewproto

const Version = "1.0"

const (
	TypeSubscribe = "SUBSCRIBE"
	TypeFrame     = "FRAME"
	TypeDone      = "DONE"
)

// BootstrapResponse describes the room and run a viewer is about to watch.
type BootstrapResponse struct {
	ProtocolVersion string   `json:"protocol_version"`
	Height          int      `json:"height"`
	Width           int      `json:"width"`
	OpenCells       int      `json:"open_cells"`
	Rows            []string `json:"rows"`
	StartRow        int      `json:"start_row"`
	StartCol        int      `json:"start_col"`
	StartState      int      `json:"start_state"`
	MaxSteps        int      `json:"max_steps"`
	TickRateHz      int      `json:"tick_rate_hz"`
}

// SubscribeMsg opens the stream; it must be the first client message.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// FrameMsg reports the robot after one engine step.
type FrameMsg struct {
	Type            string  `json:"type"`
	Step            int     `json:"step"`
	Row             int     `json:"row"`
	Col             int     `json:"col"`
	State           int     `json:"state"`
	Visited         int     `json:"visited"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// DoneMsg closes the stream with the terminal outcome.
type DoneMsg struct {
	Type            string  `json:"type"`
	Status          string  `json:"status"`
	Steps           int     `json:"steps"`
	Visited         int     `json:"visited"`
	CoveragePercent float64 `json:"coverage_percent"`
}
