package searchclient

import (
	"math"
	"time"

	"github.com/pdrpinto/searchclient/internal/logging"
)

// Status is a progress report of a running search.
type Status struct {
	RunID        string
	Strategy     string
	Explored     int
	FrontierSize int
	Elapsed      time.Duration
	MemoryMB     float64
	MaxMemoryMB  float64
}

// Generated is the number of states generated so far: explored plus frontier.
func (s Status) Generated() int { return s.Explored + s.FrontierSize }

// StatusReporter receives status reports. Reports never influence the search.
type StatusReporter func(Status)

// LogStatus is the default StatusReporter; it writes one info line per report.
func LogStatus(status Status) {
	logging.Info().
		Add(logging.RunID(status.RunID)).
		Add(logging.Strategy(status.Strategy)).
		Add(logging.Explored(status.Explored)).
		Add(logging.FrontierSize(status.FrontierSize)).
		Add(logging.Generated(status.Generated())).
		Add(logging.Elapsed(status.Elapsed)).
		Add(logging.Memory(status.MemoryMB, status.MaxMemoryMB)).
		Msg("search status")
}

// MemoryProbe reports the memory used by the process in megabytes.
type MemoryProbe interface {
	UsageMB() float64
}

// MemoryProbeFunc adapts a function to MemoryProbe.
type MemoryProbeFunc func() float64

func (f MemoryProbeFunc) UsageMB() float64 { return f() }

// Unbounded is the memory bound that never triggers.
var Unbounded = math.Inf(1)
