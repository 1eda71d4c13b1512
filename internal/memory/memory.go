// Package memory measures the resident memory of the running process.
package memory

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

const bytesPerMB = 1024 * 1024

// ProcessProbe reports the resident set size of one process in megabytes.
type ProcessProbe struct {
	ctx  context.Context
	proc *process.Process
	last float64
	err  error
}

// NewProcessProbe returns a probe for the current process.
func NewProcessProbe(ctx context.Context) (*ProcessProbe, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to open process %d: %w", os.Getpid(), err)
	}
	return &ProcessProbe{ctx: ctx, proc: proc}, nil
}

// UsageMB returns the current RSS in megabytes. When the measurement fails
// the last successful reading is returned and the error is kept for Err.
func (p *ProcessProbe) UsageMB() float64 {
	info, err := p.proc.MemoryInfoWithContext(p.ctx)
	if err != nil {
		p.err = err
		return p.last
	}
	p.err = nil
	p.last = float64(info.RSS) / bytesPerMB
	return p.last
}

// Err returns the error of the most recent measurement, if any.
func (p *ProcessProbe) Err() error { return p.err }
