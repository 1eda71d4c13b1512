package logging

import (
	"strconv"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// RunID adds a run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// Strategy adds the frontier name.
func Strategy(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("strategy", name)
	}
}

// Explored adds the explored set size.
func Explored(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("explored", n)
	}
}

// FrontierSize adds the frontier size.
func FrontierSize(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("frontier", n)
	}
}

// Generated adds the generated states count.
func Generated(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("generated", n)
	}
}

// Elapsed adds a duration field in milliseconds.
func Elapsed(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("elapsed_ms", d.Milliseconds())
	}
}

// Memory adds current and maximum memory usage in megabytes.
func Memory(usageMB, maxMB float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("alloc_mb", formatMB(usageMB)).Str("max_alloc_mb", formatMB(maxMB))
	}
}

func formatMB(mb float64) string {
	return strconv.FormatFloat(mb, 'f', 2, 64)
}

// Outcome adds the search outcome.
func Outcome(outcome string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("outcome", outcome)
	}
}

// PlanLength adds the number of joint actions in a plan.
func PlanLength(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("plan_length", n)
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// Int adds an integer field with custom key.
func Int(key string, value int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, value)
	}
}
