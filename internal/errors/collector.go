package errors

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Severity ranks a collected problem.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Problem is one issue found while loading or registering definitions.
type Problem struct {
	File      string
	Component string
	Field     string
	Message   string
	Severity  Severity
	Timestamp time.Time
}

// Error implements the error interface
func (p *Problem) Error() string {
	location := p.File
	if p.Component != "" {
		if location != "" {
			location += ":"
		}
		location += p.Component
	}
	if p.Field != "" {
		location += "." + p.Field
	}
	if location == "" {
		return fmt.Sprintf("%s: %s", p.Severity, p.Message)
	}
	return fmt.Sprintf("%s: %s: %s", location, p.Severity, p.Message)
}

// Collector accumulates problems across a batch of files. It is safe for
// concurrent use.
type Collector struct {
	problems []Problem
	errors   []error
	mutex    sync.RWMutex
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a problem.
func (c *Collector) Add(p Problem) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	c.problems = append(c.problems, p)
}

// AddError records a general error. Nil errors are ignored.
func (c *Collector) AddError(err error) {
	if err == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.errors = append(c.errors, err)
}

// Problems returns a copy of the collected problems ordered by file.
func (c *Collector) Problems() []Problem {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make([]Problem, len(c.problems))
	copy(result, c.problems)
	sort.SliceStable(result, func(i, j int) bool { return result[i].File < result[j].File })
	return result
}

// Errors returns every problem of error severity plus the general errors.
func (c *Collector) Errors() []error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	all := make([]error, 0, len(c.problems)+len(c.errors))
	for i := range c.problems {
		if c.problems[i].Severity == SeverityError {
			p := c.problems[i]
			all = append(all, &p)
		}
	}
	return append(all, c.errors...)
}

// HasErrors reports whether anything of error severity was collected.
func (c *Collector) HasErrors() bool {
	return len(c.Errors()) > 0
}

// Clear drops everything collected so far.
func (c *Collector) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.problems = c.problems[:0]
	c.errors = c.errors[:0]
}

// Err combines the collected errors into one, or returns nil.
func (c *Collector) Err() error {
	return Combine(c.Errors()...)
}
