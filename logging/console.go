package logging

import (
	"sync"
	"time"
)

// DefaultConsoleSize is the number of entries a Console keeps when created
// with a non-positive size.
const DefaultConsoleSize = 100

// LogEntry is a single captured log record.
type LogEntry struct {
	Time       time.Time      `json:"time"`
	Level      string         `json:"level"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes"`
}

// Console keeps the most recent log entries for developer inspection. Older
// entries are dropped once the console is full. It is safe for concurrent use.
type Console struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
}

// NewConsole creates a Console holding at most size entries.
func NewConsole(size int) *Console {
	if size <= 0 {
		size = DefaultConsoleSize
	}
	return &Console{entries: make([]LogEntry, size)}
}

// Add appends an entry, evicting the oldest when full.
func (c *Console) Add(entry LogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[c.next] = entry
	c.next = (c.next + 1) % len(c.entries)
	if c.next == 0 {
		c.full = true
	}
}

// Entries returns the retained entries, oldest first.
func (c *Console) Entries() []LogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.full {
		out := make([]LogEntry, c.next)
		copy(out, c.entries[:c.next])
		return out
	}

	out := make([]LogEntry, 0, len(c.entries))
	out = append(out, c.entries[c.next:]...)
	out = append(out, c.entries[:c.next]...)
	return out
}

// Clear removes all entries.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.next = 0
	c.full = false
}
