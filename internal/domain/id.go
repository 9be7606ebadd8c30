package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("id must be a string or a number")

// ID identifies a prompt. Libraries written by the browser app use numeric
// ids (millisecond timestamps, sometimes with a fraction), newer ones may use
// strings. The textual form is kept verbatim so ids survive round trips.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

// MarshalJSON writes numeric ids as JSON numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if isNumberLiteral(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string or number. null leaves the id untouched.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	case isNumberLiteral(string(data)):
		*id = ID(data)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidID, data)
	}
}

func isNumberLiteral(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(s))
}

// Clock abstracts time.Now for tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// IDGenerator mints ids. taken reports ids already in use; generators must
// never return one of them.
type IDGenerator interface {
	Next(now time.Time, taken func(ID) bool) ID
}

// MillisIDs issues the current Unix time in milliseconds, bumped so that
// two ids from the same generator never repeat.
type MillisIDs struct {
	mu   sync.Mutex
	last int64
}

func (g *MillisIDs) Next(now time.Time, taken func(ID) bool) ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := now.UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	for taken != nil && taken(ID(strconv.FormatInt(n, 10))) {
		n++
	}
	g.last = n
	return ID(strconv.FormatInt(n, 10))
}

// SuffixedIDs issues "<unix-ms>-<8 hex chars>" ids for imported records
// whose own id was missing or already in use.
type SuffixedIDs struct{}

func (SuffixedIDs) Next(now time.Time, taken func(ID) bool) ID {
	for {
		id := ID(fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8]))
		if taken == nil || !taken(id) {
			return id
		}
	}
}
