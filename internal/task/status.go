package task

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Status int

const (
	Todo Status = iota
	InProgress
	Done
	Blocked
)

var statusTokens = [...]string{
	Todo:       "todo",
	InProgress: "in_progress",
	Done:       "done",
	Blocked:    "blocked",
}

// Statuses lists every member in declaration order.
func Statuses() []Status {
	return []Status{Todo, InProgress, Done, Blocked}
}

func (s Status) Valid() bool {
	return s >= Todo && int(s) < len(statusTokens)
}

// String returns the canonical stored token.
func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusTokens[s]
}

// ParseStatus matches token case-insensitively against the fixed token set.
// Unknown tokens are a data corruption error, never a default.
func ParseStatus(token string) (Status, error) {
	for i, t := range statusTokens {
		if strings.EqualFold(token, t) {
			return Status(i), nil
		}
	}
	return Todo, fmt.Errorf("%w: unknown status %q", ErrDataCorruption, token)
}

func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal %s", s)
	}
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var token string
	if err := json.Unmarshal(b, &token); err != nil {
		return err
	}
	parsed, err := ParseStatus(token)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
