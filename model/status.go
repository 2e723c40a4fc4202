package model

import "fmt"

// Status is the closed set of lifecycle states a production run moves through.
// The string values are part of the wire and persistence contract and must
// stay stable for interoperability with previously serialized records.
type Status string

const (
	StatusPlanned             Status = "Planned"
	StatusInProgress          Status = "InProgress"
	StatusProductionCompleted Status = "ProductionCompleted"
	StatusWashing             Status = "Washing"
	StatusWashingCompleted    Status = "WashingCompleted"
	StatusCompleted           Status = "Completed"
	StatusCancelled           Status = "Cancelled"
)

// statusSuccessors encodes the legal transition graph. Cancelled is reachable
// from every non-terminal state; Completed and Cancelled have no successors.
var statusSuccessors = map[Status][]Status{
	StatusPlanned:             {StatusInProgress, StatusCancelled},
	StatusInProgress:          {StatusProductionCompleted, StatusCancelled},
	StatusProductionCompleted: {StatusWashing, StatusCancelled},
	StatusWashing:             {StatusWashingCompleted, StatusCancelled},
	StatusWashingCompleted:    {StatusCompleted, StatusCancelled},
	StatusCompleted:           {},
	StatusCancelled:           {},
}

// ParseStatus validates a raw status string against the closed set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := statusSuccessors[s]; !ok {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s Status) IsTerminal() bool {
	return len(statusSuccessors[s]) == 0
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusSuccessors[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
