// internal/models/enums.go
package models

import (
	"encoding/json"
	"fmt"
)

// Visibility gates how new members enter a room.
type Visibility uint8

const (
	Public Visibility = iota
	Private
)

var visibilityNames = map[Visibility]string{
	Public:  "public",
	Private: "private",
}

func (v Visibility) String() string {
	if s, ok := visibilityNames[v]; ok {
		return s
	}
	return fmt.Sprintf("visibility(%d)", uint8(v))
}

func (v Visibility) MarshalJSON() ([]byte, error) {
	return marshalEnum(v.String(), visibilityNames[v] != "")
}

func (v *Visibility) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, visibilityNames, v, "visibility")
}

// RequestStatus is the lifecycle of a join request. Accepted and Rejected are terminal.
type RequestStatus uint8

const (
	Pending RequestStatus = iota
	Accepted
	Rejected
)

var requestStatusNames = map[RequestStatus]string{
	Pending:  "pending",
	Accepted: "accepted",
	Rejected: "rejected",
}

func (s RequestStatus) String() string {
	if n, ok := requestStatusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("request_status(%d)", uint8(s))
}

func (s RequestStatus) MarshalJSON() ([]byte, error) {
	return marshalEnum(s.String(), requestStatusNames[s] != "")
}

func (s *RequestStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, requestStatusNames, s, "request status")
}

// GameStatus only moves forward: Created -> Active -> Completed.
type GameStatus uint8

const (
	Created GameStatus = iota
	Active
	Completed
)

var gameStatusNames = map[GameStatus]string{
	Created:   "created",
	Active:    "active",
	Completed: "completed",
}

func (s GameStatus) String() string {
	if n, ok := gameStatusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("game_status(%d)", uint8(s))
}

func (s GameStatus) MarshalJSON() ([]byte, error) {
	return marshalEnum(s.String(), gameStatusNames[s] != "")
}

func (s *GameStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, gameStatusNames, s, "game status")
}

// Move is the hand a player shows. The numeric values match the order
// the move draw reduces random bytes into.
type Move uint8

const (
	Rock Move = iota
	Paper
	Scissor
)

var moveNames = map[Move]string{
	Rock:    "rock",
	Paper:   "paper",
	Scissor: "scissor",
}

func (m Move) String() string {
	if n, ok := moveNames[m]; ok {
		return n
	}
	return fmt.Sprintf("move(%d)", uint8(m))
}

func (m Move) MarshalJSON() ([]byte, error) {
	return marshalEnum(m.String(), moveNames[m] != "")
}

func (m *Move) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, moveNames, m, "move")
}

func marshalEnum(name string, known bool) ([]byte, error) {
	if !known {
		return nil, fmt.Errorf("cannot marshal unknown value %s", name)
	}
	return json.Marshal(name)
}

func unmarshalEnum[T comparable](data []byte, names map[T]string, dst *T, kind string) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid %s: %w", kind, err)
	}
	for v, n := range names {
		if n == s {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", kind, s)
}
