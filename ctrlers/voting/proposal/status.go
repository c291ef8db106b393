package proposal

import (
	"encoding/json"
	"fmt"
)

type Status uint8

const (
	InProgress Status = iota
	Canceled
	Passed
	Rejected
	Tied
)

var statusNames = map[Status]string{
	InProgress: "InProgress",
	Canceled:   "Canceled",
	Passed:     "Passed",
	Rejected:   "Rejected",
	Tied:       "Tied",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// IsTerminal returns true for every status except InProgress.
func (s Status) IsTerminal() bool {
	return s != InProgress
}

func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(bz []byte) error {
	var str string
	if err := json.Unmarshal(bz, &str); err != nil {
		return err
	}
	for k, v := range statusNames {
		if v == str {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown proposal status: %s", str)
}
