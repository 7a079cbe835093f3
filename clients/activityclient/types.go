package activityclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Activity is a named offering with a schedule, a capacity and a participant list.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// AvailableSpots returns the number of free places. It is always derived from
// the participant list and never stored.
func (a Activity) AvailableSpots() int {
	return a.MaxParticipants - len(a.Participants)
}

// Activities is the activity collection in the order the server returned it.
//
// On the wire it is a JSON object keyed by activity name. A repeated key keeps
// the position of its first occurrence and the value of its last.
type Activities []Activity

// Names returns the activity names in order.
func (as Activities) Names() []string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.Name
	}
	return names
}

// UnmarshalJSON decodes a name -> details object preserving key order.
func (as *Activities) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	result := make(Activities, 0)
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected activity name, got %v", tok)
		}

		var a Activity
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("decoding activity %q: %w", name, err)
		}
		a.Name = name
		if a.Participants == nil {
			a.Participants = []string{}
		}

		if i, seen := index[name]; seen {
			result[i] = a
			continue
		}
		index[name] = len(result)
		result = append(result, a)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*as = result
	return nil
}

// MarshalJSON encodes the collection back into a name -> details object in order.
func (as Activities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range as {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// actionResponse is the body of a signup or unregister call. Successful calls
// carry Message, failed ones carry Detail.
type actionResponse struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

// detail returns Detail when it is a JSON string. Structured details, such as
// a list of validation errors, yield "".
func (r actionResponse) detail() string {
	var s string
	if len(r.Detail) == 0 || json.Unmarshal(r.Detail, &s) != nil {
		return ""
	}
	return s
}
