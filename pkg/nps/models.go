package nps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Park is a park record as returned by the NPS /parks endpoint. Nested
// documents are kept as raw JSON and passed through untouched.
type Park struct {
	ID             string          `json:"id"`
	ParkCode       string          `json:"parkCode"`
	FullName       string          `json:"fullName"`
	Description    string          `json:"description"`
	URL            string          `json:"url"`
	States         StateList       `json:"states"`
	LatLong        string          `json:"latLong"`
	RelevanceScore float64         `json:"relevanceScore"`
	Addresses      json.RawMessage `json:"addresses,omitempty"`
	Activities     json.RawMessage `json:"activities,omitempty"`
	Topics         json.RawMessage `json:"topics,omitempty"`
	Amenities      json.RawMessage `json:"amenities,omitempty"`
}

// ParkPage is one page of the paginated park listing.
type ParkPage struct {
	Data  []Park  `json:"data"`
	Total FlexInt `json:"total"`
}

// StateList accepts both the comma separated string NPS sends ("CA,NV") and
// a JSON array of codes.
type StateList []string

func (s *StateList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = StateList{}
		return nil
	}

	var raw []string
	if b[0] == '[' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("states: %w", err)
		}
	} else {
		var joined string
		if err := json.Unmarshal(b, &joined); err != nil {
			return fmt.Errorf("states: %w", err)
		}
		raw = strings.Split(joined, ",")
	}

	out := make(StateList, 0, len(raw))
	for _, code := range raw {
		if code = strings.TrimSpace(code); code != "" {
			out = append(out, code)
		}
	}
	*s = out
	return nil
}

// FlexInt decodes an integer that may be sent as a JSON string ("474").
type FlexInt int

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("total: %w", err)
	}
	*n = FlexInt(v)
	return nil
}

type listResponse struct {
	Data []json.RawMessage `json:"data"`
}
