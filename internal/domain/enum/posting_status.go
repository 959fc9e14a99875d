package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PostingStatus tracks a commercial document through Draft -> Posted -> Reversed
type PostingStatus int

const (
	PostingStatusDraft    PostingStatus = 0
	PostingStatusPosted   PostingStatus = 1
	PostingStatusReversed PostingStatus = 2
)

func (s PostingStatus) String() string {
	switch s {
	case PostingStatusPosted:
		return "Posted"
	case PostingStatusReversed:
		return "Reversed"
	default:
		return "Draft"
	}
}

func (s PostingStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PostingStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PostingStatus(i)
		return nil
	}
	switch str {
	case "Posted":
		*s = PostingStatusPosted
	case "Reversed":
		*s = PostingStatusReversed
	default:
		*s = PostingStatusDraft
	}
	return nil
}

func (s PostingStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PostingStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PostingStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PostingStatus(v)
	case int:
		*s = PostingStatus(v)
	}
	return nil
}
