package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores a []string as a JSON column. Works on sqlite, mysql
// and postgres without driver-specific array types.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// HourRange is an inclusive start/end hour pair.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// HourWindows maps a lowercase weekday name ("monday" .. "sunday") to the
// hour range during which access is allowed. Stored as a JSON column.
type HourWindows map[string]HourRange

// Value implements driver.Valuer.
func (w HourWindows) Value() (driver.Value, error) {
	if w == nil {
		w = HourWindows{}
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner.
func (w *HourWindows) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	default:
		return fmt.Errorf("cannot scan %T into HourWindows", value)
	}
}
