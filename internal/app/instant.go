package app

import (
	"encoding/json"
	"time"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/jst"
)

// Instant is a time that serialises as a UTC ISO-8601 string with
// millisecond precision, e.g. 2023-12-31T15:00:00.000Z.
type Instant time.Time

// InstantPtr returns nil for a nil t.
func InstantPtr(t *time.Time) *Instant {
	if t == nil {
		return nil
	}
	i := Instant(*t)
	return &i
}

func (i Instant) Time() time.Time {
	return time.Time(i)
}

func (i Instant) String() string {
	return jst.FormatInstant(time.Time(i))
}

func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i *Instant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(jst.InstantLayout, s)
	if err != nil {
		return err
	}
	*i = Instant(t)
	return nil
}
