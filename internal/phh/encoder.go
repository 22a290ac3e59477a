package phh

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
)

var errNilHand = errors.New("phh: nil hand history")

// Encode writes hand as a PHH TOML document.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return errNilHand
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes is Encode into a new buffer.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	err := Encode(&buf, hand)
	return buf.Bytes(), err
}

// Decode reads one PHH hand. Timestamp is rebuilt from the date and time
// fields when they are present.
func Decode(r io.Reader) (*HandHistory, error) {
	hand := &HandHistory{}
	if _, err := toml.NewDecoder(r).Decode(hand); err != nil {
		return nil, fmt.Errorf("phh: %w", err)
	}
	hand.Timestamp = hand.startedAt()
	return hand, nil
}

func (h *HandHistory) startedAt() time.Time {
	if h.Year == 0 || h.Month == 0 || h.Day == 0 {
		return time.Time{}
	}
	loc := time.UTC
	if h.TimeZone != "" {
		if l, err := time.LoadLocation(h.TimeZone); err == nil {
			loc = l
		}
	}
	var clock time.Time
	if h.Time != "" {
		clock, _ = time.Parse(time.TimeOnly, h.Time)
	}
	return time.Date(h.Year, time.Month(h.Month), h.Day, clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
}
