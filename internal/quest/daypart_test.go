package quest

import (
	"testing"
	"time"
)

func TestDayPartAt(t *testing.T) {
	cases := []struct {
		hour int
		want DayPart
	}{
		{0, Evening},
		{3, Evening},
		{4, Evening},
		{5, Morning},
		{9, Morning},
		{11, Morning},
		{12, Midday},
		{14, Midday},
		{15, Afternoon},
		{17, Afternoon},
		{18, Evening},
		{21, Evening},
		{23, Evening},
	}

	for _, c := range cases {
		at := time.Date(2025, 6, 3, c.hour, 30, 0, 0, time.Local)
		if got := DayPartAt(at); got != c.want {
			t.Errorf("DayPartAt(hour=%d) = %q, want %q", c.hour, got, c.want)
		}
	}
}
