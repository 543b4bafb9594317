package timetable

import (
	"encoding/json"
	"testing"
)

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name        string
		start, end  TimeSlot
		granularity int
		wantLen     int
		wantErr     bool
	}{
		{name: "default window", start: NewTimeSlot(8, 0), end: NewTimeSlot(20, 0), granularity: 15, wantLen: 48},
		{name: "hourly", start: NewTimeSlot(8, 0), end: NewTimeSlot(12, 0), granularity: 60, wantLen: 4},
		{name: "single slot", start: NewTimeSlot(9, 0), end: NewTimeSlot(9, 15), granularity: 15, wantLen: 1},
		{name: "whole day", start: 0, end: NewTimeSlot(24, 0), granularity: 30, wantLen: 48},
		{name: "end before start", start: NewTimeSlot(10, 0), end: NewTimeSlot(9, 0), granularity: 15, wantErr: true},
		{name: "empty range", start: NewTimeSlot(10, 0), end: NewTimeSlot(10, 0), granularity: 15, wantErr: true},
		{name: "zero granularity", start: NewTimeSlot(8, 0), end: NewTimeSlot(9, 0), granularity: 0, wantErr: true},
		{name: "negative granularity", start: NewTimeSlot(8, 0), end: NewTimeSlot(9, 0), granularity: -15, wantErr: true},
		{name: "not divisible", start: NewTimeSlot(8, 0), end: NewTimeSlot(9, 10), granularity: 15, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := GenerateSlots(tt.start, tt.end, tt.granularity)
			if tt.wantErr {
				if _, ok := err.(*InvalidRangeError); !ok {
					t.Fatalf("GenerateSlots() error = %v, want *InvalidRangeError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateSlots() unexpected error = %v", err)
			}
			if len(slots) != tt.wantLen {
				t.Errorf("len(slots) = %d, want %d", len(slots), tt.wantLen)
			}
			if len(slots) != int(tt.end-tt.start)/tt.granularity {
				t.Errorf("len(slots) = %d, want (end-start)/granularity", len(slots))
			}
			if slots[0] != tt.start {
				t.Errorf("slots[0] = %v, want %v", slots[0], tt.start)
			}
			for i := 1; i < len(slots); i++ {
				if slots[i]-slots[i-1] != TimeSlot(tt.granularity) {
					t.Fatalf("slots not strictly increasing by granularity at %d: %v, %v", i, slots[i-1], slots[i])
				}
			}
		})
	}
}

func TestParseTimeSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeSlot
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "08:00", want: 480},
		{in: "09:15", want: 555},
		{in: "9:15", wantErr: true},
		{in: "+9:00", wantErr: true},
		{in: "+09:0", wantErr: true},
		{in: "09:+5", wantErr: true},
		{in: "009:00", wantErr: true},
		{in: "09.00", wantErr: true},
		{in: " 10:30 ", want: 630},
		{in: "24:00", want: 1440},
		{in: "24:15", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "-1:00", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "1200", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeSlot(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeSlot() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimeSlot() = %v, want %v", int(got), int(tt.want))
			}
		})
	}
}

func TestTimeSlot_JSON(t *testing.T) {
	var ts TimeSlot
	if err := json.Unmarshal([]byte(`"10:45"`), &ts); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if ts != NewTimeSlot(10, 45) {
		t.Errorf("ts = %v, want 10:45", ts)
	}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `"10:45"` {
		t.Errorf("json.Marshal() = %s", data)
	}
	if err = json.Unmarshal([]byte(`645`), &ts); err == nil {
		t.Error("json.Unmarshal() of a number should fail")
	}
}

func TestWeekdays(t *testing.T) {
	days := Weekdays()
	if len(days) != 6 {
		t.Fatalf("len(Weekdays()) = %d, want 6", len(days))
	}
	if days[0] != Monday || days[5] != Saturday {
		t.Errorf("Weekdays() = %v, want Monday..Saturday", days)
	}
	for i := 1; i < len(days); i++ {
		if days[i] != days[i-1]+1 {
			t.Errorf("Weekdays() not ordered: %v", days)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    Weekday
		wantErr bool
	}{
		{in: "Monday", want: Monday},
		{in: "monday", want: Monday},
		{in: "SATURDAY", want: Saturday},
		{in: "wed", want: Wednesday},
		{in: "Sunday", wantErr: true},
		{in: "sun", wantErr: true},
		{in: "lol", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseWeekday() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseAxis(t *testing.T) {
	axis, err := ParseAxis("08:00", "20:00", 15)
	if err != nil {
		t.Fatalf("ParseAxis() error = %v", err)
	}
	if axis != DefaultAxis() {
		t.Errorf("ParseAxis() = %+v, want %+v", axis, DefaultAxis())
	}
	if _, err = ParseAxis("08:00", "07:00", 15); err == nil {
		t.Error("ParseAxis() with end before start should fail")
	}
	if _, err = ParseAxis("8h", "20:00", 15); err == nil {
		t.Error("ParseAxis() with malformed start should fail")
	}
}
