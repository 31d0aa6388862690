package utils

import (
	"testing"
	"time"
)

func TestParseRFC3339(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid UTC", input: "2025-10-10T09:00:00Z"},
		{name: "valid with offset", input: "2025-10-10T09:00:00+06:00"},
		{name: "date only", input: "2025-10-10", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRFC3339(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRFC3339(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseRFC3339(%q) returned error: %v", tt.input, err)
			}
		})
	}
}

func TestDayWindow(t *testing.T) {
	start, end, err := DayWindow("2025-10-10")
	if err != nil {
		t.Fatalf("DayWindow returned error: %v", err)
	}
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("start is not midnight: %v", start)
	}
	if got := end.Sub(start); got != 24*time.Hour {
		t.Errorf("window length = %v, want 24h", got)
	}
	if start.Day() != 10 || start.Month() != time.October || start.Year() != 2025 {
		t.Errorf("start is on the wrong day: %v", start)
	}

	if _, _, err := DayWindow("10/10/2025"); err == nil {
		t.Error("DayWindow should reject non ISO dates")
	}
}
