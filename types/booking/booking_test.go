package booking

import (
	"testing"
)

func TestBookingCreateRequestValidate(t *testing.T) {
	valid := BookingCreateRequest{
		RoomID:    1,
		StartTime: "2025-10-10T09:00:00Z",
		EndTime:   "2025-10-10T10:00:00Z",
		Title:     "Standup",
	}

	tests := []struct {
		name    string
		mutate  func(r *BookingCreateRequest)
		wantErr bool
	}{
		{name: "valid request", mutate: func(r *BookingCreateRequest) {}},
		{name: "missing room", mutate: func(r *BookingCreateRequest) { r.RoomID = 0 }, wantErr: true},
		{name: "missing start", mutate: func(r *BookingCreateRequest) { r.StartTime = "" }, wantErr: true},
		{name: "missing end", mutate: func(r *BookingCreateRequest) { r.EndTime = "" }, wantErr: true},
		{name: "missing title", mutate: func(r *BookingCreateRequest) { r.Title = "" }, wantErr: true},
		{name: "agenda is optional", mutate: func(r *BookingCreateRequest) { r.Agenda = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() returned error: %v", err)
			}
		})
	}
}

func TestBookingCreateRequestParseWindow(t *testing.T) {
	req := BookingCreateRequest{
		RoomID:    1,
		StartTime: "2025-10-10T09:00:00Z",
		EndTime:   "2025-10-10T10:00:00Z",
		Title:     "Standup",
	}
	start, end, err := req.ParseWindow()
	if err != nil {
		t.Fatalf("ParseWindow returned error: %v", err)
	}
	if !end.After(start) {
		t.Errorf("parsed window is inverted: start=%v end=%v", start, end)
	}

	req.EndTime = "10am sharp"
	if _, _, err := req.ParseWindow(); err == nil {
		t.Error("ParseWindow should reject non RFC3339 timestamps")
	}
}
