package task

import (
	"errors"
	"slices"
	"testing"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input   string
		want    Priority
		wantErr bool
	}{
		{input: "High", want: PriorityHigh},
		{input: "medium", want: PriorityMedium},
		{input: "LOW", want: PriorityLow},
		{input: "urgent", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPriority) {
					t.Fatalf("ParsePriority(%q) error = %v, want ErrInvalidPriority", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTask_Span(t *testing.T) {
	t.Run("within one day", func(t *testing.T) {
		tsk := &Task{Day: Wednesday, Hour: 14, Duration: 2}
		want := []Slot{{Wednesday, 14}, {Wednesday, 15}}
		if got := tsk.Span(); !slices.Equal(got, want) {
			t.Errorf("Span() = %v, want %v", got, want)
		}
		if tsk.CrossesMidnight() {
			t.Error("expected task not to cross midnight")
		}
	})

	t.Run("wraps into next day", func(t *testing.T) {
		tsk := &Task{Day: Tuesday, Hour: 22, Duration: 4}
		want := []Slot{{Tuesday, 22}, {Tuesday, 23}, {Wednesday, 0}, {Wednesday, 1}}
		if got := tsk.Span(); !slices.Equal(got, want) {
			t.Errorf("Span() = %v, want %v", got, want)
		}
		if !tsk.CrossesMidnight() {
			t.Error("expected task to cross midnight")
		}
	})

	t.Run("sunday wraps to monday", func(t *testing.T) {
		got := SpanOf(Sunday, 23, 2)
		want := []Slot{{Sunday, 23}, {Monday, 0}}
		if !slices.Equal(got, want) {
			t.Errorf("SpanOf = %v, want %v", got, want)
		}
	})

	t.Run("zero duration", func(t *testing.T) {
		if got := SpanOf(Monday, 9, 0); got != nil {
			t.Errorf("expected nil span, got %v", got)
		}
	})
}

func TestTask_Validate(t *testing.T) {
	valid := func() *Task {
		return &Task{Title: "Write report", Priority: PriorityHigh, Day: Monday, Hour: 9, Duration: 2}
	}

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{name: "valid", mutate: func(*Task) {}},
		{name: "empty title", mutate: func(t *Task) { t.Title = "  " }, wantErr: ErrEmptyTitle},
		{name: "bad priority", mutate: func(t *Task) { t.Priority = "Urgent" }, wantErr: ErrInvalidPriority},
		{name: "bad day", mutate: func(t *Task) { t.Day = Day(7) }, wantErr: ErrInvalidDay},
		{name: "bad hour", mutate: func(t *Task) { t.Hour = 24 }, wantErr: ErrInvalidTimeFormat},
		{name: "zero duration", mutate: func(t *Task) { t.Duration = 0 }, wantErr: ErrInvalidDuration},
		{name: "too long", mutate: func(t *Task) { t.Duration = 25 }, wantErr: ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tsk := valid()
			tt.mutate(tsk)
			err := tsk.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlot_String(t *testing.T) {
	s := Slot{Day: Thursday, Hour: 8}
	if s.String() != "Thursday 08:00" {
		t.Errorf("got %q", s.String())
	}
}
