package core

import "testing"

func TestInputFrame(t *testing.T) {
	var f InputFrame
	f.Set(ActionLocomotive)
	f.Set(ActionConfirm)

	if !f.Has(ActionLocomotive) || !f.Has(ActionConfirm) {
		t.Errorf("Actions = %v, expected Locomotive and Confirm", f.Actions)
	}
	if f.Has(ActionRestart) {
		t.Error("Has(Restart) = true, expected false")
	}

	f.Clear()
	if f.Has(ActionLocomotive) || len(f.Actions) != 0 {
		t.Errorf("Actions = %v after Clear, expected none", f.Actions)
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action   Action
		expected string
	}{
		{ActionNone, "None"},
		{ActionLocomotive, "Locomotive"},
		{ActionQuit, "Quit"},
		{Action(-1), "Unknown"},
		{ActionQuit + 1, "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.action.String(); got != tt.expected {
			t.Errorf("Action(%d).String() = %q, expected %q", int(tt.action), got, tt.expected)
		}
	}
}
