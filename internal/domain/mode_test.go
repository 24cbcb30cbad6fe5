package domain

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"normal", ModeStandard, false},
		{"standard", ModeStandard, false},
		{"Beginner", ModeStandard, false},
		{" developer ", ModeDeveloper, false},
		{"dev", ModeDeveloper, false},
		{"", "", true},
		{"expert", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidMode) {
				t.Errorf("ParseMode(%q) error = %v, want ErrInvalidMode", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMode_Toggle(t *testing.T) {
	if got := ModeStandard.Toggle(); got != ModeDeveloper {
		t.Errorf("ModeStandard.Toggle() = %q, want %q", got, ModeDeveloper)
	}
	if got := ModeDeveloper.Toggle(); got != ModeStandard {
		t.Errorf("ModeDeveloper.Toggle() = %q, want %q", got, ModeStandard)
	}
	if got := ModeStandard.Toggle().Toggle(); got != ModeStandard {
		t.Errorf("double Toggle() = %q, want %q", got, ModeStandard)
	}
}

func TestModeFromFlag(t *testing.T) {
	if ModeFromFlag(true) != ModeDeveloper {
		t.Error("ModeFromFlag(true) should be developer")
	}
	if ModeFromFlag(false) != ModeStandard {
		t.Error("ModeFromFlag(false) should be standard")
	}
	if !ModeDeveloper.IsDeveloper() || ModeStandard.IsDeveloper() {
		t.Error("IsDeveloper() mismatch")
	}
}

func TestMode_Valid(t *testing.T) {
	if !ModeStandard.Valid() || !ModeDeveloper.Valid() {
		t.Error("known modes should be valid")
	}
	if Mode("turbo").Valid() {
		t.Error("unknown mode should be invalid")
	}
	if DefaultMode != ModeStandard {
		t.Errorf("DefaultMode = %q, want %q", DefaultMode, ModeStandard)
	}
}
