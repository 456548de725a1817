package quiz

import "testing"

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{"easy", Easy, false},
		{"  HARD ", Hard, false},
		{"Medium", Medium, false},
		{"brutal", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDifficulty(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDifficultyPoints(t *testing.T) {
	if Easy.Points() != 1 || Medium.Points() != 2 || Hard.Points() != 4 {
		t.Errorf("points = %d/%d/%d, want 1/2/4", Easy.Points(), Medium.Points(), Hard.Points())
	}
}

func TestParseBoard(t *testing.T) {
	got, err := ParseBoard(" cbse ")
	if err != nil || got != CBSE {
		t.Errorf("ParseBoard(cbse) = %q, %v", got, err)
	}
	if _, err := ParseBoard("STATE"); err == nil {
		t.Error("expected error for unknown board")
	}
}

func TestScopeValidate(t *testing.T) {
	ok := Scope{Grade: 9, Board: ICSE, Topic: "geometry"}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid scope rejected: %v", err)
	}

	bad := []Scope{
		{Grade: 5, Board: CBSE, Topic: "fractions"},
		{Grade: 13, Board: CBSE, Topic: "fractions"},
		{Grade: 8, Board: "STATE", Topic: "fractions"},
		{Grade: 8, Board: CBSE, Topic: "   "},
	}
	for _, s := range bad {
		if err := s.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", s)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	if got := NormalizeText("  What is 2+2?  "); got != "what is 2+2?" {
		t.Errorf("NormalizeText = %q", got)
	}
}
