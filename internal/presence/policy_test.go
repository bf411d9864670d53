package presence

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		contained bool
		method    Method
		want      Status
	}{
		{"inside auto", true, MethodAuto, StatusPresent},
		{"inside manual", true, MethodManual, StatusPresent},
		{"outside manual", false, MethodManual, StatusLate},
		{"outside auto", false, MethodAuto, StatusOutside},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := Classify(tt.contained, tt.method)
			if got != tt.want {
				t.Errorf("Classify(%v, %s) = %s, want %s", tt.contained, tt.method, got, tt.want)
			}
			if reason == "" {
				t.Error("expected a non-empty reason")
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	s1, r1 := Classify(false, MethodManual)
	s2, r2 := Classify(false, MethodManual)
	if s1 != s2 || r1 != r2 {
		t.Errorf("Classify is not deterministic: (%s,%q) vs (%s,%q)", s1, r1, s2, r2)
	}
}

func TestCoordinateValid(t *testing.T) {
	tests := []struct {
		name string
		c    Coordinate
		want bool
	}{
		{"paris", Coordinate{48.8566, 2.3522}, true},
		{"extremes", Coordinate{-90, 180}, true},
		{"lat too high", Coordinate{90.1, 0}, false},
		{"lat too low", Coordinate{-90.1, 0}, false},
		{"lon too high", Coordinate{0, 180.1}, false},
		{"lon too low", Coordinate{0, -180.1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Errorf("(%v).Valid() = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}
