package block

import "testing"

func TestStyleMapString(t *testing.T) {
	m := StyleMap{"color": "red", "background-color": "#fff"}
	want := "background-color:#fff;color:red;"
	if got := m.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if got := StyleMap(nil).String(); got != "" {
		t.Errorf("nil map String() = %q, want empty", got)
	}
}

func TestParseStyle(t *testing.T) {
	m := ParseStyle("color:red; font-weight:bold;")
	if m["color"] != "red" || m["font-weight"] != "bold" {
		t.Errorf("ParseStyle = %v", m)
	}

	if got := ParseStyle(""); got != nil {
		t.Errorf("ParseStyle(\"\") = %v, want nil", got)
	}

	// Malformed segments are skipped, not rejected.
	m = ParseStyle("color:red;;broken;x:y")
	if len(m) != 2 || m["color"] != "red" || m["x"] != "y" {
		t.Errorf("ParseStyle with malformed segment = %v", m)
	}
}

func TestStyleRoundTrip(t *testing.T) {
	m := StyleMap{"color": "#ff0000", "text-decoration": "underline"}
	got := ParseStyle(m.String())
	if !got.Equal(m) {
		t.Errorf("round trip = %v, want %v", got, m)
	}
}

func TestNormalizeColors(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#FF0000", "#ff0000"},
		{"#f00", "#ff0000"},
		{"red", "red"},     // not hex, passes through
		{"#zzz", "#zzz"},   // unparseable, passes through
		{"bogus", "bogus"}, // unknown value untouched
	}
	for _, tt := range tests {
		m := StyleMap{"color": tt.in}.Normalize()
		if got := m["color"]; got != tt.want {
			t.Errorf("Normalize(color=%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeUnknownKeys(t *testing.T) {
	m := StyleMap{"--custom-prop": "whatever", "color": "#00FF00"}.Normalize()
	if m["--custom-prop"] != "whatever" {
		t.Error("unknown keys must pass through untouched")
	}
	if m["color"] != "#00ff00" {
		t.Errorf("color = %q, want #00ff00", m["color"])
	}
}

func TestStyleMapEqual(t *testing.T) {
	a := StyleMap{"color": "red"}
	b := StyleMap{"color": "red"}
	if !a.Equal(b) {
		t.Error("equal maps should compare equal")
	}
	if a.Equal(StyleMap{"color": "blue"}) {
		t.Error("different values should not compare equal")
	}
	if a.Equal(nil) {
		t.Error("nil should not equal non-empty map")
	}
	if !StyleMap(nil).Equal(StyleMap{}) {
		t.Error("nil and empty map should compare equal")
	}
}

func TestStyleMapClone(t *testing.T) {
	a := StyleMap{"color": "red"}
	c := a.Clone()
	c["color"] = "blue"
	if a["color"] != "red" {
		t.Error("Clone must not share storage")
	}
	if StyleMap(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
