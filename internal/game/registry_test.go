package game

import "testing"

type testGame struct{}

func (testGame) AppID() string     { return "99999" }
func (testGame) Name() string      { return "Test" }
func (testGame) Aliases() []string { return []string{"TG"} }

func TestResolve(t *testing.T) {
	Register(testGame{})

	tests := map[string]string{
		"":       DefaultAppID,
		"  ":     DefaultAppID,
		"tg":     "99999",
		"TG":     "99999",
		"12345":  "12345",
		" 4000 ": "4000",
	}
	for in, want := range tests {
		if got := Resolve(in); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
	if Get("99999") == nil {
		t.Error("registered game not found")
	}
	if len(All()) == 0 {
		t.Error("All() empty after Register")
	}
}
