package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)
	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)

	out := buf.String()
	for _, s := range []string{"debug 1", "info 2"} {
		if strings.Contains(out, s) {
			t.Errorf("unexpected %q in output:\n%s", s, out)
		}
	}
	for _, s := range []string{"WARN: warn 3", "ERROR: error 4"} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in output:\n%s", s, out)
		}
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warning ", LevelWarn},
		{"error", LevelError},
		{"off", LevelNone},
		{"bogus", LevelInfo},
	}
	for _, test := range tests {
		if got := LevelFromString(test.in); got != test.want {
			t.Errorf("LevelFromString(%q): want %v, got %v", test.in, test.want, got)
		}
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Errorf("nothing to see")
	if want, got := LevelNone, l.Level(); want != got {
		t.Errorf("want level %v, got %v", want, got)
	}
}
