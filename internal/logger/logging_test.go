package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseFormatter(t *testing.T) {
	testCases := []struct {
		in      string
		want    log.Formatter
		wantErr bool
	}{
		{"", log.TextFormatter, false},
		{"TEXT", log.TextFormatter, false},
		{"json", log.JSONFormatter, false},
		{"logfmt", log.LogfmtFormatter, false},
		{"yaml", log.TextFormatter, true},
	}
	for _, tc := range testCases {
		got, err := ParseFormatter(tc.in)
		if got != tc.want || (err != nil) != tc.wantErr {
			t.Errorf("ParseFormatter(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestSetup(t *testing.T) {
	defer log.SetDefault(log.New(&bytes.Buffer{}))

	var buf bytes.Buffer
	if err := Setup(&buf, "info", "json", false); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if log.GetLevel() != log.InfoLevel {
		t.Errorf("level = %v, want info", log.GetLevel())
	}
	log.Info("hello", "term", "lodash")
	if !strings.Contains(buf.String(), `"term":"lodash"`) {
		t.Errorf("json output missing field: %q", buf.String())
	}

	if err := Setup(&buf, "info", "text", true); err != nil {
		t.Fatalf("Setup debug: %v", err)
	}
	if log.GetLevel() != log.DebugLevel {
		t.Errorf("debug flag did not win: %v", log.GetLevel())
	}

	if err := Setup(&buf, "loud", "text", false); err == nil {
		t.Error("bad level accepted")
	}
	if log.GetLevel() != log.WarnLevel {
		t.Errorf("bad level did not fall back to warn: %v", log.GetLevel())
	}
}

func TestNewWithConfigPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "feed", log.InfoLevel, false, log.TextFormatter)
	l.Info("loaded")
	if !strings.Contains(buf.String(), "feed") {
		t.Errorf("prefix missing: %q", buf.String())
	}
}

func TestNewFollowsSetup(t *testing.T) {
	defer log.SetDefault(log.New(&bytes.Buffer{}))

	var buf bytes.Buffer
	if err := Setup(&buf, "info", "logfmt", false); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	New("ipc").Info("ready", "records", 3)
	got := buf.String()
	if !strings.Contains(got, "prefix=ipc") || !strings.Contains(got, "records=3") {
		t.Errorf("child logger output = %q", got)
	}
}
