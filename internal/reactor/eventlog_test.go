package reactor

import (
	"fmt"
	"testing"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"SHIFT STARTED: 300s GOAL", true},
		{"DRIFT SPIKE", true},
		{"EMERGENCY PURGE ACTIVATED", true},
		{"TRENCH LIGHTNING", true},
		{"SLIDER UNJAMMED", true},
		{"REACTOR STABILIZED: SHIFT COMPLETE", true},
		{"CRITICAL FAILURE: CORE MELTDOWN", true},
		{"HULL IMPLOSION: STRUCTURAL FAILURE", true},
		{"coolant valve 3 reports 42%", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Allowed(tt.msg); got != tt.want {
			t.Errorf("Allowed(%q) = %v, expected %v", tt.msg, got, tt.want)
		}
	}
}

func TestEventLogKeepsNewestSix(t *testing.T) {
	var l eventLog
	for i := 0; i < 20; i++ {
		l.append(LogEntry{Message: fmt.Sprintf("STATUS: NOMINAL %d", i)})

		if got, want := len(l.entries()), min(i+1, maxLogEntries); got != want {
			t.Fatalf("after %d appends len = %d, expected %d", i+1, got, want)
		}
	}

	entries := l.entries()
	for i, e := range entries {
		want := fmt.Sprintf("STATUS: NOMINAL %d", 14+i)
		if e.Message != want {
			t.Errorf("entries[%d] = %q, expected %q", i, e.Message, want)
		}
	}

	l.reset()
	if len(l.entries()) != 0 {
		t.Error("entries after reset not empty")
	}
}

func TestEngineDropsUnlistedEvents(t *testing.T) {
	e, _ := newTestEngine(1)
	mustInit(t, e, RankNovice, nil, 100, Config{Duration: 300})

	e.withSession(func(*session) {
		e.logEvent("debug: rng state")
		for i := 0; i < 10; i++ {
			e.logEvent(fmt.Sprintf("HAZARD DETECTED #%d", i))
		}
	})

	logs := e.RecentLogs()
	if len(logs) != maxLogEntries {
		t.Fatalf("len(RecentLogs()) = %d, expected %d", len(logs), maxLogEntries)
	}
	if logs[0].Message != "HAZARD DETECTED #4" || logs[5].Message != "HAZARD DETECTED #9" {
		t.Errorf("logs = %q .. %q, expected #4 .. #9", logs[0].Message, logs[5].Message)
	}
	seen := map[string]bool{}
	for _, l := range logs {
		if seen[l.ID] {
			t.Errorf("duplicate log ID %s", l.ID)
		}
		seen[l.ID] = true
	}
}
