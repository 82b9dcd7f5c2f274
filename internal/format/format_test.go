package format

import (
	"strings"
	"testing"
	"time"

	"github.com/reedfamily/a2sbot/internal/query"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{0, "00:00"},
		{3661, "01:01"},
		{-5, "00:00"},
		{"bad", "00:00"},
		{"3661", "01:01"},
		{float32(7260.9), "02:01"},
		{float64(-0.5), "00:00"},
		{nil, "00:00"},
	}
	for _, tt := range tests {
		if got := Duration(tt.in); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextEndToEnd(t *testing.T) {
	snap := &query.Snapshot{
		Address: query.Address{Host: "10.0.0.5", Port: 27015},
		Info: query.ServerInfo{
			Name:       "Test Server",
			Map:        "gm_construct",
			Game:       "Sandbox",
			Players:    2,
			MaxPlayers: 16,
			Ping:       42 * time.Millisecond,
			ServerType: query.ServerDedicated,
			VAC:        true,
		},
		Players: []query.Player{
			{Name: "", Score: 1, Duration: 30},
			{Name: "alice", Score: 5, Duration: 3661},
		},
	}

	out := Text(snap)

	for _, want := range []string{
		"📍 位址: 10.0.0.5:27015",
		"⏱️ 延遲: 42 ms",
		"⚙️ 類型: 專用",
		"🛡️ VAC:  已啟用",
		"🔑 密碼: 無",
		"👥 玩 家 列 表 (2/16)",
		"#1   alice",
		"#2   " + query.ConnectingName,
		"⏳ 01:01",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "alice") > strings.Index(out, query.ConnectingName) {
		t.Error("higher score should be listed first")
	}
}

func TestTextNoPlayers(t *testing.T) {
	out := Text(&query.Snapshot{Address: query.Address{Host: "h", Port: 1}})
	if !strings.HasSuffix(out, NoPlayers) {
		t.Errorf("expected empty-server notice, got:\n%s", out)
	}
}

func TestTextTruncatesNames(t *testing.T) {
	snap := &query.Snapshot{
		Players: []query.Player{{Name: "abcdefghijklmnopqrstuvwxyz", Score: 1}},
	}
	out := Text(snap)
	if strings.Contains(out, "abcdefghijklmnopqrs") {
		t.Errorf("name should be cut to 18 characters:\n%s", out)
	}
	if !strings.Contains(out, "abcdefghijklmnopqr |") {
		t.Errorf("expected 18-character name column:\n%s", out)
	}
}
