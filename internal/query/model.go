package query

import (
	"cmp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Platform flags as reported by A2S_INFO.
const (
	PlatformWindows   byte = 'w'
	PlatformLinux     byte = 'l'
	PlatformMac       byte = 'm'
	PlatformHarmonyOS byte = 'h'
	PlatformOther     byte = 'o'
)

// Server type flags as reported by A2S_INFO.
const (
	ServerDedicated byte = 'd'
	ServerListen    byte = 'l'
	ServerProxy     byte = 'p'
)

// ConnectingName replaces blank player names while a client is still joining.
const ConnectingName = "连接中..."

type ServerInfo struct {
	Name       string
	Map        string
	Game       string
	Players    int
	MaxPlayers int
	Bots       int
	Ping       time.Duration
	Platform   byte
	VAC        bool
	Password   bool
	ServerType byte
	Version    string
}

type Player struct {
	Name     string
	Score    int64
	Duration float64 // seconds connected
}

// DisplayName returns the trimmed name, or ConnectingName when blank, cut to
// at most max runes.
func (p Player) DisplayName(max int) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = ConnectingName
	}
	return Truncate(name, max)
}

// Snapshot is one query result. It is built per invocation and dropped once
// the response has been produced.
type Snapshot struct {
	Address Address
	Info    ServerInfo
	Players []Player
}

// SortedPlayers returns a copy of players ordered by descending score.
// Players with equal scores keep their input order.
func SortedPlayers(players []Player) []Player {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b Player) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return sorted
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
