package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/reedfamily/a2sbot/internal/query"
)

const (
	textNameWidth   = 18
	textServerWidth = 28
	ruleWidth       = 25
)

// NoPlayers is shown when a server reports an empty player list.
const NoPlayers = "🌙 暫無玩家在線"

// Duration formats a connection time in seconds as HH:MM. Negative or
// non-numeric input yields 00:00.
func Duration(v any) string {
	var s int64
	switch d := v.(type) {
	case int:
		s = int64(d)
	case int32:
		s = int64(d)
	case int64:
		s = d
	case float32:
		s = floatSeconds(float64(d))
	case float64:
		s = floatSeconds(d)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(d), 10, 64)
		if err != nil {
			return "00:00"
		}
		s = n
	default:
		return "00:00"
	}
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d", s/3600, (s%3600)/60)
}

func floatSeconds(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

// PingMillis renders the ping as whole milliseconds.
func PingMillis(info query.ServerInfo) string {
	return fmt.Sprintf("%.0f", float64(info.Ping.Microseconds())/1000)
}

// Text builds the plain-text status message for a snapshot.
func Text(snap *query.Snapshot) string {
	info := snap.Info
	var b strings.Builder

	b.WriteString("📊 伺 服 器 資 訊\n")
	b.WriteString("┌─── 基本資訊 ───\n")
	fmt.Fprintf(&b, "│ 📍 位址: %s\n", snap.Address)
	fmt.Fprintf(&b, "│ ⏱️ 延遲: %s ms\n", PingMillis(info))
	fmt.Fprintf(&b, "│ 🔖 名稱: %s\n", query.Truncate(info.Name, textServerWidth))
	fmt.Fprintf(&b, "│ 🗺️ 地圖: %s\n", info.Map)
	fmt.Fprintf(&b, "│ 🎮 遊戲: %s\n", info.Game)
	fmt.Fprintf(&b, "│ ⚙️ 類型: %s\n", pick(info.ServerType == query.ServerDedicated, "專用", "監聽"))
	fmt.Fprintf(&b, "│ 🛡️ VAC:  %s\n", pick(info.VAC, "已啟用", "已關閉"))
	fmt.Fprintf(&b, "│ 🔑 密碼: %s\n", pick(info.Password, "有", "無"))
	b.WriteString("└───\n\n")

	fmt.Fprintf(&b, "👥 玩 家 列 表 (%d/%d)\n", info.Players, info.MaxPlayers)
	b.WriteString(strings.Repeat("-", ruleWidth))
	b.WriteString("\n")
	b.WriteString(playerTable(snap.Players))

	return b.String()
}

func playerTable(players []query.Player) string {
	if len(players) == 0 {
		return NoPlayers
	}
	var rows strings.Builder
	for i, p := range query.SortedPlayers(players) {
		fmt.Fprintf(&rows, " #%-3d %-18.18s | 🎯 %-6d | ⏳ %s\n",
			i+1, p.DisplayName(textNameWidth), p.Score, Duration(p.Duration))
	}
	return strings.TrimSpace(rows.String())
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
