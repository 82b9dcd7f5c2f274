package render

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/reedfamily/a2sbot/internal/query"
)

// RGBAToHex converts "rgba(r, g, b, a)" to "#rrggbb", dropping alpha.
// Anything malformed yields "#000000".
func RGBAToHex(rgba string) string {
	s := strings.TrimSpace(rgba)
	s = strings.TrimPrefix(s, "rgba(")
	s = strings.TrimSuffix(s, ")")

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return "#000000"
	}
	var rgb [3]int
	for i := range rgb {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil || f < 0 || f > 255 {
			return "#000000"
		}
		rgb[i] = int(f)
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64); err != nil {
		return "#000000"
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

type platformLabel struct {
	Icon  string
	Label string
	Badge template.CSS
}

func platformOf(flag byte) platformLabel {
	switch flag {
	case query.PlatformWindows:
		return platformLabel{Icon: "🖥️", Label: "Windows", Badge: "#4CAF50"}
	case query.PlatformLinux:
		return platformLabel{Icon: "🐧", Label: "Linux", Badge: "#F44336"}
	case query.PlatformHarmonyOS:
		return platformLabel{Icon: "👀", Label: "鴻蒙", Badge: "#F44336"}
	default:
		return platformLabel{Icon: "👀", Label: "Mac", Badge: "#F44336"}
	}
}
