package plugin

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/reedfamily/a2sbot/internal/errs"
	"github.com/reedfamily/a2sbot/internal/game"
	"github.com/reedfamily/a2sbot/internal/query"
)

func (p *Plugin) registerTools() {
	p.reg.addTool(&Tool{
		Spec: ToolSpec{
			Name:        "find_steam_game_server",
			Description: "Search the Steam master server list for a game server whose name contains a keyword and return its address as host:port.",
			Parameters: Schema{
				Type: "object",
				Properties: map[string]Property{
					"steamappid": {Type: "string", Description: "Steam app id of the game. Defaults to Garry's Mod.", Default: game.DefaultAppID},
					"name":       {Type: "string", Description: "Part of the server name, matched case-insensitively."},
				},
				Required: []string{"name"},
			},
		},
		Call: p.findServerTool,
	})
	p.reg.addTool(&Tool{
		Spec: ToolSpec{
			Name:        "get_ip_a2s_server_info",
			Description: "Query a Source engine game server over A2S and return its status and online players as text.",
			Parameters: Schema{
				Type: "object",
				Properties: map[string]Property{
					"ip":   {Type: "string", Description: "Server host name or IP address."},
					"port": {Type: "string", Description: "Server query port.", Default: strconv.Itoa(query.DefaultPort)},
				},
				Required: []string{"ip"},
			},
		},
		Call: p.serverInfoTool,
	})
}

func (p *Plugin) findServerTool(ctx context.Context, args map[string]any) (string, error) {
	if p.locator == nil {
		return "", errs.New(errs.Configuration, "server search is not configured")
	}
	appID := game.Resolve(stringArg(args, "steamappid"))
	addr, err := p.locator.Find(ctx, appID, stringArg(args, "name"))
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

func (p *Plugin) serverInfoTool(ctx context.Context, args map[string]any) (string, error) {
	host := stringArg(args, "ip")
	if host == "" {
		return "", errs.New(errs.InvalidInput, "ip is required")
	}
	portArg := stringArg(args, "port")
	if portArg == "" {
		portArg = strconv.Itoa(query.DefaultPort)
	}
	port, err := query.ParsePort(portArg)
	if err != nil {
		return "", err
	}
	return p.queries.Text(ctx, query.Address{Host: host, Port: port})
}

// stringArg reads an argument the LLM may send as a string or a number.
func stringArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// describeArgs renders tool arguments in a stable order for the history log.
func describeArgs(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+stringArg(args, k))
	}
	return strings.Join(parts, " ")
}
