package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reedfamily/a2sbot/internal/errs"
	"github.com/reedfamily/a2sbot/internal/query"
)

const (
	DefaultBaseURL = "https://api.steampowered.com"
	// PlaceholderKey is the value shipped in sample configs.
	PlaceholderKey = "YOURSTEAMAPIKEY"
	requestTimeout = 10 * time.Second
)

var (
	ErrNoServers = errors.New("no servers listed for app")
	ErrNoMatch   = errors.New("no server name matches keyword")
)

// Server is one entry of IGameServersService/GetServerList.
type Server struct {
	Addr       string `json:"addr"`
	GamePort   int    `json:"gameport"`
	SteamID    string `json:"steamid"`
	Name       string `json:"name"`
	AppID      int    `json:"appid"`
	GameDir    string `json:"gamedir"`
	Version    string `json:"version"`
	Product    string `json:"product"`
	Region     int    `json:"region"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
	Bots       int    `json:"bots"`
	Map        string `json:"map"`
	Secure     bool   `json:"secure"`
	Dedicated  bool   `json:"dedicated"`
	OS         string `json:"os"`
}

type serverListResponse struct {
	Response struct {
		Servers []Server `json:"servers"`
	} `json:"response"`
}

// Locator finds a server address by app id and name keyword.
type Locator struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type Option func(*Locator)

func WithBaseURL(u string) Option {
	return func(l *Locator) { l.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(l *Locator) { l.http = c }
}

func NewLocator(apiKey string, opts ...Option) *Locator {
	l := &Locator{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configured reports whether a usable API key is set.
func (l *Locator) Configured() bool {
	return l.apiKey != "" && l.apiKey != PlaceholderKey
}

// List returns the servers the Steam master knows for appID, in API order.
func (l *Locator) List(ctx context.Context, appID string) ([]Server, error) {
	if !l.Configured() {
		return nil, errs.New(errs.Configuration, "無效的STEAMAPIKEY！")
	}

	q := url.Values{}
	q.Set("key", l.apiKey)
	q.Set("filter", `\appid\`+appID)
	endpoint := l.baseURL + "/IGameServersService/GetServerList/v1/?" + q.Encode()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "build steam request", err)
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.Connectivity, "無法連接到 Steam API", redactKey(err, l.apiKey))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.Wrap(errs.Connectivity, "無法連接到 Steam API", fmt.Errorf("status %s", resp.Status))
	}

	var body serverListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errs.Wrap(errs.Connectivity, "Steam API 回應格式錯誤", err)
	}
	return body.Response.Servers, nil
}

// Find returns the address of the first server, in API order, whose name
// contains keyword case-insensitively.
func (l *Locator) Find(ctx context.Context, appID, keyword string) (query.Address, error) {
	servers, err := l.List(ctx, appID)
	if err != nil {
		return query.Address{}, err
	}
	if len(servers) == 0 {
		return query.Address{}, errs.Wrap(errs.NotFound, "在該遊戲下未找到任何在線伺服器", ErrNoServers)
	}

	match, ok := firstMatch(servers, keyword)
	if !ok {
		return query.Address{}, errs.Wrap(errs.NotFound, fmt.Sprintf("未找到名稱包含 '%s' 的伺服器", keyword), ErrNoMatch)
	}

	idx := strings.LastIndexByte(match.Addr, ':')
	if idx < 0 {
		return query.Address{}, errs.Newf(errs.InvalidInput, "steam returned malformed address %q", match.Addr)
	}
	port, err := query.ParsePort(match.Addr[idx+1:])
	if err != nil {
		return query.Address{}, err
	}
	return query.Address{Host: match.Addr[:idx], Port: port}, nil
}

func firstMatch(servers []Server, keyword string) (Server, bool) {
	needle := strings.ToLower(keyword)
	for _, s := range servers {
		if strings.Contains(strings.ToLower(s.Name), needle) {
			return s, true
		}
	}
	return Server{}, false
}

// redactKey strips the API key from transport errors, which echo the URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "REDACTED"))
}
