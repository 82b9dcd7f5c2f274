package query

import (
	"context"
	"fmt"
	"net"
	"time"

	a2s "github.com/rumblefrog/go-a2s"
)

// Querier talks A2S to one server address.
type Querier interface {
	Info(ctx context.Context, addr Address) (*ServerInfo, error)
	Players(ctx context.Context, addr Address) ([]Player, error)
}

// A2SQuerier is the Querier backed by github.com/rumblefrog/go-a2s. Each call
// opens and closes its own UDP socket.
type A2SQuerier struct {
	timeout time.Duration
}

func NewA2SQuerier(timeout time.Duration) *A2SQuerier {
	return &A2SQuerier{timeout: timeout}
}

func (q *A2SQuerier) dial(addr Address) (*a2s.Client, error) {
	opts := []func(*a2s.Client) error{}
	if q.timeout > 0 {
		opts = append(opts, a2s.TimeoutOption(q.timeout))
	}
	c, err := a2s.NewClient(addr.Dial(), opts...)
	if err != nil {
		return nil, fmt.Errorf("a2s dial %s: %w", addr, err)
	}
	return c, nil
}

func (q *A2SQuerier) Info(ctx context.Context, addr Address) (*ServerInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := q.dial(addr)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	start := time.Now()
	info, err := c.QueryInfo()
	if err != nil {
		return nil, fmt.Errorf("a2s info %s: %w", addr, err)
	}
	ping, err := q.ping(addr)
	if err != nil {
		ping = time.Since(start)
	}

	return &ServerInfo{
		Name:       info.Name,
		Map:        info.Map,
		Game:       info.Game,
		Players:    int(info.Players),
		MaxPlayers: int(info.MaxPlayers),
		Bots:       int(info.Bots),
		Ping:       ping,
		Platform:   platformFlag(info.ServerOS),
		VAC:        info.VAC,
		Password:   info.Visibility,
		ServerType: serverTypeFlag(info.ServerType),
		Version:    info.Version,
	}, nil
}

func (q *A2SQuerier) Players(ctx context.Context, addr Address) ([]Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := q.dial(addr)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	resp, err := c.QueryPlayer()
	if err != nil {
		return nil, fmt.Errorf("a2s players %s: %w", addr, err)
	}

	players := make([]Player, 0, len(resp.Players))
	for _, p := range resp.Players {
		if p == nil {
			continue
		}
		players = append(players, Player{
			Name:     p.Name,
			Score:    int64(int32(p.Score)),
			Duration: float64(p.Duration),
		})
	}
	return players, nil
}

// infoRequest is an A2S_INFO request without a challenge number.
var infoRequest = append([]byte{0xFF, 0xFF, 0xFF, 0xFF, a2s.A2S_INFO_REQUEST}, "Source Engine Query\x00"...)

// ping times one A2S_INFO request against its first reply. Servers that
// demand a challenge answer with it, so the second round trip QueryInfo
// makes is not counted.
func (q *A2SQuerier) ping(addr Address) (time.Duration, error) {
	timeout := q.timeout
	if timeout <= 0 {
		timeout = a2s.DefaultTimeout
	}
	conn, err := net.DialTimeout("udp", addr.Dial(), timeout)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(timeout))

	buf := make([]byte, a2s.DefaultMaxPacketSize)
	start := time.Now()
	if _, err := conn.Write(infoRequest); err != nil {
		return 0, err
	}
	if _, err := conn.Read(buf); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func platformFlag(os a2s.ServerOS) byte {
	switch os {
	case a2s.ServerOS_Windows:
		return PlatformWindows
	case a2s.ServerOS_Linux:
		return PlatformLinux
	case a2s.ServerOS_Mac:
		return PlatformMac
	default:
		return PlatformOther
	}
}

func serverTypeFlag(t a2s.ServerType) byte {
	switch t {
	case a2s.ServerType_Dedicated:
		return ServerDedicated
	case a2s.ServerType_SourceTV:
		return ServerProxy
	default:
		return ServerListen
	}
}
