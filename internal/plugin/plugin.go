package plugin

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reedfamily/a2sbot/internal/errs"
	"github.com/reedfamily/a2sbot/internal/game"
	"github.com/reedfamily/a2sbot/internal/query"
)

const (
	progressImage = "⏳ 正在查詢伺服器資訊並產生圖片..."
	progressText  = "⏳ 正在查詢伺服器資訊..."
	findUsage     = "格式: /find 游戏AppID|服务器名称"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownTool    = errors.New("unknown tool")
)

// Queries produces a status text or image for one address.
type Queries interface {
	Text(ctx context.Context, addr query.Address) (string, error)
	Image(ctx context.Context, addr query.Address) (string, error)
}

// Locator finds a server by app id and name keyword.
type Locator interface {
	Find(ctx context.Context, appID, keyword string) (query.Address, error)
}

// Invocation is one audit record of a command or tool call.
type Invocation struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Args      string `json:"args"`
	OK        bool   `json:"ok"`
	ErrorKind string `json:"error_kind,omitempty"`
	Millis    int64  `json:"duration_ms"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Recorder stores invocations.
type Recorder interface {
	Record(ctx context.Context, inv Invocation) error
}

type Plugin struct {
	queries  Queries
	locator  Locator
	recorder Recorder
	reg      *registry
}

// New builds the plugin and registers its commands and tools. recorder may
// be nil.
func New(queries Queries, locator Locator, recorder Recorder) *Plugin {
	p := &Plugin{
		queries:  queries,
		locator:  locator,
		recorder: recorder,
		reg:      newRegistry(),
	}
	p.registerCommands()
	p.registerTools()
	return p
}

func (p *Plugin) registerCommands() {
	p.reg.addCommand(&Command{
		Name:        "ip",
		Usage:       "ip <host[:port]>",
		Description: "Query a server and reply with a status card image",
		Run:         p.runIP,
	})
	p.reg.addCommand(&Command{
		Name:        "ipt",
		Usage:       "ipt <host[:port]>",
		Description: "Query a server and reply with a text summary",
		Run:         p.runIPText,
	})
	p.reg.addCommand(&Command{
		Name:        "find",
		Usage:       "find <appid>|<keyword>",
		Description: "Find a server by name on the Steam master list and reply with a status card image",
		Run:         p.runFind,
	})
	p.reg.addCommand(&Command{
		Name:        "findt",
		Usage:       "findt <appid>|<keyword>",
		Description: "Find a server by name on the Steam master list and reply with a text summary",
		Run:         p.runFindText,
	})
}

// Commands lists registered commands ordered by name.
func (p *Plugin) Commands() []*Command {
	return p.reg.allCommands()
}

// Tools lists tool descriptors for the LLM layer.
func (p *Plugin) Tools() []ToolSpec {
	return p.reg.allTools()
}

// Dispatch runs a chat command. Command failures are reported through emit
// and never returned; the error is only non-nil for unknown commands or when
// emit itself fails.
func (p *Plugin) Dispatch(ctx context.Context, name, args string, emit Emitter) error {
	cmd := p.reg.command(name)
	if cmd == nil {
		return ErrUnknownCommand
	}

	start := time.Now()
	err := cmd.Run(ctx, strings.TrimSpace(args), emit)
	p.record(ctx, "command", cmd.Name, args, start, err)
	if err == nil {
		return nil
	}

	var emitErr *emitError
	if errors.As(err, &emitErr) {
		return emitErr.err
	}
	log.Printf("ERROR %s %q: %v", cmd.Name, args, err)
	if e := emit.Emit(PlainResult(errs.Message(err))); e != nil {
		return e
	}
	return nil
}

// CallTool runs a tool. Failures come back as the tool's string result, as
// the LLM layer expects; the error is only non-nil for unknown tools.
func (p *Plugin) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	tool := p.reg.tool(name)
	if tool == nil {
		return "", ErrUnknownTool
	}

	start := time.Now()
	out, err := tool.Call(ctx, args)
	p.record(ctx, "tool", name, describeArgs(args), start, err)
	if err != nil {
		log.Printf("ERROR tool %s: %v", name, err)
		return errs.Message(err), nil
	}
	return out, nil
}

// ParseMessage splits a chat line like "/ip 1.2.3.4" into command and args.
func ParseMessage(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "/")
	if text == "" {
		return "", "", false
	}
	name, args, _ = strings.Cut(text, " ")
	return strings.ToLower(name), strings.TrimSpace(args), true
}

// emitError marks a host delivery failure so Dispatch does not try to report
// it through the same broken channel.
type emitError struct{ err error }

func (e *emitError) Error() string { return "emit: " + e.err.Error() }
func (e *emitError) Unwrap() error { return e.err }

func send(emit Emitter, r Result) error {
	if err := emit.Emit(r); err != nil {
		return &emitError{err: err}
	}
	return nil
}

func (p *Plugin) runIP(ctx context.Context, args string, emit Emitter) error {
	addr, err := query.ParseAddress(args)
	if err != nil {
		return err
	}
	if err := send(emit, PlainResult(progressImage)); err != nil {
		return err
	}
	path, err := p.queries.Image(ctx, addr)
	if err != nil {
		return err
	}
	return send(emit, ImageResult(path))
}

func (p *Plugin) runIPText(ctx context.Context, args string, emit Emitter) error {
	addr, err := query.ParseAddress(args)
	if err != nil {
		return err
	}
	if err := send(emit, PlainResult(progressText)); err != nil {
		return err
	}
	text, err := p.queries.Text(ctx, addr)
	if err != nil {
		return err
	}
	return send(emit, PlainResult(text))
}

func (p *Plugin) runFind(ctx context.Context, args string, emit Emitter) error {
	addr, ok, err := p.locate(ctx, args, emit)
	if err != nil || !ok {
		return err
	}
	path, err := p.queries.Image(ctx, addr)
	if err != nil {
		return err
	}
	return send(emit, ImageResult(path))
}

func (p *Plugin) runFindText(ctx context.Context, args string, emit Emitter) error {
	addr, ok, err := p.locate(ctx, args, emit)
	if err != nil || !ok {
		return err
	}
	text, err := p.queries.Text(ctx, addr)
	if err != nil {
		return err
	}
	return send(emit, PlainResult(text))
}

// locate parses "appid|keyword" and looks the server up. ok is false when
// the usage line was sent instead.
func (p *Plugin) locate(ctx context.Context, args string, emit Emitter) (query.Address, bool, error) {
	idx := strings.LastIndexByte(args, '|')
	if args == "" || idx < 0 {
		return query.Address{}, false, send(emit, PlainResult(findUsage))
	}
	if p.locator == nil {
		return query.Address{}, false, errs.New(errs.Configuration, "server search is not configured")
	}
	appID := game.Resolve(args[:idx])
	addr, err := p.locator.Find(ctx, appID, strings.TrimSpace(args[idx+1:]))
	if err != nil {
		return query.Address{}, false, err
	}
	return addr, true, nil
}

func (p *Plugin) record(ctx context.Context, kind, name, args string, start time.Time, err error) {
	if p.recorder == nil {
		return
	}
	inv := Invocation{
		ID:     uuid.New().String(),
		Kind:   kind,
		Name:   name,
		Args:   args,
		OK:     err == nil,
		Millis: time.Since(start).Milliseconds(),
	}
	if err != nil {
		inv.ErrorKind = errs.KindOf(err).String()
	}
	if rerr := p.recorder.Record(context.WithoutCancel(ctx), inv); rerr != nil {
		log.Printf("plugin: record invocation: %v", rerr)
	}
}
