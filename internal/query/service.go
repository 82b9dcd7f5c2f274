package query

import (
	"context"

	"github.com/reedfamily/a2sbot/internal/errs"
)

// ImageRenderer turns a snapshot into an image file at output.
type ImageRenderer interface {
	Render(ctx context.Context, snap *Snapshot, output string) error
}

// TextFormatter turns a snapshot into a chat message.
type TextFormatter func(snap *Snapshot) string

// Service runs one query and hands the result to the formatter or renderer.
type Service struct {
	querier  Querier
	format   TextFormatter
	renderer ImageRenderer
	output   string
}

func NewService(querier Querier, format TextFormatter, renderer ImageRenderer, output string) *Service {
	return &Service{
		querier:  querier,
		format:   format,
		renderer: renderer,
		output:   output,
	}
}

// Snapshot queries info then players for addr, in that order.
func (s *Service) Snapshot(ctx context.Context, addr Address) (*Snapshot, error) {
	info, err := s.querier.Info(ctx, addr)
	if err != nil {
		return nil, errs.Wrap(errs.Connectivity, "server info query failed", err)
	}
	players, err := s.querier.Players(ctx, addr)
	if err != nil {
		return nil, errs.Wrap(errs.Connectivity, "player list query failed", err)
	}
	return &Snapshot{Address: addr, Info: *info, Players: players}, nil
}

func (s *Service) Text(ctx context.Context, addr Address) (string, error) {
	snap, err := s.Snapshot(ctx, addr)
	if err != nil {
		return "", err
	}
	return s.format(snap), nil
}

// Image renders addr's status card and returns the written file path.
func (s *Service) Image(ctx context.Context, addr Address) (string, error) {
	snap, err := s.Snapshot(ctx, addr)
	if err != nil {
		return "", err
	}
	if s.renderer == nil {
		return "", errs.New(errs.Rendering, "image rendering is not configured")
	}
	if err := s.renderer.Render(ctx, snap, s.output); err != nil {
		if errs.KindOf(err) == errs.Internal {
			err = errs.Wrap(errs.Rendering, "render failed", err)
		}
		return "", err
	}
	return s.output, nil
}
