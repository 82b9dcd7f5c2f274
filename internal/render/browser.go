package render

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/reedfamily/a2sbot/internal/docker"
)

// Launcher starts a fresh browser for one render. The returned context is a
// chromedp allocator context; release tears the browser down.
type Launcher interface {
	Launch(ctx context.Context) (allocCtx context.Context, release func(), err error)
}

// LocalLauncher runs a headless Chrome process on this machine.
type LocalLauncher struct {
	ExecPath string
}

func (l LocalLauncher) Launch(ctx context.Context) (context.Context, func(), error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.DisableGPU,
	)
	if l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	return allocCtx, cancel, nil
}

// DockerLauncher runs each browser in its own headless-shell container. Dirs
// are bind-mounted read-only at the same path so file URLs resolve inside
// the container.
type DockerLauncher struct {
	Docker  *docker.Client
	Image   string
	Publish string // e.g. "127.0.0.1::9222"
	Dirs    []string
	Startup time.Duration
}

func (l DockerLauncher) Launch(ctx context.Context) (context.Context, func(), error) {
	if err := l.Docker.EnsureImage(ctx, l.Image); err != nil {
		return nil, nil, err
	}

	ports := docker.ParsePortMappings([]string{l.Publish})
	if len(ports) != 1 {
		return nil, nil, fmt.Errorf("invalid browser publish spec %q", l.Publish)
	}
	mounts := make([]docker.Mount, 0, len(l.Dirs))
	for _, d := range l.Dirs {
		mounts = append(mounts, docker.Mount{Source: d, Target: d, ReadOnly: true})
	}

	id, err := l.Docker.CreateContainer(ctx, docker.ContainerConfig{
		Name:    "a2sbot-browser-" + uuid.New().String()[:8],
		Image:   l.Image,
		Ports:   ports,
		Mounts:  mounts,
		ShmSize: 256 << 20,
	})
	if err != nil {
		return nil, nil, err
	}
	remove := func() {
		if err := l.Docker.RemoveContainer(context.Background(), id); err != nil {
			log.Printf("render: remove browser container %s: %v", id[:12], err)
		}
	}

	if err := l.Docker.StartContainer(ctx, id); err != nil {
		remove()
		return nil, nil, fmt.Errorf("start browser container: %w", err)
	}
	hostPort, err := l.Docker.HostPort(ctx, id, ports[0].Container, ports[0].Protocol)
	if err != nil {
		remove()
		return nil, nil, err
	}

	hostIP := ports[0].HostIP
	if hostIP == "" || hostIP == "0.0.0.0" {
		hostIP = "127.0.0.1"
	}
	endpoint := net.JoinHostPort(hostIP, hostPort)

	startup := l.Startup
	if startup <= 0 {
		startup = 15 * time.Second
	}
	if err := waitDevTools(ctx, endpoint, startup); err != nil {
		remove()
		return nil, nil, err
	}

	allocCtx, cancel := chromedp.NewRemoteAllocator(ctx, "ws://"+endpoint)
	return allocCtx, func() {
		cancel()
		remove()
	}, nil
}

// waitDevTools polls the DevTools version endpoint until the browser accepts
// connections.
func waitDevTools(ctx context.Context, endpoint string, limit time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	client := &http.Client{Timeout: time.Second}
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+endpoint+"/json/version", nil)
		if err != nil {
			return err
		}
		if resp, err := client.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("browser at %s not ready: %w", endpoint, ctx.Err())
		case <-ticker.C:
		}
	}
}

// screenshot loads pageURL and captures selector, or the full page when the
// selector is empty or matches nothing.
func screenshot(allocCtx context.Context, pageURL, selector string, width, height int) ([]byte, error) {
	tabCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var nodes []*cdp.Node
	actions := []chromedp.Action{
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if selector != "" {
		actions = append(actions, chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0)))
	}
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return nil, fmt.Errorf("load %s: %w", pageURL, err)
	}

	var buf []byte
	var capture chromedp.Action = chromedp.FullScreenshot(&buf, 100)
	if len(nodes) > 0 {
		capture = chromedp.Screenshot(selector, &buf, chromedp.ByQuery)
	}
	if err := chromedp.Run(tabCtx, capture); err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return buf, nil
}
