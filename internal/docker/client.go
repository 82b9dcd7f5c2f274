package docker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

type Client struct {
	cli *client.Client
}

type ContainerConfig struct {
	Name    string
	Image   string
	Cmd     []string
	Ports   []PortMapping
	Mounts  []Mount
	Memory  int64
	ShmSize int64
}

// PortMapping publishes a container port. An empty Host picks a free port.
type PortMapping struct {
	HostIP    string `json:"host_ip"`
	Host      string `json:"host"`
	Container string `json:"container"`
	Protocol  string `json:"protocol"`
}

// Mount bind-mounts Source at Target inside the container.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &Client{cli: cli}, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}

// EnsureImage pulls ref unless it is already present locally.
func (c *Client) EnsureImage(ctx context.Context, ref string) error {
	if _, _, err := c.cli.ImageInspectWithRaw(ctx, ref); err == nil {
		return nil
	}
	reader, err := c.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image: %w", err)
	}
	defer reader.Close()
	_, err = io.Copy(io.Discard, reader)
	return err
}

func (c *Client) CreateContainer(ctx context.Context, cfg ContainerConfig) (string, error) {
	exposedPorts := nat.PortSet{}
	portBindings := nat.PortMap{}
	for _, p := range cfg.Ports {
		containerPort := natPort(p.Container, p.Protocol)
		exposedPorts[containerPort] = struct{}{}
		portBindings[containerPort] = []nat.PortBinding{{HostIP: p.HostIP, HostPort: p.Host}}
	}

	mounts := make([]mount.Mount, 0, len(cfg.Mounts))
	for _, m := range cfg.Mounts {
		mounts = append(mounts, mount.Mount{
			Type:     mount.TypeBind,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}

	hostCfg := &container.HostConfig{
		PortBindings: portBindings,
		Mounts:       mounts,
		AutoRemove:   false,
	}
	if cfg.Memory > 0 {
		hostCfg.Memory = cfg.Memory
	}
	if cfg.ShmSize > 0 {
		hostCfg.ShmSize = cfg.ShmSize
	}

	resp, err := c.cli.ContainerCreate(ctx, &container.Config{
		Image:        cfg.Image,
		Cmd:          cfg.Cmd,
		ExposedPorts: exposedPorts,
	}, hostCfg, nil, nil, cfg.Name)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	return resp.ID, nil
}

func (c *Client) StartContainer(ctx context.Context, id string) error {
	return c.cli.ContainerStart(ctx, id, container.StartOptions{})
}

func (c *Client) RemoveContainer(ctx context.Context, id string) error {
	return c.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true})
}

func (c *Client) InspectContainer(ctx context.Context, id string) (*types.ContainerJSON, error) {
	resp, err := c.cli.ContainerInspect(ctx, id)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// HostPort returns the host port docker assigned to a published container port.
func (c *Client) HostPort(ctx context.Context, id, containerPort, proto string) (string, error) {
	inspect, err := c.InspectContainer(ctx, id)
	if err != nil {
		return "", fmt.Errorf("inspect container: %w", err)
	}
	if inspect.NetworkSettings == nil {
		return "", fmt.Errorf("container %s has no network settings", id)
	}
	bindings := inspect.NetworkSettings.Ports[natPort(containerPort, proto)]
	for _, b := range bindings {
		if b.HostPort != "" {
			return b.HostPort, nil
		}
	}
	return "", fmt.Errorf("port %s not published for container %s", containerPort, id)
}

func natPort(port, proto string) nat.Port {
	if proto == "" {
		proto = "tcp"
	}
	return nat.Port(port + "/" + proto)
}

// ParsePortMappings parses "[hostip:]host:container[/proto]" strings.
func ParsePortMappings(ports []string) []PortMapping {
	var result []PortMapping
	for _, p := range ports {
		proto := "tcp"
		if idx := strings.Index(p, "/"); idx != -1 {
			proto = p[idx+1:]
			p = p[:idx]
		}
		parts := strings.Split(p, ":")
		switch len(parts) {
		case 2:
			result = append(result, PortMapping{Host: parts[0], Container: parts[1], Protocol: proto})
		case 3:
			result = append(result, PortMapping{HostIP: parts[0], Host: parts[1], Container: parts[2], Protocol: proto})
		}
	}
	return result
}
