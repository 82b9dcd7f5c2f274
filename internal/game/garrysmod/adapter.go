package garrysmod

import "github.com/reedfamily/a2sbot/internal/game"

func init() {
	game.Register(&Adapter{})
}

type Adapter struct{}

func (a *Adapter) AppID() string     { return "4000" }
func (a *Adapter) Name() string      { return "Garry's Mod" }
func (a *Adapter) Aliases() []string { return []string{"gmod", "garrysmod"} }
