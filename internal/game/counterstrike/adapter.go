package counterstrike

import "github.com/reedfamily/a2sbot/internal/game"

func init() {
	game.Register(&Adapter{})
	game.Register(&LegacyAdapter{})
}

// Adapter is Counter-Strike 2.
type Adapter struct{}

func (a *Adapter) AppID() string     { return "730" }
func (a *Adapter) Name() string      { return "Counter-Strike 2" }
func (a *Adapter) Aliases() []string { return []string{"cs2", "csgo"} }

// LegacyAdapter is Counter-Strike 1.6.
type LegacyAdapter struct{}

func (a *LegacyAdapter) AppID() string     { return "10" }
func (a *LegacyAdapter) Name() string      { return "Counter-Strike" }
func (a *LegacyAdapter) Aliases() []string { return []string{"cs", "cs16"} }
