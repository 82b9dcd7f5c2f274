package game

// GameAdapter describes a Steam game that can be searched by alias.
type GameAdapter interface {
	// AppID returns the Steam app id (e.g., "4000" for Garry's Mod)
	AppID() string

	// Name returns a display name
	Name() string

	// Aliases returns lowercase shorthands accepted in place of the app id
	Aliases() []string
}
