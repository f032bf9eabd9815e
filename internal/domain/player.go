// Package domain contains entities without logic, just meta-data.
package domain

type (
	// PlayerID is the stable, platform-independent identity of a player
	// (typically the backend account id). It is embedded inside presence
	// strings and never changes across sessions.
	PlayerID string

	// Platform tags which social layer an event originated from.
	Platform string
)

const (
	PlatformSteam   Platform = "Steam"
	PlatformOculus  Platform = "Oculus"
	PlatformDefault Platform = "Default"
)
