package app

import (
	"github.com/rs/zerolog/log"

	"github.com/ArifEmreBahar/PresenceLink/internal/adapters/defaultsvc"
	"github.com/ArifEmreBahar/PresenceLink/internal/adapters/oculus"
	"github.com/ArifEmreBahar/PresenceLink/internal/adapters/steam"
	"github.com/ArifEmreBahar/PresenceLink/internal/core"
	"github.com/ArifEmreBahar/PresenceLink/internal/presence"
)

// PlatformDeps bundles the collaborators a platform service may need. The
// bridge client satisfies all of them in production.
type PlatformDeps struct {
	Steam     core.SteamNotifier
	Overlay   core.SteamOverlay
	Oculus    core.OculusNotifier
	Publisher presence.Publisher
}

// ServiceFactory selects the one platform variant for this process.
// Selection happens once, at construction; it is never re-evaluated while
// the process runs.
type ServiceFactory struct {
	Platform string
	Deps     PlatformDeps
	Presence presence.Config
}

var _ Factory = ServiceFactory{}

// Create builds the invitation service for the configured platform. Unknown
// platforms fall back to the inert default service, never nil.
func (f ServiceFactory) Create(identity core.Identity) core.InvitationService {
	switch f.Platform {
	case "steam":
		return steam.New(identity, f.Deps.Steam, f.Deps.Overlay, f.Deps.Publisher, f.Presence)
	case "oculus":
		return oculus.New(identity, f.Deps.Oculus, f.Deps.Publisher, f.Presence)
	case "default", "":
		return defaultsvc.New(identity.PlayerID())
	default:
		log.Warn().Str("module", "app.factory").Str("platform", f.Platform).
			Msg("no invitation service for platform, using default")
		return defaultsvc.New(identity.PlayerID())
	}
}
