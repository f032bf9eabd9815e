// Package http is a small gin debug surface: what presence did we last
// publish, and where is the join workflow right now.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ArifEmreBahar/PresenceLink/internal/app"
	"github.com/ArifEmreBahar/PresenceLink/internal/config"
)

func SetupRouter(cfg *config.Config, mgr *app.Manager, orch *app.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	log.Info().Str("module", "adapters.http").Str("platform", cfg.Platform).Msg("router setup")

	api := r.Group("/api")

	api.GET("/status", func(c *gin.Context) {
		_, initialized := mgr.Snap()
		c.JSON(http.StatusOK, gin.H{
			"platform":    cfg.Platform,
			"initialized": initialized,
			"phase":       orch.Phase().String(),
		})
	})

	api.GET("/presence", func(c *gin.Context) {
		snap, ok := mgr.Snap()
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "not initialized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"owner_id":      string(snap.OwnerID),
			"current":       snap.Current,
			"joinable":      snap.Joinable,
			"presence_type": snap.PresenceType.String(),
		})
	})

	return r
}
