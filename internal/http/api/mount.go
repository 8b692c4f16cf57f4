package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/http/middleware"
)

// Module attaches one feature's routes (medications, doses, settings...) to
// a Controller.
type Module interface {
	Mount(c *Controller)
}

type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

type GroupConfig struct {
	Prefix string
	// Auth puts every non-PUBLIC route behind JWTMiddleware.
	Auth      bool
	SecretKey string
	// Users resolves the token subject. nil reads from the database.
	Users      middleware.UserLoader
	Middleware []gin.HandlerFunc
}

// MountGroup creates a sub-group of parent and mounts modules on it. Group
// middleware never leaks into parent.
func MountGroup(parent gin.IRouter, cfg GroupConfig, modules ...Module) *gin.RouterGroup {
	grp := parent.Group(cfg.Prefix, cfg.Middleware...)
	if cfg.Auth {
		if cfg.SecretKey == "" {
			log.Fatal().Str("prefix", cfg.Prefix).Msg("api.MountGroup: auth group without a JWT secret")
		}
		grp.Use(middleware.JWTMiddleware(cfg.SecretKey, cfg.Users))
	}

	controller := &Controller{Group: grp}
	for _, m := range modules {
		m.Mount(controller)
	}
	return grp
}
