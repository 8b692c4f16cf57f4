package main

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/iftar/internal/config"
	"github.com/Nixie-Tech-LLC/iftar/internal/db"
	"github.com/Nixie-Tech-LLC/iftar/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/iftar/internal/http/api/auth/endpoints"
	integrationsapi "github.com/Nixie-Tech-LLC/iftar/internal/http/api/integrations/endpoints"
	scheduleapi "github.com/Nixie-Tech-LLC/iftar/internal/http/api/schedule/endpoints"
	"github.com/Nixie-Tech-LLC/iftar/internal/schedule"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, svc *schedule.Service, tmpl *template.Template) {
	r.SetHTMLTemplate(tmpl)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		authapi.AuthPublicModule(cfg.JWTSecret, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Users:     store.GetUserByID,
	},
		authapi.AuthSessionModule(cfg.JWTSecret, store),
		scheduleapi.MedicationModule(svc),
		scheduleapi.DoseModule(svc),
		scheduleapi.SettingsModule(svc),
		integrationsapi.IntegrationsModule(svc),
	)

	if !cfg.UseSpaces {
		r.Static("/exports", cfg.ExportDir)
	}
}
