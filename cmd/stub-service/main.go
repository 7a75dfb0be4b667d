package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/arkiva/doc-registry/internal/dto"
	"github.com/arkiva/doc-registry/internal/stub"
	"github.com/arkiva/doc-registry/pkg/config"
	"github.com/arkiva/doc-registry/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store := stub.NewStore()
	store.SeedDepartments([]dto.APIDepartment{
		{
			ID:   "dept-administration",
			Name: "Administration",
			DocumentTypes: []dto.APIDocumentType{
				{ID: "type-memo", Name: "Memorandum", Prefix: "ADM/MEM", Padding: 4},
				{ID: "type-letter", Name: "Letter", Prefix: "ADM/LTR", Padding: 4},
			},
		},
	})
	if cfg.Session.Username != "" {
		store.SeedAdmin(cfg.Session.Username)
	}

	r := stub.NewRouter(store, logr, cfg.Stub.AllowedOrigins)

	addr := fmt.Sprintf(":%d", cfg.Stub.Port)
	logr.Sugar().Infow("stub registry starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("stub registry failed", "error", err)
	}
}
