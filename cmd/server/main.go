package main

import (
	"context"
	"log"
	"time"

	"github.com/Ashenafi-pixel/lootsim"
	"github.com/Ashenafi-pixel/lootsim/catalog"
	"github.com/Ashenafi-pixel/lootsim/config"
	"github.com/Ashenafi-pixel/lootsim/enchant"
	"github.com/Ashenafi-pixel/lootsim/logger"
	"github.com/Ashenafi-pixel/lootsim/server"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env so DATABASE_URL is set: cwd .env or project root .env/.env.local
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	_ = godotenv.Load("../.env.local")
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg := logger.Setup(cfg)

	book := enchant.Default()
	if cfg.EnchantmentsFile != "" {
		if book, err = enchant.Load(cfg.EnchantmentsFile); err != nil {
			log.Fatal(err)
		}
	}

	tables := catalog.NewStore(cfg.TablesDir)
	db, err := lootsim.GetDB(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(lg, err).Warn("catalog database unavailable, using files only")
	} else if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		n, err := tables.LoadFromDB(ctx, db)
		cancel()
		if err != nil {
			logger.WithError(lg, err).Warn("loading tables from database")
		} else {
			lg.Info("tables loaded from database", "count", n)
		}
	}

	srv := server.New(cfg, tables, book, lg)
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
