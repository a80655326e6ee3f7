package main

import (
	"log"
	"net/http"

	"queon/internal/api"
	"queon/internal/auth"
	"queon/internal/config"
	"queon/internal/exams"
	"queon/internal/store"
	"queon/internal/utils"
)

func main() {
	cfg := config.Load()

	logger, err := utils.NewLogger(cfg.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Close()

	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		st = pg
		logger.Info("using postgres store")
	} else {
		st = store.NewMemoryStore()
		logger.Warn("DATABASE_URL not set, using in-memory store")
	}

	handlers := api.NewHandlers(exams.NewService(st), auth.New(cfg.SessionKey), logger)
	r := api.NewRouter(handlers)

	log.Println("Queon backend running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
