package main

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	corecmd "github.com/m3rciful/cafebot/core/cmd"
	"github.com/m3rciful/cafebot/internal/bot"
)

func main() {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf(".env load warning: %v", err)
	}

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "configs/config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.New(cfg.(*bot.Config))
		},
	})
	if err != nil {
		log.Fatalf("cafebot: %v", err)
	}
}
