package main

import (
	"context"
	"log"

	"github.com/pancakescience/cooktrack/internal/server"
	"github.com/pancakescience/cooktrack/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
