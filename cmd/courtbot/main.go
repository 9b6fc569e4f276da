package main

import (
	"context"
	"fmt"
	"log"

	"github.com/m3rciful/courtbot/bot"
	"github.com/m3rciful/courtbot/core/bootstrap"
	corecmd "github.com/m3rciful/courtbot/core/cmd"
	coreconfig "github.com/m3rciful/courtbot/core/config"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			cfg, err := coreconfig.Load(path)
			if err != nil {
				return nil, err
			}
			return bot.New(cfg), nil
		},
		Bootstrap: func(ctx context.Context, carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			app, ok := carrier.(*bot.App)
			if !ok {
				return nil, fmt.Errorf("unexpected config carrier %T", carrier)
			}
			if err := bootstrap.Run(ctx, bootstrap.Options{
				Config:  app.CoreConfig(),
				Warmups: []func(context.Context) error{app.WarmTeams},
			}); err != nil {
				return nil, err
			}
			return app, nil
		},
	})
	if err != nil {
		log.Fatalf("courtbot: %v", err)
	}
}
