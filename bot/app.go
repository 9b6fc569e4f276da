package bot

import (
	"context"
	"fmt"

	coreconfig "github.com/m3rciful/courtbot/core/config"
	tg "github.com/m3rciful/courtbot/core/telegram"
	"github.com/m3rciful/courtbot/core/telegram/commands"
	"github.com/m3rciful/courtbot/core/telegram/router"
	tgsender "github.com/m3rciful/courtbot/core/telegram/sender"
	"github.com/m3rciful/courtbot/dialog"
	"github.com/m3rciful/courtbot/nba"
	"github.com/m3rciful/courtbot/presenter"

	tele "gopkg.in/telebot.v4"
)

// App wires the dialogue engine, the stats client and the Telegram runtime
// into one bot.
type App struct {
	cfg    *coreconfig.Config
	client *nba.Client
	teams  *nba.TeamCache
	store  *dialog.Store
	engine *dialog.Engine

	bot        *tele.Bot
	dispatcher *tgsender.Dispatcher
}

// New assembles the application from configuration.
func New(cfg *coreconfig.Config) *App {
	client := nba.NewClient(cfg.Stats)
	teams := nba.NewTeamCache(client, cfg.Stats.TeamCacheTTL)
	store := dialog.NewStore()
	engine := dialog.NewEngine(store, client, teams, presenter.New(), cfg.Stats.SearchPerPage)
	return &App{
		cfg:    cfg,
		client: client,
		teams:  teams,
		store:  store,
		engine: engine,
	}
}

// CoreConfig exposes the loaded configuration to the generic runner.
func (a *App) CoreConfig() *coreconfig.Config { return a.cfg }

// WarmTeams prefetches the league roster at startup.
func (a *App) WarmTeams(ctx context.Context) error { return a.teams.Warm(ctx) }

// InProgress reports whether the user has an active dialogue; consumed by the
// text router.
func (a *App) InProgress(userID int64) bool { return a.engine.InProgress(userID) }

// DialogHandler feeds a text update into the dialogue engine; consumed by the
// text router.
func (a *App) DialogHandler(c tele.Context) error { return a.handleText(c) }

// TelegramRunOptions builds the full route table and middleware chain.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Greet and show the main menu",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "How to use the bot",
	})
	reg.RegisterCommand("/version", commands.Command{
		Handler:     a.handleVersion,
		Description: "Build information",
		AdminOnly:   true,
		Hidden:      true,
	})

	if err := reg.RegisterCallback(cbPage, a.handlePageCallback); err != nil {
		return tg.RunOptions{}, fmt.Errorf("bot: register page callback: %w", err)
	}
	if err := reg.RegisterCallback(cbPlayer, a.handlePlayerCallback); err != nil {
		return tg.RunOptions{}, fmt.Errorf("bot: register player callback: %w", err)
	}

	// Everything that is not a command is a dialogue turn or a menu press.
	reg.SetTextFallback(a.handleText)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a, reg, router.TextOptions{
		UnknownMedia: a.handleUnknownMedia,
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.bot = rt.Bot
			a.dispatcher = rt.Dispatcher
			return nil
		},
	}, nil
}
