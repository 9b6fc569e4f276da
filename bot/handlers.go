package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m3rciful/courtbot/core/buildinfo"
	"github.com/m3rciful/courtbot/core/logger"
	"github.com/m3rciful/courtbot/core/telegram/callbacks"
	"github.com/m3rciful/courtbot/core/telegram/format"
	tghelpers "github.com/m3rciful/courtbot/core/telegram/helpers"
	"github.com/m3rciful/courtbot/core/telegram/keyboard"
	"github.com/m3rciful/courtbot/dialog"
	"github.com/m3rciful/courtbot/nba"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Callback keys.
const (
	cbPage   = "page"
	cbPlayer = "player"

	pagePrev = "prev"
	pageNext = "next"
)

const startLogoURL = "https://cdn.nba.com/logos/leagues/logo-nba.png"

const helpText = "Use the menu buttons: Teams shows the league, Games browses games " +
	"by team, season or dates, and Find a player unlocks season and per-game stats. " +
	"Back returns one question, Home restarts from the top."

func (a *App) handleStart(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	name := user.FirstName
	if name == "" {
		name = "there"
	}
	greeting := fmt.Sprintf("Hi, %s! I can show you NBA teams, games and player stats.",
		format.EscapeMarkdown(name))

	if err := tghelpers.SendPhoto(c, startLogoURL, greeting); err != nil {
		if err := tghelpers.SendText(c, greeting); err != nil {
			return err
		}
	}
	return a.sendReplies(c, []dialog.Reply{a.engine.HeadMenu(user.ID)})
}

func (a *App) handleHelp(c tele.Context) error {
	return a.sendReplies(c, []dialog.Reply{
		{Text: helpText},
		a.engine.HeadMenu(c.Sender().ID),
	})
}

func (a *App) handleVersion(c tele.Context) error {
	text := fmt.Sprintf("courtbot %s (%s) built %s", buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	return tghelpers.SendText(c, text)
}

// handleText is the single entry point for dialogue turns and menu presses.
func (a *App) handleText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	replies, err := a.engine.HandleText(ctx, c.Sender().ID, c.Text())
	if err != nil {
		a.alertOperator(ctx, err)
	}
	if sendErr := a.sendReplies(c, replies); sendErr != nil {
		return sendErr
	}
	return err
}

func (a *App) handlePageCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	var dir dialog.Direction
	switch callbacks.CallbackPayload(c) {
	case pagePrev:
		dir = dialog.Previous
	case pageNext:
		dir = dialog.Next
	default:
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	}

	replies, err := a.engine.Advance(ctx, c.Sender().ID, dir)
	if errors.Is(err, dialog.ErrNoSuchPage) {
		return c.Respond(&tele.CallbackResponse{Text: "No such page"})
	}
	if err != nil {
		a.alertOperator(ctx, err)
	}

	// A page flip edits the existing message in place.
	for _, r := range replies {
		if editErr := tghelpers.EditOrSendMD(c, r.Text, replyMarkup(r)); editErr != nil {
			return editErr
		}
	}
	return err
}

func (a *App) handlePlayerCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	playerID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	}

	replies, err := a.engine.PickPlayer(ctx, c.Sender().ID, playerID)
	if err != nil {
		a.alertOperator(ctx, err)
	}
	if sendErr := a.sendReplies(c, replies); sendErr != nil {
		return sendErr
	}
	return err
}

func (a *App) handleUnknownMedia(c tele.Context) error {
	return tghelpers.SendText(c, "I can only read text messages, use the menu buttons.")
}

func (a *App) sendReplies(c tele.Context, replies []dialog.Reply) error {
	for _, r := range replies {
		opts := &tele.SendOptions{ReplyMarkup: replyMarkup(r)}
		if err := tghelpers.SendText(c, r.Text, opts); err != nil {
			return err
		}
	}
	return nil
}

// replyMarkup picks the markup for a reply: inline picks and pagination win
// over the reply keyboard (Telegram allows only one markup per message, and
// reply keyboards stay on screen from earlier turns).
func replyMarkup(r dialog.Reply) *tele.ReplyMarkup {
	if len(r.Players) > 0 {
		btns := make([]keyboard.InlineBtn, 0, len(r.Players))
		for _, p := range r.Players {
			btns = append(btns, keyboard.InlineBtn{
				Text:   p.Label,
				Unique: cbPlayer,
				Data:   strconv.FormatInt(p.ID, 10),
			})
		}
		return keyboard.InlineButtons(btns)
	}
	if r.Nav != nil {
		var btns []keyboard.InlineBtn
		if r.Nav.ShowPrev {
			btns = append(btns, keyboard.InlineBtn{Text: "Previous", Unique: cbPage, Data: pagePrev})
		}
		if r.Nav.ShowNext {
			btns = append(btns, keyboard.InlineBtn{Text: "Next", Unique: cbPage, Data: pageNext})
		}
		return keyboard.InlineButtonsRow(btns...)
	}
	if len(r.Keyboard) > 0 {
		return keyboard.ReplyButtons(r.Keyboard...)
	}
	return nil
}

// alertOperator forwards upstream failures to the admin chat so they are seen
// without tailing logs.
func (a *App) alertOperator(ctx context.Context, err error) {
	adminID := a.cfg.Telegram.AdminID
	if err == nil || a.bot == nil || adminID == 0 {
		return
	}

	var status *nba.StatusError
	text := "courtbot: upstream failure: " + err.Error()
	if errors.As(err, &status) {
		text = fmt.Sprintf("courtbot: stats API answered %d on %s", status.StatusCode, status.Endpoint)
	}

	send := func() error {
		_, sendErr := a.bot.Send(&tele.User{ID: adminID}, text)
		return sendErr
	}
	if a.dispatcher != nil {
		if qErr := a.dispatcher.Enqueue(ctx, "alert.operator", "sendMessage", send); qErr == nil {
			return
		}
	}
	if sendErr := send(); sendErr != nil {
		logger.Error(ctx, "tg", "alert.fail",
			slog.String("err", logger.SanitizeLimit(sendErr.Error(), 256)),
		)
	}
}
