package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/amterp/ra"

	"github.com/amterp/trellis/internal/live"
	"github.com/amterp/trellis/internal/session"
	"github.com/amterp/trellis/internal/util"
)

func registerFollow(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("follow")
	cmd.SetDescription("Print an entity, then print it again whenever it changes")

	ctx.FollowKind, _ = ra.NewString("kind").
		SetUsage("One of " + strings.Join(followKinds, ", ")).
		SetCompletionFunc(completeFollowKinds).
		Register(cmd)

	ctx.FollowID, _ = ra.NewString("id").
		SetUsage("Entity ID (the board ID for prefs)").
		Register(cmd)

	ctx.FollowUsed, _ = parent.RegisterCmd(cmd)
}

func runFollow(kind, id string, jsonOutput bool) {
	app := mustApp(false)
	if err := app.RequireCredentials(); err != nil {
		Fatal(err)
	}

	v, err := viewFor(app.Session, kind, id)
	if err != nil {
		Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := follow(ctx, app, v, jsonOutput); err != nil && !errors.Is(err, context.Canceled) {
		Fatal(err)
	}
}

// follow prints v, then reprints it each time the live feed announces a
// change to it. Edits to the config file re-attach the session with the new
// credentials. Runs until ctx is done.
//
// Entities are only touched from this goroutine: the subscriber hands events
// over a channel.
func follow(ctx context.Context, app *App, v *view, jsonOutput bool) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	if err := v.print(ctx, app.Out, jsonOutput); err != nil {
		return err
	}

	tracker := app.Session.Tracker()
	tracker.Track(v.tracked)
	defer tracker.Untrack(v.tracked)
	expire := live.ExpireHandler(tracker)

	events := make(chan live.Event, 16)
	reloads := make(chan struct{}, 1)

	stopWatching := watchConfig(app, reloads)
	defer stopWatching()

	subCtx, cancelSub := context.WithCancel(ctx)
	defer func() { cancelSub() }()
	if err := subscribe(subCtx, app, events); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			expire(ev)
			if !v.matches(ev) {
				continue
			}
			if err := v.load(ctx); err != nil {
				app.Log.Warn().Err(err).Str("event", ev.ID).Msg("refetch after change failed")
				continue
			}
			if !jsonOutput {
				fmt.Fprintf(app.Out, "\n%s %s %s\n", RenderMuted(IconInfo), ev.Action, RenderMuted(util.FormatTime(&ev.At)))
			}
			if err := v.print(ctx, app.Out, jsonOutput); err != nil {
				return err
			}

		case <-reloads:
			if err := app.Reload(); err != nil {
				app.Log.Warn().Err(err).Msg("config reload failed, keeping current credentials")
				continue
			}
			cancelSub()
			subCtx, cancelSub = context.WithCancel(ctx)
			if err := subscribe(subCtx, app, events); err != nil {
				app.Log.Warn().Err(err).Msg("resubscribe failed")
				continue
			}
			app.Log.Info().Msg("config reloaded")
		}
	}
}

// subscribe starts a live subscriber for the configured service. It stops
// when ctx is done.
func subscribe(ctx context.Context, app *App, events chan<- live.Event) error {
	svc := app.Config.Service
	u, err := live.URL(svc.BaseURL, svc.Key, svc.Token)
	if err != nil {
		return err
	}

	sub := live.NewSubscriber(live.Options{
		URL: u,
		Handler: func(ev live.Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		},
		Logger: app.Log,
		OnConnect: func() {
			app.Log.Debug().Str("url", svc.BaseURL).Msg("following live changes")
		},
	})
	go sub.Run(ctx)
	return nil
}

// watchConfig signals reloads when the config file changes. It returns a
// function that stops watching. Failing to watch is not fatal.
func watchConfig(app *App, reloads chan<- struct{}) func() {
	path := app.ConfigStore.Path()
	if path == "" {
		return func() {}
	}

	w, err := session.NewConfigWatcher(path, func(string) {
		select {
		case reloads <- struct{}{}:
		default:
		}
	}, app.Log)
	if err != nil {
		app.Log.Warn().Err(err).Msg("not watching config")
		return func() {}
	}
	if err := w.Start(); err != nil {
		_ = w.Stop()
		app.Log.Warn().Err(err).Msg("not watching config")
		return func() {}
	}
	return func() { _ = w.Stop() }
}
