package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amterp/ra"

	"github.com/amterp/trellis/internal/entity"
	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/session"
)

var errLoginCancelled = errors.New("login cancelled")

func registerLogin(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("login")
	cmd.SetDescription("Save API credentials")

	ctx.LoginKey, _ = ra.NewString("key").
		SetShort("k").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("API key. Prompted for if not given.").
		Register(cmd)

	ctx.LoginToken, _ = ra.NewString("token").
		SetShort("t").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("API token. Prompted for if not given.").
		Register(cmd)

	ctx.LoginBaseURL, _ = ra.NewString("base-url").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("API root, e.g. a local sandbox at http://localhost:4040/1").
		Register(cmd)

	ctx.LoginUsed, _ = parent.RegisterCmd(cmd)
}

func runLogin(key, token, baseURL string, interactive bool) {
	app := mustApp(interactive)

	username, err := login(context.Background(), app, key, token, baseURL, interactive)
	if err != nil {
		if errors.Is(err, errLoginCancelled) {
			PrintInfo("Kept the saved credentials")
			return
		}
		Fatal(err)
	}

	PrintSuccess("Logged in as %s", RenderBold("@"+username))
	PrintInfo("Saved to %s", RenderMuted(app.ConfigStore.Path()))
}

// login checks the credentials against the service and saves them. It
// returns the username they belong to.
func login(ctx context.Context, app *App, key, token, baseURL string, interactive bool) (string, error) {
	if app.Config.HasCredentials() && interactive {
		ok, err := app.Prompter.Confirm("Replace the saved credentials?", false)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", errLoginCancelled
		}
	}

	var err error
	if key == "" {
		if key, err = app.Prompter.Input("API key", ""); err != nil {
			return "", err
		}
	}
	if token == "" {
		if token, err = app.Prompter.Secret("API token"); err != nil {
			return "", err
		}
	}
	key, token = strings.TrimSpace(key), strings.TrimSpace(token)
	if key == "" {
		return "", trerr.InvalidField("key", "must not be empty")
	}
	if token == "" {
		return "", trerr.InvalidField("token", "must not be empty")
	}

	// Environment overrides are not persisted, so start from the file.
	cfg, err := app.ConfigStore.Load()
	if err != nil {
		return "", err
	}
	cfg.Service.Key = key
	cfg.Service.Token = token
	if baseURL != "" {
		cfg.Service.BaseURL = baseURL
	}

	tr := newTransport(cfg, app.Log)
	me := entity.NewMember(session.New(session.Options{Transport: tr, Logger: app.Log}), "me")
	found, err := me.Refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("checking credentials: %w", err)
	}
	if !found {
		return "", &trerr.ConfigurationError{Subject: "credentials", Message: "the service did not recognize them"}
	}

	if err := app.ConfigStore.Save(cfg); err != nil {
		return "", err
	}
	app.Config = cfg
	app.Session.Attach(tr)

	return textOr(me.Username(ctx), me.ID()), nil
}
