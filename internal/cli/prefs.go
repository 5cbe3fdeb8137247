package cli

import (
	"context"
	"strconv"

	"github.com/amterp/ra"

	"github.com/amterp/trellis/internal/entity"
	trerr "github.com/amterp/trellis/internal/errors"
)

const emailPositionPref = "emailPosition"

// preferenceNames are the settings "prefs set" accepts, by wire name.
var preferenceNames = []string{
	"showListGuide",
	"showSidebar",
	"showSidebarActivity",
	"showSidebarBoardActions",
	"showSidebarMembers",
	emailPositionPref,
}

var emailPositions = []string{"top", "bottom"}

func registerPrefs(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("prefs")
	cmd.SetDescription("View and change your personal board preferences")

	// prefs show
	showCmd := ra.NewCmd("show")
	showCmd.SetDescription("Display your preferences for a board")

	ctx.PrefsShowBoard, _ = ra.NewString("board").
		SetUsage("Board ID").
		Register(showCmd)

	ctx.PrefsShowUsed, _ = cmd.RegisterCmd(showCmd)

	// prefs set
	setCmd := ra.NewCmd("set")
	setCmd.SetDescription("Change one preference")

	ctx.PrefsSetBoard, _ = ra.NewString("board").
		SetUsage("Board ID").
		Register(setCmd)

	ctx.PrefsSetField, _ = ra.NewString("field").
		SetOptional(true).
		SetUsage("Preference name. Prompted for if not given.").
		SetCompletionFunc(completePreferences).
		Register(setCmd)

	ctx.PrefsSetValue, _ = ra.NewString("value").
		SetOptional(true).
		SetUsage("true or false (top or bottom for emailPosition)").
		Register(setCmd)

	ctx.PrefsSetUsed, _ = cmd.RegisterCmd(setCmd)

	ctx.PrefsUsed, _ = parent.RegisterCmd(cmd)
}

func runPrefsSet(boardID, field, value string, interactive, jsonOutput bool) {
	app := mustApp(interactive)
	if err := app.RequireCredentials(); err != nil {
		Fatal(err)
	}

	ctx := context.Background()
	v := prefsView(app.Session, boardID)
	if err := v.load(ctx); err != nil {
		Fatal(err)
	}

	prefs := v.entity.(*entity.BoardPersonalPreferences)
	field, err := setPreference(ctx, app, prefs, field, value)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := v.print(ctx, app.Out, true); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Updated %s on board %s", RenderBold(field), RenderID(boardID))
}

// setPreference prompts for whatever is missing and writes one setting. It
// returns the setting's name.
func setPreference(ctx context.Context, app *App, prefs *entity.BoardPersonalPreferences, field, value string) (string, error) {
	var err error
	if field == "" {
		if field, err = app.Prompter.Select("Preference", preferenceNames); err != nil {
			return "", err
		}
	}

	if field == emailPositionPref {
		if value == "" {
			if value, err = app.Prompter.Select("Email position", emailPositions); err != nil {
				return "", err
			}
		}
		return field, prefs.SetEmailPosition(ctx, &value)
	}

	var enabled bool
	if value == "" {
		current, err := prefs.Preference(ctx, field)
		if err != nil {
			return "", err
		}
		enabled, err = app.Prompter.Confirm("Enable "+field+"?", current != nil && *current)
		if err != nil {
			return "", err
		}
	} else {
		enabled, err = strconv.ParseBool(value)
		if err != nil {
			return "", trerr.InvalidField("value", "must be true or false")
		}
	}
	return field, prefs.SetPreference(ctx, field, enabled)
}
