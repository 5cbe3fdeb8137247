package cli

import (
	"context"

	"github.com/amterp/ra"

	"github.com/amterp/trellis/internal/session"
)

func registerBoard(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("board")
	cmd.SetDescription("Inspect boards")

	showCmd := ra.NewCmd("show")
	showCmd.SetDescription("Display board details")

	ctx.BoardShowID, _ = ra.NewString("board").
		SetUsage("Board ID").
		Register(showCmd)

	ctx.BoardShowUsed, _ = cmd.RegisterCmd(showCmd)
	ctx.BoardUsed, _ = parent.RegisterCmd(cmd)
}

func registerMember(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("member")
	cmd.SetDescription("Inspect members")

	showCmd := ra.NewCmd("show")
	showCmd.SetDescription("Display member details")

	ctx.MemberShowID, _ = ra.NewString("member").
		SetOptional(true).
		SetDefault("me").
		SetUsage("Member ID or username. Defaults to you.").
		Register(showCmd)

	ctx.MemberShowUsed, _ = cmd.RegisterCmd(showCmd)
	ctx.MemberUsed, _ = parent.RegisterCmd(cmd)
}

func registerAction(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("action")
	cmd.SetDescription("Inspect actions")

	showCmd := ra.NewCmd("show")
	showCmd.SetDescription("Display an action")

	ctx.ActionShowID, _ = ra.NewString("action").
		SetUsage("Action ID").
		Register(showCmd)

	ctx.ActionShowUsed, _ = cmd.RegisterCmd(showCmd)
	ctx.ActionUsed, _ = parent.RegisterCmd(cmd)
}

func registerOrg(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("org")
	cmd.SetDescription("Inspect organizations")

	showCmd := ra.NewCmd("show")
	showCmd.SetDescription("Display organization details")

	ctx.OrgShowID, _ = ra.NewString("org").
		SetUsage("Organization ID or name").
		Register(showCmd)

	ctx.OrgShowUsed, _ = cmd.RegisterCmd(showCmd)
	ctx.OrgUsed, _ = parent.RegisterCmd(cmd)
}

// runShow prints the entity a show command names.
func runShow(newView func(*session.Session, string) *view, id string, jsonOutput bool) {
	app := mustApp(false)
	if err := app.RequireCredentials(); err != nil {
		Fatal(err)
	}

	if err := show(context.Background(), app, newView(app.Session, id), jsonOutput); err != nil {
		Fatal(err)
	}
}
