package cli

import (
	"context"

	"github.com/amterp/ra"

	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/entity"
	trerr "github.com/amterp/trellis/internal/errors"
)

// membershipTypes are the roles "membership set" can assign.
var membershipTypes = []string{
	contract.MembershipAdmin.Wire(),
	contract.MembershipNormal.Wire(),
	contract.MembershipObserver.Wire(),
}

func registerMembership(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("membership")
	cmd.SetDescription("View and change organization memberships")

	// membership show
	showCmd := ra.NewCmd("show")
	showCmd.SetDescription("Display a membership")

	ctx.MembershipShowOrg, _ = ra.NewString("org").
		SetUsage("Organization ID or name").
		Register(showCmd)

	ctx.MembershipShowID, _ = ra.NewString("membership").
		SetUsage("Membership ID").
		Register(showCmd)

	ctx.MembershipShowUsed, _ = cmd.RegisterCmd(showCmd)

	// membership set
	setCmd := ra.NewCmd("set")
	setCmd.SetDescription("Change a member's role in an organization")

	ctx.MembershipSetOrg, _ = ra.NewString("org").
		SetUsage("Organization ID or name").
		Register(setCmd)

	ctx.MembershipSetID, _ = ra.NewString("membership").
		SetUsage("Membership ID").
		Register(setCmd)

	ctx.MembershipSetType, _ = ra.NewString("type").
		SetOptional(true).
		SetUsage("admin, normal or observer. Prompted for if not given.").
		SetCompletionFunc(completeMembershipTypes).
		Register(setCmd)

	ctx.MembershipSetUsed, _ = cmd.RegisterCmd(setCmd)

	ctx.MembershipUsed, _ = parent.RegisterCmd(cmd)
}

func runMembershipShow(orgID, id string, jsonOutput bool) {
	app := mustApp(false)
	if err := app.RequireCredentials(); err != nil {
		Fatal(err)
	}

	if err := show(context.Background(), app, membershipView(app.Session, orgID, id), jsonOutput); err != nil {
		Fatal(err)
	}
}

func runMembershipSet(orgID, id, memberType string, interactive, jsonOutput bool) {
	app := mustApp(interactive)
	if err := app.RequireCredentials(); err != nil {
		Fatal(err)
	}

	ctx := context.Background()
	v := membershipView(app.Session, orgID, id)
	if err := v.load(ctx); err != nil {
		Fatal(err)
	}

	m := v.entity.(*entity.OrganizationMembership)
	t, err := setMembershipType(ctx, app, m, memberType)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := v.print(ctx, app.Out, true); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Membership %s is now %s", RenderID(id), RenderBold(t.Display()))
}

func setMembershipType(ctx context.Context, app *App, m *entity.OrganizationMembership, raw string) (contract.OrganizationMembershipType, error) {
	if raw == "" {
		var err error
		if raw, err = app.Prompter.Select("Role", membershipTypes); err != nil {
			return "", err
		}
	}

	t := contract.ParseOrganizationMembershipType(raw)
	if !t.Known() {
		return "", trerr.InvalidField("type", "unknown membership type "+raw)
	}
	return t, m.SetMemberType(ctx, t)
}
