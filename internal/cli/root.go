package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool
	JSON           *bool

	// login command
	LoginUsed    *bool
	LoginKey     *string
	LoginToken   *string
	LoginBaseURL *string

	// board command
	BoardUsed     *bool
	BoardShowUsed *bool
	BoardShowID   *string

	// prefs command
	PrefsUsed      *bool
	PrefsShowUsed  *bool
	PrefsShowBoard *string
	PrefsSetUsed   *bool
	PrefsSetBoard  *string
	PrefsSetField  *string
	PrefsSetValue  *string

	// card command
	CardUsed         *bool
	CardShowUsed     *bool
	CardShowID       *string
	CardEditUsed     *bool
	CardEditID       *string
	CardEditName     *string
	CardEditDesc     *string
	CardEditClosed   *string
	CardEditDue      *string
	CardEditPos      *string
	CardEditList     *string
	CardEditEditDesc *bool

	// member command
	MemberUsed     *bool
	MemberShowUsed *bool
	MemberShowID   *string

	// action command
	ActionUsed     *bool
	ActionShowUsed *bool
	ActionShowID   *string

	// org command
	OrgUsed     *bool
	OrgShowUsed *bool
	OrgShowID   *string

	// membership command
	MembershipUsed     *bool
	MembershipShowUsed *bool
	MembershipShowOrg  *string
	MembershipShowID   *string
	MembershipSetUsed  *bool
	MembershipSetOrg   *string
	MembershipSetID    *string
	MembershipSetType  *string

	// follow command
	FollowUsed *bool
	FollowKind *string
	FollowID   *string

	// sandbox command
	SandboxUsed *bool
	SandboxPort *int
	SandboxSeed *string

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("trellis")
	cmd.SetDescription("Read and edit boards, cards, and members from the terminal")

	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	ctx.JSON, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Print JSON instead of formatted output").
		Register(cmd, ra.WithGlobal(true))

	registerLogin(cmd, ctx)
	registerBoard(cmd, ctx)
	registerPrefs(cmd, ctx)
	registerCard(cmd, ctx)
	registerMember(cmd, ctx)
	registerAction(cmd, ctx)
	registerOrg(cmd, ctx)
	registerMembership(cmd, ctx)
	registerFollow(cmd, ctx)
	registerSandbox(cmd, ctx)
	registerCompletion(cmd, ctx)

	cmd.ParseOrExit(os.Args[1:])

	executeCommand(ctx, cmd)
}

func executeCommand(ctx *CommandContext, root *ra.Cmd) {
	interactive := !*ctx.NonInteractive
	jsonOutput := *ctx.JSON

	switch {
	case *ctx.LoginUsed:
		runLogin(*ctx.LoginKey, *ctx.LoginToken, *ctx.LoginBaseURL, interactive)

	case *ctx.BoardShowUsed:
		runShow(boardView, *ctx.BoardShowID, jsonOutput)

	case *ctx.PrefsShowUsed:
		runShow(prefsView, *ctx.PrefsShowBoard, jsonOutput)

	case *ctx.PrefsSetUsed:
		runPrefsSet(*ctx.PrefsSetBoard, *ctx.PrefsSetField, *ctx.PrefsSetValue, interactive, jsonOutput)

	case *ctx.CardShowUsed:
		runShow(cardView, *ctx.CardShowID, jsonOutput)

	case *ctx.CardEditUsed:
		runCardEdit(*ctx.CardEditID, cardFlags{
			name:     *ctx.CardEditName,
			desc:     *ctx.CardEditDesc,
			closed:   *ctx.CardEditClosed,
			due:      *ctx.CardEditDue,
			pos:      *ctx.CardEditPos,
			list:     *ctx.CardEditList,
			editDesc: *ctx.CardEditEditDesc,
		}, jsonOutput)

	case *ctx.MemberShowUsed:
		runShow(memberView, *ctx.MemberShowID, jsonOutput)

	case *ctx.ActionShowUsed:
		runShow(actionView, *ctx.ActionShowID, jsonOutput)

	case *ctx.OrgShowUsed:
		runShow(organizationView, *ctx.OrgShowID, jsonOutput)

	case *ctx.MembershipShowUsed:
		runMembershipShow(*ctx.MembershipShowOrg, *ctx.MembershipShowID, jsonOutput)

	case *ctx.MembershipSetUsed:
		runMembershipSet(*ctx.MembershipSetOrg, *ctx.MembershipSetID, *ctx.MembershipSetType, interactive, jsonOutput)

	case *ctx.FollowUsed:
		runFollow(*ctx.FollowKind, *ctx.FollowID, jsonOutput)

	case *ctx.SandboxUsed:
		runSandbox(*ctx.SandboxPort, *ctx.SandboxSeed)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, root)
	}
}
