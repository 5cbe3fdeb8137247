package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/amterp/ra"

	"github.com/amterp/trellis/internal/entity"
	trerr "github.com/amterp/trellis/internal/errors"
)

// clearDue is the --due value that removes a due date.
const clearDue = "none"

func registerCard(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("card")
	cmd.SetDescription("View and edit cards")

	// card show
	showCmd := ra.NewCmd("show")
	showCmd.SetDescription("Display card details")

	ctx.CardShowID, _ = ra.NewString("card").
		SetUsage("Card ID or short link").
		Register(showCmd)

	ctx.CardShowUsed, _ = cmd.RegisterCmd(showCmd)

	// card edit
	editCmd := ra.NewCmd("edit")
	editCmd.SetDescription("Change card fields. All changes are sent in one request.")

	ctx.CardEditID, _ = ra.NewString("card").
		SetUsage("Card ID or short link").
		Register(editCmd)

	ctx.CardEditName, _ = ra.NewString("name").
		SetShort("n").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New card name").
		Register(editCmd)

	ctx.CardEditDesc, _ = ra.NewString("desc").
		SetShort("d").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("New description").
		Register(editCmd)

	ctx.CardEditEditDesc, _ = ra.NewBool("edit-desc").
		SetShort("e").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Edit the description in $EDITOR").
		Register(editCmd)

	ctx.CardEditClosed, _ = ra.NewString("closed").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("true to archive the card, false to restore it").
		Register(editCmd)

	ctx.CardEditDue, _ = ra.NewString("due").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Due date (RFC 3339 or YYYY-MM-DD), or 'none' to clear").
		Register(editCmd)

	ctx.CardEditPos, _ = ra.NewString("pos").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Position within the list (a positive number)").
		Register(editCmd)

	ctx.CardEditList, _ = ra.NewString("list").
		SetShort("l").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Move the card to this list").
		Register(editCmd)

	ctx.CardEditUsed, _ = cmd.RegisterCmd(editCmd)

	ctx.CardUsed, _ = parent.RegisterCmd(cmd)
}

// cardFlags are the raw "card edit" flag values. Empty means unchanged.
type cardFlags struct {
	name     string
	desc     string
	closed   string
	due      string
	pos      string
	list     string
	editDesc bool
}

// cardEdits are parsed card changes. Nil means unchanged.
type cardEdits struct {
	name     *string
	desc     *string
	closed   *bool
	due      *time.Time
	clearDue bool
	pos      *float64
	list     *string
}

func parseCardEdits(f cardFlags) (cardEdits, error) {
	var e cardEdits
	if f.name != "" {
		e.name = &f.name
	}
	if f.desc != "" {
		e.desc = &f.desc
	}
	if f.list != "" {
		e.list = &f.list
	}
	if f.closed != "" {
		b, err := strconv.ParseBool(f.closed)
		if err != nil {
			return e, trerr.InvalidField("closed", "must be true or false")
		}
		e.closed = &b
	}
	if f.pos != "" {
		p, err := strconv.ParseFloat(f.pos, 64)
		if err != nil {
			return e, trerr.InvalidField("pos", "must be a number")
		}
		e.pos = &p
	}
	switch {
	case f.due == "":
	case strings.EqualFold(f.due, clearDue):
		e.clearDue = true
	default:
		d, err := parseDue(f.due)
		if err != nil {
			return e, err
		}
		e.due = &d
	}
	return e, nil
}

func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, trerr.InvalidField("due", "must be RFC 3339 or YYYY-MM-DD")
}

func runCardEdit(id string, flags cardFlags, jsonOutput bool) {
	edits, err := parseCardEdits(flags)
	if err != nil {
		Fatal(err)
	}

	app := mustApp(true)
	if err := app.RequireCredentials(); err != nil {
		Fatal(err)
	}

	ctx := context.Background()
	v := cardView(app.Session, id)
	if err := v.load(ctx); err != nil {
		Fatal(err)
	}
	card := v.entity.(*entity.Card)

	if flags.editDesc {
		if edits.desc, err = editDescription(app, card.Description(ctx)); err != nil {
			Fatal(err)
		}
	}

	result, err := editCard(ctx, card, edits)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(app.Out, writeToJson(result)); err != nil {
			Fatal(err)
		}
		return
	}
	if result.Skipped {
		PrintInfo("No changes made")
		return
	}
	PrintSuccess("Updated card %s (%d field(s))", RenderID(id), len(result.Sent))
}

// editDescription opens the editor on the current description. It returns
// nil when the text is unchanged.
func editDescription(app *App, current *string) (*string, error) {
	before := ""
	if current != nil {
		before = *current
	}

	edited, err := app.Editor.Edit(before)
	if err != nil {
		return nil, err
	}
	edited = strings.TrimSpace(edited)
	if edited == strings.TrimSpace(before) {
		return nil, nil
	}
	return &edited, nil
}

// editCard queues every edit on the card and sends them in a single request.
// A rejected edit sends nothing.
func editCard(ctx context.Context, card *entity.Card, e cardEdits) (entity.FlushResult, error) {
	return card.Batch(ctx, func() error { return queueCardEdits(ctx, card, e) })
}

func queueCardEdits(ctx context.Context, card *entity.Card, e cardEdits) error {
	if e.name != nil {
		if err := card.SetName(ctx, e.name); err != nil {
			return err
		}
	}
	if e.desc != nil {
		if err := card.SetDescription(ctx, e.desc); err != nil {
			return err
		}
	}
	if e.closed != nil {
		if err := card.SetClosed(ctx, e.closed); err != nil {
			return err
		}
	}
	if e.due != nil || e.clearDue {
		if err := card.SetDue(ctx, e.due); err != nil {
			return err
		}
	}
	if e.pos != nil {
		if err := card.SetPosition(ctx, e.pos); err != nil {
			return err
		}
	}
	if e.list != nil {
		if err := card.MoveToList(ctx, *e.list); err != nil {
			return err
		}
	}
	return nil
}
