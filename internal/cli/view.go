package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/amterp/trellis/internal/entity"
	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/live"
	"github.com/amterp/trellis/internal/session"
	"github.com/amterp/trellis/internal/util"
)

const labelWidth = 14

// remote is the part of an entity the CLI loads and watches.
type remote interface {
	Refresh(ctx context.Context) (bool, error)
	State() entity.State
	RefreshedAt() time.Time
}

// output is a snapshot that can render itself for humans. It marshals
// to JSON for --json.
type output interface {
	render(w io.Writer)
}

// view ties an entity to how it is shown.
type view struct {
	resource string
	id       string
	entity   remote
	// tracked receives change notifications. Preferences are tracked through
	// their board, since changes to them are announced for the board.
	tracked  session.Expirable
	snapshot func(ctx context.Context) output
}

// load fetches the entity, failing if the service does not have it.
func (v *view) load(ctx context.Context) error {
	ok, err := v.entity.Refresh(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return trerr.EntityNotFound(v.resource, v.id)
	}
	return nil
}

func (v *view) print(ctx context.Context, w io.Writer, jsonOutput bool) error {
	out := v.snapshot(ctx)
	if jsonOutput {
		return printJson(w, out)
	}
	out.render(w)
	fmt.Fprintln(w, RenderMuted("Fetched "+util.FormatAge(v.entity.RefreshedAt(), time.Now())))
	return nil
}

// matches reports whether ev announces a change to the tracked entity.
func (v *view) matches(ev live.Event) bool {
	return ev.Kind == v.tracked.Kind() && slices.Contains(ev.Keys(), v.tracked.ID())
}

func boardView(sess *session.Session, id string) *view {
	b := entity.NewBoard(sess, id)
	return &view{
		resource: "board",
		id:       id,
		entity:   b,
		tracked:  b,
		snapshot: func(ctx context.Context) output { return boardToJson(ctx, b) },
	}
}

func prefsView(sess *session.Session, boardID string) *view {
	b := entity.NewBoard(sess, boardID)
	p := b.Preferences()
	return &view{
		resource: "board preferences",
		id:       boardID,
		entity:   p,
		tracked:  b,
		snapshot: func(ctx context.Context) output { return prefsToJson(ctx, p) },
	}
}

func cardView(sess *session.Session, id string) *view {
	c := entity.NewCard(sess, id)
	return &view{
		resource: "card",
		id:       id,
		entity:   c,
		tracked:  c,
		snapshot: func(ctx context.Context) output { return cardToJson(ctx, c) },
	}
}

func memberView(sess *session.Session, id string) *view {
	m := entity.NewMember(sess, id)
	return &view{
		resource: "member",
		id:       id,
		entity:   m,
		tracked:  m,
		snapshot: func(ctx context.Context) output { return memberToJson(ctx, m) },
	}
}

func actionView(sess *session.Session, id string) *view {
	a := entity.NewAction(sess, id)
	return &view{
		resource: "action",
		id:       id,
		entity:   a,
		tracked:  a,
		snapshot: func(ctx context.Context) output { return actionToJson(ctx, a) },
	}
}

func organizationView(sess *session.Session, id string) *view {
	o := entity.NewOrganization(sess, id)
	return &view{
		resource: "organization",
		id:       id,
		entity:   o,
		tracked:  o,
		snapshot: func(ctx context.Context) output { return organizationToJson(ctx, o) },
	}
}

func membershipView(sess *session.Session, orgID, id string) *view {
	m := entity.NewOrganization(sess, orgID).Membership(id)
	return &view{
		resource: "membership",
		id:       orgID + "/" + id,
		entity:   m,
		tracked:  m,
		snapshot: func(ctx context.Context) output { return membershipToJson(ctx, m) },
	}
}

// followKinds are the kinds "trellis follow" accepts.
var followKinds = []string{"board", "prefs", "card", "member", "organization"}

// viewFor maps a kind named on the command line to a view.
func viewFor(sess *session.Session, kind, id string) (*view, error) {
	switch kind {
	case "board":
		return boardView(sess, id), nil
	case "prefs":
		return prefsView(sess, id), nil
	case "card":
		return cardView(sess, id), nil
	case "member":
		return memberView(sess, id), nil
	case "organization", "org":
		return organizationView(sess, id), nil
	}
	return nil, trerr.InvalidField("kind", fmt.Sprintf("must be one of %s", strings.Join(followKinds, ", ")))
}

// show loads the view and prints it.
func show(ctx context.Context, app *App, v *view, jsonOutput bool) error {
	if err := v.load(ctx); err != nil {
		return err
	}
	return v.print(ctx, app.Out, jsonOutput)
}

// --- Rendering ---

func (b boardJson) render(w io.Writer) {
	fmt.Fprintln(w, TitleBox(textOr(b.Name, b.ID)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelValue("ID", RenderID(b.ID), labelWidth))
	fmt.Fprintln(w, LabelValue("Closed", RenderBool(b.Closed), labelWidth))
	fmt.Fprintln(w, LabelValue("Pinned", RenderBool(b.Pinned), labelWidth))
	fmt.Fprintln(w, LabelValue("Organization", RenderText(b.OrganizationID), labelWidth))
	if b.URL != nil {
		fmt.Fprintln(w, LabelValue("URL", RenderURL(*b.URL), labelWidth))
	}
	renderDescription(w, b.Description)
}

func (p prefsJson) render(w io.Writer) {
	fmt.Fprintln(w, TitleBox("Preferences for "+p.Board))
	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelValue("List guide", RenderBool(p.ShowListGuide), labelWidth))
	fmt.Fprintln(w, LabelValue("Sidebar", RenderBool(p.ShowSidebar), labelWidth))
	fmt.Fprintln(w, LabelValue("Activity", RenderBool(p.ShowSidebarActivity), labelWidth))
	fmt.Fprintln(w, LabelValue("Board actions", RenderBool(p.ShowSidebarBoardActions), labelWidth))
	fmt.Fprintln(w, LabelValue("Members", RenderBool(p.ShowSidebarMembers), labelWidth))
	fmt.Fprintln(w, LabelValue("Email", RenderText(p.EmailPosition), labelWidth))
}

func (c cardJson) render(w io.Writer) {
	fmt.Fprintln(w, TitleBox(textOr(c.Name, c.ID)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelValue("ID", RenderID(c.ID), labelWidth))
	fmt.Fprintln(w, LabelValue("Number", "#"+strconv.Itoa(c.ShortID), labelWidth))
	fmt.Fprintln(w, LabelValue("Board", RenderText(c.BoardID), labelWidth))
	fmt.Fprintln(w, LabelValue("List", RenderText(c.ListID), labelWidth))
	fmt.Fprintln(w, LabelValue("Closed", RenderBool(c.Closed), labelWidth))
	fmt.Fprintln(w, LabelValue("Due", util.FormatTime(c.Due), labelWidth))
	if c.Position != nil {
		fmt.Fprintln(w, LabelValue("Position", strconv.FormatFloat(*c.Position, 'f', -1, 64), labelWidth))
	}
	if c.ShortURL != nil {
		fmt.Fprintln(w, LabelValue("URL", RenderURL(*c.ShortURL), labelWidth))
	}
	renderDescription(w, c.Description)
}

func (m memberJson) render(w io.Writer) {
	title := textOr(m.FullName, m.ID)
	if m.Username != nil {
		title += " @" + *m.Username
	}
	fmt.Fprintln(w, TitleBox(title))
	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelValue("ID", RenderID(m.ID), labelWidth))
	fmt.Fprintln(w, LabelValue("Initials", RenderText(m.Initials), labelWidth))
	fmt.Fprintln(w, LabelValue("Type", RenderText(m.MemberType), labelWidth))
	fmt.Fprintln(w, LabelValue("Confirmed", RenderBool(m.Confirmed), labelWidth))
	if m.URL != nil {
		fmt.Fprintln(w, LabelValue("URL", RenderURL(*m.URL), labelWidth))
	}
	if m.Bio != nil && *m.Bio != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, RenderMuted("Bio:"))
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(*m.Bio, "\n", "\n  "))
	}
}

func (a actionJson) render(w io.Writer) {
	fmt.Fprintln(w, TitleBox(textOr(a.Type, "action")))
	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelValue("ID", RenderID(a.ID), labelWidth))
	fmt.Fprintln(w, LabelValue("Date", RenderMuted(util.FormatTime(a.Date)), labelWidth))
	fmt.Fprintln(w, LabelValue("By", RenderText(a.MemberCreatorID), labelWidth))
	fmt.Fprintln(w, LabelValue("Board", RenderText(a.BoardID), labelWidth))
	fmt.Fprintln(w, LabelValue("Card", RenderText(a.CardID), labelWidth))
	if a.Text != nil && *a.Text != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(*a.Text, "\n", "\n  "))
	}
}

func (o organizationJson) render(w io.Writer) {
	fmt.Fprintln(w, TitleBox(textOr(o.DisplayName, o.ID)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelValue("ID", RenderID(o.ID), labelWidth))
	fmt.Fprintln(w, LabelValue("Name", RenderText(o.Name), labelWidth))
	if o.Website != nil {
		fmt.Fprintln(w, LabelValue("Website", RenderURL(*o.Website), labelWidth))
	}
	renderDescription(w, o.Description)
}

func (m membershipJson) render(w io.Writer) {
	fmt.Fprintln(w, TitleBox("Membership "+m.ID))
	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelValue("Organization", RenderID(m.Organization), labelWidth))
	fmt.Fprintln(w, LabelValue("Member", RenderText(m.MemberID), labelWidth))
	fmt.Fprintln(w, LabelValue("Type", m.MemberType.Display(), labelWidth))
	fmt.Fprintln(w, LabelValue("Unconfirmed", RenderBool(m.Unconfirmed), labelWidth))
	fmt.Fprintln(w, LabelValue("Deactivated", RenderBool(m.Deactivated), labelWidth))
}

// textOr returns *s, or fallback when s is unset or empty.
func textOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func renderDescription(w io.Writer, desc *string) {
	if desc == nil || *desc == "" {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderMuted("Description:"))
	fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(*desc, "\n", "\n  "))
}

// Ensure every snapshot renders.
var (
	_ output = boardJson{}
	_ output = prefsJson{}
	_ output = cardJson{}
	_ output = memberJson{}
	_ output = actionJson{}
	_ output = organizationJson{}
	_ output = membershipJson{}
)
