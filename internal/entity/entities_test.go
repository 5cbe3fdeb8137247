package entity

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amterp/trellis/internal/contract"
	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/queue"
	"github.com/amterp/trellis/testutil"
)

func setupBoard(t *testing.T) (*Board, *testutil.RecordingTransport) {
	t.Helper()

	rt := testutil.NewRecordingTransport()
	rt.Respond(http.MethodGet, "boards/b1", testutil.BoardJSON)
	rt.Respond(http.MethodGet, "boards/b1/myPrefs", testutil.PrefsJSON)
	return NewBoard(testutil.NewSession(t, rt, testutil.NewClock()), "b1"), rt
}

func TestPreferences_ReadThroughOwner(t *testing.T) {
	ctx := context.Background()
	board, rt := setupBoard(t)
	prefs := board.Preferences()

	assert.Same(t, prefs, board.Preferences())
	assert.True(t, *prefs.ShowSidebar(ctx))
	assert.False(t, *prefs.ShowListGuide(ctx))
	assert.Equal(t, "bottom", *prefs.EmailPosition(ctx))

	gets := rt.Calls(http.MethodGet)
	require.Len(t, gets, 1)
	assert.Equal(t, "boards/b1/myPrefs", gets[0].Request.Path)
}

func TestPreferences_SetPostsNameThenValue(t *testing.T) {
	ctx := context.Background()
	board, rt := setupBoard(t)
	prefs := board.Preferences()

	require.NoError(t, prefs.SetShowSidebar(ctx, ptr(false)))

	posts := rt.Calls(http.MethodPost)
	require.Len(t, posts, 1)
	assert.Equal(t, "boards/b1/myPrefs", posts[0].Request.Path)
	assert.Equal(t, []queue.Param{
		{Name: "name", Value: "showSidebar"},
		{Name: "value", Value: "false"},
	}, posts[0].Request.Params)
	assert.False(t, *prefs.ShowSidebar(ctx))
}

func TestPreferences_SameValueIsNoop(t *testing.T) {
	ctx := context.Background()
	board, rt := setupBoard(t)
	prefs := board.Preferences()

	require.NoError(t, prefs.SetShowSidebar(ctx, ptr(true)))
	require.NoError(t, prefs.SetPreference(ctx, "showSidebarMembers", true))
	assert.Empty(t, rt.Calls(http.MethodPost))
}

func TestPreferences_RejectsNullAndUnknown(t *testing.T) {
	ctx := context.Background()
	board, rt := setupBoard(t)
	prefs := board.Preferences()

	assert.True(t, trerr.IsValidationError(prefs.SetShowListGuide(ctx, nil)))
	assert.True(t, trerr.IsValidationError(prefs.SetPreference(ctx, "showConfetti", true)))
	assert.True(t, trerr.IsValidationError(prefs.SetEmailPosition(ctx, ptr("middle"))))
	assert.Empty(t, rt.Calls(http.MethodPost))

	require.NoError(t, prefs.SetEmailPosition(ctx, ptr("top")))
	posts := rt.Calls(http.MethodPost)
	require.Len(t, posts, 1)
	assert.Equal(t, []queue.Param{
		{Name: "name", Value: "emailPosition"},
		{Name: "value", Value: "top"},
	}, posts[0].Request.Params)
}

func TestPreferences_OneSettingQueuedAtATime(t *testing.T) {
	ctx := context.Background()
	board, rt := setupBoard(t)
	prefs := board.Preferences()
	prefs.ShowSidebar(ctx)

	sess := board.Session()
	tr, _ := sess.Transport()
	sess.Detach()

	require.NoError(t, prefs.SetShowSidebar(ctx, ptr(false)))
	err := prefs.SetShowListGuide(ctx, ptr(true))
	assert.True(t, trerr.IsValidationError(err), "got %v", err)
	assert.False(t, *prefs.ShowListGuide(ctx), "a rejected setting leaves the local copy alone")

	queued := []queue.Param{{Name: "name", Value: "showSidebar"}, {Name: "value", Value: "false"}}
	assert.Equal(t, queued, prefs.Pending())

	sess.Attach(tr)
	result, err := prefs.Post(ctx)
	require.NoError(t, err)
	assert.Equal(t, queued, result.Sent)

	require.NoError(t, prefs.SetShowListGuide(ctx, ptr(true)))
	posts := rt.Calls(http.MethodPost)
	require.Len(t, posts, 2)
	assert.Equal(t, []queue.Param{
		{Name: "name", Value: "showListGuide"},
		{Name: "value", Value: "true"},
	}, posts[1].Request.Params)
}

func TestPreferences_RequeueDoesNotOverwriteQueuedSetting(t *testing.T) {
	ctx := context.Background()
	board, rt := setupBoard(t)
	prefs := board.Preferences()
	prefs.ShowSidebar(ctx)

	rt.FailWith(errors.New("connection reset"))
	var we *WriteError
	require.ErrorAs(t, prefs.SetShowSidebar(ctx, ptr(false)), &we)
	rt.FailWith(nil)

	board.Session().Detach()
	require.NoError(t, prefs.SetShowListGuide(ctx, ptr(true)))

	err := prefs.Requeue(we.Result)
	assert.True(t, trerr.IsValidationError(err), "got %v", err)
	assert.Equal(t, []queue.Param{
		{Name: "name", Value: "showListGuide"},
		{Name: "value", Value: "true"},
	}, prefs.Pending())
}

func TestPreferences_ByName(t *testing.T) {
	ctx := context.Background()
	board, _ := setupBoard(t)

	for _, name := range PreferenceNames {
		v, err := board.Preferences().Preference(ctx, name)
		require.NoError(t, err, name)
		require.NotNil(t, v, name)
	}
	_, err := board.Preferences().Preference(ctx, "nope")
	assert.Error(t, err)
}

func TestBoard_ExpirePropagatesToPreferences(t *testing.T) {
	ctx := context.Background()
	board, _ := setupBoard(t)
	prefs := board.Preferences()

	board.Name(ctx)
	prefs.ShowSidebar(ctx)
	require.Equal(t, Fresh, prefs.State())

	board.Expire()
	assert.Equal(t, Stale, board.State())
	assert.Equal(t, Stale, prefs.State())
}

func TestBoard_Fields(t *testing.T) {
	ctx := context.Background()
	board, rt := setupBoard(t)

	assert.Equal(t, "Roadmap", *board.Name(ctx))
	assert.Equal(t, "Q3 plans", *board.Description(ctx))
	assert.True(t, *board.Pinned(ctx))
	assert.Equal(t, "o1", *board.OrganizationID(ctx))
	assert.Equal(t, "https://trello.test/b/b1/roadmap", *board.URL(ctx))

	require.NoError(t, board.SetClosed(ctx, ptr(true)))
	require.NoError(t, board.SetDescription(ctx, nil))

	puts := rt.Calls(http.MethodPut)
	require.Len(t, puts, 2)
	assert.Equal(t, "boards/b1", puts[0].Request.Path)
	assert.Equal(t, []queue.Param{{Name: "closed", Value: "true"}}, puts[0].Request.Params)
	assert.Equal(t, []queue.Param{{Name: "desc", Value: ""}}, puts[1].Request.Params)
}

func TestCard_DueAndMove(t *testing.T) {
	ctx := context.Background()
	card, rt, _ := setupCard(t)

	due := card.Due(ctx)
	require.NotNil(t, due)
	assert.True(t, due.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	same := time.Date(2026, 3, 1, 13, 0, 0, 0, time.FixedZone("CET", 3600))
	require.NoError(t, card.SetDue(ctx, &same))
	assert.Empty(t, rt.Calls(http.MethodPut), "same instant in another zone is unchanged")

	require.NoError(t, card.SetDue(ctx, nil))
	require.NoError(t, card.MoveToList(ctx, "l2"))

	puts := rt.Calls(http.MethodPut)
	require.Len(t, puts, 2)
	assert.Equal(t, []queue.Param{{Name: "due", Value: "null"}}, puts[0].Request.Params)
	assert.Equal(t, []queue.Param{{Name: "idList", Value: "l2"}}, puts[1].Request.Params)
	assert.Nil(t, card.Due(ctx))
	assert.Equal(t, "l2", *card.ListID(ctx))

	assert.True(t, trerr.IsValidationError(card.MoveToList(ctx, "")))
}

func TestMember_Validation(t *testing.T) {
	ctx := context.Background()
	rt := testutil.NewRecordingTransport()
	rt.Respond(http.MethodGet, "members/ada", testutil.MemberJSON)
	member := NewMember(testutil.NewSession(t, rt, nil), "ada")

	assert.Equal(t, "Ada Lovelace", *member.FullName(ctx))

	require.NoError(t, member.SetFullName(ctx, ptr("  Ada Lovelace  ")))
	assert.Empty(t, rt.Calls(http.MethodPut), "trimmed name equals the current one")

	require.NoError(t, member.SetFullName(ctx, ptr("  Augusta Ada King ")))
	assert.True(t, trerr.IsValidationError(member.SetFullName(ctx, ptr("   "))))
	assert.True(t, trerr.IsValidationError(member.SetInitials(ctx, ptr("AADKL"))))
	assert.True(t, trerr.IsValidationError(member.SetInitials(ctx, ptr(""))))
	require.NoError(t, member.SetInitials(ctx, ptr("AAK")))

	puts := rt.Calls(http.MethodPut)
	require.Len(t, puts, 2)
	assert.Equal(t, "members/ada", puts[0].Request.Path)
	assert.Equal(t, []queue.Param{{Name: "fullName", Value: "Augusta Ada King"}}, puts[0].Request.Params)
	assert.Equal(t, []queue.Param{{Name: "initials", Value: "AAK"}}, puts[1].Request.Params)
	assert.Equal(t, "ada", *member.Username(ctx))
	assert.True(t, *member.Confirmed(ctx))
}

func TestAction_Fields(t *testing.T) {
	ctx := context.Background()
	rt := testutil.NewRecordingTransport()
	rt.Respond(http.MethodGet, "actions/a1", testutil.ActionJSON)
	action := NewAction(testutil.NewSession(t, rt, nil), "a1")

	assert.True(t, action.ReadOnly())
	assert.Equal(t, "commentCard", *action.Type(ctx))
	assert.Equal(t, "m1", *action.MemberCreatorID(ctx))
	assert.Equal(t, "b1", *action.BoardID(ctx))
	assert.Equal(t, "c1", *action.CardID(ctx))
	assert.True(t, action.Date(ctx).Equal(time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)))
}

func TestOrganization_Membership(t *testing.T) {
	ctx := context.Background()
	rt := testutil.NewRecordingTransport()
	rt.Respond(http.MethodGet, "organizations/o1", testutil.OrganizationJSON)
	rt.Respond(http.MethodGet, "organizations/o1/memberships/om1", testutil.MembershipJSON)
	org := NewOrganization(testutil.NewSession(t, rt, nil), "o1")

	m := org.Membership("om1")
	assert.Same(t, m, org.Membership("om1"))
	assert.Equal(t, contract.MembershipNormal, m.MemberType(ctx))
	assert.Equal(t, "m1", *m.MemberID(ctx))

	assert.True(t, trerr.IsValidationError(m.SetMemberType(ctx, contract.MembershipUnknown)))
	require.NoError(t, m.SetMemberType(ctx, contract.MembershipAdmin))

	puts := rt.Calls(http.MethodPut)
	require.Len(t, puts, 1)
	assert.Equal(t, "organizations/o1/memberships/om1", puts[0].Request.Path)
	assert.Equal(t, []queue.Param{{Name: "type", Value: "admin"}}, puts[0].Request.Params)

	org.Name(ctx)
	org.Expire()
	assert.Equal(t, Stale, m.State())
}

func TestOrganization_WebsiteMustBeURL(t *testing.T) {
	ctx := context.Background()
	rt := testutil.NewRecordingTransport()
	rt.Respond(http.MethodGet, "organizations/o1", testutil.OrganizationJSON)
	org := NewOrganization(testutil.NewSession(t, rt, nil), "o1")

	assert.True(t, trerr.IsValidationError(org.SetWebsite(ctx, ptr("not a url"))))
	require.NoError(t, org.SetWebsite(ctx, ptr("https://analytical.example")))
	assert.True(t, trerr.IsValidationError(org.SetDisplayName(ctx, ptr(""))))
	assert.Equal(t, "https://analytical.example", *org.Website(ctx))
}

func TestMembership_UnknownWireValue(t *testing.T) {
	ctx := context.Background()
	rt := testutil.NewRecordingTransport()
	rt.Respond(http.MethodGet, "organizations/o1/memberships/om2", `{"id":"om2","memberType":"superadmin"}`)
	org := NewOrganization(testutil.NewSession(t, rt, nil), "o1")

	assert.Equal(t, contract.MembershipUnknown, org.Membership("om2").MemberType(ctx))
}
