package sandbox

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/amterp/trellis/internal/contract"
	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/id"
	"github.com/amterp/trellis/internal/live"
	"github.com/amterp/trellis/internal/util"
	"github.com/amterp/trellis/internal/validate"
	"github.com/amterp/trellis/internal/wire"
)

// DefaultSiteURL is the web origin used in the url fields the sandbox serves.
const DefaultSiteURL = "https://trello.test"

// Me is the member id alias for the sandbox user.
const Me = "me"

type list struct {
	ID      string
	BoardID string
	Name    string
}

// Store is the sandbox's in-memory state. Records are wire values; updates
// replace pointer fields instead of writing through them, so a copy handed
// out by a getter never changes underneath its holder.
type Store struct {
	mu      sync.RWMutex
	siteURL string
	clock   func() time.Time
	actor   string

	boards      map[string]*wire.Board
	prefs       map[string]*wire.BoardPersonalPreferences
	lists       map[string]list
	cards       map[string]*wire.Card
	shortLinks  map[string]string
	nextShortID map[string]int
	members     map[string]*wire.Member
	usernames   map[string]string
	actions     map[string]*wire.Action
	orgs        map[string]*wire.Organization
	orgNames    map[string]string
	memberships map[string]map[string]*wire.OrganizationMembership
}

// NewStore builds a store from seed. A nil seed starts empty. The first
// seeded member acts as the sandbox user.
func NewStore(seed *Seed, siteURL string, clock func() time.Time) *Store {
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	if clock == nil {
		clock = time.Now
	}
	s := &Store{
		siteURL:     strings.TrimRight(siteURL, "/"),
		clock:       clock,
		boards:      make(map[string]*wire.Board),
		prefs:       make(map[string]*wire.BoardPersonalPreferences),
		lists:       make(map[string]list),
		cards:       make(map[string]*wire.Card),
		shortLinks:  make(map[string]string),
		nextShortID: make(map[string]int),
		members:     make(map[string]*wire.Member),
		usernames:   make(map[string]string),
		actions:     make(map[string]*wire.Action),
		orgs:        make(map[string]*wire.Organization),
		orgNames:    make(map[string]string),
		memberships: make(map[string]map[string]*wire.OrganizationMembership),
	}
	if seed != nil {
		s.load(seed)
	}
	return s
}

func (s *Store) load(seed *Seed) {
	for _, b := range seed.Boards {
		s.boards[b.ID] = &wire.Board{
			IDField:             b.ID,
			NameField:           strp(b.Name),
			DescField:           strp(b.Desc),
			ClosedField:         boolp(b.Closed),
			PinnedField:         boolp(b.Pinned),
			URLField:            strp(s.boardURL(b.ID, b.Name)),
			OrganizationIDField: optStr(b.IDOrganization),
		}
		s.prefs[b.ID] = &wire.BoardPersonalPreferences{
			ShowListGuideField:           boolp(b.Prefs.ShowListGuide),
			ShowSidebarField:             boolp(b.Prefs.ShowSidebar),
			ShowSidebarActivityField:     boolp(b.Prefs.ShowSidebarActivity),
			ShowSidebarBoardActionsField: boolp(b.Prefs.ShowSidebarBoardActions),
			ShowSidebarMembersField:      boolp(b.Prefs.ShowSidebarMembers),
			EmailPositionField:           strp(orDefault(b.Prefs.EmailPosition, "bottom")),
		}
	}
	for _, l := range seed.Lists {
		s.lists[l.ID] = list{ID: l.ID, BoardID: l.IDBoard, Name: l.Name}
	}
	for _, c := range seed.Cards {
		boardID := s.lists[c.IDList].BoardID
		short := orDefault(c.ShortLink, id.ShortLink())
		s.nextShortID[boardID]++
		card := &wire.Card{
			IDField:       c.ID,
			NameField:     strp(c.Name),
			DescField:     strp(c.Desc),
			ClosedField:   boolp(c.Closed),
			DueField:      c.Due,
			ListIDField:   strp(c.IDList),
			BoardIDField:  strp(boardID),
			PosField:      floatp(orDefaultPos(c.Pos)),
			ShortLink:     short,
			IDShort:       s.nextShortID[boardID],
			ShortURLField: strp(s.siteURL + "/c/" + short),
			URLField:      strp(s.cardURL(short, c.Name)),
		}
		s.cards[c.ID] = card
		s.shortLinks[short] = c.ID
	}
	for i, m := range seed.Members {
		s.members[m.ID] = &wire.Member{
			IDField:         m.ID,
			UsernameField:   strp(m.Username),
			FullNameField:   strp(m.FullName),
			InitialsField:   strp(m.Initials),
			BioField:        strp(m.Bio),
			AvatarHashField: optStr(m.AvatarHash),
			URLField:        strp(s.siteURL + "/" + m.Username),
			ConfirmedField:  boolp(m.Confirmed),
			MemberTypeField: strp(orDefault(m.MemberType, "normal")),
		}
		s.usernames[m.Username] = m.ID
		if i == 0 {
			s.actor = m.ID
		}
	}
	for _, a := range seed.Actions {
		date := s.clock().UTC()
		if a.Date != nil {
			date = a.Date.UTC()
		}
		s.actions[a.ID] = &wire.Action{
			IDField:              a.ID,
			TypeField:            strp(a.Type),
			DateField:            &date,
			MemberCreatorIDField: optStr(a.IDMemberCreator),
			Data: wire.ActionData{
				Text:  optStr(a.Text),
				Board: s.boardRef(a.IDBoard),
				Card:  s.cardRef(a.IDCard),
			},
		}
	}
	for _, o := range seed.Organizations {
		s.orgs[o.ID] = &wire.Organization{
			IDField:          o.ID,
			NameField:        strp(o.Name),
			DisplayNameField: strp(o.DisplayName),
			DescField:        strp(o.Desc),
			WebsiteField:     optStr(o.Website),
		}
		s.orgNames[o.Name] = o.ID
		ms := make(map[string]*wire.OrganizationMembership)
		for _, m := range o.Memberships {
			ms[m.ID] = &wire.OrganizationMembership{
				IDField:          m.ID,
				MemberIDField:    optStr(m.IDMember),
				MemberTypeField:  orDefault(m.MemberType, string(contract.MembershipNormal)),
				UnconfirmedField: boolp(m.Unconfirmed),
				DeactivatedField: boolp(m.Deactivated),
			}
		}
		s.memberships[o.ID] = ms
	}
}

// --- Reads ---

func (s *Store) Board(boardID string) (*wire.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boards[boardID]
	if !ok {
		return nil, trerr.EntityNotFound("board", boardID)
	}
	cp := *b
	return &cp, nil
}

func (s *Store) Preferences(boardID string) (*wire.BoardPersonalPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prefs[boardID]
	if !ok {
		return nil, trerr.EntityNotFound("board", boardID)
	}
	cp := *p
	return &cp, nil
}

// Card looks a card up by id or short link.
func (s *Store) Card(ref string) (*wire.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.card(ref)
	if err != nil {
		return nil, err
	}
	cp := *c
	return &cp, nil
}

// Member looks a member up by id, username, or "me".
func (s *Store) Member(ref string) (*wire.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.member(ref)
	if err != nil {
		return nil, err
	}
	cp := *m
	return &cp, nil
}

func (s *Store) Action(actionID string) (*wire.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actions[actionID]
	if !ok {
		return nil, trerr.EntityNotFound("action", actionID)
	}
	cp := *a
	return &cp, nil
}

// Organization looks an organization up by id or name.
func (s *Store) Organization(ref string) (*wire.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, err := s.org(ref)
	if err != nil {
		return nil, err
	}
	cp := *o
	return &cp, nil
}

func (s *Store) Membership(orgRef, membershipID string) (*wire.OrganizationMembership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.membership(orgRef, membershipID)
	if err != nil {
		return nil, err
	}
	cp := *m
	return &cp, nil
}

// ActionCount returns how many actions have been recorded.
func (s *Store) ActionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.actions)
}

// --- Writes ---

// UpdateBoard applies the board params in form.
func (s *Store) UpdateBoard(boardID string, form url.Values) (*wire.Board, live.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.boards[boardID]
	if !ok {
		return nil, live.Event{}, trerr.EntityNotFound("board", boardID)
	}
	b := *cur

	if v, ok := param(form, "name"); ok {
		if err := validate.NonEmptyString("name", &v); err != nil {
			return nil, live.Event{}, err
		}
		b.NameField = strp(v)
		b.URLField = strp(s.boardURL(b.IDField, v))
	}
	if v, ok := param(form, "desc"); ok {
		b.DescField = strp(v)
	}
	if err := setBool(form, "closed", &b.ClosedField); err != nil {
		return nil, live.Event{}, err
	}
	if err := setBool(form, "pinned", &b.PinnedField); err != nil {
		return nil, live.Event{}, err
	}

	s.boards[boardID] = &b
	s.record("updateBoard", boardID, "", "")
	return copyOf(&b), s.event("updateBoard", contract.KindBoard, boardID), nil
}

// SetPreference applies one name/value preference pair. A preference change
// is reported against the board, which owns the preferences.
func (s *Store) SetPreference(boardID string, form url.Values) (*wire.BoardPersonalPreferences, live.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.prefs[boardID]
	if !ok {
		return nil, live.Event{}, trerr.EntityNotFound("board", boardID)
	}
	p := *cur

	name, ok := param(form, "name")
	if !ok {
		return nil, live.Event{}, trerr.InvalidField("name", "is required")
	}
	value, ok := param(form, "value")
	if !ok {
		return nil, live.Event{}, trerr.InvalidField("value", "is required")
	}

	if name == "emailPosition" {
		if value != "top" && value != "bottom" {
			return nil, live.Event{}, trerr.InvalidField("value", `must be "top" or "bottom"`)
		}
		p.EmailPositionField = strp(value)
	} else {
		target := prefTarget(&p, name)
		if target == nil {
			return nil, live.Event{}, trerr.InvalidField("name", fmt.Sprintf("unknown preference %q", name))
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, live.Event{}, trerr.InvalidField("value", "must be true or false")
		}
		*target = boolp(b)
	}

	s.prefs[boardID] = &p
	s.record("updateBoardPrefs", boardID, "", name)
	return copyOf(&p), s.event("updateBoardPrefs", contract.KindBoard, boardID), nil
}

func prefTarget(p *wire.BoardPersonalPreferences, name string) **bool {
	switch name {
	case "showListGuide":
		return &p.ShowListGuideField
	case "showSidebar":
		return &p.ShowSidebarField
	case "showSidebarActivity":
		return &p.ShowSidebarActivityField
	case "showSidebarBoardActions":
		return &p.ShowSidebarBoardActionsField
	case "showSidebarMembers":
		return &p.ShowSidebarMembersField
	}
	return nil
}

// UpdateCard applies the card params in form. ref is an id or short link.
func (s *Store) UpdateCard(ref string, form url.Values) (*wire.Card, live.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.card(ref)
	if err != nil {
		return nil, live.Event{}, err
	}
	c := *cur

	if v, ok := param(form, "name"); ok {
		if err := validate.NonEmptyString("name", &v); err != nil {
			return nil, live.Event{}, err
		}
		c.NameField = strp(v)
		c.URLField = strp(s.cardURL(c.ShortLink, v))
	}
	if v, ok := param(form, "desc"); ok {
		c.DescField = strp(v)
	}
	if err := setBool(form, "closed", &c.ClosedField); err != nil {
		return nil, live.Event{}, err
	}
	if v, ok := param(form, "due"); ok {
		if v == "" || v == "null" {
			c.DueField = nil
		} else {
			due, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, live.Event{}, trerr.InvalidField("due", "must be an RFC 3339 time")
			}
			due = due.UTC()
			c.DueField = &due
		}
	}
	if v, ok := param(form, "pos"); ok {
		pos, err := parsePos(v)
		if err != nil {
			return nil, live.Event{}, err
		}
		c.PosField = &pos
	}
	if v, ok := param(form, "idList"); ok {
		l, found := s.lists[v]
		if !found {
			return nil, live.Event{}, trerr.InvalidField("idList", fmt.Sprintf("unknown list %q", v))
		}
		c.ListIDField = strp(l.ID)
		c.BoardIDField = strp(l.BoardID)
	}

	s.cards[c.IDField] = &c
	s.record("updateCard", deref(c.BoardIDField), c.IDField, "")
	ev := s.event("updateCard", contract.KindCard, c.IDField, c.ShortLink)
	return copyOf(&c), ev, nil
}

// CreateCard adds a card to the list named by idList.
func (s *Store) CreateCard(form url.Values) (*wire.Card, live.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listID, _ := param(form, "idList")
	l, found := s.lists[listID]
	if !found {
		return nil, live.Event{}, trerr.InvalidField("idList", fmt.Sprintf("unknown list %q", listID))
	}
	name, _ := param(form, "name")
	if err := validate.NonEmptyString("name", &name); err != nil {
		return nil, live.Event{}, err
	}
	desc, _ := param(form, "desc")
	pos := s.bottomOf(l.ID)
	if v, ok := param(form, "pos"); ok {
		p, err := parsePos(v)
		if err != nil {
			return nil, live.Event{}, err
		}
		pos = p
	}

	short := id.ShortLink()
	for s.shortLinks[short] != "" {
		short = id.ShortLink()
	}
	s.nextShortID[l.BoardID]++
	c := &wire.Card{
		IDField:       id.Generate(),
		NameField:     strp(name),
		DescField:     strp(desc),
		ClosedField:   boolp(false),
		ListIDField:   strp(l.ID),
		BoardIDField:  strp(l.BoardID),
		PosField:      &pos,
		ShortLink:     short,
		IDShort:       s.nextShortID[l.BoardID],
		ShortURLField: strp(s.siteURL + "/c/" + short),
		URLField:      strp(s.cardURL(short, name)),
	}
	s.cards[c.IDField] = c
	s.shortLinks[short] = c.IDField
	s.record("createCard", l.BoardID, c.IDField, "")
	return copyOf(c), s.event("createCard", contract.KindCard, c.IDField, short), nil
}

// UpdateMember applies the member params in form.
func (s *Store) UpdateMember(ref string, form url.Values) (*wire.Member, live.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.member(ref)
	if err != nil {
		return nil, live.Event{}, err
	}
	m := *cur

	if v, ok := param(form, "fullName"); ok {
		v = strings.TrimSpace(v)
		if err := validate.NonEmptyString("fullName", &v); err != nil {
			return nil, live.Event{}, err
		}
		m.FullNameField = strp(v)
	}
	if v, ok := param(form, "initials"); ok {
		if err := validate.StringLength(1, 4)("initials", &v); err != nil {
			return nil, live.Event{}, err
		}
		m.InitialsField = strp(v)
	}
	if v, ok := param(form, "bio"); ok {
		m.BioField = strp(v)
	}

	s.members[m.IDField] = &m
	s.record("updateMember", "", "", "")
	ev := s.event("updateMember", contract.KindMember, m.IDField, deref(m.UsernameField))
	if m.IDField == s.actor {
		ev.Aliases = append(ev.Aliases, Me)
	}
	return copyOf(&m), ev, nil
}

// UpdateOrganization applies the organization params in form.
func (s *Store) UpdateOrganization(ref string, form url.Values) (*wire.Organization, live.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.org(ref)
	if err != nil {
		return nil, live.Event{}, err
	}
	o := *cur

	if v, ok := param(form, "displayName"); ok {
		if err := validate.NonEmptyString("displayName", &v); err != nil {
			return nil, live.Event{}, err
		}
		o.DisplayNameField = strp(v)
	}
	if v, ok := param(form, "desc"); ok {
		o.DescField = strp(v)
	}
	if v, ok := param(form, "website"); ok {
		if err := validate.URL("website", &v); err != nil {
			return nil, live.Event{}, err
		}
		o.WebsiteField = optStr(v)
	}

	s.orgs[o.IDField] = &o
	s.record("updateOrganization", "", "", "")
	ev := s.event("updateOrganization", contract.KindOrganization, o.IDField, deref(o.NameField))
	return copyOf(&o), ev, nil
}

// UpdateMembership changes a membership's type.
func (s *Store) UpdateMembership(orgRef, membershipID string, form url.Values) (*wire.OrganizationMembership, live.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.membership(orgRef, membershipID)
	if err != nil {
		return nil, live.Event{}, err
	}
	m := *cur

	if v, ok := param(form, "type"); ok {
		t := contract.ParseOrganizationMembershipType(v)
		if err := validate.Enumeration("type", t); err != nil {
			return nil, live.Event{}, err
		}
		m.MemberTypeField = t.Wire()
	}

	o, _ := s.org(orgRef)
	s.memberships[o.IDField][m.IDField] = &m
	s.record("updateMembership", "", "", "")
	return copyOf(&m), s.event("updateMembership", contract.KindOrganizationMembership, m.IDField), nil
}

// --- Lookups, called with s.mu held ---

func (s *Store) card(ref string) (*wire.Card, error) {
	if c, ok := s.cards[ref]; ok {
		return c, nil
	}
	if cid, ok := s.shortLinks[ref]; ok {
		return s.cards[cid], nil
	}
	return nil, trerr.EntityNotFound("card", ref)
}

func (s *Store) member(ref string) (*wire.Member, error) {
	if ref == Me && s.actor != "" {
		ref = s.actor
	}
	if m, ok := s.members[ref]; ok {
		return m, nil
	}
	if mid, ok := s.usernames[ref]; ok {
		return s.members[mid], nil
	}
	return nil, trerr.EntityNotFound("member", ref)
}

func (s *Store) org(ref string) (*wire.Organization, error) {
	if o, ok := s.orgs[ref]; ok {
		return o, nil
	}
	if oid, ok := s.orgNames[ref]; ok {
		return s.orgs[oid], nil
	}
	return nil, trerr.EntityNotFound("organization", ref)
}

func (s *Store) membership(orgRef, membershipID string) (*wire.OrganizationMembership, error) {
	o, err := s.org(orgRef)
	if err != nil {
		return nil, err
	}
	m, ok := s.memberships[o.IDField][membershipID]
	if !ok {
		return nil, trerr.EntityNotFound("membership", membershipID)
	}
	return m, nil
}

func (s *Store) boardRef(boardID string) *wire.EntityRef {
	if boardID == "" {
		return nil
	}
	ref := &wire.EntityRef{ID: boardID}
	if b, ok := s.boards[boardID]; ok {
		ref.Name = deref(b.NameField)
	}
	return ref
}

func (s *Store) cardRef(cardID string) *wire.EntityRef {
	if cardID == "" {
		return nil
	}
	ref := &wire.EntityRef{ID: cardID}
	if c, ok := s.cards[cardID]; ok {
		ref.Name = deref(c.NameField)
	}
	return ref
}

// bottomOf returns a position below every card in the list.
func (s *Store) bottomOf(listID string) float64 {
	var positions []float64
	for _, c := range s.cards {
		if deref(c.ListIDField) == listID && c.PosField != nil {
			positions = append(positions, *c.PosField)
		}
	}
	if len(positions) == 0 {
		return 16384
	}
	return slices.Max(positions) + 16384
}

// record appends an action for a mutation.
func (s *Store) record(actionType, boardID, cardID, text string) {
	date := s.clock().UTC()
	a := &wire.Action{
		IDField:              id.Generate(),
		TypeField:            strp(actionType),
		DateField:            &date,
		MemberCreatorIDField: optStr(s.actor),
		Data: wire.ActionData{
			Text:  optStr(text),
			Board: s.boardRef(boardID),
			Card:  s.cardRef(cardID),
		},
	}
	s.actions[a.IDField] = a
}

func (s *Store) event(action string, kind contract.Kind, entityID string, aliases ...string) live.Event {
	return live.Event{
		Action:   action,
		Kind:     kind,
		EntityID: entityID,
		Aliases:  aliases,
		At:       s.clock().UTC(),
	}
}

func (s *Store) boardURL(boardID, name string) string {
	return s.siteURL + "/b/" + boardID + "/" + util.Slug(name, 0)
}

func (s *Store) cardURL(shortLink, name string) string {
	return s.siteURL + "/c/" + shortLink + "/" + util.Slug(name, 0)
}

// --- Param helpers ---

func param(form url.Values, name string) (string, bool) {
	vals, ok := form[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func setBool(form url.Values, name string, dst **bool) error {
	v, ok := param(form, name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return trerr.InvalidField(name, "must be true or false")
	}
	*dst = boolp(b)
	return nil
}

func parsePos(v string) (float64, error) {
	pos, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, trerr.InvalidField("pos", "must be a number")
	}
	if err := validate.Position("pos", &pos); err != nil {
		return 0, err
	}
	return pos, nil
}

func copyOf[T any](v *T) *T {
	cp := *v
	return &cp
}

func strp(s string) *string     { return &s }
func boolp(b bool) *bool        { return &b }
func floatp(f float64) *float64 { return &f }

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orDefaultPos(p float64) float64 {
	if p <= 0 {
		return 16384
	}
	return p
}
