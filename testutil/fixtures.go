package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/trellis/internal/logger"
	"github.com/amterp/trellis/internal/session"
	"github.com/amterp/trellis/internal/transport"
)

// Sample service payloads, shaped the way the service returns them.
const (
	PrefsJSON = `{"showListGuide":false,"showSidebar":true,"showSidebarActivity":true,` +
		`"showSidebarBoardActions":true,"showSidebarMembers":true,"emailPosition":"bottom"}`

	BoardJSON = `{"id":"b1","name":"Roadmap","desc":"Q3 plans","closed":false,"pinned":true,` +
		`"url":"https://trello.test/b/b1/roadmap","idOrganization":"o1"}`

	CardJSON = `{"id":"c1","name":"Write docs","desc":"","closed":false,"idList":"l1","idBoard":"b1",` +
		`"pos":16384,"due":"2026-03-01T12:00:00Z","url":"https://trello.test/c/abc/write-docs",` +
		`"shortUrl":"https://trello.test/c/abc","shortLink":"abc","idShort":7}`

	MemberJSON = `{"id":"m1","username":"ada","fullName":"Ada Lovelace","initials":"AL","bio":"",` +
		`"avatarHash":"f00","url":"https://trello.test/ada","confirmed":true,"memberType":"normal"}`

	ActionJSON = `{"id":"a1","type":"commentCard","date":"2026-02-01T09:30:00Z","idMemberCreator":"m1",` +
		`"data":{"text":"looks good","board":{"id":"b1","name":"Roadmap"},"card":{"id":"c1","name":"Write docs"}}}`

	OrganizationJSON = `{"id":"o1","name":"analytical","displayName":"Analytical Engines",` +
		`"desc":"","website":"https://example.com"}`

	MembershipJSON = `{"id":"om1","idMember":"m1","memberType":"normal","unconfirmed":false,"deactivated":false}`
)

// SeedYAML seeds a sandbox with one of everything above.
const SeedYAML = `trellis_schema: seed/1
boards:
  - id: b1
    name: Roadmap
    desc: Q3 plans
    pinned: true
    idOrganization: o1
    prefs:
      showSidebar: true
      showListGuide: false
      showSidebarActivity: true
      showSidebarBoardActions: true
      showSidebarMembers: true
      emailPosition: bottom
lists:
  - id: l1
    idBoard: b1
    name: Backlog
  - id: l2
    idBoard: b1
    name: Done
cards:
  - id: c1
    name: Write docs
    idList: l1
    pos: 16384
    shortLink: abc
    due: 2026-03-01T12:00:00Z
members:
  - id: m1
    username: ada
    fullName: Ada Lovelace
    initials: AL
    confirmed: true
    memberType: normal
actions:
  - id: a1
    type: commentCard
    idMemberCreator: m1
    text: looks good
    idBoard: b1
    idCard: c1
organizations:
  - id: o1
    name: analytical
    displayName: Analytical Engines
    website: https://example.com
    memberships:
      - id: om1
        idMember: m1
        memberType: normal
`

// NewSession returns a session wired to tr (nil for detached) and clock.
func NewSession(t *testing.T, tr transport.Transport, clock *Clock, opts ...func(*session.Options)) *session.Session {
	t.Helper()

	o := session.Options{
		Transport: tr,
		Logger:    logger.NewTestLogger(),
	}
	if clock != nil {
		o.Clock = clock.Now
	}
	for _, opt := range opts {
		opt(&o)
	}
	return session.New(o)
}

// TempConfigDir creates a temporary directory holding a trellis config path.
// Returns the config file path (not created) and a cleanup function.
func TempConfigDir(t *testing.T) (string, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "trellis-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return filepath.Join(dir, "trellis", "config.toml"), cleanup
}
