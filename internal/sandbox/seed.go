package sandbox

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amterp/trellis/internal/version"
)

// Seed is the initial state of a sandbox, read from YAML.
type Seed struct {
	TrellisSchema string             `yaml:"trellis_schema"`
	Boards        []SeedBoard        `yaml:"boards"`
	Lists         []SeedList         `yaml:"lists"`
	Cards         []SeedCard         `yaml:"cards"`
	Members       []SeedMember       `yaml:"members"`
	Actions       []SeedAction       `yaml:"actions"`
	Organizations []SeedOrganization `yaml:"organizations"`
}

type SeedBoard struct {
	ID             string    `yaml:"id"`
	Name           string    `yaml:"name"`
	Desc           string    `yaml:"desc"`
	Closed         bool      `yaml:"closed"`
	Pinned         bool      `yaml:"pinned"`
	IDOrganization string    `yaml:"idOrganization"`
	Prefs          SeedPrefs `yaml:"prefs"`
}

type SeedPrefs struct {
	ShowListGuide           bool   `yaml:"showListGuide"`
	ShowSidebar             bool   `yaml:"showSidebar"`
	ShowSidebarActivity     bool   `yaml:"showSidebarActivity"`
	ShowSidebarBoardActions bool   `yaml:"showSidebarBoardActions"`
	ShowSidebarMembers      bool   `yaml:"showSidebarMembers"`
	EmailPosition           string `yaml:"emailPosition"`
}

type SeedList struct {
	ID      string `yaml:"id"`
	IDBoard string `yaml:"idBoard"`
	Name    string `yaml:"name"`
}

type SeedCard struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Desc      string     `yaml:"desc"`
	Closed    bool       `yaml:"closed"`
	IDList    string     `yaml:"idList"`
	Pos       float64    `yaml:"pos"`
	Due       *time.Time `yaml:"due"`
	ShortLink string     `yaml:"shortLink"`
}

type SeedMember struct {
	ID         string `yaml:"id"`
	Username   string `yaml:"username"`
	FullName   string `yaml:"fullName"`
	Initials   string `yaml:"initials"`
	Bio        string `yaml:"bio"`
	AvatarHash string `yaml:"avatarHash"`
	Confirmed  bool   `yaml:"confirmed"`
	MemberType string `yaml:"memberType"`
}

type SeedAction struct {
	ID              string     `yaml:"id"`
	Type            string     `yaml:"type"`
	Date            *time.Time `yaml:"date"`
	IDMemberCreator string     `yaml:"idMemberCreator"`
	Text            string     `yaml:"text"`
	IDBoard         string     `yaml:"idBoard"`
	IDCard          string     `yaml:"idCard"`
}

type SeedOrganization struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	DisplayName string           `yaml:"displayName"`
	Desc        string           `yaml:"desc"`
	Website     string           `yaml:"website"`
	Memberships []SeedMembership `yaml:"memberships"`
}

type SeedMembership struct {
	ID          string `yaml:"id"`
	IDMember    string `yaml:"idMember"`
	MemberType  string `yaml:"memberType"`
	Unconfirmed bool   `yaml:"unconfirmed"`
	Deactivated bool   `yaml:"deactivated"`
}

// ParseSeed decodes seed YAML. source names the input in errors.
func ParseSeed(data []byte, source string) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed %s: %w", source, err)
	}

	if seed.TrellisSchema == "" {
		return nil, version.MissingSeedSchema(source)
	}
	if seed.TrellisSchema != version.CurrentSeedSchema() {
		return nil, version.InvalidSeedSchema(source, seed.TrellisSchema)
	}

	if err := seed.validate(); err != nil {
		return nil, fmt.Errorf("seed %s: %w", source, err)
	}
	return &seed, nil
}

//go:embed default_seed.yaml
var defaultSeed []byte

// DefaultSeed returns the built-in demo data used when no seed file is given.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed, "default_seed.yaml")
}

// LoadSeedFile reads and decodes a seed file.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(data, path)
}

// validate checks that every entity has an id and every reference resolves.
func (s *Seed) validate() error {
	boards := make(map[string]bool)
	for _, b := range s.Boards {
		if b.ID == "" {
			return fmt.Errorf("board %q has no id", b.Name)
		}
		boards[b.ID] = true
	}
	lists := make(map[string]bool)
	for _, l := range s.Lists {
		if l.ID == "" || !boards[l.IDBoard] {
			return fmt.Errorf("list %q needs an id and a known idBoard", l.Name)
		}
		lists[l.ID] = true
	}
	for _, c := range s.Cards {
		if c.ID == "" || !lists[c.IDList] {
			return fmt.Errorf("card %q needs an id and a known idList", c.Name)
		}
	}
	for _, m := range s.Members {
		if m.ID == "" || m.Username == "" {
			return fmt.Errorf("member %q needs an id and a username", m.FullName)
		}
	}
	for _, a := range s.Actions {
		if a.ID == "" {
			return fmt.Errorf("action of type %q has no id", a.Type)
		}
	}
	for _, o := range s.Organizations {
		if o.ID == "" {
			return fmt.Errorf("organization %q has no id", o.Name)
		}
		for _, m := range o.Memberships {
			if m.ID == "" {
				return fmt.Errorf("membership in %q has no id", o.Name)
			}
		}
	}
	return nil
}
