package wire

// BoardPersonalPreferences is the JSON form of a board's myPrefs resource.
type BoardPersonalPreferences struct {
	ShowListGuideField           *bool   `json:"showListGuide,omitempty"`
	ShowSidebarField             *bool   `json:"showSidebar,omitempty"`
	ShowSidebarActivityField     *bool   `json:"showSidebarActivity,omitempty"`
	ShowSidebarBoardActionsField *bool   `json:"showSidebarBoardActions,omitempty"`
	ShowSidebarMembersField      *bool   `json:"showSidebarMembers,omitempty"`
	EmailPositionField           *string `json:"emailPosition,omitempty"`
}

func (p *BoardPersonalPreferences) ShowListGuide() *bool     { return p.ShowListGuideField }
func (p *BoardPersonalPreferences) SetShowListGuide(v *bool) { p.ShowListGuideField = v }
func (p *BoardPersonalPreferences) ShowSidebar() *bool       { return p.ShowSidebarField }
func (p *BoardPersonalPreferences) SetShowSidebar(v *bool)   { p.ShowSidebarField = v }

func (p *BoardPersonalPreferences) ShowSidebarActivity() *bool {
	return p.ShowSidebarActivityField
}

func (p *BoardPersonalPreferences) SetShowSidebarActivity(v *bool) {
	p.ShowSidebarActivityField = v
}

func (p *BoardPersonalPreferences) ShowSidebarBoardActions() *bool {
	return p.ShowSidebarBoardActionsField
}

func (p *BoardPersonalPreferences) SetShowSidebarBoardActions(v *bool) {
	p.ShowSidebarBoardActionsField = v
}

func (p *BoardPersonalPreferences) ShowSidebarMembers() *bool {
	return p.ShowSidebarMembersField
}

func (p *BoardPersonalPreferences) SetShowSidebarMembers(v *bool) {
	p.ShowSidebarMembersField = v
}

func (p *BoardPersonalPreferences) EmailPosition() *string     { return p.EmailPositionField }
func (p *BoardPersonalPreferences) SetEmailPosition(v *string) { p.EmailPositionField = v }
