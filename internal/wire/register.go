// Package wire is the encoding/json backend for the capability contracts.
package wire

import (
	"github.com/amterp/trellis/internal/contract"
	"github.com/amterp/trellis/internal/payload"
)

// Compile-time contract checks.
var (
	_ contract.Action                   = (*Action)(nil)
	_ contract.Board                    = (*Board)(nil)
	_ contract.BoardPersonalPreferences = (*BoardPersonalPreferences)(nil)
	_ contract.Card                     = (*Card)(nil)
	_ contract.Member                   = (*Member)(nil)
	_ contract.Organization             = (*Organization)(nil)
	_ contract.OrganizationMembership   = (*OrganizationMembership)(nil)
)

// Register binds a factory for every contract kind.
func Register(r *payload.Registry) {
	r.Register(contract.KindAction, func() any { return &Action{} })
	r.Register(contract.KindBoard, func() any { return &Board{} })
	r.Register(contract.KindBoardPersonalPreferences, func() any { return &BoardPersonalPreferences{} })
	r.Register(contract.KindCard, func() any { return &Card{} })
	r.Register(contract.KindMember, func() any { return &Member{} })
	r.Register(contract.KindOrganization, func() any { return &Organization{} })
	r.Register(contract.KindOrganizationMembership, func() any { return &OrganizationMembership{} })
}

// NewRegistry returns a registry with every contract bound to this backend.
func NewRegistry() *payload.Registry {
	r := payload.NewRegistry()
	Register(r)
	return r
}
