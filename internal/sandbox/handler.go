package sandbox

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/live"
)

// Handler serves the REST API subset the client speaks.
type Handler struct {
	store *Store
	hub   *Hub
	log   zerolog.Logger
}

func NewHandler(store *Store, hub *Hub, log zerolog.Logger) *Handler {
	return &Handler{store: store, hub: hub, log: log}
}

// Routes mounts the API. The server wraps every route, the live socket
// included, in Auth.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/boards/{id}", h.GetBoard)
	r.Put("/boards/{id}", h.UpdateBoard)
	r.Get("/boards/{id}/myPrefs", h.GetPreferences)
	r.Post("/boards/{id}/myPrefs", h.SetPreference)

	r.Post("/cards", h.CreateCard)
	r.Get("/cards/{id}", h.GetCard)
	r.Put("/cards/{id}", h.UpdateCard)

	r.Get("/members/{id}", h.GetMember)
	r.Put("/members/{id}", h.UpdateMember)

	r.Get("/actions/{id}", h.GetAction)

	r.Get("/organizations/{id}", h.GetOrganization)
	r.Put("/organizations/{id}", h.UpdateOrganization)
	r.Get("/organizations/{id}/memberships/{mid}", h.GetMembership)
	r.Put("/organizations/{id}/memberships/{mid}", h.UpdateMembership)

	r.Get("/live", h.hub.ServeWS)
}

// --- Boards ---

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	b, err := h.store.Board(chi.URLParam(r, "id"))
	respond(w, b, err)
}

func (h *Handler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(form url.Values) (any, live.Event, error) {
		return h.store.UpdateBoard(chi.URLParam(r, "id"), form)
	})
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Preferences(chi.URLParam(r, "id"))
	respond(w, p, err)
}

func (h *Handler) SetPreference(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(form url.Values) (any, live.Event, error) {
		return h.store.SetPreference(chi.URLParam(r, "id"), form)
	})
}

// --- Cards ---

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Card(chi.URLParam(r, "id"))
	respond(w, c, err)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(form url.Values) (any, live.Event, error) {
		return h.store.UpdateCard(chi.URLParam(r, "id"), form)
	})
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(form url.Values) (any, live.Event, error) {
		return h.store.CreateCard(form)
	})
}

// --- Members ---

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.Member(chi.URLParam(r, "id"))
	respond(w, m, err)
}

func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(form url.Values) (any, live.Event, error) {
		return h.store.UpdateMember(chi.URLParam(r, "id"), form)
	})
}

// --- Actions ---

func (h *Handler) GetAction(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.Action(chi.URLParam(r, "id"))
	respond(w, a, err)
}

// --- Organizations ---

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.Organization(chi.URLParam(r, "id"))
	respond(w, o, err)
}

func (h *Handler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(form url.Values) (any, live.Event, error) {
		return h.store.UpdateOrganization(chi.URLParam(r, "id"), form)
	})
}

func (h *Handler) GetMembership(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.Membership(chi.URLParam(r, "id"), chi.URLParam(r, "mid"))
	respond(w, m, err)
}

func (h *Handler) UpdateMembership(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(form url.Values) (any, live.Event, error) {
		return h.store.UpdateMembership(chi.URLParam(r, "id"), chi.URLParam(r, "mid"), form)
	})
}

// --- Helpers ---

// mutate parses the request params, applies fn, publishes the resulting
// change, and writes the updated record. Params may arrive in the query
// string or a form body.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(url.Values) (any, live.Event, error)) {
	if err := r.ParseForm(); err != nil {
		Error(w, trerr.InvalidField("", "malformed parameters"))
		return
	}
	record, ev, err := fn(r.Form)
	if err != nil {
		Error(w, err)
		return
	}
	ev = h.hub.Publish(ev)
	h.log.Info().Str("event", ev.ID).Str("action", ev.Action).Str("entity", ev.EntityID).Msg("changed")
	JSON(w, http.StatusOK, record)
}

func respond(w http.ResponseWriter, record any, err error) {
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, record)
}
