package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sportify-app/apiserver/internal/services"
)

type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

func EventRouter(r chi.Router, events *services.EventService) {
	handler := NewEventHandler(events)

	r.Get("/", handler.ListEvents)
	r.Post("/", handler.CreateEvent)
}

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	OrganizerID *int   `json:"organizer_id"`
	AdminEvent  *bool  `json:"is_admin_event"`
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		respondError(w, r, err, "list events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, r, err, "create event")
		return
	}

	event, err := h.events.Create(r.Context(), services.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		OrganizerID: req.OrganizerID,
		AdminEvent:  req.AdminEvent,
	})
	if err != nil {
		respondError(w, r, err, "create event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}
