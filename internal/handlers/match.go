package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sportify-app/apiserver/internal/services"
	"github.com/sportify-app/apiserver/types"
)

type MatchHandler struct {
	matches *services.MatchService
}

func NewMatchHandler(matches *services.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// MatchRouter registers the match routes on r.
func MatchRouter(r chi.Router, matches *services.MatchService) {
	handler := NewMatchHandler(matches)

	r.Post("/create", handler.CreateMatch)
	r.Post("/join", handler.JoinMatch)
	r.Get("/list", handler.ListMatches)
	r.Route("/{matchID}", func(r chi.Router) {
		r.Get("/", handler.GetMatch)
		r.Get("/participants", handler.ListParticipants)
	})
}

type CreateMatchRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Location        string `json:"location"`
	Level           string `json:"level"`
	Sport           string `json:"sport"`
	MaxParticipants int    `json:"max_participants"`
	OrganizerID     int    `json:"organizer_id"`
}

type CreateMatchResponse struct {
	ID    int         `json:"id"`
	Match types.Match `json:"match"`
}

type JoinMatchRequest struct {
	MatchID int `json:"match_id"`
	UserID  int `json:"user_id"`
}

type JoinMatchResponse struct {
	Message     string            `json:"message"`
	Participant types.Participant `json:"participant"`
	Count       int               `json:"count"`
}

func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, r, err, "create match")
		return
	}

	match, err := h.matches.Create(r.Context(), services.CreateMatchInput{
		Title:           req.Title,
		Description:     req.Description,
		Date:            date,
		Location:        req.Location,
		Level:           req.Level,
		Sport:           req.Sport,
		MaxParticipants: req.MaxParticipants,
		OrganizerID:     req.OrganizerID,
	})
	if err != nil {
		respondError(w, r, err, "create match")
		return
	}
	writeJSON(w, http.StatusCreated, CreateMatchResponse{ID: match.ID, Match: match})
}

func (h *MatchHandler) JoinMatch(w http.ResponseWriter, r *http.Request) {
	var req JoinMatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.matches.Join(r.Context(), req.MatchID, req.UserID)
	if err != nil {
		respondError(w, r, err, "join match")
		return
	}
	writeJSON(w, http.StatusCreated, JoinMatchResponse{
		Message:     "joined match",
		Participant: res.Participant,
		Count:       res.Count,
	})
}

func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matches.List(r.Context())
	if err != nil {
		respondError(w, r, err, "list matches")
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "matchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := h.matches.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "get match")
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (h *MatchHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "matchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	participants, err := h.matches.Participants(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "list participants")
		return
	}
	writeJSON(w, http.StatusOK, participants)
}
