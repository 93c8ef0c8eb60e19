package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lgbarn/chess-platform-go/internal/engine"
	"github.com/lgbarn/chess-platform-go/internal/errors"
	"github.com/lgbarn/chess-platform-go/internal/output"
	"github.com/lgbarn/chess-platform-go/internal/session"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type gamesResponse struct {
	Count int                   `json:"count"`
	Games []session.GameSummary `json:"games"`
}

type positionRequest struct {
	FEN string `json:"fen"`
}

type legalMove struct {
	SAN string `json:"san"`
	UCI string `json:"uci"`
}

type positionResponse struct {
	FEN    string      `json:"fen"`
	Turn   string      `json:"turn"`
	Check  bool        `json:"check"`
	Status string      `json:"status"`
	Result string      `json:"result"`
	Winner string      `json:"winner,omitempty"`
	Moves  []legalMove `json:"moves"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: s.now().UTC()})
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	games := s.hub.ActiveGames()
	if games == nil {
		games = []session.GameSummary{}
	}
	writeJSON(w, http.StatusOK, gamesResponse{Count: len(games), Games: games})
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	detail, err := s.hub.Game(r.PathValue("id"))
	if errors.Is(err, errors.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("game lookup failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if detail.Moves == nil {
		detail.Moves = []string{}
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) getGamePGN(w http.ResponseWriter, r *http.Request) {
	rec, err := s.hub.Record(r.PathValue("id"))
	if errors.Is(err, errors.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("game lookup failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/x-chess-pgn")
	w.WriteHeader(http.StatusOK)
	if err := output.WritePGN(w, rec, output.DefaultLineLength); err != nil {
		s.log.Debug().Err(err).Msg("pgn write failed")
	}
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Stats())
}

// position reports the legal moves and status of a FEN position.
func (s *Server) position(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	pos, err := engine.LoadPosition(req.FEN)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	legal := engine.LegalMoves(pos)
	moves := make([]legalMove, 0, len(legal))
	for _, m := range legal {
		moves = append(moves, legalMove{SAN: engine.MoveToSANFrom(pos, m, legal), UCI: m.String()})
	}
	status := engine.Evaluate(pos)
	resp := positionResponse{
		FEN:    engine.ExportPosition(pos),
		Turn:   session.ColourName(pos.ToMove),
		Check:  engine.IsInCheck(pos, pos.ToMove),
		Status: status.Reason.String(),
		Result: status.Result(),
		Moves:  moves,
	}
	if status.IsOver() && !status.IsDraw() {
		resp.Winner = session.ColourName(status.Winner)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
