package game

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"checkers/internal/bootstrap"
	"checkers/internal/domain/game"
	errors2 "checkers/internal/errors"
	"checkers/internal/httpresponse"
	gameuc "checkers/internal/usecase/game"
	"checkers/internal/utils"
)

type GameHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
	hub    *Hub
}

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	return &GameHandler{
		cfg:    cfg,
		log:    log,
		gameUC: gameUC,
		hub:    NewHub(),
	}
}

func (g *GameHandler) Routes(r chi.Router) {
	r.Post("/games", g.HandleNewGame)
	r.Post("/games/join", g.HandleJoinGame)
	r.Get("/games/{code}", g.HandleGetGame)
	r.Get("/connect/{token}", g.HandleConnect)
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req game.CreateGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("JSON decode error: ", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err)
		return
	}

	resp, err := g.gameUC.CreateGame(r.Context(), req)
	if err != nil {
		g.writeError(w, err)
		return
	}

	g.log.Infof("new game created with code %s", resp.Code)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req game.JoinGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("JSON decode error: ", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err)
		return
	}
	if req.Code == "" {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, errors2.ErrGameNotFound)
		return
	}

	resp, err := g.gameUC.JoinGame(r.Context(), req)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	info, err := g.gameUC.GetGameInfo(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, info)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errors2.ErrBadPlayerName), errors.Is(err, errors2.ErrBadBoardSize):
		return http.StatusBadRequest
	case errors.Is(err, errors2.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, errors2.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors2.ErrGameFull):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		g.log.Error(err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteErrorWithStatus(w, status, err)
}
