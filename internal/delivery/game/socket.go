package game

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"checkers/internal/domain/game"
	errors2 "checkers/internal/errors"
	"checkers/internal/usecase/move"
)

const replacedInfo = "You connected from another place, this connection is closed"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleConnect upgrades the connection of a seated player and serves the
// action loop until the socket closes or the player leaves.
func (g *GameHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := g.gameUC.Authorize(ctx, chi.URLParam(r, "token"))
	if err != nil {
		g.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("upgrade error: ", err)
		return
	}

	c := newClient(conn)
	if previous := g.hub.Register(session.GameKey, session.PlayerID, c); previous != nil {
		g.send(previous, game.ActionInfo, game.InfoPayload{Info: replacedInfo})
		_ = previous.close()
	}
	defer func() {
		g.hub.Unregister(session.GameKey, session.PlayerID, c)
		_ = c.close()
	}()

	g.log.Infof("player %d of game %s connected", session.PlayerID, session.GameKey)
	g.greet(ctx, session, c)

	for {
		var msg game.Message
		if err = conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.log.Info("read error: ", err)
			}
			// a replaced connection goes quietly
			if g.hub.get(session.GameKey, session.PlayerID) == c {
				g.notifyOpponent(session, game.ActionOtherClosed, nil)
			}
			return
		}
		if done := g.dispatch(ctx, session, c, msg); done {
			return
		}
	}
}

// greet sends the newcomer the board and the chat so far, and tells both
// players they are together.
func (g *GameHandler) greet(ctx context.Context, session game.Session, c *client) {
	g.sendState(ctx, session, c)

	history, err := g.gameUC.ChatHistory(ctx, session)
	if err != nil {
		g.log.Errorf("chat history of game %s: %v", session.GameKey, err)
	}
	for _, msg := range history {
		g.send(c, game.ActionChat, msg)
	}

	if g.hub.Connected(session.GameKey, session.PlayerID.Opponent()) {
		g.send(c, game.ActionOtherConnect, nil)
		g.notifyOpponent(session, game.ActionOtherConnect, nil)
	}
}

// dispatch handles one message of the player. It reports whether the
// connection should be closed.
func (g *GameHandler) dispatch(ctx context.Context, session game.Session, c *client, msg game.Message) bool {
	switch msg.Code {
	case game.ActionPlay:
		g.handlePlay(ctx, session, c, msg)
	case game.ActionChat:
		g.handleChat(ctx, session, c, msg)
	case game.ActionState:
		g.sendState(ctx, session, c)
	case game.ActionRestart:
		g.handleRestart(ctx, session, c)
	case game.ActionLeave:
		if _, err := g.gameUC.Leave(ctx, session); err != nil {
			g.sendError(c, err)
			return false
		}
		g.send(c, game.ActionClosed, nil)
		g.notifyOpponent(session, game.ActionOtherClosed, nil)
		return true
	default:
		g.sendError(c, errors2.ErrUnknownAction)
	}
	return false
}

func (g *GameHandler) handlePlay(ctx context.Context, session game.Session, c *client, msg game.Message) {
	var payload game.PlayPayload
	if err := msg.Decode(&payload); err != nil {
		g.sendError(c, err)
		return
	}
	plays, err := payload.Decode()
	if err != nil {
		g.sendError(c, err)
		return
	}

	result, err := g.gameUC.ApplyPlays(ctx, session, plays)
	if err != nil {
		g.sendError(c, err)
		// the client moved its pieces already, put them back
		g.sendState(ctx, session, c)
		return
	}

	relay, err := game.NewPlayPayload(result.Plays)
	if err != nil {
		g.log.Error(err)
		return
	}
	g.notifyOpponent(session, game.ActionPlay, relay)

	if result.Over {
		over := game.OverPayload{WinnerID: result.Winner}
		g.send(c, game.ActionOver, over)
		g.notifyOpponent(session, game.ActionOver, over)
		g.log.Infof("game %s: %s", session.GameKey, move.GameOver(result.Winner, session.PlayerID))
	}
}

func (g *GameHandler) handleChat(ctx context.Context, session game.Session, c *client, msg game.Message) {
	var in game.ChatMessage
	if err := msg.Decode(&in); err != nil {
		g.sendError(c, err)
		return
	}
	out, err := g.gameUC.Chat(ctx, session, in.Chat)
	if err != nil {
		g.sendError(c, err)
		return
	}
	g.notifyOpponent(session, game.ActionChat, out)
}

func (g *GameHandler) handleRestart(ctx context.Context, session game.Session, c *client) {
	state, err := g.gameUC.Restart(ctx, session)
	if err != nil {
		g.sendError(c, err)
		return
	}
	g.send(c, game.ActionState, state)

	opponent := session.PlayerID.Opponent()
	if peer := g.hub.get(session.GameKey, opponent); peer != nil {
		state.Self = opponent
		g.send(peer, game.ActionState, state)
	}
}

func (g *GameHandler) sendState(ctx context.Context, session game.Session, c *client) {
	state, err := g.gameUC.GetState(ctx, session)
	if err != nil {
		g.sendError(c, err)
		return
	}
	g.send(c, game.ActionState, state)
}

func (g *GameHandler) sendError(c *client, err error) {
	g.send(c, game.ActionError, game.ErrorPayload{Error: err.Error()})
}

func (g *GameHandler) notifyOpponent(session game.Session, code int, payload any) {
	if peer := g.hub.get(session.GameKey, session.PlayerID.Opponent()); peer != nil {
		g.send(peer, code, payload)
	}
}

func (g *GameHandler) send(c *client, code int, payload any) {
	msg, err := game.NewMessage(code, payload)
	if err != nil {
		g.log.Error(err)
		return
	}
	if err = c.send(msg); err != nil {
		g.log.Info("write error: ", err)
	}
}
