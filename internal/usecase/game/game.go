package game

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"checkers/internal/bootstrap"
	"checkers/internal/domain/board"
	"checkers/internal/domain/game"
	"checkers/internal/errors"
	"checkers/internal/statuses"
	"checkers/internal/usecase/move"
)

const maxChatLength = 255

type GameStore interface {
	GenerateGameKeys(ctx context.Context) (gameKey string, code string, err error)
	PutGame(ctx context.Context, gameData game.Game) error
	GetGameByKey(ctx context.Context, gameKey string) (game.Game, error)
	GetGameByCode(ctx context.Context, code string) (game.Game, error)
	UpdateGame(ctx context.Context, gameData game.Game) error
	SaveSnapshot(ctx context.Context, gameKey string, snapshot board.Snapshot) error
	LoadSnapshot(ctx context.Context, gameKey string) (board.Snapshot, error)
}

type SessionStore interface {
	StoreSession(ctx context.Context, session game.Session) error
	GetSession(ctx context.Context, token string) (game.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

type ChatStore interface {
	AppendMessage(ctx context.Context, gameKey string, msg game.ChatMessage) error
	History(ctx context.Context, gameKey string) ([]game.ChatMessage, error)
}

// TurnResult is an accepted turn: the plays to relay and where the game is now.
type TurnResult struct {
	Plays    []board.Play
	Snapshot board.Snapshot
	Winner   board.Player
	Over     bool
}

type GameUseCase struct {
	cfg       bootstrap.Config
	log       *zap.SugaredLogger
	games     GameStore
	sessions  SessionStore
	chat      ChatStore
	processor *move.Processor

	mu    sync.Mutex
	locks map[string]*gameLock
}

// gameLock is dropped from the map once nobody holds or waits for it.
type gameLock struct {
	mu   sync.Mutex
	refs int
}

func NewGameUseCase(cfg bootstrap.Config, log *zap.SugaredLogger, games GameStore, sessions SessionStore, chat ChatStore) *GameUseCase {
	return &GameUseCase{
		cfg:       cfg,
		log:       log,
		games:     games,
		sessions:  sessions,
		chat:      chat,
		processor: move.NewProcessor(log),
		locks:     make(map[string]*gameLock),
	}
}

// lock serializes everything that reads and writes the state of one game.
func (g *GameUseCase) lock(gameKey string) func() {
	g.mu.Lock()
	l, ok := g.locks[gameKey]
	if !ok {
		l = &gameLock{}
		g.locks[gameKey] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		g.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(g.locks, gameKey)
		}
		g.mu.Unlock()
	}
}

func (g *GameUseCase) CreateGame(ctx context.Context, req game.CreateGameRequest) (game.CreateGameResponse, error) {
	if req.Name == "" {
		return game.CreateGameResponse{}, errors.ErrBadPlayerName
	}
	size := req.BoardSize
	if size == 0 {
		size = g.cfg.BoardSize
	}
	if size < board.MinSize || size > board.MaxSize || size%2 != 0 {
		return game.CreateGameResponse{}, fmt.Errorf("%w: %d", errors.ErrBadBoardSize, size)
	}
	rules := g.cfg.DefaultRules()
	if req.Rules != nil {
		rules = *req.Rules
	}

	gameKey, code, err := g.games.GenerateGameKeys(ctx)
	if err != nil {
		return game.CreateGameResponse{}, fmt.Errorf("%w: %w", errors.ErrCreateGameFailed, err)
	}

	newGame := game.Game{
		GameKey:   gameKey,
		Code:      code,
		Creator:   req.Name,
		Status:    statuses.StatusWaitOpponent,
		BoardSize: size,
		Rules:     rules,
		CreatedAt: time.Now(),
	}
	if err = g.games.PutGame(ctx, newGame); err != nil {
		return game.CreateGameResponse{}, fmt.Errorf("%w: %w", errors.ErrCreateGameFailed, err)
	}
	if err = g.games.SaveSnapshot(ctx, gameKey, board.NewInitialSnapshot(size)); err != nil {
		return game.CreateGameResponse{}, fmt.Errorf("%w: %w", errors.ErrCreateGameFailed, err)
	}

	session, err := g.newSession(ctx, gameKey, board.Creator, req.Name)
	if err != nil {
		return game.CreateGameResponse{}, err
	}

	g.log.Infof("game %s created by %s", code, req.Name)
	return game.CreateGameResponse{
		GameKey:  gameKey,
		Code:     code,
		Token:    session.Token,
		PlayerID: board.Creator,
	}, nil
}

func (g *GameUseCase) JoinGame(ctx context.Context, req game.JoinGameRequest) (game.JoinGameResponse, error) {
	if req.Name == "" {
		return game.JoinGameResponse{}, errors.ErrBadPlayerName
	}
	found, err := g.games.GetGameByCode(ctx, req.Code)
	if err != nil {
		return game.JoinGameResponse{}, err
	}

	unlock := g.lock(found.GameKey)
	defer unlock()

	// re-read under the lock, somebody may have joined in between
	play, err := g.games.GetGameByKey(ctx, found.GameKey)
	if err != nil {
		return game.JoinGameResponse{}, err
	}
	if play.Joiner != "" || play.Status != statuses.StatusWaitOpponent {
		return game.JoinGameResponse{}, errors.ErrGameFull
	}

	now := time.Now()
	play.Joiner = req.Name
	play.Status = statuses.StatusInProgress
	play.StartedAt = &now
	if err = g.games.UpdateGame(ctx, play); err != nil {
		return game.JoinGameResponse{}, fmt.Errorf("%w: %w", errors.ErrJoinGameFailed, err)
	}

	session, err := g.newSession(ctx, play.GameKey, board.Joiner, req.Name)
	if err != nil {
		return game.JoinGameResponse{}, err
	}

	g.log.Infof("%s joined game %s", req.Name, play.Code)
	return game.JoinGameResponse{
		GameKey:  play.GameKey,
		Token:    session.Token,
		PlayerID: board.Joiner,
	}, nil
}

func (g *GameUseCase) newSession(ctx context.Context, gameKey string, player board.Player, name string) (game.Session, error) {
	session := game.Session{
		Token:    uuid.New().String(),
		GameKey:  gameKey,
		PlayerID: player,
		Name:     name,
	}
	if err := g.sessions.StoreSession(ctx, session); err != nil {
		return game.Session{}, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

// Authorize finds the seat the token was issued for.
func (g *GameUseCase) Authorize(ctx context.Context, token string) (game.Session, error) {
	if token == "" {
		return game.Session{}, errors.ErrSessionNotFound
	}
	return g.sessions.GetSession(ctx, token)
}

func (g *GameUseCase) GetGameInfo(ctx context.Context, code string) (game.GameInfo, error) {
	play, err := g.games.GetGameByCode(ctx, code)
	if err != nil {
		return game.GameInfo{}, err
	}
	return play.Info(), nil
}

// GetState returns the live board of the player's game.
func (g *GameUseCase) GetState(ctx context.Context, session game.Session) (game.State, error) {
	play, err := g.games.GetGameByKey(ctx, session.GameKey)
	if err != nil {
		return game.State{}, err
	}
	snapshot, err := g.games.LoadSnapshot(ctx, session.GameKey)
	if err != nil {
		return game.State{}, err
	}
	return game.State{
		Snapshot: snapshot,
		Creator:  play.Creator,
		Joiner:   play.Joiner,
		Status:   play.Status,
		Rules:    play.Rules,
		Self:     session.PlayerID,
	}, nil
}

// ApplyPlays checks a whole turn sent by a client against the rules and, when
// it is legal, stores the new board. Nothing is stored for an illegal turn.
func (g *GameUseCase) ApplyPlays(ctx context.Context, session game.Session, plays []board.Play) (TurnResult, error) {
	unlock := g.lock(session.GameKey)
	defer unlock()

	play, err := g.games.GetGameByKey(ctx, session.GameKey)
	if err != nil {
		return TurnResult{}, err
	}
	switch play.Status {
	case statuses.StatusWaitOpponent:
		return TurnResult{}, errors.ErrGameNotStarted
	case statuses.StatusInProgress:
	default:
		return TurnResult{}, errors.ErrGameOver
	}

	snapshot, err := g.games.LoadSnapshot(ctx, session.GameKey)
	if err != nil {
		return TurnResult{}, err
	}
	if snapshot.Turn != session.PlayerID {
		return TurnResult{}, errors.ErrNotInTurn
	}
	b, err := board.New(snapshot, session.PlayerID, play.Rules)
	if err != nil {
		return TurnResult{}, fmt.Errorf("%w: %w", errors.ErrInternal, err)
	}
	if _, err = g.processor.PlayTurn(b, plays); err != nil {
		g.log.Infof("game %s: rejected turn of player %d: %v", play.Code, session.PlayerID, err)
		return TurnResult{}, fmt.Errorf("%w: %w", errors.ErrIllegalPlay, err)
	}

	result := TurnResult{Plays: b.Plays(), Snapshot: b.Snapshot()}
	if err = g.games.SaveSnapshot(ctx, session.GameKey, result.Snapshot); err != nil {
		return TurnResult{}, err
	}

	result.Winner, result.Over = b.Winner()
	if result.Over {
		now := time.Now()
		play.Status = statuses.StatusCompleted
		play.Winner = result.Winner
		play.FinishedAt = &now
		if err = g.games.UpdateGame(ctx, play); err != nil {
			return TurnResult{}, err
		}
		g.log.Infof("game %s is over, winner %s", play.Code, play.PlayerName(result.Winner))
	}
	return result, nil
}

func (g *GameUseCase) Chat(ctx context.Context, session game.Session, text string) (game.ChatMessage, error) {
	if n := utf8.RuneCountInString(text); n < 1 || n > maxChatLength {
		return game.ChatMessage{}, errors.ErrBadChatMessage
	}
	msg := game.ChatMessage{
		Chat:   text,
		From:   session.Name,
		Player: session.PlayerID,
		SentAt: time.Now().UTC(),
	}
	if err := g.chat.AppendMessage(ctx, session.GameKey, msg); err != nil {
		return game.ChatMessage{}, err
	}
	return msg, nil
}

func (g *GameUseCase) ChatHistory(ctx context.Context, session game.Session) ([]game.ChatMessage, error) {
	return g.chat.History(ctx, session.GameKey)
}

// Leave gives up the seat. A game that is still running is abandoned.
func (g *GameUseCase) Leave(ctx context.Context, session game.Session) (game.Game, error) {
	unlock := g.lock(session.GameKey)
	defer unlock()

	play, err := g.games.GetGameByKey(ctx, session.GameKey)
	if err != nil {
		return game.Game{}, err
	}
	if statuses.IsActive(play.Status) {
		now := time.Now()
		play.Status = statuses.StatusAbandoned
		play.FinishedAt = &now
		if play.Joiner != "" {
			play.Winner = session.PlayerID.Opponent()
		}
		if err = g.games.UpdateGame(ctx, play); err != nil {
			return game.Game{}, err
		}
	}
	if err = g.sessions.DeleteSession(ctx, session.Token); err != nil {
		g.log.Errorf("delete session of game %s: %v", play.Code, err)
	}
	g.log.Infof("%s left game %s", session.Name, play.Code)
	return play, nil
}

// Restart lays out a fresh board for both seated players, the creator moves
// first.
func (g *GameUseCase) Restart(ctx context.Context, session game.Session) (game.State, error) {
	unlock := g.lock(session.GameKey)
	defer unlock()

	play, err := g.games.GetGameByKey(ctx, session.GameKey)
	if err != nil {
		return game.State{}, err
	}
	switch play.Status {
	case statuses.StatusWaitOpponent:
		return game.State{}, errors.ErrGameNotStarted
	case statuses.StatusAbandoned:
		return game.State{}, errors.ErrGameOver
	}

	snapshot := board.NewInitialSnapshot(play.BoardSize)
	if err = g.games.SaveSnapshot(ctx, play.GameKey, snapshot); err != nil {
		return game.State{}, err
	}
	now := time.Now()
	play.Status = statuses.StatusInProgress
	play.Winner = 0
	play.StartedAt = &now
	play.FinishedAt = nil
	if err = g.games.UpdateGame(ctx, play); err != nil {
		return game.State{}, err
	}

	g.log.Infof("game %s restarted by %s", play.Code, session.Name)
	return game.State{
		Snapshot: snapshot,
		Creator:  play.Creator,
		Joiner:   play.Joiner,
		Status:   play.Status,
		Rules:    play.Rules,
		Self:     session.PlayerID,
	}, nil
}
