package repo

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"checkers/internal/bootstrap"
	"checkers/internal/domain/board"
	"checkers/internal/domain/game"
	errors2 "checkers/internal/errors"
	"checkers/internal/statuses"
)

const (
	gamesCollection = "games"
	maxKeyAttempts  = 20
)

type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

// GenerateGameKeys returns a fresh secret key and a 5-digit join code no
// other active game uses.
func (g *GameRepository) GenerateGameKeys(ctx context.Context) (gameKey string, code string, err error) {
	for i := 0; i < maxKeyAttempts; i++ {
		gameKey = uuid.New().String()
		code = generateHash(gameKey)

		uniq, err := g.CheckCodeIsUniq(ctx, code)
		if err != nil {
			return "", "", err
		}
		if uniq {
			return gameKey, code, nil
		}
	}
	return "", "", fmt.Errorf("no free join code after %d attempts", maxKeyAttempts)
}

func generateHash(s string) string {
	h := md5.New()
	h.Write([]byte(s))
	hashBytes := h.Sum(nil)
	number := binary.BigEndian.Uint32(hashBytes[:4])
	code := number % 100000
	return fmt.Sprintf("%05d", code)
}

func activeByCode(code string) bson.M {
	return bson.M{
		"code": code,
		"status": bson.M{
			"$in": []string{statuses.StatusWaitOpponent, statuses.StatusInProgress},
		},
	}
}

func (g *GameRepository) CheckCodeIsUniq(ctx context.Context, code string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	collection := g.mongo.Collection(gamesCollection)
	err := collection.FindOne(ctx, activeByCode(code)).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return true, nil
	}
	return false, err
}

func (g *GameRepository) PutGame(ctx context.Context, gameData game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection(gamesCollection)

	_, err := collection.InsertOne(ctx, gameData)
	if err != nil {
		g.log.Errorf("failed to insert game to database: %v", err)
		return err
	}

	g.log.Infof("game inserted successfully with code: %s", gameData.Code)
	return nil
}

func (g *GameRepository) findOne(ctx context.Context, filter bson.M) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result game.Game
	err := g.mongo.Collection(gamesCollection).FindOne(ctx, filter).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.Game{}, errors2.ErrGameNotFound
	} else if err != nil {
		g.log.Error(err)
		return game.Game{}, err
	}
	return result, nil
}

func (g *GameRepository) GetGameByKey(ctx context.Context, gameKey string) (game.Game, error) {
	return g.findOne(ctx, bson.M{"game_key": gameKey})
}

// GetGameByCode only looks at games that can still be joined or played.
func (g *GameRepository) GetGameByCode(ctx context.Context, code string) (game.Game, error) {
	return g.findOne(ctx, activeByCode(code))
}

func (g *GameRepository) UpdateGame(ctx context.Context, gameData game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection(gamesCollection)
	opts := options.Replace().SetUpsert(false)

	res, err := collection.ReplaceOne(ctx, bson.M{"game_key": gameData.GameKey}, gameData, opts)
	if err != nil {
		g.log.Errorf("failed to update game %s: %v", gameData.Code, err)
		return err
	}
	if res.MatchedCount == 0 {
		return errors2.ErrGameNotFound
	}
	return nil
}

func snapshotKey(gameKey string) string {
	return "board:" + gameKey
}

// SaveSnapshot stores the live board. It expires together with the player
// sessions, every accepted turn extends it.
func (g *GameRepository) SaveSnapshot(ctx context.Context, gameKey string, snapshot board.Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return g.redis.Set(ctx, snapshotKey(gameKey), raw, g.cfg.SessionTTL).Err()
}

func (g *GameRepository) LoadSnapshot(ctx context.Context, gameKey string) (board.Snapshot, error) {
	raw, err := g.redis.Get(ctx, snapshotKey(gameKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return board.Snapshot{}, errors2.ErrGameNotFound
	} else if err != nil {
		return board.Snapshot{}, err
	}

	var snapshot board.Snapshot
	if err = json.Unmarshal(raw, &snapshot); err != nil {
		return board.Snapshot{}, fmt.Errorf("decode board of game %s: %w", gameKey, err)
	}
	return snapshot, nil
}
