package repo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"checkers/internal/statuses"
)

func TestGenerateHash(t *testing.T) {
	key := uuid.New().String()
	code := generateHash(key)
	assert.Len(t, code, 5)
	assert.Regexp(t, `^[0-9]{5}$`, code)
	assert.Equal(t, code, generateHash(key), "the code is derived from the key")
}

func TestActiveByCode(t *testing.T) {
	filter := activeByCode("01234")
	assert.Equal(t, "01234", filter["code"])
	assert.Equal(t, bson.M{"$in": []string{statuses.StatusWaitOpponent, statuses.StatusInProgress}}, filter["status"])
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "board:abc", snapshotKey("abc"))
	assert.Equal(t, "session:abc", sessionKey("abc"))
	assert.Equal(t, "chat:abc", chatKey("abc"))
}
