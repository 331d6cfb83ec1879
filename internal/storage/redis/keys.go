package redis

import (
	"fmt"

	"github.com/lexc24/tictactoe/internal/model"
)

// Key prefix for all matchmaking data
const keyPrefix = "tttq"

// clientKey returns the Redis key for a ClientRecord
func clientKey(id model.ClientID) string {
	return fmt.Sprintf("%s:client:%s", keyPrefix, id)
}

// queueIndexKey returns the Redis key for the ZSET of waiting clients.
// Scores are enqueue sequence numbers, so ZRANGE order is promotion order.
func queueIndexKey() string {
	return fmt.Sprintf("%s:idx:queue", keyPrefix)
}

// activeIndexKey returns the Redis key for the HASH of active clients,
// one field per marker ("X"/"O") mapping to the holder's client ID.
func activeIndexKey() string {
	return fmt.Sprintf("%s:idx:active", keyPrefix)
}

// seqKey returns the Redis key for the enqueue sequence counter
func seqKey() string {
	return fmt.Sprintf("%s:seq", keyPrefix)
}
