// Package pinstore persists pinned messages locally. It is the Go analog
// of the demo UI's localStorage pin list: a consumer of the core's message
// records, not part of generation itself.
package pinstore

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"chatsim/pkg/logger"
	"chatsim/pkg/models"
)

var db *pebble.DB

const keyPrefix = "pin:"

// Open opens (or creates) the pin database at the given path and keeps a
// package handle for simple usage.
func Open(path string) error {
	var err error
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pinstore_open_failed", "path", path, "error", err)
		return err
	}
	logger.Info("pinstore_opened", "path", path)
	return nil
}

// Close closes the opened database if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("pinstore_closed")
	return nil
}

// Ready reports whether the store is opened.
func Ready() bool {
	return db != nil
}

// Pin stores the message under its id. Re-pinning overwrites.
func Pin(msg models.Message) error {
	if db == nil {
		return fmt.Errorf("pinstore not opened; call pinstore.Open first")
	}
	if msg.ID == "" {
		return fmt.Errorf("message has no id")
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return db.Set([]byte(keyPrefix+msg.ID), data, pebble.Sync)
}

// Unpin removes the pin for the given message id. Unpinning an unknown id
// is not an error.
func Unpin(msgID string) error {
	if db == nil {
		return fmt.Errorf("pinstore not opened; call pinstore.Open first")
	}
	return db.Delete([]byte(keyPrefix+msgID), pebble.Sync)
}

// IsPinned reports whether a pin exists for the id.
func IsPinned(msgID string) bool {
	if db == nil {
		return false
	}
	_, closer, err := db.Get([]byte(keyPrefix + msgID))
	if err != nil {
		return false
	}
	_ = closer.Close()
	return true
}

// List returns all pinned messages in key order.
func List() ([]models.Message, error) {
	if db == nil {
		return nil, fmt.Errorf("pinstore not opened; call pinstore.Open first")
	}
	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefix + "\xff"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []models.Message
	for iter.First(); iter.Valid(); iter.Next() {
		var m models.Message
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			logger.Warn("pinstore_bad_record", "key", string(iter.Key()), "error", err)
			continue
		}
		out = append(out, m)
	}
	return out, iter.Error()
}
