// Package storage persists saved games, the autosave slot and play
// statistics in BadgerDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"shadowchess/internal/shadowchess"
)

// Storage keys
const (
	keySavePrefix = "save/"
	keyAutosave   = "autosave"
	keyStats      = "stats"

	// DefaultSlot is the single save slot the browser client uses.
	DefaultSlot = "default"
)

var (
	ErrNoSave      = errors.New("no save found")
	ErrInvalidSave = errors.New("invalid save file")
	ErrBadSlot     = errors.New("invalid save slot")
)

// Store wraps BadgerDB.
type Store struct {
	db  *badger.DB
	log *zap.Logger
}

// Open opens (or creates) the database in dir. An empty dir keeps
// everything in memory.
func Open(dir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = badgerLogger{log.Named("badger").Sugar()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	log.Info("storage opened", zap.String("dir", dir), zap.Bool("in_memory", dir == ""))
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func slotKey(slot string) ([]byte, error) {
	if slot == "" {
		slot = DefaultSlot
	}
	if strings.ContainsAny(slot, "/\x00") || len(slot) > 64 {
		return nil, fmt.Errorf("%w: %q", ErrBadSlot, slot)
	}
	return []byte(keySavePrefix + slot), nil
}

func (s *Store) SaveGame(slot string, snap shadowchess.Snapshot) error {
	key, err := slotKey(slot)
	if err != nil {
		return err
	}
	return s.put(key, snap)
}

// LoadGame reads a slot and rebuilds the game state from it.
func (s *Store) LoadGame(slot string) (*shadowchess.State, shadowchess.Snapshot, error) {
	key, err := slotKey(slot)
	if err != nil {
		return nil, shadowchess.Snapshot{}, err
	}
	return s.load(key)
}

// Autosave writes the autosave slot, tagging the snapshot as such.
func (s *Store) Autosave(snap shadowchess.Snapshot) error {
	opts := make(map[string]string, len(snap.Options)+1)
	for k, v := range snap.Options {
		opts[k] = v
	}
	opts["is_autosave"] = "true"
	snap.Options = opts
	return s.put([]byte(keyAutosave), snap)
}

func (s *Store) LoadAutosave() (*shadowchess.State, shadowchess.Snapshot, error) {
	return s.load([]byte(keyAutosave))
}

func (s *Store) DeleteSave(slot string) error {
	key, err := slotKey(slot)
	if err != nil {
		return err
	}
	return s.delete(key)
}

func (s *Store) DeleteAutosave() error {
	return s.delete([]byte(keyAutosave))
}

func (s *Store) HasSave(slot string) (bool, error) {
	key, err := slotKey(slot)
	if err != nil {
		return false, err
	}
	return s.has(key)
}

func (s *Store) HasAutosave() (bool, error) {
	return s.has([]byte(keyAutosave))
}

// SaveInfo is the summary shown before loading.
type SaveInfo struct {
	Slot        string    `json:"slot"`
	Timestamp   time.Time `json:"timestamp"`
	BoardSize   string    `json:"board_size"`
	TurnCount   int       `json:"turn_count"`
	CurrentTurn string    `json:"current_turn"`
}

func (s *Store) SaveInfo(slot string) (SaveInfo, error) {
	key, err := slotKey(slot)
	if err != nil {
		return SaveInfo{}, err
	}
	var snap shadowchess.Snapshot
	if err := s.get(key, &snap); err != nil {
		return SaveInfo{}, err
	}
	return infoFor(strings.TrimPrefix(string(key), keySavePrefix), snap), nil
}

// ListSaves returns the info of every slot, newest first.
func (s *Store) ListSaves() ([]SaveInfo, error) {
	var out []SaveInfo
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(keySavePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			slot := strings.TrimPrefix(string(item.Key()), keySavePrefix)
			err := item.Value(func(val []byte) error {
				var snap shadowchess.Snapshot
				if err := json.Unmarshal(val, &snap); err != nil {
					s.log.Warn("skipping unreadable save", zap.String("slot", slot), zap.Error(err))
					return nil
				}
				out = append(out, infoFor(slot, snap))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, err
}

func infoFor(slot string, snap shadowchess.Snapshot) SaveInfo {
	turn := "Player"
	if snap.CurrentTurn != int(shadowchess.White) {
		turn = "AI"
	}
	return SaveInfo{
		Slot:        slot,
		Timestamp:   time.UnixMilli(snap.Timestamp),
		BoardSize:   fmt.Sprintf("%dx%d", snap.BoardWidth, snap.BoardHeight),
		TurnCount:   snap.TurnCount,
		CurrentTurn: turn,
	}
}

func (s *Store) load(key []byte) (*shadowchess.State, shadowchess.Snapshot, error) {
	var snap shadowchess.Snapshot
	if err := s.get(key, &snap); err != nil {
		return nil, snap, err
	}
	st, err := snap.Restore()
	if err != nil {
		return nil, snap, fmt.Errorf("%w: %w", ErrInvalidSave, err)
	}
	return st, snap, nil
}

func (s *Store) put(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func (s *Store) get(key []byte, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoSave
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, v); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidSave, err)
			}
			return nil
		})
	})
}

func (s *Store) has(key []byte) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// badgerLogger routes badger's printf logging into zap.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(f string, args ...interface{}) {
	l.s.Errorf(strings.TrimSpace(f), args...)
}

func (l badgerLogger) Warningf(f string, args ...interface{}) {
	l.s.Warnf(strings.TrimSpace(f), args...)
}

// Badger is chatty at info level; keep it at debug.
func (l badgerLogger) Infof(f string, args ...interface{}) {
	l.s.Debugf(strings.TrimSpace(f), args...)
}

func (l badgerLogger) Debugf(f string, args ...interface{}) {
	l.s.Debugf(strings.TrimSpace(f), args...)
}
