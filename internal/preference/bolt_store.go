package preference

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.etcd.io/bbolt"
)

var bucketPreferences = []byte("GridPreferences")

// BoltStore хранит настройки во встроенной базе bbolt (однонодовая установка)
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore открывает (или создаёт) файл базы и бакет настроек
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open prefs db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPreferences)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create prefs bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func boltKey(userID int64, gridID string) []byte {
	return []byte(strconv.FormatInt(userID, 10) + ":" + gridID)
}

func (s *BoltStore) Get(_ context.Context, userID int64, gridID string) (*Preference, error) {
	var pref *Preference

	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketPreferences).Get(boltKey(userID, gridID))
		if raw == nil {
			return nil
		}
		pref = &Preference{}
		return json.Unmarshal(raw, pref)
	})
	if err != nil {
		return nil, fmt.Errorf("get preference: %w", err)
	}

	return pref, nil
}

func (s *BoltStore) Set(_ context.Context, userID int64, gridID string, pref Preference) error {
	raw, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("encode preference: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPreferences).Put(boltKey(userID, gridID), raw)
	})
	if err != nil {
		return fmt.Errorf("set preference: %w", err)
	}

	return nil
}

// Close закрывает файл базы
func (s *BoltStore) Close() error {
	return s.db.Close()
}
