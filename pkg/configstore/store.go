// Package configstore persists the shell's UI preferences as a flat JSON object.
//
// The document is optional: a missing or unparsable file leaves it absent and
// callers fall back to defaults. Every Set rewrites the whole file before
// returning.
package configstore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/core-tools/hsu-shell/pkg/errors"
	"github.com/core-tools/hsu-shell/pkg/logging"
)

// DefaultFileName is the config document name, relative to the executable directory
const DefaultFileName = "config.json"

// KeyFullscreen holds the window's fullscreen state
const KeyFullscreen = "fullscreen"

type Store struct {
	path   string
	doc    []byte // nil when absent
	logger logging.Logger
	mutex  sync.RWMutex
}

// Load reads the document at path; a missing or malformed file yields an absent document
func Load(path string, logger logging.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logger,
	}

	doc, err := readDocument(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Infof("Config file not found, using defaults, path: %s", path)
		} else {
			logger.Warnf("Config file ignored, using defaults, path: %s, error: %v", path, err)
		}
		return s
	}

	s.doc = doc
	logger.Debugf("Config loaded, path: %s", path)
	return s
}

func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.NewConfigParseError("invalid JSON", nil).WithContext("path", path)
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, errors.NewConfigParseError("config document must be a JSON object", nil).WithContext("path", path)
	}
	return data, nil
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.path
}

// Present reports whether a document is loaded
func (s *Store) Present() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.doc != nil
}

// Get returns the value stored under key; ok is false if the document or key is absent.
// Numbers are returned as float64, objects as map[string]interface{}.
func (s *Store) Get(key string) (interface{}, bool) {
	result, ok := s.lookup(key)
	if !ok {
		return nil, false
	}
	return result.Value(), true
}

// GetBool returns a boolean value; ok is false if absent or not a boolean
func (s *Store) GetBool(key string) (bool, bool) {
	result, ok := s.lookup(key)
	if !ok || (result.Type != gjson.True && result.Type != gjson.False) {
		return false, false
	}
	return result.Bool(), true
}

func (s *Store) lookup(key string) (gjson.Result, bool) {
	if ValidateKey(key) != nil {
		return gjson.Result{}, false
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.doc == nil {
		return gjson.Result{}, false
	}
	result := gjson.GetBytes(s.doc, gjson.Escape(key))
	return result, result.Exists()
}

// Set stores value under key and synchronously rewrites the whole file.
// On a write failure the in-memory document keeps its previous value.
func (s *Store) Set(key string, value interface{}) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	current := s.doc
	if current == nil {
		current = []byte("{}")
	}

	updated, err := sjson.SetBytes(current, gjson.Escape(key), value)
	if err != nil {
		return errors.NewValidationError("failed to set config value", err).WithContext("key", key)
	}
	updated = pretty.Pretty(updated)

	if err := writeFileSync(s.path, updated); err != nil {
		s.logger.Errorf("Failed to save config, path: %s, key: %s, error: %v", s.path, key, err)
		return errors.NewConfigWriteError("failed to save config", err).WithContext("path", s.path).WithContext("key", key)
	}

	s.doc = updated
	s.logger.Debugf("Config saved, path: %s, key: %s", s.path, key)
	return nil
}

// ValidateKey accepts flat, non-empty keys without wildcard characters
func ValidateKey(key string) error {
	if key == "" {
		return errors.NewValidationError("config key cannot be empty", nil)
	}
	if strings.ContainsAny(key, "*?") {
		return errors.NewValidationError("config key cannot contain wildcards: "+key, nil)
	}
	return nil
}

// writeFileSync replaces path with data through a synced temp file in the same directory
func writeFileSync(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
