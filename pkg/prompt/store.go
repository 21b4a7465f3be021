package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Store holds prompt texts loaded from a directory of .txt and .md files
// and refreshes them when the files change on disk.
type Store struct {
	dir     string
	logger  zerolog.Logger
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	prompts map[string]string

	done     chan struct{}
	stopOnce sync.Once
}

// StoreConfig holds configuration for a prompt store.
type StoreConfig struct {
	// Dir is the directory holding the prompt files.
	Dir    string
	Logger zerolog.Logger
}

// NewStore loads every prompt under cfg.Dir and starts watching the
// directory for changes.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("prompt store requires a directory")
	}

	s := &Store{
		dir:     cfg.Dir,
		logger:  cfg.Logger,
		prompts: make(map[string]string),
		done:    make(chan struct{}),
	}
	if err := s.loadAll(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(cfg.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", cfg.Dir, err)
	}
	s.watcher = watcher
	go s.eventLoop()

	return s, nil
}

// Get returns the named prompt's current text.
func (s *Store) Get(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %q not found in %s", name, s.dir)
	}
	return text, nil
}

// Names returns the loaded prompt names.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.prompts))
	for name := range s.prompts {
		names = append(names, name)
	}
	return names
}

// Close stops the watcher.
func (s *Store) Close() error {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			return fmt.Errorf("failed to close watcher: %w", err)
		}
	}
	return nil
}

func (s *Store) loadAll() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read prompt directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := s.loadFile(filepath.Join(s.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// loadFile reads one prompt file into the store. Non-prompt extensions are
// skipped silently.
func (s *Store) loadFile(path string) error {
	name, ok := promptName(path)
	if !ok {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read prompt %s: %w", path, err)
	}
	s.mu.Lock()
	s.prompts[name] = strings.TrimSpace(string(data))
	s.mu.Unlock()
	return nil
}

func (s *Store) removeFile(path string) {
	name, ok := promptName(path)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.prompts, name)
	s.mu.Unlock()
}

func (s *Store) eventLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(event)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error().Err(err).Msg("Prompt watcher error")

		case <-s.done:
			return
		}
	}
}

func (s *Store) handleEvent(event fsnotify.Event) {
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create,
		event.Op&fsnotify.Write == fsnotify.Write:
		if err := s.loadFile(event.Name); err != nil {
			s.logger.Error().Err(err).Str("path", event.Name).Msg("Failed to reload prompt")
			return
		}
		s.logger.Debug().Str("path", event.Name).Msg("Prompt reloaded")

	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		s.removeFile(event.Name)
	}
}

func promptName(path string) (string, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != ".txt" && ext != ".md" {
		return "", false
	}
	return strings.TrimSuffix(base, ext), true
}
