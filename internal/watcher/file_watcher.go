package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a FileWatcher.
type Options struct {
	// Root is the directory watched recursively. Patterns are matched against
	// slash-separated paths relative to Root.
	Root string

	// Patterns select the files whose changes are reported (e.g. "**/*.java").
	Patterns []string

	// Ignore excludes files and whole directories (e.g. "target/**").
	Ignore []string

	// Files are always reported when changed, whatever the patterns say.
	// Used for the suite file itself.
	Files []string

	Debounce time.Duration
	Logger   *zap.Logger
}

// fileWatcher implements FileWatcher interface.
type fileWatcher struct {
	watcher       *fsnotify.Watcher
	root          string
	patterns      []glob.Glob          // Files to report
	ignore        []glob.Glob          // Files and directories to skip
	files         map[string]bool      // Always-reported files
	debounceTime  time.Duration        // Quiet period before firing callback
	logger        *zap.Logger          // Warnings for unwatchable paths
	callback      func(files []string) // Callback to invoke with changed files
	ctx           context.Context      // Context for lifecycle management
	cancel        context.CancelFunc   // Cancel function for internal context
	paused        bool                 // Whether watching is paused
	pausedMu      sync.RWMutex         // Protects paused flag
	accumulated   map[string]bool      // Accumulated file changes
	accumulatedMu sync.Mutex           // Protects accumulated map
	debounceTimer *time.Timer          // Current debounce timer
	timerMu       sync.Mutex           // Protects debounce timer
	stopOnce      sync.Once            // Ensures Stop() is idempotent
	doneCh        chan struct{}        // Signals watch goroutine has finished
}

// NewFileWatcher creates a file watcher rooted at opts.Root.
func NewFileWatcher(opts Options) (FileWatcher, error) {
	patterns, err := compilePatterns(opts.Patterns)
	if err != nil {
		return nil, err
	}
	ignore, err := compilePatterns(opts.Ignore)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool, len(opts.Files))
	for _, f := range opts.Files {
		files[filepath.Clean(f)] = true
	}

	fw := &fileWatcher{
		watcher:      watcher,
		root:         filepath.Clean(opts.Root),
		patterns:     patterns,
		ignore:       ignore,
		files:        files,
		debounceTime: opts.Debounce,
		logger:       opts.Logger,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}
	if fw.debounceTime <= 0 {
		fw.debounceTime = DefaultDebounce
	}
	if fw.logger == nil {
		fw.logger = zap.NewNop()
	}

	if err := fw.addDirectoriesRecursively(fw.root); err != nil {
		watcher.Close()
		return nil, err
	}

	// Always-reported files may live outside Root
	for f := range files {
		dir := filepath.Dir(f)
		if fw.isUnderRoot(dir) {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			fw.logger.Warn("Failed to watch directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	return fw, nil
}

// compilePatterns compiles glob patterns. A leading "**/" also matches files
// directly in the root, so "**/*.java" matches both "A.java" and "src/A.java".
func compilePatterns(patterns []string) ([]glob.Glob, error) {
	var globs []glob.Glob
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		globs = append(globs, g)

		if simplified, ok := strings.CutPrefix(pattern, "**/"); ok {
			g, err := glob.Compile(simplified, '/')
			if err != nil {
				return nil, err
			}
			globs = append(globs, g)
		}
	}
	return globs, nil
}

// Start begins watching for file changes.
func (fw *fileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	fw.callback = callback
	fw.ctx, fw.cancel = context.WithCancel(ctx)

	go fw.watch()
	return nil
}

// Stop stops the file watcher.
func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		// Cancel context to signal goroutine
		if fw.cancel != nil {
			fw.cancel()

			// Wait for goroutine to finish (only if Start() was called)
			<-fw.doneCh
		} else {
			// Never started, close doneCh manually
			close(fw.doneCh)
		}

		err = fw.watcher.Close()
	})
	return err
}

// Pause stops firing callbacks but continues accumulating events.
func (fw *fileWatcher) Pause() {
	fw.pausedMu.Lock()
	defer fw.pausedMu.Unlock()
	fw.paused = true
}

// Resume resumes firing callbacks. If events accumulated during pause, fires immediately.
func (fw *fileWatcher) Resume() {
	fw.pausedMu.Lock()
	wasPaused := fw.paused
	fw.paused = false
	fw.pausedMu.Unlock()

	if wasPaused {
		fw.flush()
	}
}

// watch is the main event loop.
func (fw *fileWatcher) watch() {
	defer close(fw.doneCh)

	rerunCh := make(chan struct{}, 1)

	for {
		select {
		case <-fw.ctx.Done():
			fw.stopDebounceTimer()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// Handle new directories - add them to watcher
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addDirectoriesRecursively(event.Name); err != nil {
						fw.logger.Warn("Failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}

			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.accumulatedMu.Lock()
			fw.accumulated[filepath.Clean(event.Name)] = true
			fw.accumulatedMu.Unlock()

			fw.resetDebounceTimer(rerunCh)

		case <-rerunCh:
			// Debounce period expired - fire callback if not paused
			fw.pausedMu.RLock()
			paused := fw.paused
			fw.pausedMu.RUnlock()
			if !paused {
				fw.flush()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

// flush fires the callback with all accumulated files, if any.
func (fw *fileWatcher) flush() {
	fw.accumulatedMu.Lock()
	if len(fw.accumulated) == 0 {
		fw.accumulatedMu.Unlock()
		return
	}

	files := make([]string, 0, len(fw.accumulated))
	for file := range fw.accumulated {
		files = append(files, file)
	}
	fw.accumulated = make(map[string]bool)
	fw.accumulatedMu.Unlock()

	if fw.callback != nil {
		fw.callback(files)
	}
}

// resetDebounceTimer resets the debounce timer, properly stopping the old one.
func (fw *fileWatcher) resetDebounceTimer(rerunCh chan struct{}) {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	fw.debounceTimer = time.AfterFunc(fw.debounceTime, func() {
		// Send rerun signal (non-blocking)
		select {
		case rerunCh <- struct{}{}:
		default:
		}
	})
}

// stopDebounceTimer stops the debounce timer if it exists.
func (fw *fileWatcher) stopDebounceTimer() {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
		fw.debounceTimer = nil
	}
}

// shouldProcessEvent checks if an event should be processed based on patterns.
func (fw *fileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	// Only care about WRITE, CREATE, REMOVE and RENAME events
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return fw.matches(event.Name)
}

// matches reports whether path is a watched file.
func (fw *fileWatcher) matches(path string) bool {
	path = filepath.Clean(path)
	if fw.files[path] {
		return true
	}

	rel, ok := fw.relative(path)
	if !ok || fw.ignored(rel) {
		return false
	}
	return matchAny(fw.patterns, rel)
}

// ignored reports whether a root-relative path, or a directory containing it,
// matches an ignore pattern.
func (fw *fileWatcher) ignored(rel string) bool {
	return matchAny(fw.ignore, rel) || matchAny(fw.ignore, rel+"/**")
}

func (fw *fileWatcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(fw.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (fw *fileWatcher) isUnderRoot(path string) bool {
	_, ok := fw.relative(path)
	return ok
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// addDirectoriesRecursively adds all non-ignored directories in the tree to the watcher.
func (fw *fileWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// If it's the root path, fail immediately
			if path == rootPath {
				return err
			}
			fw.logger.Warn("Error accessing path", zap.String("path", path), zap.Error(err))
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		if rel, ok := fw.relative(path); ok && rel != "." && fw.ignored(rel) {
			return filepath.SkipDir
		}

		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("Failed to watch directory", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
}
