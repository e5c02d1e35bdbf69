package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	// Decoders for still frames.
	_ "image/jpeg"
	_ "image/png"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

var imageExts = []string{".jpg", ".jpeg", ".png"}

func isImageFile(path string) bool {
	return slices.Contains(imageExts, strings.ToLower(filepath.Ext(path)))
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// FileSource serves a single still image as the video stream.
type FileSource struct {
	Path string
}

func (s FileSource) Acquire(_ context.Context) (Track, error) {
	img, err := decodeImageFile(s.Path)
	if err != nil {
		return nil, err
	}
	return &stillTrack{img: img}, nil
}

// stillTrack always returns the same frame and has no torch.
type stillTrack struct {
	mu      sync.Mutex
	img     image.Image
	stopped bool
}

func (t *stillTrack) Frame() (image.Image, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return nil, errors.New("track stopped")
	}
	return t.img, nil
}

func (t *stillTrack) TorchCapable() bool { return false }

func (t *stillTrack) ApplyTorch(context.Context, bool) error {
	return errors.New("torch not supported")
}

func (t *stillTrack) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// DirSource treats a directory as a camera: the most recently written
// image file is the current frame. Phones or scanners syncing into the
// folder act as the lens.
type DirSource struct {
	Dir    string
	Logger *zap.Logger
}

func (s DirSource) Acquire(ctx context.Context) (Track, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", s.Dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.Dir, err)
	}

	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &dirTrack{
		watcher: watcher,
		logger:  logger,
		latest:  newestImage(s.Dir),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go t.run()
	return t, nil
}

// newestImage returns the most recently modified image file in dir.
func newestImage(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var newest string
	var newestMod int64
	for _, e := range entries {
		if e.IsDir() || !isImageFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest, newestMod = filepath.Join(dir, e.Name()), mod
		}
	}
	return newest
}

type dirTrack struct {
	mu      sync.RWMutex
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	latest  string
	stopped bool

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

func (t *dirTrack) run() {
	defer close(t.doneCh)

	for {
		select {
		case <-t.stopCh:
			return

		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if !isImageFile(event.Name) {
				continue
			}
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				t.mu.Lock()
				t.latest = event.Name
				t.mu.Unlock()
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				t.mu.Lock()
				if t.latest == event.Name {
					t.latest = newestImage(filepath.Dir(event.Name))
				}
				t.mu.Unlock()
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.logger.Warn("frame directory watcher", zap.Error(err))
		}
	}
}

// framePath returns the path of the current frame file and whether the
// track was stopped.
func (t *dirTrack) framePath() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest, t.stopped
}

func (t *dirTrack) Frame() (image.Image, error) {
	path, stopped := t.framePath()
	if stopped {
		return nil, errors.New("track stopped")
	}
	if path == "" {
		return nil, errors.New("no frame available yet")
	}
	return decodeImageFile(path)
}

func (t *dirTrack) TorchCapable() bool { return false }

func (t *dirTrack) ApplyTorch(context.Context, bool) error {
	return errors.New("torch not supported")
}

// Stop ends the watcher goroutine and waits for it to exit.
func (t *dirTrack) Stop() {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		t.stopped = true
		t.mu.Unlock()

		close(t.stopCh)
		<-t.doneCh
		if err := t.watcher.Close(); err != nil {
			t.logger.Warn("close frame directory watcher", zap.Error(err))
		}
	})
}
