// Package audio plays Audio component cues through beep. Sound files are wav,
// decoded once into memory and resampled to the device rate.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const resampleQuality = 4

// Cache holds decoded sounds keyed by file name. Safe for concurrent use: the
// preloader fills it from worker goroutines while the frame loop reads it.
type Cache struct {
	dir    string
	format beep.Format
	log    *zap.Logger

	mu      sync.RWMutex
	buffers map[string]*beep.Buffer
}

func NewCache(dir string, rate beep.SampleRate, log *zap.Logger) *Cache {
	return &Cache{
		dir:     dir,
		format:  beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2},
		log:     log,
		buffers: make(map[string]*beep.Buffer),
	}
}

func (c *Cache) Format() beep.Format { return c.format }

// Len is the number of cached sounds.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

// Get returns the sound for name, loading it on first use. Missing files get a
// short tone so a typo is audible rather than silent.
func (c *Cache) Get(name string) (*beep.Buffer, error) {
	c.mu.RLock()
	buf, ok := c.buffers[name]
	c.mu.RUnlock()
	if ok {
		return buf, nil
	}
	buf, err := c.load(name)
	if errors.Is(err, fs.ErrNotExist) {
		c.log.Warn("sound file missing, using tone", zap.String("file", name))
		buf, err = c.tone()
	}
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if existing, ok := c.buffers[name]; ok {
		buf = existing
	} else {
		c.buffers[name] = buf
	}
	c.mu.Unlock()
	return buf, nil
}

// Preload decodes names in the background with at most workers goroutines.
// The first decode error cancels the rest.
func (c *Cache) Preload(ctx context.Context, names []string, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	start := time.Now()
	for _, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := c.Get(name)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("preload sounds: %w", err)
	}
	c.log.Info("sounds loaded", zap.Int("count", len(names)), zap.Duration("took", time.Since(start)))
	return nil
}

func (c *Cache) load(name string) (*beep.Buffer, error) {
	f, err := os.Open(filepath.Join(c.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stream, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if format.SampleRate != c.format.SampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, c.format.SampleRate, s)
	}
	buf := beep.NewBuffer(c.format)
	buf.Append(s)
	return buf, nil
}

func (c *Cache) tone() (*beep.Buffer, error) {
	sine, err := generators.SineTone(c.format.SampleRate, 440)
	if err != nil {
		return nil, fmt.Errorf("fallback tone: %w", err)
	}
	buf := beep.NewBuffer(c.format)
	buf.Append(beep.Take(c.format.SampleRate.N(150*time.Millisecond), sine))
	return buf, nil
}
