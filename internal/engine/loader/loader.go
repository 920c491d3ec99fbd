// Package loader picks a mesh decoding strategy from an asset's file
// extension and delivers normalized scene objects to the frame loop.
package loader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/engine/model"
	"github.com/Faultbox/showroom/internal/engine/scene"
)

// ErrUnsupportedFormat is returned for extensions with no registered strategy.
var ErrUnsupportedFormat = errors.New("unsupported asset format")

// ErrMalformedAsset is returned when a strategy panics on its input.
var ErrMalformedAsset = errors.New("malformed asset")

// Asset is the raw input handed to a strategy.
type Asset struct {
	URL string
	// LocalPath is set when the asset exists on disk, so formats with
	// external side files can resolve them.
	LocalPath string
	Data      []byte
}

// Strategy decodes one asset format into a scene hierarchy.
type Strategy interface {
	Decode(a Asset) (*scene.Node, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(a Asset) (*scene.Node, error)

// Decode calls f(a).
func (f StrategyFunc) Decode(a Asset) (*scene.Node, error) { return f(a) }

// Fetcher provides asset bytes.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
	LocalPath(ref string) (string, bool)
}

// Poster runs a function on the frame loop.
type Poster interface {
	Post(fn func())
}

// Dispatcher loads assets with the strategy matching their extension.
type Dispatcher struct {
	fetcher Fetcher
	poster  Poster
	log     *zap.Logger

	mu         sync.RWMutex
	strategies map[string]Strategy
}

// New creates a dispatcher with the glTF bundle strategy registered for
// .glb/.gltf and the OBJ geometry strategy for .obj.
func New(fetcher Fetcher, poster Poster, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		fetcher:    fetcher,
		poster:     poster,
		log:        log,
		strategies: make(map[string]Strategy),
	}
	d.Register(".glb", GLTF{})
	d.Register(".gltf", GLTF{})
	d.Register(".obj", OBJ{})
	return d
}

// Register binds a strategy to an extension such as ".glb".
func (d *Dispatcher) Register(ext string, s Strategy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.strategies[strings.ToLower(ext)] = s
}

// Ext returns the lower-cased extension of ref, ignoring any query
// string or fragment.
func Ext(ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		p = u.Path
	} else if i := strings.IndexAny(ref, "?#"); i >= 0 {
		p = ref[:i]
	}
	return strings.ToLower(path.Ext(p))
}

// StrategyFor returns the strategy registered for ref's extension.
func (d *Dispatcher) StrategyFor(ref string) (Strategy, error) {
	ext := Ext(ref)
	d.mu.RLock()
	s, ok := d.strategies[ext]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
	return s, nil
}

// Decode fetches, decodes and normalizes ref synchronously. The result is
// wrapped in a pivot group centered on the object.
func (d *Dispatcher) Decode(ctx context.Context, ref string, opts model.Options) (*scene.Node, error) {
	strategy, err := d.StrategyFor(ref)
	if err != nil {
		return nil, err
	}

	data, err := d.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	asset := Asset{URL: ref, Data: data}
	if p, ok := d.fetcher.LocalPath(ref); ok {
		asset.LocalPath = p
	}

	obj, err := decodeSafely(strategy, asset)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ref, err)
	}

	res := model.Normalize(obj, opts)
	d.log.Debug("normalized asset",
		zap.String("url", ref),
		zap.Float32("scale", res.Scale),
		zap.Bool("degenerate", res.Degenerate),
		zap.Int("drawables", obj.DrawableCount()))

	return model.Pivot(obj), nil
}

// decodeSafely turns a strategy panic on malformed input into an error.
func decodeSafely(s Strategy, a Asset) (obj *scene.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			obj, err = nil, fmt.Errorf("%w: %v", ErrMalformedAsset, r)
		}
	}()
	return s.Decode(a)
}

// Load decodes ref in the background and posts done onto the frame loop.
// Failures post done(nil). Nothing is posted once ctx is cancelled.
func (d *Dispatcher) Load(ctx context.Context, ref string, opts model.Options, done func(*scene.Node)) {
	go func() {
		obj, err := d.Decode(ctx, ref, opts)
		if ctx.Err() != nil {
			d.log.Debug("asset load abandoned", zap.String("url", ref))
			return
		}
		if err != nil {
			d.log.Warn("asset load failed", zap.String("url", ref), zap.Error(err))
			obj = nil
		} else {
			d.log.Info("asset loaded", zap.String("url", ref))
		}
		d.poster.Post(func() { done(obj) })
	}()
}
