package trajectory

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

type logged struct {
	next Source
	log  *zap.Logger
}

// Logged wraps src so every call is logged with its inputs, duration and
// outcome. The sampling math itself never logs.
func Logged(src Source, log *zap.Logger) Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &logged{next: src, log: log}
}

func (l *logged) fields(req Request, started time.Time) []zap.Field {
	return []zap.Field{
		zap.Float64("lat", req.Lat),
		zap.Float64("lon", req.Lon),
		zap.Stringer("date", req.Date),
		zap.Duration("step", req.Step),
		zap.Duration("took", time.Since(started)),
	}
}

func (l *logged) trace(body Body, req Request, started time.Time, traj Trajectory, err error) {
	fields := append(l.fields(req, started), zap.String("body", string(body)))
	if err != nil {
		l.log.Warn("trajectory failed", append(fields, zap.Error(err))...)
		return
	}
	l.log.Debug("trajectory sampled", append(fields, zap.Int("samples", traj.Len()))...)
}

func (l *logged) Sun(req Request) (Trajectory, error) {
	started := time.Now()
	traj, err := l.next.Sun(req)
	l.trace(Sun, req, started, traj, err)
	return traj, err
}

func (l *logged) Moon(req Request) (Trajectory, error) {
	started := time.Now()
	traj, err := l.next.Moon(req)
	l.trace(Moon, req, started, traj, err)
	return traj, err
}

func (l *logged) Events(req Request) (Events, error) {
	started := time.Now()
	ev, err := l.next.Events(req)
	if err != nil {
		l.log.Warn("events failed", append(l.fields(req, started), zap.Error(err))...)
	}
	return ev, err
}

type cacheKey struct {
	kind string
	req  Request
}

type cached struct {
	next  Source
	cache *lru.Cache
}

// Cached memoizes successful results of src in an LRU of the given size.
// Trajectories are treated as immutable once returned.
func Cached(src Source, size int) (Source, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("trajectory cache: %w", err)
	}
	return &cached{next: src, cache: c}, nil
}

func (c *cached) trajectory(kind Body, req Request, load func(Request) (Trajectory, error)) (Trajectory, error) {
	key := cacheKey{kind: string(kind), req: req}
	if v, ok := c.cache.Get(key); ok {
		return v.(Trajectory), nil
	}
	traj, err := load(req)
	if err != nil {
		return Trajectory{}, err
	}
	c.cache.Add(key, traj)
	return traj, nil
}

func (c *cached) Sun(req Request) (Trajectory, error) {
	return c.trajectory(Sun, req, c.next.Sun)
}

func (c *cached) Moon(req Request) (Trajectory, error) {
	return c.trajectory(Moon, req, c.next.Moon)
}

func (c *cached) Events(req Request) (Events, error) {
	key := cacheKey{kind: "events", req: req}
	if v, ok := c.cache.Get(key); ok {
		return v.(Events), nil
	}
	ev, err := c.next.Events(req)
	if err != nil {
		return Events{}, err
	}
	c.cache.Add(key, ev)
	return ev, nil
}
