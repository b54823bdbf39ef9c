package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	basecache "github.com/mlonzayes/dbr-fantasy/internal/platform/cache"
)

// CatalogKeyPrefix scopes every cached catalog read.
const CatalogKeyPrefix = "catalog:"

const (
	playerListKey   = CatalogKeyPrefix + "player:list"
	playerByIDKey   = CatalogKeyPrefix + "player:id:"
	playerByIDsKey  = CatalogKeyPrefix + "player:ids:"
	coachListKey    = CatalogKeyPrefix + "coach:list"
	coachByIDPrefix = CatalogKeyPrefix + "coach:id:"
)

// Invalidator drops every catalog entry after a price, points or
// membership change.
type Invalidator struct {
	cache *basecache.Store
}

func NewInvalidator(cache *basecache.Store) *Invalidator {
	return &Invalidator{cache: cache}
}

func (i *Invalidator) InvalidateCatalog(ctx context.Context) {
	i.cache.DeletePrefix(ctx, CatalogKeyPrefix)
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, playerByIDKey+playerID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	key := playerByIDsKey + idSetKey(playerIDs)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, playerIDs)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

// GetForUpdate always goes to the backing store; locks cannot be cached.
func (r *PlayerRepository) GetForUpdate(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.next.GetForUpdate(ctx, playerID)
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, CatalogKeyPrefix)
	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, CatalogKeyPrefix)
	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, playerID string) error {
	if err := r.next.Delete(ctx, playerID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, CatalogKeyPrefix)
	return nil
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

type CoachRepository struct {
	next  coach.Repository
	cache *basecache.Store
}

func NewCoachRepository(next coach.Repository, cache *basecache.Store) *CoachRepository {
	return &CoachRepository{next: next, cache: cache}
}

func (r *CoachRepository) List(ctx context.Context) ([]coach.Coach, error) {
	v, err := r.cache.GetOrLoad(ctx, coachListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]coach.Coach(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]coach.Coach)
	return append([]coach.Coach(nil), items...), nil
}

func (r *CoachRepository) GetByID(ctx context.Context, coachID string) (coach.Coach, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, coachByIDPrefix+coachID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, coachID)
		if err != nil {
			return nil, err
		}
		return cachedCoachByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return coach.Coach{}, false, err
	}

	cached, _ := v.(cachedCoachByID)
	return cached.value, cached.exists, nil
}

func (r *CoachRepository) Create(ctx context.Context, item coach.Coach) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, CatalogKeyPrefix)
	return nil
}

func (r *CoachRepository) Delete(ctx context.Context, coachID string) error {
	if err := r.next.Delete(ctx, coachID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, CatalogKeyPrefix)
	return nil
}

type cachedCoachByID struct {
	value  coach.Coach
	exists bool
}

func idSetKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
