package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lexc24/tictactoe/internal/model"
	"github.com/lexc24/tictactoe/internal/storage"
)

// setActiveRetries bounds optimistic retries when a WATCH transaction is
// invalidated by a concurrent write to the active index.
const setActiveRetries = 3

// Registry is a Redis-backed implementation of the registry interface.
//
// Records are JSON values; the queue is a ZSET scored by enqueue sequence and
// the active set is a HASH keyed by marker, so both secondary read paths hit
// the primary store directly. SetActive re-validates the invariant inside a
// WATCH transaction rather than trusting a pre-read count.
type Registry struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis registry instance
func New(cfg Config) (*Registry, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Registry{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis registry with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Registry {
	return &Registry{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (r *Registry) Close() error {
	return r.client.Close()
}

// Ensure Registry implements the interface
var _ storage.Registry = (*Registry)(nil)

func (r *Registry) Create(ctx context.Context, id model.ClientID, queuedAt time.Time) (*model.ClientRecord, error) {
	seq, err := r.client.Incr(ctx, seqKey()).Result()
	if err != nil {
		return nil, err
	}

	rec := &model.ClientRecord{
		ID:          id,
		Status:      model.StatusInactive,
		Marker:      model.MarkerNone,
		QueuedAt:    queuedAt,
		Seq:         uint64(seq),
		ConnectedAt: queuedAt,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	ok, err := r.client.SetNX(ctx, clientKey(id), data, r.cfg.ClientTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrDuplicateClient
	}

	if err := r.client.ZAdd(ctx, queueIndexKey(), redis.Z{
		Score:  float64(seq),
		Member: string(id),
	}).Err(); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *Registry) Remove(ctx context.Context, id model.ClientID) error {
	rec, err := r.get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrClientNotFound) {
			return nil
		}
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, clientKey(id))
	pipe.ZRem(ctx, queueIndexKey(), string(id))
	if rec.Status == model.StatusActive {
		pipe.HDel(ctx, activeIndexKey(), string(rec.Marker))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Registry) Get(ctx context.Context, id model.ClientID) (*model.ClientRecord, error) {
	return r.get(ctx, id)
}

func (r *Registry) get(ctx context.Context, id model.ClientID) (*model.ClientRecord, error) {
	data, err := r.client.Get(ctx, clientKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrClientNotFound
		}
		return nil, err
	}

	var rec model.ClientRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Registry) SetActive(ctx context.Context, id model.ClientID, marker model.Marker) error {
	if marker != model.MarkerX && marker != model.MarkerO {
		return model.ErrInvariantViolation
	}

	// The invariant check and the promote must be one conditional write: the
	// transaction aborts if the active index changes between check and EXEC.
	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, clientKey(id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrClientNotFound
			}
			return err
		}
		var rec model.ClientRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}

		active, err := tx.HGetAll(ctx, activeIndexKey()).Result()
		if err != nil {
			return err
		}
		if holder, held := active[string(marker)]; held && holder != string(id) {
			return model.ErrInvariantViolation
		}
		if rec.Status != model.StatusActive && len(active) >= 2 {
			return model.ErrInvariantViolation
		}

		rec.Status = model.StatusActive
		rec.Marker = marker
		rec.QueuedAt = time.Time{}

		updated, err := json.Marshal(&rec)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, clientKey(id), updated, r.cfg.ClientTTL)
			pipe.HSet(ctx, activeIndexKey(), string(marker), string(id))
			pipe.ZRem(ctx, queueIndexKey(), string(id))
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < setActiveRetries; i++ {
		err = r.client.Watch(ctx, txn, clientKey(id), activeIndexKey())
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

func (r *Registry) SetInactive(ctx context.Context, id model.ClientID, queuedAt time.Time) error {
	rec, err := r.get(ctx, id)
	if err != nil {
		return err
	}

	seq, err := r.client.Incr(ctx, seqKey()).Result()
	if err != nil {
		return err
	}

	oldMarker := rec.Marker
	wasActive := rec.Status == model.StatusActive

	rec.Status = model.StatusInactive
	rec.Marker = model.MarkerNone
	rec.QueuedAt = queuedAt
	rec.Seq = uint64(seq)

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, clientKey(id), data, r.cfg.ClientTTL)
	pipe.ZAdd(ctx, queueIndexKey(), redis.Z{Score: float64(seq), Member: string(id)})
	if wasActive {
		pipe.HDel(ctx, activeIndexKey(), string(oldMarker))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Registry) SetDisplayName(ctx context.Context, id model.ClientID, name string) error {
	rec, err := r.get(ctx, id)
	if err != nil {
		return err
	}

	rec.DisplayName = name

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, clientKey(id), data, r.cfg.ClientTTL).Err()
}

func (r *Registry) ActiveCount(ctx context.Context) (int, error) {
	n, err := r.client.HLen(ctx, activeIndexKey()).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *Registry) ActiveRecords(ctx context.Context) ([]model.ClientRecord, error) {
	active, err := r.client.HGetAll(ctx, activeIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	// X before O in roster order
	var records []model.ClientRecord
	for _, marker := range []model.Marker{model.MarkerX, model.MarkerO} {
		idStr, ok := active[string(marker)]
		if !ok {
			continue
		}
		rec, err := r.get(ctx, model.ClientID(idStr))
		if err != nil {
			if errors.Is(err, model.ErrClientNotFound) {
				continue // record expired out from under the index
			}
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (r *Registry) OldestInactive(ctx context.Context, limit int) ([]model.ClientRecord, error) {
	stop := int64(limit) - 1
	if limit < 0 {
		stop = -1
	}

	ids, err := r.client.ZRange(ctx, queueIndexKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	return r.fetchRecords(ctx, ids)
}

func (r *Registry) Snapshot(ctx context.Context) ([]model.ClientRecord, error) {
	active, err := r.ActiveRecords(ctx)
	if err != nil {
		return nil, err
	}

	waiting, err := r.OldestInactive(ctx, -1)
	if err != nil {
		return nil, err
	}

	return append(active, waiting...), nil
}

// fetchRecords resolves client IDs to records with a single MGET,
// skipping entries that expired out from under the index
func (r *Registry) fetchRecords(ctx context.Context, ids []string) ([]model.ClientRecord, error) {
	if len(ids) == 0 {
		return []model.ClientRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = clientKey(model.ClientID(id))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]model.ClientRecord, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var rec model.ClientRecord
		if err := json.Unmarshal([]byte(val.(string)), &rec); err != nil {
			continue // skip invalid data
		}
		records = append(records, rec)
	}
	return records, nil
}
