package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/securetoken-go/internal/core/domain"
	"github.com/yndnr/securetoken-go/pkg/securetoken"
)

// Key prefixes.
const (
	recKeyPrefix = "rec:"
	idxKeyPrefix = "idx:"
)

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// Dir is the storage directory.
	Dir string

	// GCInterval is the interval between automatic value log GC runs.
	// Default: 10m
	GCInterval time.Duration

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 64MB
	CacheSize int64

	// SyncWrites enables fsync after each write.
	// Default: true (single-node durability, no replication layer)
	SyncWrites bool
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:         dir,
		GCInterval:  10 * time.Minute,
		GCThreshold: 0.5,
		CacheSize:   64 << 20,
		SyncWrites:  true,
	}
}

// BadgerStore is a durable record store backed by Badger v3.
type BadgerStore struct {
	db     *badger.DB
	cfg    BadgerConfig
	logger *slog.Logger

	// indexed token attributes, fixed at construction
	indexed []string

	lastGCTime atomic.Int64

	// Prometheus metrics (nil until RegisterMetrics)
	metricsLSMSize      prometheus.Gauge
	metricsValueLogSize prometheus.Gauge
	metricsRecords      prometheus.Gauge

	stopCh chan struct{}
	doneCh chan struct{}
}

var _ securetoken.Repository = (*BadgerStore)(nil)

// NewBadgerStore opens a Badger-backed record store that indexes the
// given token attributes.
func NewBadgerStore(cfg BadgerConfig, indexed []string, logger *slog.Logger) (*BadgerStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}
	if cfg.GCThreshold <= 0 {
		cfg.GCThreshold = 0.5
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.SyncWrites = cfg.SyncWrites
	if cfg.CacheSize > 0 {
		opts.BlockCacheSize = cfg.CacheSize
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	store := &BadgerStore{
		db:      db,
		cfg:     cfg,
		logger:  logger,
		indexed: append([]string(nil), indexed...),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	go store.gcLoop()

	logger.Info("badger store opened",
		"dir", cfg.Dir,
		"indexed_attributes", store.indexed,
		"gc_interval", cfg.GCInterval)

	return store, nil
}

func recKey(id string) []byte {
	return []byte(recKeyPrefix + id)
}

func idxKey(attribute, value string) []byte {
	return []byte(idxKeyPrefix + attribute + ":" + value)
}

func (s *BadgerStore) isIndexed(attribute string) bool {
	for _, attr := range s.indexed {
		if attr == attribute {
			return true
		}
	}
	return false
}

// Create persists a new record together with its token index entries,
// in a single transaction.
func (s *BadgerStore) Create(_ context.Context, rec *domain.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(recKey(rec.ID)); err == nil {
			return domain.ErrRecordConflict
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		for _, attr := range s.indexed {
			value := rec.Field(attr)
			if value == "" {
				continue
			}
			if _, err := txn.Get(idxKey(attr, value)); err == nil {
				return domain.ErrTokenValueConflict.WithDetails(attr)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Set(idxKey(attr, value), []byte(rec.ID)); err != nil {
				return err
			}
		}

		return txn.Set(recKey(rec.ID), data)
	})

	return s.wrapStorageErr(err)
}

// Get retrieves a record by ID.
func (s *BadgerStore) Get(_ context.Context, id string) (*domain.Record, error) {
	var rec domain.Record

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrRecordNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, s.wrapStorageErr(err)
	}

	return &rec, nil
}

// List retrieves all records, optionally filtered by kind ("" = all).
func (s *BadgerStore) List(_ context.Context, kind string) ([]*domain.Record, error) {
	var out []*domain.Record

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec domain.Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				if kind == "" || rec.Kind == kind {
					out = append(out, &rec)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapStorageErr(err)
	}

	return out, nil
}

// Delete removes a record and its index entries.
func (s *BadgerStore) Delete(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(recKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		var rec domain.Record
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		}); err != nil {
			return err
		}

		for _, attr := range s.indexed {
			if value := rec.Field(attr); value != "" {
				if err := txn.Delete(idxKey(attr, value)); err != nil {
					return err
				}
			}
		}

		return txn.Delete(recKey(id))
	})

	return s.wrapStorageErr(err)
}

// Exists reports whether any persisted record has the given value for
// the named attribute. Indexed attributes answer with one point lookup;
// others scan all records.
func (s *BadgerStore) Exists(_ context.Context, attribute, value string) (bool, error) {
	var found bool

	err := s.db.View(func(txn *badger.Txn) error {
		if s.isIndexed(attribute) {
			_, err := txn.Get(idxKey(attribute, value))
			if err == nil {
				found = true
				return nil
			}
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec domain.Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				if rec.Field(attribute) == value {
					found = true
				}
				return nil
			})
			if err != nil {
				return err
			}
			if found {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return false, s.wrapStorageErr(err)
	}

	return found, nil
}

// UpdateField persists a single-field change for an existing record.
//
// The stored record, the old index entry, and the new index entry are
// updated in one transaction. The caller's in-memory record is
// synchronized with the stored version on success.
func (s *BadgerStore) UpdateField(_ context.Context, rec securetoken.Record, attribute, value string) error {
	dr, ok := rec.(*domain.Record)
	if !ok {
		return domain.ErrRecordValidation.WithDetails("unexpected record type")
	}

	var updated domain.Record

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(recKey(dr.ID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		var stored domain.Record
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return err
		}

		if s.isIndexed(attribute) {
			item, err := txn.Get(idxKey(attribute, value))
			if err == nil {
				var owner string
				if err := item.Value(func(val []byte) error {
					owner = string(val)
					return nil
				}); err != nil {
					return err
				}
				if owner != dr.ID {
					return domain.ErrTokenValueConflict.WithDetails(attribute)
				}
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			if old := stored.Field(attribute); old != "" {
				if err := txn.Delete(idxKey(attribute, old)); err != nil {
					return err
				}
			}
			if err := txn.Set(idxKey(attribute, value), []byte(dr.ID)); err != nil {
				return err
			}
		}

		stored.SetField(attribute, value)
		stored.Touch()
		stored.IncrVersion()

		data, err := json.Marshal(&stored)
		if err != nil {
			return err
		}
		if err := txn.Set(recKey(dr.ID), data); err != nil {
			return err
		}

		updated = stored
		return nil
	})
	if err != nil {
		return s.wrapStorageErr(err)
	}

	dr.Version = updated.Version
	dr.UpdatedAt = updated.UpdatedAt

	return nil
}

// Count returns the total number of stored records.
func (s *BadgerStore) Count(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, s.wrapStorageErr(err)
	}
	return count, nil
}

// GC runs Badger value log garbage collection until nothing is left to
// reclaim.
func (s *BadgerStore) GC(_ context.Context) error {
	start := time.Now()

	for {
		err := s.db.RunValueLogGC(s.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return fmt.Errorf("gc: %w", err)
		}
	}

	s.lastGCTime.Store(time.Now().UnixMilli())
	s.logger.Debug("badger gc completed", "elapsed", time.Since(start))

	return nil
}

// RegisterMetrics registers store metrics with Prometheus and starts
// the background updater. Call once during initialization.
func (s *BadgerStore) RegisterMetrics(registry *prometheus.Registry) *BadgerStore {
	s.metricsLSMSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "securetoken",
		Subsystem: "badger",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	})

	s.metricsValueLogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "securetoken",
		Subsystem: "badger",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	})

	s.metricsRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "securetoken",
		Subsystem: "badger",
		Name:      "records",
		Help:      "Number of stored records",
	})

	registry.MustRegister(
		s.metricsLSMSize,
		s.metricsValueLogSize,
		s.metricsRecords,
	)

	go s.metricsUpdateLoop()

	return s
}

// metricsUpdateLoop periodically refreshes the Prometheus gauges.
func (s *BadgerStore) metricsUpdateLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lsm, vlog := s.db.Size()
			s.metricsLSMSize.Set(float64(lsm))
			s.metricsValueLogSize.Set(float64(vlog))

			if count, err := s.Count(context.Background()); err == nil {
				s.metricsRecords.Set(float64(count))
			}

		case <-s.stopCh:
			return
		}
	}
}

// gcLoop runs periodic value log garbage collection.
func (s *BadgerStore) gcLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if err := s.GC(ctx); err != nil {
				s.logger.Error("auto gc failed", "error", err)
			}
			cancel()

		case <-s.stopCh:
			return
		}
	}
}

// Close gracefully shuts down the store.
func (s *BadgerStore) Close() error {
	close(s.stopCh)
	<-s.doneCh

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	s.logger.Info("badger store closed")
	return nil
}

// wrapStorageErr wraps raw Badger errors as storage errors while
// letting domain errors pass through unmodified.
func (s *BadgerStore) wrapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		return err
	}
	return domain.ErrStorageError.WithCause(err)
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
