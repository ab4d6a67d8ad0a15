package changelog

import (
	"context"
	"sync"
	"time"

	"github.com/oscarhermoso/cubecache/blobcache"
	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/index"
	"github.com/oscarhermoso/cubecache/internal/jsonbody"
	"github.com/oscarhermoso/cubecache/internal/logging"
	"github.com/oscarhermoso/cubecache/objectstore"
	"golang.org/x/sync/errgroup"
)

// Page is one page of a cube's changelogs, newest first.
type Page struct {
	Items []Document

	// Next resumes the listing; nil when there are no more changelogs.
	Next *index.Cursor
}

// Store reads and writes changelog documents.
type Store struct {
	blobs  objectstore.Store
	index  index.Index
	cache  *blobcache.Cache[Changelog]
	bucket string

	logger      *logging.Logger
	concurrency int
	clock       func() time.Time
	newID       func() string
}

// NewStore creates a changelog store. Bodies live in bucket of blobs, the
// cube listing lives in idx and decoded bodies are cached in cache under their object key.
func NewStore(blobs objectstore.Store, idx index.Index, cache *blobcache.Cache[Changelog], bucket string, opts ...Option) *Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Store{
		blobs:       blobs,
		index:       idx,
		cache:       cache,
		bucket:      bucket,
		logger:      o.logger.WithComponent("changelog"),
		concurrency: o.concurrency,
		clock:       o.clock,
		newID:       o.newID,
	}
}

// GetByID returns the changelog id of cube cubeID.
//
// Cached changelogs are returned without a store read. A missing changelog
// returns an error with errors.CodeNotFound and an unreadable body one with
// errors.CodeDecodeFailed. A body read while the same changelog was being
// rewritten is returned but not cached.
func (s *Store) GetByID(ctx context.Context, cubeID, id string) (Changelog, error) {
	if err := validateIDs(cubeID, id); err != nil {
		return nil, err
	}

	key := Key(cubeID, id)
	return s.cache.GetOrLoad(key, func() (Changelog, error) {
		return s.fetch(ctx, key, id)
	})
}

func (s *Store) fetch(ctx context.Context, key, id string) (Changelog, error) {
	body, err := s.blobs.GetObject(ctx, s.bucket, key)
	if err != nil {
		logging.LogStoreError(ctx, s.logger, logging.OpGetDocument, s.bucket, key, err)
		return nil, errors.WithContext(err, "id", id)
	}

	cl, err := jsonbody.Decode[Changelog](body)
	if err != nil {
		s.logger.Error(ctx, "failed to decode changelog",
			"operation", string(logging.OpGetDocument),
			"key", key,
			"error", err.Error())
		return nil, errors.WithContext(err, "key", key)
	}
	if cl == nil {
		return nil, errors.WithContext(
			errors.New(errors.CodeDecodeFailed, "changelog body is null"),
			"key", key)
	}
	return cl, nil
}

// ListByCube returns one page of cube cubeID's changelogs, newest first.
// Pass the previous page's Next to continue; nil starts from the newest.
//
// Bodies are resolved concurrently and returned in index order. If any body
// cannot be read the whole page fails.
func (s *Store) ListByCube(ctx context.Context, cubeID string, cursor *index.Cursor, opts ...index.QueryOption) (Page, error) {
	result, err := s.index.Query(ctx, cubeID, cursor, opts...)
	if err != nil {
		return Page{}, errors.WithContext(
			errors.Wrap(err, errors.CodeIndexFailed, "failed to query changelog index"),
			"cube", cubeID)
	}

	items := make([]Document, len(result.Items))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)

	for i, item := range result.Items {
		eg.Go(func() error {
			cl, err := s.GetByID(egCtx, cubeID, item.ID)
			if err != nil {
				return err
			}
			items[i] = Document{
				ID:        item.ID,
				CubeID:    cubeID,
				Date:      item.SortKey,
				Changelog: cl,
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		s.logger.Warn(ctx, "failed to resolve changelog page",
			"operation", string(logging.OpListDocuments),
			"cube", cubeID,
			"error", err.Error())
		return Page{}, err
	}

	return Page{Items: items, Next: result.Next}, nil
}

// Put stores cl as a new changelog of cube cubeID and returns its id.
//
// The body is written before the index entry so a listed changelog always
// has a body. The new changelog is cached.
func (s *Store) Put(ctx context.Context, cl Changelog, cubeID string) (string, error) {
	id := s.newID()
	doc := Document{ID: id, CubeID: cubeID, Date: s.clock().UnixMilli(), Changelog: cl}
	if err := doc.Validate(); err != nil {
		return "", err
	}

	if err := s.writeBody(ctx, doc); err != nil {
		return "", err
	}

	item := index.Item{ID: id, PartitionKey: cubeID, SortKey: doc.Date}
	if err := s.index.Put(ctx, item); err != nil {
		s.logger.Warn(ctx, "failed to index changelog",
			"operation", string(logging.OpPutDocument),
			"cube", cubeID,
			"id", id,
			"error", err.Error())
		return "", errors.WithContext(
			errors.Wrap(err, errors.CodeIndexFailed, "failed to index changelog"),
			"id", id)
	}

	s.cache.Put(Key(cubeID, id), cl)
	return id, nil
}

// BatchPut writes many changelogs, typically during an import.
//
// All index entries are written in one call first; if that fails nothing else
// is written. Bodies are then written independently. Documents that fail
// validation or whose body write fails are reported in a *BatchError wrapped
// with errors.CodePartialFailure; every other document stays written.
func (s *Store) BatchPut(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	docs = append([]Document(nil), docs...)

	var (
		mu       sync.Mutex
		failures = make(map[int]DocumentError)
	)
	fail := func(i int, err error) {
		mu.Lock()
		failures[i] = DocumentError{ID: docs[i].ID, CubeID: docs[i].CubeID, Err: err}
		mu.Unlock()
	}

	now := s.clock().UnixMilli()
	valid := make([]int, 0, len(docs))
	items := make([]index.Item, 0, len(docs))
	for i := range docs {
		if err := docs[i].Validate(); err != nil {
			fail(i, err)
			continue
		}
		if docs[i].Date == 0 {
			docs[i].Date = now
		}
		valid = append(valid, i)
		items = append(items, index.Item{
			ID:           docs[i].ID,
			PartitionKey: docs[i].CubeID,
			SortKey:      docs[i].Date,
		})
	}

	if len(items) > 0 {
		if err := s.index.BatchPut(ctx, items); err != nil {
			s.logger.Error(ctx, "failed to index changelog batch",
				"operation", string(logging.OpBatchDocuments),
				"documents", len(items),
				"error", err.Error())
			return errors.WithContext(
				errors.Wrap(err, errors.CodeIndexFailed, "failed to index changelog batch"),
				"documents", len(items))
		}
	}

	var eg errgroup.Group
	eg.SetLimit(s.concurrency)
	for _, i := range valid {
		eg.Go(func() error {
			if err := s.writeBody(ctx, docs[i]); err != nil {
				fail(i, err)
				return nil
			}
			s.cache.Invalidate(Key(docs[i].CubeID, docs[i].ID))
			return nil
		})
	}
	_ = eg.Wait()

	if len(failures) == 0 {
		return nil
	}

	batchErr := &BatchError{Total: len(docs)}
	for i := range docs {
		if f, ok := failures[i]; ok {
			batchErr.Failures = append(batchErr.Failures, f)
		}
	}
	s.logger.Warn(ctx, "changelog batch partially failed",
		"operation", string(logging.OpBatchDocuments),
		"documents", len(docs),
		"failed", len(batchErr.Failures))

	return errors.Wrap(batchErr, errors.CodePartialFailure, "changelog batch partially failed")
}

// Invalidate drops the cached copy of changelog id of cube cubeID.
func (s *Store) Invalidate(cubeID, id string) {
	s.cache.Invalidate(Key(cubeID, id))
}

func (s *Store) writeBody(ctx context.Context, doc Document) error {
	body, err := jsonbody.Encode(doc.Changelog)
	if err != nil {
		return errors.WithContext(err, "id", doc.ID)
	}

	key := Key(doc.CubeID, doc.ID)
	if err := s.blobs.PutObject(ctx, s.bucket, key, body); err != nil {
		logging.LogStoreError(ctx, s.logger, logging.OpPutDocument, s.bucket, key, err)
		return errors.WithContext(
			errors.Wrapf(err, errors.CodeStoreWriteFailed, "failed to write changelog %s", doc.ID),
			"bucket", s.bucket)
	}
	return nil
}
