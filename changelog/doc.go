// Package changelog stores cube changelogs: one JSON document per change set,
// kept in an object store and listed through a partitioned index keyed by
// cube id and creation time.
//
// Documents are cached by object key with the same bounded, oldest-insertion
// cache the object client uses. Unlike the object client, reads return their
// errors so listing pages fail as a whole instead of silently dropping entries.
//
// Basic usage:
//
//	docs, _ := blobcache.New[changelog.Changelog](cfg.DocumentCacheSize(), blobcache.WithName("changelog"))
//	store := changelog.NewStore(blobs, idx, docs, cfg.Store.Bucket)
//
//	id, err := store.Put(ctx, changes, cubeID)
//	page, err := store.ListByCube(ctx, cubeID, nil)
package changelog
