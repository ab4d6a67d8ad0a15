// Package objclient provides the cached object client: get, put and delete
// over an objectstore.Store with a blobcache.Cache in front.
//
// # Read path
//
// Get serves from the cache when it can. On a miss it fetches the body,
// decodes it (unwrapping bodies stored as a JSON string of JSON), caches the
// decoded value and returns it. Any failure on this path (missing object,
// transport error, undecodable body) is logged and reported as a miss; the
// cache is left untouched.
//
// # Write path
//
// Put invalidates the key, caches the new value and then writes it to the
// store, so a Get in the same process observes the new value immediately.
// Store failures are returned to the caller.
//
// Delete removes the remote object and, unless WithInvalidateOnDelete is
// set, leaves any cached copy in place. Callers that need read-after-delete
// consistency in one process should enable the option.
package objclient
