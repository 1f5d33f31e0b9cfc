// Package storage persists small navigation values, most importantly the
// last resolved URL under RouteKey.
//
// Backends:
//
//	store := storage.NewMemoryStore()
//	// or
//	store, err := storage.NewSQLStore(ctx, db, storage.WithDialect(storage.DialectSQLite))
//	// or
//	store := storage.NewS3Store(s3Client, "my-bucket", storage.WithS3Prefix("outlet/"))
//
// All backends are safe for concurrent use.
package storage
