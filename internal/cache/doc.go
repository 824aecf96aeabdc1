// Package cache provides a file-based cache for generated critique reports.
//
// Cache entries are keyed by a SHA-256 hash of the provider name, model,
// temperature and the exact prompts sent, which already embed the redacted
// node tree. Each entry stores the report text along with a creation
// timestamp and a TTL (in seconds). Expired entries are skipped on read and
// removed during cache-clear operations.
//
// The default cache directory is $XDG_CACHE_HOME/figcrit (or the
// OS-appropriate equivalent).
package cache
