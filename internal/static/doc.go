// Package static implements the cached static file handler. A request walks
// through path decoding and traversal rejection, an optional in-memory cache
// short-circuit, ordered multi-root resolution, full-file load with optional
// transform, MIME resolution with signature sniffing, lowercase header
// assembly and conditional-GET evaluation. Successful fresh reads are written
// back to the shared cache store so later requests skip the filesystem
// entirely. Handlers report "not handled" instead of erroring when no root
// owns the path, letting the router fall through to other mounts or a final
// 404.
package static
