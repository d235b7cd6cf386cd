// Package server provides HTTP routing, middleware, and the JSON character API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] added first runs outermost: [NewAPI] stacks request id, then logging, then panic recovery.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /path/{id}"), so one path
// can serve several methods and anything else gets 405. [BasicRouter.Routes] lists what is mounted; [Server]
// logs it at debug level on start.
//
// # Character API
//
// [CharacterHandler] serves the saved characters over JSON:
//
//	GET    /api/characters                 → saved characters (?name= prefix, ?limit=)
//	GET    /api/characters/events          → saved characters as a Server-Sent Events stream
//	GET    /api/characters/{id}            → {"character": ..., "saved": bool}; saved copy first, then web
//	PUT    /api/characters/{id}/favorite   → fetch from the web if needed and save
//	DELETE /api/characters/{id}/favorite   → unfavorite (idempotent)
//	GET    /healthz                        → {"status": "ok"}
//
// Errors are written as {"error": message, "kind": kind} with the status picked from [shared.ErrorKind].
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
