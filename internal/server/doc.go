// Package server serves the dashboard as a local web application.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with per-path method tables,
// so one path may be registered for several methods.
//
// # Dashboard Handler
//
// [DashboardHandler] turns each request into a page load: it builds a fresh [dom.Document], reads the
// Cookie Map from the credential jar and lets the dashboard flows render into the document before
// writing the full page. The login form posts to /login, the search bar submits to /search and
// POST /logout clears the jar.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
