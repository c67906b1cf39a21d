// Package repositories implements SQLite persistence for the dashboard's credential jar.
//
// Key Implementations:
//   - [CookieRepository] : host-scoped cookie rows, unique per (host, name, path)
//   - [Jar] : an [http.CookieJar] over [CookieRepository], so a session set by POST /login survives
//     separate CLI invocations the way a browser profile keeps its cookies
//
// Expired cookies are removed on write and filtered on read.
package repositories
