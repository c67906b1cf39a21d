// Package models defines the records exchanged with the TDS REST API and persisted by the dashboard.
//
// The package contains two categories of types:
//
// 1. Form payloads: typed records built from submitted forms and validated before transport
//   - [LoginForm] : credentials posted to /login
//   - [SearchForm] : application name query sent to /search/applications
//
// 2. Records
//   - [Application] : a row of the TDS applications collection, as returned by search
//   - [StoredCookie] : a credential jar entry persisted between runs
//
// [StoredCookie] implements the [Model] interface providing ID, timestamps and validation.
package models
