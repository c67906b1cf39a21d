// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The TUI goes through three views:
//  1. [LoadingView] : the session probe is in flight; nothing is routed until it answers
//  2. [LoginView] : username and password fields backed by [dashboard.LoginFlow]
//  3. [HomeView] : an application search field and a results list backed by [dashboard.HomeFlow]
//
// Every network call runs as a [tea.Cmd] and reports back with a [Msg]. The flows render into a
// [dom.Document]; the model reads the mounted view and alert text back from it after each message.
package ui
