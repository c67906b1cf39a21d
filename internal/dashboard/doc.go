// Package dashboard drives the TDS dashboard: it decides which view a page load shows and
// handles the login and search forms.
//
// # Routing
//
// A page load reads the [cookies.Map] once and hands it to [Router.Route]. The router asks the
// [Prober] whether the session is still accepted by the server and only then renders exactly one
// of the two views. A map without a "session" entry is rejected without touching the network.
//
// # Flows
//
// [LoginFlow] renders the login form and handles its submission: a form with an empty field shows
// an alert and never reaches the network; a successful POST /login hands over to [HomeFlow];
// a rejected login keeps the form up and shows the server's description in the alert.
//
// [HomeFlow] renders the search bar and sends submitted searches to the applications resource,
// passing matches to a [ResultRenderer].
//
// All rendering goes through a [dom.Sink], which skips writes that would not change a mount.
package dashboard
