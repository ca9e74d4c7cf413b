// Package session owns the console's authenticated state: the persisted
// access/refresh credential with the admin profile, and the single slot for
// an in-flight credential refresh.
//
// # Coalesced refresh
//
// Any number of requests may observe an expired access token at the same
// time. The first caller of Manager.Refresh that finds the slot empty becomes
// the only writer: it runs the exchange, stores the new pair, and on failure
// performs the forced logout exactly once. Every other caller waits on the
// slot and receives the same token or the same error without touching the
// slot or logging out.
//
// A caller whose request was sent with a token that has since been replaced
// gets the current token back without starting another refresh.
//
// A request that carried no token while no session exists is answered with
// ErrNotLoggedIn. Nothing is exchanged and the navigator is not called.
package session
