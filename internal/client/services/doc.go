// Package services contains the admin console's application services. Each
// service maps one area of the Cre8tlyStudio admin API (authentication,
// dashboard, community, message board, website analytics) onto typed Go
// calls over a client.Client, and owns the small amount of client-side
// logic that area needs: persisting the session after login, building
// comment trees, caching geocode lookups.
package services
