// Package catalog is the single entry point the rest of marvelx uses for character data.
//
// [Repository] decides which source answers a request. The saved copy in the local store is authoritative for
// everything the user has favorited; the remote API is consulted only on explicit "from web" requests or, through
// [Repository.GetCharacter], when no saved copy exists. Remote results are never persisted implicitly: saving is a
// separate, explicit action.
package catalog
