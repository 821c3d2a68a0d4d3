// Package rickmorty provides a client for the public Rick and Morty API
// (https://rickandmortyapi.com).
//
// Only the paged character listing is used. Each page holds up to twenty
// characters; Info.Next is null on the last page. A name filter that matches
// nothing is answered with 404, which surfaces as a loader.KindNotFound error
// so the browser shows "no results" instead of offering a retry.
//
// Client implements loader.Fetcher[Character] directly.
package rickmorty
