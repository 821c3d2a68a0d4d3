// Package loader implements incremental, search-aware loading of paged lists.
//
// # Overview
//
// A Loader pulls pages from a Fetcher and keeps the accumulated list together
// with the flags a presenter needs to draw it: whether a fetch is running,
// whether more pages exist, and the last classified error.
//
//	┌───────────┐  Load / Search / Refresh   ┌──────────┐  FetchPage(n, q)  ┌─────────┐
//	│ presenter │ ─────────────────────────> │  Loader  │ ────────────────> │ Fetcher │
//	│           │ <───────── State ───────── │ (mutex)  │ <── Page / error ─│         │
//	└───────────┘                            └──────────┘                   └─────────┘
//
// # State Transitions
//
// Every mutation goes through one guarded path:
//
//  1. If a fetch is already running the call returns the current state untouched.
//  2. A reset (explicit, or because the query changed) clears the items,
//     rewinds to page 1 and re-enables further loading.
//  3. The loader marks itself loading and clears the previous error.
//  4. On success the page is appended; the page counter advances only when
//     the fetcher reports another page, otherwise loading more is disabled.
//  5. On failure the error is classified. Not-found disables loading more;
//     all other kinds leave it alone so the user can retry.
//  6. Loading is cleared on every path.
//
// Calls made while a fetch is in flight are dropped, not queued. An in-flight
// fetch is never cancelled by a later call; the context passed to the first
// call governs it, and timeouts belong to the Fetcher.
//
// # Errors
//
// Fetchers report failures as *FetchError values carrying a Kind. Anything
// else is passed through Classify. Errors are never returned to the caller;
// they are only visible through State.Err.
//
// # Prefetching
//
// LoadMoreIfNeeded is called with the id of an item the user can see. When
// that item sits within the prefetch distance of the end of the list the next
// page is loaded. Repeated calls for rows in the same window are harmless:
// while the fetch runs they are dropped by the loading guard, and afterwards
// the window has moved.
package loader
