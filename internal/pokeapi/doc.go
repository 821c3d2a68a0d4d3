// Package pokeapi provides a client for PokeAPI (https://pokeapi.co).
//
// The index endpoint is offset based; Pager turns it into the numbered pages
// a loader expects and clips browsing to a limit (151 by default). PokeAPI has
// no name search, so a query is answered with an exact lookup of
// /pokemon/{name}. Details are fetched separately with FetchDetail.
package pokeapi
