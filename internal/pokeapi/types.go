package pokeapi

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const spriteURLFormat = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png"

// ListResponse mirrors /pokemon?offset=&limit=.
type ListResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Entry `json:"results"`
}

// Entry is a named reference to a Pokémon resource.
type Entry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ItemID implements loader.Item using the numeric id at the end of the URL.
// Entries whose URL carries no id report 0.
func (e Entry) ItemID() int {
	trimmed := strings.TrimRight(e.URL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return 0
	}
	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil {
		return 0
	}
	return id
}

// SpriteURL returns the default front sprite, or "" when the id is unknown.
func (e Entry) SpriteURL() string {
	id := e.ItemID()
	if id <= 0 {
		return ""
	}
	return fmt.Sprintf(spriteURLFormat, id)
}

// DisplayName returns the title-cased name.
func (e Entry) DisplayName() string {
	return DisplayName(e.Name)
}

// NamedRef is PokeAPI's generic {name,url} pair.
type NamedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// TypeSlot is one of a Pokémon's types.
type TypeSlot struct {
	Slot int      `json:"slot"`
	Type NamedRef `json:"type"`
}

// Sprites holds image URLs.
type Sprites struct {
	FrontDefault string `json:"front_default"`
}

// Detail mirrors /pokemon/{name}. Height is in decimetres, weight in hectograms.
type Detail struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Height  int        `json:"height"`
	Weight  int        `json:"weight"`
	Types   []TypeSlot `json:"types"`
	Sprites Sprites    `json:"sprites"`
}

// HeightMetres converts Height to metres.
func (d Detail) HeightMetres() float64 {
	return float64(d.Height) / 10
}

// WeightKilograms converts Weight to kilograms.
func (d Detail) WeightKilograms() float64 {
	return float64(d.Weight) / 10
}

// TypeNames returns type names ordered by slot.
func (d Detail) TypeNames() []string {
	names := make([]string, len(d.Types))
	for i, slot := range d.Types {
		names[i] = slot.Type.Name
	}
	return names
}

// DexNumber formats the id the way the Pokédex does, e.g. #025.
func (d Detail) DexNumber() string {
	return fmt.Sprintf("#%03d", d.ID)
}

// DisplayName title-cases a PokeAPI slug such as "mr-mime".
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}
