package rickmorty

import "time"

// CharacterResponse mirrors the payload returned by /character.
type CharacterResponse struct {
	Info    Info        `json:"info"`
	Results []Character `json:"results"`
}

// Info carries the API's pagination metadata. Next is nil on the last page.
type Info struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// HasNext reports whether another page follows.
func (i Info) HasNext() bool {
	return i.Next != nil && *i.Next != ""
}

// Status is a character's life status.
type Status string

const (
	StatusAlive   Status = "Alive"
	StatusDead    Status = "Dead"
	StatusUnknown Status = "unknown"
)

// Gender is a character's gender as reported by the API.
type Gender string

const (
	GenderFemale     Gender = "Female"
	GenderMale       Gender = "Male"
	GenderGenderless Gender = "Genderless"
	GenderUnknown    Gender = "unknown"
)

// Location references an origin or last-known location.
type Location struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Character is a single entry in the character list.
type Character struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   Status   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   Gender   `json:"gender"`
	Origin   Location `json:"origin"`
	Location Location `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	URL      string   `json:"url"`
	Created  string   `json:"created"`
}

// ItemID implements loader.Item.
func (c Character) ItemID() int {
	return c.ID
}

// EpisodeCount returns how many episodes the character appears in.
func (c Character) EpisodeCount() int {
	return len(c.Episode)
}

// CreatedAt returns the parsed creation timestamp, or the zero time.
func (c Character) CreatedAt() time.Time {
	if c.Created == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, c.Created); err == nil {
			return t
		}
	}
	return time.Time{}
}
