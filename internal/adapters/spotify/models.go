package spotify

import "strings"

// searchResponse is the subset of the /search payload the resolver reads.
type searchResponse struct {
	Tracks struct {
		Items []searchItem `json:"items"`
	} `json:"tracks"`
}

// searchItem is one track hit. PreviewURL is null for tracks without a clip.
type searchItem struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	PreviewURL *string        `json:"preview_url"`
	Artists    []searchArtist `json:"artists"`
}

type searchArtist struct {
	Name string `json:"name"`
}

func (i searchItem) artistNames() string {
	names := make([]string, 0, len(i.Artists))
	for _, a := range i.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
