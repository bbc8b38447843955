package workspace

import (
	"sort"

	"github.com/desertthunder/labelgrid/internal/models"
	"github.com/sahilm/fuzzy"
)

// imageNames adapts a slice of images to [fuzzy.Source], matching on file name.
type imageNames []models.Image

func (s imageNames) String(i int) string { return s[i].Name }
func (s imageNames) Len() int            { return len(s) }

// FilterImages keeps the images whose names fuzzy-match query.
//
// Matches keep their display order so range selection over a filtered grid stays predictable.
// An empty query returns images unchanged.
func FilterImages(images []models.Image, query string) []models.Image {
	if query == "" {
		return images
	}

	matches := fuzzy.FindFrom(query, imageNames(images))
	indexes := make([]int, len(matches))
	for i, m := range matches {
		indexes[i] = m.Index
	}
	sort.Ints(indexes)

	filtered := make([]models.Image, len(indexes))
	for i, idx := range indexes {
		filtered[i] = images[idx]
	}
	return filtered
}
