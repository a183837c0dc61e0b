package store

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"EstateHub/models"
)

const (
	// DefaultSizeLimit is the soft ceiling on a primary listing document.
	// Kept well under the backing store's own per-document limit.
	DefaultSizeLimit = 500000
	// DefaultGroupSize is how many images travel together in one group.
	DefaultGroupSize = 3
)

// documentSize estimates how large the listing would be on the wire with
// its full image list embedded.
func documentSize(l *models.Listing) int {
	data, err := bson.Marshal(l)
	if err != nil {
		return 0
	}
	return len(data)
}

func splitImages(images []string, groupSize int) [][]string {
	if groupSize <= 0 {
		groupSize = DefaultGroupSize
	}
	var groups [][]string
	for start := 0; start < len(images); start += groupSize {
		end := start + groupSize
		if end > len(images) {
			end = len(images)
		}
		groups = append(groups, images[start:end])
	}
	return groups
}

// planChunks decides the storage layout for a listing. When the full
// document fits under the limit (or there are no images) everything stays
// embedded and no chunks are produced. Otherwise the first group stays on
// the primary document and each later group becomes an overflow chunk,
// indexed from 1. The returned count covers the embedded group too, so a
// count above 1 means chunks exist.
func planChunks(l *models.Listing, limit, groupSize int) (embedded []string, chunks []models.ImageChunk, count int) {
	if limit <= 0 {
		limit = DefaultSizeLimit
	}
	if len(l.Images) == 0 || documentSize(l) <= limit {
		return l.Images, nil, 1
	}

	groups := splitImages(l.Images, groupSize)
	embedded = groups[0]
	for i, group := range groups[1:] {
		chunks = append(chunks, models.ImageChunk{
			ListingID: l.ID,
			Index:     i + 1,
			Images:    group,
		})
	}
	return embedded, chunks, len(groups)
}

// selectChunks resolves overlapping chunk generations down to the one the
// primary document committed to: the newest document per index wins, and
// indexes at or beyond chunkCount are discarded.
func selectChunks(chunks []models.ImageChunk, chunkCount int) []models.ImageChunk {
	byIndex := make(map[int]models.ImageChunk)
	for _, chunk := range chunks {
		if chunk.Index >= chunkCount {
			continue
		}
		if prev, ok := byIndex[chunk.Index]; !ok || chunk.CreatedAt.After(prev.CreatedAt) {
			byIndex[chunk.Index] = chunk
		}
	}
	selected := make([]models.ImageChunk, 0, len(byIndex))
	for _, chunk := range byIndex {
		selected = append(selected, chunk)
	}
	return selected
}

// assembleImages rebuilds the original image order: the primary document's
// embedded slice first, then every chunk in ascending index order.
func assembleImages(embedded []string, chunks []models.ImageChunk) []string {
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	images := make([]string, 0, len(embedded))
	images = append(images, embedded...)
	for _, chunk := range chunks {
		images = append(images, chunk.Images...)
	}
	return images
}
