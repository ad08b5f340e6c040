package engine

import "github.com/yukikurage/taskmaster-api/internal/models"

// ExtractTags returns the distinct tags used across the collection in the
// order they are first seen.
func ExtractTags(tasks []models.Task) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, task := range tasks {
		for _, tag := range task.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}
