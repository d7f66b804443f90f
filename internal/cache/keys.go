package cache

// Key prefixes. Project and episode entries live under disjoint namespaces
// and are never merged into one record.
const (
	// PrefixProject is the prefix for project index entries (project:{slug})
	PrefixProject = "project:"

	// PrefixEpisode is the prefix for full episode detail entries (episode:{guid})
	PrefixEpisode = "episode:"
)

// ProjectKey returns the backing-store key for a project slug
func ProjectKey(slug string) string {
	return PrefixProject + slug
}

// EpisodeKey returns the backing-store key for an episode guid
func EpisodeKey(guid string) string {
	return PrefixEpisode + guid
}
