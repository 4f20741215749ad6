package media

import "regexp"

var (
	youTubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`)
	youTubeIDPattern  = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`)
)

// IsValidYouTubeURL recognizes watch?v=, youtu.be/ and embed/ links
func IsValidYouTubeURL(url string) bool {
	return youTubeURLPattern.MatchString(url)
}

// YouTubeVideoID extracts the 11 character video id. ok is false when none is found.
func YouTubeVideoID(url string) (id string, ok bool) {
	match := youTubeIDPattern.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// YouTubeThumbnail returns the max resolution thumbnail URL, or "" for non-YouTube input
func YouTubeThumbnail(url string) string {
	id, ok := YouTubeVideoID(url)
	if !ok {
		return ""
	}
	return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
}

// NewYouTubeItem builds a youtube item with its derived thumbnail
func NewYouTubeItem(url string, order int, title string) (Item, bool) {
	if !IsValidYouTubeURL(url) {
		return Item{}, false
	}
	return Item{
		ID:        GenerateID(),
		Type:      TypeYouTube,
		URL:       url,
		Order:     order,
		Title:     title,
		Thumbnail: YouTubeThumbnail(url),
	}, true
}
