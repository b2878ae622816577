package gallery

import (
	"fmt"
	"net/url"
)

// Feed URL templates of the photo site
const (
	galleryFeedTemplate  = "https://%s/hack/feed.mg?Type=gallery&Data=%s&format=rss200"
	nicknameFeedTemplate = "https://%s/hack/feed.mg?Type=nickname&Data=%s&format=rss200"
)

// Source identifies which gallery to load.
// When more than one field is set, GalleryID takes precedence over GalleryURL, which takes precedence over Nickname.
type Source struct {
	GalleryID  string
	GalleryURL string
	Nickname   string
}

// Validate returns ErrConfiguration if no gallery source is set
func (s Source) Validate() error {
	if s.GalleryID == "" && s.GalleryURL == "" && s.Nickname == "" {
		return fmt.Errorf("need a gallery id, gallery url or nickname: %w", ErrConfiguration)
	}

	return nil
}

func (s Source) String() string {
	switch {
	case s.GalleryID != "":
		return "id:" + s.GalleryID
	case s.GalleryURL != "":
		return "url:" + s.GalleryURL
	case s.Nickname != "":
		return "nickname:" + s.Nickname
	}

	return "none"
}

// GalleryFeedURL returns the RSS feed URL for a gallery id on a site
func GalleryFeedURL(site, galleryID string) string {
	return fmt.Sprintf(galleryFeedTemplate, site, url.QueryEscape(galleryID))
}

// NicknameFeedURL returns the RSS feed URL of the recent uploads of a site user
func NicknameFeedURL(site, nickname string) string {
	return fmt.Sprintf(nicknameFeedTemplate, site, url.QueryEscape(nickname))
}
