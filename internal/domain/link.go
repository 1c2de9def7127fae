package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MediaLink is a remote lecture recording the downloader can fetch
type MediaLink struct {
	URL     string
	Host    string
	VideoID string // set for recognised YouTube links
}

var (
	// Matches watch?v=ID, youtu.be/ID, /shorts/ID and /live/ID forms
	youtubeURLPattern = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|live/|embed/)|youtu\.be/)([A-Za-z0-9_-]{11})`)
	// A bare 11 character YouTube video ID
	youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ParseMediaLink accepts a YouTube URL or ID, or any http(s) URL yt-dlp may understand
func ParseMediaLink(input string) (*MediaLink, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	if matches := youtubeURLPattern.FindStringSubmatch(input); len(matches) > 1 {
		u, err := url.Parse(input)
		if err != nil {
			return nil, fmt.Errorf("invalid URL %q: %w", input, err)
		}
		return &MediaLink{URL: input, Host: u.Hostname(), VideoID: matches[1]}, nil
	}

	if youtubeIDPattern.MatchString(input) {
		return &MediaLink{
			URL:     "https://www.youtube.com/watch?v=" + input,
			Host:    "www.youtube.com",
			VideoID: input,
		}, nil
	}

	u, err := url.Parse(input)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid media URL or video ID: %s", input)
	}

	return &MediaLink{URL: input, Host: u.Hostname()}, nil
}
