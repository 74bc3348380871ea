// Package domain contains the core business entities and types.
package domain

import (
	"net/url"
	"strings"
)

// Platform identifies a supported source service.
type Platform string

const (
	PlatformYouTube     Platform = "youtube"
	PlatformInstagram   Platform = "instagram"
	PlatformTikTok      Platform = "tiktok"
	PlatformTwitter     Platform = "twitter"
	PlatformFacebook    Platform = "facebook"
	PlatformDailymotion Platform = "dailymotion"
	PlatformVimeo       Platform = "vimeo"
	PlatformUnknown     Platform = "unknown"
)

// DownloadType identifies the kind of content to download.
type DownloadType string

const (
	TypeVideo      DownloadType = "video"
	TypeAudio      DownloadType = "audio"
	TypePost       DownloadType = "post"
	TypeStory      DownloadType = "story"
	TypeProfilePic DownloadType = "profile_pic"
	TypeHighlights DownloadType = "highlights"
)

// domainEntry maps a host substring to a platform. Resolution iterates the
// table in declared order, so it must stay a slice: map iteration order
// would make detection non-deterministic if substrings ever overlap.
type domainEntry struct {
	substring string
	platform  Platform
}

var supportedDomains = []domainEntry{
	{"youtube.com", PlatformYouTube},
	{"youtu.be", PlatformYouTube},
	{"instagram.com", PlatformInstagram},
	{"tiktok.com", PlatformTikTok},
	{"twitter.com", PlatformTwitter},
	{"x.com", PlatformTwitter},
	{"facebook.com", PlatformFacebook},
	{"fb.watch", PlatformFacebook},
	{"dailymotion.com", PlatformDailymotion},
	{"dai.ly", PlatformDailymotion},
	{"vimeo.com", PlatformVimeo},
}

// DetectPlatform resolves a URL to a platform by matching its host against
// the supported domain table. Unknown is a valid result, not an error.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	for _, entry := range supportedDomains {
		if strings.Contains(host, entry.substring) {
			return entry.platform
		}
	}

	return PlatformUnknown
}

// ParsePlatform converts a CLI platform name to a Platform.
// "auto" maps to Unknown, which makes batch mode detect per URL.
func ParsePlatform(name string) (Platform, bool) {
	switch strings.ToLower(name) {
	case "youtube":
		return PlatformYouTube, true
	case "instagram":
		return PlatformInstagram, true
	case "tiktok":
		return PlatformTikTok, true
	case "twitter":
		return PlatformTwitter, true
	case "facebook":
		return PlatformFacebook, true
	case "dailymotion":
		return PlatformDailymotion, true
	case "vimeo":
		return PlatformVimeo, true
	case "auto":
		return PlatformUnknown, true
	}
	return PlatformUnknown, false
}

// ParseDownloadType converts a CLI type name to a DownloadType.
func ParseDownloadType(name string) (DownloadType, bool) {
	switch strings.ToLower(name) {
	case "video":
		return TypeVideo, true
	case "audio":
		return TypeAudio, true
	case "post":
		return TypePost, true
	case "story":
		return TypeStory, true
	case "profile-pic":
		return TypeProfilePic, true
	case "highlights":
		return TypeHighlights, true
	}
	return "", false
}
