package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// ParseFileID returns the file id encoded in a share-link, either as an
// id=<id> query parameter or as a /file/d/<id>/ path segment.
func ParseFileID(link string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", false
	}

	if id := u.Query().Get("id"); id != "" {
		return id, true
	}

	segments := strings.Split(u.Path, "/")
	for i := 0; i+2 < len(segments); i++ {
		if segments[i] == "file" && segments[i+1] == "d" && segments[i+2] != "" {
			return segments[i+2], true
		}
	}

	return "", false
}

var embeddedNamePattern = regexp.MustCompile(`\d+ - [^./]+`)

// embeddedName scans the link's path segments for "<digits> - <name>".
func embeddedName(link string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", false
	}

	for _, segment := range strings.Split(u.EscapedPath(), "/") {
		decoded, err := url.PathUnescape(segment)
		if err != nil {
			decoded = segment
		}
		if match := embeddedNamePattern.FindString(decoded); match != "" {
			return match, true
		}
	}

	return "", false
}
