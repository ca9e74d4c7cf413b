package services

import (
	"net/url"
	"strings"

	"github.com/cre8tlystudio/adminctl/internal/client/models"
)

// segment escapes id for use as one URL path segment. Dot segments are
// percent-encoded so they cannot climb out of the resource path.
func segment(id models.ID) string {
	s := id.String()
	if s == "." || s == ".." {
		return strings.ReplaceAll(s, ".", "%2E")
	}
	return url.PathEscape(s)
}
