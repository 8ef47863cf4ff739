package avatar

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"strings"
)

// Archiver maps a remote author photo to its archived copy.
type Archiver interface {
	ArchiveURL(photo string) string
}

// Rewriter points photos at an avatar archive laid out as
// {base}/{host}/{sha256(photo)}{ext}.
type Rewriter struct {
	base string
}

var _ Archiver = (*Rewriter)(nil)

func NewRewriter(base string) *Rewriter {
	return &Rewriter{base: strings.TrimRight(base, "/")}
}

func (r *Rewriter) ArchiveURL(photo string) string {
	if r.base == "" || photo == "" {
		return photo
	}

	u, err := url.Parse(photo)
	if err != nil || u.Host == "" {
		return photo
	}

	sum := sha256.Sum256([]byte(photo))
	ext := strings.ToLower(path.Ext(u.Path))
	if len(ext) > 5 {
		ext = ""
	}

	return r.base + "/" + u.Hostname() + "/" + hex.EncodeToString(sum[:]) + ext
}
