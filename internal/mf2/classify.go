// Package mf2 turns resolved microformats into link and page metadata.
package mf2

import (
	"slices"
	"strings"

	"github.com/emrgen/webmention/internal/xray"
)

const (
	TypeInvite   = "invite"
	TypeRepost   = "repost"
	TypeLike     = "like"
	TypeBookmark = "bookmark"
	TypeReply    = "reply"
	TypeLink     = "link"
)

// rule classifies a post carrying property. When checkTarget is set the
// link is direct only if the property lists the target itself; otherwise
// the mention reached us through a bridge such as a silo backfeed.
type rule struct {
	property    string
	typeOf      func(data xray.PostData) string
	checkTarget bool
}

func named(t string) func(xray.PostData) string {
	return func(xray.PostData) string { return t }
}

// rules are evaluated in order and the first present property wins.
var rules = []rule{
	{property: "rsvp", typeOf: func(data xray.PostData) string {
		return "rsvp-" + strings.ToLower(data.String("rsvp"))
	}},
	{property: "invitee", typeOf: named(TypeInvite)},
	{property: "repost-of", typeOf: named(TypeRepost), checkTarget: true},
	{property: "like-of", typeOf: named(TypeLike), checkTarget: true},
	{property: "bookmark-of", typeOf: named(TypeBookmark), checkTarget: true},
	{property: "in-reply-to", typeOf: named(TypeReply), checkTarget: true},
}

// Classify returns the link type of a source post and whether it relates
// to target directly.
func Classify(data xray.PostData, target string) (string, bool) {
	for _, r := range rules {
		if !data.Has(r.property) {
			continue
		}

		direct := true
		if r.checkTarget {
			direct = slices.Contains(data.Strings(r.property), target)
		}

		return r.typeOf(data), direct
	}

	return TypeLink, true
}
