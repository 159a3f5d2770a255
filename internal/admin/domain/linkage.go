package domain

import (
	"regexp"
	"strings"
)

// LinkagePrefix starts the textual token that ties an orphan review to the
// pending establishment it was submitted with.
const LinkagePrefix = "pending_establishment_id:"

// LinkageToken renders the token persisted in a review's moderator note.
func LinkageToken(pendingID string) string {
	return LinkagePrefix + strings.TrimSpace(pendingID)
}

// LinkagePattern matches the token for pendingID and nothing that merely starts
// with it, so id "1" never claims the reviews of id "12".
func LinkagePattern(pendingID string) string {
	return regexp.QuoteMeta(LinkageToken(pendingID)) + `(?:[^0-9A-Za-z_-]|$)`
}

// LinkedPendingID extracts the pending id from a moderator note, if present.
func LinkedPendingID(note string) (string, bool) {
	idx := strings.Index(note, LinkagePrefix)
	if idx < 0 {
		return "", false
	}
	rest := note[idx+len(LinkagePrefix):]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(r == '-' || r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'))
	})
	if end >= 0 {
		rest = rest[:end]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}
