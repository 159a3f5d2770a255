package domain_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
)

func TestLinkagePatternIsAnchored(t *testing.T) {
	pattern := regexp.MustCompile(domain.LinkagePattern("1"))

	assert.True(t, pattern.MatchString(domain.LinkageToken("1")))
	assert.True(t, pattern.MatchString("note; pending_establishment_id:1 (via form)"))
	assert.False(t, pattern.MatchString(domain.LinkageToken("12")))
	assert.False(t, pattern.MatchString("pending_establishment_id:1a"))
}

func TestLinkedPendingID(t *testing.T) {
	id, ok := domain.LinkedPendingID("pending_establishment_id:65f1c2ab9e0d3a0012345678")
	assert.True(t, ok)
	assert.Equal(t, "65f1c2ab9e0d3a0012345678", id)

	id, ok = domain.LinkedPendingID("imported; pending_establishment_id:ab-12 trailing")
	assert.True(t, ok)
	assert.Equal(t, "ab-12", id)

	_, ok = domain.LinkedPendingID("rejected by moderator")
	assert.False(t, ok)
	_, ok = domain.LinkedPendingID("pending_establishment_id:")
	assert.False(t, ok)
}
