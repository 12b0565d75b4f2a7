package hints

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHintStore_UnblockKeepsHighestVersion(t *testing.T) {
	s := NewStore(zerolog.Nop())
	s.Load("hints/alice", []string{"unblock foo/1.0"}, "alice", PermissionStandard)
	s.Load("hints/bob", []string{"unblock foo/2.0"}, "bob", PermissionStandard)

	active := s.Search(SearchQuery{Type: TypeUnblock, Package: "foo", ActiveOnly: true})
	require.Len(t, active, 1)
	assert.Equal(t, "bob", active[0].User)
	assert.Equal(t, "2.0", active[0].Packages[0].Version)
}

func TestHintStore_UnblockLowerVersionDoesNotDisplaceHigher(t *testing.T) {
	s := NewStore(zerolog.Nop())
	s.Load("hints/alice", []string{"unblock foo/2.0"}, "alice", PermissionStandard)
	s.Load("hints/bob", []string{"unblock foo/1.0"}, "bob", PermissionStandard)

	active := s.Search(SearchQuery{Type: TypeUnblock, Package: "foo", ActiveOnly: true})
	require.Len(t, active, 1)
	assert.Equal(t, "alice", active[0].User)
}

func TestHintStore_OtherTypesLastDeclaredWins(t *testing.T) {
	s := NewStore(zerolog.Nop())
	s.Load("hints/alice", []string{"block foo"}, "alice", PermissionAll)
	s.Load("hints/bob", []string{"block foo"}, "bob", PermissionAll)

	active := s.Search(SearchQuery{Type: TypeBlock, Package: "foo", ActiveOnly: true})
	require.Len(t, active, 1)
	assert.Equal(t, "bob", active[0].User)
}

func TestHintStore_IsEmpty(t *testing.T) {
	s := NewStore(zerolog.Nop())
	assert.True(t, s.IsEmpty())
	s.Load("hints/alice", []string{"block foo"}, "alice", PermissionAll)
	assert.False(t, s.IsEmpty())
}

func TestHintStore_MalformedLineLoggedAndSkipped(t *testing.T) {
	s := NewStore(zerolog.Nop())
	s.Load("hints/alice", []string{"block", "unblock bar/1.0"}, "alice", PermissionAll)
	assert.Len(t, s.all, 1)
}

// block and unblock are distinct Types, so add's same-type conflict
// resolution never deactivates one against the other: both stay Active,
// and it's up to a caller (BlockPolicy) to break the tie by version.
func TestHintStore_BlockAndUnblockBothStayActive(t *testing.T) {
	s := NewStore(zerolog.Nop())
	s.Load("hints/release-team", []string{"block foo", "unblock foo/2"}, "release-team", PermissionAll)

	blocked := s.Search(SearchQuery{Type: TypeBlock, Package: "foo", ActiveOnly: true})
	require.Len(t, blocked, 1)
	unblocked := s.Search(SearchQuery{Type: TypeUnblock, Package: "foo", ActiveOnly: true})
	require.Len(t, unblocked, 1)
}

func TestHintStore_SearchFiltersByVersion(t *testing.T) {
	s := NewStore(zerolog.Nop())
	s.Load("hints/release-team", []string{"force foo/1.0"}, "release-team", PermissionAll)

	assert.Len(t, s.Search(SearchQuery{Type: TypeForce, Package: "foo", Version: "1.0", ActiveOnly: true}), 1)
	assert.Empty(t, s.Search(SearchQuery{Type: TypeForce, Package: "foo", Version: "2.0", ActiveOnly: true}))
}

func TestHintStore_SearchVersionWildcardMatchesUnversionedItem(t *testing.T) {
	s := NewStore(zerolog.Nop())
	s.Load("hints/release-team", []string{"block foo"}, "release-team", PermissionAll)

	assert.Len(t, s.Search(SearchQuery{Type: TypeBlock, Package: "foo", Version: "2.0", ActiveOnly: true}), 1)
}

func TestHintStore_SearchFiltersByRemoval(t *testing.T) {
	s := NewStore(zerolog.Nop())
	s.Load("hints/release-team", []string{"remove foo/1.0"}, "release-team", PermissionAll)

	isRemoval := true
	assert.Len(t, s.Search(SearchQuery{Package: "foo", Removal: &isRemoval}), 1)
	notRemoval := false
	assert.Empty(t, s.Search(SearchQuery{Package: "foo", Removal: &notRemoval}))
}
