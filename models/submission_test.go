package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission_ApproveCreatesOwnedNiko(t *testing.T) {
	mem := setup(t)
	alice := createUser(t, "alice", false)
	admin := createUser(t, "admin", true)

	s, err := SubmissionCreate(alice, SubmissionChange{Name: "Prophetbot", Description: "robot"}, pngUpload(t))
	require.NoError(t, err)
	require.True(t, mem.Exists(s.Image))

	_, err = SubmissionApprove(alice, s.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	n, err := SubmissionApprove(admin, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Prophetbot", n.Name)
	require.NotNil(t, n.AuthorID)
	assert.Equal(t, alice.ID, *n.AuthorID)
	assert.Equal(t, "alice", n.AuthorName())
	assert.True(t, mem.Exists(n.ImagePath()))
	assert.False(t, mem.Exists(s.Image))

	_, err = SubmissionByID(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmission_ListAndDelete(t *testing.T) {
	mem := setup(t)
	alice := createUser(t, "alice", false)
	admin := createUser(t, "admin", true)
	now := setNow(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	older, err := SubmissionCreate(alice, SubmissionChange{Name: "older"}, pngUpload(t))
	require.NoError(t, err)
	*now = now.Add(time.Hour)
	newer, err := SubmissionCreate(alice, SubmissionChange{Name: "newer"}, pngUpload(t))
	require.NoError(t, err)

	list, err := SubmissionList()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	mine, err := SubmissionsByUser(alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = SubmissionDelete(alice, older.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = SubmissionDelete(admin, older.ID)
	require.NoError(t, err)
	assert.False(t, mem.Exists(older.Image))

	var validationErr *ValidationError
	_, err = SubmissionCreate(alice, SubmissionChange{Name: ""}, pngUpload(t))
	assert.ErrorAs(t, err, &validationErr)
}

func TestBanner(t *testing.T) {
	setup(t)
	alice := createUser(t, "alice", false)
	admin := createUser(t, "admin", true)

	b, err := BannerGet()
	require.NoError(t, err)
	assert.Equal(t, DefaultBanner(), b)
	assert.Equal(t, "0", b.BannerIdentifier)
	assert.True(t, b.IsDismissable)

	_, err = BannerSet(alice, BannerChange{Title: "hi"})
	assert.ErrorIs(t, err, ErrForbidden)

	first, err := BannerSet(admin, BannerChange{Title: "Maintenance", Content: "tonight", BannerColor: "#ff0000"})
	require.NoError(t, err)
	second, err := BannerSet(admin, BannerChange{Title: "Back", IsDismissable: true})
	require.NoError(t, err)
	assert.NotEqual(t, first.BannerIdentifier, second.BannerIdentifier)

	b, err = BannerGet()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b.ID)
	assert.Equal(t, "Back", b.Title)
	assert.Empty(t, b.Content)
	assert.True(t, b.IsDismissable)
	assert.Equal(t, second.BannerIdentifier, b.BannerIdentifier)

	var rows int64
	require.NoError(t, setupCount(&Banner{}, &rows))
	assert.Equal(t, int64(1), rows)
}

func TestBlog(t *testing.T) {
	setup(t)
	alice := createUser(t, "alice", false)
	admin := createUser(t, "admin", true)
	now := setNow(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	_, err := BlogCreate(alice, BlogChange{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrForbidden)

	first, err := BlogCreate(admin, BlogChange{Title: "First", Author: "staff", Content: "hello"})
	require.NoError(t, err)
	*now = now.Add(time.Hour)
	second, err := BlogCreate(admin, BlogChange{Title: "Second", Content: "again"})
	require.NoError(t, err)

	blogs, err := BlogList()
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	assert.Equal(t, second.ID, blogs[0].ID)

	updated, err := BlogUpdate(admin, first.ID, BlogChange{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "First", updated.Title)
	assert.Equal(t, "edited", updated.Content)

	_, err = BlogDelete(admin, first.ID)
	require.NoError(t, err)
	_, err = BlogByID(first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitUserSave(t *testing.T) {
	setup(t)

	_, err := SubmitUserByExternalID("1234")
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := SubmitUserSave("1234", SubmitUserChange{LastSubmitOn: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(100), s.LastSubmitOn)

	s2, err := SubmitUserSave("1234", SubmitUserChange{LastSubmitOn: 200, IsBanned: true, BanReason: "spam"})
	require.NoError(t, err)
	assert.Equal(t, s.ID, s2.ID)
	assert.True(t, s2.IsBanned)
	assert.Equal(t, "spam", s2.BanReason)

	_, err = SubmitUserSave("", SubmitUserChange{})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
