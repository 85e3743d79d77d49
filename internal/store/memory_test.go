package store

import (
	"context"
	"testing"

	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChild(parentUID, name, code string) *models.Child {
	return &models.Child{
		ParentUID:   parentUID,
		Name:        name,
		Birthday:    "2018-04-02",
		Sex:         "male",
		ASDType:     "level 1",
		SupportCode: code,
	}
}

func TestCreateChildWithGroup(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	child := newChild("parent-1", "Alex", "111111")
	require.NoError(t, s.CreateChildWithGroup(ctx, child, "Pat"))
	assert.NotEqual(t, uuid.Nil, child.ID)
	assert.NotEqual(t, uuid.Nil, child.SupportGroupID)

	t.Run("owner becomes a parent member", func(t *testing.T) {
		members, err := s.ListMembers(ctx, child.SupportGroupID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "parent-1", members[0].UID)
		assert.Equal(t, "Pat", members[0].Name)
		assert.Equal(t, models.RoleParent, members[0].Role)
	})

	t.Run("code lookup resolves the child", func(t *testing.T) {
		got, err := s.GetChildByCode(ctx, "111111")
		require.NoError(t, err)
		assert.Equal(t, child.ID, got.ID)
	})

	t.Run("duplicate code rejected", func(t *testing.T) {
		err := s.CreateChildWithGroup(ctx, newChild("parent-2", "Billie", "111111"), "Quinn")
		assert.ErrorIs(t, err, ErrCodeTaken)
	})
}

func TestAddMember(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	child := newChild("parent-1", "Alex", "111111")
	require.NoError(t, s.CreateChildWithGroup(ctx, child, "Pat"))

	member := models.Member{UID: "carer-1", Name: "Gail", Role: models.RoleNone}

	t.Run("first join succeeds", func(t *testing.T) {
		require.NoError(t, s.AddMember(ctx, child.SupportGroupID, member))

		ok, err := s.IsMember(ctx, child.SupportGroupID, "carer-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("second join is rejected, not duplicated", func(t *testing.T) {
		err := s.AddMember(ctx, child.SupportGroupID, member)
		assert.ErrorIs(t, err, ErrAlreadyMember)

		members, err := s.ListMembers(ctx, child.SupportGroupID)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("unknown group", func(t *testing.T) {
		err := s.AddMember(ctx, uuid.New(), member)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestOwnerMembershipGuards(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	child := newChild("parent-1", "Alex", "111111")
	require.NoError(t, s.CreateChildWithGroup(ctx, child, "Pat"))
	require.NoError(t, s.AddMember(ctx, child.SupportGroupID, models.Member{
		UID: "carer-1", Name: "Gail", Role: models.RoleNone,
	}))

	t.Run("owner role cannot change", func(t *testing.T) {
		err := s.UpdateMemberRole(ctx, child.SupportGroupID, "parent-1", models.RoleNone)
		assert.ErrorIs(t, err, ErrOwnerMember)
	})

	t.Run("owner cannot be removed", func(t *testing.T) {
		err := s.RemoveMember(ctx, child.SupportGroupID, "parent-1")
		assert.ErrorIs(t, err, ErrOwnerMember)
	})

	t.Run("other members can change and leave", func(t *testing.T) {
		require.NoError(t, s.UpdateMemberRole(ctx, child.SupportGroupID, "carer-1", models.RoleTherapist))
		require.NoError(t, s.RemoveMember(ctx, child.SupportGroupID, "carer-1"))

		err := s.RemoveMember(ctx, child.SupportGroupID, "carer-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRotateCodeStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := newChild("parent-1", "Alex", "111111")
	require.NoError(t, s.CreateChildWithGroup(ctx, first, "Pat"))
	second := newChild("parent-2", "Billie", "222222")
	require.NoError(t, s.CreateChildWithGroup(ctx, second, "Quinn"))

	t.Run("rotation colliding with another child", func(t *testing.T) {
		err := s.RotateCode(ctx, first.ID, "parent-1", "222222")
		assert.ErrorIs(t, err, ErrCodeTaken)
	})

	t.Run("non-owner cannot rotate", func(t *testing.T) {
		err := s.RotateCode(ctx, first.ID, "parent-2", "333333")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rotation replaces the code", func(t *testing.T) {
		require.NoError(t, s.RotateCode(ctx, first.ID, "parent-1", "333333"))

		_, err := s.GetChildByCode(ctx, "111111")
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := s.GetChildByCode(ctx, "333333")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	})
}

func TestDeleteChildCascade(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	child := newChild("parent-1", "Alex", "111111")
	require.NoError(t, s.CreateChildWithGroup(ctx, child, "Pat"))

	entry := models.JournalEntry{ChildID: child.ID, AuthorUID: "parent-1", Title: "t", Content: "c"}
	require.NoError(t, s.CreateJournalEntry(ctx, &entry))
	chat := models.ChatEntry{ChildID: child.ID, AuthorUID: "parent-1", Question: "q", Response: "r"}
	require.NoError(t, s.AppendChatEntry(ctx, &chat))

	t.Run("non-owner cannot delete", func(t *testing.T) {
		err := s.DeleteChild(ctx, child.ID, "parent-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete removes everything child-scoped", func(t *testing.T) {
		require.NoError(t, s.DeleteChild(ctx, child.ID, "parent-1"))

		_, err := s.GetChild(ctx, child.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetChildByCode(ctx, "111111")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetJournalEntry(ctx, entry.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		entries, err := s.ListChatEntries(ctx, child.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestJournalAuthorScoping(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	child := newChild("parent-1", "Alex", "111111")
	require.NoError(t, s.CreateChildWithGroup(ctx, child, "Pat"))

	entry := models.JournalEntry{ChildID: child.ID, AuthorUID: "carer-1", Title: "t", Content: "c"}
	require.NoError(t, s.CreateJournalEntry(ctx, &entry))

	title := "edited"
	_, err := s.UpdateJournalEntry(ctx, entry.ID, "parent-1", models.JournalUpdateRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound, "only the author may update")

	err = s.DeleteJournalEntry(ctx, entry.ID, "parent-1")
	assert.ErrorIs(t, err, ErrNotFound, "only the author may delete")

	updated, err := s.UpdateJournalEntry(ctx, entry.ID, "carer-1", models.JournalUpdateRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)
	require.NoError(t, s.DeleteJournalEntry(ctx, entry.ID, "carer-1"))
}
