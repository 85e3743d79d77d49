package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/App-Start-Dev/innolympics-api/internal/models"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation with the same
// semantics as PostgresStore, including the conditional member insert.
// It backs handler tests and local development without a database.
type MemoryStore struct {
	mu       sync.Mutex
	children map[uuid.UUID]models.Child
	groups   map[uuid.UUID]models.SupportGroup
	members  map[uuid.UUID][]models.Member
	journal  map[uuid.UUID]models.JournalEntry
	chat     map[uuid.UUID][]models.ChatEntry
}

// Ensure MemoryStore implements the full persistence surface.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		children: make(map[uuid.UUID]models.Child),
		groups:   make(map[uuid.UUID]models.SupportGroup),
		members:  make(map[uuid.UUID][]models.Member),
		journal:  make(map[uuid.UUID]models.JournalEntry),
		chat:     make(map[uuid.UUID][]models.ChatEntry),
	}
}

func (s *MemoryStore) CreateChildWithGroup(ctx context.Context, child *models.Child, ownerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.children {
		if c.SupportCode == child.SupportCode {
			return ErrCodeTaken
		}
	}

	now := time.Now().UTC()
	child.ID = uuid.New()
	child.SupportGroupID = uuid.New()
	child.CreatedAt = now
	child.UpdatedAt = now

	s.groups[child.SupportGroupID] = models.SupportGroup{
		ID:        child.SupportGroupID,
		ChildID:   child.ID,
		Code:      child.SupportCode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.members[child.SupportGroupID] = []models.Member{{
		UID:      child.ParentUID,
		Name:     ownerName,
		Role:     models.RoleParent,
		JoinedAt: now,
	}}
	s.children[child.ID] = *child
	return nil
}

func (s *MemoryStore) ListChildren(ctx context.Context, parentUID string) ([]models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	children := []models.Child{}
	for _, c := range s.children {
		if c.ParentUID == parentUID {
			children = append(children, c)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].CreatedAt.After(children[j].CreatedAt)
	})
	return children, nil
}

func (s *MemoryStore) GetChild(ctx context.Context, id uuid.UUID) (*models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.children[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) GetChildByCode(ctx context.Context, code string) (*models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.children {
		if c.SupportCode == code {
			child := c
			return &child, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateChild(ctx context.Context, id uuid.UUID, parentUID string, upd models.ChildUpdateRequest) (*models.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.children[id]
	if !ok || c.ParentUID != parentUID {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Birthday != nil {
		c.Birthday = *upd.Birthday
	}
	if upd.Sex != nil {
		c.Sex = *upd.Sex
	}
	if upd.ASDType != nil {
		c.ASDType = *upd.ASDType
	}
	c.UpdatedAt = time.Now().UTC()
	s.children[id] = c
	return &c, nil
}

func (s *MemoryStore) DeleteChild(ctx context.Context, id uuid.UUID, parentUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.children[id]
	if !ok || c.ParentUID != parentUID {
		return ErrNotFound
	}
	delete(s.children, id)
	delete(s.groups, c.SupportGroupID)
	delete(s.members, c.SupportGroupID)
	for entryID, entry := range s.journal {
		if entry.ChildID == id {
			delete(s.journal, entryID)
		}
	}
	delete(s.chat, id)
	return nil
}

func (s *MemoryStore) RotateCode(ctx context.Context, id uuid.UUID, parentUID, newCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.children[id]
	if !ok || c.ParentUID != parentUID {
		return ErrNotFound
	}
	for otherID, other := range s.children {
		if otherID != id && other.SupportCode == newCode {
			return ErrCodeTaken
		}
	}

	now := time.Now().UTC()
	c.SupportCode = newCode
	c.UpdatedAt = now
	s.children[id] = c

	if g, ok := s.groups[c.SupportGroupID]; ok {
		g.Code = newCode
		g.UpdatedAt = now
		s.groups[c.SupportGroupID] = g
	}
	return nil
}

func (s *MemoryStore) AddMember(ctx context.Context, groupID uuid.UUID, m models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return ErrNotFound
	}
	for _, existing := range s.members[groupID] {
		if existing.UID == m.UID {
			return ErrAlreadyMember
		}
	}
	s.members[groupID] = append(s.members[groupID], m)
	return nil
}

func (s *MemoryStore) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := append([]models.Member{}, s.members[groupID]...)
	sort.SliceStable(members, func(i, j int) bool {
		if (members[i].Role == models.RoleParent) != (members[j].Role == models.RoleParent) {
			return members[i].Role == models.RoleParent
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return members, nil
}

func (s *MemoryStore) IsMember(ctx context.Context, groupID uuid.UUID, uid string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.members[groupID] {
		if m.UID == uid {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) UpdateMemberName(ctx context.Context, groupID uuid.UUID, uid, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.members[groupID] {
		if m.UID == uid {
			s.members[groupID][i].Name = name
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) UpdateMemberRole(ctx context.Context, groupID uuid.UUID, uid string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.members[groupID] {
		if m.UID == uid {
			if m.Role == models.RoleParent {
				return ErrOwnerMember
			}
			s.members[groupID][i].Role = role
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) RemoveMember(ctx context.Context, groupID uuid.UUID, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.members[groupID] {
		if m.UID == uid {
			if m.Role == models.RoleParent {
				return ErrOwnerMember
			}
			s.members[groupID] = append(s.members[groupID][:i], s.members[groupID][i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.children[entry.ChildID]; !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	entry.ID = uuid.New()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	s.journal[entry.ID] = *entry
	return nil
}

func (s *MemoryStore) ListJournalEntries(ctx context.Context, childID uuid.UUID) ([]models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := []models.JournalEntry{}
	for _, entry := range s.journal {
		if entry.ChildID == childID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s *MemoryStore) GetJournalEntry(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.journal[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

func (s *MemoryStore) UpdateJournalEntry(ctx context.Context, id uuid.UUID, authorUID string, upd models.JournalUpdateRequest) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.journal[id]
	if !ok || entry.AuthorUID != authorUID {
		return nil, ErrNotFound
	}
	if upd.Title != nil {
		entry.Title = *upd.Title
	}
	if upd.Content != nil {
		entry.Content = *upd.Content
	}
	if upd.Mood != nil {
		entry.Mood = upd.Mood
	}
	entry.UpdatedAt = time.Now().UTC()
	s.journal[id] = entry
	return &entry, nil
}

func (s *MemoryStore) DeleteJournalEntry(ctx context.Context, id uuid.UUID, authorUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.journal[id]
	if !ok || entry.AuthorUID != authorUID {
		return ErrNotFound
	}
	delete(s.journal, id)
	return nil
}

func (s *MemoryStore) AppendChatEntry(ctx context.Context, entry *models.ChatEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.children[entry.ChildID]; !ok {
		return ErrNotFound
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now().UTC()
	s.chat[entry.ChildID] = append(s.chat[entry.ChildID], *entry)
	return nil
}

func (s *MemoryStore) ListChatEntries(ctx context.Context, childID uuid.UUID) ([]models.ChatEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.ChatEntry{}, s.chat[childID]...), nil
}
