package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinSupportGroup(t *testing.T) {
	env := newTestEnv(t)
	child := env.createChild(t, "parent-1", "Pat", "Alex")

	t.Run("missing code", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/support-group/join", gin.H{}, "carer-1", "Gail")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		code := "000000"
		if code == child.SupportCode {
			code = "000001"
		}
		w := env.joinGroup(t, code, "carer-1", "Gail")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("success returns child name", func(t *testing.T) {
		w := env.joinGroup(t, child.SupportCode, "carer-1", "Gail")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Alex", decodeJSON(t, w)["child_name"])
	})

	t.Run("duplicate join rejected", func(t *testing.T) {
		w := env.joinGroup(t, child.SupportCode, "carer-1", "Gail")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/support-group/join", gin.H{"code": child.SupportCode}, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListMembers(t *testing.T) {
	env := newTestEnv(t)
	child := env.createChild(t, "parent-1", "Pat", "Alex")
	env.joinGroup(t, child.SupportCode, "carer-1", "Gail")

	membersPath := fmt.Sprintf("/api/support-group/%s/members", child.ID)

	t.Run("owner sees members with code", func(t *testing.T) {
		w := env.do(t, http.MethodGet, membersPath, nil, "parent-1", "Pat")
		require.Equal(t, http.StatusOK, w.Code)

		out := decodeJSON(t, w)
		assert.Equal(t, "Alex", out["child_name"])
		assert.Equal(t, child.SupportCode, out["support_code"])

		members := out["members"].([]any)
		require.Len(t, members, 2)
		// Owner sorts first with the parent role.
		first := members[0].(map[string]any)
		assert.Equal(t, "parent-1", first["uid"])
		assert.Equal(t, "parent", first["role"])
		second := members[1].(map[string]any)
		assert.Equal(t, "carer-1", second["uid"])
		assert.Equal(t, "none", second["role"])
	})

	t.Run("member can list", func(t *testing.T) {
		w := env.do(t, http.MethodGet, membersPath, nil, "carer-1", "Gail")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("stranger denied", func(t *testing.T) {
		w := env.do(t, http.MethodGet, membersPath, nil, "stranger-1", "Sam")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateMemberName(t *testing.T) {
	env := newTestEnv(t)
	child := env.createChild(t, "parent-1", "Pat", "Alex")
	env.joinGroup(t, child.SupportCode, "carer-1", "Gail")

	path := fmt.Sprintf("/api/support-group/%s/members/carer-1/name", child.ID)

	t.Run("self rename succeeds", func(t *testing.T) {
		w := env.do(t, http.MethodPut, path, gin.H{"name": "Gail R."}, "carer-1", "Gail")
		assert.Equal(t, http.StatusOK, w.Code)

		members := env.listMembers(t, child.ID.String(), "parent-1")
		assert.Equal(t, "Gail R.", members["carer-1"]["name"])
	})

	t.Run("others cannot rename", func(t *testing.T) {
		w := env.do(t, http.MethodPut, path, gin.H{"name": "Hijacked"}, "parent-1", "Pat")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		w := env.do(t, http.MethodPut, path, gin.H{}, "carer-1", "Gail")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateMemberRole(t *testing.T) {
	env := newTestEnv(t)
	child := env.createChild(t, "parent-1", "Pat", "Alex")
	env.joinGroup(t, child.SupportCode, "carer-1", "Gail")

	rolePath := func(uid string) string {
		return fmt.Sprintf("/api/support-group/%s/members/%s/role", child.ID, uid)
	}

	t.Run("owner assigns caregiver role", func(t *testing.T) {
		w := env.do(t, http.MethodPut, rolePath("carer-1"), gin.H{"role": "caregiver"}, "parent-1", "Pat")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		members := env.listMembers(t, child.ID.String(), "parent-1")
		assert.Equal(t, "caregiver", members["carer-1"]["role"])
	})

	t.Run("non-owner denied", func(t *testing.T) {
		w := env.do(t, http.MethodPut, rolePath("carer-1"), gin.H{"role": "teacher"}, "carer-1", "Gail")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPut, rolePath("carer-1"), gin.H{"role": "superadmin"}, "parent-1", "Pat")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("parent role cannot be assigned", func(t *testing.T) {
		w := env.do(t, http.MethodPut, rolePath("carer-1"), gin.H{"role": "parent"}, "parent-1", "Pat")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("owner's own role immutable", func(t *testing.T) {
		w := env.do(t, http.MethodPut, rolePath("parent-1"), gin.H{"role": "none"}, "parent-1", "Pat")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("absent member", func(t *testing.T) {
		w := env.do(t, http.MethodPut, rolePath("ghost"), gin.H{"role": "none"}, "parent-1", "Pat")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	child := env.createChild(t, "parent-1", "Pat", "Alex")
	env.joinGroup(t, child.SupportCode, "carer-1", "Gail")

	removePath := func(uid string) string {
		return fmt.Sprintf("/api/support-group/%s/members/%s", child.ID, uid)
	}

	t.Run("non-owner denied", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, removePath("carer-1"), nil, "carer-1", "Gail")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("owner cannot remove themself", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, removePath("parent-1"), nil, "parent-1", "Pat")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner removes member", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, removePath("carer-1"), nil, "parent-1", "Pat")
		require.Equal(t, http.StatusOK, w.Code)

		members := env.listMembers(t, child.ID.String(), "parent-1")
		assert.NotContains(t, members, "carer-1")
	})

	t.Run("absent member", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, removePath("carer-1"), nil, "parent-1", "Pat")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRotateCode(t *testing.T) {
	env := newTestEnv(t)
	child := env.createChild(t, "parent-1", "Pat", "Alex")
	env.joinGroup(t, child.SupportCode, "carer-1", "Gail")

	codePath := fmt.Sprintf("/api/support-group/%s/code", child.ID)

	t.Run("non-owner denied", func(t *testing.T) {
		w := env.do(t, http.MethodPost, codePath, nil, "carer-1", "Gail")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rotation invalidates old code", func(t *testing.T) {
		w := env.do(t, http.MethodPost, codePath, nil, "parent-1", "Pat")
		require.Equal(t, http.StatusOK, w.Code)

		newCode := decodeJSON(t, w)["new_code"].(string)
		require.NotEqual(t, child.SupportCode, newCode)

		// Old code no longer resolves.
		w = env.joinGroup(t, child.SupportCode, "carer-2", "Noor")
		assert.Equal(t, http.StatusNotFound, w.Code)

		// New code works.
		w = env.joinGroup(t, newCode, "carer-2", "Noor")
		assert.Equal(t, http.StatusOK, w.Code)

		// Existing memberships are unaffected.
		members := env.listMembers(t, child.ID.String(), "parent-1")
		assert.Contains(t, members, "carer-1")
	})
}

// TestSupportGroupLifecycle walks the full membership scenario end to
// end: create, join, promote, duplicate join, rotate.
func TestSupportGroupLifecycle(t *testing.T) {
	env := newTestEnv(t)

	child := env.createChild(t, "parent-1", "Pat", "Alex")
	members := env.listMembers(t, child.ID.String(), "parent-1")
	require.Len(t, members, 1)
	require.Equal(t, "parent", members["parent-1"]["role"])

	w := env.joinGroup(t, child.SupportCode, "carer-1", "Gail")
	require.Equal(t, http.StatusOK, w.Code)
	members = env.listMembers(t, child.ID.String(), "parent-1")
	require.Len(t, members, 2)
	require.Equal(t, "none", members["carer-1"]["role"])

	rolePath := fmt.Sprintf("/api/support-group/%s/members/carer-1/role", child.ID)
	w = env.do(t, http.MethodPut, rolePath, gin.H{"role": "caregiver"}, "parent-1", "Pat")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.joinGroup(t, child.SupportCode, "carer-1", "Gail")
	require.Equal(t, http.StatusBadRequest, w.Code)

	codePath := fmt.Sprintf("/api/support-group/%s/code", child.ID)
	w = env.do(t, http.MethodPost, codePath, nil, "parent-1", "Pat")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.joinGroup(t, child.SupportCode, "carer-3", "Uma")
	require.Equal(t, http.StatusNotFound, w.Code)
}

// listMembers fetches the member list as uid-keyed maps.
func (e *testEnv) listMembers(t *testing.T, childID, callerUID string) map[string]map[string]any {
	t.Helper()

	w := e.do(t, http.MethodGet, "/api/support-group/"+childID+"/members", nil, callerUID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decodeJSON(t, w)
	members := map[string]map[string]any{}
	for _, m := range out["members"].([]any) {
		member := m.(map[string]any)
		members[member["uid"].(string)] = member
	}
	return members
}
