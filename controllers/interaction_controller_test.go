package controllers_test

import (
	"net/http"
	"testing"

	"github.com/griev-ease/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestToggleUpvoteDoubleToggle(t *testing.T) {
	db, r := setupRouter(t)
	owner := registerUser(t, r, "Asha", "asha@example.com", "LocalityMember")
	voter := registerUser(t, r, "Ravi", "ravi@example.com", "LocalityMember")

	env := fileGrievance(t, r, owner.Token, nil)
	var g grievanceView
	decodeData(t, env, &g)

	w, env := doJSON(t, r, http.MethodPut, "/api/grievances/"+g.ID+"/upvote", voter.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var after grievanceView
	decodeData(t, env, &after)
	assert.Equal(t, 1, after.Upvotes)
	assert.True(t, after.HasUpvoted)

	// A second toggle by the same voter withdraws the endorsement.
	w, env = doJSON(t, r, http.MethodPut, "/api/grievances/"+g.ID+"/upvote", voter.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &after)
	assert.Equal(t, 0, after.Upvotes)
	assert.False(t, after.HasUpvoted)

	var ledger int64
	require.NoError(t, db.Model(&models.GrievanceUpvote{}).Where("grievance_id = ?", g.ID).Count(&ledger).Error)
	assert.Equal(t, int64(0), ledger)
}

func TestToggleUpvoteIsPerUser(t *testing.T) {
	_, r := setupRouter(t)
	owner := registerUser(t, r, "Asha", "asha@example.com", "LocalityMember")
	a := registerUser(t, r, "Ravi", "ravi@example.com", "LocalityMember")
	b := registerUser(t, r, "Sunita", "sunita@example.com", "LocalityMember")

	env := fileGrievance(t, r, owner.Token, nil)
	var g grievanceView
	decodeData(t, env, &g)

	w, _ := doJSON(t, r, http.MethodPut, "/api/grievances/"+g.ID+"/upvote", a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPut, "/api/grievances/"+g.ID+"/upvote", b.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A withdraws; B's endorsement survives.
	w, env = doJSON(t, r, http.MethodPut, "/api/grievances/"+g.ID+"/upvote", a.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var seenByA grievanceView
	decodeData(t, env, &seenByA)
	assert.Equal(t, 1, seenByA.Upvotes)
	assert.False(t, seenByA.HasUpvoted)

	w, env = doJSON(t, r, http.MethodGet, "/api/grievances/"+g.ID, b.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var seenByB grievanceView
	decodeData(t, env, &seenByB)
	assert.Equal(t, 1, seenByB.Upvotes)
	assert.True(t, seenByB.HasUpvoted)
}

func TestToggleUpvoteConcurrentRemoval(t *testing.T) {
	db, r := setupRouter(t)
	owner := registerUser(t, r, "Asha", "asha@example.com", "LocalityMember")
	voter := registerUser(t, r, "Ravi", "ravi@example.com", "LocalityMember")

	env := fileGrievance(t, r, owner.Token, nil)
	var g grievanceView
	decodeData(t, env, &g)

	w, _ := doJSON(t, r, http.MethodPut, "/api/grievances/"+g.ID+"/upvote", voter.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Another session completes the same un-upvote between the handler's
	// existence check and its transaction; the counter must not move twice.
	fired := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("upvote_interleave", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "grievance_upvotes" {
			return
		}
		fired = true
		require.NoError(t, db.Where("grievance_id = ? AND user_id = ?", g.ID, voter.User.ID).
			Delete(&models.GrievanceUpvote{}).Error)
		require.NoError(t, db.Model(&models.Grievance{}).Where("id = ?", g.ID).
			Update("upvotes", gorm.Expr("upvotes - ?", 1)).Error)
	}))
	defer db.Callback().Query().Remove("upvote_interleave")

	w, _ = doJSON(t, r, http.MethodPut, "/api/grievances/"+g.ID+"/upvote", voter.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, fired)

	var stored models.Grievance
	require.NoError(t, db.First(&stored, "id = ?", g.ID).Error)
	assert.Equal(t, 0, stored.Upvotes)

	var ledger int64
	require.NoError(t, db.Model(&models.GrievanceUpvote{}).Where("grievance_id = ?", g.ID).Count(&ledger).Error)
	assert.Equal(t, int64(0), ledger)
}

func TestToggleUpvoteUnknownGrievance(t *testing.T) {
	_, r := setupRouter(t)
	voter := registerUser(t, r, "Ravi", "ravi@example.com", "LocalityMember")

	w, env := doJSON(t, r, http.MethodPut, "/api/grievances/no-such-id/upvote", voter.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}
