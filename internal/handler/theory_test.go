package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conspiralab/conspiralab/internal/middleware"
	"github.com/conspiralab/conspiralab/internal/model"
)

func createTheory(t *testing.T, app *testApp, sid, title string) model.Theory {
	t.Helper()
	rec := app.do(http.MethodPost, "/v1/theories",
		`{"title":"`+title+`","summary":"a summary","body":"the body"}`, sid)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Theory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestTheoryCreate_AdminOnly(t *testing.T) {
	t.Parallel()
	app := newTestApp()
	_, adminSID := app.loginAs(t, "admin@x.com", model.RoleAdmin)
	_, userSID := app.loginAs(t, "user@x.com", model.RoleUser)

	created := createTheory(t, app, adminSID, "The Great Pigeon Network")
	assert.Equal(t, "the-great-pigeon-network", created.Slug)
	assert.False(t, created.ID.IsZero())

	asUser := app.do(http.MethodPost, "/v1/theories", `{"title":"Nope"}`, userSID)
	assert.Equal(t, http.StatusForbidden, asUser.Code)

	anonymous := app.do(http.MethodPost, "/v1/theories", `{"title":"Nope"}`, "")
	assert.Equal(t, http.StatusFound, anonymous.Code)
	assert.Equal(t, middleware.LoginPath, anonymous.Header().Get("Location"))
}

func TestTheoryCreate_DuplicateTitleConflicts(t *testing.T) {
	t.Parallel()
	app := newTestApp()
	_, sid := app.loginAs(t, "admin@x.com", model.RoleAdmin)

	createTheory(t, app, sid, "Same Title")
	rec := app.do(http.MethodPost, "/v1/theories", `{"title":"Same Title"}`, sid)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTheoryBrowse_IsPublic(t *testing.T) {
	t.Parallel()
	app := newTestApp()
	_, sid := app.loginAs(t, "admin@x.com", model.RoleAdmin)
	created := createTheory(t, app, sid, "Elevator Floors")

	list := app.do(http.MethodGet, "/v1/theories", "", "")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Elevator Floors")

	get := app.do(http.MethodGet, "/v1/theories/"+created.ID.Hex(), "", "")
	require.Equal(t, http.StatusOK, get.Code)
	assert.Contains(t, get.Body.String(), "elevator-floors")

	missing := app.do(http.MethodGet, "/v1/theories/000000000000000000000000", "", "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestTheoryUpdate(t *testing.T) {
	t.Parallel()
	app := newTestApp()
	_, sid := app.loginAs(t, "admin@x.com", model.RoleAdmin)
	created := createTheory(t, app, sid, "Old Title")

	rec := app.do(http.MethodPut, "/v1/theories/"+created.ID.Hex(),
		`{"title":"New Title","summary":"s","body":"b"}`, sid)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"new-title"`)

	missing := app.do(http.MethodPut, "/v1/theories/000000000000000000000000",
		`{"title":"X"}`, sid)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestTheoryDelete_RemovesCommentsToo(t *testing.T) {
	t.Parallel()
	app := newTestApp()
	_, sid := app.loginAs(t, "admin@x.com", model.RoleAdmin)
	created := createTheory(t, app, sid, "Doomed Theory")

	cm := app.do(http.MethodPost, "/v1/theories/"+created.ID.Hex()+"/comments",
		`{"body":"a comment"}`, sid)
	require.Equal(t, http.StatusCreated, cm.Code)
	require.Equal(t, 1, app.comments.count())

	del := app.do(http.MethodDelete, "/v1/theories/"+created.ID.Hex(), "", sid)
	require.Equal(t, http.StatusNoContent, del.Code)
	assert.Zero(t, app.comments.count())

	again := app.do(http.MethodDelete, "/v1/theories/"+created.ID.Hex(), "", sid)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestComments_DenormalizeAuthorName(t *testing.T) {
	t.Parallel()
	app := newTestApp()
	_, sid := app.loginAs(t, "admin@x.com", model.RoleAdmin)
	created := createTheory(t, app, sid, "Commented Theory")

	rec := app.do(http.MethodPost, "/v1/theories/"+created.ID.Hex()+"/comments",
		`{"body":"first!"}`, sid)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"author_name":"Tester"`)

	list := app.do(http.MethodGet, "/v1/theories/"+created.ID.Hex()+"/comments", "", "")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "first!")

	empty := app.do(http.MethodPost, "/v1/theories/"+created.ID.Hex()+"/comments",
		`{"body":"  "}`, sid)
	assert.Equal(t, http.StatusBadRequest, empty.Code)

	orphan := app.do(http.MethodPost, "/v1/theories/000000000000000000000000/comments",
		`{"body":"lost"}`, sid)
	assert.Equal(t, http.StatusNotFound, orphan.Code)
}

func TestCommentDelete(t *testing.T) {
	t.Parallel()
	app := newTestApp()
	_, sid := app.loginAs(t, "admin@x.com", model.RoleAdmin)
	created := createTheory(t, app, sid, "Theory With Comment")

	rec := app.do(http.MethodPost, "/v1/theories/"+created.ID.Hex()+"/comments",
		`{"body":"soon gone"}`, sid)
	require.Equal(t, http.StatusCreated, rec.Code)
	var cm model.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cm))

	del := app.do(http.MethodDelete, "/v1/comments/"+cm.ID.Hex(), "", sid)
	assert.Equal(t, http.StatusNoContent, del.Code)

	again := app.do(http.MethodDelete, "/v1/comments/"+cm.ID.Hex(), "", sid)
	assert.Equal(t, http.StatusNotFound, again.Code)
}
