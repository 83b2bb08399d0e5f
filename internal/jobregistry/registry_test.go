package jobregistry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kaambuddy/internal/client"
	"kaambuddy/internal/credstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, handler http.HandlerFunc) *Registry {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := client.New(client.Config{
		BaseURL:        srv.URL + "/api",
		Timeout:        2 * time.Second,
		RetryAttempts:  1,
		RetryBaseDelay: time.Millisecond,
	}, credstore.NewMemStore(), nil)
	return NewRegistry(api, nil)
}

func TestListAppliesFilters(t *testing.T) {
	var gotQuery string
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.RawQuery
		fmt.Fprint(w, `{"success":true,"data":[
			{"id":"j1","title":"Fix tap","category":"plumbing","status":"open"},
			{"id":"j2","title":"Paint wall","category":"painting","status":"open"}
		]}`)
	})

	jobs, err := r.List(context.Background(), client.JobFilters{Category: "plumbing", Location: "Andheri"})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Contains(t, gotQuery, "category=plumbing")
	assert.Contains(t, gotQuery, "location=Andheri")
	assert.Equal(t, jobs, r.Jobs())
}

func TestCreatePrependsToMine(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
		switch {
		case req.Method == http.MethodGet:
			fmt.Fprint(w, `{"success":true,"data":[{"id":"j1","title":"Old","status":"open"}]}`)
		case req.Method == http.MethodPost:
			fmt.Fprint(w, `{"success":true,"data":{"id":"j2","title":"New posting","status":"open"}}`)
		}
	})

	ctx := context.Background()
	_, err := r.RefreshMine(ctx)
	require.NoError(t, err)

	job, err := r.Create(ctx, client.CreateJobRequest{Title: "New posting", Budget: 500})
	require.NoError(t, err)
	assert.Equal(t, "j2", job.ID)

	mine := r.Mine()
	require.Len(t, mine, 2)
	assert.Equal(t, "j2", mine[0].ID)
	assert.Empty(t, r.Jobs(), "browse list untouched by create")
}

func TestCreateFailureLeavesMine(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `{"success":false,"message":"Only customers can post jobs"}`)
	})

	_, err := r.Create(context.Background(), client.CreateJobRequest{Title: "x"})
	require.Error(t, err)
	assert.True(t, client.IsDomain(err))
	assert.Empty(t, r.Mine())
}

func TestUpdateReplacesInBothLists(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"success":true,"data":[
				{"id":"j1","title":"Fix tap","budget":500,"status":"open"}
			]}`)
		case http.MethodPut:
			fmt.Fprint(w, `{"success":true,"data":{"id":"j1","title":"Fix tap","budget":800,"status":"open"}}`)
		}
	})

	ctx := context.Background()
	_, err := r.List(ctx, client.JobFilters{})
	require.NoError(t, err)
	_, err = r.RefreshMine(ctx)
	require.NoError(t, err)

	job, err := r.Update(ctx, "j1", client.UpdateJobRequest{Budget: 800})
	require.NoError(t, err)
	assert.Equal(t, float64(800), job.Budget)
	assert.Equal(t, float64(800), r.Jobs()[0].Budget)
	assert.Equal(t, float64(800), r.Mine()[0].Budget)
}

func TestCancelRemovesFromBothLists(t *testing.T) {
	r := newTestRegistry(t, func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"success":true,"data":[
				{"id":"j1","status":"open"},
				{"id":"j2","status":"open"}
			]}`)
		case http.MethodDelete:
			fmt.Fprint(w, `{"success":true,"message":"Job cancelled"}`)
		}
	})

	ctx := context.Background()
	_, err := r.List(ctx, client.JobFilters{})
	require.NoError(t, err)
	_, err = r.RefreshMine(ctx)
	require.NoError(t, err)

	require.NoError(t, r.Cancel(ctx, "j1"))

	require.Len(t, r.Jobs(), 1)
	assert.Equal(t, "j2", r.Jobs()[0].ID)
	require.Len(t, r.Mine(), 1)
	assert.Equal(t, "j2", r.Mine()[0].ID)
}
