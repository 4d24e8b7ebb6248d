package upstream

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventForm() EventForm {
	return EventForm{
		Name:        "Tech Fest",
		Description: "Annual tech festival",
		Category:    []string{"Technical", "Cultural"},
		Date:        "2026-03-14",
		StartTime:   "09:00",
		EndTime:     "17:00",
		Location:    "Main Auditorium",
		MaxSeats:    200,
		Status:      "upcoming",
	}
}

func TestCreateEvent_SendsMultipartFields(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		form      map[string][]string
		hasPoster bool
	)
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form = r.MultipartForm.Value
		_, hasPoster = r.MultipartForm.File["posterImage"]
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	})

	err := client.CreateEvent(context.Background(), "tok", eventForm())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/events", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "Tech Fest", form["name"][0])
	assert.Equal(t, "Annual tech festival", form["description"][0])
	assert.Equal(t, `["Technical","Cultural"]`, form["category"][0])
	assert.Equal(t, "2026-03-14", form["date"][0])
	assert.Equal(t, "09:00", form["startTime"][0])
	assert.Equal(t, "17:00", form["endTime"][0])
	assert.Equal(t, "Main Auditorium", form["location"][0])
	assert.Equal(t, "200", form["maxSeats"][0])
	assert.Equal(t, "upcoming", form["status"][0])
	assert.False(t, hasPoster, "no staged file, posterImage must be absent")
}

func TestCreateEvent_IncludesStagedPoster(t *testing.T) {
	var posterName string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["posterImage"]
		require.Len(t, files, 1)
		posterName = files[0].Filename
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	})

	form := eventForm()
	form.Poster = &StagedFile{
		Filename: "poster.png",
		Reader:   strings.NewReader("fake-png-bytes"),
	}

	require.NoError(t, client.CreateEvent(context.Background(), "tok", form))
	assert.Equal(t, "poster.png", posterName)
}

func TestUpdateEvent_NormalizesISODate(t *testing.T) {
	var gotDate, gotPath string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotDate = r.MultipartForm.Value["date"][0]
		w.Write([]byte(`{}`))
	})

	form := eventForm()
	form.Date = "2026-03-14T00:00:00.000Z"

	require.NoError(t, client.UpdateEvent(context.Background(), "tok", "ev-1", form))
	assert.Equal(t, "/api/events/ev-1", gotPath)
	assert.Equal(t, "2026-03-14", gotDate)
}

func TestDeleteEvent(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	})

	require.NoError(t, client.DeleteEvent(context.Background(), "tok", "ev-9"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/events/ev-9", gotPath)
}

func TestListEvents_AcceptsBothListShapes(t *testing.T) {
	bodies := []string{
		`[{"_id":"1","name":"Tech Fest"},{"_id":"2","name":"Art Expo"}]`,
		`{"data":[{"_id":"1","name":"Tech Fest"},{"_id":"2","name":"Art Expo"}]}`,
	}

	for _, body := range bodies {
		body := body
		client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/events", r.URL.Path)
			w.Write([]byte(body))
		})

		events, err := client.ListEvents(context.Background(), "tok")
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "Tech Fest", events[0].Name)
	}
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2026-03-14", normalizeDate("2026-03-14T00:00:00.000Z"))
	assert.Equal(t, "2026-03-14", normalizeDate("2026-03-14"))
	assert.Equal(t, "", normalizeDate(""))
}
