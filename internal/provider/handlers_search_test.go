package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SearchTracks(ctx context.Context, query string, limit int) ([]MusicSearchItem, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MusicSearchItem), args.Error(1)
}

func (m *MockProvider) VideoDetails(ctx context.Context, ids []string) ([]MusicSearchItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MusicSearchItem), args.Error(1)
}

func TestHandleSearch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockP := new(MockProvider)
		srv := NewServer(mockP)

		expectedItems := []MusicSearchItem{
			{
				Title:           "Test Track",
				Artist:          "Test Artist",
				Provider:        "youtube",
				ProviderTrackID: "abc123",
				ThumbnailURL:    "http://example.com/thumb.jpg",
				DurationMs:      120000,
			},
		}

		mockP.On("SearchTracks", mock.Anything, "test query", 10).Return(expectedItems, nil)

		req, _ := http.NewRequest("GET", "/music/search?query=test%20query", nil)
		rr := httptest.NewRecorder()

		srv.HandleSearch(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp SearchResponse
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, expectedItems, resp.Items)
		mockP.AssertExpectations(t)
	})

	t.Run("missing query", func(t *testing.T) {
		srv := NewServer(new(MockProvider))
		req, _ := http.NewRequest("GET", "/music/search", nil)
		rr := httptest.NewRecorder()

		srv.HandleSearch(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "query is required")
	})

	t.Run("query too long", func(t *testing.T) {
		srv := NewServer(new(MockProvider))
		req, _ := http.NewRequest("GET", "/music/search?query="+strings.Repeat("a", 201), nil)
		rr := httptest.NewRecorder()

		srv.HandleSearch(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "too long")
	})

	t.Run("provider error", func(t *testing.T) {
		mockP := new(MockProvider)
		srv := NewServer(mockP)

		mockP.On("SearchTracks", mock.Anything, "test", 10).Return(nil, errors.New("provider down"))

		req, _ := http.NewRequest("GET", "/music/search?query=test", nil)
		rr := httptest.NewRecorder()

		srv.HandleSearch(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "failed to query provider")
		mockP.AssertExpectations(t)
	})

	t.Run("custom limit", func(t *testing.T) {
		mockP := new(MockProvider)
		srv := NewServer(mockP)

		mockP.On("SearchTracks", mock.Anything, "test", 5).Return([]MusicSearchItem{}, nil)

		req, _ := http.NewRequest("GET", "/music/search?query=test&limit=5", nil)
		rr := httptest.NewRecorder()

		srv.HandleSearch(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockP.AssertExpectations(t)
	})

	t.Run("limit out of range falls back to default", func(t *testing.T) {
		mockP := new(MockProvider)
		srv := NewServer(mockP)

		mockP.On("SearchTracks", mock.Anything, "test", 10).Return([]MusicSearchItem{}, nil)

		req, _ := http.NewRequest("GET", "/music/search?query=test&limit=100", nil)
		rr := httptest.NewRecorder()

		srv.HandleSearch(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockP.AssertExpectations(t)
	})
}

func TestHandleVideos(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockP := new(MockProvider)
		srv := NewServer(mockP)

		items := []MusicSearchItem{{Title: "A", ProviderTrackID: "id1", Provider: "youtube"}}
		mockP.On("VideoDetails", mock.Anything, []string{"id1", "id2"}).Return(items, nil)

		req, _ := http.NewRequest("GET", "/music/videos?ids=id1,%20id2", nil)
		rr := httptest.NewRecorder()

		srv.HandleVideos(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp SearchResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, items, resp.Items)
		mockP.AssertExpectations(t)
	})

	t.Run("missing ids", func(t *testing.T) {
		srv := NewServer(new(MockProvider))
		req, _ := http.NewRequest("GET", "/music/videos", nil)
		rr := httptest.NewRecorder()

		srv.HandleVideos(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "ids is required")
	})

	t.Run("too many ids", func(t *testing.T) {
		srv := NewServer(new(MockProvider))
		ids := make([]string, 51)
		for i := range ids {
			ids[i] = "x"
		}
		req, _ := http.NewRequest("GET", "/music/videos?ids="+strings.Join(ids, ","), nil)
		rr := httptest.NewRecorder()

		srv.HandleVideos(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("provider error", func(t *testing.T) {
		mockP := new(MockProvider)
		srv := NewServer(mockP)

		mockP.On("VideoDetails", mock.Anything, []string{"id1"}).Return(nil, errors.New("quota"))

		req, _ := http.NewRequest("GET", "/music/videos?ids=id1", nil)
		rr := httptest.NewRecorder()

		srv.HandleVideos(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		mockP.AssertExpectations(t)
	})
}
