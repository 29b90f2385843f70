package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/scribe/internal/common"
	"github.com/ternarybob/scribe/internal/models"
)

// mockConfluenceService implements interfaces.ConfluenceService for handler tests
type mockConfluenceService struct {
	spaceInfoFunc func(ctx context.Context, spaceKey string) (*models.SpaceInfo, error)
	listPagesFunc func(ctx context.Context, spaceKey string, limit int) (*models.PageList, error)
	getPageFunc   func(ctx context.Context, pageID string) (*models.PageContent, error)
	createFunc    func(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error)
	updateFunc    func(ctx context.Context, pageID, title, content, versionComment string) (*models.PageResult, error)
	appendFunc    func(ctx context.Context, pageID, additionalContent, separator string) (*models.PageResult, error)
	searchFunc    func(ctx context.Context, query, spaceKey string) ([]models.PageInfo, error)
}

func (m *mockConfluenceService) GetSpaceInfo(ctx context.Context, spaceKey string) (*models.SpaceInfo, error) {
	if m.spaceInfoFunc != nil {
		return m.spaceInfoFunc(ctx, spaceKey)
	}
	return &models.SpaceInfo{Key: spaceKey}, nil
}

func (m *mockConfluenceService) ListPages(ctx context.Context, spaceKey string, limit int) (*models.PageList, error) {
	if m.listPagesFunc != nil {
		return m.listPagesFunc(ctx, spaceKey, limit)
	}
	return &models.PageList{}, nil
}

func (m *mockConfluenceService) GetPageContent(ctx context.Context, pageID string) (*models.PageContent, error) {
	if m.getPageFunc != nil {
		return m.getPageFunc(ctx, pageID)
	}
	return &models.PageContent{ID: pageID}, nil
}

func (m *mockConfluenceService) CreatePage(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, title, content, spaceKey, parentID, contentType)
	}
	return &models.PageResult{Title: title}, nil
}

func (m *mockConfluenceService) UpdatePage(ctx context.Context, pageID, title, content, versionComment string) (*models.PageResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, pageID, title, content, versionComment)
	}
	return &models.PageResult{ID: pageID}, nil
}

func (m *mockConfluenceService) AppendToPage(ctx context.Context, pageID, additionalContent, separator string) (*models.PageResult, error) {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, pageID, additionalContent, separator)
	}
	return &models.PageResult{ID: pageID}, nil
}

func (m *mockConfluenceService) SearchPages(ctx context.Context, query, spaceKey string) ([]models.PageInfo, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, spaceKey)
	}
	return []models.PageInfo{}, nil
}

func TestSpaceInfoHandler(t *testing.T) {
	var gotKey string
	mock := &mockConfluenceService{
		spaceInfoFunc: func(ctx context.Context, spaceKey string) (*models.SpaceInfo, error) {
			gotKey = spaceKey
			return &models.SpaceInfo{Key: "DOCS", Name: "Documentation"}, nil
		},
	}
	handler := NewConfluenceHandler(mock, common.GetLogger())

	req := httptest.NewRequest("GET", "/api/confluence/space?space_key=DOCS", nil)
	rec := httptest.NewRecorder()
	handler.SpaceInfoHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DOCS", gotKey)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Space DOCS retrieved", envelope.Message)
}

func TestSpaceInfoHandler_FallbackToDefault(t *testing.T) {
	// An absent space_key is passed through as empty; the service layer
	// resolves it against the configured default.
	var gotKey string
	mock := &mockConfluenceService{
		spaceInfoFunc: func(ctx context.Context, spaceKey string) (*models.SpaceInfo, error) {
			gotKey = spaceKey
			return &models.SpaceInfo{Key: "TEAM"}, nil
		},
	}
	handler := NewConfluenceHandler(mock, common.GetLogger())

	req := httptest.NewRequest("GET", "/api/confluence/space", nil)
	rec := httptest.NewRecorder()
	handler.SpaceInfoHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, gotKey)
}

func TestListPagesHandler(t *testing.T) {
	var gotLimit int
	mock := &mockConfluenceService{
		listPagesFunc: func(ctx context.Context, spaceKey string, limit int) (*models.PageList, error) {
			gotLimit = limit
			return &models.PageList{SpaceKey: spaceKey, Total: 3, Pages: make([]models.PageInfo, 3)}, nil
		},
	}
	handler := NewConfluenceHandler(mock, common.GetLogger())

	req := httptest.NewRequest("GET", "/api/confluence/pages?space_key=DOCS&limit=25", nil)
	rec := httptest.NewRecorder()
	handler.ListPagesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, gotLimit)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Found 3 pages", envelope.Message)
}

func TestGetPageHandler_MissingID(t *testing.T) {
	handler := NewConfluenceHandler(&mockConfluenceService{}, common.GetLogger())

	req := httptest.NewRequest("GET", "/api/confluence/page/", nil)
	rec := httptest.NewRecorder()
	handler.GetPageHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Page ID is required", envelope.Error)
}

func TestCreatePageHandler(t *testing.T) {
	var gotTitle, gotContent, gotSpace string
	mock := &mockConfluenceService{
		createFunc: func(ctx context.Context, title, content, spaceKey, parentID, contentType string) (*models.PageResult, error) {
			gotTitle, gotContent, gotSpace = title, content, spaceKey
			return &models.PageResult{ID: "100", Title: title, Version: 1}, nil
		},
	}
	handler := NewConfluenceHandler(mock, common.GetLogger())

	body := `{"title":"Runbook","content":"plain text body","space_key":"OPS"}`
	req := httptest.NewRequest("POST", "/api/confluence/page", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.CreatePageHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Runbook", gotTitle)
	assert.Equal(t, "plain text body", gotContent)
	assert.Equal(t, "OPS", gotSpace)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Page Runbook created successfully", envelope.Message)
}

func TestCreatePageHandler_MissingFields(t *testing.T) {
	handler := NewConfluenceHandler(&mockConfluenceService{}, common.GetLogger())

	req := httptest.NewRequest("POST", "/api/confluence/page", strings.NewReader(`{"title":"Runbook"}`))
	rec := httptest.NewRecorder()
	handler.CreatePageHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Contains(t, envelope.Error, "Content")
}

func TestUpdatePageHandler(t *testing.T) {
	var gotID, gotComment string
	mock := &mockConfluenceService{
		updateFunc: func(ctx context.Context, pageID, title, content, versionComment string) (*models.PageResult, error) {
			gotID, gotComment = pageID, versionComment
			return &models.PageResult{ID: pageID, Version: 4, PreviousVersion: 3}, nil
		},
	}
	handler := NewConfluenceHandler(mock, common.GetLogger())

	req := httptest.NewRequest("PUT", "/api/confluence/page/555", strings.NewReader(`{"content":"<p>new</p>"}`))
	rec := httptest.NewRecorder()
	handler.UpdatePageHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "555", gotID)
	assert.Empty(t, gotComment)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Page updated to version 4", envelope.Message)
}

func TestAppendPageHandler(t *testing.T) {
	var gotID, gotContent, gotSeparator string
	mock := &mockConfluenceService{
		appendFunc: func(ctx context.Context, pageID, additionalContent, separator string) (*models.PageResult, error) {
			gotID, gotContent, gotSeparator = pageID, additionalContent, separator
			return &models.PageResult{ID: pageID, Version: 6}, nil
		},
	}
	handler := NewConfluenceHandler(mock, common.GetLogger())

	req := httptest.NewRequest("POST", "/api/confluence/page/555/append", strings.NewReader(`{"content":"more","separator":"<br/>"}`))
	rec := httptest.NewRecorder()
	handler.AppendPageHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "555", gotID)
	assert.Equal(t, "more", gotContent)
	assert.Equal(t, "<br/>", gotSeparator)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Content appended successfully", envelope.Message)
}

func TestSearchPagesHandler(t *testing.T) {
	var gotQuery, gotSpace string
	mock := &mockConfluenceService{
		searchFunc: func(ctx context.Context, query, spaceKey string) ([]models.PageInfo, error) {
			gotQuery, gotSpace = query, spaceKey
			return []models.PageInfo{{ID: "1"}, {ID: "2"}}, nil
		},
	}
	handler := NewConfluenceHandler(mock, common.GetLogger())

	req := httptest.NewRequest("GET", "/api/confluence/search?query=runbook&space_key=OPS", nil)
	rec := httptest.NewRecorder()
	handler.SearchPagesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "runbook", gotQuery)
	assert.Equal(t, "OPS", gotSpace)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Found 2 pages", envelope.Message)
}

func TestSearchPagesHandler_MissingQuery(t *testing.T) {
	handler := NewConfluenceHandler(&mockConfluenceService{}, common.GetLogger())

	req := httptest.NewRequest("GET", "/api/confluence/search", nil)
	rec := httptest.NewRecorder()
	handler.SearchPagesHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Query parameter is required", envelope.Error)
}

func TestSearchPagesHandler_ServiceError(t *testing.T) {
	mock := &mockConfluenceService{
		searchFunc: func(ctx context.Context, query, spaceKey string) ([]models.PageInfo, error) {
			return nil, errors.New("search pages: confluence returned status 500")
		},
	}
	handler := NewConfluenceHandler(mock, common.GetLogger())

	req := httptest.NewRequest("GET", "/api/confluence/search?query=x", nil)
	rec := httptest.NewRecorder()
	handler.SearchPagesHandler(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Error", envelope.Message)
	assert.Contains(t, envelope.Error, "status 500")
}
