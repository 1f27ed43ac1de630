package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgtobala/user-story-generator/internal/files"
	"github.com/msgtobala/user-story-generator/internal/store/memory"
	"github.com/msgtobala/user-story-generator/internal/templates/domain"
	"github.com/msgtobala/user-story-generator/internal/templates/repository"
	"github.com/msgtobala/user-story-generator/internal/templates/service"
)

type memBlob struct{ removed []string }

func (b *memBlob) Put(_ context.Context, p string, r io.Reader, _ int64, _ string, _ map[string]string) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	return "https://blob.test/" + p, nil
}

func (b *memBlob) Remove(_ context.Context, p string) error {
	b.removed = append(b.removed, p)
	return nil
}

func setup(t *testing.T) (*gin.Engine, *memBlob) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blob := &memBlob{}
	svc := service.NewTemplateService(repository.NewTemplateRepository(memory.New()), nil)
	h := New(svc, files.NewUploader(blob))

	r := gin.New()
	h.Register(r.Group("/templates"))
	h.RegisterUploads(r.Group("/attachments"))
	return r, blob
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

type templateResp struct {
	Template domain.Template `json:"template"`
}

func createTemplate(t *testing.T, r *gin.Engine, name, module string) domain.Template {
	t.Helper()
	body := `{"featureName":"` + name + `","module":"` + module + `","role":"user","goal":"do things","benefit":"value","acceptanceCriteria":["It works end to end"]}`
	w := do(r, http.MethodPost, "/templates", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp templateResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Template
}

func TestTemplateRoutes(t *testing.T) {
	r, _ := setup(t)

	login := createTemplate(t, r, "Login", "Auth")
	createTemplate(t, r, "Dashboard", "Analytics")

	w := do(r, http.MethodGet, "/templates?sort=name-asc&module=Auth&module=Analytics", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Templates []domain.Template `json:"templates"`
		Count     int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "Dashboard", list.Templates[0].FeatureName)

	w = do(r, http.MethodGet, "/templates?search=log", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	w = do(r, http.MethodGet, "/templates?sort=random", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/templates/"+login.ID+"/clone", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var clone templateResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &clone))
	assert.Equal(t, "Login (Copy)", clone.Template.FeatureName)

	w = do(r, http.MethodPost, "/templates", `{"featureName":"No module","role":"r","goal":"g","benefit":"b"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Module is required"}`, w.Body.String())

	w = do(r, http.MethodDelete, "/templates/"+login.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, "/templates/"+login.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/templates/modules", "")
	assert.JSONEq(t, `{"modules":["Analytics","Auth"]}`, w.Body.String())
}

func TestImportRoute(t *testing.T) {
	r, _ := setup(t)

	w := do(r, http.MethodPost, "/templates/import", `{"stories":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"select at least one user story"}`, w.Body.String())

	w = do(r, http.MethodPost, "/templates/import", `{"stories":[{"featureName":"Search","module":"Patents","role":"examiner","goal":"find art","benefit":"assess novelty","acceptanceCriteria":["Results are ranked",""]}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func multipartBody(t *testing.T, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, n := range names {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+n+`"`)
		if strings.HasSuffix(n, ".txt") {
			h.Set("Content-Type", "text/plain")
		} else {
			h.Set("Content-Type", "application/x-msdownload")
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, _ = part.Write([]byte("contents of " + n))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAttachmentRoutes(t *testing.T) {
	r, blob := setup(t)
	tpl := createTemplate(t, r, "Login", "Auth")

	body, ct := multipartBody(t, "notes.txt", "virus.exe")
	req := httptest.NewRequest(http.MethodPost, "/templates/"+tpl.ID+"/attachments", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Template    domain.Template         `json:"template"`
		Attachments []domain.FileAttachment `json:"attachments"`
		Failed      []failedUpload          `json:"failed"`
		Error       string                  `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Attachments, 1)
	require.Len(t, resp.Template.Attachments, 1)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, "virus.exe", resp.Failed[0].Name)
	assert.Equal(t, "failed to upload: virus.exe", resp.Error)

	fileID := resp.Attachments[0].ID
	w = do(r, http.MethodDelete, "/templates/"+tpl.ID+"/attachments/"+fileID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"templates/" + tpl.ID + "/" + fileID}, blob.removed)

	w = do(r, http.MethodDelete, "/templates/"+tpl.ID+"/attachments/"+fileID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTempUpload(t *testing.T) {
	r, _ := setup(t)

	body, ct := multipartBody(t, "notes.txt")
	req := httptest.NewRequest(http.MethodPost, "/attachments", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OwnerID     string                  `json:"ownerId"`
		Attachments []domain.FileAttachment `json:"attachments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.OwnerID, "temp_"))
	require.Len(t, resp.Attachments, 1)
	assert.Contains(t, resp.Attachments[0].URL, "templates/"+resp.OwnerID+"/")
}

func TestTempUpload_RejectsSavedTemplateOwner(t *testing.T) {
	r, blob := setup(t)
	tpl := createTemplate(t, r, "Login", "Auth")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("owner_id", tpl.ID))
	part, err := mw.CreateFormFile("files", "notes.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("notes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/attachments/"+tpl.ID+"/1700000000000_abc_notes.txt", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, blob.removed)

	w = do(r, http.MethodDelete, "/attachments/temp_1700000000000/1700000000000_abc_notes.txt", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"templates/temp_1700000000000/1700000000000_abc_notes.txt"}, blob.removed)
}

func TestTemplateRoutes_ModuleNameWithComma(t *testing.T) {
	r, _ := setup(t)
	createTemplate(t, r, "Invoices", "Billing, Payments")
	createTemplate(t, r, "Login", "Auth")

	w := do(r, http.MethodGet, "/templates?module="+url.QueryEscape("Billing, Payments"), "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Templates []domain.Template `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Templates, 1)
	assert.Equal(t, "Invoices", list.Templates[0].FeatureName)
}
