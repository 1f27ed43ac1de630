package http

import (
	"encoding/json"

	"github.com/msgtobala/user-story-generator/internal/projects/domain"
	"github.com/msgtobala/user-story-generator/internal/projects/service"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	projects *service.ProjectService
	drafts   *service.DraftService
}

func New(projects *service.ProjectService, drafts *service.DraftService) *Handler {
	return &Handler{projects: projects, drafts: drafts}
}

type createReq struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	SelectedTemplateIDs []string `json:"selectedTemplateIds"`
}

type renameReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type fieldReq struct {
	Field domain.StoryField `json:"field"`
	Value json.RawMessage   `json:"value"`
}

type toggleModuleReq struct {
	Module string `json:"module"`
}

type toggleTemplateReq struct {
	TemplateID string `json:"templateId"`
}

type searchReq struct {
	SearchTerm string `json:"searchTerm"`
}

type commitReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
