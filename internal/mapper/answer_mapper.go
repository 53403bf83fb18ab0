package mapper

import (
	"rag-console/internal/dto"
	"rag-console/internal/entity"
)

type AnswerMapper struct{}

func NewAnswerMapper() *AnswerMapper {
	return &AnswerMapper{}
}

// knownModes is the closed set accepted at the boundary. Anything else
// is quarantined to the general mode instead of propagating an
// unrecognized tag into rendering.
var knownModes = map[string]entity.AnswerMode{
	"doc":      entity.AnswerModeDoc,
	"general":  entity.AnswerModeGeneral,
	"chitchat": entity.AnswerModeChitchat,
	"guidance": entity.AnswerModeGuidance,
}

func (m *AnswerMapper) AnswerToEntity(p *dto.AnswerPayload) *entity.Answer {
	if p == nil {
		return nil
	}

	mode, ok := knownModes[p.Mode]
	if !ok {
		mode = entity.AnswerModeGeneral
	}

	citations := make([]entity.Citation, 0, len(p.Citations))
	for i := range p.Citations {
		citations = append(citations, m.CitationToEntity(&p.Citations[i]))
	}

	return &entity.Answer{
		Raw:         p.Answer,
		Mode:        mode,
		Citations:   citations,
		Suggestions: p.Suggestions,
		SessionId:   p.SessionId,
		MultiTopics: p.MultiTopics,
		Meta:        p.Meta,
		Diagnostics: p.Diagnostics,
	}
}

func (m *AnswerMapper) CitationToEntity(p *dto.CitationPayload) entity.Citation {
	return entity.Citation{
		Source:  p.Source,
		Type:    p.Type,
		Page:    p.Page,
		Snippet: p.Snippet,
		Score:   p.Score,
		Title:   p.Title,
		URL:     p.Url,
	}
}

func (m *AnswerMapper) IndexStatusToEntity(p *dto.IndexStatusResponse) *entity.IndexStatus {
	if p == nil {
		return nil
	}
	return &entity.IndexStatus{
		Documents: p.Documents,
		Chunks:    p.Chunks,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *AnswerMapper) UploadSummariesToEntity(p *dto.UploadResponse) []entity.UploadSummary {
	if p == nil {
		return nil
	}
	summaries := make([]entity.UploadSummary, 0, len(p.Processed))
	for _, item := range p.Processed {
		summaries = append(summaries, entity.UploadSummary{
			Filename: item.Filename,
			Chunks:   item.Chunks,
		})
	}
	return summaries
}
