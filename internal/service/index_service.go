package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"rag-console/internal/entity"
	"rag-console/internal/mapper"
	"rag-console/internal/pkg/logger"
	"rag-console/pkg/backend"
)

// ErrUnsupportedFile rejects uploads the backend would refuse anyway,
// before any bytes leave the client.
var ErrUnsupportedFile = errors.New("unsupported file type")

// allowedUploadExts mirrors the backend's accepted set.
var allowedUploadExts = map[string]bool{
	".pdf": true, ".txt": true, ".docx": true, ".odt": true,
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true,
	".tif": true, ".tiff": true, ".webp": true,
}

// IIndexService exposes the backend's index management operations to
// the console surface.
type IIndexService interface {
	Status(ctx context.Context) (*entity.IndexStatus, error)
	Upload(ctx context.Context, paths []string) ([]entity.UploadSummary, error)
	Clear(ctx context.Context) (string, error)
}

type indexService struct {
	backend backend.IClient
	mapper  *mapper.AnswerMapper
	logger  logger.ILogger
}

func NewIndexService(backendClient backend.IClient, sysLogger logger.ILogger) IIndexService {
	return &indexService{
		backend: backendClient,
		mapper:  mapper.NewAnswerMapper(),
		logger:  sysLogger,
	}
}

func (s *indexService) Status(ctx context.Context) (*entity.IndexStatus, error) {
	resp, err := s.backend.IndexStatus(ctx)
	if err != nil {
		s.logger.Error("IndexService", "failed to fetch index status", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return s.mapper.IndexStatusToEntity(resp), nil
}

func (s *indexService) Upload(ctx context.Context, paths []string) ([]entity.UploadSummary, error) {
	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		if !allowedUploadExts[ext] {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
		}
	}

	resp, err := s.backend.Upload(ctx, paths)
	if err != nil {
		s.logger.Error("IndexService", "upload failed", map[string]interface{}{
			"files": len(paths),
			"error": err.Error(),
		})
		return nil, err
	}
	return s.mapper.UploadSummariesToEntity(resp), nil
}

func (s *indexService) Clear(ctx context.Context) (string, error) {
	resp, err := s.backend.ClearIndex(ctx)
	if err != nil {
		s.logger.Error("IndexService", "clear index failed", map[string]interface{}{"error": err.Error()})
		return "", err
	}
	return resp.Message, nil
}
