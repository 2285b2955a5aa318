package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/examprep/backend/internal/models"
)

var ErrNoInput = errors.New("no text or document provided")

// Inserter is the slice of the question store ingestion writes to.
type Inserter interface {
	InsertQuestions(ctx context.Context, questions []models.Question) ([]int64, error)
}

type Service struct {
	ocr   OCRClient
	store Inserter
}

func NewService(ocr OCRClient, store Inserter) *Service {
	return &Service{ocr: ocr, store: store}
}

// Ingest takes raw MCQ text (inline or via OCR of an uploaded document),
// parses it, and inserts everything that parsed cleanly. Skipped blocks
// come back in the result so the uploader can fix them.
func (s *Service) Ingest(ctx context.Context, req models.IngestRequest) (*models.IngestResponse, error) {
	text := req.Text
	if strings.TrimSpace(text) == "" {
		if strings.TrimSpace(req.DocumentRef) == "" {
			return nil, ErrNoInput
		}
		extracted, err := s.ocr.ExtractText(ctx, req.DocumentRef)
		if err != nil {
			return nil, fmt.Errorf("extracting document text: %w", err)
		}
		text = extracted
	}

	difficulty := req.Difficulty
	if !models.ValidDifficulties[difficulty] {
		difficulty = models.DifficultyMedium
	}

	questions, skipped := Parse(text, strings.TrimSpace(req.Topic), difficulty)

	inserted := 0
	if len(questions) > 0 {
		ids, err := s.store.InsertQuestions(ctx, questions)
		if err != nil {
			return nil, fmt.Errorf("inserting questions: %w", err)
		}
		inserted = len(ids)
	}

	resp := &models.IngestResponse{
		Parsed:   len(questions),
		Ingested: inserted,
	}
	for _, sk := range skipped {
		resp.Skipped = append(resp.Skipped, fmt.Sprintf("block %d: %s", sk.Block, sk.Reason))
	}
	return resp, nil
}
