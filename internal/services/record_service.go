package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gridworks/plotregistry/api/internal/logger"
	"github.com/gridworks/plotregistry/api/internal/models"
	"github.com/gridworks/plotregistry/api/internal/repository"
	"github.com/gridworks/plotregistry/api/internal/storage"
)

// defaultSubmission partitions storage paths for rows that carry no
// submission stage of their own.
const defaultSubmission = "SUBMISSION-III"

// imageExtensions are the recognized image file types, matched
// case-insensitively.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// RecordDetail is the record endpoint response: the full row plus signed
// URLs for its stored documents.
type RecordDetail struct {
	models.PlotRecord
	Images []string `json:"images"`
	PDF    *string  `json:"pdf"`
	HasPDF bool     `json:"has_pdf"`
}

// RecordService assembles the single-record detail view.
type RecordService interface {
	// GetRecordDetail returns the full row joined with signed image URLs
	// and the signed PDF URL. Returns ErrRecordNotFound when the id does
	// not exist. Storage failures degrade to an empty image list or a nil
	// PDF rather than failing the request.
	GetRecordDetail(ctx context.Context, id int) (*RecordDetail, error)
}

// recordService is the concrete implementation of RecordService.
type recordService struct {
	repo   repository.PlotRepository
	store  storage.ObjectStore
	log    *logger.Logger
	urlTTL time.Duration
}

// NewRecordService creates a new instance of RecordService.
func NewRecordService(repo repository.PlotRepository, store storage.ObjectStore, log *logger.Logger, urlTTL time.Duration) RecordService {
	return &recordService{
		repo:   repo,
		store:  store,
		log:    log,
		urlTTL: urlTTL,
	}
}

func (s *recordService) GetRecordDetail(ctx context.Context, id int) (*RecordDetail, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query plot record", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to query plot record: %w", err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	submission := defaultSubmission
	if record.Submission != nil && *record.Submission != "" {
		submission = *record.Submission
	}

	detail := &RecordDetail{
		PlotRecord: *record,
		Images:     s.signedImages(ctx, submission, id),
	}

	pdfPath := path.Join("pdfs", submission, strconv.Itoa(id)+".pdf")
	if url, err := s.store.SignedURL(pdfPath, s.urlTTL); err == nil {
		detail.PDF = &url
		detail.HasPDF = true
	} else if !errors.Is(err, storage.ErrObjectNotFound) {
		s.log.Warn("Failed to sign PDF URL", map[string]interface{}{
			"id":    id,
			"path":  pdfPath,
			"error": err.Error(),
		})
	}

	return detail, nil
}

// signedImages lists and signs the record's image objects. Any storage
// failure degrades to fewer (or no) images.
func (s *recordService) signedImages(ctx context.Context, submission string, id int) []string {
	prefix := path.Join("images", submission, strconv.Itoa(id))

	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		s.log.Warn("Failed to list record images", map[string]interface{}{
			"id":     id,
			"prefix": prefix,
			"error":  err.Error(),
		})
		return []string{}
	}

	urls := make([]string, 0, len(objects))
	for _, object := range objects {
		if !imageExtensions[strings.ToLower(path.Ext(object))] {
			continue
		}
		url, err := s.store.SignedURL(object, s.urlTTL)
		if err != nil {
			s.log.Warn("Failed to sign image URL", map[string]interface{}{
				"id":     id,
				"object": object,
				"error":  err.Error(),
			})
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
