// Package dataset implements ingestion and retrieval of uploaded dataset
// files. Validation happens before any storage or database write.
package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slmforge/trainbench/internal/apperr"
	"github.com/slmforge/trainbench/internal/metrics"
	"github.com/slmforge/trainbench/internal/models"
	"github.com/slmforge/trainbench/internal/storage"
)

var allowedExtensions = map[string]string{
	".csv":   "text/csv",
	".json":  "application/json",
	".jsonl": "application/jsonl",
}

type Service struct {
	db    *pgxpool.Pool
	store storage.Storage
}

func NewService(db *pgxpool.Pool, store storage.Storage) *Service {
	return &Service{db: db, store: store}
}

type UploadRequest struct {
	Name        string
	Description string
	DatasetType string
	Filename    string
	Data        io.Reader
}

const datasetColumns = "id, name, description, dataset_type, file_path, row_count, created_at"

func (s *Service) Upload(ctx context.Context, req UploadRequest) (*models.Dataset, error) {
	dsType, ok := models.ParseDatasetType(req.DatasetType)
	if !ok {
		return nil, apperr.Validationf("dataset_type must be 'training' or 'evaluation'")
	}

	ext := strings.ToLower(path.Ext(req.Filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return nil, apperr.Validationf("invalid file type %q, allowed: .csv, .json, .jsonl", ext)
	}

	content, err := io.ReadAll(req.Data)
	if err != nil {
		return nil, apperr.Storage("read upload", err)
	}

	// The id makes the stored path collision-free.
	dsID := uuid.New()
	filePath := fmt.Sprintf("datasets/%s_%s", dsID, path.Base(req.Filename))

	if err := s.store.Upload(ctx, filePath, bytes.NewReader(content), contentType); err != nil {
		return nil, apperr.Storage("upload", err)
	}

	rowCount := CountRows(content, ext)

	var ds models.Dataset
	err = s.db.QueryRow(ctx,
		`INSERT INTO datasets (id, name, description, dataset_type, file_path, row_count)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+datasetColumns,
		dsID, req.Name, req.Description, dsType, filePath, rowCount,
	).Scan(&ds.ID, &ds.Name, &ds.Description, &ds.DatasetType, &ds.FilePath, &ds.RowCount, &ds.CreatedAt)
	if err != nil {
		// Best effort: don't leave an orphaned file behind.
		s.store.Delete(ctx, filePath)
		return nil, fmt.Errorf("insert dataset: %w", err)
	}

	metrics.DatasetsUploaded.Inc()
	return &ds, nil
}

func (s *Service) List(ctx context.Context) ([]models.Dataset, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+datasetColumns+` FROM datasets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []models.Dataset
	for rows.Next() {
		var ds models.Dataset
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.Description, &ds.DatasetType, &ds.FilePath, &ds.RowCount, &ds.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		datasets = append(datasets, ds)
	}
	return datasets, rows.Err()
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Dataset, error) {
	var ds models.Dataset
	err := s.db.QueryRow(ctx,
		`SELECT `+datasetColumns+` FROM datasets WHERE id = $1`, id,
	).Scan(&ds.ID, &ds.Name, &ds.Description, &ds.DatasetType, &ds.FilePath, &ds.RowCount, &ds.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("dataset")
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	return &ds, nil
}

// Download returns the raw stored bytes plus a download filename derived from
// the dataset name and the original extension.
func (s *Service) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	ds, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	rc, err := s.store.Download(ctx, ds.FilePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", apperr.NotFound("dataset file")
	}
	if err != nil {
		return nil, "", apperr.Storage("download", err)
	}

	return rc, ds.Name + path.Ext(ds.FilePath), nil
}
