package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"

	"unimarks/internal/app/models"
	"unimarks/internal/pkg/apperrors"
	"unimarks/internal/pkg/logger"
)

// The original releases stored each academic year as a JSON document
// shaped {semester_name: {subject_code: record}}. Those files remain
// readable: LoadYearFile decodes them (accepting both key generations)
// and ImportYearFile replays the content through the repositories so a
// year can be moved into the database store in one shot.

// LoadYearFile reads and decodes a legacy JSON year file.
func LoadYearFile(path, year string) (models.YearData, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.YearData{}, nil
		}
		return nil, apperrors.NewCustomError(apperrors.ErrPersistenceFailure,
			fmt.Sprintf("failed to read year file %s", path))
	}

	data, err := models.DecodeYearDocument(payload, year)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrPersistenceFailure,
			fmt.Sprintf("failed to decode year file %s", path))
	}
	return data, nil
}

// SaveYearFile writes YearData back out as a JSON document using
// current keys only.
func SaveYearFile(path string, data models.YearData) error {
	payload, err := models.EncodeYearDocument(data)
	if err != nil {
		return fmt.Errorf("encode year document: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return apperrors.NewCustomError(apperrors.ErrPersistenceFailure,
			fmt.Sprintf("failed to write year file %s", path))
	}
	return nil
}

// ImportYearFile loads a legacy JSON year file and persists every
// semester, subject, assignment and examination into the database
// store. Existing rows with the same natural keys are overwritten.
func (r *Repositories) ImportYearFile(ctx context.Context, path string) error {
	data, err := LoadYearFile(path, r.year)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	for semester, subjects := range data {
		if err := r.SemesterRepository.Add(ctx, semester); err != nil {
			return err
		}
		for code, subject := range subjects {
			subject.SubjectCode = code
			if err := r.SubjectRepository.Upsert(ctx, semester, subject); err != nil {
				return err
			}
			if err := r.AssignmentRepository.ReplaceAll(ctx, semester, code, subject.Assignments); err != nil {
				return err
			}
			if err := r.ExamRepository.Upsert(ctx, semester, code, subject.Examination); err != nil {
				return err
			}
		}
	}

	logger.Info().Str("path", path).Str("year", r.year).Msg("Imported legacy year file")
	return nil
}
