package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/temankemah/temankemah-backend/api/validators"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
)

// parseMultipart reads the request body with the configured size ceiling.
func parseMultipart(r *http.Request, maxUploadMB int) error {
	limit := int64(maxUploadMB) << 20
	r.Body = http.MaxBytesReader(nil, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

func formString(r *http.Request, field string) string {
	return validators.SanitizeString(r.FormValue(field), 0)
}

func formStringPtr(r *http.Request, field string) *string {
	if _, ok := r.MultipartForm.Value[field]; !ok {
		return nil
	}
	value := formString(r, field)
	return &value
}

func formTime(r *http.Request, field string) (time.Time, error) {
	raw := formString(r, field)
	if raw == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, field+" must be RFC3339")
	}
	return parsed, nil
}

func formTimePtr(r *http.Request, field string) (*time.Time, error) {
	if formString(r, field) == "" {
		return nil, nil
	}
	parsed, err := formTime(r, field)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func formDecimal(r *http.Request, field string) (decimal.Decimal, error) {
	raw := formString(r, field)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a number")
	}
	return value, nil
}

func formDecimalPtr(r *http.Request, field string) (*decimal.Decimal, error) {
	if formString(r, field) == "" {
		return nil, nil
	}
	value, err := formDecimal(r, field)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func formIntPtr(r *http.Request, field string) (*int, error) {
	raw := formString(r, field)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must be an integer")
	}
	return &value, nil
}

func formUUIDPtr(r *http.Request, field string) (*uuid.UUID, error) {
	raw := formString(r, field)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a UUID")
	}
	return &id, nil
}

// formFile opens one optional uploaded file. Callers own the closer.
func formFile(r *http.Request, field string) (string, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("read %s upload", field))
	}
	return header.Filename, file, nil
}

// formFiles opens every file sent under one field name.
func formFiles(r *http.Request, field string) ([]string, []multipart.File, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	headers := r.MultipartForm.File[field]
	names := make([]string, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("read %s upload", field))
		}
		names = append(names, header.Filename)
		files = append(files, file)
	}
	return names, files, nil
}

func closeAll(files []multipart.File) {
	for _, file := range files {
		if file != nil {
			file.Close()
		}
	}
}
