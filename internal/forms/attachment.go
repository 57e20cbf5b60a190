package forms

import (
	"fmt"
	"io"
	"mime/multipart"

	"go-agency-backend/internal/domain"
	"go-agency-backend/pkg/security"
)

// NormalizeAttachment accepts either a bare file or a collection of files
// and returns the first one. A nil or empty input yields nil.
func NormalizeAttachment(v any) (*domain.Attachment, error) {
	switch a := v.(type) {
	case nil:
		return nil, nil
	case *domain.Attachment:
		return a, nil
	case domain.Attachment:
		return &a, nil
	case []*domain.Attachment:
		if len(a) == 0 {
			return nil, nil
		}
		return a[0], nil
	case []domain.Attachment:
		if len(a) == 0 {
			return nil, nil
		}
		return &a[0], nil
	case *multipart.FileHeader:
		if a == nil {
			return nil, nil
		}
		return readFileHeader(a)
	case []*multipart.FileHeader:
		if len(a) == 0 || a[0] == nil {
			return nil, nil
		}
		return readFileHeader(a[0])
	default:
		return nil, fmt.Errorf("unsupported attachment type %T", v)
	}
}

// readFileHeader reads at most one byte past the size limit so oversized
// uploads are still detected without buffering all of them.
func readFileHeader(fh *multipart.FileHeader) (*domain.Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, security.MaxResumeSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return &domain.Attachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
