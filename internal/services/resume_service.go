package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/placementcell/internal/models"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/storage"
	"github.com/yoockh/placementcell/internal/utils"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var resumeExt = map[string]string{
	MimePDF:  ".pdf",
	MimeDOC:  ".doc",
	MimeDOCX: ".docx",
}

// AllowedResumeType reports whether mimeType (parameters ignored) is PDF, DOC or DOCX.
func AllowedResumeType(mimeType string) bool {
	_, ok := resumeExt[normalizeMime(mimeType)]
	return ok
}

func normalizeMime(mimeType string) string {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mt
}

type UploadInput struct {
	FileName string
	Size     int64
	MimeType string
	Body     io.Reader
}

type ResumeService interface {
	Upload(ctx context.Context, studentID string, in UploadInput) (*models.Resume, error)
	List(ctx context.Context, studentID string) ([]models.Resume, error)
	// Open streams the stored file to its owner. Callers close the reader.
	Open(ctx context.Context, resumeID, studentID string) (*models.Resume, io.ReadCloser, error)
	Delete(ctx context.Context, resumeID, studentID string) error
}

type resumeService struct {
	repo     pgrepo.ResumeRepository
	students pgrepo.StudentRepository
	store    storage.Storage
	log      logrus.FieldLogger
	clock    Clock
}

func NewResumeService(repo pgrepo.ResumeRepository, students pgrepo.StudentRepository, store storage.Storage, log logrus.FieldLogger, clock Clock) ResumeService {
	return &resumeService{repo: repo, students: students, store: store, log: log, clock: clock}
}

// Upload checks quota, then type, then declared size. The quota check and
// the insert are not atomic; two concurrent uploads can both pass.
func (s *resumeService) Upload(ctx context.Context, studentID string, in UploadInput) (*models.Resume, error) {
	const op = "ResumeService.Upload"

	if studentID == "" || in.Body == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "student_id and file are required", nil)
	}
	if s.store == nil {
		return nil, utils.E(utils.CodeInternal, op, "storage is not configured", nil)
	}
	if _, err := activeStudent(ctx, s.students, op, studentID); err != nil {
		return nil, err
	}

	n, err := s.repo.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count resumes", err)
	}
	if n >= models.MaxResumesPerStudent {
		return nil, utils.E(utils.CodeQuotaExceeded, op, fmt.Sprintf("at most %d resumes allowed", models.MaxResumesPerStudent), nil)
	}

	mimeType := normalizeMime(in.MimeType)
	ext, ok := resumeExt[mimeType]
	if !ok {
		return nil, utils.E(utils.CodeInvalidType, op, "only PDF, DOC and DOCX files are accepted", nil)
	}
	if in.Size > models.MaxResumeBytes {
		return nil, utils.E(utils.CodeTooLarge, op, "file exceeds 2 MiB", nil)
	}

	id := uuid.NewString()
	key := fmt.Sprintf("resumes/%s/%s%s", studentID, id, ext)

	// The declared size is client supplied; cap what actually gets stored.
	body := &countingReader{r: io.LimitReader(in.Body, models.MaxResumeBytes+1)}
	storedPath, err := s.store.Save(ctx, key, mimeType, body)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to store file", err)
	}
	if body.n > models.MaxResumeBytes {
		s.removeObject(ctx, storedPath)
		return nil, utils.E(utils.CodeTooLarge, op, "file exceeds 2 MiB", nil)
	}

	row := &models.Resume{
		ID:         id,
		StudentID:  studentID,
		FileName:   cleanFileName(in.FileName, ext),
		FilePath:   storedPath,
		FileSize:   body.n,
		MimeType:   mimeType,
		UploadedAt: s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		s.log.WithError(err).WithField("path", storedPath).Error("resume metadata insert failed; stored object orphaned")
		return nil, utils.E(utils.CodeInternal, op, "failed to persist resume metadata", err)
	}
	return row, nil
}

func cleanFileName(name, ext string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "resume" + ext
	}
	return name
}

func (s *resumeService) List(ctx context.Context, studentID string) ([]models.Resume, error) {
	const op = "ResumeService.List"

	out, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list resumes", err)
	}
	return out, nil
}

func (s *resumeService) owned(ctx context.Context, op, resumeID, studentID string) (*models.Resume, error) {
	r, err := s.repo.GetByID(ctx, resumeID)
	if err != nil {
		return nil, repoErr(op, err, "resume not found")
	}
	if r.StudentID != studentID {
		return nil, utils.E(utils.CodeForbidden, op, "resume belongs to another student", nil)
	}
	return r, nil
}

func (s *resumeService) Open(ctx context.Context, resumeID, studentID string) (*models.Resume, io.ReadCloser, error) {
	const op = "ResumeService.Open"

	r, err := s.owned(ctx, op, resumeID, studentID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, r.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, utils.E(utils.CodeNotFound, op, "resume file is missing", err)
		}
		return nil, nil, utils.E(utils.CodeUnavailable, op, "failed to open resume file", err)
	}
	return r, rc, nil
}

// Delete removes the stored object, then the metadata row. Applications that
// selected this resume keep their reference.
func (s *resumeService) Delete(ctx context.Context, resumeID, studentID string) error {
	const op = "ResumeService.Delete"

	if _, err := activeStudent(ctx, s.students, op, studentID); err != nil {
		return err
	}
	r, err := s.owned(ctx, op, resumeID, studentID)
	if err != nil {
		return err
	}
	s.removeObject(ctx, r.FilePath)
	if err := s.repo.Delete(ctx, r.ID); err != nil {
		return repoErr(op, err, "resume not found")
	}
	return nil
}

func (s *resumeService) removeObject(ctx context.Context, path string) {
	if err := s.store.Delete(ctx, path); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.log.WithError(err).WithField("path", path).Warn("failed to remove stored resume")
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
