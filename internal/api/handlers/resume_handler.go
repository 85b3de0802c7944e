package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/yoockh/placementcell/internal/services"
	"github.com/yoockh/placementcell/internal/utils"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

func (h *ResumeHandler) List(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

// Upload takes multipart field "file". The declared Content-Type is ignored;
// the type is sniffed from the bytes.
func (h *ResumeHandler) Upload(c *gin.Context) {
	const op = "ResumeHandler.Upload"

	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}
	if fh.Size <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file is empty", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	mimeType, err := sniffResumeType(file, fh.Filename)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
		return
	}

	row, err := h.svc.Upload(c.Request.Context(), studentID, services.UploadInput{
		FileName: fh.Filename,
		Size:     fh.Size,
		MimeType: mimeType,
		Body:     file,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// sniffResumeType detects the content type and rewinds the file. Legacy .doc
// files sniff as generic OLE storage and are mapped by extension.
func sniffResumeType(file multipart.File, name string) (string, error) {
	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	for m := mt; m != nil; m = m.Parent() {
		for _, allowed := range []string{services.MimePDF, services.MimeDOCX, services.MimeDOC} {
			if m.Is(allowed) {
				return allowed, nil
			}
		}
		if m.Is("application/x-ole-storage") && strings.EqualFold(filepath.Ext(name), ".doc") {
			return services.MimeDOC, nil
		}
	}
	return mt.String(), nil
}

func (h *ResumeHandler) Download(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	meta, rc, err := h.svc.Open(c.Request.Context(), c.Param("id"), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, meta.FileSize, meta.MimeType, rc, map[string]string{
		"Content-Disposition": "attachment; filename=" + strconv.Quote(meta.FileName),
	})
}

func (h *ResumeHandler) Delete(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), studentID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
