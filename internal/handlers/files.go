package handlers

import (
	"encoding/base64"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/sussybocca/FolderExplorer/internal/pkg"
	"github.com/sussybocca/FolderExplorer/internal/services"

	"github.com/gin-gonic/gin"
)

// FileHandler handles folder uploads and per-file reads and writes
type FileHandler struct {
	contentService *services.ContentService
}

// NewFileHandler creates a new file handler
func NewFileHandler(contentService *services.ContentService) *FileHandler {
	return &FileHandler{
		contentService: contentService,
	}
}

// UpdateFileRequest represents a file content update. Binary content
// travels base64-encoded with the encoding field set.
type UpdateFileRequest struct {
	Path     string `json:"path" binding:"required" validate:"required,relpath"`
	Content  string `json:"content" binding:"required"`
	Encoding string `json:"encoding" binding:"omitempty,oneof=utf-8 base64"`
}

// UploadFolder creates a folder from a multipart batch. The form
// carries a name field plus one file part per entry, keyed by the
// file's folder-relative path.
func (h *FileHandler) UploadFolder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		pkg.BadRequestResponse(c, "Invalid multipart form: "+err.Error())
		return
	}

	name := c.PostForm("name")

	var files []services.UploadFile
	for field, headers := range form.File {
		for _, header := range headers {
			content, err := readMultipartFile(header)
			if err != nil {
				pkg.BadRequestResponse(c, "Failed to read file: "+field)
				return
			}
			path := field
			if path == "file" || path == "files" {
				// Generic field names fall back to the client filename
				path = header.Filename
			}
			files = append(files, services.UploadFile{Path: path, Content: content})
		}
	}

	result, err := h.contentService.UploadBatch(c.Request.Context(), userID, name, files)
	if err != nil {
		// A partial result rides along so the client sees which
		// files stored before the batch failed
		if appErr, ok := pkg.IsAppError(err); ok && result != nil {
			pkg.ErrorResponse(c, appErr.StatusCode, appErr.Code, appErr.Message, result)
			return
		}
		respondError(c, err, "Failed to upload folder")
		return
	}

	pkg.CreatedResponse(c, "Folder uploaded", result)
}

// GetFile returns one file's content. Binary content is
// base64-encoded for the JSON transport.
func (h *FileHandler) GetFile(c *gin.Context) {
	userID, folderID, ok := requireUserAndFolder(c)
	if !ok {
		return
	}

	path := c.Query("path")
	file, err := h.contentService.GetFile(c.Request.Context(), userID, folderID, path)
	if err != nil {
		respondError(c, err, "Failed to get file")
		return
	}

	content := string(file.Content)
	encoding := "utf-8"
	if file.Binary {
		content = base64.StdEncoding.EncodeToString(file.Content)
		encoding = "base64"
	}

	pkg.SuccessResponse(c, http.StatusOK, "File retrieved", gin.H{
		"path":        path,
		"content":     content,
		"contentType": file.ContentType,
		"encoding":    encoding,
	})
}

// UpdateFile overwrites one file's content
func (h *FileHandler) UpdateFile(c *gin.Context) {
	userID, folderID, ok := requireUserAndFolder(c)
	if !ok {
		return
	}

	var req UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}
	if verrs := pkg.DefaultValidator.Validate(&req); verrs != nil {
		pkg.ValidationErrorResponse(c, verrs)
		return
	}

	content := []byte(req.Content)
	if req.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			pkg.BadRequestResponse(c, "Invalid base64 content")
			return
		}
		content = decoded
	}

	if err := h.contentService.UpdateFile(c.Request.Context(), userID, folderID, req.Path, content); err != nil {
		respondError(c, err, "Failed to update file")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "File updated", nil)
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
