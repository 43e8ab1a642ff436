package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// maxMultipartMemory is the part of an upload kept in memory before spilling to disk
const maxMultipartMemory = 8 << 20

// convertRequest is the body of a conversion request
// @Description Conversion options
type convertRequest struct {
	CategoryID      *int64 `json:"category_id,omitempty" example:"3"`
	GenerateSummary *bool  `json:"generate_summary,omitempty" example:"true"`
}

// handleUploadDocument godoc
// @Summary      Upload document
// @Description  Upload a file (.txt, .md, .docx, .pdf, .html) and attach it to a lesson
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        lessonId  path      int   true  "Lesson ID"
// @Param        file      formData  file  true  "Document file"
// @Success      201       {object}  domain.Document
// @Failure      400       {object}  ErrorResponse  "Missing file or unsupported type"
// @Failure      404       {object}  ErrorResponse  "Lesson not found"
// @Failure      413       {object}  ErrorResponse  "File too large"
// @Router       /documents/upload/{lessonId} [post]
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	lessonID, ok := pathID(r, "lessonId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid lesson id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	doc, err := s.docService.Upload(r.Context(), driving.UploadRequest{
		UserID:   uid,
		LessonID: lessonID,
		FileName: header.Filename,
		Content:  file,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedUpload):
			writeError(w, http.StatusBadRequest, "File type not allowed. Supported: .txt, .md, .docx, .pdf, .html")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Lesson not found")
		default:
			s.writeServiceError(w, err, "upload failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// handleListLessonDocuments godoc
// @Summary      List lesson documents
// @Description  List the documents attached to a lesson, newest first
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        lessonId  path      int  true  "Lesson ID"
// @Success      200       {array}   domain.Document
// @Failure      404       {object}  ErrorResponse  "Lesson not found"
// @Router       /documents/lesson/{lessonId} [get]
func (s *Server) handleListLessonDocuments(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	lessonID, ok := pathID(r, "lessonId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid lesson id")
		return
	}

	docs, err := s.docService.ListByLesson(r.Context(), uid, lessonID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Lesson not found")
			return
		}
		s.writeServiceError(w, err, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []*domain.Document{}
	}

	writeJSON(w, http.StatusOK, docs)
}

// handleGetDocument godoc
// @Summary      Get document
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := documentParams(w, r)
	if !ok {
		return
	}

	doc, err := s.docService.Get(r.Context(), uid, id)
	if err != nil {
		s.writeServiceError(w, err, "failed to get document")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument godoc
// @Summary      Delete document
// @Description  Delete a document and its stored file
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Document ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id} [delete]
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := documentParams(w, r)
	if !ok {
		return
	}

	if err := s.docService.Delete(r.Context(), uid, id); err != nil {
		s.writeServiceError(w, err, "failed to delete document")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// handleParseDocument godoc
// @Summary      Preview conversion
// @Description  Parse a document and return the title, content and summary a conversion would produce. Nothing is persisted.
// @Tags         Conversion
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Document ID"
// @Success      200  {object}  domain.ParseResult
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      422  {object}  ErrorResponse  "Document cannot be parsed"
// @Router       /documents/{id}/parse [get]
func (s *Server) handleParseDocument(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := documentParams(w, r)
	if !ok {
		return
	}

	result, err := s.docService.Parse(r.Context(), uid, id)
	if err != nil {
		s.writeServiceError(w, err, "failed to parse document")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleConvertDocument godoc
// @Summary      Convert document to lesson
// @Description  Convert a document into a new lesson. With async=true the conversion is queued and a task is returned.
// @Tags         Conversion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int             true   "Document ID"
// @Param        async    query     bool            false  "Queue the conversion"
// @Param        request  body      convertRequest  false  "Conversion options"
// @Success      200      {object}  domain.ConversionResult
// @Success      202      {object}  domain.Task
// @Failure      403      {object}  domain.ConversionResult  "Access denied"
// @Failure      404      {object}  domain.ConversionResult  "Document not found"
// @Failure      409      {object}  domain.ConversionResult  "Already converted or in progress"
// @Failure      422      {object}  domain.ConversionResult  "Document cannot be parsed"
// @Failure      500      {object}  domain.ConversionResult  "Storage failure"
// @Router       /documents/{id}/convert [post]
func (s *Server) handleConvertDocument(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := documentParams(w, r)
	if !ok {
		return
	}

	var body convertRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	req := domain.ConvertRequest{
		DocumentID:      id,
		UserID:          uid,
		CategoryID:      body.CategoryID,
		GenerateSummary: body.GenerateSummary == nil || *body.GenerateSummary,
	}

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		task, err := s.conversionService.Enqueue(r.Context(), req)
		if err != nil {
			s.writeServiceError(w, err, "failed to queue conversion")
			return
		}
		writeJSON(w, http.StatusAccepted, task)
		return
	}

	result := s.conversionService.Convert(r.Context(), req)
	writeJSON(w, conversionHTTPStatus(result), result)
}

// handleConversionStatus godoc
// @Summary      Conversion status
// @Tags         Conversion
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Document ID"
// @Success      200  {object}  domain.ConversionStatus
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id}/conversion-status [get]
func (s *Server) handleConversionStatus(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := documentParams(w, r)
	if !ok {
		return
	}

	status, err := s.docService.ConversionStatus(r.Context(), uid, id)
	if err != nil {
		s.writeServiceError(w, err, "failed to get conversion status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// handleClearConversionError godoc
// @Summary      Clear conversion error
// @Description  Forget a recorded conversion failure so the document can be converted again
// @Tags         Conversion
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Document ID"
// @Success      200  {object}  domain.ConversionStatus
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id}/conversion-error [delete]
func (s *Server) handleClearConversionError(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := documentParams(w, r)
	if !ok {
		return
	}

	status, err := s.docService.ClearConversionError(r.Context(), uid, id)
	if err != nil {
		s.writeServiceError(w, err, "failed to clear conversion error")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// routeDocumentGet serves GET /documents/lesson/{lessonId} and the
// read-only per-document actions
func (s *Server) routeDocumentGet(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("id") == "lesson" {
		r.SetPathValue("lessonId", r.PathValue("action"))
		s.handleListLessonDocuments(w, r)
		return
	}
	switch r.PathValue("action") {
	case "parse":
		s.handleParseDocument(w, r)
	case "conversion-status":
		s.handleConversionStatus(w, r)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// routeDocumentPost serves POST /documents/upload/{lessonId} and /documents/{id}/convert
func (s *Server) routeDocumentPost(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("id") == "upload" {
		r.SetPathValue("lessonId", r.PathValue("action"))
		s.handleUploadDocument(w, r)
		return
	}
	if r.PathValue("action") == "convert" {
		s.handleConvertDocument(w, r)
		return
	}
	writeError(w, http.StatusNotFound, "not found")
}

// documentParams resolves the acting user and the {id} path parameter
func documentParams(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	uid, ok := userID(w, r)
	if !ok {
		return 0, 0, false
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return 0, 0, false
	}
	return uid, id, true
}

// conversionHTTPStatus maps a conversion outcome onto a status code
func conversionHTTPStatus(result *domain.ConversionResult) int {
	if result.OK() {
		return http.StatusOK
	}
	switch result.Code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeAccessDenied:
		return http.StatusForbidden
	case domain.CodeAlreadyConverted, domain.CodeInProgress:
		return http.StatusConflict
	case domain.CodeParseFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps domain errors onto status codes.
// Unknown errors are logged and reported with the fallback message.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var parseErr *domain.ParseError
	switch {
	case errors.As(err, &parseErr):
		writeError(w, http.StatusUnprocessableEntity, parseErr.Message)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyConverted):
		writeError(w, http.StatusConflict, domain.MsgAlreadyConverted)
	case errors.Is(err, domain.ErrConversionInProgress):
		writeError(w, http.StatusConflict, domain.MsgConversionInProgress)
	case errors.Is(err, domain.ErrTaskNotPending):
		writeError(w, http.StatusConflict, "task is no longer pending")
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "background conversion is not enabled")
	default:
		s.logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
