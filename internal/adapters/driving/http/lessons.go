package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/edutech/edutech-core/internal/core/domain"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
)

// handleCreateLesson godoc
// @Summary      Create lesson
// @Tags         Lessons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.CreateLessonRequest  true  "Lesson details"
// @Success      201      {object}  domain.Lesson
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Router       /lessons [post]
func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req driving.CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lesson, err := s.lessonService.Create(r.Context(), uid, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "category not found")
			return
		}
		s.writeServiceError(w, err, "failed to create lesson")
		return
	}

	writeJSON(w, http.StatusCreated, lesson)
}

// handleGetLesson godoc
// @Summary      Get lesson
// @Tags         Lessons
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Lesson ID"
// @Success      200  {object}  domain.Lesson
// @Failure      404  {object}  ErrorResponse  "Lesson not found"
// @Router       /lessons/{id} [get]
func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid lesson id")
		return
	}

	lesson, err := s.lessonService.Get(r.Context(), uid, id)
	if err != nil {
		s.writeServiceError(w, err, "failed to get lesson")
		return
	}

	writeJSON(w, http.StatusOK, lesson)
}

// lessonConversionResponse lists the tasks queued for a lesson
// @Description Conversions queued for a lesson
type lessonConversionResponse struct {
	Tasks []*domain.Task `json:"tasks"`
}

// handleConvertLesson godoc
// @Summary      Convert lesson documents
// @Description  Queue a conversion for every document of the lesson that is not yet converted and has a supported format
// @Tags         Conversion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int             true   "Lesson ID"
// @Param        request  body      convertRequest  false  "Conversion options"
// @Success      202      {object}  lessonConversionResponse
// @Failure      404      {object}  ErrorResponse  "Lesson not found"
// @Failure      503      {object}  ErrorResponse  "Background conversion disabled"
// @Router       /lessons/{id}/convert [post]
func (s *Server) handleConvertLesson(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid lesson id")
		return
	}

	var body convertRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	tasks, err := s.conversionService.EnqueueLesson(r.Context(), domain.ConvertLessonRequest{
		LessonID:        id,
		UserID:          uid,
		CategoryID:      body.CategoryID,
		GenerateSummary: body.GenerateSummary == nil || *body.GenerateSummary,
	})
	if err != nil {
		s.writeServiceError(w, err, "failed to queue lesson conversion")
		return
	}

	writeJSON(w, http.StatusAccepted, lessonConversionResponse{Tasks: tasks})
}

// handleListCategories godoc
// @Summary      List categories
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Category
// @Router       /categories [get]
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	categories, err := s.categoryService.List(r.Context(), uid)
	if err != nil {
		s.writeServiceError(w, err, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}

	writeJSON(w, http.StatusOK, categories)
}

// handleCreateCategory godoc
// @Summary      Create category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.CreateCategoryRequest  true  "Category details"
// @Success      201      {object}  domain.Category
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Router       /categories [post]
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req driving.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := s.categoryService.Create(r.Context(), uid, req)
	if err != nil {
		s.writeServiceError(w, err, "failed to create category")
		return
	}

	writeJSON(w, http.StatusCreated, category)
}
