package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lifestyleblend/apiserver/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxMultipartMemory = 32 << 20
	maxCoverBytes      = 16 << 20
	formFieldTitle     = "title"
	formFieldSummary   = "summary"
	formFieldContent   = "content"
	formFieldFile      = "file"
)

// PostHandler provides HTTP handlers for posts and content analysis.
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler constructs a handler with the provided service.
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// PostRouter registers post routes on the given router.
func PostRouter(r chi.Router, postService *services.PostService, sessionMiddleware func(http.Handler) http.Handler) {
	handler := NewPostHandler(postService)

	r.Post("/analyze-post", handler.AnalyzePost)
	r.Get("/search", handler.SearchPosts)
	r.Get("/translate-post/{postID}", handler.TranslatePost)
	r.Get("/generate-speech/{postID}", handler.GenerateSpeech)
	r.Route("/post", func(r chi.Router) {
		r.Get("/", handler.ListPosts)
		r.With(sessionMiddleware).Post("/", handler.CreatePost)
		r.Route("/{postID}", func(r chi.Router) {
			r.Get("/", handler.GetPost)
			r.With(sessionMiddleware).Put("/", handler.UpdatePost)
			r.With(sessionMiddleware).Delete("/", handler.DeletePost)
		})
	})
}

// AnalyzePost runs language detection and sentiment analysis over the
// submitted content.
func (h *PostHandler) AnalyzePost(w http.ResponseWriter, r *http.Request) {
	var req AnalyzePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	analysis, err := h.postService.Analyze(r.Context(), req.Content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to analyze post")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	authorID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Token not provided")
		return
	}

	input, err := parsePostForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postService.Create(r.Context(), input, authorID)
	if err != nil {
		writeServiceError(w, err, "failed to create post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	authorID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Token not provided")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, err := parsePostForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postService.Update(r.Context(), id, input, authorID)
	if err != nil {
		writeServiceError(w, err, "failed to update post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	authorID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Token not provided")
		return
	}

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.postService.Delete(r.Context(), id, authorID); err != nil {
		writeServiceError(w, err, "Failed to delete post")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := h.postService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to fetch post")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	posts, err := h.postService.Search(r.Context(), title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to search posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) TranslatePost(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	targetLanguage := strings.TrimSpace(r.URL.Query().Get("targetLanguage"))
	if targetLanguage == "" {
		writeError(w, http.StatusBadRequest, "targetLanguage is required")
		return
	}

	translation, err := h.postService.Translate(r.Context(), id, targetLanguage)
	if err != nil {
		writeServiceError(w, err, "Failed to translate text")
		return
	}
	writeJSON(w, http.StatusOK, translation)
}

// GenerateSpeech streams the post title as mp3 audio.
func (h *PostHandler) GenerateSpeech(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	speech, err := h.postService.SynthesizeTitle(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to generate speech")
		return
	}
	defer speech.Audio.Close()

	w.Header().Set("Content-Type", speech.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, speech.Audio)
}

type AnalyzePostRequest struct {
	Content string `json:"content"`
}

func parsePostID(r *http.Request) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, "postID")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid post id")
	}
	return id, nil
}

// parsePostForm reads the multipart post payload. The cover file is
// optional here; create enforces its presence in the service.
func parsePostForm(r *http.Request) (services.PostInput, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return services.PostInput{}, errors.New("invalid multipart form")
	}

	input := services.PostInput{
		Title:   r.FormValue(formFieldTitle),
		Summary: r.FormValue(formFieldSummary),
		Content: r.FormValue(formFieldContent),
	}

	if r.MultipartForm == nil {
		return input, nil
	}
	files := r.MultipartForm.File[formFieldFile]
	if len(files) == 0 {
		return input, nil
	}
	if len(files) > 1 {
		return services.PostInput{}, errors.New("only one cover file is allowed")
	}

	fileHeader := files[0]
	file, err := fileHeader.Open()
	if err != nil {
		return services.PostInput{}, errors.New("failed to read cover file")
	}
	data, err := readFileLimited(file, maxCoverBytes)
	_ = file.Close()
	if err != nil {
		return services.PostInput{}, err
	}

	input.Cover = &services.CoverUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}
	return input, nil
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
