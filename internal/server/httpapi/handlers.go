package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/server/services"
	"github.com/dmitrijs2005/memorylane/internal/server/validation"
	"github.com/dmitrijs2005/memorylane/internal/viewstate"
	"github.com/go-chi/chi/v5"
)

// formOverhead is allowed on top of the image for the other form fields.
const formOverhead = 1 << 20

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (s *HTTPServer) listMemories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"))
	if err != nil {
		s.writeError(w, r, validation.Invalid("limit", "NUMBER", "Must be a whole number"))
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		s.writeError(w, r, validation.Invalid("offset", "NUMBER", "Must be a whole number"))
		return
	}

	list, err := s.memories.List(r.Context(), chi.URLParam(r, "userID"), viewstate.FromValues(q), limit, offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

type timelineLinks struct {
	Filters map[viewstate.Filter]string `json:"filters"`
	Sorts   map[viewstate.Sort]string   `json:"sorts"`
	Clear   string                      `json:"clear"`
}

type timelineResponse struct {
	*services.TimelineView
	Query string        `json:"query"`
	Links timelineLinks `json:"links"`
}

// timeline renders the grouped view. Links hold the query string for every
// control on the page, ready to replace the current location.
func (s *HTTPServer) timeline(w http.ResponseWriter, r *http.Request) {
	current := r.URL.RawQuery
	vs := viewstate.Decode(current)

	view, err := s.memories.Timeline(r.Context(), chi.URLParam(r, "userID"), vs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	links := timelineLinks{
		Filters: make(map[viewstate.Filter]string),
		Sorts:   make(map[viewstate.Sort]string),
		Clear:   viewstate.Clear(current),
	}
	for _, f := range []viewstate.Filter{viewstate.FilterAll, viewstate.FilterThisYear, viewstate.FilterLastYear} {
		links.Filters[f] = viewstate.SetFilter(f, current)
	}
	for _, o := range []viewstate.Sort{viewstate.SortNewest, viewstate.SortOldest} {
		links.Sorts[o] = viewstate.SetSort(o, current)
	}

	writeData(w, http.StatusOK, timelineResponse{TimelineView: view, Query: current, Links: links})
}

func (s *HTTPServer) createMemory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.memories.MaxUploadSize()+formOverhead)

	var (
		in    validation.MemoryInput
		image *services.Upload
	)

	if isMultipart(r) {
		if err := r.ParseMultipartForm(s.memories.MaxUploadSize()); err != nil {
			s.writeBodyError(w, r, err)
			return
		}
		defer r.MultipartForm.RemoveAll()

		in = validation.MemoryInput{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Date:        r.FormValue("date"),
			Location:    r.FormValue("location"),
			ImageURL:    r.FormValue("image_url"),
		}

		file, header, err := r.FormFile("image")
		switch {
		case err == nil:
			defer file.Close()
			image = uploadFrom(file, header)
		case !errors.Is(err, http.ErrMissingFile):
			s.badRequest(w, "invalid image part")
			return
		}
	} else if err := decodeJSON(r, &in); err != nil {
		s.writeBodyError(w, r, err)
		return
	}

	m, err := s.memories.Create(r.Context(), chi.URLParam(r, "userID"), secret(r), in, image)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, m)
}

func (s *HTTPServer) getMemory(w http.ResponseWriter, r *http.Request) {
	m, err := s.memories.Get(r.Context(), chi.URLParam(r, "memoryID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, m)
}

// updateMemory rejects unknown fields, so user_id cannot be changed.
func (s *HTTPServer) updateMemory(w http.ResponseWriter, r *http.Request) {
	var in validation.PatchInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeBodyError(w, r, err)
		return
	}

	m, err := s.memories.Update(r.Context(), chi.URLParam(r, "memoryID"), secret(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, m)
}

func (s *HTTPServer) deleteMemory(w http.ResponseWriter, r *http.Request) {
	if err := s.memories.Delete(r.Context(), chi.URLParam(r, "memoryID"), secret(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.memories.MaxUploadSize()+formOverhead)

	if !isMultipart(r) {
		s.badRequest(w, "expected multipart/form-data")
		return
	}
	if err := r.ParseMultipartForm(s.memories.MaxUploadSize()); err != nil {
		s.writeBodyError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, r, validation.Invalid("image", "REQUIRED", "This field is required"))
		return
	}
	defer file.Close()

	url, err := s.memories.UploadImage(r.Context(), secret(r), *uploadFrom(file, header))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]string{"url": url})
}

func secret(r *http.Request) string {
	return r.Header.Get(common.SecretHeaderName)
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

func uploadFrom(file multipart.File, header *multipart.FileHeader) *services.Upload {
	return &services.Upload{
		Name:        header.Filename,
		Body:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// writeBodyError answers 413 for oversized bodies and 400 for anything else
// that could not be read.
func (s *HTTPServer) writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.writeError(w, r, err)
		return
	}
	s.badRequest(w, err.Error())
}
