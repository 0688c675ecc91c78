package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/httpserver/deps"
	"github.com/ablemap/ablemap/internal/validation"
)

// bookmarkDTO is the wire shape shared with the web client. userId holds
// every member of the place, not just the caller.
type bookmarkDTO struct {
	ID        int64     `json:"id"`
	PlaceID   string    `json:"placeId"`
	PlaceName string    `json:"placeName"`
	UserIDs   []int64   `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toBookmarkDTO(b *domain.Bookmark) bookmarkDTO {
	ids := b.UserIDs
	if ids == nil {
		ids = []int64{}
	}
	return bookmarkDTO{
		ID:        b.ID,
		PlaceID:   b.PlaceID,
		PlaceName: b.PlaceName,
		UserIDs:   ids,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

type createBookmarkRequest struct {
	PoiID     string `json:"poiId" validate:"required,max=64"`
	PlaceName string `json:"placeName" validate:"required,max=200"`
}

type bookmarkStatusResponse struct {
	IsBookmarked bool `json:"isBookmarked"`
}

// ListBookmarks serves GET /api/bookmarks/user.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Bookmarks.BookmarksForCaller(r.Context(), bearer(r))
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}

		out := make([]bookmarkDTO, 0, len(list))
		for _, b := range list {
			out = append(out, toBookmarkDTO(b))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// CreateBookmark serves POST /api/bookmarks.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookmarkRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		req.PoiID = strings.TrimSpace(req.PoiID)
		req.PlaceName = strings.TrimSpace(req.PlaceName)
		if err := validation.Struct(req); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}

		b, err := d.Bookmarks.Bookmark(r.Context(), bearer(r), req.PoiID, req.PlaceName)
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBookmarkDTO(b))
	}
}

// DeleteBookmark serves DELETE /api/bookmarks/{poiId}. Deleting a bookmark
// the caller doesn't hold still answers 200.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Bookmarks.Unbookmark(r.Context(), bearer(r), chi.URLParam(r, "poiId")); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeMessage(w, http.StatusOK, "bookmark removed")
	}
}

// BookmarkStatus serves GET /api/bookmarks/{poiId}/status. Always 200.
func BookmarkStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok := d.Bookmarks.IsBookmarked(r.Context(), bearer(r), chi.URLParam(r, "poiId"))
		writeJSON(w, http.StatusOK, bookmarkStatusResponse{IsBookmarked: ok})
	}
}
