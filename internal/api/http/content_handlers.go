package http

import (
	"database/sql"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avioprep/avioprep/internal/audit"
	authmw "github.com/avioprep/avioprep/internal/auth/middleware"
	"github.com/avioprep/avioprep/internal/storage"
)

type contentRow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	SizeBytes  int64  `json:"size_bytes"`
	UploadedBy string `json:"uploaded_by"`
	CreatedAt  int64  `json:"created_at"`
}

// POST /content (multipart: file, kind, name) — admin upload of notes/PDFs.
func UploadContentHandler(db *sql.DB, bs storage.BlobStore, auditLog *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		kind := r.FormValue("kind")
		switch kind {
		case "note", "pdf", "mcq_set":
		default:
			http.Error(w, "kind must be note|pdf|mcq_set", http.StatusBadRequest)
			return
		}
		name := r.FormValue("name")
		if name == "" {
			name = hdr.Filename
		}

		id := uuid.NewString()
		blobKey := path.Join(kind, id+path.Ext(hdr.Filename))
		if _, err := bs.Put(blobKey, f); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		by := authmw.SubjectFromContext(r.Context())
		_, err = db.ExecContext(r.Context(),
			`INSERT INTO content_objects (id,name,kind,blob_key,size_bytes,uploaded_by,created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			id, name, kind, blobKey, hdr.Size, by, time.Now().Unix())
		if err != nil {
			_ = bs.Delete(blobKey)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if auditLog != nil {
			_ = auditLog.Append(r.Context(), "ContentUploaded", id, map[string]any{
				"name": name, "kind": kind, "by": by,
			})
		}
		writeJSON(w, http.StatusCreated, contentRow{
			ID: id, Name: name, Kind: kind, SizeBytes: hdr.Size, UploadedBy: by,
		})
	}
}

// GET /content?kind=pdf
func ListContentHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := r.URL.Query().Get("kind")
		var rows *sql.Rows
		var err error
		if kind == "" {
			rows, err = db.QueryContext(r.Context(),
				`SELECT id,name,kind,size_bytes,uploaded_by,created_at FROM content_objects ORDER BY created_at DESC`)
		} else {
			rows, err = db.QueryContext(r.Context(),
				`SELECT id,name,kind,size_bytes,uploaded_by,created_at FROM content_objects WHERE kind=$1 ORDER BY created_at DESC`, kind)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		out := []contentRow{}
		for rows.Next() {
			var c contentRow
			if err := rows.Scan(&c.ID, &c.Name, &c.Kind, &c.SizeBytes, &c.UploadedBy, &c.CreatedAt); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			out = append(out, c)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /content/{contentID} streams the blob.
func GetContentHandler(db *sql.DB, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "contentID")
		var name, blobKey string
		err := db.QueryRowContext(r.Context(),
			`SELECT name, blob_key FROM content_objects WHERE id=$1`, id).Scan(&name, &blobKey)
		if err != nil {
			http.Error(w, "content not found", http.StatusNotFound)
			return
		}
		rc, err := bs.Get(blobKey)
		if err != nil {
			http.Error(w, "blob missing", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		_, _ = io.Copy(w, rc)
	}
}

// DELETE /content/{contentID}
func DeleteContentHandler(db *sql.DB, bs storage.BlobStore, auditLog *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "contentID")
		var blobKey string
		err := db.QueryRowContext(r.Context(),
			`SELECT blob_key FROM content_objects WHERE id=$1`, id).Scan(&blobKey)
		if err != nil {
			http.Error(w, "content not found", http.StatusNotFound)
			return
		}
		if _, err := db.ExecContext(r.Context(), `DELETE FROM content_objects WHERE id=$1`, id); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = bs.Delete(blobKey)
		if auditLog != nil {
			_ = auditLog.Append(r.Context(), "ContentDeleted", id, map[string]any{
				"by": authmw.SubjectFromContext(r.Context()),
			})
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
