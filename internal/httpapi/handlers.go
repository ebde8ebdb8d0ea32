package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pdfqa/internal/domain"
)

type handler struct {
	qa        QA
	maxUpload int64
	log       zerolog.Logger
}

// UploadResponse is returned by POST /upload_pdf.
type UploadResponse struct {
	PDFID   string `json:"pdf_id"`
	Name    string `json:"name"`
	Preview string `json:"preview"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	PDFID    string `json:"pdf_id"`
	Question string `json:"question"`
}

// AskResponse is returned by POST /ask.
type AskResponse struct {
	PDFName          string   `json:"pdf_name"`
	DetectedLang     string   `json:"detected_lang"`
	QuestionEN       string   `json:"question_en"`
	AnswerEN         string   `json:"answer_en"`
	AnswerTranslated string   `json:"answer_translated"`
	Preview          string   `json:"preview"`
	Warnings         []string `json:"warnings,omitempty"`
}

// DocumentResponse is returned by GET /documents/{id}.
type DocumentResponse struct {
	PDFID   string `json:"pdf_id"`
	Name    string `json:"name"`
	Preview string `json:"preview"`
	Words   int    `json:"words"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// upload handles POST /upload_pdf with a multipart "file" field.
func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "upload too large", "")
			return
		}
		h.writeError(w, http.StatusBadRequest, "multipart field \"file\" is required", err.Error())
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "could not read upload", err.Error())
		return
	}
	res, err := h.qa.Upload(r.Context(), header.Filename, raw)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{PDFID: res.ID, Name: res.Name, Preview: res.Preview})
}

// ask handles POST /ask.
func (h *handler) ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.PDFID) == "" {
		h.writeError(w, http.StatusBadRequest, "pdf_id is required", "")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		h.writeError(w, http.StatusBadRequest, "question is required", "")
		return
	}
	trace, err := h.qa.Ask(r.Context(), req.PDFID, req.Question)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AskResponse{
		PDFName:          trace.DocumentName,
		DetectedLang:     trace.DetectedLang,
		QuestionEN:       trace.QuestionEnglish,
		AnswerEN:         trace.AnswerEnglish,
		AnswerTranslated: trace.AnswerTranslated,
		Preview:          trace.Preview,
		Warnings:         trace.Warnings,
	})
}

// document handles GET /documents/{id}.
func (h *handler) document(w http.ResponseWriter, r *http.Request) {
	doc, err := h.qa.Document(chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{PDFID: doc.ID, Name: doc.Name, Preview: doc.Preview, Words: doc.Words})
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindExtraction:
		return http.StatusUnprocessableEntity
	case domain.KindTranslation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		h.log.Error().Err(err).Msg("request failed")
		h.writeError(w, status, "internal error", "")
		return
	}
	msg := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		msg = de.Message
	}
	detail := ""
	if de != nil && de.Err != nil {
		detail = de.Err.Error()
	}
	h.writeError(w, status, msg, detail)
}

func (h *handler) writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, errorResponse{Error: message, Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
