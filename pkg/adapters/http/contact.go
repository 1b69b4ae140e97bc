package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/identify-labs/marquee/pkg/contact"
	"github.com/mitchellh/mapstructure"
)

// maxFormBytes caps contact submissions.
const maxFormBytes = 64 << 10

// SubmitContact handles POST /api/contact. It accepts JSON or a urlencoded
// form, validates it and logs it. Nothing is forwarded.
func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	form, err := decodeContact(r)
	if err != nil {
		s.logger.Warn("SubmitContact: Invalid request body", "err", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	form = form.Normalize()

	if err := form.Validate(); err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":        "validation failed",
				"fields":       verr.Fields,
				"notification": contact.NotificationFor(verr),
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("contact form received",
		"name", form.Name,
		"company", form.Company,
		"interest", form.Interest,
		"investment_range", form.InvestmentRange,
		"timeline", form.Timeline,
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "received",
		"notification": contact.Received(),
	})
}

func decodeContact(r *http.Request) (contact.Form, error) {
	var form contact.Form

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := json.NewDecoder(r.Body).Decode(&form)
		return form, err
	}

	if err := r.ParseForm(); err != nil {
		return form, err
	}
	values := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		values[k] = r.PostForm.Get(k)
	}
	err := mapstructure.Decode(values, &form)
	return form, err
}
