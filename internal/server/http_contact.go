package server

import (
	"net/http"

	"github.com/alfredjeanlab/marketpro/internal/contact"
	"github.com/alfredjeanlab/marketpro/internal/events"
	"github.com/alfredjeanlab/marketpro/internal/idgen"
	"github.com/alfredjeanlab/marketpro/internal/presence"
)

// handleContact handles POST /api/contact. Messages are validated and
// announced on the event bus; nothing is delivered.
func (s *SiteServer) handleContact(w http.ResponseWriter, r *http.Request) {
	var form contact.Form
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if errs := contact.Validate(form); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "invalid contact form",
			"fields": errs,
		})
		return
	}

	s.visit(r, presence.KindContact)
	id, err := idgen.GenerateWithPrefix(idgen.MessagePrefix)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	form = contact.Normalize(form)
	s.recordAndPublish(r.Context(), events.TopicContactSubmitted, events.ContactSubmitted{
		ID:      id,
		Name:    form.Name,
		Email:   form.Email,
		Message: form.Message,
	})

	writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": "received"})
}
