package document

import (
	"encoding/json"
	"fmt"
	"time"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/storage"
)

// Collection names shared with the web client
const (
	UsersCollection                = "users"
	JoinRequestsCollection         = "joinRequests"
	WorkshopsCollection            = "workshops"
	PresentationRequestsCollection = "presentationRequests"
)

// toFields renders a domain value as a document field map using its json tags
func toFields(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return fields, nil
}

// decodeInto fills out from the document fields. Native timestamps written by
// other clients are converted to the stored string form first.
func decodeInto(doc *storage.Document, out any) error {
	data := make(map[string]any, len(doc.Data))
	for k, v := range doc.Data {
		if t, ok := v.(time.Time); ok {
			v = domain.Timestamp(t)
		}
		data[k] = v
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", doc.ID, err)
	}
	return nil
}

func decodeJoinRequest(doc *storage.Document) (*domain.JoinRequest, error) {
	var req domain.JoinRequest
	if err := decodeInto(doc, &req); err != nil {
		return nil, err
	}
	req.ID = doc.ID
	if req.Status == "" {
		req.Status = domain.JoinRequestStatusPending
	}
	return &req, nil
}

func decodeUserAccount(doc *storage.Document) (*domain.UserAccount, error) {
	var account domain.UserAccount
	if err := decodeInto(doc, &account); err != nil {
		return nil, err
	}
	account.UID = doc.ID
	if account.JobListings == nil {
		account.JobListings = []domain.JobListing{}
	}
	return &account, nil
}

func decodeWorkshop(doc *storage.Document) (*domain.Workshop, error) {
	var w domain.Workshop
	if err := decodeInto(doc, &w); err != nil {
		return nil, err
	}
	w.ID = doc.ID
	if w.Type == "" {
		w.Type = domain.WorkshopTypeOther
	}
	if w.Resources == nil {
		w.Resources = []string{}
	}
	return &w, nil
}

func decodePresentationRequest(doc *storage.Document) (*domain.PresentationRequest, error) {
	var req domain.PresentationRequest
	if err := decodeInto(doc, &req); err != nil {
		return nil, err
	}
	req.ID = doc.ID
	if req.Status == "" {
		req.Status = domain.PresentationStatusPending
	}
	if req.Type == "" {
		req.Type = domain.PresentationTypeOther
	}
	return &req, nil
}
