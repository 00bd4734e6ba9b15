package domain

type WorkshopType string

const (
	WorkshopTypePaper   WorkshopType = "paper"
	WorkshopTypeStartup WorkshopType = "startup"
	WorkshopTypeOther   WorkshopType = "other"
)

type Workshop struct {
	ID                string       `json:"id,omitempty"`
	Title             string       `json:"title"`
	PresenterName     string       `json:"presenterName"`
	PresenterLinkedIn string       `json:"presenterLinkedIn,omitempty"`
	Date              string       `json:"date"`
	Description       string       `json:"description"`
	YoutubeURL        string       `json:"youtubeUrl,omitempty"`
	Resources         []string     `json:"resources,omitempty"`
	Type              WorkshopType `json:"type"`
}

type PresentationType string

const (
	PresentationTypePaper   PresentationType = "paper"
	PresentationTypeStartup PresentationType = "startup"
	PresentationTypeOther   PresentationType = "other"
	PresentationTypeRequest PresentationType = "request"
)

type PresentationStatus string

const (
	PresentationStatusPending PresentationStatus = "pending"
	PresentationStatusDone    PresentationStatus = "done"
)

// PresentationRequest is a member's offer to present, or a request for a topic
type PresentationRequest struct {
	ID           string             `json:"id,omitempty"`
	UserID       string             `json:"userId"`
	UserName     string             `json:"userName"`
	UserEmail    string             `json:"userEmail"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Type         PresentationType   `json:"type"`
	ProposedDate string             `json:"proposedDate,omitempty"`
	Status       PresentationStatus `json:"status"`
	CreatedAt    string             `json:"createdAt"`
	CompletedAt  *string            `json:"completedAt"`
	CompletedBy  *string            `json:"completedBy"`
}
