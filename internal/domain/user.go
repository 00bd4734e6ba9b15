package domain

// UserStatus holds six independent interest flags shown in the directory
type UserStatus struct {
	LookingForCofounder bool `json:"lookingForCofounder"`
	NeedsProjectHelp    bool `json:"needsProjectHelp"`
	OfferingProjectHelp bool `json:"offeringProjectHelp"`
	IsHiring            bool `json:"isHiring"`
	SeekingJob          bool `json:"seekingJob"`
	OpenToNetworking    bool `json:"openToNetworking"`
}

// StatusFlags lists the status keys in display order
var StatusFlags = []string{
	"lookingForCofounder",
	"needsProjectHelp",
	"offeringProjectHelp",
	"isHiring",
	"seekingJob",
	"openToNetworking",
}

// Flag returns the value of the named status flag; unknown names are false
func (s UserStatus) Flag(name string) bool {
	switch name {
	case "lookingForCofounder":
		return s.LookingForCofounder
	case "needsProjectHelp":
		return s.NeedsProjectHelp
	case "offeringProjectHelp":
		return s.OfferingProjectHelp
	case "isHiring":
		return s.IsHiring
	case "seekingJob":
		return s.SeekingJob
	case "openToNetworking":
		return s.OpenToNetworking
	}
	return false
}

type JobListing struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Link     string `json:"link"`
	PostedAt string `json:"postedAt"`
}

// UserAccount is the persisted profile keyed by the identity provider uid.
// IsAdmin is a snapshot taken at creation; authorization always consults the allow-list.
type UserAccount struct {
	UID              string       `json:"uid"`
	Email            string       `json:"email"`
	DisplayName      string       `json:"displayName"`
	PhotoURL         string       `json:"photoURL"`
	IsApproved       bool         `json:"isApproved"`
	IsAdmin          bool         `json:"isAdmin"`
	ShowInMembers    bool         `json:"showInMembers"`
	ProfileCompleted bool         `json:"profileCompleted"`
	LinkedinURL      string       `json:"linkedinUrl"`
	Status           UserStatus   `json:"status"`
	JoinedAt         string       `json:"joinedAt"`
	ApprovedAt       *string      `json:"approvedAt"`
	ApprovedBy       *string      `json:"approvedBy"`
	JobListings      []JobListing `json:"jobListings"`
	LastUpdate       *string      `json:"lastUpdate,omitempty"`
}

// ProfileUpdate is a partial write to a UserAccount. Nil fields are left untouched.
// The approval family and IsAdmin are accepted on the wire so policy can strip them.
type ProfileUpdate struct {
	DisplayName      *string       `json:"displayName,omitempty"`
	PhotoURL         *string       `json:"photoURL,omitempty"`
	LinkedinURL      *string       `json:"linkedinUrl,omitempty"`
	Status           *UserStatus   `json:"status,omitempty"`
	ShowInMembers    *bool         `json:"showInMembers,omitempty"`
	ProfileCompleted *bool         `json:"profileCompleted,omitempty"`
	JobListings      *[]JobListing `json:"jobListings,omitempty"`
	IsAdmin          *bool         `json:"isAdmin,omitempty"`
	IsApproved       *bool         `json:"isApproved,omitempty"`
	ApprovedAt       *string       `json:"approvedAt,omitempty"`
	ApprovedBy       *string       `json:"approvedBy,omitempty"`
}

// Fields converts the update into the document field map to persist
func (u ProfileUpdate) Fields() map[string]any {
	fields := map[string]any{}
	if u.DisplayName != nil {
		fields["displayName"] = *u.DisplayName
	}
	if u.PhotoURL != nil {
		fields["photoURL"] = *u.PhotoURL
	}
	if u.LinkedinURL != nil {
		fields["linkedinUrl"] = *u.LinkedinURL
	}
	if u.Status != nil {
		fields["status"] = map[string]any{
			"lookingForCofounder": u.Status.LookingForCofounder,
			"needsProjectHelp":    u.Status.NeedsProjectHelp,
			"offeringProjectHelp": u.Status.OfferingProjectHelp,
			"isHiring":            u.Status.IsHiring,
			"seekingJob":          u.Status.SeekingJob,
			"openToNetworking":    u.Status.OpenToNetworking,
		}
	}
	if u.ShowInMembers != nil {
		fields["showInMembers"] = *u.ShowInMembers
	}
	if u.ProfileCompleted != nil {
		fields["profileCompleted"] = *u.ProfileCompleted
	}
	if u.JobListings != nil {
		fields["jobListings"] = JobListingFields(*u.JobListings)
	}
	if u.IsAdmin != nil {
		fields["isAdmin"] = *u.IsAdmin
	}
	if u.IsApproved != nil {
		fields["isApproved"] = *u.IsApproved
	}
	if u.ApprovedAt != nil {
		fields["approvedAt"] = *u.ApprovedAt
	}
	if u.ApprovedBy != nil {
		fields["approvedBy"] = *u.ApprovedBy
	}
	return fields
}

// JobListingFields renders listings as plain document values
func JobListingFields(listings []JobListing) []any {
	out := make([]any, 0, len(listings))
	for _, l := range listings {
		out = append(out, map[string]any{
			"title":    l.Title,
			"company":  l.Company,
			"link":     l.Link,
			"postedAt": l.PostedAt,
		})
	}
	return out
}
