package security

import "yamlrg-backend/internal/domain"

// Policy answers authorization questions against the admin allow-list.
// Every method is a pure decision with no side effects. The allow-list is
// copied at construction and never mutated afterwards.
type Policy struct {
	admins map[string]struct{}
	emails []string
}

// NewPolicy builds a policy from the configured admin emails. Matching is
// case-sensitive; empty entries are ignored.
func NewPolicy(adminEmails []string) *Policy {
	p := &Policy{admins: make(map[string]struct{}, len(adminEmails))}
	for _, email := range adminEmails {
		if email == "" {
			continue
		}
		if _, dup := p.admins[email]; dup {
			continue
		}
		p.admins[email] = struct{}{}
		p.emails = append(p.emails, email)
	}
	return p
}

// IsAdmin reports whether email is on the allow-list, by exact match
func (p *Policy) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	_, ok := p.admins[email]
	return ok
}

// AdminEmails returns a copy of the allow-list in configuration order
func (p *Policy) AdminEmails() []string {
	out := make([]string, len(p.emails))
	copy(out, p.emails)
	return out
}

// CanWriteApprovalFields gates isApproved, approvedAt and approvedBy on user accounts
func (p *Policy) CanWriteApprovalFields(actorEmail string) bool {
	return p.IsAdmin(actorEmail)
}

// CanMutateJoinRequest gates decisions, reverts and listing of join requests.
// Submitting a request needs no permission.
func (p *Policy) CanMutateJoinRequest(actorEmail string) bool {
	return p.IsAdmin(actorEmail)
}

// CanManageWorkshopOrPresentation gates workshop writes and presentation request administration
func (p *Policy) CanManageWorkshopOrPresentation(actorEmail string) bool {
	return p.IsAdmin(actorEmail)
}

// StripApprovalFields returns update without the fields actorEmail may not write.
// isAdmin is always dropped: the stored flag is a creation-time snapshot.
// Stripping is silent; it is not an error for a client to send extra fields.
func (p *Policy) StripApprovalFields(actorEmail string, update domain.ProfileUpdate) domain.ProfileUpdate {
	update.IsAdmin = nil
	if !p.CanWriteApprovalFields(actorEmail) {
		update.IsApproved = nil
		update.ApprovedAt = nil
		update.ApprovedBy = nil
	}
	return update
}
