package domain

// Moderation status constants shared by reviews and comments.
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

// IsValidModerationStatus checks whether the given status is one of the
// moderation states.
func IsValidModerationStatus(status string) bool {
	switch status {
	case ModerationPending, ModerationApproved, ModerationRejected:
		return true
	}
	return false
}

// StatusForAuthor returns the moderation status content receives when created
// or edited by the given role. Admin-authored content is trusted and goes
// straight to approved; everything else re-enters the moderation queue.
func StatusForAuthor(role string) string {
	if role == RoleAdmin {
		return ModerationApproved
	}
	return ModerationPending
}
