package domain

import "time"

// AccountType defines the kind of account and which feature set applies to it.
type AccountType string

const (
	AccountPersonal AccountType = "PERSONAL"
	AccountCouple   AccountType = "COUPLE"
	AccountFamily   AccountType = "FAMILY"
	AccountBusiness AccountType = "BUSINESS"
)

// AccountMemberRole defines the possible roles a user can have within an account.
type AccountMemberRole string

const (
	RoleOwner   AccountMemberRole = "OWNER"
	RoleMember  AccountMemberRole = "MEMBER"
	RoleRemoved AccountMemberRole = "REMOVED" // For users who have been removed from the account
)

// AccountMember represents the membership of a User in an Account.
// The user reference is a weak foreign key, never lifecycle ownership.
type AccountMember struct {
	UserID    string            `json:"userID"`    // FK -> users.user_id
	AccountID string            `json:"accountID"` // FK -> accounts.account_id
	Role      AccountMemberRole `json:"role"`
	IsActive  bool              `json:"isActive"`
	JoinedAt  time.Time         `json:"joinedAt"`
}

// Account represents a spending account (personal, couple, family or business).
// This is the primary representation used by services.
type Account struct {
	AccountID   string          `json:"accountID"` // Primary Key (e.g., UUID)
	OwnerID     string          `json:"ownerID"`   // FK -> users.user_id (NON-NULL)
	Name        string          `json:"name"`      // User-defined name
	AccountType AccountType     `json:"accountType"`
	Description string          `json:"description"` // Nullable user description
	IsActive    bool            `json:"isActive"`    // Soft delete or status flag
	Members     []AccountMember `json:"members,omitempty"`
	AuditFields                 // Embed CreatedAt, CreatedBy, etc.
}

// PartnerIDs returns the deduplicated set {owner} ∪ {active members}.
// Couple settlement and gift logic require this set to have exactly two
// elements; callers enforce that cardinality.
func (a Account) PartnerIDs() []string {
	seen := map[string]bool{a.OwnerID: true}
	ids := []string{a.OwnerID}
	for _, m := range a.Members {
		if !m.IsActive || m.Role == RoleRemoved || seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		ids = append(ids, m.UserID)
	}
	return ids
}

// PartnerOf returns the other member of a two-person partner set. The second
// return is false when userID is not part of the set or the set is not a pair.
func (a Account) PartnerOf(userID string) (string, bool) {
	partners := a.PartnerIDs()
	if len(partners) != 2 {
		return "", false
	}
	switch userID {
	case partners[0]:
		return partners[1], true
	case partners[1]:
		return partners[0], true
	}
	return "", false
}
