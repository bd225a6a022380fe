package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType classifies who an expense counts against within a couple
// account: split between partners or attributed wholly to its creator.
type ExpenseType string

const (
	ExpenseShared   ExpenseType = "SHARED"
	ExpensePersonal ExpenseType = "PERSONAL"
)

// SplitMethod names the formula that produced a split.
type SplitMethod string

const (
	SplitEqual        SplitMethod = "EQUAL"
	SplitProportional SplitMethod = "PROPORTIONAL"
)

// ReactionType enumerates the reactions partners can leave on an expense.
type ReactionType string

const (
	ReactionLike     ReactionType = "LIKE"
	ReactionLove     ReactionType = "LOVE"
	ReactionSurprise ReactionType = "SURPRISE"
	ReactionSad      ReactionType = "SAD"
)

// ValidReactionType reports whether s names a known reaction type.
func ValidReactionType(s string) bool {
	switch ReactionType(s) {
	case ReactionLike, ReactionLove, ReactionSurprise, ReactionSad:
		return true
	}
	return false
}

// SplitDetails records how an expense amount divides between the two
// partners. Partner1Amount + Partner2Amount must equal the expense amount
// within rounding tolerance.
type SplitDetails struct {
	Partner1UserID     string           `json:"partner1UserID"`
	Partner2UserID     string           `json:"partner2UserID"`
	Partner1Amount     decimal.Decimal  `json:"partner1Amount"`
	Partner2Amount     decimal.Decimal  `json:"partner2Amount"`
	SplitMethod        SplitMethod      `json:"splitMethod"`
	Partner1Percentage *decimal.Decimal `json:"partner1Percentage,omitempty"`
	Partner2Percentage *decimal.Decimal `json:"partner2Percentage,omitempty"`
}

// Comment is one entry of an expense's append-only comment thread.
type Comment struct {
	CommentID string    `json:"commentID"`
	UserID    string    `json:"userID"` // UserID Reference
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	IsEdited  bool      `json:"isEdited"`
}

// Reaction is a single user's reaction to an expense. At most one reaction
// exists per user; a new reaction replaces any prior one by the same user.
type Reaction struct {
	UserID    string       `json:"userID"` // UserID Reference
	Type      ReactionType `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
}

// CoupleExpenseData is the couple-specific payload embedded in an expense
// whose owning account is of type COUPLE.
type CoupleExpenseData struct {
	ExpenseType  ExpenseType   `json:"expenseType"`
	SplitDetails *SplitDetails `json:"splitDetails,omitempty"`

	// Gift fields. GiftForUserID must be the other partner, never the creator.
	IsGift        bool       `json:"isGift"`
	GiftForUserID string     `json:"giftForUserID,omitempty"` // UserID Reference
	RevealDate    *time.Time `json:"revealDate,omitempty"`
	IsRevealed    bool       `json:"isRevealed"`
	RevealedAt    *time.Time `json:"revealedAt,omitempty"`

	Comments  []Comment  `json:"comments,omitempty"` // append-only, ordered
	Reactions []Reaction `json:"reactions,omitempty"`

	// Settlement markers.
	IsSettled bool       `json:"isSettled"`
	SettledAt *time.Time `json:"settledAt,omitempty"`
	SettledBy string     `json:"settledBy,omitempty"` // UserID Reference
}

// Expense represents a single tracked expense/transaction.
type Expense struct {
	ExpenseID   string          `json:"expenseID"` // Primary Key (e.g., UUID)
	AccountID   string          `json:"accountID"` // FK -> accounts.account_id
	PaidBy      string          `json:"paidBy"`    // UserID Reference, who disbursed the money
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Date        time.Time       `json:"date"`

	// CoupleData is populated only when the owning account is type COUPLE.
	CoupleData *CoupleExpenseData `json:"coupleData,omitempty"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// IsHiddenFrom reports whether this expense is a still-concealed gift for the
// given user. Hidden gifts must never be returned to their recipient.
func (e Expense) IsHiddenFrom(userID string) bool {
	if e.CoupleData == nil || !e.CoupleData.IsGift || e.CoupleData.IsRevealed {
		return false
	}
	return e.CoupleData.GiftForUserID == userID
}

// SetReaction applies the one-reaction-per-user rule: a new reaction by a
// user replaces any earlier reaction from the same user.
func (d *CoupleExpenseData) SetReaction(userID string, typ ReactionType, now time.Time) {
	for i, r := range d.Reactions {
		if r.UserID == userID {
			d.Reactions[i] = Reaction{UserID: userID, Type: typ, CreatedAt: now}
			return
		}
	}
	d.Reactions = append(d.Reactions, Reaction{UserID: userID, Type: typ, CreatedAt: now})
}

// RemoveReaction drops the reaction by userID, if any. Reports whether one
// was removed.
func (d *CoupleExpenseData) RemoveReaction(userID string) bool {
	for i, r := range d.Reactions {
		if r.UserID == userID {
			d.Reactions = append(d.Reactions[:i], d.Reactions[i+1:]...)
			return true
		}
	}
	return false
}
