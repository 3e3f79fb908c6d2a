package revenue

import "time"

type Revenue struct {
	ID          string    `json:"id"`
	RevenueID   string    `json:"revenueId"`
	TypeID      string    `json:"typeId"`
	TypeName    string    `json:"typeName"`
	Amount      float64   `json:"amount"`
	Description *string   `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	MemberID    *string   `json:"memberId,omitempty"`
	MemberName  *string   `json:"memberName,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateRevenueRequest struct {
	Type        string   `json:"type"`
	Amount      float64  `json:"amount"`
	Description *string  `json:"description"`
	Date        string   `json:"date"`
	Member      *string  `json:"member"`
}

type UpdateRevenueRequest struct {
	Type        *string  `json:"type"`
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	Member      *string  `json:"member"`
}
