package member

import (
	"github.com/kahfikurniaaji/library-api/model"
	"github.com/kahfikurniaaji/library-api/util/datetime"
)

type CreateMemberReq struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// UpdateMemberReq fields are optional; blank keeps the current value. The
// borrowed_count/penalty_duration counters are not accepted here.
type UpdateMemberReq struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type MemberResp struct {
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	BorrowedCount   int     `json:"borrowed_count"`
	PenaltyDuration int     `json:"penalty_duration"`
	RegisteredAt    string  `json:"registered_at"`
	UpdatedAt       string  `json:"updated_at"`
	UnregisteredAt  *string `json:"unregistered_at,omitempty"`
}

func toMemberResp(m *model.Member) MemberResp {
	return MemberResp{
		Code:            m.Code,
		Name:            m.Name,
		BorrowedCount:   m.BorrowedCount,
		PenaltyDuration: m.PenaltyDuration,
		RegisteredAt:    datetime.ToLocaleTime(m.RegisteredAt),
		UpdatedAt:       datetime.ToLocaleTime(m.UpdatedAt),
		UnregisteredAt:  datetime.ToLocaleTimePtr(m.UnregisteredAt),
	}
}
