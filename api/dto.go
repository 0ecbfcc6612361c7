/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures of the operator console. Bundles are
  returned with their totals precomputed so the page never re-derives
  payout figures on its own.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Session:        SessionDTO, ClassificationDTO
  Persons:        PersonSummaryDTO, PersonDetailDTO, Stage2RowDTO
  Requests:       ClassificationRequest, StatusRequest, CustomRewardRequest

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/bonus-engine/export"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/sales"
	"github.com/warp/bonus-engine/session"
)

// =============================================================================
// SESSION
// =============================================================================

// SessionDTO describes the whole working session. Reference list counts
// are distinct item ids.
type SessionDTO struct {
	Phase          session.Phase      `json:"phase"`
	ReferenceItems int                `json:"referenceItems"`
	RewardRules    int                `json:"rewardRules"`
	BatchRows      int                `json:"batchRows"`
	PendingRows    int                `json:"pendingRows"`
	ActivePerson   string             `json:"activePerson"`
	Persons        []PersonSummaryDTO `json:"persons"`
	SavedAt        string             `json:"savedAt,omitempty"`
	LastSnapshotAt string             `json:"lastSnapshotAt,omitempty"`
}

// ClassificationDTO is the role assignment form.
type ClassificationDTO struct {
	Phase session.Phase           `json:"phase"`
	Names []string                `json:"names"`
	Roles map[string]generic.Role `json:"roles"`
}

// =============================================================================
// PERSONS
// =============================================================================

// PersonSummaryDTO is one entry of the person list.
type PersonSummaryDTO struct {
	Name           string          `json:"name"`
	Role           generic.Role    `json:"role"`
	Selected       bool            `json:"selected"`
	Active         bool            `json:"active"`
	Stage1Total    decimal.Decimal `json:"stage1Total"`
	Cash           decimal.Decimal `json:"cash"`
	Vouchers       decimal.Decimal `json:"vouchers"`
	CosmeticsTotal decimal.Decimal `json:"cosmeticsTotal"`
}

// Stage1RowDTO adds display hints to a stage 1 row.
type Stage1RowDTO struct {
	generic.Stage1Row
	PointsHidden bool `json:"pointsHidden"`
}

// Stage2RowDTO adds the rendered reward to a stage 2 row.
type Stage2RowDTO struct {
	generic.Stage2Row
	Display string `json:"display"`
}

// PersonDetailDTO is one person's three tables.
type PersonDetailDTO struct {
	PersonSummaryDTO
	Stage1 []Stage1RowDTO        `json:"stage1"`
	Stage2 []Stage2RowDTO        `json:"stage2"`
	Stage3 generic.Stage3Summary `json:"stage3"`
	Totals generic.Stage2Totals  `json:"stage2Totals"`
}

// =============================================================================
// REQUESTS
// =============================================================================

// ClassificationRequest assigns roles. Missing or blank roles mean SALES.
type ClassificationRequest struct {
	Roles map[string]string `json:"roles"`
}

// StatusRequest changes a stage 1 row status.
type StatusRequest struct {
	Status string `json:"status"`
}

// CustomRewardRequest overrides a reward amount; blank clears it.
type CustomRewardRequest struct {
	Value string `json:"value"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION
// =============================================================================

func toPersonSummary(s session.State, name string, b *generic.PersonBundle) PersonSummaryDTO {
	t := generic.SumStage2(b.Stage2)
	return PersonSummaryDTO{
		Name:           name,
		Role:           b.Role,
		Selected:       s.Selected[name],
		Active:         s.ActivePerson == name,
		Stage1Total:    generic.Stage1Total(b.Stage1),
		Cash:           t.Cash,
		Vouchers:       t.Vouchers,
		CosmeticsTotal: b.Stage3.Total,
	}
}

func toPersonDetail(s session.State, name string, b *generic.PersonBundle) PersonDetailDTO {
	d := PersonDetailDTO{
		PersonSummaryDTO: toPersonSummary(s, name, b),
		Stage1:           make([]Stage1RowDTO, len(b.Stage1)),
		Stage2:           make([]Stage2RowDTO, len(b.Stage2)),
		Stage3:           b.Stage3,
		Totals:           generic.SumStage2(b.Stage2),
	}
	for i, r := range b.Stage1 {
		d.Stage1[i] = Stage1RowDTO{
			Stage1Row:    r,
			PointsHidden: b.Role == generic.RoleSales && sales.PointsHidden(r.Category),
		}
	}
	for i, r := range b.Stage2 {
		display := export.RewardDisplay(r)
		if r.Format == generic.FormatTally {
			display = r.Quantity.String() + r.RewardLabel
		}
		d.Stage2[i] = Stage2RowDTO{Stage2Row: r, Display: display}
	}
	return d
}
