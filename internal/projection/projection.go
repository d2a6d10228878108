// Package projection assembles read models from already-fetched rows. Nothing
// here touches storage; callers fetch the rows they need and pay the cost at
// the call site.
package projection

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitalog/vitalog-backend/internal/types"
)

type TypeView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SupplementView struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Description        *string    `json:"description,omitempty"`
	DeficiencySymptoms *string    `json:"deficiency_symptoms,omitempty"`
	IsGlobal           bool       `json:"is_global"`
	CreatorID          *string    `json:"creator_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	Types              []TypeView `json:"types"`
}

type IntakeLogView struct {
	ID         uuid.UUID      `json:"id"`
	UserID     string         `json:"user_id"`
	Supplement SupplementView `json:"supplement"`
	Quantity   int            `json:"quantity"`
	Dosage     float64        `json:"dosage"`
	Unit       string         `json:"unit"`
	TakenAt    time.Time      `json:"taken_at"`
}

type UserSupplementView struct {
	ID            uuid.UUID      `json:"id"`
	UserID        string         `json:"user_id"`
	Supplement    SupplementView `json:"supplement"`
	DefaultDosage *float64       `json:"default_dosage,omitempty"`
	DefaultUnit   *string        `json:"default_unit,omitempty"`
}

// Supplement nests the resolved tag set. Relations pointing at a type missing
// from typesByID are skipped: the tag vocabulary row was fetched by the
// caller, so a miss means the relation outlived its type and there is nothing
// to show for it.
func Supplement(s *types.Supplement, relations []*types.SupplementTypeRelation, typesByID map[uuid.UUID]*types.SupplementType) SupplementView {
	views := make([]TypeView, 0, len(relations))
	for _, rel := range relations {
		if rel.SupplementID != s.ID {
			continue
		}
		st, ok := typesByID[rel.TypeID]
		if !ok {
			continue
		}
		views = append(views, TypeView{ID: st.ID, Name: st.Name})
	}
	return SupplementView{
		ID:                 s.ID,
		Name:               s.Name,
		Description:        s.Description,
		DeficiencySymptoms: s.DeficiencySymptoms,
		IsGlobal:           s.IsGlobal,
		CreatorID:          s.CreatorID,
		CreatedAt:          s.CreatedAt,
		Types:              views,
	}
}

func IntakeLog(entry *types.IntakeLog, supplement SupplementView) IntakeLogView {
	return IntakeLogView{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Supplement: supplement,
		Quantity:   entry.Quantity,
		Dosage:     entry.Dosage,
		Unit:       entry.Unit,
		TakenAt:    entry.TakenAt,
	}
}

func UserSupplement(entry *types.UserSupplement, supplement SupplementView) UserSupplementView {
	return UserSupplementView{
		ID:            entry.ID,
		UserID:        entry.UserID,
		Supplement:    supplement,
		DefaultDosage: entry.DefaultDosage,
		DefaultUnit:   entry.DefaultUnit,
	}
}
