package property

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentwise/backend/internal/domain/shared"
)

// InspectionKind is the reason for an inspection
type InspectionKind string

const (
	InspectionKindMoveIn  InspectionKind = "move_in"
	InspectionKindMoveOut InspectionKind = "move_out"
	InspectionKindRoutine InspectionKind = "routine"
)

// IsValid checks if the kind is known
func (k InspectionKind) IsValid() bool {
	switch k {
	case InspectionKindMoveIn, InspectionKindMoveOut, InspectionKindRoutine:
		return true
	}
	return false
}

// InspectionStatus represents the status of an inspection
type InspectionStatus string

const (
	InspectionStatusScheduled InspectionStatus = "scheduled"
	InspectionStatusCompleted InspectionStatus = "completed"
	InspectionStatusCancelled InspectionStatus = "cancelled"
)

// Inspection is a visit by an agent to record the condition of a property
type Inspection struct {
	shared.AgencyAggregateRoot
	PropertyID         uuid.UUID
	InspectorID        uuid.UUID
	Kind               InspectionKind
	ScheduledAt        time.Time
	Status             InspectionStatus
	Findings           string
	ConditionRating    int
	PhotoKeys          []string
	CompletedAt        *time.Time
	CancellationReason string
}

// ScheduleInspection creates a scheduled inspection
func ScheduleInspection(prop *Property, inspectorID uuid.UUID, kind InspectionKind, at time.Time) (*Inspection, error) {
	if !prop.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot inspect an archived property")
	}
	if inspectorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INSPECTOR", "Inspector is required")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", fmt.Sprintf("Unknown inspection kind: %s", kind))
	}
	if at.IsZero() {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Scheduled time is required")
	}

	insp := &Inspection{
		AgencyAggregateRoot: shared.NewAgencyAggregateRoot(prop.AgencyID),
		PropertyID:          prop.ID,
		InspectorID:         inspectorID,
		Kind:                kind,
		ScheduledAt:         at,
		Status:              InspectionStatusScheduled,
		PhotoKeys:           make([]string, 0),
	}
	insp.AddDomainEvent(NewInspectionScheduledEvent(insp))
	return insp, nil
}

// Reschedule moves a scheduled inspection
func (i *Inspection) Reschedule(at time.Time) error {
	if err := i.requireScheduled("reschedule"); err != nil {
		return err
	}
	if at.IsZero() {
		return shared.NewDomainError("INVALID_SCHEDULE", "Scheduled time is required")
	}
	i.ScheduledAt = at
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Complete records the outcome of the visit. Rating is 1 (poor) to 5 (excellent).
func (i *Inspection) Complete(findings string, rating int) error {
	if err := i.requireScheduled("complete"); err != nil {
		return err
	}
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Condition rating must be between 1 and 5")
	}

	now := time.Now()
	i.Findings = strings.TrimSpace(findings)
	i.ConditionRating = rating
	i.Status = InspectionStatusCompleted
	i.CompletedAt = &now
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewInspectionCompletedEvent(i))

	return nil
}

// Cancel calls off a scheduled inspection
func (i *Inspection) Cancel(reason string) error {
	if err := i.requireScheduled("cancel"); err != nil {
		return err
	}
	i.Status = InspectionStatusCancelled
	i.CancellationReason = strings.TrimSpace(reason)
	i.Touch()
	i.IncrementVersion()
	return nil
}

// AddPhotos appends uploaded photo keys
func (i *Inspection) AddPhotos(keys ...string) {
	i.PhotoKeys = append(i.PhotoKeys, keys...)
	i.Touch()
}

func (i *Inspection) requireScheduled(op string) error {
	if i.Status != InspectionStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot %s inspection in %s status", op, i.Status))
	}
	return nil
}
