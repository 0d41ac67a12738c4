package event

import (
	"strings"
	"time"
)

// Type identifies the type of an admission event.
type Type string

// Application lifecycle events.
const (
	// TypeApplicationCreated records the creation of an application.
	TypeApplicationCreated Type = "application.created"
	// TypeApplicationStatusChanged records a lifecycle transition.
	TypeApplicationStatusChanged Type = "application.status_changed"
	// TypeApplicationPromoted records an applicant becoming a camper.
	TypeApplicationPromoted Type = "application.promoted"
	// TypeApplicationEnrolled records enrollment completion.
	TypeApplicationEnrolled Type = "application.enrolled"
)

// Review events.
const (
	// TypeVoteCast records an admin casting an approval or decline vote.
	TypeVoteCast Type = "vote.cast"
)

// Ledger events.
const (
	// TypeInvoiceOpened records a new open invoice.
	TypeInvoiceOpened Type = "invoice.opened"
	// TypeInvoiceScholarshipApplied records a discount on an open invoice.
	TypeInvoiceScholarshipApplied Type = "invoice.scholarship_applied"
	// TypeInvoiceSplit records an invoice replaced by a payment plan.
	TypeInvoiceSplit Type = "invoice.split"
	// TypeInvoicePaid records an invoice settlement.
	TypeInvoicePaid Type = "invoice.paid"
	// TypeInvoiceReissued records a paid invoice voided and reissued.
	TypeInvoiceReissued Type = "invoice.reissued"
	// TypeInvoiceVoided records a terminal cancellation.
	TypeInvoiceVoided Type = "invoice.voided"
)

// ActorType identifies who or what triggered an event.
type ActorType string

const (
	// ActorTypeSystem indicates the event was triggered by the system.
	ActorTypeSystem ActorType = "system"
	// ActorTypeAdmin indicates the event was triggered by a staff member.
	ActorTypeAdmin ActorType = "admin"
	// ActorTypeWebhook indicates the event was triggered by a payment
	// processor notification.
	ActorTypeWebhook ActorType = "webhook"
)

// Event represents an immutable entry in the per-application audit journal.
type Event struct {
	// ApplicationID is the application this event belongs to.
	ApplicationID string
	// Seq is the event sequence number within the application (starts at 1).
	// Assigned by storage on append.
	Seq uint64
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// ActorType identifies who triggered the event.
	ActorType ActorType
	// ActorID is the admin ID if ActorType is admin.
	ActorID string
	// EntityType is the type of entity affected (application, vote, invoice).
	EntityType string
	// EntityID is the ID of the entity affected.
	EntityID string
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "application", "invoice").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
