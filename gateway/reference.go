package gateway

import (
	"fmt"
	"strconv"
	"strings"
)

// Reference kinds carried in the charge's external reference. The tag
// lets the webhook route a confirmation to the right record without
// guessing from the numeric id alone.
const (
	RefKindOrder      = "order"
	RefKindEnrollment = "enrollment"
)

// Reference is a parsed external reference.
type Reference struct {
	Kind string
	ID   uint
}

// OrderReference formats the external reference for an order charge.
func OrderReference(orderID uint) string {
	return fmt.Sprintf("%s:%d", RefKindOrder, orderID)
}

// EnrollmentReference formats the external reference for a standalone
// course enrollment charge.
func EnrollmentReference(enrollmentID uint) string {
	return fmt.Sprintf("%s:%d", RefKindEnrollment, enrollmentID)
}

// ParseReference parses a tagged external reference. Untagged or
// malformed values return ok=false; webhook handling treats those as
// foreign events and acknowledges them without acting.
func ParseReference(ref string) (Reference, bool) {
	kind, idStr, found := strings.Cut(ref, ":")
	if !found {
		return Reference{}, false
	}
	if kind != RefKindOrder && kind != RefKindEnrollment {
		return Reference{}, false
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return Reference{}, false
	}
	return Reference{Kind: kind, ID: uint(id)}, true
}
