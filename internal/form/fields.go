// Package form validates the add-order form and coordinates it with the
// process-orders form.
package form

import (
	"net/url"
	"strconv"
	"strings"
)

// Form field names, shared with the server's form handlers.
const (
	FieldDescription = "description"
	FieldPrepTime    = "prep_time"
	FieldPriority    = "priority"
)

// RequiredMessage is the single alert shown when the add-order form is incomplete.
const RequiredMessage = "Completa los campos obligatorios: descripción, tiempo (entero mayor que 0) y prioridad."

// Fields is the raw state of the add-order form, as typed.
type Fields struct {
	Description string
	PrepTime    string
	Priority    string
}

// Valid reports whether the form can be submitted: a non-blank description, a
// prep time that is an integer greater than zero, and a selected priority.
func (f Fields) Valid() bool {
	if strings.TrimSpace(f.Description) == "" {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(f.PrepTime))
	if err != nil || n <= 0 {
		return false
	}
	return strings.TrimSpace(f.Priority) != ""
}

// Values encodes the form for submission.
func (f Fields) Values() url.Values {
	v := url.Values{}
	v.Set(FieldDescription, f.Description)
	v.Set(FieldPrepTime, f.PrepTime)
	v.Set(FieldPriority, f.Priority)
	return v
}
