package transform

import (
	"strconv"
	"strings"

	"github.com/rkmishra-dev/sheetport/internal/schema"
	"github.com/rkmishra-dev/sheetport/pkg/sheetport"
)

// SheetFixer is a named repair step applied to a sheet before schema
// derivation. Fixers are data-quality patches for specific known inputs,
// selected by schema fingerprint, never part of generic row handling.
type SheetFixer interface {
	Name() string
	// Matches reports whether the sheet carries the fingerprint this fixer
	// repairs.
	Matches(sheet *sheetport.Sheet) bool
	// Fix mutates the sheet in place and returns the number of repaired rows.
	Fix(sheet *sheetport.Sheet) int
}

// appointmentColumns is the fingerprint of the one appointment export known
// to ship with shifted columns.
var appointmentColumns = []string{
	"appointment_id", "patient_id", "doctor_id", "appointment_date",
	"appointment_time", "status", "reason", "notes", "suggest",
	"fees", "payment_method", "discount", "diagnosis",
}

// AppointmentRealignment repairs rows of the appointment export in which a
// variable-width upstream field pushed every later value one column to the
// right. Detection: the free-text "suggest" column holding a numeric value.
// Repair: fees takes suggest's numeric, payment_method takes the old fees,
// discount takes the old payment_method coerced to a number, suggest becomes
// null. diagnosis is already correct and stays untouched.
//
// Single-shift rows only. Rows shifted by more than one column, or shifted in
// other directions, pass through unchanged; that shape has never been
// observed and repairing it blind would corrupt good data.
type AppointmentRealignment struct{}

// NewAppointmentRealignment creates the appointment column-shift fixer.
func NewAppointmentRealignment() *AppointmentRealignment {
	return &AppointmentRealignment{}
}

// Name implements SheetFixer.
func (f *AppointmentRealignment) Name() string {
	return "appointment-realignment"
}

// Matches reports whether the sheet's sanitized column set is exactly the
// 13-column appointment schema. Order does not matter; extra or missing
// columns do.
func (f *AppointmentRealignment) Matches(sheet *sheetport.Sheet) bool {
	if len(sheet.Columns) != len(appointmentColumns) {
		return false
	}

	seen := make(map[string]bool, len(sheet.Columns))
	for _, c := range sheet.Columns {
		seen[strings.ToLower(schema.Sanitize(c))] = true
	}
	for _, want := range appointmentColumns {
		if !seen[want] {
			return false
		}
	}
	return true
}

// Fix implements SheetFixer.
func (f *AppointmentRealignment) Fix(sheet *sheetport.Sheet) int {
	suggest := columnIndex(sheet, "suggest")
	fees := columnIndex(sheet, "fees")
	payment := columnIndex(sheet, "payment_method")
	discount := columnIndex(sheet, "discount")
	if suggest < 0 || fees < 0 || payment < 0 || discount < 0 {
		return 0
	}

	fixed := 0
	for _, row := range sheet.Rows {
		shifted, ok := asNumeric(row[suggest])
		if !ok {
			continue
		}

		oldFees := row[fees]
		oldPayment := row[payment]

		row[suggest] = sheetport.NullCell()
		row[fees] = sheetport.FloatCell(shifted)
		row[payment] = oldFees
		if v, ok := asNumeric(oldPayment); ok {
			row[discount] = sheetport.FloatCell(v)
		} else {
			row[discount] = sheetport.NullCell()
		}
		fixed++
	}
	return fixed
}

func columnIndex(sheet *sheetport.Sheet, sanitized string) int {
	for i, c := range sheet.Columns {
		if strings.ToLower(schema.Sanitize(c)) == sanitized {
			return i
		}
	}
	return -1
}

// asNumeric extracts a numeric value from a cell, including text cells whose
// content parses as a number.
func asNumeric(c sheetport.Cell) (float64, bool) {
	switch c.Kind {
	case sheetport.KindInteger, sheetport.KindFloat:
		return c.AsFloat(), true
	case sheetport.KindText:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		return v, err == nil
	default:
		return 0, false
	}
}
