// Package format renders amounts, dates and statuses for people.
package format

import (
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Currency is the currency every fee is billed in.
const Currency = money.INR

var titleCaser = cases.Title(language.English)

// INR renders an amount in rupees, e.g. "₹1,500.00".
func INR(amount decimal.Decimal) string {
	paise := amount.Shift(2).Round(0).IntPart()
	return money.New(paise, Currency).Display()
}

// Status turns SITE_VISIT into "Site Visit".
func Status(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return ""
	}
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

var activityTitles = map[string]string{
	"ASSIGNMENT_CREATED": "Assignment created",
	"ASSIGNMENT_UPDATED": "Assignment updated",
	"STATUS_CHANGED":     "Status changed",
	"FILE_UPLOADED":      "File uploaded",
	"ASSIGNMENT_DELETED": "Assignment deleted",
}

// ActivityTitle names an activity type; unknown types are shown as sent.
func ActivityTitle(kind string) string {
	k := strings.ToUpper(strings.TrimSpace(kind))
	if title, ok := activityTitles[k]; ok {
		return title
	}
	if k == "" {
		return "Activity"
	}
	return k
}

// Bytes renders a size as B, KB, MB or GB.
func Bytes(n int64) string {
	if n <= 0 {
		return "-"
	}
	units := []string{"B", "KB", "MB", "GB"}
	v := float64(n)
	idx := 0
	for v >= 1024 && idx < len(units)-1 {
		v /= 1024
		idx++
	}
	if v < 10 && idx > 0 {
		return strconv.FormatFloat(v, 'f', 1, 64) + " " + units[idx]
	}
	return strconv.FormatFloat(v, 'f', 0, 64) + " " + units[idx]
}

// Paid renders the paid flag.
func Paid(paid bool) string {
	if paid {
		return "Paid"
	}
	return "Unpaid"
}

// Or returns value, or fallback when value is blank.
func Or(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return strings.TrimSpace(*value)
}
