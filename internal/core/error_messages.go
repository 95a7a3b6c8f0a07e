package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code in their report.
//
// # Load Errors (LOAD001-LOAD099)
//
//	LOAD001 - Catalog missing: The error catalog file could not be found
//	          Action: Ask the administrator to check DATA_PATH
//	LOAD002 - Unsupported format: The catalog file type is not supported
//	          Action: Use an .xlsx or .csv file (optionally .gz/.zst/.xz)
//	LOAD003 - Corrupt catalog: The catalog file could not be read as a spreadsheet
//	          Action: Re-export the spreadsheet and restart the service
//	LOAD004 - Catalog unavailable: Any other load failure
//
// # Search Errors (SRCH001-SRCH099)
//
//	SRCH001 - Unknown column: The search column is not in the catalog
//	SRCH002 - No match: No matching records found (neutral, not a failure)
//	SRCH003 - No options: The selected column has no values to choose from
//	SRCH004 - Unknown dimension: Search is only possible by Analyte or Laboratory errors
//
// # Proposal Errors (PROP001-PROP099)
//
//	PROP001 - Missing fields: All four proposal fields are required
//	PROP002 - Endpoint unavailable: The submission service is not responding
//	PROP003 - Disabled: Proposals are not enabled on this server
//	PROP004 - Busy: Too many proposals are being forwarded
//
// # Other
//
//	RATE001 - Too many requests
//	ERR000  - Fallback for anything unmapped

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage is the user-facing rendering of an error.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages are checked first, via errors.Is, in order.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrFileNotFound, UserMessage{
		Message: "The error catalog file could not be found",
		Action:  "Ask the administrator to check the configured data path",
		Code:    "LOAD001",
	}},
	{ErrUnsupportedFormat, UserMessage{
		Message: "The error catalog file type is not supported",
		Action:  "Use an .xlsx or .csv file",
		Code:    "LOAD002",
	}},
	{ErrInvalidSpreadsheet, UserMessage{
		Message: "The error catalog could not be read as a spreadsheet",
		Action:  "Re-export the spreadsheet and restart the service",
		Code:    "LOAD003",
	}},
	{ErrUnknownColumn, UserMessage{
		Message: "The selected column is not in the error catalog",
		Action:  "Check the spreadsheet headers",
		Code:    "SRCH001",
	}},
	{ErrNoMatch, UserMessage{
		Message: "No matching records found.",
		Action:  "Try another value",
		Code:    "SRCH002",
	}},
	{ErrEmptyOptions, UserMessage{
		Message: "No data found for the selected column",
		Action:  "Please check the Excel file",
		Code:    "SRCH003",
	}},
	{ErrUnknownDimension, UserMessage{
		Message: "Search is only possible by Analyte or Laboratory errors",
		Action:  "Choose one of the listed search options",
		Code:    "SRCH004",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched case-insensitively against the error text when
// no sentinel matched. Errors from other packages land here.
var errorPatterns = []errorPattern{
	{
		pattern: "missing required fields",
		msg: UserMessage{
			Message: "All proposal fields are required",
			Action:  "Fill in the error, its effect, the analyte and a reference",
			Code:    "PROP001",
		},
	},
	{
		pattern: "endpoint unavailable",
		msg: UserMessage{
			Message: "The submission service is not responding",
			Action:  "Please try again in a few minutes",
			Code:    "PROP002",
		},
	},
	{
		pattern: "proposals are disabled",
		msg: UserMessage{
			Message: "Proposals are not enabled on this server",
			Action:  "Contact the maintainer directly",
			Code:    "PROP003",
		},
	},
	{
		pattern: "too many pending proposals",
		msg: UserMessage{
			Message: "Too many proposals are being sent right now",
			Action:  "Please wait a moment and try again",
			Code:    "PROP004",
		},
	},
	{
		pattern: "load catalog",
		msg: UserMessage{
			Message: "The error catalog is not available",
			Action:  "Ask the administrator to check the server logs",
			Code:    "LOAD004",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Known sentinels are checked with errors.Is first; then the error text is
// searched for known patterns (case-insensitive). If nothing matches, a
// generic fallback with code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
