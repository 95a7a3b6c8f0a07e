package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "missing file maps through LoadError",
			err:         newLoadError("data/x.xlsx", ErrFileNotFound, nil),
			wantCode:    "LOAD001",
			wantMessage: "The error catalog file could not be found",
		},
		{
			name:        "unsupported format maps correctly",
			err:         newLoadError("data/x.ods", ErrUnsupportedFormat, errors.New(`extension ".ods"`)),
			wantCode:    "LOAD002",
			wantMessage: "The error catalog file type is not supported",
		},
		{
			name:        "corrupt spreadsheet maps correctly",
			err:         newLoadError("data/x.xlsx", ErrInvalidSpreadsheet, errors.New("zip: not a valid zip file")),
			wantCode:    "LOAD003",
			wantMessage: "The error catalog could not be read as a spreadsheet",
		},
		{
			name:        "other load error falls back to LOAD004",
			err:         &LoadError{Path: "data/x.xlsx", Err: errors.New("permission denied")},
			wantCode:    "LOAD004",
			wantMessage: "The error catalog is not available",
		},
		{
			name:        "wrapped no match maps correctly",
			err:         fmt.Errorf("search: %w", ErrNoMatch),
			wantCode:    "SRCH002",
			wantMessage: "No matching records found.",
		},
		{
			name:        "empty options maps correctly",
			err:         fmt.Errorf("%w %q", ErrEmptyOptions, ColumnAnalyte),
			wantCode:    "SRCH003",
			wantMessage: "No data found for the selected column",
		},
		{
			name:        "proposal validation pattern",
			err:         errors.New("proposal is missing required fields: reference"),
			wantCode:    "PROP001",
			wantMessage: "All proposal fields are required",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("PROPOSAL ENDPOINT UNAVAILABLE"),
			wantCode:    "PROP002",
			wantMessage: "The submission service is not responding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrEmptyOptions)

	expected := "No data found for the selected column (Code: SRCH003). Please check the Excel file"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrUnknownColumn,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
