package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageWindowFromBounds(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		expected   *PageWindow
	}{
		{"both zero selects whole document", 0, 0, nil},
		{"zero start selects whole document", 0, 5, nil},
		{"zero end selects whole document", 3, 0, nil},
		{"both set", 2, 4, &PageWindow{Start: 2, End: 4}},
		{"single page", 7, 7, &PageWindow{Start: 7, End: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PageWindowFromBounds(tt.start, tt.end))
		})
	}
}

func TestPageWindow_Validate(t *testing.T) {
	var nilWindow *PageWindow
	assert.NoError(t, nilWindow.Validate())
	assert.NoError(t, (&PageWindow{Start: 1, End: 1}).Validate())
	assert.NoError(t, (&PageWindow{Start: 2, End: 9}).Validate())

	assert.ErrorIs(t, (&PageWindow{Start: -1, End: 3}).Validate(), ErrInvalidInput)
	assert.ErrorIs(t, (&PageWindow{Start: 5, End: 3}).Validate(), ErrInvalidInput)
}

func TestPageWindow_String(t *testing.T) {
	var nilWindow *PageWindow
	assert.Equal(t, "all pages", nilWindow.String())
	assert.Equal(t, "pages 2-4", (&PageWindow{Start: 2, End: 4}).String())
}

func TestParseAcquisitionMode(t *testing.T) {
	tests := []struct {
		input    string
		expected AcquisitionMode
		wantErr  bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"digital", ModeDigital, false},
		{"scanned", ModeScanned, false},
		{"ocr", ModeAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseAcquisitionMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}
}

func TestAcquisitionMode_String(t *testing.T) {
	assert.Equal(t, "auto", ModeAuto.String())
	assert.Equal(t, "digital", ModeDigital.String())
	assert.Equal(t, "scanned", ModeScanned.String())
}
