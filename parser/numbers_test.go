package parser

import "testing"

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect float64
	}{
		{"rand with space groups and decimal comma", "R 1 234,56", 1234.56},
		{"space groups decimal comma", "24 500,00", 24500.00},
		{"empty", "", 0},
		{"non numeric", "per note 3", 0},
		{"plain integer", "150", 150},
		{"plain decimal", "150.75", 150.75},
		{"comma thousands", "1,234,567", 1234567},
		{"comma thousands with decimal point", "1,234.56", 1234.56},
		{"european grouping with decimal comma", "1.234,56", 1234.56},
		{"currency prefix", "R150", 150},
		{"zar prefix", "ZAR 2 000", 2000},
		{"negative", "-450", -450},
		{"lone dash", "-", 0},
		{"non breaking spaces", "24 500,00", 24500.00},
		{"single decimal digit after comma", "12,5", 12.5},
		{"whitespace only", "   ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.input)
			if got != tt.expect {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expect   float64
		expectOK bool
	}{
		{"plain token", "Allow profit and attendance 10% to PC1", 10, true},
		{"decimal token", "P&A 12.5% on PC2", 12.5, true},
		{"comma decimal token", "attendance on PS1 at 7,5%", 7.5, true},
		{"no token", "Allow profit and attendance on PC1", 0, false},
		{"out of range", "markup 250%", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePercent(tt.input)
			if got != tt.expect || ok != tt.expectOK {
				t.Errorf("ParsePercent(%q) = %v, %v, want %v, %v",
					tt.input, got, ok, tt.expect, tt.expectOK)
			}
		})
	}
}
