package vnwords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"zero", "0", "không"},
		{"single digit", "5", "năm"},
		{"bare ten", "10", "mười"},
		{"eleven keeps mot word", "11", "mười một"},
		{"fifteen uses lam", "15", "mười lăm"},
		{"twenty one uses mot", "21", "hai mươi mốt"},
		{"fifty five uses lam", "55", "năm mươi lăm"},
		{"round hundred", "100", "một trăm"},
		{"linh between hundreds and units", "105", "một trăm linh năm"},
		{"thousand with bare ten chunk", "1010", "một nghìn mười"},
		{"full scale walk", "1234567", "một triệu hai trăm ba mươi bốn nghìn năm trăm sáu mươi bảy"},
		{"billions", "1000000000", "một tỷ"},
		{"comma separators stripped", "1,234,567", "một triệu hai trăm ba mươi bốn nghìn năm trăm sáu mươi bảy"},
		{"fraction read digit by digit", "12.5", "mười hai phẩy năm"},
		{"fraction with two digits", "3.25", "ba phẩy hai năm"},
		{"zero fraction dropped", "10.0", "mười"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"empty", ""},
		{"not a number", "abc"},
		{"negative", "-5"},
		{"bad fraction", "1.2x"},
		{"beyond supported scale", "1000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(tt.amount)
			assert.Error(t, err)
		})
	}
}

func TestCurrency(t *testing.T) {
	got, err := Currency("105")
	require.NoError(t, err)
	assert.Equal(t, "Một trăm linh năm đồng", got)

	got, err = Currency("0")
	require.NoError(t, err)
	assert.Equal(t, "Không đồng", got)
}
