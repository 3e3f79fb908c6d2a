package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		want    int64
		wantErr bool
	}{
		{name: "whole dollars", amount: 100.00, want: 10000},
		{name: "with cents", amount: 12.34, want: 1234},
		{name: "rounds half up", amount: 0.005, want: 1},
		{name: "zero", amount: 0, want: 0},
		{name: "negative", amount: -1.00, wantErr: true},
		{name: "nan", amount: math.NaN(), wantErr: true},
		{name: "positive infinity", amount: math.Inf(1), wantErr: true},
		{name: "too large", amount: 1e17, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToCents(tt.amount)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromCents(t *testing.T) {
	assert.Equal(t, 100.00, FromCents(10000))
	assert.Equal(t, 0.01, FromCents(1))
	assert.Equal(t, 0.0, FromCents(0))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "123.45", Format(12345))
	assert.Equal(t, "0.05", Format(5))
	assert.Equal(t, "-7.30", Format(-730))
	assert.Equal(t, "0.00", Format(0))
}
