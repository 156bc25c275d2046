package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "9:00", want: 540},
		{in: "09:00", want: 540},
		{in: "13:05", want: 785},
		{in: "0:00", want: 0},
		{in: "23:59", want: 1439},
		{in: " 11:45 ", want: 705},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "123:00", wantErr: true},
		{in: "12-00", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "+1:00", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMinutes(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMinutes(t *testing.T) {
	assert.Equal(t, TimeString("09:00"), FromMinutes(540))
	assert.Equal(t, TimeString("19:30"), FromMinutes(1170))
}
