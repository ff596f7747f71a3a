package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveCity(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{
			name:    "full address with state suffix",
			address: "Rua das Flores, 123, Porto Alegre - RS",
			want:    "Porto Alegre",
		},
		{
			name:    "city only",
			address: "Curitiba",
			want:    "Curitiba",
		},
		{
			name:    "city with state",
			address: "Salvador - BA",
			want:    "Salvador",
		},
		{
			name:    "trailing postal code digits stripped",
			address: "Av. Central, 45, 90010-150 Porto Alegre - RS",
			want:    "Porto Alegre",
		},
		{
			name:    "empty address",
			address: "",
			want:    UnknownCity,
		},
		{
			name:    "only numbers",
			address: "123, 456",
			want:    UnknownCity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveCity(tt.address))
		})
	}
}
