package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// Search and update handlers spell courier columns out in raw query
// fragments; keep the model mapping in sync with them.
func TestCourierColumnNames(t *testing.T) {
	s, err := schema.Parse(&Courier{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for field, column := range map[string]string{
		"FullName":      "full_name",
		"Email":         "email",
		"IsActive":      "is_active",
		"ChargePerKm":   "charge_per_km",
		"CreditBalance": "credit_balance",
	} {
		f := s.LookUpField(field)
		require.NotNil(t, f, field)
		assert.Equal(t, column, f.DBName, field)
	}
}
