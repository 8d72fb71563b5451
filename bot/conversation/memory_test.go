package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCreatesFreshState(t *testing.T) {
	store := NewMemoryStore()

	st := store.Get("12345")
	assert.Equal(t, PhaseInicio, st.Phase)
	assert.Empty(t, st.Brand)

	// same record on repeat access
	st.Brand = "Nike"
	again := store.Get("12345")
	assert.Equal(t, "Nike", again.Brand)
}

func TestStatesAreScopedByConversation(t *testing.T) {
	store := NewMemoryStore()

	a := store.Get("a")
	a.Phase = PhaseTalla
	a.Brand = "Nike"
	store.Put("a", a)

	b := store.Get("b")
	assert.Equal(t, PhaseInicio, b.Phase)
	assert.Empty(t, b.Brand)
}

func TestResetClearsEverything(t *testing.T) {
	store := NewMemoryStore()

	st := store.Get("573001234567")
	st.Phase = PhasePago
	st.Brand = "Nike"
	st.Model = "Air Max"
	st.Color = "negro"
	st.Size = "41"
	st.CustomerName = "Ana"
	st.Email = "ana@example.com"
	st.Phone = "+573001234567"
	st.City = "Bogotá"
	st.Region = "Cundinamarca"
	st.Address = "Calle 1 # 2-3"
	st.PendingReturnRef = "VEN-1-XXXX"
	st.SaleID = "VEN-1-XXXX"
	store.Put("573001234567", st)

	fresh := store.Reset("573001234567")
	assert.Equal(t, PhaseComando, fresh.Phase)
	assert.Equal(t, &State{Phase: PhaseComando}, fresh)
	assert.Same(t, fresh, store.Get("573001234567"))
}
