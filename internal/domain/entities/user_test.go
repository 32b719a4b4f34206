package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	u := &User{Street: "Lenina", Building: "12A", Apartment: "45"}
	assert.Equal(t, "Lenina, bld 12A, apt 45", u.Address())

	assert.Equal(t, "bld 12A", (&User{Building: "12A"}).Address())
	assert.Equal(t, "", (&User{}).Address())
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Anna Petrova", (&User{FirstName: "Anna", LastName: "Petrova"}).FullName())
	assert.Equal(t, "Anna", (&User{FirstName: "Anna"}).FullName())
}
