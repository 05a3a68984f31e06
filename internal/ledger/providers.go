package ledger

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// IDProvider issues unique entity ids.
type IDProvider interface {
	NewId() string
}

type uuidProvider struct{}

func NewUUIDProvider() IDProvider {
	return uuidProvider{}
}

func (uuidProvider) NewId() string {
	return uuid.New().String()
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// AccountNumberGenerator proposes 8-digit account numbers. Uniqueness is checked by the engine.
type AccountNumberGenerator interface {
	Next() string
}

const (
	minAccountNumber  = 10000000
	accountNumberSpan = 90000000
)

type randomAccountNumbers struct{}

func NewRandomAccountNumbers() AccountNumberGenerator {
	return randomAccountNumbers{}
}

func (randomAccountNumbers) Next() string {
	return strconv.Itoa(minAccountNumber + rand.IntN(accountNumberSpan))
}
