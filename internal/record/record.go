// Package record defines the canonical transaction record shared by the four
// ingestion domains, its natural keys, and the derived monetary fields.
package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Domain identifies which ingestion variant a record belongs to.
type Domain string

const (
	DomainInstallment Domain = "installment"
	DomainCard        Domain = "card"
	DomainServiceFee  Domain = "servicefee"
	DomainAllowance   Domain = "allowance"
)

// Domains lists every supported variant.
var Domains = []Domain{DomainInstallment, DomainCard, DomainServiceFee, DomainAllowance}

// ParseDomain resolves a user-supplied domain name.
func ParseDomain(s string) (Domain, error) {
	for _, d := range Domains {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q", s)
}

// Status is the settlement state vocabulary.
type Status string

const (
	StatusPaid     Status = "paid"
	StatusUnpaid   Status = "unpaid"
	StatusRefunded Status = "refunded"
)

// Category distinguishes the two service-fee booking kinds.
type Category string

const (
	CategoryLodging   Category = "lodging"
	CategoryTransport Category = "transport"
)

var (
	ErrMissingKey   = errors.New("natural key is empty")
	ErrMalformedKey = errors.New("natural key is malformed")
	ErrMissingVenue = errors.New("lodging record has no venue name")
	ErrNegative     = errors.New("monetary field is negative")
)

// Record is one canonical transaction. The four domains share this shape and
// differ only in which fields they populate. Records are value objects: the
// reconciler decides their fate and nothing mutates them after emission.
type Record struct {
	Domain Domain
	Key    string // natural key, unique within the store per domain
	Period string // "Month Year[-Category]" grouping bucket

	SubjectID   string // employee / cardholder identifier
	SubjectName string

	// servicefee
	BookingID  string
	Category   Category
	Venue      string // lodging venue or transport carrier
	Detail     string // room class or "ORIGIN-DEST trip-type"
	Passengers int
	Refund     bool

	// card / allowance
	Bank        string
	Reference   string // issuer reference, part of the card natural key when present
	Destination string
	Description string

	TransactionDate string // ISO or "" when absent
	PaymentDate     string // ISO or "" when absent

	Amount int64
	Fee    int64 // derived, never trusted from input
	Tax    int64 // derived from Fee, never trusted from input

	Status Status
}

// SubjectKey builds the composite natural key used by the installment, card
// and allowance domains.
func SubjectKey(subjectID, period string) string {
	return subjectID + "/" + period
}

// KeyStartsWithDigit is the basic shape check applied to externally issued
// identifiers before they are accepted as natural keys.
func KeyStartsWithDigit(key string) bool {
	if key == "" {
		return false
	}
	c := key[0]
	return c >= '0' && c <= '9'
}

// SetAmount updates the base amount and recomputes the derived fee and tax.
// Fee is feeRate of the amount; tax is taxRate of the fee. Both are rounded
// to whole currency units. The derived fields must never be copied from
// upstream input, so this is the only way they get set.
func (r *Record) SetAmount(amount int64, feeRate, taxRate decimal.Decimal) {
	r.Amount = amount
	fee := decimal.NewFromInt(amount).Mul(feeRate).Round(0)
	r.Fee = fee.IntPart()
	r.Tax = fee.Mul(taxRate).Round(0).IntPart()
}

// Validate rejects records that must not reach the reconciler. Category
// specific requirements are enforced here: a lodging booking without a venue
// name is invalid rather than silently defaulted.
func (r *Record) Validate() error {
	if r.Key == "" {
		return ErrMissingKey
	}
	if r.Amount < 0 || r.Fee < 0 || r.Tax < 0 {
		return ErrNegative
	}
	if r.Domain == DomainServiceFee {
		if !KeyStartsWithDigit(r.BookingID) {
			return fmt.Errorf("%w: booking id %q", ErrMalformedKey, r.BookingID)
		}
		if r.Category == CategoryLodging && r.Venue == "" {
			return ErrMissingVenue
		}
	}
	if r.Status == "" {
		r.Status = StatusUnpaid
	}
	return nil
}
