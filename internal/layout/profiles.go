// Package layout reverse-engineers workbook structure: it classifies the
// export format, locates header rows and named sections inside a bounded row
// window, and resolves canonical field names to column indices through
// per-domain synonym tables.
package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danuarta/opex-ingest/internal/record"
)

// Canonical field names shared across domain profiles.
const (
	FieldSubjectID   = "subject_id"
	FieldSubjectName = "subject_name"
	FieldBookingID   = "booking_id"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldDate        = "date"
	FieldPaymentDate = "payment_date"
	FieldBank        = "bank"
	FieldDestination = "destination"
	FieldCategory    = "category"
	FieldStatus      = "status"
	FieldReference   = "reference"
)

// Field binds a canonical name to the header synonyms accepted for it, in
// preference order.
type Field struct {
	Name     string
	Synonyms []string
	Required bool
}

// Profile is the declarative description of one domain's spreadsheet layout.
type Profile struct {
	Domain        record.Domain
	HeaderAnchor  string   // token that identifies the column-header row
	SectionTitle  string   // sectioned layouts: monthly block anchor
	SummaryTitle  string   // sectioned layouts: summary/refund block anchor
	SheetSuffixes []string // raw layouts recognized by sheet-name suffix
	RawTokens     []string // raw layouts recognized by in-sheet tokens
	Fields        []Field
}

// Profiles holds every domain profile, possibly overlaid with extra synonyms
// from a YAML file.
type Profiles struct {
	byDomain map[record.Domain]*Profile
}

// DefaultProfiles returns the built-in per-domain tables. Synonyms carry the
// Indonesian header spellings seen in real exports next to their English
// equivalents.
func DefaultProfiles() *Profiles {
	list := []*Profile{
		{
			Domain:       record.DomainInstallment,
			HeaderAnchor: "NIK",
			SectionTitle: "ANGSURAN",
			SummaryTitle: "PELUNASAN",
			Fields: []Field{
				{Name: FieldSubjectID, Synonyms: []string{"NIK", "EMPLOYEE ID", "ID KARYAWAN"}, Required: true},
				{Name: FieldSubjectName, Synonyms: []string{"NAMA", "NAME", "NAMA KARYAWAN"}, Required: true},
				{Name: FieldCategory, Synonyms: []string{"KATEGORI", "CATEGORY", "JENIS"}},
				// Only present in the settlement summary block.
				{Name: FieldAmount, Synonyms: []string{"NOMINAL", "PELUNASAN", "JUMLAH"}},
				{Name: FieldPaymentDate, Synonyms: []string{"TANGGAL BAYAR", "TANGGAL"}},
			},
		},
		{
			Domain:       record.DomainCard,
			HeaderAnchor: "TANGGAL TRANSAKSI",
			RawTokens:    []string{"BILLING STATEMENT", "TANGGAL TRANSAKSI"},
			Fields: []Field{
				{Name: FieldSubjectID, Synonyms: []string{"NIK", "ID PEMEGANG", "CARDHOLDER ID"}, Required: true},
				{Name: FieldSubjectName, Synonyms: []string{"NAMA", "NAME", "PEMEGANG KARTU"}, Required: true},
				{Name: FieldDate, Synonyms: []string{"TANGGAL TRANSAKSI", "TRANSACTION DATE", "TANGGAL"}, Required: true},
				{Name: FieldAmount, Synonyms: []string{"NOMINAL", "AMOUNT", "JUMLAH"}, Required: true},
				{Name: FieldReference, Synonyms: []string{"NO REFERENSI", "REFERENCE", "REF NO"}},
				{Name: FieldBank, Synonyms: []string{"BANK", "PENERBIT"}},
				{Name: FieldDescription, Synonyms: []string{"KETERANGAN", "DESCRIPTION", "DESKRIPSI"}},
				{Name: FieldStatus, Synonyms: []string{"STATUS"}},
			},
		},
		{
			Domain:        record.DomainServiceFee,
			HeaderAnchor:  "ORDER ID",
			SummaryTitle:  "REFUND",
			SheetSuffixes: []string{" - FL", " - HL"},
			Fields: []Field{
				{Name: FieldBookingID, Synonyms: []string{"ORDER ID", "BOOKING ID", "NO PESANAN"}, Required: true},
				{Name: FieldDate, Synonyms: []string{"TANGGAL TRANSAKSI", "TRANSACTION TIME", "WAKTU TRANSAKSI"}, Required: true},
				{Name: FieldAmount, Synonyms: []string{"NOMINAL", "AMOUNT", "HARGA", "TOTAL"}, Required: true},
				{Name: FieldDescription, Synonyms: []string{"KETERANGAN", "DESCRIPTION", "DETAIL PESANAN"}, Required: true},
				{Name: FieldStatus, Synonyms: []string{"STATUS"}},
			},
		},
		{
			Domain:       record.DomainAllowance,
			HeaderAnchor: "UANG SAKU",
			RawTokens:    []string{"UANG SAKU", "TRIP ALLOWANCE"},
			Fields: []Field{
				{Name: FieldSubjectID, Synonyms: []string{"NIK", "EMPLOYEE ID"}, Required: true},
				{Name: FieldSubjectName, Synonyms: []string{"NAMA", "NAME"}, Required: true},
				{Name: FieldDestination, Synonyms: []string{"TUJUAN", "DESTINATION", "KOTA TUJUAN"}},
				{Name: FieldDate, Synonyms: []string{"TANGGAL BERANGKAT", "TANGGAL", "DEPARTURE DATE"}, Required: true},
				{Name: FieldAmount, Synonyms: []string{"UANG SAKU", "NOMINAL", "AMOUNT"}, Required: true},
				{Name: FieldCategory, Synonyms: []string{"KATEGORI", "JENIS PERJALANAN"}},
				{Name: FieldStatus, Synonyms: []string{"STATUS"}},
			},
		},
	}

	byDomain := make(map[record.Domain]*Profile, len(list))
	for _, p := range list {
		byDomain[p.Domain] = p
	}
	return &Profiles{byDomain: byDomain}
}

// Get returns the profile for a domain.
func (p *Profiles) Get(domain record.Domain) (*Profile, error) {
	profile, ok := p.byDomain[domain]
	if !ok {
		return nil, fmt.Errorf("no layout profile for domain %q", domain)
	}
	return profile, nil
}

// overrideFile is the YAML shape for synonym additions:
//
//	servicefee:
//	  amount: ["GRAND TOTAL"]
type overrideFile map[string]map[string][]string

// LoadOverrides merges additional header synonyms from a YAML file into the
// built-in tables. Only additions are allowed; the built-in synonyms and
// required flags stay as they are.
func (p *Profiles) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read overrides %s: %w", path, err)
	}

	var overrides overrideFile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse overrides %s: %w", path, err)
	}

	for domainName, fields := range overrides {
		domain, err := record.ParseDomain(domainName)
		if err != nil {
			return fmt.Errorf("overrides %s: %w", path, err)
		}
		profile := p.byDomain[domain]
		for fieldName, extra := range fields {
			found := false
			for i := range profile.Fields {
				if profile.Fields[i].Name == fieldName {
					profile.Fields[i].Synonyms = append(profile.Fields[i].Synonyms, extra...)
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("overrides %s: unknown field %q for domain %q", path, fieldName, domainName)
			}
		}
	}
	return nil
}
