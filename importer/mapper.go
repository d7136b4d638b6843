package importer

import (
	"strconv"

	"memberdir/config"
	"memberdir/member"
)

// MemberMapper turns one record into a member using the configured column
// labels.
type MemberMapper struct {
	Columns config.ColumnsConfig
}

func NewMemberMapper(columns config.ColumnsConfig) *MemberMapper {
	return &MemberMapper{Columns: columns}
}

// Map builds the member for the record at the given zero-based input index.
// The second return value is false when the record has no name and must be
// dropped.
func (m *MemberMapper) Map(record Record, index int) (member.Member, bool) {
	entry := member.Member{
		ID:          "member-" + strconv.Itoa(index),
		FullName:    fallback(record.Get(m.Columns.FullName), member.UnknownName),
		NationalID:  record.Get(m.Columns.NationalID),
		BirthDate:   record.Get(m.Columns.BirthDate),
		PhoneNumber: record.Get(m.Columns.PhoneNumber),
		PhotoURL:    record.Get(m.Columns.Photo),
		Region:      record.Get(m.Columns.Region),
		University:  record.Get(m.Columns.University),
		Role:        fallback(record.Get(m.Columns.Role), member.DefaultRole),
	}
	if entry.FullName == member.UnknownName {
		return entry, false
	}
	return entry, true
}

func fallback(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
