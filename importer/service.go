package importer

import (
	"memberdir/member"
)

type Result struct {
	RowsRead    int
	RowsMapped  int
	RowsSkipped int
	Members     []member.Member
}

// Normalize maps every record in input order. Ids are derived from the input
// position, so they are not contiguous once nameless rows are dropped.
func Normalize(records []Record, mapper *MemberMapper) Result {
	result := Result{
		RowsRead: len(records),
		Members:  make([]member.Member, 0, len(records)),
	}
	for index, record := range records {
		entry, ok := mapper.Map(record, index)
		if !ok {
			result.RowsSkipped++
			continue
		}
		result.RowsMapped++
		result.Members = append(result.Members, entry)
	}
	return result
}
