package repositories

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/qpaper/internal/app/models/dto"
	"github.com/yigit/qpaper/internal/pkg/helpers"
)

const questionPapersTable = "question_papers"

// searchableColumns are matched as case-insensitive substrings, any one is enough
var searchableColumns = []string{"year_name", "subject_name", "subject_code"}

// listColumns are the metadata columns shown in listings; file_data is never loaded here
var listColumns = []string{
	"id", "year_name", "semester_no", "subject_name", "subject_code", "paper_type", "paper_year",
}

// ListingQuery composes the filter, ordering and paging of the question paper listing
type ListingQuery struct {
	sb     squirrel.StatementBuilderType
	filter squirrel.Sqlizer
	sort   string
	page   int
	size   int
}

// NewListingQuery builds a ListingQuery from normalized listing parameters
func NewListingQuery(sb squirrel.StatementBuilderType, q dto.ListQuery) ListingQuery {
	q = q.Normalized()
	return ListingQuery{
		sb:     sb,
		filter: searchFilter(q.Search),
		sort:   q.Sort,
		page:   q.Page,
		size:   helpers.DefaultPageSize,
	}
}

// CountQuery counts every matching record; it shares the filter but has no ordering or paging
func (lq ListingQuery) CountQuery() squirrel.SelectBuilder {
	query := lq.sb.Select("COUNT(*)").From(questionPapersTable)
	if lq.filter != nil {
		query = query.Where(lq.filter)
	}
	return query
}

// PageQuery selects one page of matching records ordered by the sort column, ties broken by id
func (lq ListingQuery) PageQuery() squirrel.SelectBuilder {
	offset, limit := helpers.CalculateOffsetLimit(lq.page, lq.size)

	query := lq.sb.Select(listColumns...).From(questionPapersTable)
	if lq.filter != nil {
		query = query.Where(lq.filter)
	}

	orderBy := []string{lq.sort + " ASC"}
	if lq.sort != dto.SortByID {
		orderBy = append(orderBy, "id ASC")
	}

	return query.OrderBy(orderBy...).Limit(limit).Offset(offset)
}

// Page returns the 1-based page this query selects
func (lq ListingQuery) Page() int {
	return lq.page
}

// PageSize returns the number of records per page
func (lq ListingQuery) PageSize() int {
	return lq.size
}

// searchFilter ORs a case-insensitive substring match over the searchable columns
func searchFilter(search string) squirrel.Sqlizer {
	if search == "" {
		return nil
	}

	pattern := "%" + escapeLike(search) + "%"
	or := squirrel.Or{}
	for _, column := range searchableColumns {
		or = append(or, squirrel.Expr("LOWER("+column+") LIKE LOWER(?) ESCAPE '\\'", pattern))
	}
	return or
}

// escapeLike makes LIKE wildcards in user text match literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
