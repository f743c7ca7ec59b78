package repositories

import (
	"reflect"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/qpaper/internal/app/models/dto"
)

func TestListingQueryWithoutSearch(t *testing.T) {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	lq := NewListingQuery(sb, dto.NewListQuery("3", "", "paper_year"))

	countSQL, countArgs, err := lq.CountQuery().ToSql()
	if err != nil {
		t.Fatalf("CountQuery().ToSql() error = %v", err)
	}
	if want := "SELECT COUNT(*) FROM question_papers"; countSQL != want {
		t.Errorf("count SQL = %q, want %q", countSQL, want)
	}
	if len(countArgs) != 0 {
		t.Errorf("count args = %v, want none", countArgs)
	}

	pageSQL, _, err := lq.PageQuery().ToSql()
	if err != nil {
		t.Fatalf("PageQuery().ToSql() error = %v", err)
	}
	want := "SELECT id, year_name, semester_no, subject_name, subject_code, paper_type, paper_year " +
		"FROM question_papers ORDER BY paper_year ASC, id ASC LIMIT 10 OFFSET 20"
	if pageSQL != want {
		t.Errorf("page SQL = %q, want %q", pageSQL, want)
	}
}

func TestListingQuerySearchSharesFilter(t *testing.T) {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	lq := NewListingQuery(sb, dto.NewListQuery("1", "50%_off", "id"))

	countSQL, countArgs, err := lq.CountQuery().ToSql()
	if err != nil {
		t.Fatalf("CountQuery().ToSql() error = %v", err)
	}
	wantCount := "SELECT COUNT(*) FROM question_papers WHERE (" +
		"LOWER(year_name) LIKE LOWER($1) ESCAPE '\\' OR " +
		"LOWER(subject_name) LIKE LOWER($2) ESCAPE '\\' OR " +
		"LOWER(subject_code) LIKE LOWER($3) ESCAPE '\\')"
	if countSQL != wantCount {
		t.Errorf("count SQL = %q, want %q", countSQL, wantCount)
	}

	pattern := `%50\%\_off%`
	wantArgs := []interface{}{pattern, pattern, pattern}
	if !reflect.DeepEqual(countArgs, wantArgs) {
		t.Errorf("count args = %v, want %v", countArgs, wantArgs)
	}

	pageSQL, pageArgs, err := lq.PageQuery().ToSql()
	if err != nil {
		t.Fatalf("PageQuery().ToSql() error = %v", err)
	}
	if !reflect.DeepEqual(pageArgs, wantArgs) {
		t.Errorf("page args = %v, want %v", pageArgs, wantArgs)
	}
	wantTail := "ORDER BY id ASC LIMIT 10 OFFSET 0"
	if len(pageSQL) < len(wantTail) || pageSQL[len(pageSQL)-len(wantTail):] != wantTail {
		t.Errorf("page SQL = %q, want suffix %q", pageSQL, wantTail)
	}
}

func TestListingQuerySortFallback(t *testing.T) {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	unknown, _, err := NewListingQuery(sb, dto.NewListQuery("1", "", "nonexistent_field")).PageQuery().ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}
	byID, _, err := NewListingQuery(sb, dto.NewListQuery("1", "", "id")).PageQuery().ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}
	if unknown != byID {
		t.Errorf("unknown sort produced %q, want the id ordering %q", unknown, byID)
	}

	injected, _, err := NewListingQuery(sb, dto.NewListQuery("1", "", "id; DROP TABLE users")).PageQuery().ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}
	if injected != byID {
		t.Errorf("injected sort produced %q, want %q", injected, byID)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"thermo":    "thermo",
		"100%":      `100\%`,
		"a_b":       `a\_b`,
		`back\path`: `back\\path`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
