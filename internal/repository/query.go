package repository

import (
	"fmt"
	"strings"

	"github.com/eugenemartinez/drop-note-api/internal/entity"
)

// sortClauses is the whitelist that keeps client sort keys out of the SQL
// text. Unknown keys are rejected by the engine before they get here.
var sortClauses = map[entity.SortOrder]string{
	entity.SortCreatedAtAsc:  "created_at ASC",
	entity.SortCreatedAtDesc: "created_at DESC",
	entity.SortUpdatedAtAsc:  "updated_at ASC",
	entity.SortUpdatedAtDesc: "updated_at DESC",
	entity.SortTitleAsc:      "title ASC",
	entity.SortTitleDesc:     "title DESC",
}

type listQuery struct {
	selectSQL  string
	selectArgs []any
	countSQL   string
	countArgs  []any
}

func buildListQuery(p entity.ListParams) listQuery {
	where := []string{"visibility = 'public'"}
	var args []any

	if p.Tag != "" {
		args = append(args, p.Tag)
		where = append(where, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}

	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", len(args), len(args)))
	}

	whereSQL := strings.Join(where, " AND ")

	orderBy, ok := sortClauses[p.Sort]
	if !ok {
		orderBy = sortClauses[entity.DefaultSort]
	}

	countArgs := append([]any(nil), args...)

	selectArgs := append(args, p.Limit, (p.Page-1)*p.Limit)
	selectSQL := fmt.Sprintf(
		"SELECT %s FROM drop_note WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		noteColumns, whereSQL, orderBy, len(selectArgs)-1, len(selectArgs),
	)

	return listQuery{
		selectSQL:  selectSQL,
		selectArgs: selectArgs,
		countSQL:   "SELECT COUNT(*) FROM drop_note WHERE " + whereSQL,
		countArgs:  countArgs,
	}
}

// buildUpdateSet renders the SET clause for the fields present in update.
// updated_at is stamped by the set_updated_at trigger, never here.
func buildUpdateSet(update entity.NoteUpdate) (string, []any) {
	var (
		set  []string
		args []any
	)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Content != nil {
		add("content", *update.Content)
	}
	if update.Tags != nil {
		add("tags", *update.Tags)
	}
	if update.Visibility != nil {
		add("visibility", *update.Visibility)
	}

	return strings.Join(set, ", "), args
}
