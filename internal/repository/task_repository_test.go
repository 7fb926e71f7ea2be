package repository

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListQueryDefaults(t *testing.T) {
	q := ParseListQuery(url.Values{})
	assert.Nil(t, q.Completed)
	assert.Empty(t, q.SortField)
	assert.Equal(t, int64(100), q.PerPage)
	assert.Equal(t, int64(1), q.CurrentPage)
	assert.Equal(t, int64(0), q.Skip())
}

func TestParseListQueryCompletedFilter(t *testing.T) {
	q := ParseListQuery(url.Values{"completed": {"true"}})
	require.NotNil(t, q.Completed)
	assert.True(t, *q.Completed)

	q = ParseListQuery(url.Values{"completed": {"false"}})
	require.NotNil(t, q.Completed)
	assert.False(t, *q.Completed)
}

func TestParseListQuerySortBy(t *testing.T) {
	q := ParseListQuery(url.Values{"sortBy": {"created_at:desc"}})
	assert.Equal(t, "created_at", q.SortField)
	assert.Equal(t, -1, q.SortDir)

	q = ParseListQuery(url.Values{"sortBy": {"title:asc"}})
	assert.Equal(t, "title", q.SortField)
	assert.Equal(t, 1, q.SortDir)

	// Direction defaults to ascending when omitted or unrecognized.
	q = ParseListQuery(url.Values{"sortBy": {"title"}})
	assert.Equal(t, "title", q.SortField)
	assert.Equal(t, 1, q.SortDir)
}

func TestParseListQuerySkipArithmetic(t *testing.T) {
	q := ParseListQuery(url.Values{"per_page": {"100"}, "current_page": {"2"}})
	assert.Equal(t, int64(100), q.Skip())

	q = ParseListQuery(url.Values{"per_page": {"25"}, "current_page": {"4"}})
	assert.Equal(t, int64(75), q.Skip())
}

func TestParseListQueryIgnoresBadNumbers(t *testing.T) {
	q := ParseListQuery(url.Values{"per_page": {"zero"}, "current_page": {"-3"}})
	assert.Equal(t, int64(100), q.PerPage)
	assert.Equal(t, int64(1), q.CurrentPage)
}

// Pages partition the record set: with 150 records and per_page=100, page 1
// covers offsets 0-99 and page 2 starts exactly at offset 100, so no record
// is duplicated or dropped across pages.
func TestListQueryPagesPartition(t *testing.T) {
	page1 := ListQuery{PerPage: 100, CurrentPage: 1}
	page2 := ListQuery{PerPage: 100, CurrentPage: 2}
	assert.Equal(t, int64(0), page1.Skip())
	assert.Equal(t, page1.Skip()+page1.PerPage, page2.Skip())
}
