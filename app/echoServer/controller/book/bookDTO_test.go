package book

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAvailable(t *testing.T) {
	for _, raw := range []string{"1", "true", "yes", "True", "YES"} {
		got := parseAvailable(raw)
		require.NotNil(t, got, "raw=%q", raw)
		require.True(t, *got, "raw=%q", raw)
	}
	for _, raw := range []string{"0", "false", "no", "False", "NO"} {
		got := parseAvailable(raw)
		require.NotNil(t, got, "raw=%q", raw)
		require.False(t, *got, "raw=%q", raw)
	}
	for _, raw := range []string{"", "maybe", "2"} {
		require.Nil(t, parseAvailable(raw), "raw=%q", raw)
	}
}

func TestBookReqToModel(t *testing.T) {
	b, err := BookReq{
		Title:           "The Go Programming Language",
		Author:          "Donovan & Kernighan",
		ISBN:            "9780134190440",
		PublishedDate:   "2015-11-16",
		CopiesAvailable: 4,
	}.toModel(9)
	require.NoError(t, err)
	require.Equal(t, int64(9), b.ID)
	require.NotNil(t, b.PublishedDate)
	require.Equal(t, 2015, b.PublishedDate.Year())

	b, err = BookReq{Title: "t", Author: "a", ISBN: "1"}.toModel(0)
	require.NoError(t, err)
	require.Nil(t, b.PublishedDate)

	_, err = BookReq{Title: "t", Author: "a", ISBN: "1", PublishedDate: "16/11/2015"}.toModel(0)
	require.Error(t, err)
}
