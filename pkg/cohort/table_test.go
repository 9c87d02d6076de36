package cohort

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `age,acutephysiologyscore,actualhospitalmortality,unit
71,45,ALIVE,micu
> 89,60,EXPIRED,sicu
55,-1,ALIVE,micu
`

func TestReadParsesHeaderAndRows(t *testing.T) {
	tab, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, tab.NumRows())
	assert.Equal(t, []string{"age", "acutephysiologyscore", "actualhospitalmortality", "unit"}, tab.Columns())
	assert.True(t, tab.Has("unit"))
	assert.False(t, tab.Has("apache"))

	col, err := tab.Column("actualhospitalmortality")
	require.NoError(t, err)
	assert.Equal(t, []string{"ALIVE", "EXPIRED", "ALIVE"}, col)
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestColumnMissing(t *testing.T) {
	tab, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	_, err = tab.Column("apache")
	require.ErrorIs(t, err, ErrMissingColumn)
	require.ErrorIs(t, tab.Require("age", "apache"), ErrMissingColumn)
	require.NoError(t, tab.Require("age", "unit"))
}

func TestFloatRejectsCensoredValues(t *testing.T) {
	tab, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	scores, err := tab.Float("acutephysiologyscore")
	require.NoError(t, err)
	assert.Equal(t, []float64{45, 60, -1}, scores)

	_, err = tab.Float("age")
	require.Error(t, err, "censored age marker must not parse")
}

func TestNewRejectsRaggedRows(t *testing.T) {
	_, err := New([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})
	require.ErrorIs(t, err, ErrRaggedRow)
}

func TestSelectKeepsOrder(t *testing.T) {
	tab, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	sub := tab.Select([]int{2, 0})
	require.Equal(t, 2, sub.NumRows())
	v, err := sub.Cell(0, "age")
	require.NoError(t, err)
	assert.Equal(t, "55", v)

	// The source table is untouched.
	assert.Equal(t, 3, tab.NumRows())
}

func TestWithColumnIsCopyOnWrite(t *testing.T) {
	tab, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	nt, err := tab.WithColumn("mortality", []string{"1", "0", "1"})
	require.NoError(t, err)
	assert.True(t, nt.Has("mortality"))
	assert.False(t, tab.Has("mortality"))

	_, err = nt.WithColumn("mortality", []string{"1", "0", "1"})
	require.Error(t, err, "duplicate column must be rejected")

	_, err = tab.WithColumn("short", []string{"1"})
	require.Error(t, err)
}

func TestReplaceColumn(t *testing.T) {
	tab, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	nt, err := tab.ReplaceColumn("age", []string{"71", "91.5", "55"})
	require.NoError(t, err)

	replaced, err := nt.Column("age")
	require.NoError(t, err)
	assert.Equal(t, []string{"71", "91.5", "55"}, replaced)

	orig, err := tab.Column("age")
	require.NoError(t, err)
	assert.Equal(t, []string{"71", "> 89", "55"}, orig)
}
