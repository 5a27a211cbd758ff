package idgen

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// memoryLookup 以内存切片模拟员工编号表
type memoryLookup struct {
	codes []string
	err   error
}

func (m *memoryLookup) FindLastCodeByPrefix(_ context.Context, prefix string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	var matched []string
	for _, c := range m.codes {
		if strings.HasPrefix(c, prefix) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return "", nil
	}
	sort.Strings(matched)
	return matched[len(matched)-1], nil
}

func TestGenerate_FirstCode(t *testing.T) {
	a := NewAllocator(&memoryLookup{}, zap.NewNop())

	res, err := a.Generate(context.Background(), "Cognizant", "John", 2023)
	require.NoError(t, err)
	assert.Equal(t, "COJO23001", res.Code)
	assert.Regexp(t, regexp.MustCompile(`^COJO230\d\d$`), res.Code)
	assert.False(t, res.FallbackUsed)
}

func TestGenerate_SequentialIncrements(t *testing.T) {
	lookup := &memoryLookup{}
	a := NewAllocator(lookup, zap.NewNop())

	first, err := a.Generate(context.Background(), "Cognizant", "John", 2023)
	require.NoError(t, err)
	lookup.codes = append(lookup.codes, first.Code)

	second, err := a.Generate(context.Background(), "Cognizant", "John", 2023)
	require.NoError(t, err)

	assert.Equal(t, "COJO23001", first.Code)
	assert.Equal(t, "COJO23002", second.Code)
}

func TestGenerate_PrefixesAreIndependent(t *testing.T) {
	lookup := &memoryLookup{codes: []string{"COJO23007", "COJA23001"}}
	a := NewAllocator(lookup, zap.NewNop())

	res, err := a.Generate(context.Background(), "Cognizant", "Jane", 2023)
	require.NoError(t, err)
	assert.Equal(t, "COJA23002", res.Code)
}

func TestGenerate_FallbackWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	lookup := &memoryLookup{codes: []string{"COJO23ABC"}}
	a := NewAllocator(lookup, zap.New(core))

	res, err := a.Generate(context.Background(), "Cognizant", "John", 2023)
	require.NoError(t, err)
	assert.Equal(t, "COJO23001", res.Code)
	assert.True(t, res.FallbackUsed)
	assert.Equal(t, 1, logs.Len())
}

func TestGenerate_SerialExhausted(t *testing.T) {
	a := NewAllocator(&memoryLookup{codes: []string{"COJO23999"}}, zap.NewNop())

	_, err := a.Generate(context.Background(), "Cognizant", "John", 2023)
	assert.ErrorIs(t, err, ErrSerialExhausted)
}

func TestGenerate_LookupError(t *testing.T) {
	boom := errors.New("db down")
	a := NewAllocator(&memoryLookup{err: boom}, zap.NewNop())

	_, err := a.Generate(context.Background(), "Cognizant", "John", 2023)
	assert.ErrorIs(t, err, boom)
}

func TestTwoLetterCode(t *testing.T) {
	cases := map[string]string{
		"Cognizant":     "CO",
		"  j-o hn":      "JO",
		"3M":            "MX",
		"":              "XX",
		"1234 !!":       "XX",
		"é-Acme":        "AC",
		"a":             "AX",
		"o'Neil Brands": "ON",
	}
	for in, want := range cases {
		assert.Equal(t, want, TwoLetterCode(in), "input %q", in)
	}
}

func TestYearCode(t *testing.T) {
	assert.Equal(t, "23", YearCode(2023))
	assert.Equal(t, "05", YearCode(2005))
	assert.Equal(t, "00", YearCode(2000))
}

func TestNextSerial(t *testing.T) {
	n, ok := NextSerial("")
	assert.Equal(t, 1, n)
	assert.True(t, ok)

	n, ok = NextSerial("COJO23041")
	assert.Equal(t, 42, n)
	assert.True(t, ok)

	n, ok = NextSerial("C1")
	assert.Equal(t, 1, n)
	assert.False(t, ok)

	n, ok = NextSerial("COJO23+12")
	assert.Equal(t, 1, n)
	assert.False(t, ok)
}
