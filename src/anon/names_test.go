//go:build unit

package anon

import (
	"strings"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenderFromLabel(t *testing.T) {
	assert.Equal(t, Female, GenderFromLabel("Female"))
	for _, label := range []string{"Male", "", "female", "FEMALE", " Female", "Other", "F"} {
		assert.Equal(t, Male, GenderFromLabel(label), "label %q", label)
	}
}

func TestCorpusNameSourceDrawsFromGenderCorpus(t *testing.T) {
	src := NewCorpusNameSource(42)
	for i := 0; i < 200; i++ {
		first, last := splitName(t, src.Name(Female))
		assert.True(t, lo.Contains(FemaleFirstNames, first), "female first name %q", first)
		assert.True(t, lo.Contains(LastNames, last), "last name %q", last)

		first, _ = splitName(t, src.Name(Male))
		assert.True(t, lo.Contains(MaleFirstNames, first), "male first name %q", first)
	}
}

func TestCorpusNameSourceIsDeterministicPerSeed(t *testing.T) {
	a := NewCorpusNameSource(7)
	b := NewCorpusNameSource(7)
	for i := 0; i < 50; i++ {
		g := Gender(i % 2)
		assert.Equal(t, a.Name(g), b.Name(g))
	}
}

func TestCorpusNameSourceConcurrentUse(t *testing.T) {
	src := NewCorpusNameSource(1)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.NotEmpty(t, src.Name(Female))
			}
		}()
	}
	wg.Wait()
}

func TestFakerNameSourceProducesFullName(t *testing.T) {
	src := NewFakerNameSource()
	for _, g := range []Gender{Female, Male} {
		name := src.Name(g)
		parts := strings.Fields(name)
		assert.GreaterOrEqual(t, len(parts), 2, "name %q", name)
		assert.NotContains(t, name, FIELD_DELIMITER)
	}
}

func splitName(t *testing.T, name string) (string, string) {
	t.Helper()
	parts := strings.SplitN(name, " ", 2)
	require.Len(t, parts, 2)
	return parts[0], parts[1]
}
