package tagging

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

func TestAggregate_EmptyInput(t *testing.T) {
	tags := Aggregate("", domain.EntityResult{})

	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}

func TestAggregate_Deterministic(t *testing.T) {
	text := `Founded 1898 by "The Old Guard" on March 3, 1901 at 10:30 AM; call (814) 555-1234.`
	entities := domain.EntityResult{People: []string{"Alice"}, Topics: []string{"History"}}

	first := Aggregate(text, entities)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Aggregate(text, entities))
	}
}

func TestAggregate_CapAndNoDuplicates(t *testing.T) {
	var people []string
	for i := 0; i < 30; i++ {
		people = append(people, fmt.Sprintf("Person %02d", i))
	}
	people = append(people, "Person 00", "Person 01")

	tags := Aggregate("1901 1902 1903 1904", domain.EntityResult{People: people})

	assert.Len(t, tags, domain.MaxTags)
	seen := make(map[string]bool)
	for _, tag := range tags {
		assert.False(t, seen[tag], "duplicate tag %q", tag)
		seen[tag] = true
	}
}

func TestAggregate_EntitiesPrecedePatterns(t *testing.T) {
	tags := Aggregate("Established 1995.", domain.EntityResult{People: []string{"Alice"}})

	require.Equal(t, []string{"Alice", "1995"}, tags)
}

func TestAggregate_FixedPrecedence(t *testing.T) {
	entities := domain.EntityResult{
		People:        []string{"Ada Lovelace"},
		Places:        []string{"London"},
		Organizations: []string{"Royal Society"},
		Topics:        []string{"Mathematics"},
	}
	text := `In 1843 on July 4, 1843 at 9:15 pm for $120 call 555-123-4567 ` +
		`or ada@example.org about "Analytical Engine"`

	tags := Aggregate(text, entities)

	assert.Equal(t, []string{
		"Ada Lovelace",
		"London",
		"Royal Society",
		"Mathematics",
		"1843",
		"July 4, 1843",
		"9:15 pm",
		"555-123-4567",
		"ada@example.org",
		"example.org",
		"Analytical Engine",
	}, tags)
}

func TestAggregate_ShortTokenFilter(t *testing.T) {
	tags := Aggregate("Copyright 1999", domain.EntityResult{People: []string{"Hi", "Jo"}})

	assert.NotContains(t, tags, "Hi")
	assert.NotContains(t, tags, "Jo")
	assert.Contains(t, tags, "1999")
}

func TestAggregate_DropsNonAlphabeticWithoutYear(t *testing.T) {
	tags := Aggregate("Fee $40 due 10:30", domain.EntityResult{Organizations: []string{"123", "  "}})

	assert.Empty(t, tags)
}

func TestAggregate_KeepsNumericDates(t *testing.T) {
	tags := Aggregate("Signed 3/4/1922", domain.EntityResult{})

	assert.Equal(t, []string{"1922", "3/4/1922"}, tags)
}

func TestAggregate_TopicsTruncatedToThree(t *testing.T) {
	entities := domain.EntityResult{
		Topics: []string{"Art", "Music", "Dance", "Theatre", "Poetry"},
	}

	tags := Aggregate("", entities)

	assert.Equal(t, []string{"Art", "Music", "Dance"}, tags)
}

func TestAggregate_PatternCategoryCaps(t *testing.T) {
	text := "1901 1902 1903 1904 1905 " +
		"a@one.org b@two.org " +
		"555-111-2222 555-333-4444 " +
		`"First One" "Second One" "Third One" "Fourth One"`

	tags := Aggregate(text, domain.EntityResult{})

	assert.Equal(t, []string{"1901", "1902", "1903"}, tags[:3])
	assert.Contains(t, tags, "555-111-2222")
	assert.NotContains(t, tags, "555-333-4444")
	assert.Contains(t, tags, "a@one.org")
	assert.NotContains(t, tags, "b@two.org")
	assert.Contains(t, tags, "Third One")
	assert.NotContains(t, tags, "Fourth One")
}

func TestAggregate_ScenarioContactDetails(t *testing.T) {
	text := "Visit us at info@museum.org or call (814) 555-1234. Founded in 1898."

	tags := Aggregate(text, domain.EntityResult{})

	year := indexOf(tags, "1898")
	phone := indexOf(tags, "(814) 555-1234")
	email := indexOf(tags, "info@museum.org")
	require.NotEqual(t, -1, year)
	require.NotEqual(t, -1, phone)
	require.NotEqual(t, -1, email)
	assert.Less(t, year, phone)
	assert.Less(t, phone, email)
	assert.LessOrEqual(t, len(tags), domain.MaxTags)
}

func TestAggregate_DedupIsCaseSensitive(t *testing.T) {
	tags := Aggregate("", domain.EntityResult{
		People: []string{"Boston Globe"},
		Places: []string{"boston globe", "Boston Globe"},
	})

	assert.Equal(t, []string{"Boston Globe", "boston globe"}, tags)
}

func TestAggregate_CountsCharactersNotBytes(t *testing.T) {
	tags := Aggregate("", domain.EntityResult{People: []string{"Zoë", strings.Repeat("é", 2)}})

	assert.Equal(t, []string{"Zoë"}, tags)
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
