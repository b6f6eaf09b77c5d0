package anon

import (
	"math/rand"
	"sync"

	"github.com/go-faker/faker/v4"
)

type Gender int

const (
	Male Gender = iota
	Female
)

const FEMALE_LABEL = "Female"

// GenderFromLabel maps a Gender column value to the name corpus to draw from.
// Only the exact label "Female" selects the female corpus; every other value,
// including empty or unexpected labels, selects the male one.
func GenderFromLabel(label string) Gender {
	if label == FEMALE_LABEL {
		return Female
	}
	return Male
}

func (g Gender) String() string {
	if g == Female {
		return "Female"
	}
	return "Male"
}

// NameSource generates a synthetic full name for the given gender.
// Implementations must be safe for concurrent use.
type NameSource interface {
	Name(g Gender) string
}

// FakerNameSource draws names from the faker person corpus.
type FakerNameSource struct{}

func NewFakerNameSource() NameSource {
	return &FakerNameSource{}
}

func (s *FakerNameSource) Name(g Gender) string {
	var first string
	if g == Female {
		first = faker.FirstNameFemale()
	} else {
		first = faker.FirstNameMale()
	}
	return first + " " + faker.LastName()
}

// CorpusNameSource draws names from fixed corpora using a seeded generator,
// so the sequence of names is reproducible for a given seed.
type CorpusNameSource struct {
	female []string
	male   []string
	last   []string

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCorpusNameSource(seed int64) *CorpusNameSource {
	return NewCorpusNameSourceWith(seed, FemaleFirstNames, MaleFirstNames, LastNames)
}

func NewCorpusNameSourceWith(seed int64, female, male, last []string) *CorpusNameSource {
	return &CorpusNameSource{
		female: female,
		male:   male,
		last:   last,
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

func (s *CorpusNameSource) Name(g Gender) string {
	firstNames := s.male
	if g == Female {
		firstNames = s.female
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return firstNames[s.rnd.Intn(len(firstNames))] + " " + s.last[s.rnd.Intn(len(s.last))]
}

var FemaleFirstNames = []string{
	"Alice", "Amelia", "Anna", "Camille", "Charlotte", "Chloe", "Clara", "Elena",
	"Emily", "Emma", "Grace", "Hannah", "Isabella", "Julia", "Laura", "Lea",
	"Lucy", "Maria", "Mia", "Olivia", "Rose", "Sarah", "Sofia", "Zoe",
}

var MaleFirstNames = []string{
	"Adam", "Alexander", "Arthur", "Benjamin", "Daniel", "David", "Ethan", "Felix",
	"Gabriel", "Henry", "Hugo", "Jack", "James", "Leo", "Louis", "Lucas",
	"Mark", "Noah", "Oliver", "Paul", "Peter", "Samuel", "Thomas", "William",
}

var LastNames = []string{
	"Anderson", "Bailey", "Bennett", "Brooks", "Carter", "Clark", "Collins", "Cooper",
	"Davies", "Evans", "Fisher", "Foster", "Garcia", "Hughes", "Jenkins", "Kelly",
	"Lewis", "Martin", "Morgan", "Parker", "Reed", "Shaw", "Turner", "Walker",
}
