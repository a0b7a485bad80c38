package rogue

import (
	"errors"
	"math/rand"
)

// ErrTargetGeneration is returned when a distinct start/target pair could
// not be produced within the retry bound.
var ErrTargetGeneration = errors.New("rogue: could not generate distinct start and target")

const pairRetryLimit = 100

// Article pools keyed by stage bracket, of increasing topical specificity.
var (
	poolStage1to3 = []string{
		"France", "Germany", "Japan", "Brazil", "Australia",
		"Basketball", "Football", "Tennis", "Swimming", "Chess",
		"Dog", "Cat", "Elephant", "Lion", "Eagle",
		"Pizza", "Chocolate", "Coffee", "Tea", "Rice",
		"Guitar", "Piano", "Violin", "Drums",
		"Mathematics", "Physics", "Chemistry", "Biology",
		"Leonardo da Vinci", "Albert Einstein", "William Shakespeare",
		"Mount Everest", "Pacific Ocean", "Amazon River",
		"Sun", "Moon", "Earth", "Mars",
	}

	poolStage4to6 = []string{
		"Helsinki", "Barcelona", "Tokyo", "Sydney", "Cairo",
		"UEFA Champions League", "NBA", "Wimbledon Championships",
		"Golden Retriever", "Persian cat", "African elephant",
		"Margherita pizza", "Dark chocolate", "Espresso",
		"Electric guitar", "Grand piano", "Acoustic guitar",
		"Calculus", "Quantum mechanics", "Organic chemistry",
		"Michelangelo", "Marie Curie", "Charles Darwin",
		"Great Barrier Reef", "Sahara Desert", "Alps",
		"Solar eclipse", "Black hole", "Supernova",
	}

	poolStage7to10 = []string{
		"Finnish language", "Flamenco", "Haiku", "Bauhaus",
		"Three-point field goal", "Offside (association football)",
		"Siberian Husky", "Ragdoll", "Blue whale",
		"Neapolitan pizza", "Belgian chocolate", "Cappuccino",
		"Fender Stratocaster", "Steinway & Sons", "Stradivarius",
		"Differential equation", "String theory", "DNA sequencing",
		"Vincent van Gogh", "Nikola Tesla", "Jane Austen",
		"Mariana Trench", "Atacama Desert", "K2",
		"Neutron star", "Higgs boson", "Exoplanet",
	}

	poolStage11plus = []string{
		"Uralic languages", "Twelve-tone technique", "Sonnet 18",
		"De Stijl", "Bauhaus Dessau", "Art Nouveau",
		"Pick and roll", "Tiki-taka", "Cruyff Turn",
		"Alaskan Malamute", "Birman", "Sperm whale",
		"San Marzano tomato", "Valrhona", "Flat white",
		"Gibson Les Paul", "Bösendorfer", "Guarneri",
		"Riemann hypothesis", "Loop quantum gravity", "CRISPR",
		"The Starry Night", "Alternating current", "Pride and Prejudice",
		"Challenger Deep", "Salar de Uyuni", "Kangchenjunga",
		"Magnetar", "Quark", "TRAPPIST-1",
	}
)

func poolForStage(stage int) []string {
	switch {
	case stage <= 3:
		return poolStage1to3
	case stage <= 6:
		return poolStage4to6
	case stage <= 10:
		return poolStage7to10
	default:
		return poolStage11plus
	}
}

// TargetForStage picks a target title uniformly at random from the bracket
// containing stage. Repeats across stages are permitted.
func TargetForStage(rng *rand.Rand, stage int) string {
	pool := poolForStage(stage)
	return pool[rng.Intn(len(pool))]
}

// RandomStartPage draws a start title, always from the easiest bracket.
func RandomStartPage(rng *rand.Rand) string {
	return poolStage1to3[rng.Intn(len(poolStage1to3))]
}

// StartAndTarget produces a distinct start/target pair for the stage.
func StartAndTarget(rng *rand.Rand, stage int) (start, target string, err error) {
	start = RandomStartPage(rng)
	for i := 0; i < pairRetryLimit; i++ {
		target = TargetForStage(rng, stage)
		if target != start {
			return start, target, nil
		}
	}
	return "", "", ErrTargetGeneration
}
