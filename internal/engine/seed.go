package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/musedating/muse-engine/internal/domain"
	"github.com/musedating/muse-engine/internal/random"
)

var (
	seedNames = []string{
		"Aisha", "Priya", "Ananya", "Sneha", "Riya", "Kavya", "Neha", "Pooja", "Shruti", "Divya",
		"Aditya", "Raj", "Arjun", "Vikram", "Arnav", "Aryan", "Karan", "Rohan", "Ishaan", "Dhruv",
		"Sarah", "Emma", "Olivia", "Ava", "Isabella", "Sophia", "Mia", "Charlotte", "Amelia", "Harper",
	}

	seedBios = []string{
		"Software Engineer | Coffee addict | Dog lover",
		"Marketing Professional | Travel enthusiast | Foodie",
		"Doctor by day | Dancer by night | Adventure seeker",
		"CA | Chess player | Book worm",
		"Designer | Nature lover | Coffee enthusiast",
		"MBA | Gym rat | Netflix binger",
		"Engineer | Music lover | Party animal",
		"Teacher | Art lover | Vegan foodie",
		"Chef | Travel blogger | Cat mom",
		"Photographer | Fashionista | Coffee lover",
		"Yoga instructor | Plant mom | Beach vibes",
		"Book worm | Cat person | Sarcasm is my superpower",
		"Nurse by profession | Wanderlust soul | Dog mom",
		"Artist | Coffee addict | Looking for my partner in crime",
	}

	seedInterests = []string{
		"Travel", "Music", "Food", "Fitness", "Reading", "Movies", "Art", "Cooking",
		"Photography", "Yoga", "Gaming", "Dancing", "Hiking", "Wine", "Coffee",
		"Fashion", "Tech", "Gym", "Nature",
	}

	seedPrompts = []domain.Prompt{
		{Question: "My simple pleasure", Answer: "Morning coffee on the balcony"},
		{Question: "I'm overly competitive about", Answer: "Board game nights"},
		{Question: "My type?", Answer: "Someone who makes me laugh"},
		{Question: "Ideal first date", Answer: "Something fun and adventurous"},
		{Question: "A fact about me", Answer: "I've been to 15 countries!"},
		{Question: "My simple pleasure", Answer: "Street food at night markets"},
		{Question: "I'm overly competitive about", Answer: "IPL cricket matches"},
		{Question: "My type?", Answer: "Someone who loves movie nights"},
	}

	seedCities = []string{
		"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Chennai", "Kolkata", "Pune",
		"Jaipur", "Goa", "Ahmedabad", "New York", "Los Angeles", "Chicago",
		"San Francisco", "Seattle",
	}
)

// generateCandidates builds the session's discovery feed. The feed is
// volatile and regenerated on every startup; ids are fresh each time, so
// they can never collide with persisted swipe records or matches.
func generateCandidates(n int, rnd random.Source) []domain.CandidateProfile {
	profiles := make([]domain.CandidateProfile, 0, n)
	for i := 0; i < n; i++ {
		photoIndex := (i * 7) % 99

		lastActive := "Now"
		if rnd.Float64() > 0.5 {
			lastActive = fmt.Sprintf("%dh ago", 1+rnd.IntN(24))
		}

		profiles = append(profiles, domain.CandidateProfile{
			ID:         uuid.NewString(),
			Name:       seedNames[i%len(seedNames)],
			Age:        21 + rnd.IntN(15),
			Bio:        seedBios[i%len(seedBios)],
			Photos:     seedPhotos(photoIndex),
			Interests:  pickInterests(rnd, 5),
			Prompts:    pickPrompts(rnd, 3),
			Location:   seedCities[i%len(seedCities)],
			Distance:   1 + rnd.IntN(30),
			Online:     rnd.Float64() > 0.6,
			LastActive: lastActive,
		})
	}
	return profiles
}

func seedPhotos(base int) []string {
	offsets := []int{0, 17, 23, 31, 41}
	photos := make([]string, 0, len(offsets))
	for _, off := range offsets {
		photos = append(photos, fmt.Sprintf("https://randomuser.me/api/portraits/%d.jpg", (base+off)%99))
	}
	return photos
}

func pickInterests(rnd random.Source, n int) []string {
	picked := make([]string, 0, n)
	seen := map[int]bool{}
	for len(picked) < n {
		idx := rnd.IntN(len(seedInterests))
		if seen[idx] {
			continue
		}
		seen[idx] = true
		picked = append(picked, seedInterests[idx])
	}
	return picked
}

func pickPrompts(rnd random.Source, n int) []domain.Prompt {
	picked := make([]domain.Prompt, 0, n)
	seen := map[int]bool{}
	for len(picked) < n {
		idx := rnd.IntN(len(seedPrompts))
		if seen[idx] {
			continue
		}
		seen[idx] = true
		picked = append(picked, seedPrompts[idx])
	}
	return picked
}
