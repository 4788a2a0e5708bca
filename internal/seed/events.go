// Package seed holds the sample catalog loaded into empty stores.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Eursukkul/eventhub/internal/models"
	"github.com/Eursukkul/eventhub/internal/repository"
)

// Events returns the sample catalog, stamped as created by creatorID.
func Events(creatorID string) []models.Event {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []models.Event{
		{
			ID:          "1",
			Name:        "Tech Conference 2025",
			Description: "Join us for the premier tech conference of the year, featuring keynotes from industry leaders, workshops on cutting-edge technologies, and unparalleled networking opportunities.",
			Category:    "Conference",
			Date:        time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
			Venue:       "Grand Tech Center",
			Price:       299.99,
			ImageURL:    "https://images.unsplash.com/photo-1505373877841-8d25f7d46678?q=80&w=600&auto=format&fit=crop",
			Tags:        []string{"technology", "networking", "innovation"},
			Featured:    true,
		},
		{
			ID:          "2",
			Name:        "Summer Music Festival",
			Description: "Experience three days of amazing music across five stages with over 50 artists. Food, camping, and unforgettable memories included!",
			Category:    "Music",
			Date:        time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC),
			Venue:       "Riverside Park",
			Price:       149.99,
			ImageURL:    "https://images.unsplash.com/photo-1501281668745-f7f57925c3b4?q=80&w=600&auto=format&fit=crop",
			Tags:        []string{"music", "outdoor", "festival"},
			Featured:    true,
		},
		{
			ID:          "3",
			Name:        "Business Leadership Summit",
			Description: "Learn from top business leaders about innovation, management strategies, and future market trends in this exclusive summit.",
			Category:    "Business",
			Date:        time.Date(2025, 5, 10, 10, 0, 0, 0, time.UTC),
			Venue:       "Executive Convention Center",
			Price:       499.99,
			ImageURL:    "https://images.unsplash.com/photo-1491438590914-bc09fcaaf77a?q=80&w=600&auto=format&fit=crop",
			Tags:        []string{"business", "leadership", "networking"},
		},
		{
			ID:          "4",
			Name:        "Wellness Retreat",
			Description: "A weekend of mindfulness, yoga, meditation and healthy living workshops in a peaceful natural setting.",
			Category:    "Wellness",
			Date:        time.Date(2025, 8, 5, 8, 0, 0, 0, time.UTC),
			Venue:       "Mountain View Resort",
			Price:       349.99,
			ImageURL:    "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?q=80&w=600&auto=format&fit=crop",
			Tags:        []string{"wellness", "meditation", "yoga", "health"},
		},
		{
			ID:          "5",
			Name:        "Artificial Intelligence Expo",
			Description: "Discover the latest in AI technology, including demos, panel discussions, and hands-on experiences with cutting-edge innovations.",
			Category:    "Technology",
			Date:        time.Date(2025, 9, 15, 9, 0, 0, 0, time.UTC),
			Venue:       "Future Technologies Center",
			Price:       199.99,
			ImageURL:    "https://images.unsplash.com/photo-1485827404703-89b55fcc595e?q=80&w=600&auto=format&fit=crop",
			Tags:        []string{"technology", "AI", "innovation"},
			Featured:    true,
		},
		{
			ID:          "6",
			Name:        "Food & Wine Festival",
			Description: "Sample cuisines and beverages from top chefs and vineyards around the world at this delicious culinary celebration.",
			Category:    "Food",
			Date:        time.Date(2025, 6, 25, 17, 0, 0, 0, time.UTC),
			Venue:       "Central Park Gardens",
			Price:       85.00,
			ImageURL:    "https://images.unsplash.com/photo-1555244162-803834f70033?q=80&w=600&auto=format&fit=crop",
			Tags:        []string{"food", "wine", "culinary"},
		},
		{
			ID:          "7",
			Name:        "Digital Marketing Conference",
			Description: "Learn the latest strategies and tools in digital marketing from industry experts and successful practitioners.",
			Category:    "Conference",
			Date:        time.Date(2025, 10, 5, 9, 0, 0, 0, time.UTC),
			Venue:       "Digital Innovation Hub",
			Price:       249.99,
			ImageURL:    "https://images.unsplash.com/photo-1551836022-d5d88e9218df?q=80&w=600&auto=format&fit=crop",
			Tags:        []string{"marketing", "digital", "business"},
		},
		{
			ID:          "8",
			Name:        "Science Fiction Film Festival",
			Description: "A weekend celebrating the best in sci-fi cinema with screenings, director Q&As, and special effects demonstrations.",
			Category:    "Entertainment",
			Date:        time.Date(2025, 11, 15, 10, 0, 0, 0, time.UTC),
			Venue:       "Metropolis Cinema Complex",
			Price:       75.00,
			ImageURL:    "https://images.unsplash.com/photo-1536440136628-849c177e76a1?q=80&w=600&auto=format&fit=crop",
			Tags:        []string{"film", "entertainment", "science-fiction"},
		},
	}

	for i := range events {
		events[i].CreatedBy = creatorID
		// distinct timestamps keep the catalog order stable in SQL stores
		events[i].CreatedAt = base.Add(time.Duration(i) * time.Second)
		events[i].UpdatedAt = events[i].CreatedAt
	}
	return events
}

// Load inserts the sample catalog when repo is empty. It reports how many
// events were inserted.
func Load(ctx context.Context, repo repository.EventRepository, creatorID string) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	events := Events(creatorID)
	for i := range events {
		if err := repo.Create(ctx, &events[i]); err != nil {
			return i, fmt.Errorf("seed event %s: %w", events[i].ID, err)
		}
	}
	return len(events), nil
}
